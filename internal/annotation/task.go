package annotation

import (
	"strings"

	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
)

type Task string

const (
	CEA Task = "CEA"
	CPA Task = "CPA"
	CTA Task = "CTA"
)

var Tasks = []Task{CEA, CPA, CTA}

// ParseTask accepts a task name in any letter case.
func ParseTask(name string) (Task, error) {
	t := Task(strings.ToUpper(strings.TrimSpace(name)))
	switch t {
	case CEA, CPA, CTA:
		return t, nil
	}
	return "", apperr.UnknownTask(name)
}

// KeyColumns is the number of leading CSV columns that form the key.
func (t Task) KeyColumns() int {
	switch t {
	case CEA, CPA:
		return 3
	case CTA:
		return 2
	}
	return 0
}

func (t Task) Lower() string {
	return strings.ToLower(string(t))
}

// Round is a ground truth snapshot number, starting at 1.
type Round int

func (r Round) Valid() bool {
	return r >= 1
}
