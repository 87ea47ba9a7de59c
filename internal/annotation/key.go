package annotation

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// NoIndex marks a coordinate the task does not use.
const NoIndex = -1

// Key identifies one scorable unit. CEA uses (Table, Row, Col), CTA uses
// (Table, Col) and CPA uses (Table, Col, TailCol).
type Key struct {
	Table   string
	Row     int
	Col     int
	TailCol int
}

func CellKey(table string, row, col int) Key {
	return Key{Table: table, Row: row, Col: col, TailCol: NoIndex}
}

func ColumnKey(table string, col int) Key {
	return Key{Table: table, Row: NoIndex, Col: col, TailCol: NoIndex}
}

func ColumnPairKey(table string, head, tail int) Key {
	return Key{Table: table, Row: NoIndex, Col: head, TailCol: tail}
}

func (k Key) String() string {
	switch {
	case k.Row != NoIndex:
		return fmt.Sprintf("%s/%d/%d", k.Table, k.Row, k.Col)
	case k.TailCol != NoIndex:
		return fmt.Sprintf("%s/%d->%d", k.Table, k.Col, k.TailCol)
	default:
		return fmt.Sprintf("%s/%d", k.Table, k.Col)
	}
}

func CompareKeys(a, b Key) int {
	if c := strings.Compare(a.Table, b.Table); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Col, b.Col); c != 0 {
		return c
	}
	return cmp.Compare(a.TailCol, b.TailCol)
}

// ParseKey builds the task's key from the leading record fields.
func ParseKey(task Task, fields []string) (Key, error) {
	n := task.KeyColumns()
	if n == 0 {
		return Key{}, fmt.Errorf("task %q has no key layout", task)
	}
	if len(fields) < n {
		return Key{}, fmt.Errorf("expected at least %d key columns, got %d", n, len(fields))
	}

	table := strings.TrimSpace(fields[0])
	if table == "" {
		return Key{}, fmt.Errorf("empty table id")
	}

	idx := make([]int, n-1)
	for i := range idx {
		v, err := parseIndex(fields[i+1])
		if err != nil {
			return Key{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		idx[i] = v
	}

	switch task {
	case CEA:
		return CellKey(table, idx[0], idx[1]), nil
	case CPA:
		return ColumnPairKey(table, idx[0], idx[1]), nil
	default:
		return ColumnKey(table, idx[0]), nil
	}
}

func parseIndex(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative index %d", v)
	}
	return v, nil
}
