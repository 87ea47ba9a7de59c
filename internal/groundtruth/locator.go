// Package groundtruth resolves which ground truth files apply to a task in a
// given round.
package groundtruth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/apperr"
	"github.com/DjordjeVuckovic/semtab-eval/internal/blob"
)

// Files names the sources used to score one task in one round. Hierarchy and
// Relations are optional.
type Files struct {
	Task        annotation.Task
	Round       annotation.Round
	GroundTruth string
	Hierarchy   string
	Relations   string
}

type Locator interface {
	Resolve(task annotation.Task, round annotation.Round) (Files, error)
}

// Open picks a locator from the shape of ref: a YAML manifest, a directory
// laid out as round<N>/<task>_gt.csv, or a single file valid for round 1.
func Open(ctx context.Context, ref string, opener blob.Opener) (Locator, error) {
	if ref == "" {
		return nil, apperr.NewValidation("ground truth reference is empty")
	}

	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		return LoadManifest(ctx, ref, opener)
	}

	if !blob.IsS3(ref) {
		info, err := os.Stat(ref)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat ground truth %s: %w", ref, err)
		}
		if err == nil && info.IsDir() {
			return &DirLocator{dir: ref}, nil
		}
	}
	return &FileLocator{ref: ref}, nil
}

// FileLocator serves one ground truth file as round 1 of any task.
type FileLocator struct {
	ref string
}

func (l *FileLocator) Resolve(task annotation.Task, round annotation.Round) (Files, error) {
	if round != 1 {
		return Files{}, apperr.UnknownRound(int(round), "single ground truth file only covers round 1")
	}
	return Files{Task: task, Round: round, GroundTruth: l.ref}, nil
}

type DirLocator struct {
	dir string
}

func (l *DirLocator) Resolve(task annotation.Task, round annotation.Round) (Files, error) {
	if !round.Valid() {
		return Files{}, apperr.UnknownRound(int(round), "rounds start at 1")
	}
	roundDir := filepath.Join(l.dir, fmt.Sprintf("round%d", round))
	gt := filepath.Join(roundDir, task.Lower()+"_gt.csv")
	if !exists(gt) {
		return Files{}, apperr.UnknownRound(int(round), fmt.Sprintf("no %s ground truth in %s", task, roundDir))
	}

	files := Files{Task: task, Round: round, GroundTruth: gt}
	switch task {
	case annotation.CTA:
		if p := filepath.Join(roundDir, "cta_hierarchy.csv"); exists(p) {
			files.Hierarchy = p
		}
	case annotation.CPA:
		if p := filepath.Join(roundDir, "cpa_relations.csv"); exists(p) {
			files.Relations = p
		}
	}
	return files, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
