package scorer

import (
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/semtab-eval/internal/annotation"
	"github.com/DjordjeVuckovic/semtab-eval/internal/reader"
)

// edges maps a node to its direct parents.
type edges map[string][]string

// loadEdges reads "child,parent" rows. Extra columns name further parents.
func loadEdges(r io.Reader, norm annotation.Normalizer) (edges, error) {
	normalize := norm.Func()
	g := make(edges)
	err := reader.NewCSVReader(r).Each(func(rec reader.Record) error {
		ids := annotation.SplitIdentifiers(rec.Fields, normalize)
		if len(ids) < 2 {
			return fmt.Errorf("line %d: expected child and parent", rec.Line)
		}
		child := ids[0]
		for _, parent := range ids[1:] {
			if parent != child {
				g[child] = append(g[child], parent)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// distance returns the length of the shortest upward path from -> to, not
// looking further than maxDepth. maxDepth <= 0 means unbounded.
func (g edges) distance(from, to string, maxDepth int) (int, bool) {
	if from == to {
		return 0, true
	}
	visited := map[string]bool{from: true}
	frontier := []string{from}
	for depth := 1; len(frontier) > 0; depth++ {
		if maxDepth > 0 && depth > maxDepth {
			return 0, false
		}
		var next []string
		for _, n := range frontier {
			for _, p := range g[n] {
				if p == to {
					return depth, true
				}
				if !visited[p] {
					visited[p] = true
					next = append(next, p)
				}
			}
		}
		frontier = next
	}
	return 0, false
}
