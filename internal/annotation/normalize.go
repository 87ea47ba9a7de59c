package annotation

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	WikidataEntityPrefix   = "http://www.wikidata.org/entity/"
	WikidataPropertyPrefix = "http://www.wikidata.org/prop/direct/"
)

var DefaultPrefixes = []string{WikidataEntityPrefix, WikidataPropertyPrefix}

// Normalizer turns raw identifiers into their comparable form: trimmed,
// unwrapped from <...>, case folded and stripped of a known URI prefix.
type Normalizer struct {
	Prefixes []string
	KeepCase bool
}

func DefaultNormalizer() Normalizer {
	return Normalizer{Prefixes: DefaultPrefixes}
}

// Func returns a normalising function. The function is not safe for
// concurrent use; call Func once per goroutine.
func (n Normalizer) Func() func(string) string {
	fold := cases.Fold()
	prefixes := make([]string, 0, len(n.Prefixes))
	for _, p := range n.Prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !n.KeepCase {
			p = fold.String(p)
		}
		prefixes = append(prefixes, p)
	}

	return func(id string) string {
		id = strings.TrimSpace(id)
		id = strings.TrimSuffix(strings.TrimPrefix(id, "<"), ">")
		if !n.KeepCase {
			id = fold.String(id)
		}
		for _, p := range prefixes {
			if strings.HasPrefix(id, p) {
				id = strings.TrimPrefix(id, p)
				break
			}
		}
		return strings.TrimSpace(id)
	}
}

// SplitIdentifiers expands identifier fields that may hold several
// whitespace separated values.
func SplitIdentifiers(fields []string, norm func(string) string) []string {
	var ids []string
	for _, f := range fields {
		for _, part := range strings.Fields(f) {
			if id := norm(part); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
