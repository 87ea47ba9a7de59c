package annotation

// AcceptedSet lists the identifiers that count as correct for one key. The
// first entry is the primary answer.
type AcceptedSet []string

func NewAcceptedSet(ids []string) AcceptedSet {
	seen := make(map[string]struct{}, len(ids))
	out := make(AcceptedSet, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s AcceptedSet) Primary() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func (s AcceptedSet) Contains(id string) bool {
	if id == "" {
		return false
	}
	for _, a := range s {
		if a == id {
			return true
		}
	}
	return false
}

// Submitted is the ranked list of identifiers a participant gave for one key.
type Submitted []string

// Top returns at most k leading identifiers.
func (s Submitted) Top(k int) Submitted {
	if k <= 0 || len(s) == 0 {
		return nil
	}
	return s[:min(k, len(s))]
}

func (s Submitted) First() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
