package storage

import "sort"

// Outranks reports whether a places above b: higher F1, then higher
// precision, then the earlier submission.
func Outranks(a, b Record) bool {
	aMain, aSecond := a.Payload.MainScore()
	bMain, bSecond := b.Payload.MainScore()
	if aMain != bMain {
		return aMain > bMain
	}
	if aSecond != bSecond {
		return aSecond > bSecond
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// BestPerParticipant keeps the top record of every participant and returns
// them ranked, cut to limit when limit is positive.
func BestPerParticipant(records []Record, limit int) []Record {
	best := make(map[string]Record, len(records))
	for _, r := range records {
		cur, ok := best[r.Participant]
		if !ok || Outranks(r, cur) {
			best[r.Participant] = r
		}
	}

	out := make([]Record, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if Outranks(out[i], out[j]) {
			return true
		}
		if Outranks(out[j], out[i]) {
			return false
		}
		return out[i].Participant < out[j].Participant
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
