package dataset

// MergeByID combines two record sets. A record in raw replaces the record in
// clean with the same ID, keeping its position; the result lists IDs in the
// order they were first seen. Records without an ID are never merged.
func MergeByID(clean, raw []Record) []Record {
	out := make([]Record, 0, len(clean)+len(raw))
	pos := make(map[string]int, len(clean)+len(raw))

	add := func(r Record) {
		if r.ID == "" {
			out = append(out, r)
			return
		}
		if i, ok := pos[r.ID]; ok {
			out[i] = r
			return
		}
		pos[r.ID] = len(out)
		out = append(out, r)
	}
	for _, r := range clean {
		add(r)
	}
	for _, r := range raw {
		add(r)
	}
	return out
}
