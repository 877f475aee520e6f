package rewrite

import (
	"errors"
	"fmt"
	"sort"
)

// Edit is a single byte-range replacement in a document.
//
// Start and End are offsets into the text the edit was computed against, End
// exclusive; Replacement substitutes source[Start:End].
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits returns source with every edit applied.
//
// All offsets refer to the original source, so edits are applied rightmost
// first: replacements of a different length then cannot shift the spans of
// edits earlier in the document. Ranges must not overlap.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start > sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < 0 {
			return nil, fmt.Errorf("edit %d: negative offset", i)
		}
		if e.End < e.Start {
			return nil, fmt.Errorf("edit %d: end precedes start", i)
		}
		if e.End > len(source) {
			return nil, fmt.Errorf("edit %d: span exceeds document length", i)
		}
		if i > 0 {
			// Sorted by Start descending, so each edit must end at or before
			// the start of the one checked previously.
			if e.End > sorted[i-1].Start {
				return nil, errors.New("edits have overlapping spans")
			}
		}
	}

	out := append([]byte(nil), source...)
	for _, e := range sorted {
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Replacement))
		next = append(next, out[:e.Start]...)
		next = append(next, e.Replacement...)
		next = append(next, out[e.End:]...)
		out = next
	}

	return out, nil
}
