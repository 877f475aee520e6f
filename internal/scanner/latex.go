package scanner

import "regexp"

// includeGraphicsPattern matches \includegraphics{path} with an optional
// options block. The first capture group is the path.
var includeGraphicsPattern = regexp.MustCompile(`\\includegraphics(?:\[[^\]]*\])?\{([^}]+)\}`)

// LaTeXMatcher finds \includegraphics constructs in LaTeX text.
//
// Multi-file structures (\input, \include) are out of scope: the document is
// treated as a single self-contained file.
type LaTeXMatcher struct{}

func (m *LaTeXMatcher) Name() string { return "latex" }

func (m *LaTeXMatcher) Match(body []byte) ([]Match, error) {
	idxs := includeGraphicsPattern.FindAllSubmatchIndex(body, -1)

	matches := make([]Match, 0, len(idxs))
	for _, idx := range idxs {
		start, end := idx[2], idx[3]
		matches = append(matches, Match{
			Start:   start,
			End:     end,
			RawPath: string(body[start:end]),
			Kind:    RefKindIncludeGfx,
		})
	}
	return matches, nil
}
