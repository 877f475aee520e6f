package scanner

import (
	"bytes"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuartoMatcher finds references in Quarto (.qmd) documents: everything the
// Markdown matcher finds in the body, plus file paths named by scalar values
// in the YAML front matter (e.g. `image: figures/cover.png`).
type QuartoMatcher struct{}

func (m *QuartoMatcher) Name() string { return "quarto" }

func (m *QuartoMatcher) Match(body []byte) ([]Match, error) {
	fm, fmStart := splitFrontMatter(body)

	matches, err := (&MarkdownMatcher{}).Match(body)
	if err != nil {
		return nil, err
	}

	if fm != nil {
		fmMatches, err := matchFrontMatterPaths(fm, fmStart)
		if err != nil {
			// Malformed front matter is a document problem the body scan
			// already tolerates; skip front matter references.
			return matches, nil
		}
		matches = append(matches, fmMatches...)
	}

	return matches, nil
}

// splitFrontMatter returns the raw YAML front matter block (without `---`
// delimiters) and its byte offset into the document, or nil if none.
func splitFrontMatter(content []byte) ([]byte, int) {
	open := []byte("---\n")
	if !bytes.HasPrefix(content, open) {
		return nil, 0
	}

	start := len(open)
	closeSeq := []byte("\n---")
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, 0
	}

	return content[start : start+idx+1], start
}

// matchFrontMatterPaths walks the YAML node tree and emits a match for every
// scalar string that looks like a file path. Node line/column positions are
// mapped back to byte offsets in the original document.
func matchFrontMatterPaths(fm []byte, fmStart int) ([]Match, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(fm, &root); err != nil {
		return nil, err
	}

	lineOffsets := buildLineOffsets(fm)

	var matches []Match
	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
			if m, ok := scalarPathMatch(fm, lineOffsets, n, fmStart); ok {
				matches = append(matches, m)
			}
		}
		for _, child := range n.Content {
			walk(child)
		}
	}
	walk(&root)

	return matches, nil
}

func scalarPathMatch(fm []byte, lineOffsets []int, n *yaml.Node, fmStart int) (Match, bool) {
	value := n.Value
	if !looksLikeFilePath(value) {
		return Match{}, false
	}

	if n.Line < 1 || n.Line > len(lineOffsets) {
		return Match{}, false
	}

	// Column points at the start of the scalar, which for quoted values is
	// the quote character. Locate the exact value text on the node's line.
	lineStart := lineOffsets[n.Line-1]
	lineEnd := len(fm)
	if n.Line < len(lineOffsets) {
		lineEnd = lineOffsets[n.Line]
	}
	line := string(fm[lineStart:lineEnd])

	col := n.Column - 1
	if col < 0 || col > len(line) {
		return Match{}, false
	}

	rel := strings.Index(line[col:], value)
	if rel == -1 {
		return Match{}, false
	}

	start := fmStart + lineStart + col + rel
	return Match{
		Start:   start,
		End:     start + len(value),
		RawPath: value,
		Kind:    RefKindFrontMatter,
	}, true
}

// looksLikeFilePath reports whether a front matter scalar plausibly names a
// file: no whitespace and a short alphanumeric extension. Prose values like
// "A. Person" must not qualify.
func looksLikeFilePath(value string) bool {
	if value == "" || strings.ContainsAny(value, " \t\n") {
		return false
	}
	ext := filepath.Ext(value)
	if len(ext) < 2 || len(ext) > 8 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func buildLineOffsets(data []byte) []int {
	offsets := []int{0}
	for i, b := range data {
		if b == '\n' && i+1 < len(data) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
