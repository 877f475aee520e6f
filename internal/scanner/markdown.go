package scanner

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownMatcher finds image embeds, inline links, and reference link
// definitions in Markdown text.
//
// Spans come from a line-oriented scan that tracks byte offsets and skips
// fenced blocks, indented code, and inline code spans. A Goldmark parse acts
// as the arbiter of which destinations are real link constructs, so scan hits
// in contexts CommonMark does not treat as links are discarded.
type MarkdownMatcher struct{}

func (m *MarkdownMatcher) Name() string { return "markdown" }

func (m *MarkdownMatcher) Match(body []byte) ([]Match, error) {
	accepted := goldmarkDestinations(body)

	matches := scanMarkdownSpans(body)
	out := make([]Match, 0, len(matches))
	for _, match := range matches {
		if accepted[match.RawPath] {
			out = append(out, match)
		}
	}
	return out, nil
}

// goldmarkDestinations parses body and collects every destination that
// Goldmark recognizes as a link, image, or reference definition.
func goldmarkDestinations(body []byte) map[string]bool {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	dests := make(map[string]bool)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			dests[string(node.Destination)] = true
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			dests[string(node.Destination)] = true
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions are stored in the parse context (not represented as AST nodes).
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		dests[string(ref.Destination())] = true
	}

	return dests
}

// scanMarkdownSpans walks the text line by line, producing candidate matches
// with exact byte spans for the path substring of each construct.
func scanMarkdownSpans(body []byte) []Match {
	lines := strings.SplitAfter(string(body), "\n")

	inCodeBlock := false
	activeFence := ""
	offset := 0

	out := make([]Match, 0)
	for _, line := range lines {
		lineStart := offset
		offset += len(line)

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		// Masking keeps offsets stable while hiding inline code spans.
		clean := maskInlineCodeSpans(line)

		out = append(out, matchInlineConstructs(clean, lineStart)...)
		out = append(out, matchReferenceDefinition(clean, lineStart)...)
	}

	return out
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

// maskInlineCodeSpans replaces inline code spans (including their backtick
// delimiters) with spaces, preserving the byte length of the line.
func maskInlineCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	buf := []byte(s)
	for i := 0; i < len(buf); {
		if buf[i] != '`' {
			i++
			continue
		}

		run := 1
		for i+run < len(buf) && buf[i+run] == '`' {
			run++
		}

		marker := strings.Repeat("`", run)
		closeRel := strings.Index(string(buf[i+run:]), marker)
		if closeRel == -1 {
			// Unclosed code span; keep the backticks and continue.
			i += run
			continue
		}

		end := i + run + closeRel + run
		for j := i; j < end; j++ {
			buf[j] = ' '
		}
		i = end
	}

	return string(buf)
}

// matchInlineConstructs finds `](dest)` sequences on a masked line and emits
// a match for the destination span. Both links and image embeds share the
// `](...)` shape; the leading `![` only affects the construct kind.
func matchInlineConstructs(line string, lineStart int) []Match {
	matches := make([]Match, 0)

	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' {
			continue
		}

		openText := findLinkTextStart(line, i)
		if openText == -1 {
			continue
		}

		destStart := i + 2
		destEnd := strings.Index(line[destStart:], ")")
		if destEnd == -1 {
			continue
		}
		destEnd += destStart

		kind := RefKindLink
		if openText > 0 && line[openText-1] == '!' {
			kind = RefKindImage
		}

		raw := line[destStart:destEnd]
		// A trailing title (`dest "title"`) is not part of the path.
		if before, _, ok := strings.Cut(raw, " \""); ok {
			raw = before
			destEnd = destStart + len(raw)
		} else if before, _, ok := strings.Cut(raw, " '"); ok {
			raw = before
			destEnd = destStart + len(raw)
		}

		if strings.TrimSpace(raw) == "" {
			continue
		}

		matches = append(matches, Match{
			Start:   lineStart + destStart,
			End:     lineStart + destEnd,
			RawPath: raw,
			Kind:    kind,
		})
	}

	return matches
}

func findLinkTextStart(line string, closeBracketPos int) int {
	for j := closeBracketPos - 1; j >= 0; j-- {
		if line[j] == '[' {
			return j
		}
	}
	return -1
}

// matchReferenceDefinition finds `[label]: dest` lines.
func matchReferenceDefinition(line string, lineStart int) []Match {
	trimmed := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmed)
	if !strings.HasPrefix(trimmed, "[") {
		return nil
	}

	label, after, ok := strings.Cut(trimmed, "]:")
	if !ok {
		return nil
	}

	// Footnote definitions look like: [^1]: ...
	// They are not Markdown reference link definitions and must not be treated as links.
	if strings.HasPrefix(strings.TrimSpace(label), "[^") {
		return nil
	}

	afterStart := indent + len(label) + len("]:")
	rest := strings.TrimLeft(after, " \t")
	destStart := afterStart + (len(after) - len(rest))
	rest = strings.TrimRight(rest, " \t\r\n")
	if rest == "" {
		return nil
	}

	raw := rest
	if before, _, ok := strings.Cut(rest, " \""); ok {
		raw = before
	} else if before, _, ok := strings.Cut(rest, " '"); ok {
		raw = before
	}
	raw = strings.TrimRight(raw, " \t")
	if raw == "" {
		return nil
	}

	return []Match{{
		Start:   lineStart + destStart,
		End:     lineStart + destStart + len(raw),
		RawPath: raw,
		Kind:    RefKindReferenceDef,
	}}
}
