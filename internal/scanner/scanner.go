// Package scanner finds local file references in a report document.
//
// Reference recognition is dialect-specific and implemented behind the
// Matcher interface; the Scan entry point is dialect-agnostic and only
// resolves, filters, and orders what matchers produce.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/reportable/internal/document"
	"git.home.luguber.info/inful/reportable/internal/errors"
)

// RefKind identifies the dialect construct a reference was found in.
type RefKind string

const (
	RefKindImage        RefKind = "image"
	RefKindLink         RefKind = "link"
	RefKindReferenceDef RefKind = "reference_definition"
	RefKindIncludeGfx   RefKind = "includegraphics"
	RefKindFrontMatter  RefKind = "front_matter"
)

// Match is a raw matcher hit: the byte span of the path text inside the
// document and the path exactly as written. Start/End delimit only the path
// substring, never the surrounding construct syntax.
type Match struct {
	Start   int
	End     int
	RawPath string
	Kind    RefKind
}

// Matcher produces candidate matches for one markup dialect.
type Matcher interface {
	Name() string
	Match(text []byte) ([]Match, error)
}

// Reference is a detected local-file reference, resolved against the
// document's base directory. Immutable after scanning.
type Reference struct {
	Match
	// AbsPath is the resolved absolute path of the referenced file.
	AbsPath string
}

// MatcherFor returns the matcher for a document dialect.
func MatcherFor(d document.Dialect) (Matcher, bool) {
	switch d {
	case document.DialectMarkdown:
		return &MarkdownMatcher{}, true
	case document.DialectQuarto:
		return &QuartoMatcher{}, true
	case document.DialectLaTeX:
		return &LaTeXMatcher{}, true
	}
	return nil, false
}

// Scanner resolves matcher output into ordered references.
type Scanner struct {
	exts map[string]bool
}

// New creates a Scanner that recognizes the given file extensions
// (lowercase, with leading dot) as local media references.
func New(extensions []string) *Scanner {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Scanner{exts: exts}
}

// Scan finds local file references in doc, in order of first appearance.
//
// References whose resolved path does not exist are reported as MissingAsset
// issues, and recognized references to files outside the supported extension
// set as UnsupportedReference warnings; scanning continues and the caller
// decides whether to abort. Scan only reads the document text and probes the
// filesystem for existence.
func (s *Scanner) Scan(doc *document.Document) ([]Reference, []*errors.ReportableError, error) {
	matcher, ok := MatcherFor(doc.Dialect)
	if !ok {
		return nil, nil, errors.New(errors.CategoryValidation, errors.SeverityFatal,
			"no matcher for dialect").WithContext("dialect", string(doc.Dialect))
	}

	matches, err := matcher.Match(doc.Text)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryValidation, "reference matching failed").
			WithContext("path", doc.Path)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })

	var refs []Reference
	var issues []*errors.ReportableError
	seenSpans := make(map[int]bool)

	for _, m := range matches {
		// Matchers may overlap (e.g. the Quarto matcher layers on Markdown);
		// keep the first match per span.
		if seenSpans[m.Start] {
			continue
		}

		raw := strings.TrimSpace(m.RawPath)
		if raw == "" || isRemote(raw) || strings.HasPrefix(raw, "#") {
			continue
		}
		seenSpans[m.Start] = true

		// A recognized construct pointing at a local file we will not copy is
		// worth surfacing: the reference survives rewriting unchanged and may
		// dangle in the target directory.
		if !s.exts[strings.ToLower(filepath.Ext(stripFragment(raw)))] {
			issues = append(issues, errors.UnsupportedReference(raw))
			continue
		}

		abs := stripFragment(raw)
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(doc.Dir, abs)
		}
		abs = filepath.Clean(abs)

		if _, err := os.Stat(abs); err != nil {
			if os.IsNotExist(err) {
				issues = append(issues, errors.MissingAsset(abs))
			} else {
				issues = append(issues, errors.SourceUnreadable(abs, err))
			}
			continue
		}

		refs = append(refs, Reference{Match: m, AbsPath: abs})
	}

	return refs, issues, nil
}

// isRemote reports whether a reference target is scheme-prefixed and
// therefore not a local filesystem path.
func isRemote(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "ftp://") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:")
}

func stripFragment(target string) string {
	if idx := strings.Index(target, "#"); idx != -1 {
		return target[:idx]
	}
	return target
}
