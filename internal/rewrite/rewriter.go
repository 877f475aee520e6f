// Package rewrite produces a rewritten document whose references point into
// the materialized asset directory.
//
// Rewriting is span-based: each reference carries the byte range of its path
// text, and replacements are applied back-to-front via an explicit edit list
// so earlier substitutions never corrupt later offsets.
package rewrite

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/reportable/internal/assets"
	"git.home.luguber.info/inful/reportable/internal/document"
	"git.home.luguber.info/inful/reportable/internal/errors"
	"git.home.luguber.info/inful/reportable/internal/scanner"
)

// Rewrite returns new document text in which every reference's path text is
// replaced by its mapped destination, expressed relative to the rewritten
// document's own location (the asset directory's parent).
//
// The original document is never modified. Before an edit is recorded, the
// text at the reference's span is checked against the recorded raw path; a
// mismatch aborts the rewrite rather than producing corrupted output.
func Rewrite(doc *document.Document, refs []scanner.Reference, mapping *assets.Mapping, assetsDir string) ([]byte, error) {
	edits := make([]Edit, 0, len(refs))

	for _, ref := range refs {
		if ref.Start < 0 || ref.End > len(doc.Text) || ref.Start > ref.End {
			return nil, errors.RewriteInconsistency(ref.RawPath, ref.Start)
		}
		if string(doc.Text[ref.Start:ref.End]) != ref.RawPath {
			return nil, errors.RewriteInconsistency(ref.RawPath, ref.Start)
		}

		dest, ok := mapping.Lookup(ref.AbsPath)
		if !ok {
			// A reference survived scanning but was never materialized;
			// rewriting it would point at a file absent from the assets.
			return nil, errors.RewriteInconsistency(ref.AbsPath, ref.Start)
		}

		replacement := path.Join(assetsDir, dest) + fragmentOf(ref.RawPath)
		edits = append(edits, Edit{
			Start:       ref.Start,
			End:         ref.End,
			Replacement: []byte(replacement),
		})
	}

	out, err := ApplyEdits(doc.Text, edits)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRewrite, "failed to apply reference edits").
			WithContext("path", doc.Path)
	}
	return out, nil
}

// fragmentOf returns the `#...` suffix of a reference target, if any, so it
// survives the path substitution.
func fragmentOf(target string) string {
	if idx := strings.Index(target, "#"); idx != -1 {
		return target[idx:]
	}
	return ""
}
