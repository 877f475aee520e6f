// Package document models a report document: its text, its directory context
// used to resolve relative references, and its markup dialect.
package document

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/reportable/internal/errors"
)

// Dialect identifies the markup dialect of a report document.
type Dialect string

const (
	DialectMarkdown Dialect = "markdown"
	DialectQuarto   Dialect = "quarto"
	DialectLaTeX    Dialect = "latex"
)

// DialectForPath returns the dialect for a document path based on its
// extension, or false if the extension is not supported.
func DialectForPath(path string) (Dialect, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return DialectMarkdown, true
	case ".qmd":
		return DialectQuarto, true
	case ".tex":
		return DialectLaTeX, true
	}
	return "", false
}

// Document is the in-memory text of a report file plus its directory context.
// It is never mutated; the rewriter produces new text.
type Document struct {
	// Path is the absolute path to the source file.
	Path string
	// Dir is the directory relative references resolve against.
	Dir string
	// Text is the raw document content.
	Text []byte
	// Dialect is the detected markup dialect.
	Dialect Dialect
}

// Name returns the document's base file name.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// New builds a Document from an absolute path and its content.
func New(absPath string, text []byte) (*Document, error) {
	dialect, ok := DialectForPath(absPath)
	if !ok {
		return nil, errors.New(errors.CategoryValidation, errors.SeverityFatal,
			"unsupported document type (expected .md, .qmd or .tex)").
			WithContext("path", absPath)
	}
	return &Document{
		Path:    absPath,
		Dir:     filepath.Dir(absPath),
		Text:    text,
		Dialect: dialect,
	}, nil
}
