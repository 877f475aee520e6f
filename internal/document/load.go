package document

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/reportable/internal/errors"
)

// Load reads a report document from disk.
func Load(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.DocumentUnreadable(path, err)
	}

	text, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.DocumentUnreadable(absPath, err)
	}

	return New(absPath, text)
}
