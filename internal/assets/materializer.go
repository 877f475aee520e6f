// Package assets copies referenced files into the target asset directory and
// records the source-to-destination mapping used by the rewriter.
package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/reportable/internal/errors"
	"git.home.luguber.info/inful/reportable/internal/logfields"
	"git.home.luguber.info/inful/reportable/internal/scanner"
)

// Materializer copies referenced files into an asset directory.
type Materializer struct {
	dir string
}

// NewMaterializer creates a Materializer targeting the given asset directory.
func NewMaterializer(dir string) *Materializer {
	return &Materializer{dir: dir}
}

// Materialize copies every referenced file into the asset directory and
// returns the resulting mapping.
//
// The same source path is copied only once. Name collisions between distinct
// sources are resolved with a numeric suffix in first-seen order; a copy is
// never allowed to silently overwrite another. Per-file read failures are
// collected and returned as issues; failures to create or write the asset
// directory abort immediately.
func (m *Materializer) Materialize(ctx context.Context, refs []scanner.Reference) (*Mapping, []*errors.ReportableError, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, nil, errors.DestinationUnwritable(m.dir, err)
	}

	mapping := newMapping()
	var issues []*errors.ReportableError

	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		if mapping.contains(ref.AbsPath) {
			continue
		}

		dest := disambiguate(mapping, filepath.Base(ref.AbsPath))

		if err := m.copyFile(ref.AbsPath, filepath.Join(m.dir, dest)); err != nil {
			if errors.IsCategory(err, errors.CategoryDestUnwritable) {
				return nil, nil, err
			}
			issues = append(issues, errors.SourceUnreadable(ref.AbsPath, err))
			continue
		}

		mapping.add(ref.AbsPath, dest)
		slog.Debug("Copied asset", logfields.Source(ref.AbsPath), logfields.Destination(dest))
	}

	slog.Info("Materialized assets", logfields.Assets(mapping.Len()), logfields.Issues(len(issues)))
	return mapping, issues, nil
}

// disambiguate returns base if unused, otherwise the first free name with a
// numeric suffix before the extension (fig.png, fig-2.png, fig-3.png, ...).
func disambiguate(mapping *Mapping, base string) string {
	if !mapping.nameTaken(base) {
		return base
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, n, ext)
		if !mapping.nameTaken(candidate) {
			return candidate
		}
	}
}

// copyFile copies src to dst atomically: the bytes land in a temp file in the
// destination directory, which is renamed onto dst only after a complete
// write. An interrupted copy leaves no truncated dst behind.
func (m *Materializer) copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close() // Ignore close errors on read-only file
	}()

	tmpPath := filepath.Join(m.dir, ".reportable-"+uuid.NewString()+".tmp")
	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.DestinationUnwritable(m.dir, err)
	}

	cleanup := func() {
		_ = out.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := io.Copy(out, in); err != nil {
		cleanup()
		return err
	}
	if err := out.Sync(); err != nil {
		cleanup()
		return errors.DestinationUnwritable(tmpPath, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.DestinationUnwritable(tmpPath, err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return errors.DestinationUnwritable(dst, err)
	}

	return nil
}
