package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDocument   = "document"
	KeyDialect    = "dialect"
	KeyPath       = "path"
	KeySource     = "source"
	KeyDest       = "destination"
	KeyTarget     = "target"
	KeyRefs       = "references"
	KeyAssets     = "assets"
	KeyIssues     = "issues"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Document(p string) slog.Attr     { return slog.String(KeyDocument, p) }
func Dialect(d string) slog.Attr      { return slog.String(KeyDialect, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr  { return slog.String(KeyDest, p) }
func Target(p string) slog.Attr       { return slog.String(KeyTarget, p) }
func References(n int) slog.Attr      { return slog.Int(KeyRefs, n) }
func Assets(n int) slog.Attr          { return slog.Int(KeyAssets, n) }
func Issues(n int) slog.Attr          { return slog.Int(KeyIssues, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
