package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/reportable/internal/errors"
	"git.home.luguber.info/inful/reportable/internal/scanner"
)

func writeSource(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func refTo(abs string) scanner.Reference {
	return scanner.Reference{
		Match:   scanner.Match{RawPath: filepath.Base(abs), Kind: scanner.RefKindImage},
		AbsPath: abs,
	}
}

func TestMaterialize_CopiesEachReference(t *testing.T) {
	srcDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	a := writeSource(t, srcDir, "img/a.png", "A")
	b := writeSource(t, srcDir, "vid/b.mp4", "B")

	mapping, issues, err := NewMaterializer(assetsDir).
		Materialize(context.Background(), []scanner.Reference{refTo(a), refTo(b)})
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Equal(t, 2, mapping.Len())

	gotA, err := os.ReadFile(filepath.Join(assetsDir, "a.png"))
	require.NoError(t, err)
	require.Equal(t, "A", string(gotA))

	gotB, err := os.ReadFile(filepath.Join(assetsDir, "b.mp4"))
	require.NoError(t, err)
	require.Equal(t, "B", string(gotB))
}

func TestMaterialize_DuplicateSourceCopiedOnce(t *testing.T) {
	srcDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	a := writeSource(t, srcDir, "img/a.png", "A")

	mapping, issues, err := NewMaterializer(assetsDir).
		Materialize(context.Background(), []scanner.Reference{refTo(a), refTo(a)})
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Equal(t, 1, mapping.Len())

	entries, err := os.ReadDir(assetsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMaterialize_CollisionGetsDeterministicSuffix(t *testing.T) {
	srcDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	first := writeSource(t, srcDir, "images/fig.png", "A")
	second := writeSource(t, srcDir, "diagrams/fig.png", "B")

	mapping, issues, err := NewMaterializer(assetsDir).
		Materialize(context.Background(), []scanner.Reference{refTo(first), refTo(second)})
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Equal(t, 2, mapping.Len())

	destFirst, ok := mapping.Lookup(first)
	require.True(t, ok)
	require.Equal(t, "fig.png", destFirst)

	destSecond, ok := mapping.Lookup(second)
	require.True(t, ok)
	require.Equal(t, "fig-2.png", destSecond)

	gotA, err := os.ReadFile(filepath.Join(assetsDir, "fig.png"))
	require.NoError(t, err)
	require.Equal(t, "A", string(gotA))

	gotB, err := os.ReadFile(filepath.Join(assetsDir, "fig-2.png"))
	require.NoError(t, err)
	require.Equal(t, "B", string(gotB))
}

func TestMaterialize_UnreadableSourceCollected(t *testing.T) {
	srcDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	ok := writeSource(t, srcDir, "img/a.png", "A")
	gone := filepath.Join(srcDir, "img", "vanished.png")

	mapping, issues, err := NewMaterializer(assetsDir).
		Materialize(context.Background(), []scanner.Reference{refTo(gone), refTo(ok)})
	require.NoError(t, err)

	require.Len(t, issues, 1)
	require.Equal(t, errors.CategorySourceUnreadable, issues[0].Category)

	// The readable file was still copied.
	require.Equal(t, 1, mapping.Len())
	_, statErr := os.Stat(filepath.Join(assetsDir, "a.png"))
	require.NoError(t, statErr)
}

func TestMaterialize_NoTempFilesLeftBehind(t *testing.T) {
	srcDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	a := writeSource(t, srcDir, "img/a.png", "A")

	_, issues, err := NewMaterializer(assetsDir).
		Materialize(context.Background(), []scanner.Reference{refTo(a)})
	require.NoError(t, err)
	require.Empty(t, issues)

	entries, err := os.ReadDir(assetsDir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".tmp")
	}
}

func TestMaterialize_CancelledContextStops(t *testing.T) {
	srcDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	a := writeSource(t, srcDir, "img/a.png", "A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMaterializer(assetsDir).
		Materialize(ctx, []scanner.Reference{refTo(a)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMapping_EntriesInFirstSeenOrder(t *testing.T) {
	srcDir := t.TempDir()
	assetsDir := filepath.Join(t.TempDir(), "assets")

	a := writeSource(t, srcDir, "img/a.png", "A")
	b := writeSource(t, srcDir, "img/b.png", "B")

	mapping, issues, err := NewMaterializer(assetsDir).
		Materialize(context.Background(), []scanner.Reference{refTo(a), refTo(b)})
	require.NoError(t, err)
	require.Empty(t, issues)

	entries := mapping.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, a, entries[0].Source)
	require.Equal(t, b, entries[1].Source)
}
