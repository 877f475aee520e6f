package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/reportable/internal/config"
	"git.home.luguber.info/inful/reportable/internal/errors"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func writeFixture(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()

	writeFixture(t, base, "img/a.png", "image-bytes")
	writeFixture(t, base, "vid/b.mp4", "video-bytes")
	report := writeFixture(t, base, "report.md",
		"# Results\n\n![a](img/a.png)\n\n![b](vid/b.mp4)\n")

	result, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    target,
		Config:       defaultConfig(t),
	})
	require.NoError(t, err)
	require.False(t, result.HasIssues())
	require.Equal(t, 2, result.References)
	require.Equal(t, 2, result.AssetsCopied)

	gotA, err := os.ReadFile(filepath.Join(target, "assets", "a.png"))
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(gotA))

	gotB, err := os.ReadFile(filepath.Join(target, "assets", "b.mp4"))
	require.NoError(t, err)
	require.Equal(t, "video-bytes", string(gotB))

	doc, err := os.ReadFile(filepath.Join(target, "report.md"))
	require.NoError(t, err)
	require.Equal(t, "# Results\n\n![a](assets/a.png)\n\n![b](assets/b.mp4)\n", string(doc))
}

func TestRun_DuplicateReferenceSingleCopy(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()

	writeFixture(t, base, "img/a.png", "A")
	report := writeFixture(t, base, "report.md",
		"![first](img/a.png)\n\n![again](img/a.png)\n")

	result, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    target,
		Config:       defaultConfig(t),
	})
	require.NoError(t, err)
	require.False(t, result.HasIssues())
	require.Equal(t, 2, result.References)
	require.Equal(t, 1, result.AssetsCopied)

	doc, err := os.ReadFile(result.Document)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(doc), "assets/a.png"))

	entries, err := os.ReadDir(filepath.Join(target, "assets"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRun_CollisionYieldsTwoDistinctFiles(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()

	writeFixture(t, base, "images/fig.png", "A")
	writeFixture(t, base, "diagrams/fig.png", "B")
	report := writeFixture(t, base, "report.md",
		"![one](images/fig.png)\n\n![two](diagrams/fig.png)\n")

	result, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    target,
		Config:       defaultConfig(t),
	})
	require.NoError(t, err)
	require.False(t, result.HasIssues())
	require.Equal(t, 2, result.AssetsCopied)

	gotA, err := os.ReadFile(filepath.Join(target, "assets", "fig.png"))
	require.NoError(t, err)
	require.Equal(t, "A", string(gotA))

	gotB, err := os.ReadFile(filepath.Join(target, "assets", "fig-2.png"))
	require.NoError(t, err)
	require.Equal(t, "B", string(gotB))

	doc, err := os.ReadFile(result.Document)
	require.NoError(t, err)
	require.Contains(t, string(doc), "![one](assets/fig.png)")
	require.Contains(t, string(doc), "![two](assets/fig-2.png)")
}

func TestRun_TargetOverSourceRejected(t *testing.T) {
	base := t.TempDir()
	writeFixture(t, base, "img/a.png", "A")
	original := "![a](img/a.png)\n"
	report := writeFixture(t, base, "report.md", original)

	_, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    base,
		Config:       defaultConfig(t),
	})
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))

	// The source document must survive the rejected run untouched.
	got, readErr := os.ReadFile(report)
	require.NoError(t, readErr)
	require.Equal(t, original, string(got))
}

func TestRun_UnsupportedReferenceWarnsButFinalizes(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()

	writeFixture(t, base, "img/a.png", "A")
	writeFixture(t, base, "notes.txt", "text")
	report := writeFixture(t, base, "report.md",
		"![a](img/a.png)\n\n[notes](notes.txt)\n")

	result, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    target,
		Config:       defaultConfig(t),
	})
	require.NoError(t, err)

	require.True(t, result.HasIssues())
	require.False(t, result.HasBlockingIssues())
	require.Len(t, result.Issues, 1)
	require.Equal(t, errors.CategoryUnsupportedRef, result.Issues[0].Category)

	// The document is still finalized; the unsupported reference stays as written.
	doc, err := os.ReadFile(result.Document)
	require.NoError(t, err)
	require.Equal(t, "![a](assets/a.png)\n\n[notes](notes.txt)\n", string(doc))
}

func TestRun_MissingAssetLeavesNoDocument(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()

	report := writeFixture(t, base, "report.md", "![gone](does/not/exist.png)\n")

	result, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    target,
		Config:       defaultConfig(t),
	})
	require.NoError(t, err)
	require.True(t, result.HasBlockingIssues())
	require.Equal(t, errors.CategoryMissingAsset, result.Issues[0].Category)
	require.Empty(t, result.Document)

	_, statErr := os.Stat(filepath.Join(target, "report.md"))
	require.True(t, os.IsNotExist(statErr))
}

func TestRun_RoundTripContentEquality(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()

	original := writeFixture(t, base, "img/a.png", "round-trip-bytes")
	report := writeFixture(t, base, "report.md", "![a](img/a.png)\n")

	result, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    target,
		Config:       defaultConfig(t),
	})
	require.NoError(t, err)
	require.False(t, result.HasIssues())

	// Resolve the rewritten reference against the new document's location.
	doc, err := os.ReadFile(result.Document)
	require.NoError(t, err)
	start := strings.Index(string(doc), "(") + 1
	end := strings.Index(string(doc), ")")
	newRef := string(doc)[start:end]

	got, err := os.ReadFile(filepath.Join(filepath.Dir(result.Document), newRef))
	require.NoError(t, err)

	want, err := os.ReadFile(original)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestRun_Idempotent(t *testing.T) {
	base := t.TempDir()

	writeFixture(t, base, "img/a.png", "A")
	report := writeFixture(t, base, "report.md", "![a](img/a.png)\n")

	targetA := t.TempDir()
	targetB := t.TempDir()

	first, err := Run(context.Background(), Request{
		DocumentPath: report, TargetDir: targetA, Config: defaultConfig(t),
	})
	require.NoError(t, err)

	second, err := Run(context.Background(), Request{
		DocumentPath: report, TargetDir: targetB, Config: defaultConfig(t),
	})
	require.NoError(t, err)

	docA, err := os.ReadFile(first.Document)
	require.NoError(t, err)
	docB, err := os.ReadFile(second.Document)
	require.NoError(t, err)
	require.Equal(t, docA, docB)
}

func TestRun_LaTeXEndToEnd(t *testing.T) {
	base := t.TempDir()
	target := t.TempDir()

	writeFixture(t, base, "figures/plot.png", "P")
	report := writeFixture(t, base, "report.tex",
		"\\documentclass{article}\n\\begin{document}\n\\includegraphics{figures/plot.png}\n\\end{document}\n")

	result, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    target,
		Config:       defaultConfig(t),
	})
	require.NoError(t, err)
	require.False(t, result.HasIssues())

	doc, err := os.ReadFile(result.Document)
	require.NoError(t, err)
	require.Contains(t, string(doc), "\\includegraphics{assets/plot.png}")
}

func TestRun_UnsupportedDocumentType(t *testing.T) {
	base := t.TempDir()
	report := writeFixture(t, base, "report.docx", "not a supported format")

	_, err := Run(context.Background(), Request{
		DocumentPath: report,
		TargetDir:    t.TempDir(),
		Config:       defaultConfig(t),
	})
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}
