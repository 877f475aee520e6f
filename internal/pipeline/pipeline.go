// Package pipeline wires the three core stages together: reference scanning,
// asset materialization, and document rewriting, with an optional toolchain
// invocation once the core has succeeded.
//
// Per-reference failures are collected across the scan and materialize stages
// so one run surfaces every problem; structural failures abort immediately.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/reportable/internal/assets"
	"git.home.luguber.info/inful/reportable/internal/config"
	"git.home.luguber.info/inful/reportable/internal/document"
	"git.home.luguber.info/inful/reportable/internal/errors"
	"git.home.luguber.info/inful/reportable/internal/logfields"
	"git.home.luguber.info/inful/reportable/internal/rewrite"
	"git.home.luguber.info/inful/reportable/internal/scanner"
	"git.home.luguber.info/inful/reportable/internal/toolchain"
)

// Request describes one pipeline run.
type Request struct {
	// DocumentPath is the source report document.
	DocumentPath string
	// TargetDir receives the rewritten document and its assets subdirectory.
	TargetDir string
	// Config carries asset and toolchain settings.
	Config *config.Config
	// RunBuild invokes the configured toolchain after a clean run.
	RunBuild bool
}

// Result summarizes a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string
	// Document is the path of the rewritten document, empty when the run
	// collected issues and no document was finalized.
	Document string
	// References is the number of references found and rewritten.
	References int
	// AssetsCopied is the number of distinct files materialized.
	AssetsCopied int
	// Issues holds the per-reference failures collected during the run.
	Issues []*errors.ReportableError
	// Duration is the wall time of the run.
	Duration time.Duration
}

// HasIssues reports whether any per-reference failure was collected.
func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// HasBlockingIssues reports whether any collected issue prevents finalizing
// the rewritten document. Unsupported-reference warnings are surfaced but do
// not block.
func (r *Result) HasBlockingIssues() bool {
	return r.blockingIssueCount() > 0
}

func (r *Result) blockingIssueCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity != errors.SeverityWarning {
			n++
		}
	}
	return n
}

// Run executes the full pipeline sequentially.
//
// The rewritten document is finalized only when every referenced asset was
// materialized successfully; a run with blocking issues leaves no document
// that references files absent from the asset directory.
func Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}

	doc, err := document.Load(req.DocumentPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Processing report", logfields.RunID(result.RunID),
		logfields.Document(doc.Path), logfields.Dialect(string(doc.Dialect)))

	targetDir, err := filepath.Abs(req.TargetDir)
	if err != nil {
		return nil, errors.DestinationUnwritable(req.TargetDir, err)
	}
	// The rewritten document lands at <target>/<name>; refusing a target that
	// resolves onto the source keeps the original document untouched.
	if filepath.Join(targetDir, doc.Name()) == doc.Path {
		return nil, errors.New(errors.CategoryValidation, errors.SeverityFatal,
			"target directory would overwrite the source document").
			WithContext("path", doc.Path)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, errors.DestinationUnwritable(targetDir, err)
	}

	sc := scanner.New(req.Config.Assets.Extensions)
	refs, scanIssues, err := sc.Scan(doc)
	if err != nil {
		return nil, err
	}
	result.Issues = append(result.Issues, scanIssues...)
	result.References = len(refs)
	slog.Info("Scanned references", logfields.RunID(result.RunID),
		logfields.Stage("scan"), logfields.References(len(refs)),
		logfields.Issues(len(scanIssues)))

	assetsDir := filepath.Join(targetDir, req.Config.Assets.Directory)
	mat := assets.NewMaterializer(assetsDir)
	mapping, copyIssues, err := mat.Materialize(ctx, refs)
	if err != nil {
		return nil, err
	}
	result.Issues = append(result.Issues, copyIssues...)
	result.AssetsCopied = mapping.Len()

	if result.HasBlockingIssues() {
		// No safe complete output exists; do not finalize a document whose
		// references cannot all resolve inside the asset directory.
		result.Duration = time.Since(start)
		return result, nil
	}

	rewritten, err := rewrite.Rewrite(doc, refs, mapping, req.Config.Assets.Directory)
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(targetDir, doc.Name())
	if err := os.WriteFile(outPath, rewritten, 0o644); err != nil {
		return nil, errors.DestinationUnwritable(outPath, err)
	}
	result.Document = outPath
	result.Duration = time.Since(start)

	slog.Info("Report rewritten", logfields.RunID(result.RunID),
		logfields.Stage("rewrite"), logfields.Target(outPath), logfields.Assets(mapping.Len()),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))

	if req.RunBuild {
		runner := toolchain.NewRunner(req.Config.Toolchain)
		if runner.Enabled() {
			if err := runner.Run(ctx, targetDir, outPath); err != nil {
				return nil, err
			}
		} else {
			slog.Debug("Toolchain not configured or suppressed, skipping build")
		}
	}

	return result, nil
}
