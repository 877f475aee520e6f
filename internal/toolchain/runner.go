// Package toolchain invokes the external document build command (quarto,
// pandoc, latexmk, ...) against a rewritten document. It is a thin
// collaborator: the pipeline's only contract with it is that the rewritten
// document at a known path is a valid input.
package toolchain

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/reportable/internal/config"
	"git.home.luguber.info/inful/reportable/internal/errors"
	"git.home.luguber.info/inful/reportable/internal/logfields"
)

// skipEnv disables toolchain invocation regardless of configuration.
const skipEnv = "REPORTABLE_SKIP_BUILD"

// Runner executes a configured build command in the target directory.
type Runner struct {
	cfg config.ToolchainConfig
}

// NewRunner creates a Runner for the given toolchain configuration.
func NewRunner(cfg config.ToolchainConfig) *Runner {
	return &Runner{cfg: cfg}
}

// Enabled reports whether a build command is configured and not suppressed
// via REPORTABLE_SKIP_BUILD=1.
func (r *Runner) Enabled() bool {
	if os.Getenv(skipEnv) == "1" {
		return false
	}
	if r.cfg.Command == "" {
		return false
	}
	_, err := exec.LookPath(r.cfg.Command)
	return err == nil
}

// Run executes the build command in dir. The {doc} placeholder in the
// configured args is replaced with docPath.
func (r *Runner) Run(ctx context.Context, dir, docPath string) error {
	args := make([]string, 0, len(r.cfg.Args))
	for _, a := range r.cfg.Args {
		args = append(args, strings.ReplaceAll(a, "{doc}", docPath))
	}

	cmd := exec.CommandContext(ctx, r.cfg.Command, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("Running build toolchain", logfields.Target(dir),
		slog.String("command", r.cfg.Command), slog.Any("args", args))

	if err := cmd.Run(); err != nil {
		return errors.ToolchainFailed(r.cfg.Command, err)
	}
	return nil
}
