package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/reportable/internal/config"
	"git.home.luguber.info/inful/reportable/internal/pipeline"
)

// ExtractCmd implements the 'extract' command.
type ExtractCmd struct {
	Report string `arg:"" help:"Path to the report file (.md, .qmd or .tex)"`
	Target string `arg:"" help:"Target directory for the rewritten report and its assets"`

	AssetsDir string `name:"assets-dir" help:"Name of the assets subdirectory inside the target"`
	RunBuild  bool   `name:"run-build" help:"Invoke the configured build toolchain after rewriting"`
	Format    string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (e *ExtractCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if e.AssetsDir != "" {
		cfg.Assets.Directory = e.AssetsDir
	}

	result, err := pipeline.Run(context.Background(), pipeline.Request{
		DocumentPath: e.Report,
		TargetDir:    e.Target,
		Config:       cfg,
		RunBuild:     e.RunBuild,
	})
	if err != nil {
		return err
	}

	formatter := pipeline.NewFormatter(e.Format)
	if err := formatter.Format(os.Stdout, result); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if result.HasBlockingIssues() {
		os.Exit(1)
	}
	return nil
}
