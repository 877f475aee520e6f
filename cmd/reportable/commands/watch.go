package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/reportable/internal/config"
	"git.home.luguber.info/inful/reportable/internal/logfields"
	"git.home.luguber.info/inful/reportable/internal/pipeline"
)

// WatchCmd implements the 'watch' command: it runs the pipeline once, then
// re-runs it whenever the source report changes, until interrupted.
type WatchCmd struct {
	Report string `arg:"" help:"Path to the report file (.md, .qmd or .tex)"`
	Target string `arg:"" help:"Target directory for the rewritten report and its assets"`

	AssetsDir string `name:"assets-dir" help:"Name of the assets subdirectory inside the target"`
	RunBuild  bool   `name:"run-build" help:"Invoke the configured build toolchain after each rewrite"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if w.AssetsDir != "" {
		cfg.Assets.Directory = w.AssetsDir
	}

	absReport, err := filepath.Abs(w.Report)
	if err != nil {
		return fmt.Errorf("resolve report path: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	req := pipeline.Request{
		DocumentPath: absReport,
		TargetDir:    w.Target,
		Config:       cfg,
		RunBuild:     w.RunBuild,
	}

	runOnce(ctx, req)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory containing the report (more reliable than watching the file directly)
	if err := watcher.Add(filepath.Dir(absReport)); err != nil {
		return fmt.Errorf("failed to watch report directory: %w", err)
	}

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	slog.Info("Watching report for changes", logfields.Document(absReport),
		slog.Duration("debounce", debounce))

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutdown signal received, stopping watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absReport {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Debug("Report changed", logfields.Path(event.Name))
			// Editors produce bursts of events; coalesce them.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))
		case <-pending:
			runOnce(ctx, req)
		}
	}
}

// runOnce executes the pipeline and reports the outcome without terminating
// the watch loop on per-reference failures.
func runOnce(ctx context.Context, req pipeline.Request) {
	result, err := pipeline.Run(ctx, req)
	if err != nil {
		slog.Error("Run failed", logfields.Error(err))
		return
	}

	formatter := pipeline.NewFormatter("text")
	if err := formatter.Format(os.Stdout, result); err != nil {
		slog.Error("Failed to format result", logfields.Error(err))
	}
}
