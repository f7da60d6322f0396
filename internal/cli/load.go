package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/ethnia/internal/loader"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/pipeline"
)

var (
	outputDir   string
	loadTimeout time.Duration
	watch       bool
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the whole corpus and write one JSON record per entity",
	Long: `Load parses every country, people and language family document of the
corpus concurrently:
- Discover documents under the corpus root (include/exclude globs)
- Parse them with a worker pool
- Check cross references and score each entity
- Write <output-dir>/<kind>/<id>.json plus validation, scores and failures

With --watch, the command keeps running and reloads the corpus whenever a
document changes; only changed documents are parsed again.

Example:
  ethnia load --root ./data
  ethnia load --root ./data --output-dir ./out --workers 8
  ethnia load --watch`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for records (default: output.dir)")
	loadCmd.Flags().DurationVar(&loadTimeout, "timeout", 10*time.Minute, "timeout for one corpus load")
	loadCmd.Flags().BoolVar(&watch, "watch", false, "reload when documents change")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if !watch && !cfg.Cache.Watch {
		return loadOnce(cmd.Context(), pipeline.NewPipeline(cfg, logger), cmd)
	}

	changed := make(chan model.Kind, 1)
	p := pipeline.NewPipeline(cfg, logger, loader.WithChangeHook(func(kind model.Kind, id string) {
		select {
		case changed <- kind:
		default:
		}
	}))
	return watchLoop(cmd, p, changed)
}

func loadOnce(parent context.Context, p *pipeline.Pipeline, cmd *cobra.Command) error {
	ctx, cancel := context.WithTimeout(parent, loadTimeout)
	defer cancel()

	res, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	if err := p.RenderReport(res, outputDir, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// watchLoop reloads the corpus after each burst of changes until interrupted
func watchLoop(cmd *cobra.Command, p *pipeline.Pipeline, changed <-chan model.Kind) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadOnce(ctx, p, cmd); err != nil {
		return err
	}

	watchErr := make(chan error, 1)
	go func() { watchErr <- p.Corpus().Watch(ctx) }()

	for {
		select {
		case <-ctx.Done():
			if err := <-watchErr; err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		case err := <-watchErr:
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		case kind := <-changed:
			// let editors finish writing before reloading
			time.Sleep(200 * time.Millisecond)
			logger.Info("documents changed, reloading", zap.String("kind", string(kind)))
			if err := loadOnce(ctx, p, cmd); err != nil {
				logger.Warn("reload failed", zap.Error(err))
			}
		}
	}
}
