package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/ethnia/internal/assemble"
	"github.com/ppiankov/ethnia/internal/model"
	"github.com/ppiankov/ethnia/internal/report"
	"github.com/ppiankov/ethnia/internal/worker"
)

// ErrParseFailed is returned when at least one document failed to parse
var ErrParseFailed = errors.New("parse failed")

var (
	listFile     string
	parseTimeout time.Duration
	compact      bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <kind> [file]",
	Short: "Parse one document, or a list of documents, and print the result",
	Long: `Parse runs one entity assembler over a document and prints the parse
result as JSON: success flag, the typed record, errors and warnings.

Kinds: country (pays), people (peuple), family (famille).

With --list, every path in the list file (one per line, # comments allowed)
is parsed concurrently and the results are printed as a JSON array in the
order of the list.

Example:
  ethnia parse people data/peuples/PPL_SHONA.txt
  ethnia parse country --list countries.txt --workers 8`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&listFile, "list", "", "file listing document paths to parse")
	parseCmd.Flags().DurationVar(&parseTimeout, "timeout", 5*time.Minute, "total timeout for a list")
	parseCmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON")
}

func runParse(cmd *cobra.Command, args []string) error {
	kind, err := model.ParseKind(args[0])
	if err != nil {
		return err
	}
	parser, ok := assemble.NewRegistry().Find(kind)
	if !ok {
		return fmt.Errorf("%s: %w", kind, assemble.ErrUnknownKind)
	}

	if listFile != "" {
		return parseList(cmd, parser)
	}
	if len(args) != 2 {
		return fmt.Errorf("parse %s: a file or --list is required", kind)
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[1], err)
	}

	res := parser.Parse(string(data))
	logger.Debug("document parsed",
		zap.String("path", args[1]),
		zap.Bool("success", res.Success),
		zap.Int("warnings", len(res.Warnings)))

	if err := report.WriteJSON(cmd.OutOrStdout(), res, !compact); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%s: %w", args[1], ErrParseFailed)
	}
	return nil
}

type listEntry struct {
	Path  string                         `json:"path"`
	Error string                         `json:"error,omitempty"`
	File  *model.ParsedFile[model.Entity] `json:"result,omitempty"`
}

func parseList(cmd *cobra.Command, parser assemble.Parser) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), parseTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor[model.Entity](parser.Parse, appConfig.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, listFile)
	if err != nil {
		return fmt.Errorf("process list: %w", err)
	}

	entries := make([]listEntry, len(results))
	failed := 0
	for i, r := range results {
		entries[i] = listEntry{Path: r.Path}
		if r.Error != nil {
			entries[i].Error = r.Error.Error()
			failed++
			continue
		}
		entries[i].File = &r.File
		if !r.File.Success {
			failed++
		}
	}

	logger.Info("list parsed",
		zap.String("kind", string(parser.Kind())),
		zap.Int("documents", len(results)),
		zap.Int("failed", failed))

	if err := report.WriteJSON(cmd.OutOrStdout(), entries, !compact); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents: %w", failed, len(results), ErrParseFailed)
	}
	return nil
}
