package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ethnia/internal/pipeline"
	"github.com/ppiankov/ethnia/internal/report"
	"github.com/ppiankov/ethnia/internal/validate"
)

var (
	validateJSON bool
	strict       bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the corpus and report references that do not resolve",
	Long: `Validate loads the whole corpus and checks every extracted reference
(language families, current countries, parent families, speakers,
distribution, dominant peoples and identifiers written in free sections)
against the identifiers actually present.

Unknown people or family identifiers are critical; unknown country codes
are warnings. Cited sources are profiled by authority tier.

Example:
  ethnia validate --root ./data
  ethnia validate --json > validation.json
  ethnia validate --strict`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the report as JSON")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "fail on critical issues")
	validateCmd.Flags().DurationVar(&loadTimeout, "timeout", 10*time.Minute, "timeout for the corpus load")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()

	p := pipeline.NewPipeline(appConfig, logger)
	res, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if validateJSON {
		if err := report.WriteJSON(out, res.Report, true); err != nil {
			return err
		}
	} else {
		for _, issue := range res.Report.Issues {
			fmt.Fprintf(out, "%-8s %-16s %-28s %s\n", issue.Severity, issue.Source, issue.Field, issue.Message)
		}
		report.RenderSummary(cmd.ErrOrStderr(), p.Summarize(res, ""))
	}

	if critical := res.Report.Count(validate.SeverityCritical); strict && critical > 0 {
		return fmt.Errorf("%d critical issues", critical)
	}
	return nil
}
