// Command quoteguard validates submissions from the command line. It runs
// the same reconciliation engine as the server, against local JSON files,
// for underwriters and batch tooling.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quoteguard/internal/platform/config"
	"quoteguard/internal/validation/driver"
	"quoteguard/internal/validation/findings"
	"quoteguard/internal/validation/models"
	"quoteguard/internal/validation/submission"
)

func main() {
	root := &cobra.Command{
		Use:   "quoteguard",
		Short: "Cross-document reconciliation for insurance quote submissions",
		Long: `quoteguard reconciles a rate quote against the driver's motor vehicle
record and claims history report, flagging undisclosed convictions and
claims, licence progression inconsistencies, and stale supporting reports.`,
		SilenceUsage: true,
	}
	root.AddCommand(validateCommand())
	root.AddCommand(analyzeCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCommand() *cobra.Command {
	var (
		parallelism int
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "validate <submission.json>",
		Short: "Validate a submission file and print the report",
		Long: `Validate a submission file and print the full validation report as JSON.

The exit code reflects the overall status: 0 for PASS, 1 for WARNING,
2 for FAIL.

Examples:
  quoteguard validate submission.json
  quoteguard validate submission.json --pretty
  QUOTEGUARD_MVR_MAX_AGE_DAYS=60 quoteguard validate submission.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := loadSubmission(args[0])
			if err != nil {
				return err
			}

			agg := submission.New(
				driver.New(config.FromEnv().Validation),
				submission.WithParallelism(parallelism),
			)
			report := agg.Evaluate(cmd.Context(), sub)

			if err := printJSON(cmd, report, pretty); err != nil {
				return err
			}
			os.Exit(exitCode(report.Status))
			return nil
		},
	}

	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "concurrent driver validations")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func analyzeCommand() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "analyze <submission.json>",
		Short: "Validate a submission file and print the analytics roll-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := loadSubmission(args[0])
			if err != nil {
				return err
			}

			agg := submission.New(driver.New(config.FromEnv().Validation))
			report := agg.Evaluate(cmd.Context(), sub)
			return printJSON(cmd, submission.BuildAnalytics(report), pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func loadSubmission(path string) (*models.Submission, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	var sub models.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("parse submission: %w", err)
	}
	if len(sub.Drivers) == 0 {
		return nil, fmt.Errorf("submission %s contains no drivers", path)
	}
	return &sub, nil
}

func printJSON(cmd *cobra.Command, v any, pretty bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func exitCode(status findings.Status) int {
	switch status {
	case findings.StatusPass:
		return 0
	case findings.StatusWarning:
		return 1
	default:
		return 2
	}
}
