// Command validate runs the DRPET production readiness validation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/drpet/observe"
	"github.com/jonwraymond/drpet/readiness"
)

// minGoVersion is the lowest runtime the agent is validated against.
const minGoVersion = "1.22.0"

// requiredTools are the external binaries a production deployment needs.
var requiredTools = []string{"git", "docker", "aws"}

// errValidationFailed forces a non-zero exit after a completed run. The
// harness summary already reports the failing checks, so main does not
// print it again.
var errValidationFailed = errors.New("validation failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		saveReport bool
		reportFile string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "Validate production readiness of the DRPET agent environment",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runValidation(ctx, buildChecks(ctx, saveReport), saveReport, reportFile, verbose)
		},
	}

	cmd.Flags().BoolVar(&saveReport, "save-report", false, "persist the validation report to a file")
	cmd.Flags().StringVar(&reportFile, "report-file", "", "report filename (default carries the run timestamp)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	return cmd
}

// buildChecks assembles the standard production check list.
func buildChecks(ctx context.Context, saveReport bool) []readiness.Check {
	checks := []readiness.Check{
		readiness.GoRuntimeCheck(minGoVersion),
		readiness.RequiredToolsCheck(requiredTools...),
	}

	if sts, err := readiness.NewSTSClient(ctx); err != nil {
		// A broken config chain is a failed check, not a crash.
		checks = append(checks, readiness.Check{
			Name: "aws_credentials",
			Fn: func(ctx context.Context) (bool, string, error) {
				return false, "AWS configuration could not be loaded", err
			},
		})
	} else {
		checks = append(checks, readiness.AWSCredentialsCheck(sts))
	}

	if saveReport {
		checks = append(checks, readiness.ReportDirectoryCheck("."))
	}

	return checks
}

func runValidation(ctx context.Context, checks []readiness.Check, saveReport bool, reportFile string, verbose bool) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := observe.NewLogger(level)

	harness := readiness.NewHarness(logger)
	report := harness.Validate(ctx, checks)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("validation interrupted: %w", err)
	}

	if saveReport {
		path := reportFile
		if path == "" {
			path = readiness.DefaultReportFile(time.Now())
		}
		if err := report.Save(path); err != nil {
			return err
		}
		fmt.Printf("Validation report saved to %s\n", path)
	}

	if !report.OverallSuccess {
		return errValidationFailed
	}
	return nil
}
