package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiftlefter/shiftlefter/bind"
	"github.com/shiftlefter/shiftlefter/exec"
	"github.com/shiftlefter/shiftlefter/gherkin/parser"
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
	"github.com/shiftlefter/shiftlefter/registry"
	"github.com/shiftlefter/shiftlefter/report"
	"github.com/shiftlefter/shiftlefter/tagexpr"
)

func newRunCmd() *cobra.Command {
	var tagExpr string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "run <paths...>",
		Short: "Parse, compile pickles, bind, and execute step definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args, tagExpr, jsonOut)
		},
	}

	cmd.Flags().StringVar(&tagExpr, "tags", "", `tag expression, e.g. "@smoke and not @wip"`)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the Summary record on stdout instead of human-readable text")

	return cmd
}

// runRun binds `run <paths>` against registry.Global — step definitions
// reach the binary by registering into the global registry from an init or a
// command compiled alongside this one; there is no dynamic step-file
// loading.
func runRun(paths []string, tagExprSrc string, jsonOut bool) error {
	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())

	files, err := discoverFeatureFiles(paths)
	if err != nil {
		exitCode = 2
		emitJSON(jsonOut, report.FromCrash(runID, "read-failed", err.Error()))
		return err
	}

	expr, err := tagexpr.Parse(tagExprSrc)
	if err != nil {
		exitCode = 2
		emitJSON(jsonOut, report.FromCrash(runID, "invalid-tag-expr", err.Error()))
		return err
	}

	var pickles []pickle.Pickle
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			exitCode = 2
			emitJSON(jsonOut, report.FromCrash(runID, "read-failed", err.Error()))
			return err
		}
		doc, diags := parser.Parse(string(src), path)
		for _, d := range diags {
			if d.IsError() {
				fmt.Fprintln(os.Stderr, d.String())
			}
		}
		if doc.Feature == nil {
			continue
		}
		ps, pdiags := pickle.Compile(doc.Feature)
		for _, d := range pdiags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		for _, p := range ps {
			if tagexpr.Match(expr, p.Tags) {
				pickles = append(pickles, p)
			}
		}
	}

	suite := bind.BindSuite(pickles, registry.Global().Snapshot())
	if !suite.Runnable() {
		exitCode = 2
		summary := report.FromPlanning(runID, suite)
		emitJSON(jsonOut, summary)
		if !jsonOut {
			fmt.Fprintln(os.Stderr, "planning failed: one or more steps are undefined, ambiguous, or have an invalid arity")
		}
		return fmt.Errorf("planning failed")
	}

	ex := exec.NewExecutor()
	ex.Logger = logger
	results := ex.Run(suite.Plans)

	summary := report.FromExecution(runID, results)
	emitJSON(jsonOut, summary)
	if !jsonOut {
		printHumanSummary(summary)
	}

	exitCode = summary.ExitCode
	if exitCode != 0 {
		return fmt.Errorf("run completed with status %s", summary.Status)
	}
	return nil
}

func emitJSON(enabled bool, summary report.Summary) {
	if !enabled {
		return
	}
	b, err := json.MarshalIndent(summary, "", "\t")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(string(b))
}

func printHumanSummary(s report.Summary) {
	fmt.Fprintf(os.Stderr, "%d scenarios, %d steps (%d passed, %d failed, %d pending, %d skipped)\n",
		s.Counts.Scenarios, s.Counts.Steps, s.Counts.Passed, s.Counts.Failed, s.Counts.Pending, s.Counts.Skipped)
	for _, f := range s.Failures {
		fmt.Fprintf(os.Stderr, "  %s: %s — %s\n", f.ScenarioName, f.StepText, f.Error.Message)
	}
}
