package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftlefter/shiftlefter/gherkin/formatter"
	"github.com/shiftlefter/shiftlefter/gherkin/parser"
	"github.com/shiftlefter/shiftlefter/roundtrip"
)

func newFmtCmd() *cobra.Command {
	var check, write, canonical bool

	cmd := &cobra.Command{
		Use:   "fmt <paths...>",
		Short: "Validate or rewrite .feature files to canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case canonical:
				return runFmtCanonical(args)
			case write:
				return runFmtWrite(args)
			default:
				check = true
				return runFmtCheck(args)
			}
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "fail if any file is not already canonical (default)")
	cmd.Flags().BoolVar(&write, "write", false, "rewrite files in place to canonical form")
	cmd.Flags().BoolVar(&canonical, "canonical", false, "print the canonical form of a single file to stdout")

	return cmd
}

func runFmtCanonical(paths []string) error {
	if len(paths) != 1 {
		exitCode = 1
		return fmt.Errorf("--canonical takes exactly one file")
	}
	path := paths[0]
	src, err := os.ReadFile(path)
	if err != nil {
		exitCode = 2
		return err
	}
	doc, diags := parser.Parse(string(src), path)
	for _, d := range diags {
		logger.Error().Msg(d.String())
	}
	if doc.Feature == nil {
		exitCode = 1
		return fmt.Errorf("%s: no feature to format", path)
	}
	fmt.Print(formatter.Format(doc.Feature))
	exitCode = 0
	return nil
}

func runFmtCheck(paths []string) error {
	files, err := discoverFeatureFiles(paths)
	if err != nil {
		exitCode = 2
		return err
	}

	anyInvalid := false
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			exitCode = 2
			return err
		}
		res := roundtrip.Check(string(src), path)
		switch res.Outcome {
		case roundtrip.OutcomeParseErrors:
			anyInvalid = true
			for _, d := range res.ParseErrors {
				fmt.Fprintln(os.Stderr, d.String())
			}
		case roundtrip.OutcomeMismatch:
			anyInvalid = true
			fmt.Fprintf(os.Stderr, "%s: NEEDS FORMATTING (roundtrip mismatch, original_len=%d reconstructed_len=%d)\n",
				path, res.OriginalLen, res.ReconstructedLen)
		case roundtrip.OutcomeOK:
			if string(src) != res.Reformatted {
				anyInvalid = true
				fmt.Fprintf(os.Stderr, "%s: NEEDS FORMATTING\n", path)
			}
		}
	}

	if anyInvalid {
		exitCode = 1
		return fmt.Errorf("one or more files need formatting")
	}
	exitCode = 0
	return nil
}

func runFmtWrite(paths []string) error {
	files, err := discoverFeatureFiles(paths)
	if err != nil {
		exitCode = 2
		return err
	}

	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			exitCode = 2
			return err
		}
		doc, diags := parser.Parse(string(src), path)
		for _, d := range diags {
			if d.IsError() {
				logger.Error().Msg(d.String())
			}
		}
		if doc.Feature == nil {
			continue
		}
		canonical := formatter.Format(doc.Feature)
		if canonical == string(src) {
			continue
		}
		if err := os.WriteFile(path, []byte(canonical), 0o644); err != nil {
			exitCode = 2
			return err
		}
		logger.Info().Str("file", path).Msg("reformatted")
	}
	exitCode = 0
	return nil
}
