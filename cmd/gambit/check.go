package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nstehr/gambit/diag"
	"github.com/nstehr/gambit/loader"
	"github.com/nstehr/gambit/rules"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Type-check rule files",
	Long: `Load each rule file, apply its doctrine gates and compile every rule.

Errors name the rule, the token path and the source line. Files are checked
strictly: nothing falls back to the default doctrine.

Examples:
  gambit check cautious.yaml
  gambit check rules/*.yaml rules/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

var errCheckFailed = errors.New("check failed")

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		n, err := checkFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s\n", path)
			printError(cmd, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d rules)\n", path, n)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errCheckFailed, failed, len(args))
	}
	return nil
}

// checkFile compiles every rule of path and reports all failing rules, not
// just the first.
func checkFile(path string) (int, error) {
	f, err := loader.Load(path)
	if err != nil {
		return 0, err
	}
	set, err := f.RuleSet()
	if err != nil {
		return 0, err
	}

	compiler := rules.NewCompiler()
	var errs diag.List
	n := 0
	for i, r := range set.Rules {
		if _, err := compiler.CompileRule(r); err != nil {
			var de *diag.Error
			if !errors.As(err, &de) {
				return n, err
			}
			errs = append(errs, de.Within(r.Label(i)))
			continue
		}
		n++
	}
	return n, errs.Err()
}

// printError indents compile errors under the file they belong to.
func printError(cmd *cobra.Command, err error) {
	out := cmd.OutOrStdout()
	var list diag.List
	if errors.As(err, &list) {
		for _, e := range list {
			fmt.Fprintf(out, "  %s\n", indent(e.Error()))
		}
		return
	}
	fmt.Fprintf(out, "  %s\n", indent(err.Error()))
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
