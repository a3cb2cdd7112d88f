// Command presolve loads a model in the text format described by
// model/textfmt.go and drives a Context through a canonicalization sweep,
// with a cobra-based CLI in the style of operator-lifecycle-manager's
// cmd/catalog and util/cpb.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cespare/presolve"
	"github.com/cespare/presolve/model"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "presolve",
	Short: "Load and canonicalize a presolve model",
}

var statsCmd = &cobra.Command{
	Use:   "stats <model-file>",
	Short: "Load a model, run one canonicalization sweep, print rule stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(args[0])
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <model-file>",
	Short: "Load a model and report whether it parses and builds a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace every presolve operation")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(loadCmd)
}

func runLoad(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening model file %q", path)
	}
	defer f.Close()

	m, err := model.ParseText(f)
	if err != nil {
		return errors.Wrapf(err, "parsing model file %q", path)
	}
	ctx := presolve.NewContext(m)
	fmt.Printf("ok: %d variables, %d constraints, objective=%v\n",
		ctx.NumVariables(), len(m.Constraints), ctx.HasObjective())
	return nil
}

func runStats(path string) error {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "presolve",
		Level: hclog.Info,
	})

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening model file %q", path)
	}
	defer f.Close()

	m, err := model.ParseText(f)
	if err != nil {
		return errors.Wrapf(err, "parsing model file %q", path)
	}

	ctx := presolve.NewContext(m,
		presolve.WithStats(true),
		presolve.WithLogger(logger),
		presolve.WithTracing(verbose),
	)

	if ctx.HasObjective() {
		ctx.CanonicalizeObjective()
		if err := ctx.WriteObjectiveToProtoChecked(); err != nil && !errors.Is(err, presolve.ErrNoObjective) {
			return err
		}
	}

	fmt.Printf("variables: %d\n", ctx.NumVariables())
	fmt.Printf("unsat: %v\n", ctx.IsUnsat())
	fmt.Printf("modified domains pending: %d\n", len(ctx.ModifiedDomains()))
	fmt.Printf("presolve operations: %d\n", ctx.NumPresolveOperations())
	for name, n := range ctx.RuleStats() {
		fmt.Printf("  %s: %d\n", name, n)
	}
	return nil
}
