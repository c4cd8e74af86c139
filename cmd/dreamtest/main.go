// Copyright 2017 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command dreamtest is a thin cobra front door onto the dreamtest runner,
// the way cmd/kola wraps mantle/kola's harness-based runner. It carries a
// small built-in demo suite (including one lowered Gherkin feature) so the
// core library is reachable end-to-end without a host project wiring its
// own tests in.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dreamtest/dreamtest"
	"github.com/dreamtest/dreamtest/gherkin"
	lmaps "github.com/dreamtest/dreamtest/lang/maps"
	"github.com/dreamtest/dreamtest/lang/natsort"
	"github.com/dreamtest/dreamtest/reporter"
	"github.com/dreamtest/dreamtest/result"
	"github.com/dreamtest/dreamtest/suite"
)

var (
	plog = capnslog.NewPackageLogger("github.com/dreamtest/dreamtest", "cmd")

	opts dreamtest.Options

	format string

	root = &cobra.Command{
		Use:   "dreamtest [command]",
		Short: "Run the dreamtest demo suite",
	}

	cmdRun = &cobra.Command{
		Use:   "run",
		Short: "Run the demo suite and report results",
		Run:   runRun,
	}

	cmdList = &cobra.Command{
		Use:   "list",
		Short: "List the demo suite's test names",
		Run:   runList,
	}
)

func init() {
	fs := opts.FlagSet("dreamtest.")
	root.PersistentFlags().AddGoFlagSet(fs)
	cmdRun.Flags().StringVar(&format, "format", "bdd", "reporter format: bdd, progress, or json")

	root.AddCommand(cmdRun)
	root.AddCommand(cmdList)
}

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runRun(cmd *cobra.Command, args []string) {
	b := dreamtest.NewBuilder(demoSuite()).
		MaxConcurrency(opts.MaxConcurrency).
		DefaultTimeoutMs(int64(opts.DefaultTimeout / 1e6)).
		ExitOnFailure(opts.ExitOnFailure)

	if opts.Match != "" {
		m, err := suite.NewMatcher(opts.Match)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -dreamtest.run pattern: %v\n", err)
			os.Exit(1)
		}
		b.FilterTests(m.Match)
	}

	switch format {
	case "progress":
		b.Reporter(reporter.NewProgress(writeStdout, 60))
	case "json":
		b.Reporter(reporter.NewJSON(writeStdout))
	default:
		b.Reporter(reporter.NewBDD(writeStdout))
	}

	results := b.Run(context.Background())

	failed := 0
	for _, r := range results {
		if r.Status.Terminal() {
			failed++
		}
	}
	plog.Noticef("run complete: %d tests, %d failed", len(results), failed)
}

func runList(cmd *cobra.Command, args []string) {
	plan := suite.BuildPlan(demoSuite().Tree, nil)

	// Group by top-level suite name for display purposes only; the
	// engine's own result ordering (in runRun) stays strictly
	// lexicographic regardless of how this listing is grouped.
	byGroup := map[string][]string{}
	for _, ct := range plan {
		top := ct.FullName[0]
		byGroup[top] = append(byGroup[top], ct.Info().FullName)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "Test Name")
	for _, group := range lmaps.SortedKeys(byGroup) {
		names := byGroup[group]
		natsort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
	}
	w.Flush()
}

func writeStdout(s string) {
	fmt.Print(s)
}

// demoSuite assembles the built-in example tree: a plain group of unit
// tests plus one Gherkin feature lowered via the gherkin package, so both
// surfaces of the library run under a single command.
func demoSuite() suite.Suite[gherkin.WorldContext] {
	unit := suite.Group[gherkin.WorldContext]("arithmetic", nil,
		suite.Test[gherkin.WorldContext]("addition holds", func(w gherkin.WorldContext) suite.TestOutcome {
			if 2+2 != 4 {
				return suite.TestOutcome{Assertion: result.FailedResult(result.Failure{
					Operator: "==", Message: "2+2 != 4",
				})}
			}
			return suite.TestOutcome{Assertion: result.Ok()}
		}),
	)

	feature := gherkin.Feature{
		Name: "greeting",
		Background: []gherkin.Step{{
			Keyword: "Given", Text: "a name",
			Run: func(w gherkin.WorldContext) (gherkin.WorldContext, error) {
				return w.With("name", "World"), nil
			},
		}},
		Scenarios: []gherkin.Scenario{{
			Name: "says hello",
			Steps: []gherkin.Step{{
				Keyword: "Then", Text: "the greeting mentions the name",
				Run: func(w gherkin.WorldContext) (gherkin.WorldContext, error) {
					_, ok := w.Get("name")
					if !ok {
						return w, errors.New("no name in context")
					}
					return w, nil
				},
			}},
		}},
	}

	tree := suite.Group[gherkin.WorldContext]("demo", nil, unit, gherkin.Lower(feature))
	return suite.Root(gherkin.WorldContext{}, tree)
}
