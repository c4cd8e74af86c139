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

// Package dreamtest is the runner façade: it wires a declarative suite.Suite
// through the execution engine to a reporter pipeline, the way
// mantle/harness's Options+Suite pair wires flags, tests, and Reporters
// together for its callers.
package dreamtest

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/coreos/pkg/capnslog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dreamtest/dreamtest/engine"
	"github.com/dreamtest/dreamtest/reporter"
	"github.com/dreamtest/dreamtest/result"
	"github.com/dreamtest/dreamtest/suite"
)

var plog = capnslog.NewPackageLogger("github.com/dreamtest/dreamtest", "dreamtest")

// ErrNoTests is logged as a warning by Runner.Run when the filtered plan is
// empty (the run still proceeds and returns no results), mirroring the
// teacher's harness.SuiteEmpty.
var ErrNoTests = errors.New("dreamtest: no tests matched")

// Options holds the runner's flag-configurable knobs, generalized from
// mantle/harness.Options.
type Options struct {
	MaxConcurrency int
	DefaultTimeout time.Duration
	Match         string
	ExitOnFailure bool
}

// FlagSet wires Options onto a flag.FlagSet with an optional prefix, the
// same shape as mantle/harness.Options.FlagSet.
func (o *Options) FlagSet(prefix string) *flag.FlagSet {
	o.init()
	name := strings.Trim(prefix, ".-")
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.IntVar(&o.MaxConcurrency, prefix+"parallel", o.MaxConcurrency,
		"run at most `n` tests in parallel")
	f.DurationVar(&o.DefaultTimeout, prefix+"timeout", o.DefaultTimeout,
		"fail a test after duration `d` unless it overrides its own timeout")
	f.StringVar(&o.Match, prefix+"run", o.Match,
		"run only tests matching `regexp`")
	f.BoolVar(&o.ExitOnFailure, prefix+"exit-on-failure", o.ExitOnFailure,
		"terminate the process with a non-zero code if any test fails")
	return f
}

func (o *Options) init() {
	if o.MaxConcurrency < 1 {
		o.MaxConcurrency = runtime.GOMAXPROCS(0)
	}
}

// Builder assembles a Runner for a single suite tree. Context is generic
// over C, the domain context type threaded through the suite's hooks.
type Builder[C any] struct {
	suite          suite.Suite[C]
	maxConcurrency int
	defaultTimeout time.Duration
	filter         func(result.TestInfo) bool
	exitOnFailure  bool
	reporters      reporter.Reporters
}

// NewBuilder starts a Builder from a suite tree.
func NewBuilder[C any](s suite.Suite[C]) *Builder[C] {
	return &Builder[C]{
		suite:          s,
		maxConcurrency: runtime.GOMAXPROCS(0),
		defaultTimeout: 30 * time.Second,
	}
}

// MaxConcurrency bounds how many tests run at once.
func (b *Builder[C]) MaxConcurrency(n int) *Builder[C] {
	b.maxConcurrency = n
	return b
}

// DefaultTimeoutMs sets the timeout budget, in milliseconds, for any test
// that does not declare its own.
func (b *Builder[C]) DefaultTimeoutMs(ms int64) *Builder[C] {
	b.defaultTimeout = time.Duration(ms) * time.Millisecond
	return b
}

// FilterTests restricts which tests are built into the plan. It composes
// with the manual-test exclusion rule: Manual tests are always excluded
// unless predicate matches them explicitly.
func (b *Builder[C]) FilterTests(predicate func(result.TestInfo) bool) *Builder[C] {
	b.filter = predicate
	return b
}

// ExitOnFailure requests the terminal-status process-exit behavior
// documented on Runner.Run.
func (b *Builder[C]) ExitOnFailure(v bool) *Builder[C] {
	b.exitOnFailure = v
	return b
}

// Reporter attaches a reporter to the pipeline. Call it multiple times to
// fan out to several.
func (b *Builder[C]) Reporter(r reporter.Reporter) *Builder[C] {
	b.reporters = append(b.reporters, r)
	return b
}

// Build compiles the plan and returns a ready-to-run Runner, without
// executing anything yet. Manual tests are dropped unless the caller's
// FilterTests predicate names them explicitly (returns true for them).
func (b *Builder[C]) Build() *Runner[C] {
	plan := suite.BuildPlan(b.suite.Tree, func(info result.TestInfo) bool {
		if b.filter != nil {
			return b.filter(info)
		}
		return !info.Manual
	})
	return &Runner[C]{
		seed: b.suite.Seed,
		plan: plan,
		cfg: engine.Config{
			MaxConcurrency: b.maxConcurrency,
			DefaultTimeout: b.defaultTimeout,
		},
		exitOnFailure: b.exitOnFailure,
		reporters:     b.reporters,
	}
}

// Run builds and immediately executes the suite, returning every result.
func (b *Builder[C]) Run(ctx context.Context) []result.TestResult {
	return b.Build().Run(ctx)
}

// Runner is a compiled, ready-to-dispatch suite.
type Runner[C any] struct {
	seed          C
	plan          []*suite.CompiledTest[C]
	cfg           engine.Config
	exitOnFailure bool
	reporters     reporter.Reporters
}

// Run executes every test in the plan and returns the aggregated results,
// sorted deterministically by full name. If the runner was built with
// ExitOnFailure and any result is terminal (Failed, SetupFailed, or
// TimedOut), the process exits with a non-zero code after the final
// RunFinished event has been delivered to every reporter.
func (r *Runner[C]) Run(ctx context.Context) []result.TestResult {
	if len(r.plan) == 0 {
		plog.Warningf("%v", ErrNoTests)
	}
	runID := uuid.New()
	results := engine.Run(ctx, runID, r.seed, r.plan, r.cfg, r.reporters.Handle)

	failed := false
	for _, res := range results {
		if res.Status.Terminal() {
			failed = true
		}
	}
	if failed {
		plog.Warningf("run %s completed with failing tests", runID)
	}
	if r.exitOnFailure && failed {
		os.Exit(1)
	}
	return results
}
