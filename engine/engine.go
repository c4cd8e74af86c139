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

// Package engine dispatches a compiled suite plan to sandboxed workers,
// coordinating scope hooks and emitting a push-style event stream, modeled
// on the teacher's Suite.runTests/tRunner/testContext trio but generalized
// from *H subtests to an arbitrary generic TestContext.
package engine

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dreamtest/dreamtest/result"
	"github.com/dreamtest/dreamtest/sandbox"
	"github.com/dreamtest/dreamtest/suite"
)

// Config controls how a plan is dispatched.
type Config struct {
	// MaxConcurrency bounds how many tests run at once. <1 means
	// runtime.GOMAXPROCS(0), mirroring the teacher's Options.Parallel.
	MaxConcurrency int
	// DefaultTimeout is used for any CompiledTest that does not declare its
	// own Timeout override.
	DefaultTimeout time.Duration
}

func (c Config) maxConcurrency() int {
	if c.MaxConcurrency < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return c.MaxConcurrency
}

// effectiveTimeout resolves a test's timeout budget: its own override, if
// any, else the run's default. Go methods cannot carry extra type
// parameters, so this lives as a free function instead of on Config.
func effectiveTimeout[C any](cfg Config, t *suite.CompiledTest[C]) time.Duration {
	if t.Timeout != nil {
		return *t.Timeout
	}
	return cfg.DefaultTimeout
}

// Run dispatches plan to up to cfg.MaxConcurrency concurrent workers,
// invoking emit for every ReporterEvent in an order consistent with §5 of
// the suite tree's DESIGN NOTES: RunStarted first, RunFinished last,
// TestFinished in completion order, HookStarted/HookFinished paired with no
// interleaving for the same invocation. It returns every TestResult sorted
// lexicographically by full name path.
func Run[C any](ctx context.Context, runID uuid.UUID, seed C, plan []*suite.CompiledTest[C], cfg Config, emit func(result.ReporterEvent)) []result.TestResult {
	total := len(plan)

	// events is drained by a single goroutine so emit is always called
	// serially, even though many workers produce events concurrently; this
	// is the "single-consumer completion channel" the suite tree's DESIGN
	// NOTES call for.
	events := make(chan result.ReporterEvent, total*4+4)
	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		// completed is only ever touched here, in the single consumer that
		// drains the channel, so the rank assigned to a TestFinished event
		// is exactly the order in which that event was received -- not the
		// order in which competing workers happened to increment a shared
		// counter before sending.
		completed := 0
		for ev := range events {
			if ev.Kind == result.EventTestFinished {
				completed++
				ev.Completed = completed
			}
			safeEmit(emit, ev)
		}
	}()

	events <- result.RunStarted(total)

	g := newGate(cfg.maxConcurrency())
	results := make([]result.TestResult, total)
	var wg sync.WaitGroup

	for i, ct := range plan {
		wg.Add(1)
		go func(i int, ct *suite.CompiledTest[C]) {
			defer wg.Done()
			g.acquire()
			r := runOne(ctx, seed, ct, cfg, events)
			r.RunID = runID
			g.release()

			results[i] = r
			events <- result.TestFinished(0, total, r)
		}(i, ct)
	}

	wg.Wait()
	close(events)
	<-eventsDone
	safeEmit(emit, result.RunFinished(total, total))

	sort.Slice(results, func(i, j int) bool {
		return results[i].FullNamePath() < results[j].FullNamePath()
	})
	return results
}

// safeEmit discards a panic from a misbehaving reporter writer rather than
// letting it take down the whole run; the engine itself never throws to
// the runner.
func safeEmit(emit func(result.ReporterEvent), ev result.ReporterEvent) {
	defer func() { recover() }()
	emit(ev)
}

func runOne[C any](ctx context.Context, seed C, ct *suite.CompiledTest[C], cfg Config, events chan<- result.ReporterEvent) result.TestResult {
	start := time.Now()
	base := result.TestResult{
		Name:     ct.Name,
		FullName: ct.FullName,
		Tags:     ct.Tags,
		Kind:     ct.Kind,
		Feature:  ct.Feature,
	}
	scopeName := strings.Join(ct.FullName[:len(ct.FullName)-1], "/")

	finish := func(ctx C) func() {
		return func() {
			// CompleteOne must run for every scope exactly once per test,
			// innermost first, regardless of how the test itself fared.
			for i := len(ct.Scopes) - 1; i >= 0; i-- {
				err, ran := ct.Scopes[i].CompleteOne(ctx)
				if !ran {
					continue
				}
				if len(ct.Scopes[i].AfterAll) == 0 {
					continue
				}
				name := ct.Scopes[i].Name
				outcome := result.HookOutcome{Err: err}
				events <- result.HookStarted(result.HookAfterAll, name, "")
				events <- result.HookFinished(result.HookAfterAll, name, "", outcome)
			}
		}
	}

	// Run every ancestor scope's before_all, root to leaf, folding the
	// context through each in turn, starting from the suite's seed.
	prepCtx := seed
	var setupErr error
	for _, scope := range ct.Scopes {
		next, err, ran := scope.EnsureBeforeAll(prepCtx)
		if ran && len(scope.BeforeAll) > 0 {
			events <- result.HookStarted(result.HookBeforeAll, scope.Name, "")
			events <- result.HookFinished(result.HookBeforeAll, scope.Name, "", result.HookOutcome{Err: err})
		}
		prepCtx = next
		if err != nil {
			setupErr = err
			break
		}
	}

	defer finish(prepCtx)()

	if setupErr != nil {
		base.Status = result.SetupFailed
		base.Failures = []result.Failure{{Operator: "before_all", Message: setupErr.Error()}}
		base.Duration = time.Since(start)
		return base
	}

	testCtx := prepCtx

	hasBeforeEach := len(ct.BeforeEach) > 0
	if hasBeforeEach {
		events <- result.HookStarted(result.HookBeforeEach, scopeName, ct.Name)
	}
	var beforeErr error
	for _, fn := range ct.BeforeEach {
		var err error
		testCtx, err = fn(testCtx)
		if err != nil {
			beforeErr = err
			break
		}
	}
	if hasBeforeEach {
		events <- result.HookFinished(result.HookBeforeEach, scopeName, ct.Name, result.HookOutcome{Err: beforeErr})
	}

	if beforeErr != nil {
		runAfterEachBestEffort(ct, testCtx, scopeName, events)
		base.Status = result.SetupFailed
		base.Failures = []result.Failure{{Operator: "before_each", Message: beforeErr.Error()}}
		base.Duration = time.Since(start)
		return base
	}

	outcome := sandbox.Run(ctx, effectiveTimeout(cfg, ct), func(_ context.Context) suite.TestOutcome {
		return ct.Run(testCtx)
	})
	runAfterEachBestEffort(ct, testCtx, scopeName, events)

	base.Duration = time.Since(start)
	switch outcome.Kind {
	case sandbox.Ok:
		to := outcome.Value
		if to.SetupErr != "" {
			base.Status = result.SetupFailed
			base.Failures = []result.Failure{{Operator: "setup", Message: to.SetupErr}}
		} else if to.Assertion.IsFailed() {
			base.Status = result.Failed
			if f := to.Assertion.Failure(); f != nil {
				base.Failures = []result.Failure{*f}
			}
		} else if to.Assertion.Kind() == result.AssertionSkipped {
			base.Status = result.Skipped
		} else {
			base.Status = result.Passed
		}
	case sandbox.Crashed:
		base.Status = result.Failed
		base.Failures = []result.Failure{{Operator: "panic", Message: outcome.Message}}
	case sandbox.TimedOut:
		base.Status = result.TimedOut
	}
	return base
}

func runAfterEachBestEffort[C any](ct *suite.CompiledTest[C], ctx C, scopeName string, events chan<- result.ReporterEvent) {
	if len(ct.AfterEach) == 0 {
		return
	}
	events <- result.HookStarted(result.HookAfterEach, scopeName, ct.Name)
	var afterErr error
	for _, fn := range ct.AfterEach {
		if err := fn(ctx); err != nil && afterErr == nil {
			afterErr = err
		}
	}
	events <- result.HookFinished(result.HookAfterEach, scopeName, ct.Name, result.HookOutcome{Err: afterErr})
}
