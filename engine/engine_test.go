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

package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dreamtest/dreamtest/result"
	"github.com/dreamtest/dreamtest/suite"
)

func passingTest(name string) suite.Node[int] {
	return suite.Test[int](name, func(ctx int) suite.TestOutcome {
		return suite.TestOutcome{Assertion: result.Ok()}
	})
}

func TestRunTrivialPass(t *testing.T) {
	tree := suite.Group[int]("Math", nil, passingTest("adds"))
	plan := suite.BuildPlan(tree, nil)

	var events []result.ReporterEvent
	results := Run(context.Background(), uuid.New(), 0, plan, Config{MaxConcurrency: 1, DefaultTimeout: time.Second}, func(e result.ReporterEvent) {
		events = append(events, e)
	})

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.FullNamePath() != "Math/adds" {
		t.Errorf("full name = %q", r.FullNamePath())
	}
	if r.Status != result.Passed {
		t.Errorf("status = %v, want Passed", r.Status)
	}

	// Scenario A's suite has no hooks at all, so the literal expected stream
	// is exactly RunStarted, TestFinished, RunFinished -- no BeforeAll/
	// BeforeEach/AfterAll pairs should appear just because the test belongs
	// to a group.
	if len(events) != 3 {
		t.Fatalf("events = %+v, want exactly 3 (RunStarted, TestFinished, RunFinished)", events)
	}
	if events[0].Kind != result.EventRunStarted || events[0].Total != 1 {
		t.Errorf("first event = %+v, want RunStarted(1)", events[0])
	}
	if events[1].Kind != result.EventTestFinished || events[1].Completed != 1 {
		t.Errorf("second event = %+v, want TestFinished(1,1,...)", events[1])
	}
	last := events[len(events)-1]
	if last.Kind != result.EventRunFinished {
		t.Errorf("last event = %+v, want RunFinished", last)
	}
}

func TestRunHookPositionalScope(t *testing.T) {
	incr := suite.BeforeEach[int](func(ctx int) (int, error) { return ctx + 1, nil })
	var seenA, seenB, seenC int
	capture := func(dst *int) suite.RunFunc[int] {
		return func(ctx int) suite.TestOutcome {
			*dst = ctx
			return suite.TestOutcome{Assertion: result.Ok()}
		}
	}

	tree := suite.Group[int]("G", nil,
		suite.Test[int]("A", capture(&seenA)),
		incr,
		suite.Test[int]("B", capture(&seenB)),
		incr,
		suite.Test[int]("C", capture(&seenC)),
	)
	plan := suite.BuildPlan(tree, nil)
	Run(context.Background(), uuid.New(), 0, plan, Config{MaxConcurrency: 1, DefaultTimeout: time.Second}, func(result.ReporterEvent) {})

	if seenA != 0 || seenB != 1 || seenC != 2 {
		t.Errorf("contexts = (%d,%d,%d), want (0,1,2)", seenA, seenB, seenC)
	}
}

func TestRunBeforeAllFailureMarksSetupFailed(t *testing.T) {
	tree := suite.Group[int]("G", nil,
		suite.BeforeAll[int](func(ctx int) (int, error) { return ctx, errors.New("setup broke") }),
		passingTest("X"),
		passingTest("Y"),
	)
	plan := suite.BuildPlan(tree, nil)
	results := Run(context.Background(), uuid.New(), 0, plan, Config{MaxConcurrency: 2, DefaultTimeout: time.Second}, func(result.ReporterEvent) {})

	for _, r := range results {
		if r.Status != result.SetupFailed {
			t.Errorf("%s: status = %v, want SetupFailed", r.FullNamePath(), r.Status)
		}
	}
}

func TestRunCrashIsReportedFailed(t *testing.T) {
	tree := suite.Group[int]("G", nil,
		suite.Test[int]("crashes", func(ctx int) suite.TestOutcome {
			panic("kaboom")
		}),
	)
	plan := suite.BuildPlan(tree, nil)
	results := Run(context.Background(), uuid.New(), 0, plan, Config{MaxConcurrency: 1, DefaultTimeout: time.Second}, func(result.ReporterEvent) {})

	if results[0].Status != result.Failed {
		t.Fatalf("status = %v, want Failed", results[0].Status)
	}
}

func TestRunTimeout(t *testing.T) {
	tree := suite.Group[int]("G", nil,
		suite.Test[int]("slow", func(ctx int) suite.TestOutcome {
			time.Sleep(200 * time.Millisecond)
			return suite.TestOutcome{Assertion: result.Ok()}
		}).WithTimeout(10*time.Millisecond),
	)
	plan := suite.BuildPlan(tree, nil)
	results := Run(context.Background(), uuid.New(), 0, plan, Config{MaxConcurrency: 1, DefaultTimeout: time.Second}, func(result.ReporterEvent) {})

	if results[0].Status != result.TimedOut {
		t.Fatalf("status = %v, want TimedOut", results[0].Status)
	}
	if len(results[0].Failures) != 0 {
		t.Errorf("failures = %+v, want none recorded for TimedOut", results[0].Failures)
	}
}

func TestRunFinalOrderingIsLexicographic(t *testing.T) {
	tree := suite.Group[int]("G", nil,
		passingTest("test10"),
		passingTest("test2"),
		passingTest("test1"),
	)
	plan := suite.BuildPlan(tree, nil)
	results := Run(context.Background(), uuid.New(), 0, plan, Config{MaxConcurrency: 4, DefaultTimeout: time.Second}, func(result.ReporterEvent) {})

	var names []string
	for _, r := range results {
		names = append(names, r.FullNamePath())
	}
	want := []string{"G/test1", "G/test10", "G/test2"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestRunCompletedCounterIsMonotonic(t *testing.T) {
	var nodes []suite.Node[int]
	for i := 0; i < 10; i++ {
		nodes = append(nodes, passingTest(fmt.Sprintf("t%d", i)))
	}
	tree := suite.Group[int]("G", nil, nodes...)
	plan := suite.BuildPlan(tree, nil)

	var completedSeq []int
	Run(context.Background(), uuid.New(), 0, plan, Config{MaxConcurrency: 8, DefaultTimeout: time.Second}, func(e result.ReporterEvent) {
		if e.Kind == result.EventTestFinished {
			completedSeq = append(completedSeq, e.Completed)
		}
	})
	for i, c := range completedSeq {
		if c != i+1 {
			t.Fatalf("completed sequence = %v, not 1..N", completedSeq)
		}
	}
}
