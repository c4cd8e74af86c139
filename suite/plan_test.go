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

package suite

import (
	"strings"
	"testing"

	"github.com/dreamtest/dreamtest/result"
)

func TestBuildPlanFlattensNestedGroups(t *testing.T) {
	tree := Group[int]("Outer", nil,
		Test[int]("a", okRun),
		Group[int]("Inner", nil, Test[int]("b", okRun)),
	)
	plan := BuildPlan(tree, nil)
	if len(plan) != 2 {
		t.Fatalf("got %d compiled tests, want 2", len(plan))
	}
	if strings.Join(plan[0].FullName, "/") != "Outer/a" {
		t.Errorf("plan[0].FullName = %v", plan[0].FullName)
	}
	if strings.Join(plan[1].FullName, "/") != "Outer/Inner/b" {
		t.Errorf("plan[1].FullName = %v", plan[1].FullName)
	}
}

func TestBuildPlanFilterPrunesTests(t *testing.T) {
	tree := Group[int]("G", nil, Test[int]("keep", okRun), Test[int]("drop", okRun))
	plan := BuildPlan(tree, func(info result.TestInfo) bool { return info.Name == "keep" })
	if len(plan) != 1 || plan[0].Name != "keep" {
		t.Fatalf("plan = %+v, want just 'keep'", plan)
	}
}

func TestBuildPlanHookPositionalScoping(t *testing.T) {
	// before_each declared between "before" and "after" only applies to
	// "after" and its descendants, matching the tree's positional scoping.
	tree := Group[int]("G", nil,
		Test[int]("before", okRun),
		BeforeEach[int](func(c int) (int, error) { return c + 1, nil }),
		Test[int]("after", okRun),
	)
	plan := BuildPlan(tree, nil)
	if len(plan) != 2 {
		t.Fatalf("got %d compiled tests, want 2", len(plan))
	}
	byName := map[string]*CompiledTest[int]{}
	for _, ct := range plan {
		byName[ct.Name] = ct
	}
	if len(byName["before"].BeforeEach) != 0 {
		t.Errorf("'before' has %d before_each hooks, want 0", len(byName["before"].BeforeEach))
	}
	if len(byName["after"].BeforeEach) != 1 {
		t.Errorf("'after' has %d before_each hooks, want 1", len(byName["after"].BeforeEach))
	}
}

func TestBuildPlanAfterEachStoredForLIFOExecution(t *testing.T) {
	var order []string
	mk := func(name string) AfterEachFunc[int] {
		return func(c int) error { order = append(order, name); return nil }
	}
	tree := Group[int]("G", nil,
		AfterEach[int](mk("A")),
		AfterEach[int](mk("B")),
		Test[int]("t", okRun),
	)
	plan := BuildPlan(tree, nil)
	ct := plan[0]
	if len(ct.AfterEach) != 2 {
		t.Fatalf("got %d after_each hooks, want 2", len(ct.AfterEach))
	}
	for _, fn := range ct.AfterEach {
		fn(0)
	}
	if len(order) != 2 || order[0] != "B" || order[1] != "A" {
		t.Errorf("execution order = %v, want [B A] (LIFO)", order)
	}
}

func TestBuildPlanSharesScopeAcrossSiblings(t *testing.T) {
	tree := Group[int]("G", nil, Test[int]("a", okRun), Test[int]("b", okRun))
	plan := BuildPlan(tree, nil)
	if plan[0].Scopes[0] != plan[1].Scopes[0] {
		t.Error("siblings under the same group should share one ScopeState")
	}
	if plan[0].Scopes[0].TotalTests() != 2 {
		t.Errorf("TotalTests() = %d, want 2", plan[0].Scopes[0].TotalTests())
	}
}

func TestInfoIncludesManual(t *testing.T) {
	tree := Test[int]("m", okRun).AsManual()
	plan := BuildPlan[int](tree, nil)
	if !plan[0].Info().Manual {
		t.Error("Info().Manual = false, want true")
	}
}
