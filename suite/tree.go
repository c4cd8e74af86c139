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

// Package suite implements the declarative test tree: groups, tests, and
// positionally-scoped lifecycle hooks, generic over a context type that is
// threaded functionally from BeforeAll/BeforeEach hooks down to test bodies.
package suite

import (
	"time"

	"github.com/dreamtest/dreamtest/result"
)

// TestOutcome is what a test body produces: either a settled assertion
// result, or a setup error string if the test could not even be prepared.
type TestOutcome struct {
	Assertion result.AssertionResult
	SetupErr  string
}

// BeforeAllFunc transforms the inherited seed context once per scope.
type BeforeAllFunc[C any] func(C) (C, error)

// BeforeEachFunc transforms the context once per test.
type BeforeEachFunc[C any] func(C) (C, error)

// AfterEachFunc and AfterAllFunc run cleanup; errors are surfaced but do not
// unwind other pending cleanups (best-effort, per spec).
type AfterEachFunc[C any] func(C) error
type AfterAllFunc[C any] func(C) error

// RunFunc produces a test's body once handed a prepared context.
type RunFunc[C any] func(C) TestOutcome

// Node is the tagged union of the five suite-tree node kinds. GroupNode and
// TestNode are exported; the four hook node types are unexported. Construct
// nodes with the Group/Test/BeforeAll/... helpers.
type Node[C any] interface {
	isNode()
}

// GroupNode is an ordered, possibly nested, named container.
type GroupNode[C any] struct {
	Name     string
	Tags     []string
	Children []Node[C]
}

func (GroupNode[C]) isNode() {}

// Group constructs a GroupNode.
func Group[C any](name string, tags []string, children ...Node[C]) Node[C] {
	return GroupNode[C]{Name: name, Tags: tags, Children: children}
}

// TestNode declares a single test.
type TestNode[C any] struct {
	Name    string
	Tags    []string
	Kind    result.TestKind
	Feature string // set when Kind == result.GherkinScenario
	Run     RunFunc[C]
	// Timeout overrides the runner's default_timeout_ms for this test alone.
	// nil means "use the default"; a negative duration means "unbounded".
	Timeout *time.Duration
	// Manual tests are excluded unless a filter names them exactly,
	// generalized from the teacher's register.Test.Manual field.
	Manual bool
}

func (TestNode[C]) isNode() {}

// Test constructs a TestNode. The concrete type is returned (rather than
// the Node interface) so callers can chain WithTags/WithTimeout/AsManual/
// AsKind; TestNode already satisfies Node and converts implicitly wherever
// one is expected, such as inside Group's children list.
func Test[C any](name string, run RunFunc[C]) TestNode[C] {
	return TestNode[C]{Name: name, Run: run}
}

// WithTags returns a copy of the test with the given tags attached.
func (t TestNode[C]) WithTags(tags ...string) TestNode[C] {
	t.Tags = tags
	return t
}

// WithTimeout returns a copy of the test with a per-test timeout override.
func (t TestNode[C]) WithTimeout(d time.Duration) TestNode[C] {
	t.Timeout = &d
	return t
}

// AsManual returns a copy of the test marked Manual.
func (t TestNode[C]) AsManual() TestNode[C] {
	t.Manual = true
	return t
}

// AsKind returns a copy of the test tagged with the given reporting kind.
func (t TestNode[C]) AsKind(k result.TestKind, feature string) TestNode[C] {
	t.Kind = k
	t.Feature = feature
	return t
}

type beforeAllNode[C any] struct{ Fn BeforeAllFunc[C] }

func (beforeAllNode[C]) isNode() {}

// BeforeAll declares a once-per-scope context-transforming setup hook. It
// applies to every test in its group (and their descendants), wherever it
// is declared among the group's children; unlike BeforeEach, it is not
// scoped by position, so tests declared before it also see its context.
func BeforeAll[C any](fn BeforeAllFunc[C]) Node[C] { return beforeAllNode[C]{Fn: fn} }

type beforeEachNode[C any] struct{ Fn BeforeEachFunc[C] }

func (beforeEachNode[C]) isNode() {}

// BeforeEach declares a per-test context-transforming setup hook. It
// applies only to tests that are subsequent siblings within its group (and
// their descendants), per the suite tree's positional hook semantics.
func BeforeEach[C any](fn BeforeEachFunc[C]) Node[C] { return beforeEachNode[C]{Fn: fn} }

type afterEachNode[C any] struct{ Fn AfterEachFunc[C] }

func (afterEachNode[C]) isNode() {}

// AfterEach declares a per-test cleanup hook, run in LIFO order relative to
// its declaration among the active before_each chain.
func AfterEach[C any](fn AfterEachFunc[C]) Node[C] { return afterEachNode[C]{Fn: fn} }

type afterAllNode[C any] struct{ Fn AfterAllFunc[C] }

func (afterAllNode[C]) isNode() {}

// AfterAll declares a once-per-scope cleanup hook, run LIFO with respect to
// before_all once every descendant test in scope has completed.
func AfterAll[C any](fn AfterAllFunc[C]) Node[C] { return afterAllNode[C]{Fn: fn} }

// Suite is the root of an immutable test tree plus its seed context.
type Suite[C any] struct {
	Seed C
	Tree Node[C]
}

// Root constructs a Suite.
func Root[C any](seed C, tree Node[C]) Suite[C] {
	return Suite[C]{Seed: seed, Tree: tree}
}
