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
	"sync"
	"time"

	"github.com/dreamtest/dreamtest/result"
)

// ScopeState coordinates the once-per-scope BeforeAll/AfterAll hooks for one
// group frame. It is shared, by pointer, across every CompiledTest whose
// ancestor chain passes through that group. BeforeAll/AfterAll hooks
// declared anywhere within a single group apply to the whole group (the
// engine does not re-scope them test-by-test the way BeforeEach/AfterEach
// are re-scoped); see DESIGN.md for why this simplification is safe.
type ScopeState[C any] struct {
	Name      string
	BeforeAll []BeforeAllFunc[C]
	AfterAll  []AfterAllFunc[C]

	// totalTests is the number of surviving (post-filter) tests transitively
	// under this scope; used by the engine to know when the last test has
	// completed so AfterAll can run exactly once.
	totalTests int32

	mu       sync.Mutex
	started  bool
	readyCh  chan struct{}
	ctxAfter C
	setupErr error

	completed    int32
	afterAllOnce sync.Once
}

// TotalTests reports how many tests belong to this scope.
func (s *ScopeState[C]) TotalTests() int32 { return s.totalTests }

// CompiledTest is a flat, ready-to-dispatch execution plan for a single
// test: the prepared (before_chain, body, after_chain) triple called for by
// the suite tree's DESIGN NOTES, captured once at tree-walk time instead of
// being re-derived by re-traversing the tree for every test.
type CompiledTest[C any] struct {
	Name     string
	FullName []string
	Tags     []string
	Kind     result.TestKind
	Feature  string
	Manual   bool
	Timeout  *time.Duration

	BeforeEach []BeforeEachFunc[C]
	AfterEach  []AfterEachFunc[C]
	Run        RunFunc[C]

	// Scopes holds the ancestor chain of group scopes, root-most first, so
	// the engine can run each level's BeforeAll before descending.
	Scopes []*ScopeState[C]
}

// Info reduces a CompiledTest to the filterable TestInfo view.
func (c *CompiledTest[C]) Info() result.TestInfo {
	return result.TestInfo{
		Name:     c.Name,
		FullName: strings.Join(c.FullName, "/"),
		Tags:     c.Tags,
		Kind:     c.Kind,
		Feature:  c.Feature,
		Manual:   c.Manual,
	}
}

// BuildPlan walks tree depth-first, left-to-right, applying filter (if
// non-nil) to decide which tests survive, and returns the flat list of
// compiled tests in declaration order. Groups whose subtree becomes empty
// after filtering are pruned entirely, along with their hooks.
func BuildPlan[C any](tree Node[C], filter func(result.TestInfo) bool) []*CompiledTest[C] {
	var out []*CompiledTest[C]
	walkNode(tree, nil, nil, nil, nil, nil, filter, &out)
	return out
}

func walkNode[C any](
	n Node[C],
	path []string,
	tags []string,
	inheritedBeforeEach []BeforeEachFunc[C],
	inheritedAfterEach []AfterEachFunc[C],
	inheritedScopes []*ScopeState[C],
	filter func(result.TestInfo) bool,
	out *[]*CompiledTest[C],
) {
	switch g := n.(type) {
	case GroupNode[C]:
		walkGroup(g, path, tags, inheritedBeforeEach, inheritedAfterEach, inheritedScopes, filter, out)
	case TestNode[C]:
		tryAppendTest(g, path, tags, inheritedBeforeEach, inheritedAfterEach, inheritedScopes, filter, out)
	}
}

func walkGroup[C any](
	g GroupNode[C],
	path []string,
	tags []string,
	inheritedBeforeEach []BeforeEachFunc[C],
	inheritedAfterEach []AfterEachFunc[C],
	inheritedScopes []*ScopeState[C],
	filter func(result.TestInfo) bool,
	out *[]*CompiledTest[C],
) {
	childPath := path
	if g.Name != "" {
		childPath = append(append([]string{}, path...), g.Name)
	}
	childTags := append(append([]string{}, tags...), g.Tags...)

	scope := &ScopeState[C]{Name: g.Name, readyCh: make(chan struct{})}
	childScopes := append(append([]*ScopeState[C]{}, inheritedScopes...), scope)

	localBeforeEach := append([]BeforeEachFunc[C]{}, inheritedBeforeEach...)
	localAfterEach := append([]AfterEachFunc[C]{}, inheritedAfterEach...)
	var localBeforeAll []BeforeAllFunc[C]
	var localAfterAll []AfterAllFunc[C]

	for _, child := range g.Children {
		switch c := child.(type) {
		case beforeAllNode[C]:
			localBeforeAll = append(localBeforeAll, c.Fn)
		case beforeEachNode[C]:
			localBeforeEach = append(localBeforeEach, c.Fn)
		case afterEachNode[C]:
			// after_each runs LIFO; prepend so later-declared hooks unwind first.
			localAfterEach = append([]AfterEachFunc[C]{c.Fn}, localAfterEach...)
		case afterAllNode[C]:
			localAfterAll = append([]AfterAllFunc[C]{c.Fn}, localAfterAll...)
		case TestNode[C]:
			tryAppendTest(c, childPath, childTags, localBeforeEach, localAfterEach, childScopes, filter, out)
		case GroupNode[C]:
			walkGroup(c, childPath, childTags, localBeforeEach, localAfterEach, childScopes, filter, out)
		}
	}

	scope.BeforeAll = localBeforeAll
	scope.AfterAll = localAfterAll
}

func tryAppendTest[C any](
	t TestNode[C],
	path []string,
	tags []string,
	beforeEach []BeforeEachFunc[C],
	afterEach []AfterEachFunc[C],
	scopes []*ScopeState[C],
	filter func(result.TestInfo) bool,
	out *[]*CompiledTest[C],
) {
	fullName := append(append([]string{}, path...), t.Name)
	info := result.TestInfo{
		Name:     t.Name,
		FullName: strings.Join(fullName, "/"),
		Tags:     append(append([]string{}, tags...), t.Tags...),
		Kind:     t.Kind,
		Feature:  t.Feature,
		Manual:   t.Manual,
	}
	if filter != nil && !filter(info) {
		return
	}

	ct := &CompiledTest[C]{
		Name:       t.Name,
		FullName:   fullName,
		Tags:       info.Tags,
		Kind:       t.Kind,
		Feature:    t.Feature,
		Manual:     t.Manual,
		Timeout:    t.Timeout,
		BeforeEach: beforeEach,
		AfterEach:  afterEach,
		Run:        t.Run,
		Scopes:     append([]*ScopeState[C]{}, scopes...),
	}
	for _, s := range ct.Scopes {
		s.totalTests++
	}
	*out = append(*out, ct)
}
