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

// Package gherkin lowers a parsed Gherkin feature onto the suite tree.
// Parsing itself is out of scope (per the spec this package lowers from);
// callers hand in an already-parsed Feature value, the same way
// kola/register.Test hands the runner an already-constructed declarative
// test description rather than discovering it via reflection.
package gherkin

// Step is one line of a scenario or background, already parsed into its
// keyword and text. Run executes the step against the current WorldContext
// and returns the context to carry into the next step.
type Step struct {
	Keyword string
	Text    string
	Run     func(WorldContext) (WorldContext, error)
}

// Scenario is one example within a feature. Outline rows are expanded into
// one Scenario per row by the caller before Lower sees them; Lower itself
// has no notion of outlines.
type Scenario struct {
	Name  string
	Steps []Step
}

// Feature is a parsed Gherkin document: a name, optional background steps
// shared by every scenario, and the scenarios themselves.
type Feature struct {
	Name       string
	Background []Step
	Scenarios  []Scenario
	// ParseError, if non-nil, means the document failed to parse; Lower
	// turns this into a single synthetic failing test instead of a group
	// of scenarios.
	ParseError error
}
