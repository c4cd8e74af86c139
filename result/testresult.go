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

package result

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TestKind identifies the reporting lane a test belongs to. It has no effect
// on runtime behavior.
type TestKind int

const (
	Unit TestKind = iota
	Integration
	GherkinScenario
)

// TestInfo is the read-only view of a test exposed to filter predicates.
type TestInfo struct {
	Name     string
	FullName string
	Tags     []string
	Kind     TestKind
	// Feature is set when Kind == GherkinScenario and names the feature
	// the scenario belongs to.
	Feature string
	// Manual marks a test that is excluded from a run unless a filter
	// predicate names it explicitly.
	Manual bool
}

// TestResult is the outcome of one executed test, owned by the execution
// engine until it is handed off to the reporter pipeline.
type TestResult struct {
	RunID    uuid.UUID
	Name     string
	FullName []string
	Status   Status
	Duration time.Duration
	Tags     []string
	Failures []Failure
	Kind     TestKind
	Feature  string
}

// FullNamePath joins FullName with "/" for display, matching the teacher's
// slash-separated subtest naming in harness/match.go.
func (r TestResult) FullNamePath() string {
	return strings.Join(r.FullName, "/")
}

// Info reduces a TestResult to the filterable TestInfo view.
func (r TestResult) Info() TestInfo {
	kindName := ""
	if r.Kind == GherkinScenario {
		kindName = r.Feature
	}
	return TestInfo{
		Name:     r.Name,
		FullName: r.FullNamePath(),
		Tags:     r.Tags,
		Kind:     r.Kind,
		Feature:  kindName,
	}
}
