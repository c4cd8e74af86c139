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

// AssertionKind distinguishes the three states an assertion can settle into.
type AssertionKind int

const (
	AssertionOk AssertionKind = iota
	AssertionSkipped
	AssertionFailed
)

// Diff is a structured payload describing why an assertion failed. Matcher
// libraries (equality, boolean, snapshot) construct these; the core only
// stores and forwards them.
type Diff struct {
	// Path identifies the snapshot file or field path involved, if any.
	Path string
	// Missing is set when a snapshot diff failed because no baseline exists.
	Missing bool
	// Expected and Actual hold the formatted values being compared.
	Expected string
	Actual   string
}

// Failure describes one failed assertion.
type Failure struct {
	Operator string
	Message  string
	Diff     *Diff
}

// AssertionResult is the outcome of a single assertion inside a test body.
// Once constructed it is immutable; Failed assertions never mutate after
// creation.
type AssertionResult struct {
	kind    AssertionKind
	failure *Failure
}

// Ok constructs a passing AssertionResult.
func Ok() AssertionResult { return AssertionResult{kind: AssertionOk} }

// SkippedResult constructs a skipped AssertionResult.
func SkippedResult() AssertionResult { return AssertionResult{kind: AssertionSkipped} }

// FailedResult constructs a failing AssertionResult carrying the given failure.
func FailedResult(f Failure) AssertionResult {
	return AssertionResult{kind: AssertionFailed, failure: &f}
}

// Kind reports which of Ok/Skipped/Failed the assertion settled into.
func (a AssertionResult) Kind() AssertionKind { return a.kind }

// Failure returns the failure payload, or nil if the assertion did not fail.
func (a AssertionResult) Failure() *Failure { return a.failure }

// IsFailed reports whether the assertion failed.
func (a AssertionResult) IsFailed() bool { return a.kind == AssertionFailed }
