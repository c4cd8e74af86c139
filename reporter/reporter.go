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

// Package reporter implements the push-style consumers of the engine's
// event stream: BDD, Progress, and JSON, grounded on the fan-out shape of
// mantle/harness/reporters.Reporters and mantle/harness/reporters.json.go.
package reporter

import "github.com/dreamtest/dreamtest/result"

// Writer is the narrow output contract reporters write through. A panic
// from Writer is caught and discarded by the engine's safeEmit, so a
// misbehaving sink (a closed pipe, a full socket) cannot take down a run.
type Writer func(string)

// Reporter consumes one ReporterEvent at a time.
type Reporter interface {
	Handle(result.ReporterEvent)
}

// Reporters fans one event out to every member, mirroring
// reporters.Reporters' fan-out in the teacher.
type Reporters []Reporter

func (rs Reporters) Handle(ev result.ReporterEvent) {
	for _, r := range rs {
		r.Handle(ev)
	}
}
