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

package reporter

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dreamtest/dreamtest/result"
)

// jsonTest mirrors the teacher's reporters.jsonTest shape, generalized with
// the richer fields TestResult carries.
type jsonTest struct {
	Name     string           `json:"name"`
	FullName string           `json:"full_name"`
	Status   result.Status    `json:"status"`
	Duration int64            `json:"duration_ms"`
	Tags     []string         `json:"tags,omitempty"`
	Failures []result.Failure `json:"failures,omitempty"`
}

type jsonSummary struct {
	Total       int `json:"total"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
	SetupFailed int `json:"setup_failed"`
	TimedOut    int `json:"timed_out"`
}

type jsonDocument struct {
	Tests       []jsonTest  `json:"tests"`
	Summary     jsonSummary `json:"summary"`
	TimestampMs int64       `json:"timestamp_ms"`
}

// JSON accumulates TestResults as they arrive and emits a single document
// at RunFinished, matching the teacher's jsonReporter buffering model: no
// incremental per-event emission is required.
type JSON struct {
	Write Writer
	// Now returns the wall-clock time to stamp the document with; defaults
	// to time.Now but is overridable so tests are deterministic.
	Now func() time.Time

	mu      sync.Mutex
	results []result.TestResult
}

func NewJSON(w Writer) *JSON {
	return &JSON{Write: w, Now: time.Now}
}

func (j *JSON) Handle(ev result.ReporterEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch ev.Kind {
	case result.EventTestFinished:
		j.results = append(j.results, ev.Result)
	case result.EventRunFinished:
		j.emit()
	}
}

func (j *JSON) emit() {
	doc := jsonDocument{TimestampMs: j.Now().UnixMilli()}
	for _, r := range j.results {
		doc.Tests = append(doc.Tests, jsonTest{
			Name:     r.Name,
			FullName: r.FullNamePath(),
			Status:   r.Status,
			Duration: r.Duration.Milliseconds(),
			Tags:     r.Tags,
			Failures: r.Failures,
		})
		doc.Summary.Total++
		switch r.Status {
		case result.Passed:
			doc.Summary.Passed++
		case result.Failed:
			doc.Summary.Failed++
		case result.Skipped, result.Pending:
			doc.Summary.Skipped++
		case result.SetupFailed:
			doc.Summary.SetupFailed++
		case result.TimedOut:
			doc.Summary.TimedOut++
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return
	}
	j.Write(string(b))
}
