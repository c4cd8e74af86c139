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
	"strings"
	"testing"
	"time"

	"github.com/dreamtest/dreamtest/result"
)

func finished(full []string, status result.Status) result.ReporterEvent {
	return result.TestFinished(1, 1, result.TestResult{
		Name:     full[len(full)-1],
		FullName: full,
		Status:   status,
		Duration: time.Millisecond,
	})
}

func TestBDDEmitsGroupDeltaOnce(t *testing.T) {
	var lines []string
	b := NewBDD(func(s string) { lines = append(lines, s) })

	b.Handle(result.RunStarted(2))
	b.Handle(finished([]string{"G", "A"}, result.Passed))
	b.Handle(finished([]string{"G", "B"}, result.Failed))
	b.Handle(result.RunFinished(2, 2))

	groupHeaders := 0
	for _, l := range lines {
		if strings.Contains(l, "G") && !strings.Contains(l, "✓") && !strings.Contains(l, "✗") {
			groupHeaders++
		}
	}
	if groupHeaders != 1 {
		t.Errorf("expected the group header to print exactly once, got %d in %v", groupHeaders, lines)
	}
}

func TestProgressWidthClampedAndGraphemeAware(t *testing.T) {
	var lines []string
	p := NewProgress(func(s string) { lines = append(lines, s) }, 5)
	if p.Width != minProgressWidth {
		t.Fatalf("width = %d, want clamp to %d", p.Width, minProgressWidth)
	}

	p.Handle(result.RunStarted(1))
	p.Handle(finished([]string{"G", "日本語"}, result.Passed))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "\r[") {
		t.Errorf("expected carriage-return rewritten line, got %q", lines[1])
	}
	// "日本語" is 9 bytes but 6 display columns, so padding by display width
	// adds minProgressWidth-6 spaces.
	if want := "  日本語" + strings.Repeat(" ", minProgressWidth-6); !strings.HasSuffix(lines[1], want) {
		t.Errorf("expected name padded to %d display columns, got %q", minProgressWidth, lines[1])
	}
}

func TestJSONBuffersUntilRunFinished(t *testing.T) {
	var docs []string
	j := NewJSON(func(s string) { docs = append(docs, s) })
	j.Now = func() time.Time { return time.Unix(0, 0) }

	j.Handle(finished([]string{"G", "A"}, result.Passed))
	if len(docs) != 0 {
		t.Fatalf("expected no output before RunFinished, got %v", docs)
	}

	j.Handle(result.RunFinished(1, 1))
	if len(docs) != 1 {
		t.Fatalf("expected exactly one document, got %d", len(docs))
	}

	var doc jsonDocument
	if err := json.Unmarshal([]byte(docs[0]), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Summary.Total != 1 || doc.Summary.Passed != 1 {
		t.Errorf("summary = %+v, want {Total:1 Passed:1 ...}", doc.Summary)
	}
	if len(doc.Tests) != 1 || doc.Tests[0].FullName != "G/A" {
		t.Errorf("tests = %+v", doc.Tests)
	}
}

func TestReportersFanOut(t *testing.T) {
	var aCount, bCount int
	fa := handlerFunc(func(result.ReporterEvent) { aCount++ })
	fb := handlerFunc(func(result.ReporterEvent) { bCount++ })
	rs := Reporters{fa, fb}
	rs.Handle(result.RunStarted(1))
	if aCount != 1 || bCount != 1 {
		t.Fatalf("fan-out counts = (%d,%d), want (1,1)", aCount, bCount)
	}
}

type handlerFunc func(result.ReporterEvent)

func (f handlerFunc) Handle(ev result.ReporterEvent) { f(ev) }
