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
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dreamtest/dreamtest/result"
)

// BDD renders an indented, hierarchical transcript: before each test line it
// prints only the group headers that differ from the previous test's group
// path (so a header prints again if completions interleave across groups),
// and a test's own line is indented to its depth. The final summary groups over the sorted
// result set so its counts don't depend on completion order, even though
// the per-event transcript above it does.
type BDD struct {
	Write Writer

	mu       sync.Mutex
	lastPath []string
	results  []result.TestResult
	start    time.Time
}

func NewBDD(w Writer) *BDD {
	return &BDD{Write: w, start: timeNow()}
}

// timeNow supplies NewBDD's initial start time; Handle resets start on
// RunStarted.
func timeNow() time.Time { return time.Now() }

func (b *BDD) Handle(ev result.ReporterEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch ev.Kind {
	case result.EventRunStarted:
		b.start = time.Now()
	case result.EventTestFinished:
		b.results = append(b.results, ev.Result)
		b.emitDelta(ev.Result)
	case result.EventRunFinished:
		b.emitSummary()
	}
}

func (b *BDD) emitDelta(r result.TestResult) {
	groupPath := r.FullName[:len(r.FullName)-1]
	common := 0
	for common < len(groupPath) && common < len(b.lastPath) && groupPath[common] == b.lastPath[common] {
		common++
	}
	for i := common; i < len(groupPath); i++ {
		b.Write(fmt.Sprintf("%s%s", strings.Repeat("  ", i), groupPath[i]))
	}
	b.lastPath = groupPath

	indent := strings.Repeat("  ", len(groupPath))
	b.Write(fmt.Sprintf("%s%s %s", indent, symbolFor(r.Status), r.Name))
}

func (b *BDD) emitSummary() {
	sorted := append([]result.TestResult(nil), b.results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FullNamePath() < sorted[j].FullNamePath() })

	counts := map[result.Status]int{}
	for _, r := range sorted {
		counts[r.Status]++
	}
	b.Write(fmt.Sprintf("%d passed, %d failed, %d skipped, %d setup_failed, %d timed_out (%s)",
		counts[result.Passed], counts[result.Failed], counts[result.Skipped],
		counts[result.SetupFailed], counts[result.TimedOut], time.Since(b.start)))
}

func symbolFor(s result.Status) string {
	switch s {
	case result.Passed:
		return "✓"
	case result.Skipped, result.Pending:
		return "-"
	default:
		return "✗"
	}
}
