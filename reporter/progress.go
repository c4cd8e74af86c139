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
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/dreamtest/dreamtest/result"
)

const minProgressWidth = 20

// Progress renders a single rewritable line via carriage return:
// "[bar] completed/total  <name>". The bar is Width columns wide, clamped to
// at least minProgressWidth. The current test name is right-padded to
// minProgressWidth columns measured by display width (grapheme-aware via
// go-runewidth), not byte length, so CJK or accented test names don't
// throw off the line's alignment.
type Progress struct {
	Write Writer
	Width int

	mu sync.Mutex
}

func NewProgress(w Writer, width int) *Progress {
	if width < minProgressWidth {
		width = minProgressWidth
	}
	return &Progress{Write: w, Width: width}
}

func (p *Progress) Handle(ev result.ReporterEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Kind {
	case result.EventRunStarted:
		p.render(0, ev.Total, "")
	case result.EventTestFinished:
		p.render(ev.Completed, ev.Total, ev.Result.Name)
	case result.EventRunFinished:
		p.render(ev.Completed, ev.Total, "")
		p.Write("\n")
	}
}

func (p *Progress) render(completed, total int, currentName string) {
	filled := 0
	if total > 0 {
		filled = completed * p.Width / total
	}
	if filled > p.Width {
		filled = p.Width
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", p.Width-filled)

	line := fmt.Sprintf("\r[%s] %d/%d", bar, completed, total)
	if currentName != "" {
		line += "  " + padToWidth(currentName, minProgressWidth)
	}
	p.Write(line)
}

// padToWidth right-pads s with spaces until its display width (by grapheme
// cluster, per go-runewidth) reaches w, never truncating.
func padToWidth(s string, w int) string {
	dw := runewidth.StringWidth(s)
	if dw >= w {
		return s
	}
	return s + strings.Repeat(" ", w-dw)
}
