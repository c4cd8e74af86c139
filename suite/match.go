// Copyright 2017 CoreOS, Inc.
// Copyright 2015 The Go Authors.
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
	"regexp"
	"strings"

	"github.com/dreamtest/dreamtest/result"
)

// Matcher compiles a "-dreamtest.run"-style pattern into a filter over
// TestInfo.FullName. For tests with multiple slash-separated path elements,
// the pattern is itself slash-separated, with expressions matching each
// path element in turn, exactly as the teacher's -harness.run flag works.
type Matcher struct {
	filter []*regexp.Regexp
}

// NewMatcher compiles pattern, an unanchored, slash-separated regexp.
// An empty pattern matches everything.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		return &Matcher{}, nil
	}
	parts := splitRegexp(pattern)
	compiled := make([]*regexp.Regexp, len(parts))
	for i, p := range parts {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled[i] = re
	}
	return &Matcher{filter: compiled}, nil
}

// Match reports whether info.FullName satisfies the pattern.
func (m *Matcher) Match(info result.TestInfo) bool {
	if m == nil || len(m.filter) == 0 {
		return true
	}
	segments := strings.Split(info.FullName, "/")
	for i, re := range m.filter {
		if i >= len(segments) {
			break
		}
		if !re.MatchString(segments[i]) {
			return false
		}
	}
	return true
}

// splitRegexp splits s on '/' outside of character classes and groups,
// matching harness/match.go's splitRegexp.
func splitRegexp(s string) []string {
	a := make([]string, 0, strings.Count(s, "/"))
	cs := 0
	cp := 0
	for i := 0; i < len(s); {
		switch s[i] {
		case '[':
			cs++
		case ']':
			if cs--; cs < 0 {
				cs = 0
			}
		case '(':
			if cs == 0 {
				cp++
			}
		case ')':
			if cs == 0 {
				cp--
			}
		case '\\':
			i++
		case '/':
			if cs == 0 && cp == 0 {
				a = append(a, s[:i])
				s = s[i+1:]
				i = 0
				continue
			}
		}
		i++
	}
	return append(a, s)
}
