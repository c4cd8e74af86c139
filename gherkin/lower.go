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

package gherkin

import (
	"github.com/dreamtest/dreamtest/result"
	"github.com/dreamtest/dreamtest/suite"
)

// Lower reduces a parsed Feature to a suite.Node: a Group named after the
// feature, carrying a synthesized BeforeEach for its background steps and
// one Test per scenario, tagged GherkinScenario(feature.Name). A feature
// that failed to parse lowers to a single failing Test tagged
// "parse-error" instead of a Group, matching spec.md §4.6.
func Lower(feature Feature) suite.Node[WorldContext] {
	if feature.ParseError != nil {
		return parseErrorTest(feature)
	}

	children := make([]suite.Node[WorldContext], 0, len(feature.Scenarios)+1)
	if len(feature.Background) > 0 {
		bg := feature.Background
		children = append(children, suite.BeforeEach[WorldContext](func(w WorldContext) (WorldContext, error) {
			return runSteps(bg, w)
		}))
	}
	for _, sc := range feature.Scenarios {
		children = append(children, scenarioTest(feature.Name, sc))
	}
	return suite.Group[WorldContext](feature.Name, nil, children...)
}

func scenarioTest(featureName string, sc Scenario) suite.Node[WorldContext] {
	steps := sc.Steps
	return suite.Test[WorldContext](sc.Name, func(w WorldContext) suite.TestOutcome {
		if _, err := runSteps(steps, w); err != nil {
			return suite.TestOutcome{Assertion: result.FailedResult(result.Failure{
				Operator: "step",
				Message:  err.Error(),
			})}
		}
		return suite.TestOutcome{Assertion: result.Ok()}
	}).AsKind(result.GherkinScenario, featureName)
}

func runSteps(steps []Step, w WorldContext) (WorldContext, error) {
	var err error
	for _, step := range steps {
		w, err = step.Run(w)
		if err != nil {
			return w, err
		}
	}
	return w, nil
}

func parseErrorTest(feature Feature) suite.Node[WorldContext] {
	err := feature.ParseError
	name := feature.Name
	if name == "" {
		name = "unparsed feature"
	}
	return suite.Test[WorldContext](name, func(w WorldContext) suite.TestOutcome {
		return suite.TestOutcome{Assertion: result.FailedResult(result.Failure{
			Operator: "parse",
			Message:  err.Error(),
		})}
	}).WithTags("parse-error")
}
