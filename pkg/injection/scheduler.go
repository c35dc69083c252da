// Copyright 2025 The lambda-kube Authors.
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

package injection

import (
	"fmt"

	"github.com/brosenan/lambda-kube/pkg/graph/dag"
)

// schedVertex is a vertex in the two-level rule/name graph. Rule vertices
// (rule >= 0) and resource-name vertices (rule == -1) share one graph:
// every rule depends on the name vertices of its declared dependencies, and
// a produced name depends on every rule that produces it. That way two rules
// competing for one name are both ordered before any consumer of that name,
// and a rule with no dependencies can be scheduled immediately.
type schedVertex struct {
	name Name
	rule int
}

const nameVertex = -1

// schedule orders the rules so that every rule runs after all rules
// producing any of its dependencies. Ties between independent rules are
// broken by registration order. A *CycleError is returned when the rules
// form a circular dependency; name vertices are dropped from the result.
func schedule(rules []Rule) ([]Rule, error) {
	d := dag.NewDirectedAcyclicGraph[schedVertex]()
	order := 0

	ensureName := func(n Name) schedVertex {
		v := schedVertex{name: n, rule: nameVertex}
		if _, ok := d.Vertices[v]; !ok {
			// The counter only ever grows, so AddVertex cannot fail here.
			_ = d.AddVertex(v, order)
			order++
		}
		return v
	}

	for i, rule := range rules {
		rv := schedVertex{rule: i}
		if err := d.AddVertex(rv, order); err != nil {
			return nil, fmt.Errorf("adding rule %q to the graph: %w", string(rule.Name), err)
		}
		order++

		deps := make([]schedVertex, 0, len(rule.Deps))
		for _, dep := range rule.Deps {
			deps = append(deps, ensureName(dep))
		}
		if err := d.AddDependencies(rv, deps); err != nil {
			return nil, cycleOrGraphError(err, rule.Name)
		}

		nv := ensureName(rule.Name)
		if err := d.AddDependencies(nv, []schedVertex{rv}); err != nil {
			return nil, cycleOrGraphError(err, rule.Name)
		}
	}

	sorted, err := d.TopologicalSort()
	if err != nil {
		return nil, cycleOrGraphError(err, "")
	}

	scheduled := make([]Rule, 0, len(rules))
	for _, v := range sorted {
		if v.rule == nameVertex {
			continue
		}
		scheduled = append(scheduled, rules[v.rule])
	}
	return scheduled, nil
}

// cycleOrGraphError converts a dag error into the engine's taxonomy: cycle
// errors become *CycleError carrying the resource names on the cycle, and
// anything else is wrapped with rule context.
func cycleOrGraphError(err error, name Name) error {
	if ce := dag.AsCycleError[schedVertex](err); ce != nil {
		var resources []Name
		for _, v := range ce.Cycle {
			if v.rule == nameVertex {
				resources = append(resources, v.name)
			}
		}
		return &CycleError{Resources: resources}
	}
	if name != "" {
		return fmt.Errorf("rule %q: %w", string(name), err)
	}
	return err
}
