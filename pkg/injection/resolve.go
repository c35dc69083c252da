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

	"github.com/go-logr/logr"
)

// ResolveOption configures a single Resolve run.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	log logr.Logger
}

// WithLogger makes Resolve log rule firing and skipping decisions at
// verbosity 1. The default logger discards everything.
func WithLogger(log logr.Logger) ResolveOption {
	return func(o *resolveOptions) {
		o.log = log
	}
}

// Resolve evaluates all registered rules against the initial configuration
// and returns the ordered list of emitted objects.
//
// Rules run in dependency order, each exactly once. A rule with a dependency
// absent from the configuration is skipped silently; this is the mechanism
// by which optional subsystems are omitted, and a skipped rule is never
// revisited. A rule whose resource name is already bound fails with a
// *ConflictError. When a rule fires, its primaries and flattened additional
// objects are appended to the output, and the merged Description of all of
// them is bound to the rule's name, visible to every subsequent dependent.
//
// The initial configuration is not mutated. Resolution is a single pass with
// no retries: given the same injector and configuration, the output is
// identical run to run.
func (in *Injector) Resolve(initial Config, opts ...ResolveOption) ([]Object, error) {
	options := resolveOptions{log: logr.Discard()}
	for _, opt := range opts {
		opt(&options)
	}
	log := options.log

	scheduled, err := schedule(in.rules)
	if err != nil {
		return nil, err
	}

	config := make(Config, len(initial))
	for name, value := range initial {
		config[name] = value
	}

	var output []Object
	for _, rule := range scheduled {
		if missing, name := missingDep(rule, config); missing {
			log.V(1).Info("skipping rule", "resource", rule.Name, "missing", name)
			continue
		}

		if _, bound := config[rule.Name]; bound {
			return nil, &ConflictError{Resource: rule.Name}
		}

		deps := make([]interface{}, len(rule.Deps))
		for i, dep := range rule.Deps {
			deps[i] = config[dep]
		}

		result, err := rule.Build(deps...)
		if err != nil {
			return nil, fmt.Errorf("building resource %q: %w", string(rule.Name), err)
		}

		emitted, err := extractResult(rule.Name, result)
		if err != nil {
			return nil, err
		}

		output = append(output, emitted...)
		config[rule.Name] = describe(emitted, in.describers)
		log.V(1).Info("resolved resource", "resource", rule.Name, "objects", len(emitted))
	}

	return output, nil
}

func missingDep(rule Rule, config Config) (bool, Name) {
	for _, dep := range rule.Deps {
		if _, ok := config[dep]; !ok {
			return true, dep
		}
	}
	return false, ""
}

// extractResult flattens a build function's output into the emission list:
// the cleaned primary object(s) first, then every additional object in
// extraction order.
func extractResult(name Name, result interface{}) ([]Object, error) {
	var primaries, additional []Object

	collect := func(v interface{}) error {
		clean, sub := extractObject(v)
		obj, ok := clean.(Object)
		if !ok {
			return fmt.Errorf("rule %q produced a %T, want an object or a list of objects", string(name), v)
		}
		primaries = append(primaries, obj)
		additional = append(additional, sub...)
		return nil
	}

	switch r := result.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		for _, item := range r {
			if err := collect(item); err != nil {
				return nil, err
			}
		}
	case []Object:
		for _, item := range r {
			if err := collect(item); err != nil {
				return nil, err
			}
		}
	default:
		if err := collect(r); err != nil {
			return nil, err
		}
	}

	return append(primaries, additional...), nil
}
