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

// Package injection implements the dependency-injection engine at the heart
// of lambda-kube. Callers register rules (named build recipes with declared
// dependencies) and describers (pure summary extractors) on an Injector, and
// then resolve the whole set against a configuration map into an ordered,
// deployable list of unstructured API objects.
//
// The engine is agnostic to what a resource actually is: objects are opaque
// nested maps, and the only structural contract is the reserved
// AdditionalField carrying sibling objects to be emitted alongside their
// parent.
package injection

// Name identifies a resource. It is used both as a node in the dependency
// graph and as a key in the configuration map.
type Name string

// Object is an unstructured API object: an arbitrarily nested associative
// structure in the shape produced by k8s.io/apimachinery's unstructured
// conversion (nested map[string]interface{}, []interface{}, and scalars).
type Object = map[string]interface{}

// Description summarizes an emitted object for the benefit of dependent
// rules. Once a resource resolves, the merged Description of everything it
// emitted becomes the value bound to its name in the configuration.
type Description = map[string]interface{}

// Config maps resource names to values. It starts as the caller-supplied
// input and grows during resolution as resources resolve to their
// Descriptions.
type Config map[Name]interface{}

// AdditionalField is the reserved object field carrying a list of sibling
// objects to be emitted alongside the object that declares them, at whatever
// nesting depth they appear. The extractor strips it from the primary
// object.
const AdditionalField = "$additional"

// BuildFunc constructs the API object (or list of objects) for a resource.
// Dependency values are passed positionally, in the rule's declared order;
// each is whatever the configuration holds under that name, typically the
// Description of an earlier-resolved resource.
//
// Build functions are expected to be pure: the engine relies on it being
// safe to skip them entirely when a dependency is missing.
type BuildFunc func(deps ...interface{}) (interface{}, error)

// Describer examines one emitted object and optionally contributes fields to
// its Description. A describer unrelated to the object's shape returns nil.
// Describers must be total: they are applied to every emitted object.
type Describer func(obj Object) Description

// Rule is a named build recipe with declared dependencies. Multiple rules
// may share a name (competing rules); at most one may fire per resolution.
type Rule struct {
	// Name is the resource this rule produces.
	Name Name

	// Deps lists the resource names this rule depends on, in the order
	// their values are passed to Build.
	Deps []Name

	// Build constructs the rule's output once all dependencies are bound.
	Build BuildFunc
}

// Injector is the registry of all rules and describers for one system
// definition. Registration is monotonic: rules and describers are only ever
// appended, never removed, and registered rules are immutable.
type Injector struct {
	rules      []Rule
	describers []Describer
}

// NewInjector creates an empty Injector.
func NewInjector() *Injector {
	return &Injector{}
}

// RegisterRule appends a rule producing the named resource. deps is the
// ordered list of resource names the build function consumes.
func (in *Injector) RegisterRule(name Name, deps []Name, build BuildFunc) {
	in.rules = append(in.rules, Rule{
		Name:  name,
		Deps:  append([]Name(nil), deps...),
		Build: build,
	})
}

// RegisterDescriber appends a describer. Describers run against every object
// emitted by every rule, in registration order.
func (in *Injector) RegisterDescriber(d Describer) {
	in.describers = append(in.describers, d)
}

// Rules returns a copy of the registered rules, in registration order.
func (in *Injector) Rules() []Rule {
	return append([]Rule(nil), in.rules...)
}
