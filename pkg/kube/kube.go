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

// Package kube provides builders for common Kubernetes API objects as
// unstructured data, mutators layering containers, volumes and ports on top
// of them, and the standard describers that summarize emitted objects for
// dependent rules.
//
// Builders are pure: every function returns a fresh object and never
// modifies its arguments. The injection engine itself knows nothing about
// this package; objects flow through it as opaque nested maps.
package kube

import (
	"github.com/brosenan/lambda-kube/pkg/injection"
)

// deepCopyValue copies nested maps and slices; scalars pass through. Unlike
// apimachinery's DeepCopyJSON it tolerates plain ints, which show up
// naturally in hand-written object literals.
func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case injection.Object:
		out := make(injection.Object, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

func deepCopy(obj injection.Object) injection.Object {
	return deepCopyValue(obj).(injection.Object)
}

// podSpec returns the pod spec of obj: spec.template.spec for workloads
// carrying a pod template, spec otherwise. Missing maps are created, so the
// result is always addressable inside obj.
func podSpec(obj injection.Object) injection.Object {
	spec := ensureMap(obj, "spec")
	if template, ok := spec["template"].(injection.Object); ok {
		return ensureMap(template, "spec")
	}
	return spec
}

func ensureMap(obj injection.Object, field string) injection.Object {
	if m, ok := obj[field].(injection.Object); ok {
		return m
	}
	m := injection.Object{}
	obj[field] = m
	return m
}

func appendToList(obj injection.Object, field string, item interface{}) {
	list, _ := obj[field].([]interface{})
	obj[field] = append(list, item)
}
