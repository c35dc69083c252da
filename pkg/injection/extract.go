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
	"slices"

	"golang.org/x/exp/maps"
)

// extractObject recursively flattens v into its clean form plus the ordered
// list of additional objects found anywhere inside it. It never mutates its
// input: maps and slices are rebuilt, scalars pass through.
//
// Within a map, the map's own AdditionalField entries come first, each
// flattened in turn (an additional object may declare further additional
// objects, which surface immediately after it), followed by whatever the
// remaining fields surface, visited in lexicographic field order so that the
// result is deterministic. The returned map has AdditionalField removed.
//
// Extraction is idempotent: re-extracting a clean object yields the same
// object and no additional objects.
func extractObject(v interface{}) (interface{}, []Object) {
	switch val := v.(type) {
	case Object:
		return extractMap(val)
	case []interface{}:
		return extractSlice(val)
	default:
		return v, nil
	}
}

func extractMap(m Object) (Object, []Object) {
	clean := make(Object, len(m))
	var additional []Object

	if attached, ok := m[AdditionalField]; ok {
		for _, item := range attachedList(attached) {
			cleanItem, sub := extractObject(item)
			if obj, ok := cleanItem.(Object); ok {
				additional = append(additional, obj)
			}
			additional = append(additional, sub...)
		}
	}

	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		if k == AdditionalField {
			continue
		}
		cleanVal, sub := extractObject(m[k])
		clean[k] = cleanVal
		additional = append(additional, sub...)
	}

	return clean, additional
}

func extractSlice(s []interface{}) ([]interface{}, []Object) {
	clean := make([]interface{}, len(s))
	var additional []Object

	for i, item := range s {
		cleanItem, sub := extractObject(item)
		clean[i] = cleanItem
		additional = append(additional, sub...)
	}

	return clean, additional
}

// attachedList normalizes the value of an AdditionalField. Builders attach
// either []interface{} or []Object depending on how they were written; both
// are accepted. Anything else is ignored.
func attachedList(v interface{}) []interface{} {
	switch list := v.(type) {
	case []interface{}:
		return list
	case []Object:
		items := make([]interface{}, len(list))
		for i, obj := range list {
			items[i] = obj
		}
		return items
	default:
		return nil
	}
}
