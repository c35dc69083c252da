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

// describe computes the Description of a resource from everything it
// emitted: the primary object(s) followed by the flattened additional
// objects. Every describer runs against every object; nil contributions are
// skipped. Merging is right-biased twice over: within one object a later
// describer wins on key collision, and across objects a later object wins.
func describe(objs []Object, describers []Describer) Description {
	desc := Description{}
	for _, obj := range objs {
		for _, d := range describers {
			contribution := d(obj)
			for k, v := range contribution {
				desc[k] = v
			}
		}
	}
	return desc
}
