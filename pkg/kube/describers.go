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

package kube

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/brosenan/lambda-kube/pkg/injection"
)

// NameDescriber contributes the object's metadata name under "name".
func NameDescriber(obj injection.Object) injection.Description {
	name, found, _ := unstructured.NestedString(obj, "metadata", "name")
	if !found {
		return nil
	}
	return injection.Description{"name": name}
}

// ServiceDescriber contributes connection details for Service objects: the
// in-cluster hostname and, when ports are declared, "port" (the first
// service port) and "ports" (named ports keyed by port name).
func ServiceDescriber(obj injection.Object) injection.Description {
	if kind, _, _ := unstructured.NestedString(obj, "kind"); kind != "Service" {
		return nil
	}
	hostname, found, _ := unstructured.NestedString(obj, "metadata", "name")
	if !found {
		return nil
	}
	desc := injection.Description{"hostname": hostname}
	ports, found, _ := unstructured.NestedSlice(obj, "spec", "ports")
	if !found || len(ports) == 0 {
		return desc
	}
	byName := injection.Description{}
	for i, entry := range ports {
		port, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if i == 0 {
			desc["port"] = port["port"]
		}
		if name, ok := port["name"].(string); ok && name != "" {
			byName[name] = port["port"]
		}
	}
	if len(byName) > 0 {
		desc["ports"] = byName
	}
	return desc
}

// StandardDescribers registers the describers most graphs want: names for
// every object and connection details for services.
func StandardDescribers(in *injection.Injector) {
	in.RegisterDescriber(NameDescriber)
	in.RegisterDescriber(ServiceDescriber)
}
