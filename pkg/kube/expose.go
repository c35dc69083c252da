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

// Exposure pairs a workload with the service being built for it. Expose
// steps transform an Exposure and hand it to the next step.
type Exposure struct {
	Workload injection.Object
	Service  injection.Object
}

// ExposeStep transforms an exposure. Steps typically add a port on both
// sides or set the service type.
type ExposeStep func(Exposure) Exposure

// Expose builds a Service named name for the given workload and attaches it
// as an accompanying object, so that resolving the workload's rule also
// emits the service. The service selector matches the workload's pod
// labels. Steps run in order over the workload/service pair.
func Expose(workload injection.Object, name string, steps ...ExposeStep) injection.Object {
	ex := Exposure{
		Workload: deepCopy(workload),
		Service: injection.Object{
			"apiVersion": "v1",
			"kind":       "Service",
			"metadata":   injection.Object{"name": name},
			"spec": injection.Object{
				"selector": selectorLabels(workload),
			},
		},
	}
	for _, step := range steps {
		ex = step(ex)
	}
	appendToList(ex.Workload, injection.AdditionalField, ex.Service)
	return ex.Workload
}

// selectorLabels picks the labels a service should select on: the
// workload's selector matchLabels when present, the pod labels otherwise.
func selectorLabels(workload injection.Object) injection.Object {
	if labels, found, _ := unstructured.NestedMap(workload, "spec", "selector", "matchLabels"); found {
		return labels
	}
	return podLabels(workload)
}

// Port declares a named port on both sides of the exposure: a container
// port on the workload's first container and a service port targeting it.
func Port(name string, containerPort, servicePort int) ExposeStep {
	return func(ex Exposure) Exposure {
		spec := podSpec(ex.Workload)
		if containers, ok := spec["containers"].([]interface{}); ok && len(containers) > 0 {
			if container, ok := containers[0].(injection.Object); ok {
				appendToList(container, "ports", injection.Object{
					"name":          name,
					"containerPort": int64(containerPort),
				})
			}
		}
		appendToList(ex.Service["spec"].(injection.Object), "ports", injection.Object{
			"name":       name,
			"port":       int64(servicePort),
			"targetPort": int64(containerPort),
		})
		return ex
	}
}

// ClusterIP marks the service as a ClusterIP service.
func ClusterIP() ExposeStep {
	return setServiceField("type", "ClusterIP")
}

// Headless makes the service headless. Useful in front of stateful sets.
func Headless() ExposeStep {
	return setServiceField("clusterIP", "None")
}

// NodePort marks the service as a NodePort service and pins the node port
// on the most recently declared service port.
func NodePort(nodePort int) ExposeStep {
	return func(ex Exposure) Exposure {
		spec := ex.Service["spec"].(injection.Object)
		spec["type"] = "NodePort"
		if ports, ok := spec["ports"].([]interface{}); ok && len(ports) > 0 {
			ports[len(ports)-1].(injection.Object)["nodePort"] = int64(nodePort)
		}
		return ex
	}
}

func setServiceField(field string, value interface{}) ExposeStep {
	return func(ex Exposure) Exposure {
		ex.Service["spec"].(injection.Object)[field] = value
		return ex
	}
}
