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

func podLabels(pod injection.Object) injection.Object {
	labels, _, _ := unstructured.NestedMap(pod, "metadata", "labels")
	if labels == nil {
		return injection.Object{}
	}
	return labels
}

func podName(pod injection.Object) string {
	name, _, _ := unstructured.NestedString(pod, "metadata", "name")
	return name
}

// template wraps a pod into the template field shared by all workload kinds.
// The pod's labels become the template labels so a matching selector works.
func template(pod injection.Object) injection.Object {
	p := deepCopy(pod)
	return injection.Object{
		"metadata": injection.Object{"labels": podLabels(p)},
		"spec":     p["spec"],
	}
}

// Deployment wraps pod into an apps/v1 Deployment with the given replica
// count. The deployment takes its name, labels and selector from the pod.
func Deployment(pod injection.Object, replicas int) injection.Object {
	labels := podLabels(pod)
	return injection.Object{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": injection.Object{
			"name":   podName(pod),
			"labels": deepCopy(labels),
		},
		"spec": injection.Object{
			"replicas": int64(replicas),
			"selector": injection.Object{"matchLabels": deepCopy(labels)},
			"template": template(pod),
		},
	}
}

// StatefulSet wraps pod into an apps/v1 StatefulSet. The governing service
// name defaults to the pod name; volume claim templates, if any, are
// appended as given.
func StatefulSet(pod injection.Object, replicas int, claims ...injection.Object) injection.Object {
	labels := podLabels(pod)
	spec := injection.Object{
		"replicas":    int64(replicas),
		"serviceName": podName(pod),
		"selector":    injection.Object{"matchLabels": deepCopy(labels)},
		"template":    template(pod),
	}
	if len(claims) > 0 {
		templates := make([]interface{}, len(claims))
		for i, claim := range claims {
			templates[i] = deepCopy(claim)
		}
		spec["volumeClaimTemplates"] = templates
	}
	return injection.Object{
		"apiVersion": "apps/v1",
		"kind":       "StatefulSet",
		"metadata": injection.Object{
			"name":   podName(pod),
			"labels": deepCopy(labels),
		},
		"spec": spec,
	}
}

// Job wraps pod into a batch/v1 Job. The template restart policy is set to
// Never unless the pod already chose one.
func Job(pod injection.Object) injection.Object {
	tmpl := template(pod)
	spec := tmpl["spec"].(injection.Object)
	if _, ok := spec["restartPolicy"]; !ok {
		spec["restartPolicy"] = "Never"
	}
	return injection.Object{
		"apiVersion": "batch/v1",
		"kind":       "Job",
		"metadata": injection.Object{
			"name":   podName(pod),
			"labels": deepCopy(podLabels(pod)),
		},
		"spec": injection.Object{"template": tmpl},
	}
}

// ConfigMap returns a v1 ConfigMap holding the given data.
func ConfigMap(name string, data map[string]interface{}) injection.Object {
	return injection.Object{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   injection.Object{"name": name},
		"data":       deepCopyValue(injection.Object(data)),
	}
}

// PersistentVolumeClaim returns a v1 PersistentVolumeClaim requesting the
// given amount of storage. Access modes default to ReadWriteOnce.
func PersistentVolumeClaim(name, storage string, accessModes ...string) injection.Object {
	if len(accessModes) == 0 {
		accessModes = []string{"ReadWriteOnce"}
	}
	modes := make([]interface{}, len(accessModes))
	for i, mode := range accessModes {
		modes[i] = mode
	}
	return injection.Object{
		"apiVersion": "v1",
		"kind":       "PersistentVolumeClaim",
		"metadata":   injection.Object{"name": name},
		"spec": injection.Object{
			"accessModes": modes,
			"resources": injection.Object{
				"requests": injection.Object{"storage": storage},
			},
		},
	}
}

// Namespace returns a v1 Namespace object.
func Namespace(name string) injection.Object {
	return injection.Object{
		"apiVersion": "v1",
		"kind":       "Namespace",
		"metadata":   injection.Object{"name": name},
	}
}
