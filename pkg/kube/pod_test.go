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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/brosenan/lambda-kube/pkg/injection"
)

func TestPod(t *testing.T) {
	pod := Pod("web", map[string]interface{}{"app": "web"})

	assert.Equal(t, injection.Object{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": injection.Object{
			"name":   "web",
			"labels": injection.Object{"app": "web"},
		},
		"spec": injection.Object{},
	}, pod)
}

func TestPodWithoutLabels(t *testing.T) {
	pod := Pod("web", nil)
	_, found, err := unstructured.NestedMap(pod, "metadata", "labels")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddContainer(t *testing.T) {
	pod := Pod("web", map[string]interface{}{"app": "web"})
	withNginx := AddContainer(pod, "nginx", "nginx:1.27")

	containers, found, err := unstructured.NestedSlice(withNginx, "spec", "containers")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, containers, 1)
	assert.Equal(t, map[string]interface{}{
		"name":  "nginx",
		"image": "nginx:1.27",
	}, containers[0])

	// the original pod is untouched
	_, found, err = unstructured.NestedSlice(pod, "spec", "containers")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddContainerOptions(t *testing.T) {
	pod := AddContainer(Pod("web", nil), "nginx", "nginx:1.27",
		WithCommand("nginx", "-g", "daemon off;"),
		WithEnv(map[string]string{"B_VAR": "2", "A_VAR": "1"}),
		WithPort(80),
		WithImagePullPolicy("IfNotPresent"),
		WithMount("content", "/usr/share/nginx/html"),
	)

	containers, _, err := unstructured.NestedSlice(pod, "spec", "containers")
	require.NoError(t, err)
	require.Len(t, containers, 1)
	container := containers[0].(map[string]interface{})

	assert.Equal(t, []interface{}{"nginx", "-g", "daemon off;"}, container["command"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "A_VAR", "value": "1"},
		map[string]interface{}{"name": "B_VAR", "value": "2"},
	}, container["env"], "env vars are sorted by name")
	assert.Equal(t, []interface{}{
		map[string]interface{}{"containerPort": int64(80)},
	}, container["ports"])
	assert.Equal(t, "IfNotPresent", container["imagePullPolicy"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "content", "mountPath": "/usr/share/nginx/html"},
	}, container["volumeMounts"])
}

func TestAddInitContainer(t *testing.T) {
	pod := AddInitContainer(Pod("web", nil), "setup", "busybox",
		WithCommand("sh", "-c", "echo hello"))

	containers, found, err := unstructured.NestedSlice(pod, "spec", "initContainers")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, containers, 1)
	assert.Equal(t, "setup", containers[0].(map[string]interface{})["name"])
}

func TestAddContainerToWorkload(t *testing.T) {
	dep := Deployment(Pod("web", map[string]interface{}{"app": "web"}), 2)
	withSidecar := AddContainer(dep, "sidecar", "envoy:latest")

	containers, found, err := unstructured.NestedSlice(withSidecar,
		"spec", "template", "spec", "containers")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, containers, 1)
	assert.Equal(t, "sidecar", containers[0].(map[string]interface{})["name"])
}

func TestAddVolume(t *testing.T) {
	pod := AddVolume(Pod("web", nil), "scratch", injection.Object{
		"emptyDir": injection.Object{},
	})

	volumes, found, err := unstructured.NestedSlice(pod, "spec", "volumes")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []interface{}{
		map[string]interface{}{
			"name":     "scratch",
			"emptyDir": map[string]interface{}{},
		},
	}, volumes)
}

func TestAddConfigMapVolume(t *testing.T) {
	pod := AddConfigMapVolume(Pod("web", nil), "config", "web-config")

	volumes, _, err := unstructured.NestedSlice(pod, "spec", "volumes")
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, map[string]interface{}{
		"name":      "config",
		"configMap": map[string]interface{}{"name": "web-config"},
	}, volumes[0])
}
