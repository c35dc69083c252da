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
	"sort"

	"github.com/brosenan/lambda-kube/pkg/injection"
)

// Pod returns a bare pod with the given name and labels. Containers and
// volumes are layered on with AddContainer and AddVolume.
func Pod(name string, labels map[string]interface{}) injection.Object {
	meta := injection.Object{"name": name}
	if len(labels) > 0 {
		meta["labels"] = deepCopyValue(injection.Object(labels))
	}
	return injection.Object{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   meta,
		"spec":       injection.Object{},
	}
}

// ContainerOption customizes a container created by AddContainer or
// AddInitContainer.
type ContainerOption func(container injection.Object)

// WithCommand sets the container entrypoint.
func WithCommand(argv ...string) ContainerOption {
	return func(container injection.Object) {
		cmd := make([]interface{}, len(argv))
		for i, arg := range argv {
			cmd[i] = arg
		}
		container["command"] = cmd
	}
}

// WithEnv adds environment variables, sorted by name for deterministic
// output.
func WithEnv(vars map[string]string) ContainerOption {
	return func(container injection.Object) {
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			appendToList(container, "env", injection.Object{
				"name":  name,
				"value": vars[name],
			})
		}
	}
}

// WithPort declares a container port.
func WithPort(containerPort int) ContainerOption {
	return func(container injection.Object) {
		appendToList(container, "ports", injection.Object{
			"containerPort": int64(containerPort),
		})
	}
}

// WithImagePullPolicy sets the pull policy explicitly. There is no ambient
// default; callers that need Always or Never say so per container.
func WithImagePullPolicy(policy string) ContainerOption {
	return func(container injection.Object) {
		container["imagePullPolicy"] = policy
	}
}

// WithMount mounts a pod volume into the container at mountPath.
func WithMount(volume, mountPath string) ContainerOption {
	return func(container injection.Object) {
		appendToList(container, "volumeMounts", injection.Object{
			"name":      volume,
			"mountPath": mountPath,
		})
	}
}

// AddContainer returns a copy of pod (or of a workload wrapping a pod
// template) with a container appended. For workloads the container lands in
// the pod template.
func AddContainer(pod injection.Object, name, image string, opts ...ContainerOption) injection.Object {
	return addContainer(pod, "containers", name, image, opts)
}

// AddInitContainer is AddContainer for init containers.
func AddInitContainer(pod injection.Object, name, image string, opts ...ContainerOption) injection.Object {
	return addContainer(pod, "initContainers", name, image, opts)
}

func addContainer(pod injection.Object, field, name, image string, opts []ContainerOption) injection.Object {
	out := deepCopy(pod)
	container := injection.Object{
		"name":  name,
		"image": image,
	}
	for _, opt := range opts {
		opt(container)
	}
	appendToList(podSpec(out), field, container)
	return out
}

// AddVolume returns a copy of pod with a volume appended. The source map
// holds the volume source fields, for example {"emptyDir": {}}.
func AddVolume(pod injection.Object, name string, source injection.Object) injection.Object {
	out := deepCopy(pod)
	volume := injection.Object{"name": name}
	for k, v := range source {
		volume[k] = deepCopyValue(v)
	}
	appendToList(podSpec(out), "volumes", volume)
	return out
}

// AddConfigMapVolume mounts the named config map as a pod volume.
func AddConfigMapVolume(pod injection.Object, name, configMapName string) injection.Object {
	return AddVolume(pod, name, injection.Object{
		"configMap": injection.Object{"name": configMapName},
	})
}
