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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestResolveEmptyInjector(t *testing.T) {
	in := NewInjector()

	objs, err := in.Resolve(Config{})
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestResolveRespectsDependencyOrder(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("b", []Name{"a"}, func(deps ...interface{}) (interface{}, error) {
		return Object{"kind": "ConfigMap", "metadata": Object{"name": "b"}}, nil
	})
	in.RegisterRule("a", nil, func(deps ...interface{}) (interface{}, error) {
		return Object{"kind": "ConfigMap", "metadata": Object{"name": "a"}}, nil
	})

	objs, err := in.Resolve(Config{})
	require.NoError(t, err)

	require.Len(t, objs, 2)
	assert.Equal(t, "a", objs[0]["metadata"].(Object)["name"])
	assert.Equal(t, "b", objs[1]["metadata"].(Object)["name"])
}

func TestResolvePassesDependencyValuesInDeclaredOrder(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("first", nil, func(deps ...interface{}) (interface{}, error) {
		return Object{"kind": "ConfigMap", "metadata": Object{"name": "first"}}, nil
	})
	in.RegisterDescriber(func(obj Object) Description {
		name, _, _ := unstructured.NestedString(obj, "metadata", "name")
		return Description{"name": name}
	})

	var got []interface{}
	in.RegisterRule("second", []Name{"first", "extra"}, func(deps ...interface{}) (interface{}, error) {
		got = append([]interface{}(nil), deps...)
		return Object{"kind": "ConfigMap"}, nil
	})

	_, err := in.Resolve(Config{"extra": "from-config"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, Description{"name": "first"}, got[0])
	assert.Equal(t, "from-config", got[1])
}

func TestResolveSkipsRuleWithMissingDependency(t *testing.T) {
	in := NewInjector()
	fired := false
	in.RegisterRule("optional", []Name{"absent"}, func(deps ...interface{}) (interface{}, error) {
		fired = true
		return Object{"kind": "ConfigMap"}, nil
	})
	in.RegisterRule("always", nil, func(deps ...interface{}) (interface{}, error) {
		return Object{"kind": "ConfigMap", "metadata": Object{"name": "always"}}, nil
	})

	objs, err := in.Resolve(Config{})
	require.NoError(t, err)

	assert.False(t, fired, "rule with a missing dependency must not run")
	require.Len(t, objs, 1)
	assert.Equal(t, "always", objs[0]["metadata"].(Object)["name"])
}

func TestResolveConflictingRules(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("x", nil, func(deps ...interface{}) (interface{}, error) {
		return Object{"kind": "ConfigMap"}, nil
	})
	in.RegisterRule("x", nil, func(deps ...interface{}) (interface{}, error) {
		return Object{"kind": "Secret"}, nil
	})

	_, err := in.Resolve(Config{})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), `"x"`)
}

func TestResolveCompetingRulesWithExclusiveDependencies(t *testing.T) {
	newInjector := func() *Injector {
		in := NewInjector()
		in.RegisterRule("db", []Name{"use-local"}, func(deps ...interface{}) (interface{}, error) {
			return Object{"kind": "StatefulSet", "metadata": Object{"name": "local-db"}}, nil
		})
		in.RegisterRule("db", []Name{"use-cloud"}, func(deps ...interface{}) (interface{}, error) {
			return Object{"kind": "ConfigMap", "metadata": Object{"name": "cloud-db"}}, nil
		})
		return in
	}

	objs, err := newInjector().Resolve(Config{"use-local": true})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "local-db", objs[0]["metadata"].(Object)["name"])

	objs, err = newInjector().Resolve(Config{"use-cloud": true})
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "cloud-db", objs[0]["metadata"].(Object)["name"])

	// Both satisfied is a hard error, not first-wins.
	_, err = newInjector().Resolve(Config{"use-local": true, "use-cloud": true})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), `"db"`)
}

func TestResolveInitialConfigClaimsName(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("x", nil, func(deps ...interface{}) (interface{}, error) {
		return Object{"kind": "ConfigMap"}, nil
	})

	_, err := in.Resolve(Config{"x": "already bound"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestResolveCycle(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("a", []Name{"b"}, noopBuild)
	in.RegisterRule("b", []Name{"a"}, noopBuild)

	_, err := in.Resolve(Config{})
	require.Error(t, err)
	assert.True(t, IsCycle(err))
}

func TestResolveBuildErrorPropagates(t *testing.T) {
	boom := errors.New("boom")

	in := NewInjector()
	in.RegisterRule("x", nil, func(deps ...interface{}) (interface{}, error) {
		return nil, boom
	})

	_, err := in.Resolve(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestResolveRejectsNonObjectResult(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("x", nil, func(deps ...interface{}) (interface{}, error) {
		return "not an object", nil
	})

	_, err := in.Resolve(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestResolveRuleEmittingList(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("pair", nil, func(deps ...interface{}) (interface{}, error) {
		return []interface{}{
			Object{"kind": "ConfigMap", "metadata": Object{"name": "one"}},
			Object{"kind": "ConfigMap", "metadata": Object{"name": "two"}},
		}, nil
	})

	objs, err := in.Resolve(Config{})
	require.NoError(t, err)

	require.Len(t, objs, 2)
	assert.Equal(t, "one", objs[0]["metadata"].(Object)["name"])
	assert.Equal(t, "two", objs[1]["metadata"].(Object)["name"])
}

func TestResolveDoesNotMutateInitialConfig(t *testing.T) {
	in := NewInjector()
	in.RegisterRule("x", nil, noopBuild)

	initial := Config{"seed": 1}
	_, err := in.Resolve(initial)
	require.NoError(t, err)

	assert.Equal(t, Config{"seed": 1}, initial)
}

// End-to-end: a deployment with an attached service, and a dependent pod
// that embeds the service's hostname into its labels.
func TestResolveEndToEnd(t *testing.T) {
	in := newServiceClientInjector()

	objs, err := in.Resolve(Config{})
	require.NoError(t, err)

	require.Len(t, objs, 3)
	assert.Equal(t, "Deployment", objs[0]["kind"])
	assert.Equal(t, "Service", objs[1]["kind"])
	assert.Equal(t, "Pod", objs[2]["kind"])

	labels := objs[2]["metadata"].(Object)["labels"].(Object)
	assert.Equal(t, "backend-svc", labels["backend-host"])
}

func TestResolveDeterminism(t *testing.T) {
	in := newServiceClientInjector()

	first, err := in.Resolve(Config{})
	require.NoError(t, err)
	second, err := in.Resolve(Config{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func newServiceClientInjector() *Injector {
	in := NewInjector()
	in.RegisterRule("svc", nil, func(deps ...interface{}) (interface{}, error) {
		return Object{
			"kind":     "Deployment",
			"metadata": Object{"name": "backend"},
			AdditionalField: []interface{}{
				Object{"kind": "Service", "metadata": Object{"name": "backend-svc"}},
			},
		}, nil
	})
	in.RegisterRule("client", []Name{"svc"}, func(deps ...interface{}) (interface{}, error) {
		desc := deps[0].(Description)
		return Object{
			"kind": "Pod",
			"metadata": Object{
				"name":   "client",
				"labels": Object{"backend-host": desc["hostname"]},
			},
		}, nil
	})
	in.RegisterDescriber(func(obj Object) Description {
		if obj["kind"] != "Service" {
			return nil
		}
		name, _, _ := unstructured.NestedString(obj, "metadata", "name")
		return Description{"hostname": name}
	})
	return in
}
