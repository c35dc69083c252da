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
	"fmt"
)

// CycleError indicates that the registered rules form a circular dependency
// among resources. It is surfaced at scheduling time, before any rule runs,
// so no partial output is ever produced alongside it.
type CycleError struct {
	// Resources holds the resource names participating in one detected
	// cycle, in dependency order.
	Resources []Name
}

func (e *CycleError) Error() string {
	if len(e.Resources) == 0 {
		return "circular dependency between resources"
	}
	return fmt.Sprintf("circular dependency between resources: %v", e.Resources)
}

// IsCycle reports whether err (or any error in its chain) is a *CycleError.
func IsCycle(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}

// ConflictError indicates that a rule attempted to bind a resource name that
// is already bound in the configuration, either by an earlier-fired
// competing rule or by the initial configuration itself.
type ConflictError struct {
	// Resource is the contested resource name.
	Resource Name
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting definition for resource %q", string(e.Resource))
}

// IsConflict reports whether err (or any error in its chain) is a
// *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
