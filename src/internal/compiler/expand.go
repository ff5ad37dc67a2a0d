/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

// Package compiler turns authored policies into device-ready ACL text: it
// expands nested terms, resolves negations by address-space subtraction,
// builds the naming table, renders per-generator output, and classifies
// test probes against the result.
package compiler

import (
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// Expand flattens nested terms into a linear ordered list. A nested term is
// replaced inline by the expanded terms of its nested policy, recursively;
// the enclosing order is preserved. Disabled terms are retained (the
// renderer filters them). The same policy may legitimately appear twice via
// two different nested terms; only a revisit on the current expansion path
// is a cycle.
func Expand(terms []model.PolicyTerm, policies map[int64]*model.Policy) ([]model.PolicyTerm, error) {
	return expand(terms, policies, make(map[int64]bool))
}

func expand(terms []model.PolicyTerm, policies map[int64]*model.Policy, path map[int64]bool) ([]model.PolicyTerm, error) {
	var expanded []model.PolicyTerm
	for _, term := range terms {
		if !term.IsNested() {
			expanded = append(expanded, term)
			continue
		}
		nestedID := *term.NestedPolicyID
		if path[nestedID] {
			return nil, constants.ErrCycleDetected
		}
		nested, ok := policies[nestedID]
		if !ok {
			return nil, constants.ErrPolicyNotFound
		}
		path[nestedID] = true
		inner, err := expand(nested.Terms, policies, path)
		if err != nil {
			return nil, err
		}
		delete(path, nestedID)
		expanded = append(expanded, inner...)
	}
	return expanded, nil
}
