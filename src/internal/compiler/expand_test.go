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

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

func TestExpandFlattensNestedInline(t *testing.T) {
	inner := &model.Policy{
		ID:   2,
		Name: "inner",
		Terms: []model.PolicyTerm{
			tacticalTerm(21, "inner", "first"),
			tacticalTerm(22, "inner", "second"),
		},
	}
	outer := []model.PolicyTerm{
		tacticalTerm(11, "outer", "before"),
		nestedTerm(12, "outer", "splice", 2),
		tacticalTerm(13, "outer", "after"),
	}

	expanded, err := Expand(outer, map[int64]*model.Policy{2: inner})
	require.NoError(t, err)
	require.Len(t, expanded, 4)

	names := make([]string, len(expanded))
	for i, term := range expanded {
		names[i] = term.ValidName()
	}
	assert.Equal(t, []string{"outer-before", "inner-first", "inner-second", "outer-after"}, names)
}

func TestExpandKeepsDisabledTerms(t *testing.T) {
	disabled := tacticalTerm(1, "p", "off")
	disabled.Enabled = false
	expanded, err := Expand([]model.PolicyTerm{disabled}, nil)
	require.NoError(t, err)
	require.Len(t, expanded, 1)
	assert.False(t, expanded[0].Enabled)
}

func TestExpandAllowsDiamondReuse(t *testing.T) {
	// The same policy nested twice from sibling terms is legal; only a
	// revisit on the active expansion path is a cycle.
	shared := &model.Policy{
		ID:    3,
		Name:  "shared",
		Terms: []model.PolicyTerm{tacticalTerm(31, "shared", "rule")},
	}
	terms := []model.PolicyTerm{
		nestedTerm(1, "top", "left", 3),
		nestedTerm(2, "top", "right", 3),
	}

	expanded, err := Expand(terms, map[int64]*model.Policy{3: shared})
	require.NoError(t, err)
	assert.Len(t, expanded, 2)
}

func TestExpandDetectsCycle(t *testing.T) {
	a := &model.Policy{ID: 1, Name: "a", Terms: []model.PolicyTerm{nestedTerm(11, "a", "to-b", 2)}}
	b := &model.Policy{ID: 2, Name: "b", Terms: []model.PolicyTerm{nestedTerm(21, "b", "to-a", 1)}}

	_, err := Expand(a.Terms, map[int64]*model.Policy{1: a, 2: b})
	assert.ErrorIs(t, err, constants.ErrCycleDetected)
}

func TestExpandMissingNestedPolicy(t *testing.T) {
	_, err := Expand([]model.PolicyTerm{nestedTerm(1, "p", "gone", 99)}, map[int64]*model.Policy{})
	assert.ErrorIs(t, err, constants.ErrPolicyNotFound)
}
