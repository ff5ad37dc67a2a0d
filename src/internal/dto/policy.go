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

package dto

import (
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// PolicyTermRequest is one rule of a policy, in position order. A term is
// tactical or a nested policy reference, never both.
type PolicyTermRequest struct {
	Name    string                  `json:"name" binding:"required"`
	Enabled *bool                   `json:"enabled,omitempty"`
	Action  *constants.PolicyAction `json:"action,omitempty" binding:"omitempty,oneof=accept deny next reject reject-with-tcp-rst"`
	Option  *constants.TermOption   `json:"option,omitempty" binding:"omitempty,oneof=established is-fragment tcp-established tcp-initial"`
	Logging bool                    `json:"logging"`

	NegateSourceNetworks      bool `json:"negateSourceNetworks"`
	NegateDestinationNetworks bool `json:"negateDestinationNetworks"`

	SourceNetworkIDs      []int64 `json:"sourceNetworkIds"`
	DestinationNetworkIDs []int64 `json:"destinationNetworkIds"`
	SourceServiceIDs      []int64 `json:"sourceServiceIds"`
	DestinationServiceIDs []int64 `json:"destinationServiceIds"`

	NestedPolicyID *int64 `json:"nestedPolicyId,omitempty"`
}

// PolicyRequest creates or replaces a policy together with its full term
// list.
type PolicyRequest struct {
	Name         string              `json:"name" binding:"required"`
	Comment      string              `json:"comment,omitempty"`
	CustomHeader string              `json:"customHeader,omitempty"`
	Terms        []PolicyTermRequest `json:"terms" binding:"dive"`
	TargetIDs    []int64             `json:"targetIds"`
	TestIDs      []int64             `json:"testIds"`
}

// ToModel converts the request into the storage model. Terms default to
// enabled unless the request says otherwise.
func (r *PolicyRequest) ToModel() *model.Policy {
	policy := &model.Policy{
		Name:         r.Name,
		Comment:      r.Comment,
		CustomHeader: r.CustomHeader,
		TargetIDs:    r.TargetIDs,
		TestIDs:      r.TestIDs,
	}
	for _, term := range r.Terms {
		enabled := true
		if term.Enabled != nil {
			enabled = *term.Enabled
		}
		policy.Terms = append(policy.Terms, model.PolicyTerm{
			Name:                      term.Name,
			Enabled:                   enabled,
			Action:                    term.Action,
			Option:                    term.Option,
			Logging:                   term.Logging,
			NegateSourceNetworks:      term.NegateSourceNetworks,
			NegateDestinationNetworks: term.NegateDestinationNetworks,
			SourceNetworkIDs:          term.SourceNetworkIDs,
			DestinationNetworkIDs:     term.DestinationNetworkIDs,
			SourceServiceIDs:          term.SourceServiceIDs,
			DestinationServiceIDs:     term.DestinationServiceIDs,
			NestedPolicyID:            term.NestedPolicyID,
		})
	}
	return policy
}
