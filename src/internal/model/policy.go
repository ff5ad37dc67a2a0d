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

package model

import (
	"time"

	"acl-platform/src/internal/constants"
)

// Policy is an ordered list of terms compiled into one ACL per target.
type Policy struct {
	ID           int64        `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Comment      string       `json:"comment,omitempty" db:"comment"`
	CustomHeader string       `json:"customHeader,omitempty" db:"custom_header"`
	Edited       bool         `json:"edited" db:"edited"`
	Terms        []PolicyTerm `json:"terms"`
	TargetIDs    []int64      `json:"targetIds"`
	TestIDs      []int64      `json:"testIds"`
	CreatedAt    time.Time    `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the Policy model
func (Policy) TableName() string {
	return "policies"
}

// ValidName is the external identifier of the rendered ACL.
func (p *Policy) ValidName() string {
	return ValidName(p.Name)
}

// PolicyTerm is one rule inside a policy. It is either a tactical term
// (action, networks, services, options) or a nested reference to another
// policy spliced inline on expansion, never both.
type PolicyTerm struct {
	ID       int64  `json:"id" db:"id"`
	PolicyID int64  `json:"policyId" db:"policy_id"`
	Name     string `json:"name" db:"name"`
	// PolicyName is the owning policy's name, populated on load and used
	// for rendered term naming. Not a column of policy_terms.
	PolicyName string `json:"-" db:"-"`
	// LexOrder keeps terms ordered within the policy without renumbering
	// siblings on insert.
	LexOrder string `json:"-" db:"lex_order"`

	Enabled bool                    `json:"enabled" db:"enabled"`
	Action  *constants.PolicyAction `json:"action,omitempty" db:"action"`
	Option  *constants.TermOption   `json:"option,omitempty" db:"option"`
	Logging bool                    `json:"logging" db:"logging"`

	NegateSourceNetworks      bool `json:"negateSourceNetworks" db:"negate_source_networks"`
	NegateDestinationNetworks bool `json:"negateDestinationNetworks" db:"negate_destination_networks"`

	SourceNetworkIDs      []int64 `json:"sourceNetworkIds"`
	DestinationNetworkIDs []int64 `json:"destinationNetworkIds"`
	SourceServiceIDs      []int64 `json:"sourceServiceIds"`
	DestinationServiceIDs []int64 `json:"destinationServiceIds"`

	NestedPolicyID *int64 `json:"nestedPolicyId,omitempty" db:"nested_policy_id"`
}

// TableName returns the table name for the PolicyTerm model
func (PolicyTerm) TableName() string {
	return "policy_terms"
}

// IsNested reports whether the term splices another policy.
func (t *PolicyTerm) IsNested() bool {
	return t.NestedPolicyID != nil
}

// ValidName is the rendered identifier of the term, qualified by its policy.
func (t *PolicyTerm) ValidName() string {
	return ValidName(t.PolicyName) + "-" + ValidName(t.Name)
}

// HashedName returns the stable token used for this term's synthetic
// negation entries in the naming table.
func (t *PolicyTerm) HashedName() string {
	return HashedName("PolicyTerm", t.ID)
}
