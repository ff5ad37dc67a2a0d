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

import "time"

// Revision is an immutable snapshot of a policy or dynamic policy plus the
// ACLs rendered for each of its targets at creation time. Exactly one of
// PolicyID and DynamicPolicyID is set. JSONData and ExpandedTerms are frozen
// at creation and never mutated.
type Revision struct {
	ID              int64            `json:"id" db:"id"`
	Comment         string           `json:"comment,omitempty" db:"comment"`
	PolicyID        *int64           `json:"policyId,omitempty" db:"policy_id"`
	DynamicPolicyID *int64           `json:"dynamicPolicyId,omitempty" db:"dynamic_policy_id"`
	JSONData        string           `json:"jsonData,omitempty" db:"json_data"`
	ExpandedTerms   string           `json:"expandedTerms,omitempty" db:"expanded_terms"`
	Configs         []RevisionConfig `json:"configs,omitempty"`
	CreatedAt       time.Time        `json:"createdAt,omitempty" db:"created_at"`
}

// TableName returns the table name for the Revision model
func (Revision) TableName() string {
	return "revisions"
}

// RevisionConfig is the rendered ACL for one (revision, target) pair.
type RevisionConfig struct {
	ID         int64  `json:"id" db:"id"`
	RevisionID int64  `json:"revisionId" db:"revision_id"`
	TargetID   int64  `json:"targetId" db:"target_id"`
	FilterName string `json:"filterName" db:"filter_name"`
	Filename   string `json:"filename" db:"filename"`
	Config     string `json:"config,omitempty" db:"config"`
}

// TableName returns the table name for the RevisionConfig model
func (RevisionConfig) TableName() string {
	return "revision_configs"
}
