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

// DynamicPolicy computes its term list on the fly by filtering every
// authored policy through CIDR and policy-id predicates.
type DynamicPolicy struct {
	ID            int64                    `json:"id" db:"id"`
	Name          string                   `json:"name" db:"name"`
	Comment       string                   `json:"comment,omitempty" db:"comment"`
	FilterAction  *constants.PolicyAction  `json:"filterAction,omitempty" db:"filter_action"`
	DefaultAction *constants.DefaultAction `json:"defaultAction,omitempty" db:"default_action"`
	Edited        bool                     `json:"edited" db:"edited"`

	SourceFilterIDs      []int64 `json:"sourceFilterIds"`
	DestinationFilterIDs []int64 `json:"destinationFilterIds"`
	PolicyFilterIDs      []int64 `json:"policyFilterIds"`
	TargetIDs            []int64 `json:"targetIds"`
	TestIDs              []int64 `json:"testIds"`

	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the DynamicPolicy model
func (DynamicPolicy) TableName() string {
	return "dynamic_policies"
}

// ValidName is the external identifier of the rendered ACL.
func (p *DynamicPolicy) ValidName() string {
	return ValidName(p.Name)
}
