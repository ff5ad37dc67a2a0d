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

// DynamicPolicyRequest creates or replaces a dynamic policy.
type DynamicPolicyRequest struct {
	Name          string                   `json:"name" binding:"required"`
	Comment       string                   `json:"comment,omitempty"`
	FilterAction  *constants.PolicyAction  `json:"filterAction,omitempty" binding:"omitempty,oneof=accept deny next reject reject-with-tcp-rst"`
	DefaultAction *constants.DefaultAction `json:"defaultAction,omitempty" binding:"omitempty,oneof=accept accept-log deny deny-log"`

	SourceFilterIDs      []int64 `json:"sourceFilterIds"`
	DestinationFilterIDs []int64 `json:"destinationFilterIds"`
	PolicyFilterIDs      []int64 `json:"policyFilterIds"`
	TargetIDs            []int64 `json:"targetIds"`
	TestIDs              []int64 `json:"testIds"`
}

// ToModel converts the request into the storage model.
func (r *DynamicPolicyRequest) ToModel() *model.DynamicPolicy {
	return &model.DynamicPolicy{
		Name:                 r.Name,
		Comment:              r.Comment,
		FilterAction:         r.FilterAction,
		DefaultAction:        r.DefaultAction,
		SourceFilterIDs:      r.SourceFilterIDs,
		DestinationFilterIDs: r.DestinationFilterIDs,
		PolicyFilterIDs:      r.PolicyFilterIDs,
		TargetIDs:            r.TargetIDs,
		TestIDs:              r.TestIDs,
	}
}
