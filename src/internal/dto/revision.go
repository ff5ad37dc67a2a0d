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

import "acl-platform/src/internal/model"

// RevisionRequest freezes a policy or dynamic policy into a revision.
// Exactly one of the two ids must be set.
type RevisionRequest struct {
	Comment         string `json:"comment,omitempty"`
	PolicyID        *int64 `json:"policyId,omitempty"`
	DynamicPolicyID *int64 `json:"dynamicPolicyId,omitempty"`
}

// ToModel converts the request into the storage model.
func (r *RevisionRequest) ToModel() *model.Revision {
	return &model.Revision{
		Comment:         r.Comment,
		PolicyID:        r.PolicyID,
		DynamicPolicyID: r.DynamicPolicyID,
	}
}
