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

// Usage lists the ids of objects transitively referencing a subject
// network, service, or policy. The subject itself is excluded.
type Usage struct {
	NetworkIDs       []int64 `json:"networkIds"`
	ServiceIDs       []int64 `json:"serviceIds"`
	PolicyIDs        []int64 `json:"policyIds"`
	DynamicPolicyIDs []int64 `json:"dynamicPolicyIds"`
}

// Empty reports whether nothing references the subject.
func (u *Usage) Empty() bool {
	return len(u.NetworkIDs) == 0 && len(u.ServiceIDs) == 0 &&
		len(u.PolicyIDs) == 0 && len(u.DynamicPolicyIDs) == 0
}
