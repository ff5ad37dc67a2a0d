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

// TestCaseRequest is one classification probe. Empty fields mean the
// wildcard "any".
type TestCaseRequest struct {
	ExpectedAction     constants.PolicyAction `json:"expectedAction" binding:"required,oneof=accept deny next reject reject-with-tcp-rst"`
	SourceNetwork      string                 `json:"sourceNetwork,omitempty"`
	DestinationNetwork string                 `json:"destinationNetwork,omitempty"`
	SourcePort         string                 `json:"sourcePort,omitempty"`
	DestinationPort    string                 `json:"destinationPort,omitempty"`
	Protocol           string                 `json:"protocol,omitempty" binding:"omitempty,oneof=tcp udp icmp any"`
}

// ToModel converts the request into the storage model.
func (r *TestCaseRequest) ToModel() *model.TestCase {
	return &model.TestCase{
		ExpectedAction:     r.ExpectedAction,
		SourceNetwork:      r.SourceNetwork,
		DestinationNetwork: r.DestinationNetwork,
		SourcePort:         r.SourcePort,
		DestinationPort:    r.DestinationPort,
		Protocol:           r.Protocol,
	}
}

// TestRequest creates or replaces a test group.
type TestRequest struct {
	Name  string            `json:"name" binding:"required"`
	Cases []TestCaseRequest `json:"cases" binding:"dive"`
}

// ToModel converts the request into the storage model.
func (r *TestRequest) ToModel() *model.Test {
	test := &model.Test{Name: r.Name}
	for i := range r.Cases {
		test.Cases = append(test.Cases, *r.Cases[i].ToModel())
	}
	return test
}
