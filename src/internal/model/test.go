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

// Test is a named group of classification cases attached to policies.
type Test struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Cases     []TestCase `json:"cases"`
	CreatedAt time.Time  `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the Test model
func (Test) TableName() string {
	return "tests"
}

// Wildcard marks an unconstrained test-case field.
const Wildcard = "any"

// TestCase is a 5-tuple classification probe with an expected action.
// Any field may be the wildcard "any".
type TestCase struct {
	ID                 int64                  `json:"id" db:"id"`
	TestID             int64                  `json:"testId" db:"test_id"`
	ExpectedAction     constants.PolicyAction `json:"expectedAction" db:"expected_action"`
	SourceNetwork      string                 `json:"sourceNetwork" db:"source_network"`
	DestinationNetwork string                 `json:"destinationNetwork" db:"destination_network"`
	SourcePort         string                 `json:"sourcePort" db:"source_port"`
	DestinationPort    string                 `json:"destinationPort" db:"destination_port"`
	Protocol           string                 `json:"protocol" db:"protocol"`
}

// TableName returns the table name for the TestCase model
func (TestCase) TableName() string {
	return "test_cases"
}
