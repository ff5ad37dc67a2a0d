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

// Target binds a generator kind and address-family mode to the policies
// rendered for it.
type Target struct {
	ID            int64                `json:"id" db:"id"`
	Name          string               `json:"name" db:"name"`
	Generator     string               `json:"generator" db:"generator"`
	InetMode      constants.InetMode   `json:"inetMode" db:"inet_mode"`
	Substitutions []TargetSubstitution `json:"substitutions"`
	CreatedAt     time.Time            `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt     time.Time            `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the Target model
func (Target) TableName() string {
	return "targets"
}

// TargetSubstitution is a literal search/replace applied to rendered config
// text in declaration order.
type TargetSubstitution struct {
	ID       int64  `json:"id" db:"id"`
	TargetID int64  `json:"targetId" db:"target_id"`
	Name     string `json:"name" db:"name"`
	Value    string `json:"value" db:"value"`
	Position int    `json:"position" db:"position"`
}

// TableName returns the table name for the TargetSubstitution model
func (TargetSubstitution) TableName() string {
	return "target_substitutions"
}
