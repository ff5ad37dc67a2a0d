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

// Deployment is one attempt to push one revision config through one
// deployer. Output holds the captured worker log.
type Deployment struct {
	ID         int64                      `json:"id" db:"id"`
	DeployerID int64                      `json:"deployerId" db:"deployer_id"`
	RevisionID int64                      `json:"revisionId" db:"revision_id"`
	Status     constants.DeploymentStatus `json:"status" db:"status"`
	Output     string                     `json:"output,omitempty" db:"output"`
	CreatedAt  time.Time                  `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt  time.Time                  `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the Deployment model
func (Deployment) TableName() string {
	return "deployments"
}
