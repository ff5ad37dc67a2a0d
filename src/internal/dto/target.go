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

// TargetSubstitutionRequest is one literal search/replace applied to the
// rendered config, in list order.
type TargetSubstitutionRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

// TargetRequest creates or replaces a target.
type TargetRequest struct {
	Name          string                      `json:"name" binding:"required"`
	Generator     string                      `json:"generator" binding:"required"`
	InetMode      constants.InetMode          `json:"inetMode" binding:"required,oneof=inet inet6 mixed"`
	Substitutions []TargetSubstitutionRequest `json:"substitutions" binding:"dive"`
}

// ToModel converts the request into the storage model.
func (r *TargetRequest) ToModel() *model.Target {
	target := &model.Target{Name: r.Name, Generator: r.Generator, InetMode: r.InetMode}
	for i, sub := range r.Substitutions {
		target.Substitutions = append(target.Substitutions, model.TargetSubstitution{
			Name:     sub.Name,
			Value:    sub.Value,
			Position: i,
		})
	}
	return target
}
