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

// ServiceEntryRequest is one entry row: a (protocol, port) pair or a
// nested service reference, never both.
type ServiceEntryRequest struct {
	Protocol        *string `json:"protocol,omitempty" binding:"omitempty,oneof=tcp udp icmp"`
	Port            *string `json:"port,omitempty" binding:"omitempty,portspec"`
	NestedServiceID *int64  `json:"nestedServiceId,omitempty"`
}

// ServiceRequest creates or replaces a service.
type ServiceRequest struct {
	Name    string                `json:"name" binding:"required"`
	Entries []ServiceEntryRequest `json:"entries" binding:"dive"`
}

// ToModel converts the request into the storage model.
func (r *ServiceRequest) ToModel() *model.Service {
	service := &model.Service{Name: r.Name}
	for _, entry := range r.Entries {
		service.Entries = append(service.Entries, model.ServiceEntry{
			Protocol:        entry.Protocol,
			Port:            entry.Port,
			NestedServiceID: entry.NestedServiceID,
		})
	}
	return service
}
