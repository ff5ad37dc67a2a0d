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

import "time"

// Service is a named, ordered group of protocol/port entries and nested
// services.
type Service struct {
	ID        int64          `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Entries   []ServiceEntry `json:"entries"`
	CreatedAt time.Time      `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// HashedName returns the stable naming-table token for this service.
func (s *Service) HashedName() string {
	return HashedName("Service", s.ID)
}

// ServiceEntry is one member of a service: either a (protocol, optional
// port) pair or a reference to a nested service, never both.
// Port is a single integer or an "a-b" range in [0, 65535].
type ServiceEntry struct {
	ID              int64   `json:"id" db:"id"`
	ServiceID       int64   `json:"serviceId" db:"service_id"`
	Protocol        *string `json:"protocol,omitempty" db:"protocol"`
	Port            *string `json:"port,omitempty" db:"port"`
	NestedServiceID *int64  `json:"nestedServiceId,omitempty" db:"nested_service_id"`
}

// TableName returns the table name for the ServiceEntry model
func (ServiceEntry) TableName() string {
	return "service_entries"
}

// IsNested reports whether the entry refers to a nested service.
func (e *ServiceEntry) IsNested() bool {
	return e.NestedServiceID != nil
}
