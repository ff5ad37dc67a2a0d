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

// Network is a named, ordered group of addresses and nested networks.
type Network struct {
	ID        int64            `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Addresses []NetworkAddress `json:"addresses"`
	CreatedAt time.Time        `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the Network model
func (Network) TableName() string {
	return "networks"
}

// HashedName returns the stable naming-table token for this network.
func (n *Network) HashedName() string {
	return HashedName("Network", n.ID)
}

// NetworkAddress is one member of a network: either a literal CIDR or a
// reference to a nested network, never both.
type NetworkAddress struct {
	ID              int64   `json:"id" db:"id"`
	NetworkID       int64   `json:"networkId" db:"network_id"`
	Address         *string `json:"address,omitempty" db:"address"`
	NestedNetworkID *int64  `json:"nestedNetworkId,omitempty" db:"nested_network_id"`
	Comment         string  `json:"comment,omitempty" db:"comment"`
}

// TableName returns the table name for the NetworkAddress model
func (NetworkAddress) TableName() string {
	return "network_addresses"
}

// IsNested reports whether the address refers to a nested network.
func (a *NetworkAddress) IsNested() bool {
	return a.NestedNetworkID != nil
}
