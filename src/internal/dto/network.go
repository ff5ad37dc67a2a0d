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

// NetworkAddressRequest is one address row: a literal CIDR or a nested
// network reference, never both.
type NetworkAddressRequest struct {
	Address         *string `json:"address,omitempty" binding:"omitempty,cidrprefix"`
	NestedNetworkID *int64  `json:"nestedNetworkId,omitempty"`
	Comment         string  `json:"comment,omitempty"`
}

// NetworkRequest creates or replaces a network.
type NetworkRequest struct {
	Name      string                  `json:"name" binding:"required"`
	Addresses []NetworkAddressRequest `json:"addresses" binding:"dive"`
}

// ToModel converts the request into the storage model.
func (r *NetworkRequest) ToModel() *model.Network {
	network := &model.Network{Name: r.Name}
	for _, addr := range r.Addresses {
		network.Addresses = append(network.Addresses, model.NetworkAddress{
			Address:         addr.Address,
			NestedNetworkID: addr.NestedNetworkID,
			Comment:         addr.Comment,
		})
	}
	return network
}
