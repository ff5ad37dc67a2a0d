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

package compiler

import (
	"fmt"
	"net/netip"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// LeafCIDRs resolves a network to its literal prefixes, recursing through
// nested networks. Results keep declaration order with duplicates removed.
func LeafCIDRs(networkID int64, networks map[int64]*model.Network) ([]netip.Prefix, error) {
	var leaves []netip.Prefix
	seen := make(map[netip.Prefix]bool)
	err := walkNetwork(networkID, networks, make(map[int64]bool), func(addr *model.NetworkAddress) error {
		prefix, err := netip.ParsePrefix(*addr.Address)
		if err != nil {
			return fmt.Errorf("network %d address %q: %w", addr.NetworkID, *addr.Address, err)
		}
		prefix = prefix.Masked()
		if !seen[prefix] {
			seen[prefix] = true
			leaves = append(leaves, prefix)
		}
		return nil
	})
	return leaves, err
}

// walkNetwork visits every leaf address reachable from the network.
func walkNetwork(networkID int64, networks map[int64]*model.Network, path map[int64]bool, visit func(*model.NetworkAddress) error) error {
	if path[networkID] {
		return constants.ErrCycleDetected
	}
	network, ok := networks[networkID]
	if !ok {
		return constants.ErrNetworkNotFound
	}
	path[networkID] = true
	defer delete(path, networkID)
	for i := range network.Addresses {
		addr := &network.Addresses[i]
		if addr.IsNested() {
			if err := walkNetwork(*addr.NestedNetworkID, networks, path, visit); err != nil {
				return err
			}
			continue
		}
		if err := visit(addr); err != nil {
			return err
		}
	}
	return nil
}

// PortSpec is one leaf service entry: a protocol and an optional port or
// "a-b" range.
type PortSpec struct {
	Protocol string
	Port     string
}

// ServicePortSpecs resolves a service to its leaf protocol/port pairs,
// recursing through nested services.
func ServicePortSpecs(serviceID int64, services map[int64]*model.Service) ([]PortSpec, error) {
	var specs []PortSpec
	err := walkService(serviceID, services, make(map[int64]bool), func(entry *model.ServiceEntry) {
		spec := PortSpec{Protocol: *entry.Protocol}
		if entry.Port != nil {
			spec.Port = *entry.Port
		}
		specs = append(specs, spec)
	})
	return specs, err
}

func walkService(serviceID int64, services map[int64]*model.Service, path map[int64]bool, visit func(*model.ServiceEntry)) error {
	if path[serviceID] {
		return constants.ErrCycleDetected
	}
	service, ok := services[serviceID]
	if !ok {
		return constants.ErrServiceNotFound
	}
	path[serviceID] = true
	defer delete(path, serviceID)
	for i := range service.Entries {
		entry := &service.Entries[i]
		if entry.IsNested() {
			if err := walkService(*entry.NestedServiceID, services, path, visit); err != nil {
				return err
			}
			continue
		}
		visit(entry)
	}
	return nil
}

// sideLeafCIDRs unions the leaf prefixes of several networks.
func sideLeafCIDRs(networkIDs []int64, networks map[int64]*model.Network) ([]netip.Prefix, error) {
	var union []netip.Prefix
	seen := make(map[netip.Prefix]bool)
	for _, id := range networkIDs {
		leaves, err := LeafCIDRs(id, networks)
		if err != nil {
			return nil, err
		}
		for _, leaf := range leaves {
			if !seen[leaf] {
				seen[leaf] = true
				union = append(union, leaf)
			}
		}
	}
	return union, nil
}

// sidePortSpecs unions the leaf port specs of several services.
func sidePortSpecs(serviceIDs []int64, services map[int64]*model.Service) ([]PortSpec, error) {
	var union []PortSpec
	for _, id := range serviceIDs {
		specs, err := ServicePortSpecs(id, services)
		if err != nil {
			return nil, err
		}
		union = append(union, specs...)
	}
	return union, nil
}
