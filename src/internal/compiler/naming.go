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
	"net/netip"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// Definitions is the naming table fed to the renderer: network tokens map
// to CIDRs or other tokens, service names map to protocol/port entries.
// Tokens are stable hashes of the owning object, so an object reused across
// terms resolves to the identical token everywhere.
type Definitions struct {
	networks     map[string][]string
	services     map[string][]PortSpec
	networkOrder []string
	serviceOrder []string
}

// NetworkTokens returns the network token names in emission order.
func (d *Definitions) NetworkTokens() []string { return d.networkOrder }

// NetworkMembers returns the members of one network token: literal CIDRs
// and/or other token names.
func (d *Definitions) NetworkMembers(token string) []string { return d.networks[token] }

// ServiceNames returns the service names in emission order.
func (d *Definitions) ServiceNames() []string { return d.serviceOrder }

// ServiceSpecs returns the leaf protocol/port entries of one service name.
func (d *Definitions) ServiceSpecs(name string) []PortSpec { return d.services[name] }

// ResolveNetworkToken flattens a token (following nested tokens) to its
// leaf CIDRs.
func (d *Definitions) ResolveNetworkToken(token string) []netip.Prefix {
	var leaves []netip.Prefix
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(t string) {
		if seen[t] {
			return
		}
		seen[t] = true
		for _, member := range d.networks[t] {
			if _, nested := d.networks[member]; nested {
				walk(member)
				continue
			}
			if prefix, err := netip.ParsePrefix(member); err == nil {
				leaves = append(leaves, prefix.Masked())
			}
		}
	}
	walk(token)
	return leaves
}

func (d *Definitions) addNetwork(token string, members []string) {
	if _, ok := d.networks[token]; ok {
		return
	}
	d.networks[token] = members
	d.networkOrder = append(d.networkOrder, token)
}

func (d *Definitions) addService(name string, specs []PortSpec) {
	if _, ok := d.services[name]; ok {
		return
	}
	d.services[name] = specs
	d.serviceOrder = append(d.serviceOrder, name)
}

// BuildDefinitions emits the naming table for every network and service
// reachable from the expanded term list. Networks are keyed by hashed
// tokens, services by their names. Negated terms additionally get a pair of
// synthetic tokens holding the address-space complement of the negated
// side.
func BuildDefinitions(terms []model.PolicyTerm, networks map[int64]*model.Network, services map[int64]*model.Service) (*Definitions, error) {
	defs := &Definitions{
		networks: make(map[string][]string),
		services: make(map[string][]PortSpec),
	}

	for i := range terms {
		term := &terms[i]
		if term.IsNested() || !term.Enabled {
			continue
		}
		for _, networkID := range append(append([]int64{}, term.SourceNetworkIDs...), term.DestinationNetworkIDs...) {
			if err := defs.addNetworkTree(networkID, networks); err != nil {
				return nil, err
			}
		}
		for _, serviceID := range append(append([]int64{}, term.SourceServiceIDs...), term.DestinationServiceIDs...) {
			service, ok := services[serviceID]
			if !ok {
				return nil, constants.ErrServiceNotFound
			}
			specs, err := ServicePortSpecs(serviceID, services)
			if err != nil {
				return nil, err
			}
			defs.addService(service.Name, specs)
		}
		if term.NegateSourceNetworks {
			if err := defs.addComplement(term.HashedName()+"src", term.SourceNetworkIDs, networks); err != nil {
				return nil, err
			}
		}
		if term.NegateDestinationNetworks {
			if err := defs.addComplement(term.HashedName()+"dst", term.DestinationNetworkIDs, networks); err != nil {
				return nil, err
			}
		}
	}
	return defs, nil
}

// addNetworkTree emits the token for a network and, recursively, for every
// nested network it references. Nested members appear as the nested token.
func (d *Definitions) addNetworkTree(networkID int64, networks map[int64]*model.Network) error {
	network, ok := networks[networkID]
	if !ok {
		return constants.ErrNetworkNotFound
	}
	if _, done := d.networks[network.HashedName()]; done {
		return nil
	}
	var members []string
	for i := range network.Addresses {
		addr := &network.Addresses[i]
		if addr.IsNested() {
			nested, ok := networks[*addr.NestedNetworkID]
			if !ok {
				return constants.ErrNetworkNotFound
			}
			members = append(members, nested.HashedName())
			if err := d.addNetworkTree(nested.ID, networks); err != nil {
				return err
			}
			continue
		}
		members = append(members, *addr.Address)
	}
	d.addNetwork(network.HashedName(), members)
	return nil
}

// addComplement emits a synthetic token holding the complement of the
// union of the networks' leaf CIDRs.
func (d *Definitions) addComplement(token string, networkIDs []int64, networks map[int64]*model.Network) error {
	exclude, err := sideLeafCIDRs(networkIDs, networks)
	if err != nil {
		return err
	}
	complement := Complement(exclude)
	members := make([]string, len(complement))
	for i, prefix := range complement {
		members[i] = prefix.String()
	}
	d.addNetwork(token, members)
	return nil
}
