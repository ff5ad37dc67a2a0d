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

package service

import (
	"net/netip"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// NetworkService owns the network aggregate: validation, uniqueness
// pre-checks, acyclicity, and referential deletion rules.
type NetworkService struct {
	networkRepo repository.NetworkRepository
}

// NewNetworkService creates a new network service
func NewNetworkService(networkRepo repository.NetworkRepository) *NetworkService {
	return &NetworkService{networkRepo: networkRepo}
}

// CreateNetwork validates and persists a new network
func (s *NetworkService) CreateNetwork(network *model.Network) (*model.Network, error) {
	if err := s.validateNetwork(network); err != nil {
		return nil, err
	}

	existing, err := s.networkRepo.GetNetworkByName(network.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrNetworkExists
	}

	if err := s.networkRepo.CreateNetwork(network); err != nil {
		return nil, err
	}
	return network, nil
}

// GetNetworkByID retrieves a network
func (s *NetworkService) GetNetworkByID(id int64) (*model.Network, error) {
	network, err := s.networkRepo.GetNetworkByID(id)
	if err != nil {
		return nil, err
	}
	if network == nil {
		return nil, constants.ErrNetworkNotFound
	}
	return network, nil
}

// ListNetworks retrieves networks with filtering and pagination
func (s *NetworkService) ListNetworks(opts *repository.ListOptions) ([]*model.Network, error) {
	return s.networkRepo.ListNetworks(opts)
}

// UpdateNetwork validates and persists changes to a network; the
// edit-propagation walk runs with the update
func (s *NetworkService) UpdateNetwork(network *model.Network) (*model.Network, error) {
	if err := s.validateNetwork(network); err != nil {
		return nil, err
	}

	current, err := s.networkRepo.GetNetworkByID(network.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrNetworkNotFound
	}
	if network.Name != current.Name {
		existing, err := s.networkRepo.GetNetworkByName(network.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrNetworkExists
		}
	}

	if err := s.checkAcyclic(network); err != nil {
		return nil, err
	}

	if err := s.networkRepo.UpdateNetwork(network); err != nil {
		return nil, err
	}
	return s.GetNetworkByID(network.ID)
}

// DeleteNetwork removes a network unless anything still references it
func (s *NetworkService) DeleteNetwork(id int64) error {
	network, err := s.networkRepo.GetNetworkByID(id)
	if err != nil {
		return err
	}
	if network == nil {
		return constants.ErrNetworkNotFound
	}

	usage, err := s.networkRepo.GetNetworkUsage(id)
	if err != nil {
		return err
	}
	if !usage.Empty() {
		return constants.ErrNetworkInUse
	}

	return s.networkRepo.DeleteNetwork(id)
}

// GetNetworkUsage reports the objects transitively referencing a network
func (s *NetworkService) GetNetworkUsage(id int64) (*model.Usage, error) {
	network, err := s.networkRepo.GetNetworkByID(id)
	if err != nil {
		return nil, err
	}
	if network == nil {
		return nil, constants.ErrNetworkNotFound
	}
	return s.networkRepo.GetNetworkUsage(id)
}

// validateNetwork enforces the address contract: exactly one of address and
// nested reference per row, parseable CIDRs, no self reference.
func (s *NetworkService) validateNetwork(network *model.Network) error {
	for i := range network.Addresses {
		addr := &network.Addresses[i]
		hasAddress := addr.Address != nil && *addr.Address != ""
		hasNested := addr.NestedNetworkID != nil
		if hasAddress == hasNested {
			return constants.Invalid("address %d: exactly one of address and nested network is required", i)
		}
		if hasAddress {
			if _, err := netip.ParsePrefix(*addr.Address); err != nil {
				return constants.Invalid("address %d: %q is not a valid CIDR", i, *addr.Address)
			}
		}
		if hasNested {
			if network.ID != 0 && *addr.NestedNetworkID == network.ID {
				return constants.ErrCycleDetected
			}
			nested, err := s.networkRepo.GetNetworkByID(*addr.NestedNetworkID)
			if err != nil {
				return err
			}
			if nested == nil {
				return constants.ErrNetworkNotFound
			}
		}
	}
	return nil
}

// checkAcyclic rejects an update that would close a nesting cycle: none of
// the newly nested networks may transitively contain this one.
func (s *NetworkService) checkAcyclic(network *model.Network) error {
	usage, err := s.networkRepo.GetNetworkUsage(network.ID)
	if err != nil {
		return err
	}
	ancestors := make(map[int64]bool, len(usage.NetworkIDs))
	for _, id := range usage.NetworkIDs {
		ancestors[id] = true
	}
	for i := range network.Addresses {
		addr := &network.Addresses[i]
		if addr.IsNested() && ancestors[*addr.NestedNetworkID] {
			return constants.ErrCycleDetected
		}
	}
	return nil
}
