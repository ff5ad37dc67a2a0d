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
	"fmt"
	"strconv"
	"strings"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// ServiceService owns the service aggregate: protocol/port validation,
// uniqueness pre-checks, acyclicity, and referential deletion rules.
type ServiceService struct {
	serviceRepo repository.ServiceRepository
}

// NewServiceService creates a new service service
func NewServiceService(serviceRepo repository.ServiceRepository) *ServiceService {
	return &ServiceService{serviceRepo: serviceRepo}
}

// CreateService validates and persists a new service
func (s *ServiceService) CreateService(service *model.Service) (*model.Service, error) {
	if err := s.validateService(service); err != nil {
		return nil, err
	}

	existing, err := s.serviceRepo.GetServiceByName(service.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrServiceExists
	}

	if err := s.serviceRepo.CreateService(service); err != nil {
		return nil, err
	}
	return service, nil
}

// GetServiceByID retrieves a service
func (s *ServiceService) GetServiceByID(id int64) (*model.Service, error) {
	service, err := s.serviceRepo.GetServiceByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, constants.ErrServiceNotFound
	}
	return service, nil
}

// ListServices retrieves services with filtering and pagination
func (s *ServiceService) ListServices(opts *repository.ListOptions) ([]*model.Service, error) {
	return s.serviceRepo.ListServices(opts)
}

// UpdateService validates and persists changes to a service; the
// edit-propagation walk runs with the update
func (s *ServiceService) UpdateService(service *model.Service) (*model.Service, error) {
	if err := s.validateService(service); err != nil {
		return nil, err
	}

	current, err := s.serviceRepo.GetServiceByID(service.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrServiceNotFound
	}
	if service.Name != current.Name {
		existing, err := s.serviceRepo.GetServiceByName(service.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrServiceExists
		}
	}

	if err := s.checkAcyclic(service); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.UpdateService(service); err != nil {
		return nil, err
	}
	return s.GetServiceByID(service.ID)
}

// DeleteService removes a service unless anything still references it
func (s *ServiceService) DeleteService(id int64) error {
	service, err := s.serviceRepo.GetServiceByID(id)
	if err != nil {
		return err
	}
	if service == nil {
		return constants.ErrServiceNotFound
	}

	usage, err := s.serviceRepo.GetServiceUsage(id)
	if err != nil {
		return err
	}
	if !usage.Empty() {
		return constants.ErrServiceInUse
	}

	return s.serviceRepo.DeleteService(id)
}

// GetServiceUsage reports the objects transitively referencing a service
func (s *ServiceService) GetServiceUsage(id int64) (*model.Usage, error) {
	service, err := s.serviceRepo.GetServiceByID(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, constants.ErrServiceNotFound
	}
	return s.serviceRepo.GetServiceUsage(id)
}

// validateService enforces the entry contract: exactly one of
// (protocol, port) and nested reference; icmp forbids a port, tcp/udp
// require one; ports are N or A-B within [0, 65535].
func (s *ServiceService) validateService(service *model.Service) error {
	for i := range service.Entries {
		entry := &service.Entries[i]
		hasProtocol := entry.Protocol != nil && *entry.Protocol != ""
		hasNested := entry.NestedServiceID != nil
		if hasProtocol == hasNested {
			return constants.Invalid("entry %d: exactly one of protocol and nested service is required", i)
		}
		if hasNested {
			if service.ID != 0 && *entry.NestedServiceID == service.ID {
				return constants.ErrCycleDetected
			}
			nested, err := s.serviceRepo.GetServiceByID(*entry.NestedServiceID)
			if err != nil {
				return err
			}
			if nested == nil {
				return constants.ErrServiceNotFound
			}
			continue
		}

		hasPort := entry.Port != nil && *entry.Port != ""
		switch *entry.Protocol {
		case constants.ProtocolICMP:
			if hasPort {
				return constants.Invalid("entry %d: icmp does not take a port", i)
			}
		case constants.ProtocolTCP, constants.ProtocolUDP:
			if !hasPort {
				return constants.Invalid("entry %d: %s requires a port", i, *entry.Protocol)
			}
		default:
			return constants.Invalid("entry %d: unknown protocol %q", i, *entry.Protocol)
		}
		if hasPort {
			if err := validatePortSpec(*entry.Port); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
		}
	}
	return nil
}

// validatePortSpec accepts "N" or "A-B" with each value in [0, 65535] and
// A <= B.
func validatePortSpec(spec string) error {
	parse := func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 65535 {
			return 0, constants.Invalid("port %q out of range 0-65535", s)
		}
		return n, nil
	}
	if low, high, ok := strings.Cut(spec, "-"); ok {
		lo, err := parse(low)
		if err != nil {
			return err
		}
		hi, err := parse(high)
		if err != nil {
			return err
		}
		if lo > hi {
			return constants.Invalid("port range %q is inverted", spec)
		}
		return nil
	}
	_, err := parse(spec)
	return err
}

// checkAcyclic rejects an update that would close a nesting cycle.
func (s *ServiceService) checkAcyclic(service *model.Service) error {
	usage, err := s.serviceRepo.GetServiceUsage(service.ID)
	if err != nil {
		return err
	}
	ancestors := make(map[int64]bool, len(usage.ServiceIDs))
	for _, id := range usage.ServiceIDs {
		ancestors[id] = true
	}
	for i := range service.Entries {
		entry := &service.Entries[i]
		if entry.IsNested() && ancestors[*entry.NestedServiceID] {
			return constants.ErrCycleDetected
		}
	}
	return nil
}
