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
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// DynamicPolicyService owns the dynamic-policy aggregate and exposes
// on-demand term resolution.
type DynamicPolicyService struct {
	dynamicPolicyRepo repository.DynamicPolicyRepository
	networkRepo       repository.NetworkRepository
	policyRepo        repository.PolicyRepository
	targetRepo        repository.TargetRepository
	testRepo          repository.TestRepository
	resolver          *Resolver
}

// NewDynamicPolicyService creates a new dynamic policy service
func NewDynamicPolicyService(
	dynamicPolicyRepo repository.DynamicPolicyRepository,
	networkRepo repository.NetworkRepository,
	policyRepo repository.PolicyRepository,
	targetRepo repository.TargetRepository,
	testRepo repository.TestRepository,
	resolver *Resolver,
) *DynamicPolicyService {
	return &DynamicPolicyService{
		dynamicPolicyRepo: dynamicPolicyRepo,
		networkRepo:       networkRepo,
		policyRepo:        policyRepo,
		targetRepo:        targetRepo,
		testRepo:          testRepo,
		resolver:          resolver,
	}
}

// CreateDynamicPolicy validates and persists a new dynamic policy
func (s *DynamicPolicyService) CreateDynamicPolicy(dp *model.DynamicPolicy) (*model.DynamicPolicy, error) {
	if err := s.validateDynamicPolicy(dp); err != nil {
		return nil, err
	}

	existing, err := s.dynamicPolicyRepo.GetDynamicPolicyByName(dp.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrDynamicPolicyExists
	}

	if err := s.dynamicPolicyRepo.CreateDynamicPolicy(dp); err != nil {
		return nil, err
	}
	return s.GetDynamicPolicyByID(dp.ID)
}

// GetDynamicPolicyByID retrieves a dynamic policy with its filter links
func (s *DynamicPolicyService) GetDynamicPolicyByID(id int64) (*model.DynamicPolicy, error) {
	dp, err := s.dynamicPolicyRepo.GetDynamicPolicyByID(id)
	if err != nil {
		return nil, err
	}
	if dp == nil {
		return nil, constants.ErrDynamicPolicyNotFound
	}
	return dp, nil
}

// ListDynamicPolicies retrieves dynamic policies with filtering and
// pagination
func (s *DynamicPolicyService) ListDynamicPolicies(opts *repository.ListOptions) ([]*model.DynamicPolicy, error) {
	return s.dynamicPolicyRepo.ListDynamicPolicies(opts)
}

// UpdateDynamicPolicy validates and persists changes to a dynamic policy
func (s *DynamicPolicyService) UpdateDynamicPolicy(dp *model.DynamicPolicy) (*model.DynamicPolicy, error) {
	if err := s.validateDynamicPolicy(dp); err != nil {
		return nil, err
	}

	current, err := s.dynamicPolicyRepo.GetDynamicPolicyByID(dp.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrDynamicPolicyNotFound
	}
	if dp.Name != current.Name {
		existing, err := s.dynamicPolicyRepo.GetDynamicPolicyByName(dp.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrDynamicPolicyExists
		}
	}

	if err := s.dynamicPolicyRepo.UpdateDynamicPolicy(dp); err != nil {
		return nil, err
	}
	return s.GetDynamicPolicyByID(dp.ID)
}

// DeleteDynamicPolicy removes a dynamic policy; its revisions keep their
// frozen snapshots
func (s *DynamicPolicyService) DeleteDynamicPolicy(id int64) error {
	dp, err := s.dynamicPolicyRepo.GetDynamicPolicyByID(id)
	if err != nil {
		return err
	}
	if dp == nil {
		return constants.ErrDynamicPolicyNotFound
	}
	return s.dynamicPolicyRepo.DeleteDynamicPolicy(id)
}

// ResolveTerms runs the resolution pipeline for a stored dynamic policy.
func (s *DynamicPolicyService) ResolveTerms(id int64) ([]model.PolicyTerm, error) {
	dp, err := s.GetDynamicPolicyByID(id)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveTerms(dp)
}

// validateDynamicPolicy checks every referenced filter object exists.
func (s *DynamicPolicyService) validateDynamicPolicy(dp *model.DynamicPolicy) error {
	for _, ids := range [][]int64{dp.SourceFilterIDs, dp.DestinationFilterIDs} {
		for _, id := range ids {
			network, err := s.networkRepo.GetNetworkByID(id)
			if err != nil {
				return err
			}
			if network == nil {
				return constants.ErrNetworkNotFound
			}
		}
	}
	for _, id := range dp.PolicyFilterIDs {
		policy, err := s.policyRepo.GetPolicyByID(id)
		if err != nil {
			return err
		}
		if policy == nil {
			return constants.ErrPolicyNotFound
		}
	}
	for _, id := range dp.TargetIDs {
		target, err := s.targetRepo.GetTargetByID(id)
		if err != nil {
			return err
		}
		if target == nil {
			return constants.ErrTargetNotFound
		}
	}
	for _, id := range dp.TestIDs {
		test, err := s.testRepo.GetTestByID(id)
		if err != nil {
			return err
		}
		if test == nil {
			return constants.ErrTestNotFound
		}
	}
	return nil
}
