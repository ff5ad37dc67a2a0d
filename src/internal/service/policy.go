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

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
	"acl-platform/src/internal/utils"
)

// PolicyService owns the policy aggregate. Terms are managed wholesale
// through the policy: create and update replace the whole term list, and
// lex_order ranks are assigned here.
type PolicyService struct {
	policyRepo  repository.PolicyRepository
	networkRepo repository.NetworkRepository
	serviceRepo repository.ServiceRepository
	targetRepo  repository.TargetRepository
	testRepo    repository.TestRepository
}

// NewPolicyService creates a new policy service
func NewPolicyService(
	policyRepo repository.PolicyRepository,
	networkRepo repository.NetworkRepository,
	serviceRepo repository.ServiceRepository,
	targetRepo repository.TargetRepository,
	testRepo repository.TestRepository,
) *PolicyService {
	return &PolicyService{
		policyRepo:  policyRepo,
		networkRepo: networkRepo,
		serviceRepo: serviceRepo,
		targetRepo:  targetRepo,
		testRepo:    testRepo,
	}
}

// CreatePolicy validates and persists a new policy with its terms
func (s *PolicyService) CreatePolicy(policy *model.Policy) (*model.Policy, error) {
	if err := s.validatePolicy(policy); err != nil {
		return nil, err
	}

	existing, err := s.policyRepo.GetPolicyByName(policy.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrPolicyExists
	}

	assignRanks(policy.Terms)
	if err := s.policyRepo.CreatePolicy(policy); err != nil {
		return nil, err
	}
	return s.GetPolicyByID(policy.ID)
}

// GetPolicyByID retrieves a policy with its terms and links
func (s *PolicyService) GetPolicyByID(id int64) (*model.Policy, error) {
	policy, err := s.policyRepo.GetPolicyByID(id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, constants.ErrPolicyNotFound
	}
	return policy, nil
}

// ListPolicies retrieves policies with filtering and pagination
func (s *PolicyService) ListPolicies(opts *repository.ListOptions) ([]*model.Policy, error) {
	return s.policyRepo.ListPolicies(opts)
}

// UpdatePolicy replaces a policy and its full term list; the stored policy
// and everything containing it are marked edited in the same transaction
func (s *PolicyService) UpdatePolicy(policy *model.Policy) (*model.Policy, error) {
	if err := s.validatePolicy(policy); err != nil {
		return nil, err
	}

	current, err := s.policyRepo.GetPolicyByID(policy.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrPolicyNotFound
	}
	if policy.Name != current.Name {
		existing, err := s.policyRepo.GetPolicyByName(policy.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrPolicyExists
		}
	}

	if err := s.checkAcyclic(policy); err != nil {
		return nil, err
	}

	assignRanks(policy.Terms)
	if err := s.policyRepo.UpdatePolicy(policy); err != nil {
		return nil, err
	}
	return s.GetPolicyByID(policy.ID)
}

// DeletePolicy removes a policy unless anything still references it
func (s *PolicyService) DeletePolicy(id int64) error {
	policy, err := s.policyRepo.GetPolicyByID(id)
	if err != nil {
		return err
	}
	if policy == nil {
		return constants.ErrPolicyNotFound
	}

	usage, err := s.policyRepo.GetPolicyUsage(id)
	if err != nil {
		return err
	}
	if !usage.Empty() {
		return constants.ErrPolicyInUse
	}

	return s.policyRepo.DeletePolicy(id)
}

// GetPolicyUsage reports the objects transitively referencing a policy
func (s *PolicyService) GetPolicyUsage(id int64) (*model.Usage, error) {
	policy, err := s.policyRepo.GetPolicyByID(id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, constants.ErrPolicyNotFound
	}
	return s.policyRepo.GetPolicyUsage(id)
}

// assignRanks rewrites lex_order for a wholesale term list so the stored
// order matches the request order.
func assignRanks(terms []model.PolicyTerm) {
	ranks := utils.SequentialRanks(len(terms))
	for i := range terms {
		terms[i].LexOrder = ranks[i]
	}
}

// validatePolicy enforces the term contract: a term is tactical or nested,
// never both; tactical terms need an action; names are unique within the
// policy; negated sources need a non-empty source list, while a negated
// empty destination side is quietly un-negated; all referenced objects
// exist.
func (s *PolicyService) validatePolicy(policy *model.Policy) error {
	names := make(map[string]bool, len(policy.Terms))
	for i := range policy.Terms {
		term := &policy.Terms[i]
		if term.Name == "" {
			return constants.Invalid("term %d: name is required", i)
		}
		if names[term.Name] {
			return constants.Invalid("term %d: name %q is already used in this policy", i, term.Name)
		}
		names[term.Name] = true

		if term.IsNested() {
			if err := s.validateNestedTerm(policy, term, i); err != nil {
				return err
			}
			continue
		}

		if term.Action == nil {
			return constants.Invalid("term %d: action is required", i)
		}
		if term.NegateSourceNetworks && len(term.SourceNetworkIDs) == 0 {
			return constants.Invalid("term %d: negating an empty source side matches nothing", i)
		}
		if term.NegateDestinationNetworks && len(term.DestinationNetworkIDs) == 0 {
			// Historical payloads carry this combination; treat it as not
			// negated rather than rejecting the whole policy.
			term.NegateDestinationNetworks = false
		}

		if err := s.checkNetworksExist(term.SourceNetworkIDs, term.DestinationNetworkIDs); err != nil {
			return fmt.Errorf("term %d: %w", i, err)
		}
		if err := s.checkServicesExist(term.SourceServiceIDs, term.DestinationServiceIDs); err != nil {
			return fmt.Errorf("term %d: %w", i, err)
		}
	}

	for _, targetID := range policy.TargetIDs {
		target, err := s.targetRepo.GetTargetByID(targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return constants.ErrTargetNotFound
		}
	}
	for _, testID := range policy.TestIDs {
		test, err := s.testRepo.GetTestByID(testID)
		if err != nil {
			return err
		}
		if test == nil {
			return constants.ErrTestNotFound
		}
	}
	return nil
}

func (s *PolicyService) validateNestedTerm(policy *model.Policy, term *model.PolicyTerm, i int) error {
	if term.Action != nil || len(term.SourceNetworkIDs) > 0 || len(term.DestinationNetworkIDs) > 0 ||
		len(term.SourceServiceIDs) > 0 || len(term.DestinationServiceIDs) > 0 {
		return constants.Invalid("term %d: a nested term carries no action, networks, or services", i)
	}
	if policy.ID != 0 && *term.NestedPolicyID == policy.ID {
		return constants.ErrCycleDetected
	}
	nested, err := s.policyRepo.GetPolicyByID(*term.NestedPolicyID)
	if err != nil {
		return err
	}
	if nested == nil {
		return constants.ErrPolicyNotFound
	}
	return nil
}

func (s *PolicyService) checkNetworksExist(idSets ...[]int64) error {
	for _, ids := range idSets {
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
	return nil
}

func (s *PolicyService) checkServicesExist(idSets ...[]int64) error {
	for _, ids := range idSets {
		for _, id := range ids {
			service, err := s.serviceRepo.GetServiceByID(id)
			if err != nil {
				return err
			}
			if service == nil {
				return constants.ErrServiceNotFound
			}
		}
	}
	return nil
}

// checkAcyclic rejects an update whose nested terms would close a policy
// nesting cycle.
func (s *PolicyService) checkAcyclic(policy *model.Policy) error {
	usage, err := s.policyRepo.GetPolicyUsage(policy.ID)
	if err != nil {
		return err
	}
	ancestors := make(map[int64]bool, len(usage.PolicyIDs))
	for _, id := range usage.PolicyIDs {
		ancestors[id] = true
	}
	for i := range policy.Terms {
		term := &policy.Terms[i]
		if term.IsNested() && ancestors[*term.NestedPolicyID] {
			return constants.ErrCycleDetected
		}
	}
	return nil
}
