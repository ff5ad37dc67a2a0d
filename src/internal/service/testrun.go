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
	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/dto"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// TestRunner classifies every attached test case against a policy's
// expanded terms and computes the coverage ratio used as the revision gate.
type TestRunner struct {
	networkRepo       repository.NetworkRepository
	serviceRepo       repository.ServiceRepository
	policyRepo        repository.PolicyRepository
	dynamicPolicyRepo repository.DynamicPolicyRepository
	testRepo          repository.TestRepository
	resolver          *Resolver
}

// NewTestRunner creates a new test runner
func NewTestRunner(
	networkRepo repository.NetworkRepository,
	serviceRepo repository.ServiceRepository,
	policyRepo repository.PolicyRepository,
	dynamicPolicyRepo repository.DynamicPolicyRepository,
	testRepo repository.TestRepository,
	resolver *Resolver,
) *TestRunner {
	return &TestRunner{
		networkRepo:       networkRepo,
		serviceRepo:       serviceRepo,
		policyRepo:        policyRepo,
		dynamicPolicyRepo: dynamicPolicyRepo,
		testRepo:          testRepo,
		resolver:          resolver,
	}
}

// RunPolicyTests expands a policy and runs its attached tests.
func (s *TestRunner) RunPolicyTests(policyID int64) (*dto.TestReport, error) {
	policy, err := s.policyRepo.GetPolicyByID(policyID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, constants.ErrPolicyNotFound
	}
	terms, err := s.expandedPolicyTerms(policy)
	if err != nil {
		return nil, err
	}
	return s.run(terms, policy.TestIDs)
}

// RunDynamicPolicyTests resolves a dynamic policy and runs its attached
// tests.
func (s *TestRunner) RunDynamicPolicyTests(dynamicPolicyID int64) (*dto.TestReport, error) {
	dp, err := s.dynamicPolicyRepo.GetDynamicPolicyByID(dynamicPolicyID)
	if err != nil {
		return nil, err
	}
	if dp == nil {
		return nil, constants.ErrDynamicPolicyNotFound
	}
	terms, err := s.resolver.ResolveTerms(dp)
	if err != nil {
		return nil, err
	}
	return s.run(terms, dp.TestIDs)
}

// expandedPolicyTerms splices nested policies into the term list.
func (s *TestRunner) expandedPolicyTerms(policy *model.Policy) ([]model.PolicyTerm, error) {
	all, err := s.policyRepo.ListPolicies(nil)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]*model.Policy, len(all))
	for _, p := range all {
		index[p.ID] = p
	}
	return compiler.Expand(policy.Terms, index)
}

// run classifies every case of every attached test. A case passes when a
// term matches and its action equals the expected action. Coverage is the
// share of enabled expanded terms selected by at least one passing case.
func (s *TestRunner) run(terms []model.PolicyTerm, testIDs []int64) (*dto.TestReport, error) {
	networks, services, err := s.objectGraph()
	if err != nil {
		return nil, err
	}
	classifier := compiler.NewClassifier(networks, services)

	report := &dto.TestReport{Tests: []dto.TestCaseResult{}, NotMatchedTerms: []string{}}
	matchedTerms := make(map[string]bool)
	for _, testID := range testIDs {
		test, err := s.testRepo.GetTestByID(testID)
		if err != nil {
			return nil, err
		}
		if test == nil {
			return nil, constants.ErrTestNotFound
		}
		for i := range test.Cases {
			c := test.Cases[i]
			match, err := classifier.Classify(terms, probeFor(&c))
			if err != nil {
				return nil, err
			}
			result := dto.TestCaseResult{Case: c}
			if match != nil {
				result.MatchedTerm = match.TermName
				result.Passed = match.Action == c.ExpectedAction
			}
			if result.Passed {
				matchedTerms[match.TermName] = true
			}
			report.Tests = append(report.Tests, result)
		}
	}

	enabled := 0
	for i := range terms {
		term := &terms[i]
		if term.IsNested() || !term.Enabled {
			continue
		}
		enabled++
		if !matchedTerms[term.ValidName()] {
			report.NotMatchedTerms = append(report.NotMatchedTerms, term.ValidName())
		}
	}
	if enabled > 0 {
		report.Coverage = float64(len(matchedTerms)) / float64(enabled)
	}
	return report, nil
}

func (s *TestRunner) objectGraph() (map[int64]*model.Network, map[int64]*model.Service, error) {
	networks, err := s.networkRepo.ListNetworks(nil)
	if err != nil {
		return nil, nil, err
	}
	services, err := s.serviceRepo.ListServices(nil)
	if err != nil {
		return nil, nil, err
	}
	networkIndex := make(map[int64]*model.Network, len(networks))
	for _, n := range networks {
		networkIndex[n.ID] = n
	}
	serviceIndex := make(map[int64]*model.Service, len(services))
	for _, svc := range services {
		serviceIndex[svc.ID] = svc
	}
	return networkIndex, serviceIndex, nil
}

func probeFor(c *model.TestCase) compiler.Probe {
	return compiler.Probe{
		Source:          orWildcard(c.SourceNetwork),
		Destination:     orWildcard(c.DestinationNetwork),
		SourcePort:      orWildcard(c.SourcePort),
		DestinationPort: orWildcard(c.DestinationPort),
		Protocol:        orWildcard(c.Protocol),
	}
}

func orWildcard(v string) string {
	if v == "" {
		return model.Wildcard
	}
	return v
}
