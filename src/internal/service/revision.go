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
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
	"acl-platform/src/internal/utils"
)

// CoverageError carries the actual coverage behind the revision gate so
// the API can report how far short the tests fell.
type CoverageError struct {
	Coverage float64
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("Test coverage %d%% is lower than the required 100%%", int(math.Round(e.Coverage*100)))
}

// Is lets errors.Is match the insufficient-coverage sentinel.
func (e *CoverageError) Is(target error) bool {
	return target == constants.ErrInsufficientCoverage
}

// RevisionService freezes policies into immutable revisions: it gates on
// test coverage, snapshots the source and its expanded terms as JSON, and
// renders one config per associated target.
type RevisionService struct {
	revisionRepo      repository.RevisionRepository
	policyRepo        repository.PolicyRepository
	dynamicPolicyRepo repository.DynamicPolicyRepository
	networkRepo       repository.NetworkRepository
	serviceRepo       repository.ServiceRepository
	targetRepo        repository.TargetRepository
	runner            *TestRunner
	resolver          *Resolver
	compiler          *compiler.Compiler
}

// NewRevisionService creates a new revision service
func NewRevisionService(
	revisionRepo repository.RevisionRepository,
	policyRepo repository.PolicyRepository,
	dynamicPolicyRepo repository.DynamicPolicyRepository,
	networkRepo repository.NetworkRepository,
	serviceRepo repository.ServiceRepository,
	targetRepo repository.TargetRepository,
	runner *TestRunner,
	resolver *Resolver,
	comp *compiler.Compiler,
) *RevisionService {
	return &RevisionService{
		revisionRepo:      revisionRepo,
		policyRepo:        policyRepo,
		dynamicPolicyRepo: dynamicPolicyRepo,
		networkRepo:       networkRepo,
		serviceRepo:       serviceRepo,
		targetRepo:        targetRepo,
		runner:            runner,
		resolver:          resolver,
		compiler:          comp,
	}
}

// CreateRevision gates on coverage, freezes the snapshots, and renders a
// config per target. The edited flag on the source clears in the same
// transaction that persists the revision.
func (s *RevisionService) CreateRevision(revision *model.Revision) (*model.Revision, error) {
	if (revision.PolicyID == nil) == (revision.DynamicPolicyID == nil) {
		return nil, constants.Invalid("exactly one of policy and dynamic policy is required")
	}

	var (
		terms         []model.PolicyTerm
		snapshot      any
		name          string
		customHeader  string
		defaultAction *constants.DefaultAction
		targetIDs     []int64
		gateErr       error
	)
	if revision.PolicyID != nil {
		policy, err := s.policyRepo.GetPolicyByID(*revision.PolicyID)
		if err != nil {
			return nil, err
		}
		if policy == nil {
			return nil, constants.ErrPolicyNotFound
		}
		terms, err = s.runner.expandedPolicyTerms(policy)
		if err != nil {
			return nil, err
		}
		gateErr = s.gate(terms, policy.TestIDs)
		snapshot, name, customHeader, targetIDs = policy, policy.Name, policy.CustomHeader, policy.TargetIDs
	} else {
		dp, err := s.dynamicPolicyRepo.GetDynamicPolicyByID(*revision.DynamicPolicyID)
		if err != nil {
			return nil, err
		}
		if dp == nil {
			return nil, constants.ErrDynamicPolicyNotFound
		}
		terms, err = s.resolver.ResolveTerms(dp)
		if err != nil {
			return nil, err
		}
		gateErr = s.gate(terms, dp.TestIDs)
		snapshot, name, defaultAction, targetIDs = dp, dp.Name, dp.DefaultAction, dp.TargetIDs
	}
	if gateErr != nil {
		return nil, gateErr
	}

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	termsJSON, err := json.Marshal(terms)
	if err != nil {
		return nil, err
	}
	revision.JSONData = string(snapshotJSON)
	revision.ExpandedTerms = string(termsJSON)

	networks, services, err := s.runner.objectGraph()
	if err != nil {
		return nil, err
	}
	targets, err := s.targetRepo.GetTargetsByIDs(targetIDs)
	if err != nil {
		return nil, err
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].ID < targets[j].ID })

	revision.Configs = revision.Configs[:0]
	for _, target := range targets {
		artifact, err := s.compiler.Compile(&compiler.Request{
			Name:          name,
			CustomHeader:  customHeader,
			Terms:         terms,
			Target:        target,
			DefaultAction: defaultAction,
			Networks:      networks,
			Services:      services,
		})
		if err != nil {
			return nil, err
		}
		revision.Configs = append(revision.Configs, model.RevisionConfig{
			TargetID:   target.ID,
			FilterName: artifact.FilterName,
			Filename:   artifact.Filename,
			Config:     artifact.Config,
		})
	}

	if err := s.revisionRepo.CreateRevision(revision); err != nil {
		return nil, err
	}
	return s.GetRevisionByID(revision.ID)
}

// gate runs the attached tests and refuses anything short of full coverage.
func (s *RevisionService) gate(terms []model.PolicyTerm, testIDs []int64) error {
	report, err := s.runner.run(terms, testIDs)
	if err != nil {
		return err
	}
	if report.Coverage < 1.0 {
		return &CoverageError{Coverage: report.Coverage}
	}
	return nil
}

// GetRevisionByID retrieves a revision with its configs
func (s *RevisionService) GetRevisionByID(id int64) (*model.Revision, error) {
	revision, err := s.revisionRepo.GetRevisionByID(id)
	if err != nil {
		return nil, err
	}
	if revision == nil {
		return nil, constants.ErrRevisionNotFound
	}
	return revision, nil
}

// ListRevisions retrieves revision briefs, optionally scoped to one source
// policy or dynamic policy
func (s *RevisionService) ListRevisions(policyID, dynamicPolicyID *int64, opts *repository.ListOptions) ([]*model.Revision, error) {
	return s.revisionRepo.ListRevisions(policyID, dynamicPolicyID, opts)
}

// UpdateRevision always fails: revisions are immutable once created.
func (s *RevisionService) UpdateRevision(id int64) error {
	revision, err := s.revisionRepo.GetRevisionByID(id)
	if err != nil {
		return err
	}
	if revision == nil {
		return constants.ErrRevisionNotFound
	}
	return constants.ErrRevisionImmutable
}

// DeleteRevision removes a revision, its configs, and its deployments
func (s *RevisionService) DeleteRevision(id int64) error {
	revision, err := s.revisionRepo.GetRevisionByID(id)
	if err != nil {
		return err
	}
	if revision == nil {
		return constants.ErrRevisionNotFound
	}
	return s.revisionRepo.DeleteRevision(id)
}

// RawConfig returns the stored config text for one target verbatim.
func (s *RevisionService) RawConfig(revisionID, targetID int64) (*model.RevisionConfig, error) {
	if _, err := s.GetRevisionByID(revisionID); err != nil {
		return nil, err
	}
	config, err := s.revisionRepo.GetRevisionConfig(revisionID, targetID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, constants.ErrRevisionConfigNotFound
	}
	return config, nil
}

// RawConfigByHash returns the stored text only when the caller's content
// hash matches; device-side fetch URLs pin the hash so a stale URL cannot
// deliver a different config.
func (s *RevisionService) RawConfigByHash(revisionID, targetID int64, hash string) (*model.RevisionConfig, error) {
	config, err := s.RawConfig(revisionID, targetID)
	if err != nil {
		return nil, err
	}
	if utils.ConfigHash(config.Config) != hash {
		return nil, constants.ErrRevisionHashMismatch
	}
	return config, nil
}
