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
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// TargetService owns the target aggregate. The generator kind must be one
// the profile registry knows how to render.
type TargetService struct {
	targetRepo   repository.TargetRepository
	deployerRepo repository.DeployerRepository
	registry     *compiler.Registry
}

// NewTargetService creates a new target service
func NewTargetService(
	targetRepo repository.TargetRepository,
	deployerRepo repository.DeployerRepository,
	registry *compiler.Registry,
) *TargetService {
	return &TargetService{targetRepo: targetRepo, deployerRepo: deployerRepo, registry: registry}
}

// CreateTarget validates and persists a new target
func (s *TargetService) CreateTarget(target *model.Target) (*model.Target, error) {
	if _, err := s.registry.Profile(target.Generator); err != nil {
		return nil, err
	}

	existing, err := s.targetRepo.GetTargetByName(target.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrTargetExists
	}

	if err := s.targetRepo.CreateTarget(target); err != nil {
		return nil, err
	}
	return s.GetTargetByID(target.ID)
}

// GetTargetByID retrieves a target with its substitutions
func (s *TargetService) GetTargetByID(id int64) (*model.Target, error) {
	target, err := s.targetRepo.GetTargetByID(id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, constants.ErrTargetNotFound
	}
	return target, nil
}

// ListTargets retrieves targets with filtering and pagination
func (s *TargetService) ListTargets(opts *repository.ListOptions) ([]*model.Target, error) {
	return s.targetRepo.ListTargets(opts)
}

// UpdateTarget validates and persists changes to a target; every policy
// rendered for it is marked edited in the same transaction
func (s *TargetService) UpdateTarget(target *model.Target) (*model.Target, error) {
	if _, err := s.registry.Profile(target.Generator); err != nil {
		return nil, err
	}

	current, err := s.targetRepo.GetTargetByID(target.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrTargetNotFound
	}
	if target.Name != current.Name {
		existing, err := s.targetRepo.GetTargetByName(target.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrTargetExists
		}
	}

	if err := s.targetRepo.UpdateTarget(target); err != nil {
		return nil, err
	}
	return s.GetTargetByID(target.ID)
}

// DeleteTarget removes a target unless deployers still point at it
func (s *TargetService) DeleteTarget(id int64) error {
	target, err := s.targetRepo.GetTargetByID(id)
	if err != nil {
		return err
	}
	if target == nil {
		return constants.ErrTargetNotFound
	}

	deployers, err := s.deployerRepo.ListDeployersByTargetID(id)
	if err != nil {
		return err
	}
	if len(deployers) > 0 {
		return constants.ErrTargetInUse
	}

	return s.targetRepo.DeleteTarget(id)
}

// Generators lists the generator kinds the registry can render.
func (s *TargetService) Generators() []string {
	return s.registry.Generators()
}
