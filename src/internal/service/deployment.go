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
	"context"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/queue"
	"acl-platform/src/internal/repository"
	"acl-platform/src/internal/utils"
)

// DeploymentService fans a revision out to every deployer of every target
// it was rendered for, and exposes read access to deployment logs.
type DeploymentService struct {
	deploymentRepo repository.DeploymentRepository
	deployerRepo   repository.DeployerRepository
	revisionRepo   repository.RevisionRepository
	producer       queue.Producer
}

// NewDeploymentService creates a new deployment service
func NewDeploymentService(
	deploymentRepo repository.DeploymentRepository,
	deployerRepo repository.DeployerRepository,
	revisionRepo repository.RevisionRepository,
	producer queue.Producer,
) *DeploymentService {
	return &DeploymentService{
		deploymentRepo: deploymentRepo,
		deployerRepo:   deployerRepo,
		revisionRepo:   revisionRepo,
		producer:       producer,
	}
}

// Deploy creates one pending deployment per (revision config, deployer)
// pair and enqueues a job for each. Configs are walked in target-id order,
// matching the order they were rendered in.
func (s *DeploymentService) Deploy(ctx context.Context, revisionID int64) ([]*model.Deployment, error) {
	revision, err := s.revisionRepo.GetRevisionByID(revisionID)
	if err != nil {
		return nil, err
	}
	if revision == nil {
		return nil, constants.ErrRevisionNotFound
	}

	var deployments []*model.Deployment
	for i := range revision.Configs {
		cfg := &revision.Configs[i]
		deployers, err := s.deployerRepo.ListDeployersByTargetID(cfg.TargetID)
		if err != nil {
			return nil, err
		}
		for _, deployer := range deployers {
			deployment := &model.Deployment{
				DeployerID: deployer.ID,
				RevisionID: revisionID,
				Status:     constants.DeploymentPending,
			}
			if err := s.deploymentRepo.CreateDeployment(deployment); err != nil {
				return nil, err
			}
			job := queue.NewJob(deployment.ID, deployer.Mode)
			if err := s.producer.Enqueue(ctx, job); err != nil {
				// The row stays pending and visible; the enqueue failure is
				// surfaced to the caller.
				utils.LogError("Failed to enqueue deployment job", err)
				return nil, err
			}
			deployments = append(deployments, deployment)
		}
	}
	if len(deployments) == 0 {
		return nil, constants.ErrNoDeployers
	}
	return deployments, nil
}

// GetDeploymentByID retrieves a deployment with its captured log
func (s *DeploymentService) GetDeploymentByID(id int64) (*model.Deployment, error) {
	deployment, err := s.deploymentRepo.GetDeploymentByID(id)
	if err != nil {
		return nil, err
	}
	if deployment == nil {
		return nil, constants.ErrDeploymentNotFound
	}
	return deployment, nil
}

// ListDeployments retrieves deployments, optionally scoped to a revision or
// deployer
func (s *DeploymentService) ListDeployments(revisionID, deployerID *int64, opts *repository.ListOptions) ([]*model.Deployment, error) {
	return s.deploymentRepo.ListDeployments(revisionID, deployerID, opts)
}

// DeleteDeployment removes a deployment record
func (s *DeploymentService) DeleteDeployment(id int64) error {
	deployment, err := s.deploymentRepo.GetDeploymentByID(id)
	if err != nil {
		return err
	}
	if deployment == nil {
		return constants.ErrDeploymentNotFound
	}
	return s.deploymentRepo.DeleteDeployment(id)
}
