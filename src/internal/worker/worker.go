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

// Package worker drains the deployment queue and pushes rendered configs to
// their destinations. Jobs run one at a time; everything a job logs is
// captured and stored on the deployment row.
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"acl-platform/src/config"
	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/queue"
	"acl-platform/src/internal/repository"
	"acl-platform/src/internal/utils"
)

// Worker consumes deployment jobs and executes them sequentially.
type Worker struct {
	consumer       queue.Consumer
	deploymentRepo repository.DeploymentRepository
	deployerRepo   repository.DeployerRepository
	revisionRepo   repository.RevisionRepository
	targetRepo     repository.TargetRepository
	registry       *compiler.Registry
	cfg            *config.Server
}

// New creates a worker bound to a queue consumer.
func New(
	consumer queue.Consumer,
	deploymentRepo repository.DeploymentRepository,
	deployerRepo repository.DeployerRepository,
	revisionRepo repository.RevisionRepository,
	targetRepo repository.TargetRepository,
	registry *compiler.Registry,
	cfg *config.Server,
) *Worker {
	return &Worker{
		consumer:       consumer,
		deploymentRepo: deploymentRepo,
		deployerRepo:   deployerRepo,
		revisionRepo:   revisionRepo,
		targetRepo:     targetRepo,
		registry:       registry,
		cfg:            cfg,
	}
}

// Run blocks on the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		job, err := w.consumer.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			utils.LogError("Failed to dequeue deployment job", err)
			continue
		}
		w.process(ctx, job)
	}
}

// process runs one job. The job's log is buffered and stored on the
// deployment together with its final status.
func (w *Worker) process(ctx context.Context, job *queue.Job) {
	utils.LogInfo(fmt.Sprintf("Processing deployment job %s (deployment %d)", job.ID, job.DeploymentID))

	var buf bytes.Buffer
	logger := log.New(&buf, "", log.LstdFlags)

	if err := w.deploymentRepo.UpdateDeploymentStatus(job.DeploymentID, string(constants.DeploymentRunning), ""); err != nil {
		utils.LogError("Failed to mark deployment running", err)
		return
	}

	err := w.execute(ctx, job, logger)
	status := constants.DeploymentCompleted
	if err != nil {
		logger.Printf("deployment failed: %v", err)
		status = constants.DeploymentFailed
	}
	if err := w.deploymentRepo.UpdateDeploymentStatus(job.DeploymentID, string(status), buf.String()); err != nil {
		utils.LogError("Failed to store deployment result", err)
	}
}

// execute loads the deployment's object graph and dispatches on the
// deployer mode.
func (w *Worker) execute(ctx context.Context, job *queue.Job, logger *log.Logger) error {
	deployment, err := w.deploymentRepo.GetDeploymentByID(job.DeploymentID)
	if err != nil {
		return err
	}
	if deployment == nil {
		return constants.ErrDeploymentNotFound
	}
	deployer, err := w.deployerRepo.GetDeployerByID(deployment.DeployerID)
	if err != nil {
		return err
	}
	if deployer == nil {
		return constants.ErrDeployerNotFound
	}
	revisionConfig, err := w.revisionRepo.GetRevisionConfig(deployment.RevisionID, deployer.TargetID)
	if err != nil {
		return err
	}
	if revisionConfig == nil {
		return constants.ErrRevisionConfigNotFound
	}

	switch deployer.Mode {
	case constants.DeployerModeGit:
		return w.deployGit(ctx, logger, deployer.Git, revisionConfig, deployment.RevisionID)
	case constants.DeployerModeNetmiko:
		return w.deployNetmiko(logger, deployer, revisionConfig, deployment.RevisionID)
	case constants.DeployerModeProxmoxNft:
		return w.deployProxmoxNft(logger, deployer.ProxmoxNft, revisionConfig)
	default:
		return fmt.Errorf("unknown deployer mode %q", deployer.Mode)
	}
}

// profileFor resolves the renderer profile behind a deployer's target; the
// netmiko path needs its device kind and copy capability.
func (w *Worker) profileFor(targetID int64) (compiler.Profile, error) {
	target, err := w.targetRepo.GetTargetByID(targetID)
	if err != nil {
		return compiler.Profile{}, err
	}
	if target == nil {
		return compiler.Profile{}, constants.ErrTargetNotFound
	}
	return w.registry.Profile(target.Generator)
}

func configFilename(rc *model.RevisionConfig) string {
	if rc.Filename != "" {
		return rc.Filename
	}
	return rc.FilterName + ".acl"
}
