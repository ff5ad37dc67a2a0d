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

package worker

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acl-platform/src/config"
	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/queue"
	"acl-platform/src/internal/repository"
)

// fakeDeploymentStore records every status transition a job drives.
type fakeDeploymentStore struct {
	deployments map[int64]*model.Deployment
	statuses    []string
	lastOutput  string
}

func (r *fakeDeploymentStore) CreateDeployment(d *model.Deployment) error {
	r.deployments[d.ID] = d
	return nil
}

func (r *fakeDeploymentStore) GetDeploymentByID(id int64) (*model.Deployment, error) {
	return r.deployments[id], nil
}

func (r *fakeDeploymentStore) ListDeployments(_, _ *int64, _ *repository.ListOptions) ([]*model.Deployment, error) {
	return nil, nil
}

func (r *fakeDeploymentStore) UpdateDeploymentStatus(id int64, status string, output string) error {
	if d := r.deployments[id]; d != nil {
		d.Status = constants.DeploymentStatus(status)
		d.Output = output
	}
	r.statuses = append(r.statuses, status)
	r.lastOutput = output
	return nil
}

func (r *fakeDeploymentStore) DeleteDeployment(id int64) error {
	delete(r.deployments, id)
	return nil
}

type fakeDeployerStore struct {
	deployers map[int64]*model.Deployer
}

func (r *fakeDeployerStore) CreateDeployer(d *model.Deployer) error          { return nil }
func (r *fakeDeployerStore) GetDeployerByID(id int64) (*model.Deployer, error) {
	return r.deployers[id], nil
}
func (r *fakeDeployerStore) GetDeployerByName(string) (*model.Deployer, error) { return nil, nil }
func (r *fakeDeployerStore) ListDeployers(*repository.ListOptions) ([]*model.Deployer, error) {
	return nil, nil
}
func (r *fakeDeployerStore) ListDeployersByTargetID(int64) ([]*model.Deployer, error) {
	return nil, nil
}
func (r *fakeDeployerStore) UpdateDeployer(*model.Deployer) error { return nil }
func (r *fakeDeployerStore) DeleteDeployer(int64) error           { return nil }

type fakeRevisionStore struct {
	configs map[int64]map[int64]*model.RevisionConfig
}

func (r *fakeRevisionStore) CreateRevision(*model.Revision) error { return nil }
func (r *fakeRevisionStore) GetRevisionByID(int64) (*model.Revision, error) {
	return nil, nil
}
func (r *fakeRevisionStore) ListRevisions(_, _ *int64, _ *repository.ListOptions) ([]*model.Revision, error) {
	return nil, nil
}
func (r *fakeRevisionStore) DeleteRevision(int64) error { return nil }
func (r *fakeRevisionStore) GetRevisionConfig(revisionID, targetID int64) (*model.RevisionConfig, error) {
	return r.configs[revisionID][targetID], nil
}
func (r *fakeRevisionStore) ListRevisionConfigs(int64) ([]model.RevisionConfig, error) {
	return nil, nil
}

type fakeTargetStore struct {
	targets map[int64]*model.Target
}

func (r *fakeTargetStore) CreateTarget(*model.Target) error { return nil }
func (r *fakeTargetStore) GetTargetByID(id int64) (*model.Target, error) {
	return r.targets[id], nil
}
func (r *fakeTargetStore) GetTargetByName(string) (*model.Target, error)        { return nil, nil }
func (r *fakeTargetStore) GetTargetsByIDs([]int64) ([]*model.Target, error)     { return nil, nil }
func (r *fakeTargetStore) ListTargets(*repository.ListOptions) ([]*model.Target, error) {
	return nil, nil
}
func (r *fakeTargetStore) UpdateTarget(*model.Target) error { return nil }
func (r *fakeTargetStore) DeleteTarget(int64) error         { return nil }

// fakeConsumer yields its jobs in order, then cancels the run context.
type fakeConsumer struct {
	jobs   []queue.Job
	cancel context.CancelFunc
}

func (c *fakeConsumer) Dequeue(ctx context.Context) (*queue.Job, error) {
	if len(c.jobs) == 0 {
		c.cancel()
		return nil, ctx.Err()
	}
	job := c.jobs[0]
	c.jobs = c.jobs[1:]
	return &job, nil
}

func (c *fakeConsumer) Close() error { return nil }

func testWorker(consumer queue.Consumer, deployments *fakeDeploymentStore, deployers *fakeDeployerStore) *Worker {
	return New(
		consumer,
		deployments,
		deployers,
		&fakeRevisionStore{configs: map[int64]map[int64]*model.RevisionConfig{
			1: {1: {RevisionID: 1, TargetID: 1, FilterName: "office-edge", Filename: "office-edge.acl", Config: "permit ip any any"}},
		}},
		&fakeTargetStore{targets: map[int64]*model.Target{
			1: {ID: 1, Name: "edge-fw", Generator: "cisco", InetMode: constants.InetModeV4},
		}},
		compiler.NewRegistry(compiler.Profile{Generator: "cisco", Style: "cisco", Extension: "acl"}),
		&config.Server{},
	)
}

func TestProcessRecordsFailureAndLog(t *testing.T) {
	deployments := &fakeDeploymentStore{deployments: map[int64]*model.Deployment{
		1: {ID: 1, DeployerID: 1, RevisionID: 1, Status: constants.DeploymentPending},
	}}
	deployers := &fakeDeployerStore{deployers: map[int64]*model.Deployer{
		1: {ID: 1, Name: "edge", Mode: constants.DeployerMode("carrier-pigeon"), TargetID: 1},
	}}
	w := testWorker(&fakeConsumer{}, deployments, deployers)

	job := queue.Job{ID: "j1", DeploymentID: 1, Mode: constants.DeployerMode("carrier-pigeon")}
	w.process(context.Background(), &job)

	assert.Equal(t, []string{"running", "failed"}, deployments.statuses)
	assert.Equal(t, constants.DeploymentFailed, deployments.deployments[1].Status)
	assert.Contains(t, deployments.lastOutput, "unknown deployer mode")
}

func TestProcessMissingDeployer(t *testing.T) {
	deployments := &fakeDeploymentStore{deployments: map[int64]*model.Deployment{
		2: {ID: 2, DeployerID: 9, RevisionID: 1, Status: constants.DeploymentPending},
	}}
	deployers := &fakeDeployerStore{deployers: map[int64]*model.Deployer{}}
	w := testWorker(&fakeConsumer{}, deployments, deployers)

	job := queue.Job{ID: "j2", DeploymentID: 2, Mode: constants.DeployerModeGit}
	w.process(context.Background(), &job)

	assert.Equal(t, constants.DeploymentFailed, deployments.deployments[2].Status)
	assert.Contains(t, deployments.lastOutput, "deployer not found")
}

func TestRunDrainsQueueUntilCancelled(t *testing.T) {
	deployments := &fakeDeploymentStore{deployments: map[int64]*model.Deployment{
		1: {ID: 1, DeployerID: 1, RevisionID: 1, Status: constants.DeploymentPending},
	}}
	deployers := &fakeDeployerStore{deployers: map[int64]*model.Deployer{
		1: {ID: 1, Name: "edge", Mode: constants.DeployerMode("carrier-pigeon"), TargetID: 1},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := &fakeConsumer{
		jobs:   []queue.Job{{ID: "j1", DeploymentID: 1, Mode: constants.DeployerMode("carrier-pigeon")}},
		cancel: cancel,
	}
	w := testWorker(consumer, deployments, deployers)

	require.NoError(t, w.Run(ctx))
	assert.Empty(t, consumer.jobs)
	assert.Equal(t, constants.DeploymentFailed, deployments.deployments[1].Status)
}

// fakeDeviceSession replies to every command with a fixed device prompt.
type fakeDeviceSession struct {
	prompt string
	sent   []string
}

func (s *fakeDeviceSession) send(command string) (string, error) {
	s.sent = append(s.sent, command)
	return s.prompt, nil
}

func (s *fakeDeviceSession) sendQuiet(string) (string, error)    { return s.prompt, nil }
func (s *fakeDeviceSession) drain(time.Duration) (string, error) { return s.prompt, nil }

func netmikoFixture() (*Worker, *model.DeployerNetmikoConfig, *model.RevisionConfig) {
	w := testWorker(&fakeConsumer{},
		&fakeDeploymentStore{deployments: map[int64]*model.Deployment{}},
		&fakeDeployerStore{deployers: map[int64]*model.Deployer{}})
	cfg := &model.DeployerNetmikoConfig{Host: "10.0.0.9", Username: "svc"}
	rc := &model.RevisionConfig{FilterName: "office-edge", Config: "permit ip any any\ndeny ip any any"}
	return w, cfg, rc
}

func TestNetmikoAbortsOutsideEnableMode(t *testing.T) {
	w, cfg, rc := netmikoFixture()
	shell := &fakeDeviceSession{prompt: "switch>"}

	err := w.runNetmikoSession(log.New(io.Discard, "", 0), shell, cfg,
		compiler.Profile{Generator: "cisco", Style: "cisco", Extension: "acl"}, rc, 1, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not enter enable mode")
	// Only the enable attempt went out; no config reached the device.
	assert.Equal(t, []string{"enable"}, shell.sent)
}

func TestNetmikoPushesConfigInEnableMode(t *testing.T) {
	w, cfg, rc := netmikoFixture()
	shell := &fakeDeviceSession{prompt: "switch#"}

	err := w.runNetmikoSession(log.New(io.Discard, "", 0), shell, cfg,
		compiler.Profile{Generator: "cisco", Style: "cisco", Extension: "acl"}, rc, 1, 1)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"terminal length 0",
		"configure terminal",
		"permit ip any any",
		"deny ip any any",
		"end",
		"write memory",
	}, shell.sent)
}

func TestPrivilegedPrompt(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"switch#", true},
		{"banner text\r\nswitch# ", true},
		{"switch>", false},
		{"switch#\nswitch>", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, privilegedPrompt(tt.output), "output %q", tt.output)
	}
}

func TestConfigFilenameFallback(t *testing.T) {
	assert.Equal(t, "office-edge.nft",
		configFilename(&model.RevisionConfig{FilterName: "office-edge", Filename: "office-edge.nft"}))
	assert.Equal(t, "office-edge.acl",
		configFilename(&model.RevisionConfig{FilterName: "office-edge"}))
}
