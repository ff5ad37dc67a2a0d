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
	"sort"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/queue"
	"acl-platform/src/internal/repository"
)

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func actionPtr(a constants.PolicyAction) *constants.PolicyAction { return &a }

// fakeNetworkRepo is an in-memory NetworkRepository.
type fakeNetworkRepo struct {
	networks map[int64]*model.Network
	nextID   int64
}

func newFakeNetworkRepo(networks ...*model.Network) *fakeNetworkRepo {
	r := &fakeNetworkRepo{networks: make(map[int64]*model.Network), nextID: 1}
	for _, n := range networks {
		r.networks[n.ID] = n
		if n.ID >= r.nextID {
			r.nextID = n.ID + 1
		}
	}
	return r
}

func (r *fakeNetworkRepo) CreateNetwork(network *model.Network) error {
	network.ID = r.nextID
	r.nextID++
	r.networks[network.ID] = network
	return nil
}

func (r *fakeNetworkRepo) GetNetworkByID(id int64) (*model.Network, error) {
	return r.networks[id], nil
}

func (r *fakeNetworkRepo) GetNetworkByName(name string) (*model.Network, error) {
	for _, n := range r.networks {
		if n.Name == name {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNetworkRepo) GetNetworksByIDs(ids []int64) ([]*model.Network, error) {
	var out []*model.Network
	for _, id := range ids {
		if n, ok := r.networks[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNetworkRepo) ListNetworks(*repository.ListOptions) ([]*model.Network, error) {
	ids := make([]int64, 0, len(r.networks))
	for id := range r.networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Network, len(ids))
	for i, id := range ids {
		out[i] = r.networks[id]
	}
	return out, nil
}

func (r *fakeNetworkRepo) UpdateNetwork(network *model.Network) error {
	r.networks[network.ID] = network
	return nil
}

func (r *fakeNetworkRepo) DeleteNetwork(id int64) error {
	delete(r.networks, id)
	return nil
}

func (r *fakeNetworkRepo) GetNetworkUsage(int64) (*model.Usage, error) {
	return &model.Usage{}, nil
}

func (r *fakeNetworkRepo) ListLeafAddresses() ([]model.NetworkAddress, error) {
	var out []model.NetworkAddress
	networks, _ := r.ListNetworks(nil)
	for _, n := range networks {
		for _, addr := range n.Addresses {
			if !addr.IsNested() {
				out = append(out, addr)
			}
		}
	}
	return out, nil
}

func (r *fakeNetworkRepo) ListNestedAddresses() ([]model.NetworkAddress, error) {
	var out []model.NetworkAddress
	networks, _ := r.ListNetworks(nil)
	for _, n := range networks {
		for _, addr := range n.Addresses {
			if addr.IsNested() {
				out = append(out, addr)
			}
		}
	}
	return out, nil
}

// fakePolicyRepo is an in-memory PolicyRepository.
type fakePolicyRepo struct {
	policies map[int64]*model.Policy
	nextID   int64
}

func newFakePolicyRepo(policies ...*model.Policy) *fakePolicyRepo {
	r := &fakePolicyRepo{policies: make(map[int64]*model.Policy), nextID: 1}
	for _, p := range policies {
		r.policies[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakePolicyRepo) CreatePolicy(policy *model.Policy) error {
	policy.ID = r.nextID
	r.nextID++
	r.policies[policy.ID] = policy
	return nil
}

func (r *fakePolicyRepo) GetPolicyByID(id int64) (*model.Policy, error) {
	return r.policies[id], nil
}

func (r *fakePolicyRepo) GetPolicyByName(name string) (*model.Policy, error) {
	for _, p := range r.policies {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePolicyRepo) GetPoliciesByIDs(ids []int64) ([]*model.Policy, error) {
	var out []*model.Policy
	for _, id := range ids {
		if p, ok := r.policies[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePolicyRepo) ListPolicies(*repository.ListOptions) ([]*model.Policy, error) {
	ids := make([]int64, 0, len(r.policies))
	for id := range r.policies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Policy, len(ids))
	for i, id := range ids {
		out[i] = r.policies[id]
	}
	return out, nil
}

func (r *fakePolicyRepo) UpdatePolicy(policy *model.Policy) error {
	r.policies[policy.ID] = policy
	return nil
}

func (r *fakePolicyRepo) DeletePolicy(id int64) error {
	delete(r.policies, id)
	return nil
}

func (r *fakePolicyRepo) GetPolicyUsage(int64) (*model.Usage, error) {
	return &model.Usage{}, nil
}

// fakeServiceRepo is an in-memory ServiceRepository.
type fakeServiceRepo struct {
	services map[int64]*model.Service
}

func newFakeServiceRepo(services ...*model.Service) *fakeServiceRepo {
	r := &fakeServiceRepo{services: make(map[int64]*model.Service)}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *fakeServiceRepo) CreateService(service *model.Service) error {
	r.services[service.ID] = service
	return nil
}

func (r *fakeServiceRepo) GetServiceByID(id int64) (*model.Service, error) {
	return r.services[id], nil
}

func (r *fakeServiceRepo) GetServiceByName(name string) (*model.Service, error) {
	for _, s := range r.services {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeServiceRepo) GetServicesByIDs(ids []int64) ([]*model.Service, error) {
	var out []*model.Service
	for _, id := range ids {
		if s, ok := r.services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeServiceRepo) ListServices(*repository.ListOptions) ([]*model.Service, error) {
	ids := make([]int64, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Service, len(ids))
	for i, id := range ids {
		out[i] = r.services[id]
	}
	return out, nil
}

func (r *fakeServiceRepo) UpdateService(service *model.Service) error {
	r.services[service.ID] = service
	return nil
}

func (r *fakeServiceRepo) DeleteService(id int64) error {
	delete(r.services, id)
	return nil
}

func (r *fakeServiceRepo) GetServiceUsage(int64) (*model.Usage, error) {
	return &model.Usage{}, nil
}

// fakeTestRepo is an in-memory TestRepository.
type fakeTestRepo struct {
	tests map[int64]*model.Test
}

func newFakeTestRepo(tests ...*model.Test) *fakeTestRepo {
	r := &fakeTestRepo{tests: make(map[int64]*model.Test)}
	for _, t := range tests {
		r.tests[t.ID] = t
	}
	return r
}

func (r *fakeTestRepo) CreateTest(test *model.Test) error {
	r.tests[test.ID] = test
	return nil
}

func (r *fakeTestRepo) GetTestByID(id int64) (*model.Test, error) {
	return r.tests[id], nil
}

func (r *fakeTestRepo) GetTestByName(name string) (*model.Test, error) {
	for _, t := range r.tests {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTestRepo) GetTestsByIDs(ids []int64) ([]*model.Test, error) {
	var out []*model.Test
	for _, id := range ids {
		if t, ok := r.tests[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTestRepo) ListTests(*repository.ListOptions) ([]*model.Test, error) {
	var out []*model.Test
	for _, t := range r.tests {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTestRepo) UpdateTest(test *model.Test) error {
	r.tests[test.ID] = test
	return nil
}

func (r *fakeTestRepo) DeleteTest(id int64) error {
	delete(r.tests, id)
	return nil
}

func (r *fakeTestRepo) CreateTestCase(testCase *model.TestCase) error {
	t := r.tests[testCase.TestID]
	t.Cases = append(t.Cases, *testCase)
	return nil
}

func (r *fakeTestRepo) GetTestCaseByID(testID, caseID int64) (*model.TestCase, error) {
	t := r.tests[testID]
	if t == nil {
		return nil, nil
	}
	for i := range t.Cases {
		if t.Cases[i].ID == caseID {
			return &t.Cases[i], nil
		}
	}
	return nil, nil
}

func (r *fakeTestRepo) ListTestCases(testID int64) ([]model.TestCase, error) {
	if t := r.tests[testID]; t != nil {
		return t.Cases, nil
	}
	return nil, nil
}

func (r *fakeTestRepo) UpdateTestCase(testCase *model.TestCase) error {
	t := r.tests[testCase.TestID]
	for i := range t.Cases {
		if t.Cases[i].ID == testCase.ID {
			t.Cases[i] = *testCase
		}
	}
	return nil
}

func (r *fakeTestRepo) DeleteTestCase(testID, caseID int64) error {
	t := r.tests[testID]
	for i := range t.Cases {
		if t.Cases[i].ID == caseID {
			t.Cases = append(t.Cases[:i], t.Cases[i+1:]...)
			break
		}
	}
	return nil
}

// fakeDeployerRepo is an in-memory DeployerRepository.
type fakeDeployerRepo struct {
	deployers map[int64]*model.Deployer
}

func newFakeDeployerRepo(deployers ...*model.Deployer) *fakeDeployerRepo {
	r := &fakeDeployerRepo{deployers: make(map[int64]*model.Deployer)}
	for _, d := range deployers {
		r.deployers[d.ID] = d
	}
	return r
}

func (r *fakeDeployerRepo) CreateDeployer(deployer *model.Deployer) error {
	r.deployers[deployer.ID] = deployer
	return nil
}

func (r *fakeDeployerRepo) GetDeployerByID(id int64) (*model.Deployer, error) {
	return r.deployers[id], nil
}

func (r *fakeDeployerRepo) GetDeployerByName(name string) (*model.Deployer, error) {
	for _, d := range r.deployers {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDeployerRepo) ListDeployers(*repository.ListOptions) ([]*model.Deployer, error) {
	var out []*model.Deployer
	for _, d := range r.deployers {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDeployerRepo) ListDeployersByTargetID(targetID int64) ([]*model.Deployer, error) {
	ids := make([]int64, 0, len(r.deployers))
	for id := range r.deployers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []*model.Deployer
	for _, id := range ids {
		if r.deployers[id].TargetID == targetID {
			out = append(out, r.deployers[id])
		}
	}
	return out, nil
}

func (r *fakeDeployerRepo) UpdateDeployer(deployer *model.Deployer) error {
	r.deployers[deployer.ID] = deployer
	return nil
}

func (r *fakeDeployerRepo) DeleteDeployer(id int64) error {
	delete(r.deployers, id)
	return nil
}

// fakeDeploymentRepo is an in-memory DeploymentRepository.
type fakeDeploymentRepo struct {
	deployments map[int64]*model.Deployment
	nextID      int64
}

func newFakeDeploymentRepo() *fakeDeploymentRepo {
	return &fakeDeploymentRepo{deployments: make(map[int64]*model.Deployment), nextID: 1}
}

func (r *fakeDeploymentRepo) CreateDeployment(deployment *model.Deployment) error {
	deployment.ID = r.nextID
	r.nextID++
	r.deployments[deployment.ID] = deployment
	return nil
}

func (r *fakeDeploymentRepo) GetDeploymentByID(id int64) (*model.Deployment, error) {
	return r.deployments[id], nil
}

func (r *fakeDeploymentRepo) ListDeployments(revisionID, deployerID *int64, _ *repository.ListOptions) ([]*model.Deployment, error) {
	var out []*model.Deployment
	for _, d := range r.deployments {
		if revisionID != nil && d.RevisionID != *revisionID {
			continue
		}
		if deployerID != nil && d.DeployerID != *deployerID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDeploymentRepo) UpdateDeploymentStatus(id int64, status string, output string) error {
	d := r.deployments[id]
	d.Status = constants.DeploymentStatus(status)
	d.Output = output
	return nil
}

func (r *fakeDeploymentRepo) DeleteDeployment(id int64) error {
	delete(r.deployments, id)
	return nil
}

// fakeRevisionRepo is an in-memory RevisionRepository.
type fakeRevisionRepo struct {
	revisions map[int64]*model.Revision
	nextID    int64
}

func newFakeRevisionRepo(revisions ...*model.Revision) *fakeRevisionRepo {
	r := &fakeRevisionRepo{revisions: make(map[int64]*model.Revision), nextID: 1}
	for _, rev := range revisions {
		r.revisions[rev.ID] = rev
		if rev.ID >= r.nextID {
			r.nextID = rev.ID + 1
		}
	}
	return r
}

func (r *fakeRevisionRepo) CreateRevision(revision *model.Revision) error {
	revision.ID = r.nextID
	r.nextID++
	for i := range revision.Configs {
		revision.Configs[i].RevisionID = revision.ID
	}
	r.revisions[revision.ID] = revision
	return nil
}

func (r *fakeRevisionRepo) GetRevisionByID(id int64) (*model.Revision, error) {
	return r.revisions[id], nil
}

func (r *fakeRevisionRepo) ListRevisions(policyID, dynamicPolicyID *int64, _ *repository.ListOptions) ([]*model.Revision, error) {
	var out []*model.Revision
	for _, rev := range r.revisions {
		if policyID != nil && (rev.PolicyID == nil || *rev.PolicyID != *policyID) {
			continue
		}
		if dynamicPolicyID != nil && (rev.DynamicPolicyID == nil || *rev.DynamicPolicyID != *dynamicPolicyID) {
			continue
		}
		out = append(out, rev)
	}
	return out, nil
}

func (r *fakeRevisionRepo) DeleteRevision(id int64) error {
	delete(r.revisions, id)
	return nil
}

func (r *fakeRevisionRepo) GetRevisionConfig(revisionID, targetID int64) (*model.RevisionConfig, error) {
	rev := r.revisions[revisionID]
	if rev == nil {
		return nil, nil
	}
	for i := range rev.Configs {
		if rev.Configs[i].TargetID == targetID {
			return &rev.Configs[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRevisionRepo) ListRevisionConfigs(revisionID int64) ([]model.RevisionConfig, error) {
	if rev := r.revisions[revisionID]; rev != nil {
		return rev.Configs, nil
	}
	return nil, nil
}

// fakeTargetRepo is an in-memory TargetRepository.
type fakeTargetRepo struct {
	targets map[int64]*model.Target
	nextID  int64
}

func newFakeTargetRepo(targets ...*model.Target) *fakeTargetRepo {
	r := &fakeTargetRepo{targets: make(map[int64]*model.Target), nextID: 1}
	for _, t := range targets {
		r.targets[t.ID] = t
		if t.ID >= r.nextID {
			r.nextID = t.ID + 1
		}
	}
	return r
}

func (r *fakeTargetRepo) CreateTarget(target *model.Target) error {
	target.ID = r.nextID
	r.nextID++
	r.targets[target.ID] = target
	return nil
}

func (r *fakeTargetRepo) GetTargetByID(id int64) (*model.Target, error) {
	return r.targets[id], nil
}

func (r *fakeTargetRepo) GetTargetByName(name string) (*model.Target, error) {
	for _, t := range r.targets {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTargetRepo) GetTargetsByIDs(ids []int64) ([]*model.Target, error) {
	var out []*model.Target
	for _, id := range ids {
		if t, ok := r.targets[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTargetRepo) ListTargets(*repository.ListOptions) ([]*model.Target, error) {
	ids := make([]int64, 0, len(r.targets))
	for id := range r.targets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Target, len(ids))
	for i, id := range ids {
		out[i] = r.targets[id]
	}
	return out, nil
}

func (r *fakeTargetRepo) UpdateTarget(target *model.Target) error {
	r.targets[target.ID] = target
	return nil
}

func (r *fakeTargetRepo) DeleteTarget(id int64) error {
	delete(r.targets, id)
	return nil
}

// fakeDynamicPolicyRepo is an in-memory DynamicPolicyRepository.
type fakeDynamicPolicyRepo struct {
	policies map[int64]*model.DynamicPolicy
	nextID   int64
}

func newFakeDynamicPolicyRepo(policies ...*model.DynamicPolicy) *fakeDynamicPolicyRepo {
	r := &fakeDynamicPolicyRepo{policies: make(map[int64]*model.DynamicPolicy), nextID: 1}
	for _, p := range policies {
		r.policies[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeDynamicPolicyRepo) CreateDynamicPolicy(policy *model.DynamicPolicy) error {
	policy.ID = r.nextID
	r.nextID++
	r.policies[policy.ID] = policy
	return nil
}

func (r *fakeDynamicPolicyRepo) GetDynamicPolicyByID(id int64) (*model.DynamicPolicy, error) {
	return r.policies[id], nil
}

func (r *fakeDynamicPolicyRepo) GetDynamicPolicyByName(name string) (*model.DynamicPolicy, error) {
	for _, p := range r.policies {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeDynamicPolicyRepo) ListDynamicPolicies(*repository.ListOptions) ([]*model.DynamicPolicy, error) {
	ids := make([]int64, 0, len(r.policies))
	for id := range r.policies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.DynamicPolicy, len(ids))
	for i, id := range ids {
		out[i] = r.policies[id]
	}
	return out, nil
}

func (r *fakeDynamicPolicyRepo) UpdateDynamicPolicy(policy *model.DynamicPolicy) error {
	r.policies[policy.ID] = policy
	return nil
}

func (r *fakeDynamicPolicyRepo) DeleteDynamicPolicy(id int64) error {
	delete(r.policies, id)
	return nil
}

// fakeProducer records enqueued jobs.
type fakeProducer struct {
	jobs []queue.Job
	err  error
}

func (p *fakeProducer) Enqueue(_ context.Context, job queue.Job) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}
