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

package repository

import (
	"acl-platform/src/internal/model"
)

// NetworkRepository defines the interface for network data access
type NetworkRepository interface {
	CreateNetwork(network *model.Network) error
	GetNetworkByID(id int64) (*model.Network, error)
	GetNetworkByName(name string) (*model.Network, error)
	GetNetworksByIDs(ids []int64) ([]*model.Network, error)
	ListNetworks(opts *ListOptions) ([]*model.Network, error)
	UpdateNetwork(network *model.Network) error
	DeleteNetwork(id int64) error
	GetNetworkUsage(id int64) (*model.Usage, error)
	// ListLeafAddresses returns every non-nested NetworkAddress in the
	// store; the dynamic resolver's containment search runs over it.
	ListLeafAddresses() ([]model.NetworkAddress, error)
	// ListNestedAddresses returns every nested NetworkAddress in the store.
	ListNestedAddresses() ([]model.NetworkAddress, error)
}

// ServiceRepository defines the interface for service data access
type ServiceRepository interface {
	CreateService(service *model.Service) error
	GetServiceByID(id int64) (*model.Service, error)
	GetServiceByName(name string) (*model.Service, error)
	GetServicesByIDs(ids []int64) ([]*model.Service, error)
	ListServices(opts *ListOptions) ([]*model.Service, error)
	UpdateService(service *model.Service) error
	DeleteService(id int64) error
	GetServiceUsage(id int64) (*model.Usage, error)
}

// PolicyRepository defines the interface for policy data access. Terms are
// written through the owning policy; reads return the full aggregate with
// terms in lex order.
type PolicyRepository interface {
	CreatePolicy(policy *model.Policy) error
	GetPolicyByID(id int64) (*model.Policy, error)
	GetPolicyByName(name string) (*model.Policy, error)
	GetPoliciesByIDs(ids []int64) ([]*model.Policy, error)
	ListPolicies(opts *ListOptions) ([]*model.Policy, error)
	UpdatePolicy(policy *model.Policy) error
	DeletePolicy(id int64) error
	GetPolicyUsage(id int64) (*model.Usage, error)
}

// DynamicPolicyRepository defines the interface for dynamic policy data
// access
type DynamicPolicyRepository interface {
	CreateDynamicPolicy(policy *model.DynamicPolicy) error
	GetDynamicPolicyByID(id int64) (*model.DynamicPolicy, error)
	GetDynamicPolicyByName(name string) (*model.DynamicPolicy, error)
	ListDynamicPolicies(opts *ListOptions) ([]*model.DynamicPolicy, error)
	UpdateDynamicPolicy(policy *model.DynamicPolicy) error
	DeleteDynamicPolicy(id int64) error
}

// TargetRepository defines the interface for target data access
type TargetRepository interface {
	CreateTarget(target *model.Target) error
	GetTargetByID(id int64) (*model.Target, error)
	GetTargetByName(name string) (*model.Target, error)
	GetTargetsByIDs(ids []int64) ([]*model.Target, error)
	ListTargets(opts *ListOptions) ([]*model.Target, error)
	UpdateTarget(target *model.Target) error
	DeleteTarget(id int64) error
}

// TestRepository defines the interface for test and test-case data access
type TestRepository interface {
	CreateTest(test *model.Test) error
	GetTestByID(id int64) (*model.Test, error)
	GetTestByName(name string) (*model.Test, error)
	GetTestsByIDs(ids []int64) ([]*model.Test, error)
	ListTests(opts *ListOptions) ([]*model.Test, error)
	UpdateTest(test *model.Test) error
	DeleteTest(id int64) error

	CreateTestCase(testCase *model.TestCase) error
	GetTestCaseByID(testID, caseID int64) (*model.TestCase, error)
	ListTestCases(testID int64) ([]model.TestCase, error)
	UpdateTestCase(testCase *model.TestCase) error
	DeleteTestCase(testID, caseID int64) error
}

// RevisionRepository defines the interface for revision data access.
// CreateRevision persists the revision, its configs, and the edited-flag
// clear on the source policy in one transaction.
type RevisionRepository interface {
	CreateRevision(revision *model.Revision) error
	GetRevisionByID(id int64) (*model.Revision, error)
	ListRevisions(policyID, dynamicPolicyID *int64, opts *ListOptions) ([]*model.Revision, error)
	DeleteRevision(id int64) error
	GetRevisionConfig(revisionID, targetID int64) (*model.RevisionConfig, error)
	ListRevisionConfigs(revisionID int64) ([]model.RevisionConfig, error)
}

// DeployerRepository defines the interface for deployer data access
type DeployerRepository interface {
	CreateDeployer(deployer *model.Deployer) error
	GetDeployerByID(id int64) (*model.Deployer, error)
	GetDeployerByName(name string) (*model.Deployer, error)
	ListDeployers(opts *ListOptions) ([]*model.Deployer, error)
	ListDeployersByTargetID(targetID int64) ([]*model.Deployer, error)
	UpdateDeployer(deployer *model.Deployer) error
	DeleteDeployer(id int64) error
}

// DeploymentRepository defines the interface for deployment data access
type DeploymentRepository interface {
	CreateDeployment(deployment *model.Deployment) error
	GetDeploymentByID(id int64) (*model.Deployment, error)
	ListDeployments(revisionID, deployerID *int64, opts *ListOptions) ([]*model.Deployment, error)
	UpdateDeploymentStatus(id int64, status string, output string) error
	DeleteDeployment(id int64) error
}
