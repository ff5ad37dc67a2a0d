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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/utils"
)

// revisionFixture wires a revision service over the test-runner fixture
// policy with two targets (cisco and nftables, in that id order).
func revisionFixture(cases ...model.TestCase) (*RevisionService, *fakePolicyRepo, *fakeRevisionRepo) {
	networkRepo := newFakeNetworkRepo(
		leafNetwork(1, "lan", "10.0.0.0/24"),
		leafNetwork(2, "dmz", "192.168.0.0/24"),
	)
	serviceRepo := newFakeServiceRepo()

	deny := model.PolicyTerm{
		ID: 2, Name: "dmz-deny", PolicyName: "office edge", Enabled: true,
		Action:                actionPtr(constants.ActionDeny),
		DestinationNetworkIDs: []int64{2},
	}
	policyRepo := newFakePolicyRepo(&model.Policy{
		ID: 1, Name: "office edge", Edited: true,
		TargetIDs: []int64{2, 1},
		TestIDs:   []int64{1},
		Terms: []model.PolicyTerm{
			enabledTerm(1, "office edge", "lan-out", []int64{1}, nil),
			deny,
			enabledTerm(3, "office edge", "catch-all", nil, nil),
		},
	})
	testRepo := newFakeTestRepo(&model.Test{ID: 1, Name: "edge-cases", Cases: cases})
	dynamicPolicyRepo := newFakeDynamicPolicyRepo()
	targetRepo := newFakeTargetRepo(
		&model.Target{ID: 1, Name: "edge-fw", Generator: "cisco", InetMode: constants.InetModeV4},
		&model.Target{ID: 2, Name: "edge-bridge", Generator: "nftables", InetMode: constants.InetModeV4},
	)
	revisionRepo := newFakeRevisionRepo()

	resolver := NewResolver(networkRepo, policyRepo)
	runner := NewTestRunner(networkRepo, serviceRepo, policyRepo, dynamicPolicyRepo, testRepo, resolver)
	comp := compiler.New(compiler.NewRegistry(
		compiler.Profile{Generator: "cisco", Style: "cisco", Extension: "acl"},
		compiler.Profile{Generator: "nftables", Style: "nftables", Extension: "nft"},
	))

	svc := NewRevisionService(revisionRepo, policyRepo, dynamicPolicyRepo,
		networkRepo, serviceRepo, targetRepo, runner, resolver, comp)
	return svc, policyRepo, revisionRepo
}

func fullCoverageCases() []model.TestCase {
	denyDmz := acceptCase("8.8.8.8", "192.168.0.9")
	denyDmz.ExpectedAction = constants.ActionDeny
	return []model.TestCase{
		acceptCase("10.0.0.5", model.Wildcard),
		denyDmz,
		acceptCase("8.8.8.8", "1.1.1.1"),
	}
}

func TestCreateRevisionCoverageGate(t *testing.T) {
	svc, _, _ := revisionFixture(fullCoverageCases()[:2]...)

	_, err := svc.CreateRevision(&model.Revision{PolicyID: int64Ptr(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrInsufficientCoverage)
	assert.Equal(t, "Test coverage 67% is lower than the required 100%", err.Error())
}

func TestCreateRevisionFreezesSnapshotsAndConfigs(t *testing.T) {
	svc, _, _ := revisionFixture(fullCoverageCases()...)

	created, err := svc.CreateRevision(&model.Revision{PolicyID: int64Ptr(1), Comment: "initial"})
	require.NoError(t, err)

	assert.Contains(t, created.JSONData, `"office edge"`)
	assert.Contains(t, created.ExpandedTerms, `"lan-out"`)

	// One config per target, written in target-id order regardless of the
	// association order on the policy.
	require.Len(t, created.Configs, 2)
	assert.Equal(t, int64(1), created.Configs[0].TargetID)
	assert.Equal(t, int64(2), created.Configs[1].TargetID)
	assert.Equal(t, "office-edge", created.Configs[0].FilterName)
	assert.Equal(t, "office-edge.acl", created.Configs[0].Filename)
	assert.Equal(t, "office-edge.nft", created.Configs[1].Filename)
	assert.NotEmpty(t, created.Configs[0].Config)
	// The nftables post-processing pins the table to the filter name.
	assert.Contains(t, created.Configs[1].Config, "table bridge office-edge")

	// Fetching it back returns identical frozen content.
	again, err := svc.GetRevisionByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.JSONData, again.JSONData)
	assert.Equal(t, created.ExpandedTerms, again.ExpandedTerms)
	assert.Equal(t, created.Configs[0].Config, again.Configs[0].Config)
}

func TestCreateRevisionRequiresExactlyOneSource(t *testing.T) {
	svc, _, _ := revisionFixture(fullCoverageCases()...)

	_, err := svc.CreateRevision(&model.Revision{})
	assert.ErrorIs(t, err, constants.ErrValidation)

	_, err = svc.CreateRevision(&model.Revision{PolicyID: int64Ptr(1), DynamicPolicyID: int64Ptr(2)})
	assert.ErrorIs(t, err, constants.ErrValidation)
}

func TestUpdateRevisionIsRejected(t *testing.T) {
	svc, _, _ := revisionFixture(fullCoverageCases()...)
	created, err := svc.CreateRevision(&model.Revision{PolicyID: int64Ptr(1)})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateRevision(created.ID), constants.ErrRevisionImmutable)
	assert.ErrorIs(t, svc.UpdateRevision(999), constants.ErrRevisionNotFound)
}

func TestRawConfigByHash(t *testing.T) {
	svc, _, _ := revisionFixture(fullCoverageCases()...)
	created, err := svc.CreateRevision(&model.Revision{PolicyID: int64Ptr(1)})
	require.NoError(t, err)

	good := utils.ConfigHash(created.Configs[0].Config)
	config, err := svc.RawConfigByHash(created.ID, 1, good)
	require.NoError(t, err)
	assert.Equal(t, created.Configs[0].Config, config.Config)

	_, err = svc.RawConfigByHash(created.ID, 1, strings.Repeat("0", len(good)))
	assert.ErrorIs(t, err, constants.ErrRevisionHashMismatch)

	_, err = svc.RawConfigByHash(created.ID, 99, good)
	assert.ErrorIs(t, err, constants.ErrRevisionConfigNotFound)
}
