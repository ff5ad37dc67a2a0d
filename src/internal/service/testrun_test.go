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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// testRunnerFixture: a three-term policy over lan (10.0.0.0/24) and dmz
// (192.168.0.0/24) with one attached test.
func testRunnerFixture(cases ...model.TestCase) *TestRunner {
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
		ID: 1, Name: "office edge", TestIDs: []int64{1},
		Terms: []model.PolicyTerm{
			enabledTerm(1, "office edge", "lan-out", []int64{1}, nil),
			deny,
			enabledTerm(3, "office edge", "catch-all", nil, nil),
		},
	})
	testRepo := newFakeTestRepo(&model.Test{ID: 1, Name: "edge-cases", Cases: cases})
	dynamicPolicyRepo := newFakeDynamicPolicyRepo()

	resolver := NewResolver(networkRepo, policyRepo)
	return NewTestRunner(networkRepo, serviceRepo, policyRepo, dynamicPolicyRepo, testRepo, resolver)
}

func acceptCase(src, dst string) model.TestCase {
	return model.TestCase{
		ExpectedAction: constants.ActionAccept,
		SourceNetwork:  src, DestinationNetwork: dst,
		SourcePort: model.Wildcard, DestinationPort: model.Wildcard,
		Protocol: model.Wildcard,
	}
}

func TestRunPolicyTestsFullCoverage(t *testing.T) {
	denyDmz := acceptCase("8.8.8.8", "192.168.0.9")
	denyDmz.ExpectedAction = constants.ActionDeny

	runner := testRunnerFixture(
		acceptCase("10.0.0.5", model.Wildcard),
		denyDmz,
		acceptCase("8.8.8.8", "1.1.1.1"),
	)

	report, err := runner.RunPolicyTests(1)
	require.NoError(t, err)

	require.Len(t, report.Tests, 3)
	for _, result := range report.Tests {
		assert.True(t, result.Passed, "case matching %q", result.MatchedTerm)
	}
	assert.Equal(t, "office-edge-lan-out", report.Tests[0].MatchedTerm)
	assert.Equal(t, "office-edge-dmz-deny", report.Tests[1].MatchedTerm)
	assert.Equal(t, "office-edge-catch-all", report.Tests[2].MatchedTerm)
	assert.Empty(t, report.NotMatchedTerms)
	assert.Equal(t, 1.0, report.Coverage)
}

func TestRunPolicyTestsPartialCoverage(t *testing.T) {
	denyDmz := acceptCase("8.8.8.8", "192.168.0.9")
	denyDmz.ExpectedAction = constants.ActionDeny

	runner := testRunnerFixture(
		acceptCase("10.0.0.5", model.Wildcard),
		denyDmz,
	)

	report, err := runner.RunPolicyTests(1)
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3.0, report.Coverage, 1e-9)
	assert.Equal(t, []string{"office-edge-catch-all"}, report.NotMatchedTerms)
}

func TestRunPolicyTestsWrongActionDoesNotCover(t *testing.T) {
	// The probe hits dmz-deny but expects accept: the case fails and the
	// term stays uncovered.
	runner := testRunnerFixture(acceptCase("8.8.8.8", "192.168.0.9"))

	report, err := runner.RunPolicyTests(1)
	require.NoError(t, err)

	require.Len(t, report.Tests, 1)
	assert.False(t, report.Tests[0].Passed)
	assert.Equal(t, "office-edge-dmz-deny", report.Tests[0].MatchedTerm)
	assert.Equal(t, 0.0, report.Coverage)
	assert.Len(t, report.NotMatchedTerms, 3)
}

func TestRunPolicyTestsDisabledTermsExcluded(t *testing.T) {
	runner := testRunnerFixture(
		acceptCase("10.0.0.5", model.Wildcard),
		acceptCase("172.16.0.1", model.Wildcard),
	)

	// With dmz-deny and catch-all disabled the second probe falls through
	// every term.
	policy, err := runner.policyRepo.GetPolicyByID(1)
	require.NoError(t, err)
	policy.Terms[1].Enabled = false
	policy.Terms[2].Enabled = false

	report, err := runner.RunPolicyTests(1)
	require.NoError(t, err)
	require.Len(t, report.Tests, 2)
	assert.True(t, report.Tests[0].Passed)
	assert.False(t, report.Tests[1].Passed)
	assert.Empty(t, report.Tests[1].MatchedTerm)
	// Only the enabled term counts toward coverage.
	assert.Equal(t, 1.0, report.Coverage)
}

func TestRunPolicyTestsMissingPolicy(t *testing.T) {
	runner := testRunnerFixture()
	_, err := runner.RunPolicyTests(42)
	assert.ErrorIs(t, err, constants.ErrPolicyNotFound)
}

func TestRunDynamicPolicyTests(t *testing.T) {
	runner := testRunnerFixture(acceptCase("10.0.0.5", model.Wildcard))
	runner.dynamicPolicyRepo.(*fakeDynamicPolicyRepo).policies[7] = &model.DynamicPolicy{
		ID: 7, Name: "lan-only",
		SourceFilterIDs: []int64{1},
		TestIDs:         []int64{1},
	}

	report, err := runner.RunDynamicPolicyTests(7)
	require.NoError(t, err)

	require.Len(t, report.Tests, 1)
	assert.True(t, report.Tests[0].Passed)
	assert.Equal(t, "office-edge-lan-out", report.Tests[0].MatchedTerm)
}
