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

func leafNetwork(id int64, name string, cidrs ...string) *model.Network {
	n := &model.Network{ID: id, Name: name}
	for _, cidr := range cidrs {
		n.Addresses = append(n.Addresses, model.NetworkAddress{NetworkID: id, Address: strPtr(cidr)})
	}
	return n
}

func groupNetwork(id int64, name string, nestedIDs ...int64) *model.Network {
	n := &model.Network{ID: id, Name: name}
	for _, nested := range nestedIDs {
		nestedID := nested
		n.Addresses = append(n.Addresses, model.NetworkAddress{NetworkID: id, NestedNetworkID: &nestedID})
	}
	return n
}

func enabledTerm(id int64, policyName, name string, src, dst []int64) model.PolicyTerm {
	return model.PolicyTerm{
		ID:                    id,
		Name:                  name,
		PolicyName:            policyName,
		Enabled:               true,
		Action:                actionPtr(constants.ActionAccept),
		SourceNetworkIDs:      src,
		DestinationNetworkIDs: dst,
	}
}

// resolverFixture:
//
//	1 site-a      10.1.0.0/16
//	2 site-b      10.2.0.0/16
//	3 all-sites   nested{site-a, site-b}
//	4 partner     203.0.113.0/24
//	5 mixed       10.1.5.0/24 + 198.51.100.0/24 (only half inside site space)
//	6 filter      10.0.0.0/8
func resolverFixture() (*fakeNetworkRepo, *fakePolicyRepo) {
	networkRepo := newFakeNetworkRepo(
		leafNetwork(1, "site-a", "10.1.0.0/16"),
		leafNetwork(2, "site-b", "10.2.0.0/16"),
		groupNetwork(3, "all-sites", 1, 2),
		leafNetwork(4, "partner", "203.0.113.0/24"),
		leafNetwork(5, "mixed", "10.1.5.0/24", "198.51.100.0/24"),
		leafNetwork(6, "filter", "10.0.0.0/8"),
	)

	policyRepo := newFakePolicyRepo(
		&model.Policy{ID: 1, Name: "edge", Terms: []model.PolicyTerm{
			enabledTerm(11, "edge", "sites-out", []int64{3}, nil),
			enabledTerm(12, "edge", "partner-in", []int64{4}, nil),
			enabledTerm(13, "edge", "mixed-out", []int64{5}, nil),
			enabledTerm(14, "edge", "site-a-or-partner", []int64{1, 4}, nil),
		}},
	)
	return networkRepo, policyRepo
}

func TestResolveTermsContainmentAndPromotion(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	resolver := NewResolver(networkRepo, policyRepo)

	dp := &model.DynamicPolicy{
		ID:              1,
		Name:            "sites",
		SourceFilterIDs: []int64{6},
	}

	terms, err := resolver.ResolveTerms(dp)
	require.NoError(t, err)

	names := make([]string, len(terms))
	for i := range terms {
		names[i] = terms[i].ValidName()
	}
	// site-a and site-b are fully inside 10.0.0.0/8, so the purely nested
	// all-sites group is promoted and sites-out selected. partner-in is
	// outside the filter; mixed has a leaf outside so it never counts.
	assert.Equal(t, []string{"edge-sites-out", "edge-site-a-or-partner"}, names)
}

func TestResolveTermsNarrowsSelectedSides(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	resolver := NewResolver(networkRepo, policyRepo)

	dp := &model.DynamicPolicy{ID: 1, Name: "sites", SourceFilterIDs: []int64{6}}
	terms, err := resolver.ResolveTerms(dp)
	require.NoError(t, err)

	// The mixed reference of site-a-or-partner is narrowed to site-a only.
	var narrowed *model.PolicyTerm
	for i := range terms {
		if terms[i].Name == "site-a-or-partner" {
			narrowed = &terms[i]
		}
	}
	require.NotNil(t, narrowed)
	assert.Equal(t, []int64{1}, narrowed.SourceNetworkIDs)

	// The stored policy is untouched.
	stored, err := policyRepo.GetPolicyByID(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, stored.Terms[3].SourceNetworkIDs)
}

func TestResolveTermsUnconstrainedSide(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	resolver := NewResolver(networkRepo, policyRepo)

	dp := &model.DynamicPolicy{ID: 1, Name: "everything"}
	terms, err := resolver.ResolveTerms(dp)
	require.NoError(t, err)
	assert.Len(t, terms, 4)
}

func TestResolveTermsFilterAction(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	policy, _ := policyRepo.GetPolicyByID(1)
	policy.Terms[1].Action = actionPtr(constants.ActionDeny)

	resolver := NewResolver(networkRepo, policyRepo)
	dp := &model.DynamicPolicy{ID: 1, Name: "denies", FilterAction: actionPtr(constants.ActionDeny)}

	terms, err := resolver.ResolveTerms(dp)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "partner-in", terms[0].Name)
}

func TestResolveTermsNegatedSidePasses(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	policy, _ := policyRepo.GetPolicyByID(1)
	// not-partner still reaches filter space, so the term stays selected
	// and its side is not narrowed.
	policy.Terms = []model.PolicyTerm{{
		ID: 21, Name: "not-partner", PolicyName: "edge", Enabled: true,
		Action:               actionPtr(constants.ActionAccept),
		SourceNetworkIDs:     []int64{4},
		NegateSourceNetworks: true,
	}}

	resolver := NewResolver(networkRepo, policyRepo)
	dp := &model.DynamicPolicy{ID: 1, Name: "sites", SourceFilterIDs: []int64{6}}

	terms, err := resolver.ResolveTerms(dp)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.True(t, terms[0].NegateSourceNetworks)
	assert.Equal(t, []int64{4}, terms[0].SourceNetworkIDs)
}

func TestResolveTermsPolicyFilter(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	policyRepo.policies[2] = &model.Policy{ID: 2, Name: "other", Terms: []model.PolicyTerm{
		enabledTerm(21, "other", "anything", nil, nil),
	}}

	resolver := NewResolver(networkRepo, policyRepo)
	dp := &model.DynamicPolicy{ID: 1, Name: "scoped", PolicyFilterIDs: []int64{2}}

	terms, err := resolver.ResolveTerms(dp)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "other-anything", terms[0].ValidName())
}

func TestResolveTermsMissingPolicyFilter(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	resolver := NewResolver(networkRepo, policyRepo)

	dp := &model.DynamicPolicy{ID: 1, Name: "scoped", PolicyFilterIDs: []int64{99}}
	_, err := resolver.ResolveTerms(dp)
	assert.ErrorIs(t, err, constants.ErrPolicyNotFound)
}

func TestResolveTermsEmptyResultIsError(t *testing.T) {
	networkRepo, policyRepo := resolverFixture()
	resolver := NewResolver(networkRepo, policyRepo)

	// 203.0.113.0/24 as the filter: only partner matches it, and the action
	// filter rules the partner term out.
	dp := &model.DynamicPolicy{
		ID: 1, Name: "nothing",
		SourceFilterIDs: []int64{4},
		FilterAction:    actionPtr(constants.ActionDeny),
	}
	_, err := resolver.ResolveTerms(dp)
	assert.ErrorIs(t, err, constants.ErrNoTermsResolved)
}
