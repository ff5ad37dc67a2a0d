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
	"net/netip"

	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// Resolver turns a dynamic policy's filters into a concrete term list by
// selecting authored terms whose sides fall inside the filter networks and
// narrowing each selected side to the filter set.
type Resolver struct {
	networkRepo repository.NetworkRepository
	policyRepo  repository.PolicyRepository
}

// NewResolver creates a new dynamic-policy resolver
func NewResolver(networkRepo repository.NetworkRepository, policyRepo repository.PolicyRepository) *Resolver {
	return &Resolver{networkRepo: networkRepo, policyRepo: policyRepo}
}

// sideFilter is one resolved filter side: nil means the side is
// unconstrained and every term passes it untouched.
type sideFilter struct {
	selected map[int64]bool
}

func (f *sideFilter) unconstrained() bool { return f.selected == nil }

// ResolveTerms runs the full resolution pipeline and returns customized
// copies of the selected terms in (policy, position) order. Resolving to an
// empty list is an error: a dynamic policy that matches nothing cannot be
// compiled into anything meaningful.
func (r *Resolver) ResolveTerms(dp *model.DynamicPolicy) ([]model.PolicyTerm, error) {
	networks, err := r.networkRepo.ListNetworks(nil)
	if err != nil {
		return nil, err
	}
	networkIndex := make(map[int64]*model.Network, len(networks))
	for _, n := range networks {
		networkIndex[n.ID] = n
	}

	leaves, err := r.networkRepo.ListLeafAddresses()
	if err != nil {
		return nil, err
	}
	nested, err := r.networkRepo.ListNestedAddresses()
	if err != nil {
		return nil, err
	}

	srcFilter, err := r.resolveSide(dp.SourceFilterIDs, networkIndex, leaves, nested)
	if err != nil {
		return nil, err
	}
	dstFilter, err := r.resolveSide(dp.DestinationFilterIDs, networkIndex, leaves, nested)
	if err != nil {
		return nil, err
	}

	policies, err := r.candidatePolicies(dp.PolicyFilterIDs)
	if err != nil {
		return nil, err
	}

	var resolved []model.PolicyTerm
	for _, policy := range policies {
		for i := range policy.Terms {
			term := &policy.Terms[i]
			if term.IsNested() || !term.Enabled {
				continue
			}
			if dp.FilterAction != nil && (term.Action == nil || *term.Action != *dp.FilterAction) {
				continue
			}
			if !sideSelected(term.SourceNetworkIDs, term.NegateSourceNetworks, srcFilter) {
				continue
			}
			if !sideSelected(term.DestinationNetworkIDs, term.NegateDestinationNetworks, dstFilter) {
				continue
			}
			resolved = append(resolved, customizeTerm(term, srcFilter, dstFilter))
		}
	}
	if len(resolved) == 0 {
		return nil, constants.ErrNoTermsResolved
	}
	return resolved, nil
}

// resolveSide runs filter-CIDR extraction, containment search, and nested
// promotion for one side. An empty filter yields an unconstrained side.
func (r *Resolver) resolveSide(
	filterIDs []int64,
	networks map[int64]*model.Network,
	leaves, nested []model.NetworkAddress,
) (*sideFilter, error) {
	if len(filterIDs) == 0 {
		return &sideFilter{}, nil
	}

	// Stage 1: flatten the filter networks into a deduplicated CIDR set.
	var filterCIDRs []netip.Prefix
	seen := make(map[netip.Prefix]bool)
	for _, id := range filterIDs {
		if networks[id] == nil {
			return nil, constants.ErrNetworkNotFound
		}
		cidrs, err := compiler.LeafCIDRs(id, networks)
		if err != nil {
			return nil, err
		}
		for _, cidr := range cidrs {
			if !seen[cidr] {
				seen[cidr] = true
				filterCIDRs = append(filterCIDRs, cidr)
			}
		}
	}

	// Stage 2: a network counts only when the filter covers every one of
	// its leaf addresses, so partially covered networks never over-match.
	// Networks without leaf addresses are handled by nested promotion.
	type leafState struct {
		total   int
		covered int
	}
	perNetwork := make(map[int64]*leafState)
	for i := range leaves {
		leaf := &leaves[i]
		state := perNetwork[leaf.NetworkID]
		if state == nil {
			state = &leafState{}
			perNetwork[leaf.NetworkID] = state
		}
		state.total++
		prefix, err := netip.ParsePrefix(*leaf.Address)
		if err != nil {
			continue
		}
		for _, cidr := range filterCIDRs {
			if cidr.Overlaps(prefix) {
				state.covered++
				break
			}
		}
	}
	selected := make(map[int64]bool)
	for networkID, state := range perNetwork {
		if state.total > 0 && state.covered == state.total {
			selected[networkID] = true
		}
	}

	// Stage 3: promote purely nested networks whose children are all
	// selected, to fixpoint.
	nestedPerNetwork := make(map[int64][]int64)
	for i := range nested {
		row := &nested[i]
		nestedPerNetwork[row.NetworkID] = append(nestedPerNetwork[row.NetworkID], *row.NestedNetworkID)
	}
	for changed := true; changed; {
		changed = false
		for networkID, children := range nestedPerNetwork {
			if selected[networkID] {
				continue
			}
			if state := perNetwork[networkID]; state != nil && state.total > 0 {
				continue
			}
			all := true
			for _, child := range children {
				if !selected[child] {
					all = false
					break
				}
			}
			if all {
				selected[networkID] = true
				changed = true
			}
		}
	}

	return &sideFilter{selected: selected}, nil
}

// candidatePolicies returns the policies the term selection walks, in id
// order. An empty policy filter considers every authored policy.
func (r *Resolver) candidatePolicies(filterIDs []int64) ([]*model.Policy, error) {
	if len(filterIDs) == 0 {
		return r.policyRepo.ListPolicies(nil)
	}
	policies, err := r.policyRepo.GetPoliciesByIDs(filterIDs)
	if err != nil {
		return nil, err
	}
	if len(policies) != len(filterIDs) {
		return nil, constants.ErrPolicyNotFound
	}
	return policies, nil
}

// sideSelected applies the stage-4 predicate for one term side.
func sideSelected(ids []int64, negated bool, filter *sideFilter) bool {
	if filter.unconstrained() || len(ids) == 0 {
		return true
	}
	if negated {
		// An excluded id outside the filter means the complement still
		// reaches filter space.
		for _, id := range ids {
			if !filter.selected[id] {
				return true
			}
		}
		return false
	}
	for _, id := range ids {
		if filter.selected[id] {
			return true
		}
	}
	return false
}

// customizeTerm clones the stored term and narrows non-negated sides to the
// filter set. The stored object is never mutated.
func customizeTerm(term *model.PolicyTerm, srcFilter, dstFilter *sideFilter) model.PolicyTerm {
	clone := *term
	clone.SourceNetworkIDs = narrowSide(term.SourceNetworkIDs, term.NegateSourceNetworks, srcFilter)
	clone.DestinationNetworkIDs = narrowSide(term.DestinationNetworkIDs, term.NegateDestinationNetworks, dstFilter)
	clone.SourceServiceIDs = append([]int64(nil), term.SourceServiceIDs...)
	clone.DestinationServiceIDs = append([]int64(nil), term.DestinationServiceIDs...)
	return clone
}

func narrowSide(ids []int64, negated bool, filter *sideFilter) []int64 {
	if filter.unconstrained() || negated || len(ids) == 0 {
		return append([]int64(nil), ids...)
	}
	var narrowed []int64
	for _, id := range ids {
		if filter.selected[id] {
			narrowed = append(narrowed, id)
		}
	}
	return narrowed
}
