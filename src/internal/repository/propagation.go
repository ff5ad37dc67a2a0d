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
	"fmt"

	"acl-platform/src/internal/database"
)

// Edit propagation: whenever a network, service, target, or policy is
// mutated, every policy and dynamic policy transitively referencing it
// acquires edited=true. The walk runs on the mutating transaction so the
// flags commit or roll back with the mutation itself. Traversals terminate
// because the nested_* relations are acyclic.

// closure computes the transitive set of parent ids reachable from seed via
// a single parent-of edge query. The query must select parent ids for a
// `?`-placeholder IN list of child ids.
func closure(db *database.DB, q queryer, seed []int64, parentQuery string) ([]int64, error) {
	seen := make(map[int64]bool, len(seed))
	for _, id := range seed {
		seen[id] = true
	}
	frontier := seed
	for len(frontier) > 0 {
		query := fmt.Sprintf(parentQuery, placeholders(len(frontier)))
		parents, err := queryIDs(db, q, query, int64Args(frontier)...)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range parents {
			if !seen[id] {
				seen[id] = true
				frontier = append(frontier, id)
			}
		}
	}
	result := make([]int64, 0, len(seen))
	for id := range seen {
		result = append(result, id)
	}
	return result, nil
}

// containingNetworkIDs returns seed plus every network that transitively
// nests a member of seed.
func containingNetworkIDs(db *database.DB, q queryer, seed []int64) ([]int64, error) {
	return closure(db, q, seed,
		`SELECT DISTINCT network_id FROM network_addresses WHERE nested_network_id IN (%s)`)
}

// containingServiceIDs returns seed plus every service that transitively
// nests a member of seed.
func containingServiceIDs(db *database.DB, q queryer, seed []int64) ([]int64, error) {
	return closure(db, q, seed,
		`SELECT DISTINCT service_id FROM service_entries WHERE nested_service_id IN (%s)`)
}

// containingPolicyIDs returns seed plus every policy that transitively
// splices a member of seed through a nested term.
func containingPolicyIDs(db *database.DB, q queryer, seed []int64) ([]int64, error) {
	return closure(db, q, seed,
		`SELECT DISTINCT policy_id FROM policy_terms WHERE nested_policy_id IN (%s)`)
}

// policiesReferencingNetworks returns policies with a term whose source or
// destination side names any of the networks.
func policiesReferencingNetworks(db *database.DB, q queryer, networkIDs []int64) ([]int64, error) {
	if len(networkIDs) == 0 {
		return nil, nil
	}
	in := placeholders(len(networkIDs))
	query := fmt.Sprintf(`
		SELECT DISTINCT t.policy_id FROM policy_terms t
		WHERE t.id IN (
			SELECT policy_term_id FROM policy_term_source_networks WHERE network_id IN (%s)
			UNION
			SELECT policy_term_id FROM policy_term_destination_networks WHERE network_id IN (%s)
		)`, in, in)
	args := append(int64Args(networkIDs), int64Args(networkIDs)...)
	return queryIDs(db, q, query, args...)
}

// policiesReferencingServices returns policies with a term whose source or
// destination side names any of the services.
func policiesReferencingServices(db *database.DB, q queryer, serviceIDs []int64) ([]int64, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}
	in := placeholders(len(serviceIDs))
	query := fmt.Sprintf(`
		SELECT DISTINCT t.policy_id FROM policy_terms t
		WHERE t.id IN (
			SELECT policy_term_id FROM policy_term_source_services WHERE service_id IN (%s)
			UNION
			SELECT policy_term_id FROM policy_term_destination_services WHERE service_id IN (%s)
		)`, in, in)
	args := append(int64Args(serviceIDs), int64Args(serviceIDs)...)
	return queryIDs(db, q, query, args...)
}

func policiesReferencingTarget(db *database.DB, q queryer, targetID int64) ([]int64, error) {
	return queryIDs(db, q,
		`SELECT policy_id FROM policy_targets WHERE target_id = ?`, targetID)
}

// dynamicPoliciesReferencingNetworks returns dynamic policies whose source
// or destination filters name any of the networks.
func dynamicPoliciesReferencingNetworks(db *database.DB, q queryer, networkIDs []int64) ([]int64, error) {
	if len(networkIDs) == 0 {
		return nil, nil
	}
	in := placeholders(len(networkIDs))
	query := fmt.Sprintf(`
		SELECT dynamic_policy_id FROM dynamic_policy_source_filters WHERE network_id IN (%s)
		UNION
		SELECT dynamic_policy_id FROM dynamic_policy_destination_filters WHERE network_id IN (%s)`,
		in, in)
	args := append(int64Args(networkIDs), int64Args(networkIDs)...)
	return queryIDs(db, q, query, args...)
}

func dynamicPoliciesReferencingPolicies(db *database.DB, q queryer, policyIDs []int64) ([]int64, error) {
	if len(policyIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT DISTINCT dynamic_policy_id FROM dynamic_policy_policy_filters WHERE policy_id IN (%s)`,
		placeholders(len(policyIDs)))
	return queryIDs(db, q, query, int64Args(policyIDs)...)
}

func dynamicPoliciesReferencingTarget(db *database.DB, q queryer, targetID int64) ([]int64, error) {
	return queryIDs(db, q,
		`SELECT dynamic_policy_id FROM dynamic_policy_targets WHERE target_id = ?`, targetID)
}

func markPoliciesEdited(db *database.DB, q queryer, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE policies SET edited = ? WHERE id IN (%s)`,
		placeholders(len(ids)))
	_, err := q.Exec(db.Rebind(query), append([]any{true}, int64Args(ids)...)...)
	return err
}

func markDynamicPoliciesEdited(db *database.DB, q queryer, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE dynamic_policies SET edited = ? WHERE id IN (%s)`,
		placeholders(len(ids)))
	_, err := q.Exec(db.Rebind(query), append([]any{true}, int64Args(ids)...)...)
	return err
}

// propagateNetworkEdit marks every policy and dynamic policy transitively
// referencing the network as edited.
func propagateNetworkEdit(db *database.DB, q queryer, networkID int64) error {
	networks, err := containingNetworkIDs(db, q, []int64{networkID})
	if err != nil {
		return err
	}
	policies, err := policiesReferencingNetworks(db, q, networks)
	if err != nil {
		return err
	}
	policies, err = containingPolicyIDs(db, q, policies)
	if err != nil {
		return err
	}
	if err := markPoliciesEdited(db, q, policies); err != nil {
		return err
	}
	direct, err := dynamicPoliciesReferencingNetworks(db, q, networks)
	if err != nil {
		return err
	}
	viaPolicies, err := dynamicPoliciesReferencingPolicies(db, q, policies)
	if err != nil {
		return err
	}
	return markDynamicPoliciesEdited(db, q, mergeIDs(direct, viaPolicies))
}

// propagateServiceEdit marks every policy and dynamic policy transitively
// referencing the service as edited.
func propagateServiceEdit(db *database.DB, q queryer, serviceID int64) error {
	services, err := containingServiceIDs(db, q, []int64{serviceID})
	if err != nil {
		return err
	}
	policies, err := policiesReferencingServices(db, q, services)
	if err != nil {
		return err
	}
	policies, err = containingPolicyIDs(db, q, policies)
	if err != nil {
		return err
	}
	if err := markPoliciesEdited(db, q, policies); err != nil {
		return err
	}
	dynamics, err := dynamicPoliciesReferencingPolicies(db, q, policies)
	if err != nil {
		return err
	}
	return markDynamicPoliciesEdited(db, q, dynamics)
}

// propagatePolicyEdit marks the policy itself, every policy splicing it,
// and every dynamic policy filtering on any of those as edited.
func propagatePolicyEdit(db *database.DB, q queryer, policyID int64) error {
	policies, err := containingPolicyIDs(db, q, []int64{policyID})
	if err != nil {
		return err
	}
	if err := markPoliciesEdited(db, q, policies); err != nil {
		return err
	}
	dynamics, err := dynamicPoliciesReferencingPolicies(db, q, policies)
	if err != nil {
		return err
	}
	return markDynamicPoliciesEdited(db, q, dynamics)
}

// propagateTargetEdit marks every policy and dynamic policy associated with
// the target (and anything splicing those policies) as edited.
func propagateTargetEdit(db *database.DB, q queryer, targetID int64) error {
	policies, err := policiesReferencingTarget(db, q, targetID)
	if err != nil {
		return err
	}
	policies, err = containingPolicyIDs(db, q, policies)
	if err != nil {
		return err
	}
	if err := markPoliciesEdited(db, q, policies); err != nil {
		return err
	}
	direct, err := dynamicPoliciesReferencingTarget(db, q, targetID)
	if err != nil {
		return err
	}
	viaPolicies, err := dynamicPoliciesReferencingPolicies(db, q, policies)
	if err != nil {
		return err
	}
	return markDynamicPoliciesEdited(db, q, mergeIDs(direct, viaPolicies))
}

// mergeIDs unions id slices preserving first-seen order.
func mergeIDs(lists ...[]int64) []int64 {
	seen := make(map[int64]bool)
	var merged []int64
	for _, list := range lists {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				merged = append(merged, id)
			}
		}
	}
	return merged
}
