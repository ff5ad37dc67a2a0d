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
	"database/sql"
	"fmt"
	"time"

	"acl-platform/src/internal/database"
	"acl-platform/src/internal/model"
)

// PolicyRepo implements PolicyRepository
type PolicyRepo struct {
	db *database.DB
}

// NewPolicyRepo creates a new policy repository
func NewPolicyRepo(db *database.DB) PolicyRepository {
	return &PolicyRepo{db: db}
}

// CreatePolicy inserts a policy with its terms, target links, and test
// links
func (r *PolicyRepo) CreatePolicy(policy *model.Policy) error {
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx, `
		INSERT INTO policies (name, comment, custom_header, edited, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		policy.Name, policy.Comment, policy.CustomHeader, policy.Edited,
		policy.CreatedAt, policy.UpdatedAt)
	if err != nil {
		return err
	}
	policy.ID = id

	if err := r.insertTerms(tx, policy); err != nil {
		return err
	}
	if err := r.insertLinks(tx, policy); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PolicyRepo) insertTerms(tx *sql.Tx, policy *model.Policy) error {
	for i := range policy.Terms {
		term := &policy.Terms[i]
		term.PolicyID = policy.ID
		term.PolicyName = policy.Name
		id, err := insertReturningID(r.db, tx, `
			INSERT INTO policy_terms (policy_id, name, lex_order, enabled, action, option,
				logging, negate_source_networks, negate_destination_networks, nested_policy_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			policy.ID, term.Name, term.LexOrder, term.Enabled, term.Action, term.Option,
			term.Logging, term.NegateSourceNetworks, term.NegateDestinationNetworks,
			term.NestedPolicyID)
		if err != nil {
			return err
		}
		term.ID = id

		links := []struct {
			table  string
			column string
			ids    []int64
		}{
			{"policy_term_source_networks", "network_id", term.SourceNetworkIDs},
			{"policy_term_destination_networks", "network_id", term.DestinationNetworkIDs},
			{"policy_term_source_services", "service_id", term.SourceServiceIDs},
			{"policy_term_destination_services", "service_id", term.DestinationServiceIDs},
		}
		for _, link := range links {
			for _, linkedID := range link.ids {
				query := fmt.Sprintf(`INSERT INTO %s (policy_term_id, %s) VALUES (?, ?)`,
					link.table, link.column)
				if _, err := tx.Exec(r.db.Rebind(query), term.ID, linkedID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *PolicyRepo) insertLinks(tx *sql.Tx, policy *model.Policy) error {
	for _, targetID := range policy.TargetIDs {
		if _, err := tx.Exec(r.db.Rebind(`INSERT INTO policy_targets (policy_id, target_id) VALUES (?, ?)`),
			policy.ID, targetID); err != nil {
			return err
		}
	}
	for _, testID := range policy.TestIDs {
		if _, err := tx.Exec(r.db.Rebind(`INSERT INTO policy_tests (policy_id, test_id) VALUES (?, ?)`),
			policy.ID, testID); err != nil {
			return err
		}
	}
	return nil
}

// GetPolicyByID retrieves a policy aggregate; returns nil when not found
func (r *PolicyRepo) GetPolicyByID(id int64) (*model.Policy, error) {
	policies, err := r.loadPolicies(`WHERE id = ?`, id)
	if err != nil || len(policies) == 0 {
		return nil, err
	}
	return policies[0], nil
}

// GetPolicyByName retrieves a policy by its unique name
func (r *PolicyRepo) GetPolicyByName(name string) (*model.Policy, error) {
	policies, err := r.loadPolicies(`WHERE name = ?`, name)
	if err != nil || len(policies) == 0 {
		return nil, err
	}
	return policies[0], nil
}

// GetPoliciesByIDs retrieves the given policies in id order
func (r *PolicyRepo) GetPoliciesByIDs(ids []int64) ([]*model.Policy, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	clause := fmt.Sprintf(`WHERE id IN (%s) ORDER BY id`, placeholders(len(ids)))
	return r.loadPolicies(clause, int64Args(ids)...)
}

// ListPolicies retrieves policy aggregates with filtering and pagination
func (r *PolicyRepo) ListPolicies(opts *ListOptions) ([]*model.Policy, error) {
	conds, args := opts.filterConds()
	clause := whereClause(conds) + opts.orderClause("id", "name", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	return r.loadPolicies(clause+pageSQL, append(args, pageArgs...)...)
}

func (r *PolicyRepo) loadPolicies(clause string, args ...any) ([]*model.Policy, error) {
	query := `SELECT id, name, comment, custom_header, edited, created_at, updated_at FROM policies ` + clause
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*model.Policy
	byID := make(map[int64]*model.Policy)
	var ids []int64
	for rows.Next() {
		policy := &model.Policy{}
		if err := rows.Scan(&policy.ID, &policy.Name, &policy.Comment, &policy.CustomHeader,
			&policy.Edited, &policy.CreatedAt, &policy.UpdatedAt); err != nil {
			return nil, err
		}
		policies = append(policies, policy)
		byID[policy.ID] = policy
		ids = append(ids, policy.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(policies) == 0 {
		return nil, nil
	}

	if err := r.loadTermsInto(byID, ids); err != nil {
		return nil, err
	}
	if err := r.loadLinksInto(byID, ids); err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *PolicyRepo) loadTermsInto(byID map[int64]*model.Policy, policyIDs []int64) error {
	query := fmt.Sprintf(`
		SELECT id, policy_id, name, lex_order, enabled, action, option,
			logging, negate_source_networks, negate_destination_networks, nested_policy_id
		FROM policy_terms
		WHERE policy_id IN (%s)
		ORDER BY policy_id, lex_order, id`, placeholders(len(policyIDs)))
	rows, err := r.db.Query(r.db.Rebind(query), int64Args(policyIDs)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	termIndex := make(map[int64]*model.PolicyTerm)
	var termIDs []int64
	for rows.Next() {
		var term model.PolicyTerm
		if err := rows.Scan(&term.ID, &term.PolicyID, &term.Name, &term.LexOrder,
			&term.Enabled, &term.Action, &term.Option, &term.Logging,
			&term.NegateSourceNetworks, &term.NegateDestinationNetworks,
			&term.NestedPolicyID); err != nil {
			return err
		}
		policy := byID[term.PolicyID]
		term.PolicyName = policy.Name
		policy.Terms = append(policy.Terms, term)
		termIDs = append(termIDs, term.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, policy := range byID {
		for i := range policy.Terms {
			termIndex[policy.Terms[i].ID] = &policy.Terms[i]
		}
	}
	if len(termIDs) == 0 {
		return nil
	}

	links := []struct {
		table  string
		column string
		assign func(t *model.PolicyTerm, id int64)
	}{
		{"policy_term_source_networks", "network_id",
			func(t *model.PolicyTerm, id int64) { t.SourceNetworkIDs = append(t.SourceNetworkIDs, id) }},
		{"policy_term_destination_networks", "network_id",
			func(t *model.PolicyTerm, id int64) { t.DestinationNetworkIDs = append(t.DestinationNetworkIDs, id) }},
		{"policy_term_source_services", "service_id",
			func(t *model.PolicyTerm, id int64) { t.SourceServiceIDs = append(t.SourceServiceIDs, id) }},
		{"policy_term_destination_services", "service_id",
			func(t *model.PolicyTerm, id int64) { t.DestinationServiceIDs = append(t.DestinationServiceIDs, id) }},
	}
	for _, link := range links {
		query := fmt.Sprintf(`SELECT policy_term_id, %s FROM %s WHERE policy_term_id IN (%s) ORDER BY %s`,
			link.column, link.table, placeholders(len(termIDs)), link.column)
		linkRows, err := r.db.Query(r.db.Rebind(query), int64Args(termIDs)...)
		if err != nil {
			return err
		}
		for linkRows.Next() {
			var termID, linkedID int64
			if err := linkRows.Scan(&termID, &linkedID); err != nil {
				linkRows.Close()
				return err
			}
			link.assign(termIndex[termID], linkedID)
		}
		if err := linkRows.Err(); err != nil {
			linkRows.Close()
			return err
		}
		linkRows.Close()
	}
	return nil
}

func (r *PolicyRepo) loadLinksInto(byID map[int64]*model.Policy, policyIDs []int64) error {
	links := []struct {
		query  string
		assign func(p *model.Policy, id int64)
	}{
		{fmt.Sprintf(`SELECT policy_id, target_id FROM policy_targets WHERE policy_id IN (%s) ORDER BY target_id`,
			placeholders(len(policyIDs))),
			func(p *model.Policy, id int64) { p.TargetIDs = append(p.TargetIDs, id) }},
		{fmt.Sprintf(`SELECT policy_id, test_id FROM policy_tests WHERE policy_id IN (%s) ORDER BY test_id`,
			placeholders(len(policyIDs))),
			func(p *model.Policy, id int64) { p.TestIDs = append(p.TestIDs, id) }},
	}
	for _, link := range links {
		rows, err := r.db.Query(r.db.Rebind(link.query), int64Args(policyIDs)...)
		if err != nil {
			return err
		}
		for rows.Next() {
			var policyID, linkedID int64
			if err := rows.Scan(&policyID, &linkedID); err != nil {
				rows.Close()
				return err
			}
			link.assign(byID[policyID], linkedID)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

// UpdatePolicy replaces the policy row, its terms, and its links, marks the
// policy edited, and runs the edit-propagation walk in the same transaction
func (r *PolicyRepo) UpdatePolicy(policy *model.Policy) error {
	policy.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(r.db.Rebind(`
		UPDATE policies SET name = ?, comment = ?, custom_header = ?, updated_at = ? WHERE id = ?`),
		policy.Name, policy.Comment, policy.CustomHeader, policy.UpdatedAt, policy.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	for _, table := range []string{"policy_terms", "policy_targets", "policy_tests"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE policy_id = ?`, table)
		if _, err := tx.Exec(r.db.Rebind(query), policy.ID); err != nil {
			return err
		}
	}
	if err := r.insertTerms(tx, policy); err != nil {
		return err
	}
	if err := r.insertLinks(tx, policy); err != nil {
		return err
	}

	if err := propagatePolicyEdit(r.db, tx, policy.ID); err != nil {
		return err
	}
	policy.Edited = true

	return tx.Commit()
}

// DeletePolicy removes a policy; terms and links cascade
func (r *PolicyRepo) DeletePolicy(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM policies WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetPolicyUsage reports every policy and dynamic policy transitively
// referencing the policy
func (r *PolicyRepo) GetPolicyUsage(id int64) (*model.Usage, error) {
	policies, err := containingPolicyIDs(r.db, r.db, []int64{id})
	if err != nil {
		return nil, err
	}
	dynamics, err := dynamicPoliciesReferencingPolicies(r.db, r.db, policies)
	if err != nil {
		return nil, err
	}

	usage := &model.Usage{DynamicPolicyIDs: dynamics}
	for _, policyID := range policies {
		if policyID != id {
			usage.PolicyIDs = append(usage.PolicyIDs, policyID)
		}
	}
	return usage, nil
}
