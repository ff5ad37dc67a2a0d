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

// DynamicPolicyRepo implements DynamicPolicyRepository
type DynamicPolicyRepo struct {
	db *database.DB
}

// NewDynamicPolicyRepo creates a new dynamic policy repository
func NewDynamicPolicyRepo(db *database.DB) DynamicPolicyRepository {
	return &DynamicPolicyRepo{db: db}
}

// link tables of a dynamic policy, keyed by the linked id column.
var dynamicPolicyLinks = []struct {
	table  string
	column string
}{
	{"dynamic_policy_source_filters", "network_id"},
	{"dynamic_policy_destination_filters", "network_id"},
	{"dynamic_policy_policy_filters", "policy_id"},
	{"dynamic_policy_targets", "target_id"},
	{"dynamic_policy_tests", "test_id"},
}

// CreateDynamicPolicy inserts a dynamic policy with its filter, target, and
// test links
func (r *DynamicPolicyRepo) CreateDynamicPolicy(policy *model.DynamicPolicy) error {
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx, `
		INSERT INTO dynamic_policies (name, comment, filter_action, default_action, edited, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		policy.Name, policy.Comment, policy.FilterAction, policy.DefaultAction,
		policy.Edited, policy.CreatedAt, policy.UpdatedAt)
	if err != nil {
		return err
	}
	policy.ID = id

	if err := r.insertLinks(tx, policy); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *DynamicPolicyRepo) insertLinks(tx *sql.Tx, policy *model.DynamicPolicy) error {
	idSets := [][]int64{
		policy.SourceFilterIDs, policy.DestinationFilterIDs,
		policy.PolicyFilterIDs, policy.TargetIDs, policy.TestIDs,
	}
	for i, link := range dynamicPolicyLinks {
		for _, linkedID := range idSets[i] {
			query := fmt.Sprintf(`INSERT INTO %s (dynamic_policy_id, %s) VALUES (?, ?)`,
				link.table, link.column)
			if _, err := tx.Exec(r.db.Rebind(query), policy.ID, linkedID); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetDynamicPolicyByID retrieves a dynamic policy aggregate; returns nil
// when not found
func (r *DynamicPolicyRepo) GetDynamicPolicyByID(id int64) (*model.DynamicPolicy, error) {
	policies, err := r.loadDynamicPolicies(`WHERE id = ?`, id)
	if err != nil || len(policies) == 0 {
		return nil, err
	}
	return policies[0], nil
}

// GetDynamicPolicyByName retrieves a dynamic policy by its unique name
func (r *DynamicPolicyRepo) GetDynamicPolicyByName(name string) (*model.DynamicPolicy, error) {
	policies, err := r.loadDynamicPolicies(`WHERE name = ?`, name)
	if err != nil || len(policies) == 0 {
		return nil, err
	}
	return policies[0], nil
}

// ListDynamicPolicies retrieves dynamic policies with filtering and
// pagination
func (r *DynamicPolicyRepo) ListDynamicPolicies(opts *ListOptions) ([]*model.DynamicPolicy, error) {
	conds, args := opts.filterConds()
	clause := whereClause(conds) + opts.orderClause("id", "name", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	return r.loadDynamicPolicies(clause+pageSQL, append(args, pageArgs...)...)
}

func (r *DynamicPolicyRepo) loadDynamicPolicies(clause string, args ...any) ([]*model.DynamicPolicy, error) {
	query := `
		SELECT id, name, comment, filter_action, default_action, edited, created_at, updated_at
		FROM dynamic_policies ` + clause
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*model.DynamicPolicy
	byID := make(map[int64]*model.DynamicPolicy)
	var ids []int64
	for rows.Next() {
		policy := &model.DynamicPolicy{}
		if err := rows.Scan(&policy.ID, &policy.Name, &policy.Comment, &policy.FilterAction,
			&policy.DefaultAction, &policy.Edited, &policy.CreatedAt, &policy.UpdatedAt); err != nil {
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

	assigns := []func(p *model.DynamicPolicy, id int64){
		func(p *model.DynamicPolicy, id int64) { p.SourceFilterIDs = append(p.SourceFilterIDs, id) },
		func(p *model.DynamicPolicy, id int64) { p.DestinationFilterIDs = append(p.DestinationFilterIDs, id) },
		func(p *model.DynamicPolicy, id int64) { p.PolicyFilterIDs = append(p.PolicyFilterIDs, id) },
		func(p *model.DynamicPolicy, id int64) { p.TargetIDs = append(p.TargetIDs, id) },
		func(p *model.DynamicPolicy, id int64) { p.TestIDs = append(p.TestIDs, id) },
	}
	for i, link := range dynamicPolicyLinks {
		query := fmt.Sprintf(`SELECT dynamic_policy_id, %s FROM %s WHERE dynamic_policy_id IN (%s) ORDER BY %s`,
			link.column, link.table, placeholders(len(ids)), link.column)
		linkRows, err := r.db.Query(r.db.Rebind(query), int64Args(ids)...)
		if err != nil {
			return nil, err
		}
		for linkRows.Next() {
			var policyID, linkedID int64
			if err := linkRows.Scan(&policyID, &linkedID); err != nil {
				linkRows.Close()
				return nil, err
			}
			assigns[i](byID[policyID], linkedID)
		}
		if err := linkRows.Err(); err != nil {
			linkRows.Close()
			return nil, err
		}
		linkRows.Close()
	}
	return policies, nil
}

// UpdateDynamicPolicy replaces the dynamic policy row and its links and
// marks it edited in the same transaction
func (r *DynamicPolicyRepo) UpdateDynamicPolicy(policy *model.DynamicPolicy) error {
	policy.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(r.db.Rebind(`
		UPDATE dynamic_policies
		SET name = ?, comment = ?, filter_action = ?, default_action = ?, edited = ?, updated_at = ?
		WHERE id = ?`),
		policy.Name, policy.Comment, policy.FilterAction, policy.DefaultAction,
		true, policy.UpdatedAt, policy.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	for _, link := range dynamicPolicyLinks {
		query := fmt.Sprintf(`DELETE FROM %s WHERE dynamic_policy_id = ?`, link.table)
		if _, err := tx.Exec(r.db.Rebind(query), policy.ID); err != nil {
			return err
		}
	}
	if err := r.insertLinks(tx, policy); err != nil {
		return err
	}
	policy.Edited = true

	return tx.Commit()
}

// DeleteDynamicPolicy removes a dynamic policy; links cascade
func (r *DynamicPolicyRepo) DeleteDynamicPolicy(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM dynamic_policies WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
