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
	"time"

	"acl-platform/src/internal/database"
	"acl-platform/src/internal/model"
)

// RevisionRepo implements RevisionRepository
type RevisionRepo struct {
	db *database.DB
}

// NewRevisionRepo creates a new revision repository
func NewRevisionRepo(db *database.DB) RevisionRepository {
	return &RevisionRepo{db: db}
}

// CreateRevision persists the revision, its configs in the given order, and
// the edited-flag clear on the source policy in one transaction. Snapshots
// are frozen here and never updated afterwards.
func (r *RevisionRepo) CreateRevision(revision *model.Revision) error {
	revision.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx, `
		INSERT INTO revisions (comment, policy_id, dynamic_policy_id, json_data, expanded_terms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		revision.Comment, revision.PolicyID, revision.DynamicPolicyID,
		revision.JSONData, revision.ExpandedTerms, revision.CreatedAt)
	if err != nil {
		return err
	}
	revision.ID = id

	for i := range revision.Configs {
		cfg := &revision.Configs[i]
		cfg.RevisionID = id
		cfgID, err := insertReturningID(r.db, tx, `
			INSERT INTO revision_configs (revision_id, target_id, filter_name, filename, config)
			VALUES (?, ?, ?, ?, ?)`,
			id, cfg.TargetID, cfg.FilterName, cfg.Filename, cfg.Config)
		if err != nil {
			return err
		}
		cfg.ID = cfgID
	}

	// A successful revision supersedes any pending edits on its source.
	if revision.PolicyID != nil {
		if _, err := tx.Exec(r.db.Rebind(`UPDATE policies SET edited = ? WHERE id = ?`),
			false, *revision.PolicyID); err != nil {
			return err
		}
	}
	if revision.DynamicPolicyID != nil {
		if _, err := tx.Exec(r.db.Rebind(`UPDATE dynamic_policies SET edited = ? WHERE id = ?`),
			false, *revision.DynamicPolicyID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRevisionByID retrieves a revision with its configs; returns nil when
// not found
func (r *RevisionRepo) GetRevisionByID(id int64) (*model.Revision, error) {
	revision := &model.Revision{}
	query := `
		SELECT id, comment, policy_id, dynamic_policy_id, json_data, expanded_terms, created_at
		FROM revisions
		WHERE id = ?`
	err := r.db.QueryRow(r.db.Rebind(query), id).Scan(
		&revision.ID, &revision.Comment, &revision.PolicyID, &revision.DynamicPolicyID,
		&revision.JSONData, &revision.ExpandedTerms, &revision.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	revision.Configs, err = r.ListRevisionConfigs(id)
	if err != nil {
		return nil, err
	}
	return revision, nil
}

// ListRevisions retrieves revision briefs, optionally narrowed to one
// policy or dynamic policy. Briefs omit the snapshot and config blobs.
func (r *RevisionRepo) ListRevisions(policyID, dynamicPolicyID *int64, opts *ListOptions) ([]*model.Revision, error) {
	conds, args := opts.filterConds()
	if policyID != nil {
		conds = append(conds, "policy_id = ?")
		args = append(args, *policyID)
	}
	if dynamicPolicyID != nil {
		conds = append(conds, "dynamic_policy_id = ?")
		args = append(args, *dynamicPolicyID)
	}

	query := `SELECT id, comment, policy_id, dynamic_policy_id, created_at FROM revisions ` +
		whereClause(conds) + opts.orderClause("id", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	rows, err := r.db.Query(r.db.Rebind(query+pageSQL), append(args, pageArgs...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []*model.Revision
	for rows.Next() {
		revision := &model.Revision{}
		if err := rows.Scan(&revision.ID, &revision.Comment, &revision.PolicyID,
			&revision.DynamicPolicyID, &revision.CreatedAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, revision)
	}
	return revisions, rows.Err()
}

// DeleteRevision removes a revision; configs and deployments cascade
func (r *RevisionRepo) DeleteRevision(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM revisions WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetRevisionConfig retrieves the rendered config for one (revision,
// target) pair; returns nil when not found
func (r *RevisionRepo) GetRevisionConfig(revisionID, targetID int64) (*model.RevisionConfig, error) {
	cfg := &model.RevisionConfig{}
	query := `
		SELECT id, revision_id, target_id, filter_name, filename, config
		FROM revision_configs
		WHERE revision_id = ? AND target_id = ?`
	err := r.db.QueryRow(r.db.Rebind(query), revisionID, targetID).Scan(
		&cfg.ID, &cfg.RevisionID, &cfg.TargetID, &cfg.FilterName, &cfg.Filename, &cfg.Config)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

// ListRevisionConfigs retrieves a revision's configs in target-id order
func (r *RevisionRepo) ListRevisionConfigs(revisionID int64) ([]model.RevisionConfig, error) {
	query := `
		SELECT id, revision_id, target_id, filter_name, filename, config
		FROM revision_configs
		WHERE revision_id = ?
		ORDER BY target_id`
	rows, err := r.db.Query(r.db.Rebind(query), revisionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []model.RevisionConfig
	for rows.Next() {
		var cfg model.RevisionConfig
		if err := rows.Scan(&cfg.ID, &cfg.RevisionID, &cfg.TargetID, &cfg.FilterName,
			&cfg.Filename, &cfg.Config); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}
