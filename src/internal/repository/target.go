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

// TargetRepo implements TargetRepository
type TargetRepo struct {
	db *database.DB
}

// NewTargetRepo creates a new target repository
func NewTargetRepo(db *database.DB) TargetRepository {
	return &TargetRepo{db: db}
}

// CreateTarget inserts a target with its substitutions
func (r *TargetRepo) CreateTarget(target *model.Target) error {
	target.CreatedAt = time.Now()
	target.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx,
		`INSERT INTO targets (name, generator, inet_mode, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		target.Name, target.Generator, target.InetMode, target.CreatedAt, target.UpdatedAt)
	if err != nil {
		return err
	}
	target.ID = id

	if err := r.insertSubstitutions(tx, target); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *TargetRepo) insertSubstitutions(tx *sql.Tx, target *model.Target) error {
	for i := range target.Substitutions {
		sub := &target.Substitutions[i]
		sub.TargetID = target.ID
		sub.Position = i
		id, err := insertReturningID(r.db, tx,
			`INSERT INTO target_substitutions (target_id, name, value, position) VALUES (?, ?, ?, ?)`,
			target.ID, sub.Name, sub.Value, i)
		if err != nil {
			return err
		}
		sub.ID = id
	}
	return nil
}

// GetTargetByID retrieves a target with its substitutions; returns nil when
// not found
func (r *TargetRepo) GetTargetByID(id int64) (*model.Target, error) {
	targets, err := r.loadTargets(`WHERE id = ?`, id)
	if err != nil || len(targets) == 0 {
		return nil, err
	}
	return targets[0], nil
}

// GetTargetByName retrieves a target by its unique name
func (r *TargetRepo) GetTargetByName(name string) (*model.Target, error) {
	targets, err := r.loadTargets(`WHERE name = ?`, name)
	if err != nil || len(targets) == 0 {
		return nil, err
	}
	return targets[0], nil
}

// GetTargetsByIDs retrieves the given targets in id order
func (r *TargetRepo) GetTargetsByIDs(ids []int64) ([]*model.Target, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	clause := fmt.Sprintf(`WHERE id IN (%s) ORDER BY id`, placeholders(len(ids)))
	return r.loadTargets(clause, int64Args(ids)...)
}

// ListTargets retrieves targets with filtering and pagination
func (r *TargetRepo) ListTargets(opts *ListOptions) ([]*model.Target, error) {
	conds, args := opts.filterConds()
	clause := whereClause(conds) + opts.orderClause("id", "name", "generator", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	return r.loadTargets(clause+pageSQL, append(args, pageArgs...)...)
}

func (r *TargetRepo) loadTargets(clause string, args ...any) ([]*model.Target, error) {
	query := `SELECT id, name, generator, inet_mode, created_at, updated_at FROM targets ` + clause
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []*model.Target
	byID := make(map[int64]*model.Target)
	var ids []int64
	for rows.Next() {
		target := &model.Target{}
		if err := rows.Scan(&target.ID, &target.Name, &target.Generator, &target.InetMode,
			&target.CreatedAt, &target.UpdatedAt); err != nil {
			return nil, err
		}
		targets = append(targets, target)
		byID[target.ID] = target
		ids = append(ids, target.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, nil
	}

	query = fmt.Sprintf(`
		SELECT id, target_id, name, value, position
		FROM target_substitutions
		WHERE target_id IN (%s)
		ORDER BY target_id, position`, placeholders(len(ids)))
	subRows, err := r.db.Query(r.db.Rebind(query), int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()
	for subRows.Next() {
		var sub model.TargetSubstitution
		if err := subRows.Scan(&sub.ID, &sub.TargetID, &sub.Name, &sub.Value, &sub.Position); err != nil {
			return nil, err
		}
		target := byID[sub.TargetID]
		target.Substitutions = append(target.Substitutions, sub)
	}
	return targets, subRows.Err()
}

// UpdateTarget replaces the target row and its substitutions and runs the
// edit-propagation walk in the same transaction
func (r *TargetRepo) UpdateTarget(target *model.Target) error {
	target.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(r.db.Rebind(`
		UPDATE targets SET name = ?, generator = ?, inet_mode = ?, updated_at = ? WHERE id = ?`),
		target.Name, target.Generator, target.InetMode, target.UpdatedAt, target.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM target_substitutions WHERE target_id = ?`), target.ID); err != nil {
		return err
	}
	if err := r.insertSubstitutions(tx, target); err != nil {
		return err
	}

	if err := propagateTargetEdit(r.db, tx, target.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteTarget removes a target; substitutions cascade
func (r *TargetRepo) DeleteTarget(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM targets WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
