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

// DeploymentRepo implements DeploymentRepository
type DeploymentRepo struct {
	db *database.DB
}

// NewDeploymentRepo creates a new deployment repository
func NewDeploymentRepo(db *database.DB) DeploymentRepository {
	return &DeploymentRepo{db: db}
}

// CreateDeployment inserts a deployment row
func (r *DeploymentRepo) CreateDeployment(deployment *model.Deployment) error {
	deployment.CreatedAt = time.Now()
	deployment.UpdatedAt = time.Now()

	id, err := insertReturningID(r.db, r.db, `
		INSERT INTO deployments (deployer_id, revision_id, status, output, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		deployment.DeployerID, deployment.RevisionID, deployment.Status,
		deployment.Output, deployment.CreatedAt, deployment.UpdatedAt)
	if err != nil {
		return err
	}
	deployment.ID = id
	return nil
}

// GetDeploymentByID retrieves a deployment; returns nil when not found
func (r *DeploymentRepo) GetDeploymentByID(id int64) (*model.Deployment, error) {
	deployment := &model.Deployment{}
	query := `
		SELECT id, deployer_id, revision_id, status, output, created_at, updated_at
		FROM deployments
		WHERE id = ?`
	err := r.db.QueryRow(r.db.Rebind(query), id).Scan(
		&deployment.ID, &deployment.DeployerID, &deployment.RevisionID,
		&deployment.Status, &deployment.Output, &deployment.CreatedAt, &deployment.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return deployment, nil
}

// ListDeployments retrieves deployments, optionally narrowed to one
// revision or deployer
func (r *DeploymentRepo) ListDeployments(revisionID, deployerID *int64, opts *ListOptions) ([]*model.Deployment, error) {
	var conds []string
	var args []any
	if opts != nil && opts.ID != nil {
		conds = append(conds, "id = ?")
		args = append(args, *opts.ID)
	}
	if revisionID != nil {
		conds = append(conds, "revision_id = ?")
		args = append(args, *revisionID)
	}
	if deployerID != nil {
		conds = append(conds, "deployer_id = ?")
		args = append(args, *deployerID)
	}

	query := `SELECT id, deployer_id, revision_id, status, output, created_at, updated_at FROM deployments ` +
		whereClause(conds) + opts.orderClause("id", "status", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	rows, err := r.db.Query(r.db.Rebind(query+pageSQL), append(args, pageArgs...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deployments []*model.Deployment
	for rows.Next() {
		deployment := &model.Deployment{}
		if err := rows.Scan(&deployment.ID, &deployment.DeployerID, &deployment.RevisionID,
			&deployment.Status, &deployment.Output, &deployment.CreatedAt, &deployment.UpdatedAt); err != nil {
			return nil, err
		}
		deployments = append(deployments, deployment)
	}
	return deployments, rows.Err()
}

// UpdateDeploymentStatus records a worker's status transition and captured
// log
func (r *DeploymentRepo) UpdateDeploymentStatus(id int64, status string, output string) error {
	result, err := r.db.Exec(r.db.Rebind(`
		UPDATE deployments SET status = ?, output = ?, updated_at = ? WHERE id = ?`),
		status, output, time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteDeployment removes a deployment record
func (r *DeploymentRepo) DeleteDeployment(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM deployments WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
