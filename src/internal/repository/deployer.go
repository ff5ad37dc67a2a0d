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

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/database"
	"acl-platform/src/internal/model"
)

// DeployerRepo implements DeployerRepository
type DeployerRepo struct {
	db *database.DB
}

// NewDeployerRepo creates a new deployer repository
func NewDeployerRepo(db *database.DB) DeployerRepository {
	return &DeployerRepo{db: db}
}

// deployerConfigRow is the flattened deployer_configs row; the deployer's
// mode decides which columns are meaningful.
type deployerConfigRow struct {
	RepoURL     sql.NullString
	Branch      sql.NullString
	FolderPath  sql.NullString
	Host        sql.NullString
	Port        sql.NullInt64
	Username    sql.NullString
	PasswordEnv sql.NullString
	EnableEnv   sql.NullString
	SSHKeyEnv   sql.NullString
}

func flattenConfig(d *model.Deployer) deployerConfigRow {
	var row deployerConfigRow
	switch {
	case d.Git != nil:
		row.RepoURL = sql.NullString{String: d.Git.RepoURL, Valid: true}
		row.Branch = sql.NullString{String: d.Git.Branch, Valid: true}
		row.FolderPath = sql.NullString{String: d.Git.FolderPath, Valid: true}
		row.SSHKeyEnv = sql.NullString{String: d.Git.SSHKeyEnv, Valid: true}
	case d.Netmiko != nil:
		row.Host = sql.NullString{String: d.Netmiko.Host, Valid: true}
		row.Port = sql.NullInt64{Int64: int64(d.Netmiko.Port), Valid: true}
		row.Username = sql.NullString{String: d.Netmiko.Username, Valid: true}
		row.PasswordEnv = sql.NullString{String: d.Netmiko.PasswordEnv, Valid: true}
		row.EnableEnv = sql.NullString{String: d.Netmiko.EnableEnv, Valid: true}
		row.SSHKeyEnv = sql.NullString{String: d.Netmiko.SSHKeyEnv, Valid: true}
	case d.ProxmoxNft != nil:
		row.Host = sql.NullString{String: d.ProxmoxNft.Host, Valid: true}
		row.Port = sql.NullInt64{Int64: int64(d.ProxmoxNft.Port), Valid: true}
		row.Username = sql.NullString{String: d.ProxmoxNft.Username, Valid: true}
		row.PasswordEnv = sql.NullString{String: d.ProxmoxNft.PasswordEnv, Valid: true}
		row.SSHKeyEnv = sql.NullString{String: d.ProxmoxNft.SSHKeyEnv, Valid: true}
	}
	return row
}

func (row *deployerConfigRow) unflatten(d *model.Deployer) {
	switch d.Mode {
	case constants.DeployerModeGit:
		d.Git = &model.DeployerGitConfig{
			RepoURL:    row.RepoURL.String,
			Branch:     row.Branch.String,
			FolderPath: row.FolderPath.String,
			SSHKeyEnv:  row.SSHKeyEnv.String,
		}
	case constants.DeployerModeNetmiko:
		d.Netmiko = &model.DeployerNetmikoConfig{
			Host:        row.Host.String,
			Port:        int(row.Port.Int64),
			Username:    row.Username.String,
			PasswordEnv: row.PasswordEnv.String,
			EnableEnv:   row.EnableEnv.String,
			SSHKeyEnv:   row.SSHKeyEnv.String,
		}
	case constants.DeployerModeProxmoxNft:
		d.ProxmoxNft = &model.DeployerProxmoxNftConfig{
			Host:        row.Host.String,
			Port:        int(row.Port.Int64),
			Username:    row.Username.String,
			PasswordEnv: row.PasswordEnv.String,
			SSHKeyEnv:   row.SSHKeyEnv.String,
		}
	}
}

// CreateDeployer inserts a deployer with its mode config
func (r *DeployerRepo) CreateDeployer(deployer *model.Deployer) error {
	deployer.CreatedAt = time.Now()
	deployer.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx,
		`INSERT INTO deployers (name, mode, target_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		deployer.Name, deployer.Mode, deployer.TargetID, deployer.CreatedAt, deployer.UpdatedAt)
	if err != nil {
		return err
	}
	deployer.ID = id

	if err := r.insertConfig(tx, deployer); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *DeployerRepo) insertConfig(tx *sql.Tx, deployer *model.Deployer) error {
	row := flattenConfig(deployer)
	_, err := tx.Exec(r.db.Rebind(`
		INSERT INTO deployer_configs (deployer_id, repo_url, branch, folder_path,
			host, port, username, password_env, enable_env, ssh_key_env)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		deployer.ID, row.RepoURL, row.Branch, row.FolderPath,
		row.Host, row.Port, row.Username, row.PasswordEnv, row.EnableEnv, row.SSHKeyEnv)
	return err
}

// GetDeployerByID retrieves a deployer with its config; returns nil when
// not found
func (r *DeployerRepo) GetDeployerByID(id int64) (*model.Deployer, error) {
	deployers, err := r.loadDeployers(`WHERE d.id = ?`, id)
	if err != nil || len(deployers) == 0 {
		return nil, err
	}
	return deployers[0], nil
}

// GetDeployerByName retrieves a deployer by its unique name
func (r *DeployerRepo) GetDeployerByName(name string) (*model.Deployer, error) {
	deployers, err := r.loadDeployers(`WHERE d.name = ?`, name)
	if err != nil || len(deployers) == 0 {
		return nil, err
	}
	return deployers[0], nil
}

// ListDeployers retrieves deployers with filtering and pagination
func (r *DeployerRepo) ListDeployers(opts *ListOptions) ([]*model.Deployer, error) {
	conds, args := opts.filterConds()
	for i := range conds {
		conds[i] = "d." + conds[i]
	}
	clause := whereClause(conds) + " ORDER BY d.id"
	pageSQL, pageArgs := opts.pageClause()
	return r.loadDeployers(clause+pageSQL, append(args, pageArgs...)...)
}

// ListDeployersByTargetID retrieves the deployers bound to one target in id
// order; deploy fan-out iterates this
func (r *DeployerRepo) ListDeployersByTargetID(targetID int64) ([]*model.Deployer, error) {
	return r.loadDeployers(`WHERE d.target_id = ? ORDER BY d.id`, targetID)
}

func (r *DeployerRepo) loadDeployers(clause string, args ...any) ([]*model.Deployer, error) {
	query := `
		SELECT d.id, d.name, d.mode, d.target_id, d.created_at, d.updated_at,
			c.repo_url, c.branch, c.folder_path, c.host, c.port, c.username,
			c.password_env, c.enable_env, c.ssh_key_env
		FROM deployers d
		JOIN deployer_configs c ON c.deployer_id = d.id ` + clause
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deployers []*model.Deployer
	for rows.Next() {
		deployer := &model.Deployer{}
		var row deployerConfigRow
		if err := rows.Scan(&deployer.ID, &deployer.Name, &deployer.Mode, &deployer.TargetID,
			&deployer.CreatedAt, &deployer.UpdatedAt,
			&row.RepoURL, &row.Branch, &row.FolderPath, &row.Host, &row.Port,
			&row.Username, &row.PasswordEnv, &row.EnableEnv, &row.SSHKeyEnv); err != nil {
			return nil, err
		}
		row.unflatten(deployer)
		deployers = append(deployers, deployer)
	}
	return deployers, rows.Err()
}

// UpdateDeployer replaces the deployer row and its config
func (r *DeployerRepo) UpdateDeployer(deployer *model.Deployer) error {
	deployer.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(r.db.Rebind(`
		UPDATE deployers SET name = ?, mode = ?, target_id = ?, updated_at = ? WHERE id = ?`),
		deployer.Name, deployer.Mode, deployer.TargetID, deployer.UpdatedAt, deployer.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM deployer_configs WHERE deployer_id = ?`), deployer.ID); err != nil {
		return err
	}
	if err := r.insertConfig(tx, deployer); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteDeployer removes a deployer; its config and deployments cascade
func (r *DeployerRepo) DeleteDeployer(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM deployers WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
