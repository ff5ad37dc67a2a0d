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

// ServiceRepo implements ServiceRepository
type ServiceRepo struct {
	db *database.DB
}

// NewServiceRepo creates a new service repository
func NewServiceRepo(db *database.DB) ServiceRepository {
	return &ServiceRepo{db: db}
}

// CreateService inserts a service with its entries
func (r *ServiceRepo) CreateService(service *model.Service) error {
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx,
		`INSERT INTO services (name, created_at, updated_at) VALUES (?, ?, ?)`,
		service.Name, service.CreatedAt, service.UpdatedAt)
	if err != nil {
		return err
	}
	service.ID = id

	if err := r.insertEntries(tx, service); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ServiceRepo) insertEntries(tx *sql.Tx, service *model.Service) error {
	for i := range service.Entries {
		entry := &service.Entries[i]
		entry.ServiceID = service.ID
		id, err := insertReturningID(r.db, tx, `
			INSERT INTO service_entries (service_id, protocol, port, nested_service_id, position)
			VALUES (?, ?, ?, ?, ?)`,
			service.ID, entry.Protocol, entry.Port, entry.NestedServiceID, i)
		if err != nil {
			return err
		}
		entry.ID = id
	}
	return nil
}

// GetServiceByID retrieves a service with its entries; returns nil when not
// found
func (r *ServiceRepo) GetServiceByID(id int64) (*model.Service, error) {
	services, err := r.loadServices(`WHERE id = ?`, id)
	if err != nil || len(services) == 0 {
		return nil, err
	}
	return services[0], nil
}

// GetServiceByName retrieves a service by its unique name
func (r *ServiceRepo) GetServiceByName(name string) (*model.Service, error) {
	services, err := r.loadServices(`WHERE name = ?`, name)
	if err != nil || len(services) == 0 {
		return nil, err
	}
	return services[0], nil
}

// GetServicesByIDs retrieves the given services in id order
func (r *ServiceRepo) GetServicesByIDs(ids []int64) ([]*model.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	clause := fmt.Sprintf(`WHERE id IN (%s) ORDER BY id`, placeholders(len(ids)))
	return r.loadServices(clause, int64Args(ids)...)
}

// ListServices retrieves services with filtering and pagination
func (r *ServiceRepo) ListServices(opts *ListOptions) ([]*model.Service, error) {
	conds, args := opts.filterConds()
	clause := whereClause(conds) + opts.orderClause("id", "name", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	return r.loadServices(clause+pageSQL, append(args, pageArgs...)...)
}

func (r *ServiceRepo) loadServices(clause string, args ...any) ([]*model.Service, error) {
	query := `SELECT id, name, created_at, updated_at FROM services ` + clause
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*model.Service
	var ids []int64
	for rows.Next() {
		service := &model.Service{}
		if err := rows.Scan(&service.ID, &service.Name, &service.CreatedAt, &service.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, service)
		ids = append(ids, service.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := r.loadEntriesFor(ids)
	if err != nil {
		return nil, err
	}
	for _, service := range services {
		service.Entries = entries[service.ID]
	}
	return services, nil
}

func (r *ServiceRepo) loadEntriesFor(serviceIDs []int64) (map[int64][]model.ServiceEntry, error) {
	byService := make(map[int64][]model.ServiceEntry)
	if len(serviceIDs) == 0 {
		return byService, nil
	}
	query := fmt.Sprintf(`
		SELECT id, service_id, protocol, port, nested_service_id
		FROM service_entries
		WHERE service_id IN (%s)
		ORDER BY service_id, position`, placeholders(len(serviceIDs)))
	rows, err := r.db.Query(r.db.Rebind(query), int64Args(serviceIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry model.ServiceEntry
		if err := rows.Scan(&entry.ID, &entry.ServiceID, &entry.Protocol, &entry.Port, &entry.NestedServiceID); err != nil {
			return nil, err
		}
		byService[entry.ServiceID] = append(byService[entry.ServiceID], entry)
	}
	return byService, rows.Err()
}

// UpdateService replaces the service row and its entries and runs the
// edit-propagation walk in the same transaction
func (r *ServiceRepo) UpdateService(service *model.Service) error {
	service.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(r.db.Rebind(`UPDATE services SET name = ?, updated_at = ? WHERE id = ?`),
		service.Name, service.UpdatedAt, service.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM service_entries WHERE service_id = ?`), service.ID); err != nil {
		return err
	}
	if err := r.insertEntries(tx, service); err != nil {
		return err
	}

	if err := propagateServiceEdit(r.db, tx, service.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteService removes a service; its own entries cascade
func (r *ServiceRepo) DeleteService(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM services WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetServiceUsage reports every service and policy transitively referencing
// the service
func (r *ServiceRepo) GetServiceUsage(id int64) (*model.Usage, error) {
	services, err := containingServiceIDs(r.db, r.db, []int64{id})
	if err != nil {
		return nil, err
	}
	policies, err := policiesReferencingServices(r.db, r.db, services)
	if err != nil {
		return nil, err
	}
	policies, err = containingPolicyIDs(r.db, r.db, policies)
	if err != nil {
		return nil, err
	}
	dynamics, err := dynamicPoliciesReferencingPolicies(r.db, r.db, policies)
	if err != nil {
		return nil, err
	}

	usage := &model.Usage{
		PolicyIDs:        policies,
		DynamicPolicyIDs: dynamics,
	}
	for _, serviceID := range services {
		if serviceID != id {
			usage.ServiceIDs = append(usage.ServiceIDs, serviceID)
		}
	}
	return usage, nil
}
