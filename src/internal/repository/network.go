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

// NetworkRepo implements NetworkRepository
type NetworkRepo struct {
	db *database.DB
}

// NewNetworkRepo creates a new network repository
func NewNetworkRepo(db *database.DB) NetworkRepository {
	return &NetworkRepo{db: db}
}

// CreateNetwork inserts a network with its addresses
func (r *NetworkRepo) CreateNetwork(network *model.Network) error {
	network.CreatedAt = time.Now()
	network.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx,
		`INSERT INTO networks (name, created_at, updated_at) VALUES (?, ?, ?)`,
		network.Name, network.CreatedAt, network.UpdatedAt)
	if err != nil {
		return err
	}
	network.ID = id

	if err := r.insertAddresses(tx, network); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *NetworkRepo) insertAddresses(tx *sql.Tx, network *model.Network) error {
	for i := range network.Addresses {
		addr := &network.Addresses[i]
		addr.NetworkID = network.ID
		id, err := insertReturningID(r.db, tx, `
			INSERT INTO network_addresses (network_id, address, nested_network_id, comment, position)
			VALUES (?, ?, ?, ?, ?)`,
			network.ID, addr.Address, addr.NestedNetworkID, addr.Comment, i)
		if err != nil {
			return err
		}
		addr.ID = id
	}
	return nil
}

// GetNetworkByID retrieves a network with its addresses; returns nil when
// not found
func (r *NetworkRepo) GetNetworkByID(id int64) (*model.Network, error) {
	networks, err := r.loadNetworks(`WHERE id = ?`, id)
	if err != nil || len(networks) == 0 {
		return nil, err
	}
	return networks[0], nil
}

// GetNetworkByName retrieves a network by its unique name
func (r *NetworkRepo) GetNetworkByName(name string) (*model.Network, error) {
	networks, err := r.loadNetworks(`WHERE name = ?`, name)
	if err != nil || len(networks) == 0 {
		return nil, err
	}
	return networks[0], nil
}

// GetNetworksByIDs retrieves the given networks in id order
func (r *NetworkRepo) GetNetworksByIDs(ids []int64) ([]*model.Network, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	clause := fmt.Sprintf(`WHERE id IN (%s) ORDER BY id`, placeholders(len(ids)))
	return r.loadNetworks(clause, int64Args(ids)...)
}

// ListNetworks retrieves networks with filtering and pagination
func (r *NetworkRepo) ListNetworks(opts *ListOptions) ([]*model.Network, error) {
	conds, args := opts.filterConds()
	clause := whereClause(conds) + opts.orderClause("id", "name", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	return r.loadNetworks(clause+pageSQL, append(args, pageArgs...)...)
}

func (r *NetworkRepo) loadNetworks(clause string, args ...any) ([]*model.Network, error) {
	query := `SELECT id, name, created_at, updated_at FROM networks ` + clause
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var networks []*model.Network
	var ids []int64
	for rows.Next() {
		network := &model.Network{}
		if err := rows.Scan(&network.ID, &network.Name, &network.CreatedAt, &network.UpdatedAt); err != nil {
			return nil, err
		}
		networks = append(networks, network)
		ids = append(ids, network.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	addresses, err := r.loadAddressesFor(ids)
	if err != nil {
		return nil, err
	}
	for _, network := range networks {
		network.Addresses = addresses[network.ID]
	}
	return networks, nil
}

func (r *NetworkRepo) loadAddressesFor(networkIDs []int64) (map[int64][]model.NetworkAddress, error) {
	byNetwork := make(map[int64][]model.NetworkAddress)
	if len(networkIDs) == 0 {
		return byNetwork, nil
	}
	query := fmt.Sprintf(`
		SELECT id, network_id, address, nested_network_id, comment
		FROM network_addresses
		WHERE network_id IN (%s)
		ORDER BY network_id, position`, placeholders(len(networkIDs)))
	rows, err := r.db.Query(r.db.Rebind(query), int64Args(networkIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var addr model.NetworkAddress
		if err := rows.Scan(&addr.ID, &addr.NetworkID, &addr.Address, &addr.NestedNetworkID, &addr.Comment); err != nil {
			return nil, err
		}
		byNetwork[addr.NetworkID] = append(byNetwork[addr.NetworkID], addr)
	}
	return byNetwork, rows.Err()
}

// UpdateNetwork replaces the network row and its addresses and runs the
// edit-propagation walk in the same transaction
func (r *NetworkRepo) UpdateNetwork(network *model.Network) error {
	network.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(r.db.Rebind(`UPDATE networks SET name = ?, updated_at = ? WHERE id = ?`),
		network.Name, network.UpdatedAt, network.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM network_addresses WHERE network_id = ?`), network.ID); err != nil {
		return err
	}
	if err := r.insertAddresses(tx, network); err != nil {
		return err
	}

	if err := propagateNetworkEdit(r.db, tx, network.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteNetwork removes a network; its own addresses cascade
func (r *NetworkRepo) DeleteNetwork(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM networks WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetNetworkUsage reports every network, policy, and dynamic policy
// transitively referencing the network
func (r *NetworkRepo) GetNetworkUsage(id int64) (*model.Usage, error) {
	networks, err := containingNetworkIDs(r.db, r.db, []int64{id})
	if err != nil {
		return nil, err
	}
	policies, err := policiesReferencingNetworks(r.db, r.db, networks)
	if err != nil {
		return nil, err
	}
	policies, err = containingPolicyIDs(r.db, r.db, policies)
	if err != nil {
		return nil, err
	}
	direct, err := dynamicPoliciesReferencingNetworks(r.db, r.db, networks)
	if err != nil {
		return nil, err
	}
	viaPolicies, err := dynamicPoliciesReferencingPolicies(r.db, r.db, policies)
	if err != nil {
		return nil, err
	}

	usage := &model.Usage{
		PolicyIDs:        policies,
		DynamicPolicyIDs: mergeIDs(direct, viaPolicies),
	}
	for _, networkID := range networks {
		if networkID != id {
			usage.NetworkIDs = append(usage.NetworkIDs, networkID)
		}
	}
	return usage, nil
}

// ListLeafAddresses returns every address row carrying a literal CIDR
func (r *NetworkRepo) ListLeafAddresses() ([]model.NetworkAddress, error) {
	return r.listAddresses(`WHERE address IS NOT NULL`)
}

// ListNestedAddresses returns every address row referencing a nested
// network
func (r *NetworkRepo) ListNestedAddresses() ([]model.NetworkAddress, error) {
	return r.listAddresses(`WHERE nested_network_id IS NOT NULL`)
}

func (r *NetworkRepo) listAddresses(clause string) ([]model.NetworkAddress, error) {
	query := `
		SELECT id, network_id, address, nested_network_id, comment
		FROM network_addresses ` + clause + ` ORDER BY network_id, position`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []model.NetworkAddress
	for rows.Next() {
		var addr model.NetworkAddress
		if err := rows.Scan(&addr.ID, &addr.NetworkID, &addr.Address, &addr.NestedNetworkID, &addr.Comment); err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, rows.Err()
}
