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

	"acl-platform/src/internal/database"
)

// queryer is satisfied by *sql.Tx and *database.DB so aggregate loaders and
// the propagation walk can run inside or outside a transaction.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// insertReturningID executes an INSERT and reports the new row id. Postgres
// has no LastInsertId, so the query gains a RETURNING clause there.
func insertReturningID(db *database.DB, q queryer, query string, args ...any) (int64, error) {
	switch db.Driver() {
	case "postgres", "postgresql":
		var id int64
		err := q.QueryRow(db.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	default:
		result, err := q.Exec(db.Rebind(query), args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}
}

// queryIDs runs a single-column id query after rebinding placeholders.
func queryIDs(db *database.DB, q queryer, query string, args ...any) ([]int64, error) {
	rows, err := q.Query(db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}
