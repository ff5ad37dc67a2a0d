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
	"strings"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ListOptions carries the common list query parameters: id / id__in /
// name / name__ilike filters, page/size pagination, and order_by with an
// optional +/- direction prefix.
type ListOptions struct {
	Page      int
	Size      int
	OrderBy   string
	ID        *int64
	IDIn      []int64
	Name      *string
	NameILike *string
}

// filterConds returns WHERE conditions (with `?` placeholders) and their
// arguments for the common filters. Callers append entity-specific
// conditions before joining.
func (o *ListOptions) filterConds() ([]string, []any) {
	if o == nil {
		return nil, nil
	}
	var conds []string
	var args []any
	if o.ID != nil {
		conds = append(conds, "id = ?")
		args = append(args, *o.ID)
	}
	if len(o.IDIn) > 0 {
		conds = append(conds, fmt.Sprintf("id IN (%s)", placeholders(len(o.IDIn))))
		args = append(args, int64Args(o.IDIn)...)
	}
	if o.Name != nil {
		conds = append(conds, "name = ?")
		args = append(args, *o.Name)
	}
	if o.NameILike != nil {
		// ILIKE is postgres-only; LOWER/LIKE behaves the same on both
		// drivers.
		conds = append(conds, "LOWER(name) LIKE LOWER(?)")
		args = append(args, "%"+*o.NameILike+"%")
	}
	return conds, args
}

// orderClause validates order_by against the allowed column set and
// returns an ORDER BY clause, defaulting to ascending id.
func (o *ListOptions) orderClause(allowed ...string) string {
	column, direction := "id", "ASC"
	if o != nil && o.OrderBy != "" {
		requested := o.OrderBy
		switch requested[0] {
		case '-':
			direction = "DESC"
			requested = requested[1:]
		case '+':
			requested = requested[1:]
		}
		for _, col := range allowed {
			if col == requested {
				column = col
				break
			}
		}
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// pageClause returns a LIMIT/OFFSET clause and its arguments. Nil options
// mean an internal full scan, so no window is applied.
func (o *ListOptions) pageClause() (string, []any) {
	if o == nil {
		return "", nil
	}
	page, size := 1, defaultPageSize
	if o.Page > 0 {
		page = o.Page
	}
	if o.Size > 0 {
		size = o.Size
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return " LIMIT ? OFFSET ?", []any{size, (page - 1) * size}
}

// whereClause joins conditions into a WHERE clause, or returns "" when
// there are none.
func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// placeholders returns n comma-separated `?` markers for an IN clause.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// int64Args widens an id slice for variadic query arguments.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// scanIDs drains a single-column id result set.
func scanIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
