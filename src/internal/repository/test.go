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

// TestRepo implements TestRepository
type TestRepo struct {
	db *database.DB
}

// NewTestRepo creates a new test repository
func NewTestRepo(db *database.DB) TestRepository {
	return &TestRepo{db: db}
}

// CreateTest inserts a test with its cases
func (r *TestRepo) CreateTest(test *model.Test) error {
	test.CreatedAt = time.Now()
	test.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(r.db, tx,
		`INSERT INTO tests (name, created_at, updated_at) VALUES (?, ?, ?)`,
		test.Name, test.CreatedAt, test.UpdatedAt)
	if err != nil {
		return err
	}
	test.ID = id

	for i := range test.Cases {
		test.Cases[i].TestID = id
		if err := r.insertCase(tx, &test.Cases[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TestRepo) insertCase(q queryer, testCase *model.TestCase) error {
	id, err := insertReturningID(r.db, q, `
		INSERT INTO test_cases (test_id, expected_action, source_network, destination_network,
			source_port, destination_port, protocol)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		testCase.TestID, testCase.ExpectedAction, testCase.SourceNetwork,
		testCase.DestinationNetwork, testCase.SourcePort, testCase.DestinationPort,
		testCase.Protocol)
	if err != nil {
		return err
	}
	testCase.ID = id
	return nil
}

// GetTestByID retrieves a test with its cases; returns nil when not found
func (r *TestRepo) GetTestByID(id int64) (*model.Test, error) {
	tests, err := r.loadTests(`WHERE id = ?`, id)
	if err != nil || len(tests) == 0 {
		return nil, err
	}
	return tests[0], nil
}

// GetTestByName retrieves a test by its unique name
func (r *TestRepo) GetTestByName(name string) (*model.Test, error) {
	tests, err := r.loadTests(`WHERE name = ?`, name)
	if err != nil || len(tests) == 0 {
		return nil, err
	}
	return tests[0], nil
}

// GetTestsByIDs retrieves the given tests in id order
func (r *TestRepo) GetTestsByIDs(ids []int64) ([]*model.Test, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	clause := fmt.Sprintf(`WHERE id IN (%s) ORDER BY id`, placeholders(len(ids)))
	return r.loadTests(clause, int64Args(ids)...)
}

// ListTests retrieves tests with filtering and pagination
func (r *TestRepo) ListTests(opts *ListOptions) ([]*model.Test, error) {
	conds, args := opts.filterConds()
	clause := whereClause(conds) + opts.orderClause("id", "name", "created_at")
	pageSQL, pageArgs := opts.pageClause()
	return r.loadTests(clause+pageSQL, append(args, pageArgs...)...)
}

func (r *TestRepo) loadTests(clause string, args ...any) ([]*model.Test, error) {
	query := `SELECT id, name, created_at, updated_at FROM tests ` + clause
	rows, err := r.db.Query(r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []*model.Test
	byID := make(map[int64]*model.Test)
	var ids []int64
	for rows.Next() {
		test := &model.Test{}
		if err := rows.Scan(&test.ID, &test.Name, &test.CreatedAt, &test.UpdatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, test)
		byID[test.ID] = test
		ids = append(ids, test.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return nil, nil
	}

	query = fmt.Sprintf(`
		SELECT id, test_id, expected_action, source_network, destination_network,
			source_port, destination_port, protocol
		FROM test_cases
		WHERE test_id IN (%s)
		ORDER BY test_id, id`, placeholders(len(ids)))
	caseRows, err := r.db.Query(r.db.Rebind(query), int64Args(ids)...)
	if err != nil {
		return nil, err
	}
	defer caseRows.Close()
	for caseRows.Next() {
		var testCase model.TestCase
		if err := scanTestCase(caseRows, &testCase); err != nil {
			return nil, err
		}
		test := byID[testCase.TestID]
		test.Cases = append(test.Cases, testCase)
	}
	return tests, caseRows.Err()
}

func scanTestCase(rows *sql.Rows, testCase *model.TestCase) error {
	return rows.Scan(&testCase.ID, &testCase.TestID, &testCase.ExpectedAction,
		&testCase.SourceNetwork, &testCase.DestinationNetwork,
		&testCase.SourcePort, &testCase.DestinationPort, &testCase.Protocol)
}

// UpdateTest renames a test; cases are managed through the case operations
func (r *TestRepo) UpdateTest(test *model.Test) error {
	test.UpdatedAt = time.Now()
	result, err := r.db.Exec(r.db.Rebind(`UPDATE tests SET name = ?, updated_at = ? WHERE id = ?`),
		test.Name, test.UpdatedAt, test.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTest removes a test; cases cascade
func (r *TestRepo) DeleteTest(id int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM tests WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateTestCase appends a case to an existing test
func (r *TestRepo) CreateTestCase(testCase *model.TestCase) error {
	return r.insertCase(r.db, testCase)
}

// GetTestCaseByID retrieves one case of a test; returns nil when not found
func (r *TestRepo) GetTestCaseByID(testID, caseID int64) (*model.TestCase, error) {
	query := `
		SELECT id, test_id, expected_action, source_network, destination_network,
			source_port, destination_port, protocol
		FROM test_cases
		WHERE test_id = ? AND id = ?`
	rows, err := r.db.Query(r.db.Rebind(query), testID, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	testCase := &model.TestCase{}
	if err := scanTestCase(rows, testCase); err != nil {
		return nil, err
	}
	return testCase, nil
}

// ListTestCases retrieves the cases of a test in id order
func (r *TestRepo) ListTestCases(testID int64) ([]model.TestCase, error) {
	query := `
		SELECT id, test_id, expected_action, source_network, destination_network,
			source_port, destination_port, protocol
		FROM test_cases
		WHERE test_id = ?
		ORDER BY id`
	rows, err := r.db.Query(r.db.Rebind(query), testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []model.TestCase
	for rows.Next() {
		var testCase model.TestCase
		if err := scanTestCase(rows, &testCase); err != nil {
			return nil, err
		}
		cases = append(cases, testCase)
	}
	return cases, rows.Err()
}

// UpdateTestCase modifies an existing case
func (r *TestRepo) UpdateTestCase(testCase *model.TestCase) error {
	result, err := r.db.Exec(r.db.Rebind(`
		UPDATE test_cases
		SET expected_action = ?, source_network = ?, destination_network = ?,
			source_port = ?, destination_port = ?, protocol = ?
		WHERE test_id = ? AND id = ?`),
		testCase.ExpectedAction, testCase.SourceNetwork, testCase.DestinationNetwork,
		testCase.SourcePort, testCase.DestinationPort, testCase.Protocol,
		testCase.TestID, testCase.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTestCase removes one case of a test
func (r *TestRepo) DeleteTestCase(testID, caseID int64) error {
	result, err := r.db.Exec(r.db.Rebind(`DELETE FROM test_cases WHERE test_id = ? AND id = ?`),
		testID, caseID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
