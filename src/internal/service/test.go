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

package service

import (
	"fmt"
	"net/netip"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// TestService owns test groups and their cases. Cases have their own CRUD
// scoped under the owning test.
type TestService struct {
	testRepo repository.TestRepository
}

// NewTestService creates a new test service
func NewTestService(testRepo repository.TestRepository) *TestService {
	return &TestService{testRepo: testRepo}
}

// CreateTest validates and persists a new test with its cases
func (s *TestService) CreateTest(test *model.Test) (*model.Test, error) {
	for i := range test.Cases {
		if err := validateTestCase(&test.Cases[i]); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
	}

	existing, err := s.testRepo.GetTestByName(test.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrTestExists
	}

	if err := s.testRepo.CreateTest(test); err != nil {
		return nil, err
	}
	return s.GetTestByID(test.ID)
}

// GetTestByID retrieves a test with its cases
func (s *TestService) GetTestByID(id int64) (*model.Test, error) {
	test, err := s.testRepo.GetTestByID(id)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, constants.ErrTestNotFound
	}
	return test, nil
}

// ListTests retrieves tests with filtering and pagination
func (s *TestService) ListTests(opts *repository.ListOptions) ([]*model.Test, error) {
	return s.testRepo.ListTests(opts)
}

// UpdateTest renames a test; cases are managed through the case endpoints
func (s *TestService) UpdateTest(test *model.Test) (*model.Test, error) {
	current, err := s.testRepo.GetTestByID(test.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrTestNotFound
	}
	if test.Name != current.Name {
		existing, err := s.testRepo.GetTestByName(test.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrTestExists
		}
	}

	if err := s.testRepo.UpdateTest(test); err != nil {
		return nil, err
	}
	return s.GetTestByID(test.ID)
}

// DeleteTest removes a test and its cases
func (s *TestService) DeleteTest(id int64) error {
	test, err := s.testRepo.GetTestByID(id)
	if err != nil {
		return err
	}
	if test == nil {
		return constants.ErrTestNotFound
	}
	return s.testRepo.DeleteTest(id)
}

// CreateTestCase adds a case to an existing test
func (s *TestService) CreateTestCase(testID int64, c *model.TestCase) (*model.TestCase, error) {
	if _, err := s.GetTestByID(testID); err != nil {
		return nil, err
	}
	if err := validateTestCase(c); err != nil {
		return nil, err
	}
	c.TestID = testID
	if err := s.testRepo.CreateTestCase(c); err != nil {
		return nil, err
	}
	return s.GetTestCaseByID(testID, c.ID)
}

// GetTestCaseByID retrieves one case scoped by its owning test
func (s *TestService) GetTestCaseByID(testID, caseID int64) (*model.TestCase, error) {
	c, err := s.testRepo.GetTestCaseByID(testID, caseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, constants.ErrTestCaseNotFound
	}
	return c, nil
}

// ListTestCases retrieves the cases of a test
func (s *TestService) ListTestCases(testID int64) ([]model.TestCase, error) {
	if _, err := s.GetTestByID(testID); err != nil {
		return nil, err
	}
	return s.testRepo.ListTestCases(testID)
}

// UpdateTestCase validates and persists changes to a case
func (s *TestService) UpdateTestCase(testID int64, c *model.TestCase) (*model.TestCase, error) {
	if err := validateTestCase(c); err != nil {
		return nil, err
	}
	if _, err := s.GetTestCaseByID(testID, c.ID); err != nil {
		return nil, err
	}
	c.TestID = testID
	if err := s.testRepo.UpdateTestCase(c); err != nil {
		return nil, err
	}
	return s.GetTestCaseByID(testID, c.ID)
}

// DeleteTestCase removes one case from a test
func (s *TestService) DeleteTestCase(testID, caseID int64) error {
	if _, err := s.GetTestCaseByID(testID, caseID); err != nil {
		return err
	}
	return s.testRepo.DeleteTestCase(testID, caseID)
}

// validateTestCase checks each 5-tuple field is a wildcard or a parseable
// value.
func validateTestCase(c *model.TestCase) error {
	if c.ExpectedAction == "" {
		return constants.Invalid("expected action is required")
	}
	for _, field := range []struct{ name, value string }{
		{"source network", c.SourceNetwork},
		{"destination network", c.DestinationNetwork},
	} {
		if field.value == "" || field.value == model.Wildcard {
			continue
		}
		if _, err := netip.ParsePrefix(field.value); err != nil {
			if _, err := netip.ParseAddr(field.value); err != nil {
				return constants.Invalid("%s %q is not an address or CIDR", field.name, field.value)
			}
		}
	}
	for _, field := range []struct{ name, value string }{
		{"source port", c.SourcePort},
		{"destination port", c.DestinationPort},
	} {
		if field.value == "" || field.value == model.Wildcard {
			continue
		}
		if err := validatePortSpec(field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	return nil
}
