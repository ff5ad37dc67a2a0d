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

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"acl-platform/src/internal/dto"
	"acl-platform/src/internal/service"
)

type TestHandler struct {
	testService *service.TestService
}

func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// CreateTest handles POST /api/v1/tests
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req dto.TestRequest
	if !bindJSON(c, &req) {
		return
	}
	test, err := h.testService.CreateTest(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

// GetTest handles GET /api/v1/tests/:testId
func (h *TestHandler) GetTest(c *gin.Context) {
	id, ok := pathID(c, "testId")
	if !ok {
		return
	}
	test, err := h.testService.GetTestByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// ListTests handles GET /api/v1/tests
func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListTests(listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

// UpdateTest handles PUT /api/v1/tests/:testId
func (h *TestHandler) UpdateTest(c *gin.Context) {
	id, ok := pathID(c, "testId")
	if !ok {
		return
	}
	var req dto.TestRequest
	if !bindJSON(c, &req) {
		return
	}
	test := req.ToModel()
	test.ID = id
	updated, err := h.testService.UpdateTest(test)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTest handles DELETE /api/v1/tests/:testId
func (h *TestHandler) DeleteTest(c *gin.Context) {
	id, ok := pathID(c, "testId")
	if !ok {
		return
	}
	if err := h.testService.DeleteTest(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateTestCase handles POST /api/v1/tests/:testId/cases
func (h *TestHandler) CreateTestCase(c *gin.Context) {
	testID, ok := pathID(c, "testId")
	if !ok {
		return
	}
	var req dto.TestCaseRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.testService.CreateTestCase(testID, req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetTestCase handles GET /api/v1/tests/:testId/cases/:caseId
func (h *TestHandler) GetTestCase(c *gin.Context) {
	testID, ok := pathID(c, "testId")
	if !ok {
		return
	}
	caseID, ok := pathID(c, "caseId")
	if !ok {
		return
	}
	tc, err := h.testService.GetTestCaseByID(testID, caseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tc)
}

// ListTestCases handles GET /api/v1/tests/:testId/cases
func (h *TestHandler) ListTestCases(c *gin.Context) {
	testID, ok := pathID(c, "testId")
	if !ok {
		return
	}
	cases, err := h.testService.ListTestCases(testID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cases)
}

// UpdateTestCase handles PUT /api/v1/tests/:testId/cases/:caseId
func (h *TestHandler) UpdateTestCase(c *gin.Context) {
	testID, ok := pathID(c, "testId")
	if !ok {
		return
	}
	caseID, ok := pathID(c, "caseId")
	if !ok {
		return
	}
	var req dto.TestCaseRequest
	if !bindJSON(c, &req) {
		return
	}
	tc := req.ToModel()
	tc.ID = caseID
	updated, err := h.testService.UpdateTestCase(testID, tc)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTestCase handles DELETE /api/v1/tests/:testId/cases/:caseId
func (h *TestHandler) DeleteTestCase(c *gin.Context) {
	testID, ok := pathID(c, "testId")
	if !ok {
		return
	}
	caseID, ok := pathID(c, "caseId")
	if !ok {
		return
	}
	if err := h.testService.DeleteTestCase(testID, caseID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
