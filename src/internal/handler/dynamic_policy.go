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

type DynamicPolicyHandler struct {
	dynamicPolicyService *service.DynamicPolicyService
	testRunner           *service.TestRunner
}

func NewDynamicPolicyHandler(dynamicPolicyService *service.DynamicPolicyService, testRunner *service.TestRunner) *DynamicPolicyHandler {
	return &DynamicPolicyHandler{dynamicPolicyService: dynamicPolicyService, testRunner: testRunner}
}

// CreateDynamicPolicy handles POST /api/v1/dynamic_policies
func (h *DynamicPolicyHandler) CreateDynamicPolicy(c *gin.Context) {
	var req dto.DynamicPolicyRequest
	if !bindJSON(c, &req) {
		return
	}
	dp, err := h.dynamicPolicyService.CreateDynamicPolicy(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dp)
}

// GetDynamicPolicy handles GET /api/v1/dynamic_policies/:dynamicPolicyId
func (h *DynamicPolicyHandler) GetDynamicPolicy(c *gin.Context) {
	id, ok := pathID(c, "dynamicPolicyId")
	if !ok {
		return
	}
	dp, err := h.dynamicPolicyService.GetDynamicPolicyByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dp)
}

// ListDynamicPolicies handles GET /api/v1/dynamic_policies
func (h *DynamicPolicyHandler) ListDynamicPolicies(c *gin.Context) {
	policies, err := h.dynamicPolicyService.ListDynamicPolicies(listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

// UpdateDynamicPolicy handles PUT /api/v1/dynamic_policies/:dynamicPolicyId
func (h *DynamicPolicyHandler) UpdateDynamicPolicy(c *gin.Context) {
	id, ok := pathID(c, "dynamicPolicyId")
	if !ok {
		return
	}
	var req dto.DynamicPolicyRequest
	if !bindJSON(c, &req) {
		return
	}
	dp := req.ToModel()
	dp.ID = id
	updated, err := h.dynamicPolicyService.UpdateDynamicPolicy(dp)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteDynamicPolicy handles DELETE /api/v1/dynamic_policies/:dynamicPolicyId
func (h *DynamicPolicyHandler) DeleteDynamicPolicy(c *gin.Context) {
	id, ok := pathID(c, "dynamicPolicyId")
	if !ok {
		return
	}
	if err := h.dynamicPolicyService.DeleteDynamicPolicy(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetResolvedTerms handles GET /api/v1/dynamic_policies/:dynamicPolicyId/terms;
// it previews the resolution the next revision would freeze.
func (h *DynamicPolicyHandler) GetResolvedTerms(c *gin.Context) {
	id, ok := pathID(c, "dynamicPolicyId")
	if !ok {
		return
	}
	terms, err := h.dynamicPolicyService.ResolveTerms(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, terms)
}

// RunDynamicPolicyTests handles POST /api/v1/dynamic_policies/:dynamicPolicyId/run_tests
func (h *DynamicPolicyHandler) RunDynamicPolicyTests(c *gin.Context) {
	id, ok := pathID(c, "dynamicPolicyId")
	if !ok {
		return
	}
	report, err := h.testRunner.RunDynamicPolicyTests(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
