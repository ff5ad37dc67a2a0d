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

type PolicyHandler struct {
	policyService *service.PolicyService
	testRunner    *service.TestRunner
}

func NewPolicyHandler(policyService *service.PolicyService, testRunner *service.TestRunner) *PolicyHandler {
	return &PolicyHandler{policyService: policyService, testRunner: testRunner}
}

// CreatePolicy handles POST /api/v1/policies
func (h *PolicyHandler) CreatePolicy(c *gin.Context) {
	var req dto.PolicyRequest
	if !bindJSON(c, &req) {
		return
	}
	policy, err := h.policyService.CreatePolicy(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, policy)
}

// GetPolicy handles GET /api/v1/policies/:policyId
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	id, ok := pathID(c, "policyId")
	if !ok {
		return
	}
	policy, err := h.policyService.GetPolicyByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// ListPolicies handles GET /api/v1/policies
func (h *PolicyHandler) ListPolicies(c *gin.Context) {
	policies, err := h.policyService.ListPolicies(listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

// UpdatePolicy handles PUT /api/v1/policies/:policyId
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	id, ok := pathID(c, "policyId")
	if !ok {
		return
	}
	var req dto.PolicyRequest
	if !bindJSON(c, &req) {
		return
	}
	policy := req.ToModel()
	policy.ID = id
	updated, err := h.policyService.UpdatePolicy(policy)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeletePolicy handles DELETE /api/v1/policies/:policyId
func (h *PolicyHandler) DeletePolicy(c *gin.Context) {
	id, ok := pathID(c, "policyId")
	if !ok {
		return
	}
	if err := h.policyService.DeletePolicy(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPolicyUsage handles GET /api/v1/policies/:policyId/usage
func (h *PolicyHandler) GetPolicyUsage(c *gin.Context) {
	id, ok := pathID(c, "policyId")
	if !ok {
		return
	}
	usage, err := h.policyService.GetPolicyUsage(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// RunPolicyTests handles POST /api/v1/policies/:policyId/run_tests
func (h *PolicyHandler) RunPolicyTests(c *gin.Context) {
	id, ok := pathID(c, "policyId")
	if !ok {
		return
	}
	report, err := h.testRunner.RunPolicyTests(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
