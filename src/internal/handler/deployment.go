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

	"acl-platform/src/internal/service"
)

type DeploymentHandler struct {
	deploymentService *service.DeploymentService
}

func NewDeploymentHandler(deploymentService *service.DeploymentService) *DeploymentHandler {
	return &DeploymentHandler{deploymentService: deploymentService}
}

// GetDeployment handles GET /api/v1/deployments/:deploymentId
func (h *DeploymentHandler) GetDeployment(c *gin.Context) {
	id, ok := pathID(c, "deploymentId")
	if !ok {
		return
	}
	deployment, err := h.deploymentService.GetDeploymentByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployment)
}

// ListDeployments handles GET /api/v1/deployments, optionally filtered by
// revision_id or deployer_id.
func (h *DeploymentHandler) ListDeployments(c *gin.Context) {
	deployments, err := h.deploymentService.ListDeployments(
		queryID(c, "revision_id"), queryID(c, "deployer_id"), listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployments)
}

// DeleteDeployment handles DELETE /api/v1/deployments/:deploymentId
func (h *DeploymentHandler) DeleteDeployment(c *gin.Context) {
	id, ok := pathID(c, "deploymentId")
	if !ok {
		return
	}
	if err := h.deploymentService.DeleteDeployment(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
