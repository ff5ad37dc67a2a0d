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

type DeployerHandler struct {
	deployerService *service.DeployerService
}

func NewDeployerHandler(deployerService *service.DeployerService) *DeployerHandler {
	return &DeployerHandler{deployerService: deployerService}
}

// CreateDeployer handles POST /api/v1/deployers
func (h *DeployerHandler) CreateDeployer(c *gin.Context) {
	var req dto.DeployerRequest
	if !bindJSON(c, &req) {
		return
	}
	deployer, err := h.deployerService.CreateDeployer(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deployer)
}

// GetDeployer handles GET /api/v1/deployers/:deployerId
func (h *DeployerHandler) GetDeployer(c *gin.Context) {
	id, ok := pathID(c, "deployerId")
	if !ok {
		return
	}
	deployer, err := h.deployerService.GetDeployerByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployer)
}

// ListDeployers handles GET /api/v1/deployers
func (h *DeployerHandler) ListDeployers(c *gin.Context) {
	deployers, err := h.deployerService.ListDeployers(listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, deployers)
}

// UpdateDeployer handles PUT /api/v1/deployers/:deployerId
func (h *DeployerHandler) UpdateDeployer(c *gin.Context) {
	id, ok := pathID(c, "deployerId")
	if !ok {
		return
	}
	var req dto.DeployerRequest
	if !bindJSON(c, &req) {
		return
	}
	deployer := req.ToModel()
	deployer.ID = id
	updated, err := h.deployerService.UpdateDeployer(deployer)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteDeployer handles DELETE /api/v1/deployers/:deployerId
func (h *DeployerHandler) DeleteDeployer(c *gin.Context) {
	id, ok := pathID(c, "deployerId")
	if !ok {
		return
	}
	if err := h.deployerService.DeleteDeployer(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
