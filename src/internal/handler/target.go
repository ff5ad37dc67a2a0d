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

type TargetHandler struct {
	targetService *service.TargetService
}

func NewTargetHandler(targetService *service.TargetService) *TargetHandler {
	return &TargetHandler{targetService: targetService}
}

// CreateTarget handles POST /api/v1/targets
func (h *TargetHandler) CreateTarget(c *gin.Context) {
	var req dto.TargetRequest
	if !bindJSON(c, &req) {
		return
	}
	target, err := h.targetService.CreateTarget(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, target)
}

// GetTarget handles GET /api/v1/targets/:targetId
func (h *TargetHandler) GetTarget(c *gin.Context) {
	id, ok := pathID(c, "targetId")
	if !ok {
		return
	}
	target, err := h.targetService.GetTargetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// ListTargets handles GET /api/v1/targets
func (h *TargetHandler) ListTargets(c *gin.Context) {
	targets, err := h.targetService.ListTargets(listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

// UpdateTarget handles PUT /api/v1/targets/:targetId
func (h *TargetHandler) UpdateTarget(c *gin.Context) {
	id, ok := pathID(c, "targetId")
	if !ok {
		return
	}
	var req dto.TargetRequest
	if !bindJSON(c, &req) {
		return
	}
	target := req.ToModel()
	target.ID = id
	updated, err := h.targetService.UpdateTarget(target)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTarget handles DELETE /api/v1/targets/:targetId
func (h *TargetHandler) DeleteTarget(c *gin.Context) {
	id, ok := pathID(c, "targetId")
	if !ok {
		return
	}
	if err := h.targetService.DeleteTarget(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListGenerators handles GET /api/v1/targets/generators
func (h *TargetHandler) ListGenerators(c *gin.Context) {
	c.JSON(http.StatusOK, h.targetService.Generators())
}
