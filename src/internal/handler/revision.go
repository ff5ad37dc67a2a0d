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
	"strconv"

	"github.com/gin-gonic/gin"

	"acl-platform/src/internal/dto"
	"acl-platform/src/internal/service"
)

type RevisionHandler struct {
	revisionService   *service.RevisionService
	deploymentService *service.DeploymentService
}

func NewRevisionHandler(revisionService *service.RevisionService, deploymentService *service.DeploymentService) *RevisionHandler {
	return &RevisionHandler{revisionService: revisionService, deploymentService: deploymentService}
}

// CreateRevision handles POST /api/v1/revisions; it runs the coverage gate
// and compiles a config per target before anything is stored.
func (h *RevisionHandler) CreateRevision(c *gin.Context) {
	var req dto.RevisionRequest
	if !bindJSON(c, &req) {
		return
	}
	revision, err := h.revisionService.CreateRevision(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, revision)
}

// GetRevision handles GET /api/v1/revisions/:revisionId
func (h *RevisionHandler) GetRevision(c *gin.Context) {
	id, ok := pathID(c, "revisionId")
	if !ok {
		return
	}
	revision, err := h.revisionService.GetRevisionByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, revision)
}

// ListRevisions handles GET /api/v1/revisions, optionally filtered by
// policy_id or dynamic_policy_id.
func (h *RevisionHandler) ListRevisions(c *gin.Context) {
	revisions, err := h.revisionService.ListRevisions(
		queryID(c, "policy_id"), queryID(c, "dynamic_policy_id"), listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, revisions)
}

// UpdateRevision handles PUT /api/v1/revisions/:revisionId. Revisions are
// frozen, so this only distinguishes a missing revision from an immutable one.
func (h *RevisionHandler) UpdateRevision(c *gin.Context) {
	id, ok := pathID(c, "revisionId")
	if !ok {
		return
	}
	handleServiceError(c, h.revisionService.UpdateRevision(id))
}

// DeleteRevision handles DELETE /api/v1/revisions/:revisionId
func (h *RevisionHandler) DeleteRevision(c *gin.Context) {
	id, ok := pathID(c, "revisionId")
	if !ok {
		return
	}
	if err := h.revisionService.DeleteRevision(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRawConfig handles GET /api/v1/revisions/:revisionId/raw_config. The
// target_id query parameter selects which compiled config to return.
func (h *RevisionHandler) GetRawConfig(c *gin.Context) {
	id, ok := pathID(c, "revisionId")
	if !ok {
		return
	}
	targetID, err := strconv.ParseInt(c.Query("target_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{
			"target_id": "must be a numeric target id"}})
		return
	}
	rc, err := h.revisionService.RawConfig(id, targetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.String(http.StatusOK, rc.Config)
}

// GetRawConfigByHash handles GET
// /api/v1/revisions/:revisionId/raw_config/:targetId/:hash. Devices fetch
// their config over this route during netmiko http_copy deployments, so it is
// served without authentication; the hash pins the exact content.
func (h *RevisionHandler) GetRawConfigByHash(c *gin.Context) {
	id, ok := pathID(c, "revisionId")
	if !ok {
		return
	}
	targetID, ok := pathID(c, "targetId")
	if !ok {
		return
	}
	rc, err := h.revisionService.RawConfigByHash(id, targetID, c.Param("hash"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.String(http.StatusOK, rc.Config)
}

// Deploy handles POST /api/v1/revisions/:revisionId/deploy, fanning the
// revision out to every deployer attached to its targets.
func (h *RevisionHandler) Deploy(c *gin.Context) {
	id, ok := pathID(c, "revisionId")
	if !ok {
		return
	}
	deployments, err := h.deploymentService.Deploy(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, deployments)
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
