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

type NetworkHandler struct {
	networkService *service.NetworkService
}

func NewNetworkHandler(networkService *service.NetworkService) *NetworkHandler {
	return &NetworkHandler{networkService: networkService}
}

// CreateNetwork handles POST /api/v1/networks
func (h *NetworkHandler) CreateNetwork(c *gin.Context) {
	var req dto.NetworkRequest
	if !bindJSON(c, &req) {
		return
	}
	network, err := h.networkService.CreateNetwork(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, network)
}

// GetNetwork handles GET /api/v1/networks/:networkId
func (h *NetworkHandler) GetNetwork(c *gin.Context) {
	id, ok := pathID(c, "networkId")
	if !ok {
		return
	}
	network, err := h.networkService.GetNetworkByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, network)
}

// ListNetworks handles GET /api/v1/networks
func (h *NetworkHandler) ListNetworks(c *gin.Context) {
	networks, err := h.networkService.ListNetworks(listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, networks)
}

// UpdateNetwork handles PUT /api/v1/networks/:networkId
func (h *NetworkHandler) UpdateNetwork(c *gin.Context) {
	id, ok := pathID(c, "networkId")
	if !ok {
		return
	}
	var req dto.NetworkRequest
	if !bindJSON(c, &req) {
		return
	}
	network := req.ToModel()
	network.ID = id
	updated, err := h.networkService.UpdateNetwork(network)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteNetwork handles DELETE /api/v1/networks/:networkId
func (h *NetworkHandler) DeleteNetwork(c *gin.Context) {
	id, ok := pathID(c, "networkId")
	if !ok {
		return
	}
	if err := h.networkService.DeleteNetwork(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetNetworkUsage handles GET /api/v1/networks/:networkId/usage
func (h *NetworkHandler) GetNetworkUsage(c *gin.Context) {
	id, ok := pathID(c, "networkId")
	if !ok {
		return
	}
	usage, err := h.networkService.GetNetworkUsage(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
