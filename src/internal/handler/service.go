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

type ServiceHandler struct {
	serviceService *service.ServiceService
}

func NewServiceHandler(serviceService *service.ServiceService) *ServiceHandler {
	return &ServiceHandler{serviceService: serviceService}
}

// CreateService handles POST /api/v1/services
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req dto.ServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := h.serviceService.CreateService(req.ToModel())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// GetService handles GET /api/v1/services/:serviceId
func (h *ServiceHandler) GetService(c *gin.Context) {
	id, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	svc, err := h.serviceService.GetServiceByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// ListServices handles GET /api/v1/services
func (h *ServiceHandler) ListServices(c *gin.Context) {
	services, err := h.serviceService.ListServices(listOptions(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// UpdateService handles PUT /api/v1/services/:serviceId
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	var req dto.ServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	svc := req.ToModel()
	svc.ID = id
	updated, err := h.serviceService.UpdateService(svc)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteService handles DELETE /api/v1/services/:serviceId
func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	if err := h.serviceService.DeleteService(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetServiceUsage handles GET /api/v1/services/:serviceId/usage
func (h *ServiceHandler) GetServiceUsage(c *gin.Context) {
	id, ok := pathID(c, "serviceId")
	if !ok {
		return
	}
	usage, err := h.serviceService.GetServiceUsage(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}
