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
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/dto"
	"acl-platform/src/internal/repository"
	"acl-platform/src/internal/utils"
)

// pathID parses a numeric path parameter; a malformed id behaves like a
// missing object.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found",
			"Invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}

// listOptions reads the shared list query parameters: page, size, order_by,
// and the id/id__in/name/name__ilike filters.
func listOptions(c *gin.Context) *repository.ListOptions {
	opts := &repository.ListOptions{}
	opts.Page, _ = strconv.Atoi(c.Query("page"))
	opts.Size, _ = strconv.Atoi(c.Query("size"))
	opts.OrderBy = c.Query("order_by")
	if raw := c.Query("id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			opts.ID = &id
		}
	}
	if raw := c.Query("id__in"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
				opts.IDIn = append(opts.IDIn, id)
			}
		}
	}
	if raw := c.Query("name"); raw != "" {
		opts.Name = &raw
	}
	if raw := c.Query("name__ilike"); raw != "" {
		opts.NameILike = &raw
	}
	return opts
}

// bindJSON binds and validates a JSON body, answering 422 with the
// field→message map on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": dto.ValidationErrors(err)})
		return false
	}
	return true
}

// handleServiceError maps service-layer errors onto the API error contract:
// 404 for missing objects, 409 for name conflicts, 403 for constraint
// violations, 422 for content failures.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constants.ErrNetworkNotFound),
		errors.Is(err, constants.ErrServiceNotFound),
		errors.Is(err, constants.ErrPolicyNotFound),
		errors.Is(err, constants.ErrDynamicPolicyNotFound),
		errors.Is(err, constants.ErrTargetNotFound),
		errors.Is(err, constants.ErrTestNotFound),
		errors.Is(err, constants.ErrTestCaseNotFound),
		errors.Is(err, constants.ErrRevisionNotFound),
		errors.Is(err, constants.ErrRevisionConfigNotFound),
		errors.Is(err, constants.ErrRevisionHashMismatch),
		errors.Is(err, constants.ErrDeployerNotFound),
		errors.Is(err, constants.ErrNoDeployers),
		errors.Is(err, constants.ErrDeploymentNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(404, "Not Found", err.Error()))

	case errors.Is(err, constants.ErrNetworkExists),
		errors.Is(err, constants.ErrServiceExists),
		errors.Is(err, constants.ErrPolicyExists),
		errors.Is(err, constants.ErrDynamicPolicyExists),
		errors.Is(err, constants.ErrTargetExists),
		errors.Is(err, constants.ErrTestExists),
		errors.Is(err, constants.ErrDeployerExists):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(409, "Conflict", err.Error()))

	case errors.Is(err, constants.ErrNetworkInUse),
		errors.Is(err, constants.ErrServiceInUse),
		errors.Is(err, constants.ErrPolicyInUse),
		errors.Is(err, constants.ErrTargetInUse),
		errors.Is(err, constants.ErrRevisionImmutable),
		errors.Is(err, constants.ErrInsufficientCoverage),
		errors.Is(err, constants.ErrNoTermsResolved):
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(403, "Forbidden", err.Error()))

	case errors.Is(err, constants.ErrValidation),
		errors.Is(err, constants.ErrCycleDetected),
		errors.Is(err, constants.ErrUnknownGenerator):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"body": validationMessage(err)}})

	case errors.Is(err, constants.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(401, "Unauthorized", err.Error()))

	default:
		utils.LogError("Unhandled service error", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"An unexpected error occurred"))
	}
}

// validationMessage strips the ErrValidation prefix so the response carries
// only the field-level message.
func validationMessage(err error) string {
	msg := err.Error()
	if trimmed, found := strings.CutPrefix(msg, constants.ErrValidation.Error()+": "); found {
		return trimmed
	}
	return msg
}
