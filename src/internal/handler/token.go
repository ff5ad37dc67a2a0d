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

	"acl-platform/src/internal/auth"
	"acl-platform/src/internal/dto"
	"acl-platform/src/internal/utils"
)

type TokenHandler struct {
	authenticator *auth.LDAPAuthenticator
	issuer        *auth.TokenIssuer
}

func NewTokenHandler(authenticator *auth.LDAPAuthenticator, issuer *auth.TokenIssuer) *TokenHandler {
	return &TokenHandler{authenticator: authenticator, issuer: issuer}
}

// IssueToken handles POST /api/v1/token, the OAuth2 password grant backed by
// LDAP.
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": dto.ValidationErrors(err)})
		return
	}

	user, err := h.authenticator.Authenticate(req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	token, expiresIn, err := h.issuer.Issue(user)
	if err != nil {
		utils.LogError("Failed to sign access token", err)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(500, "Internal Server Error",
			"An unexpected error occurred"))
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}
