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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key"
const testIssuer = "acl-platform"

func signToken(t *testing.T, secret, issuer string, scopes []string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := CustomClaims{
		Username: "operator",
		Scopes:   scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/policies",
		AuthMiddleware(AuthConfig{SecretKey: testSecret, TokenIssuer: testIssuer}),
		RequireScope("policies:read"),
		func(c *gin.Context) {
			username, _ := GetUsernameFromContext(c)
			c.JSON(http.StatusOK, gin.H{"username": username})
		})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	router := protectedRouter()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong signing key",
			authHeader: "Bearer " + signToken(t, "other-secret", testIssuer, []string{"policies:read"}, time.Hour),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong issuer",
			authHeader: "Bearer " + signToken(t, testSecret, "someone-else", []string{"policies:read"}, time.Hour),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + signToken(t, testSecret, testIssuer, []string{"policies:read"}, -time.Minute),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing scope",
			authHeader: "Bearer " + signToken(t, testSecret, testIssuer, []string{"networks:read"}, time.Hour),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid token with scope",
			authHeader: "Bearer " + signToken(t, testSecret, testIssuer, []string{"policies:read"}, time.Hour),
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/policies", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRequireScopeAnyOf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/either",
		AuthMiddleware(AuthConfig{SecretKey: testSecret}),
		RequireScope("policies:read", "policies:write"),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signToken(t, testSecret, "", []string{"policies:write"}, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/either", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
