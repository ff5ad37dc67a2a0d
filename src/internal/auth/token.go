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

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"acl-platform/src/config"
	"acl-platform/src/internal/middleware"
)

// TokenIssuer signs bearer tokens for authenticated directory users.
type TokenIssuer struct {
	cfg    *config.JWT
	scopes []string
}

// NewTokenIssuer creates a token issuer granting the given scopes.
func NewTokenIssuer(cfg *config.JWT, scopes []string) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, scopes: scopes}
}

// Issue signs an HS256 token for the user and returns it with its lifetime
// in seconds.
func (i *TokenIssuer) Issue(user *User) (string, int, error) {
	expiry := time.Duration(i.cfg.ExpiryMinutes) * time.Minute
	now := time.Now()
	claims := middleware.CustomClaims{
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Scopes:   i.scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.cfg.SecretKey))
	if err != nil {
		return "", 0, err
	}
	return signed, int(expiry.Seconds()), nil
}
