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

// Package auth implements the OAuth2 password grant: credentials are
// verified against an LDAP directory and exchanged for a signed bearer
// token.
package auth

import (
	"strings"

	"github.com/go-ldap/ldap/v3"

	"acl-platform/src/config"
	"acl-platform/src/internal/constants"
)

// User is the directory identity carried into token claims.
type User struct {
	Username string
	FullName string
	Email    string
}

// LDAPAuthenticator verifies credentials by binding to the directory as
// the user, then reads the identity attributes with the same bind.
type LDAPAuthenticator struct {
	cfg *config.LDAP
}

// NewLDAPAuthenticator creates a new LDAP authenticator
func NewLDAPAuthenticator(cfg *config.LDAP) *LDAPAuthenticator {
	return &LDAPAuthenticator{cfg: cfg}
}

// Authenticate binds as the user and returns the directory identity. Any
// bind or search failure is reported as invalid credentials so the response
// never leaks directory details.
func (a *LDAPAuthenticator) Authenticate(username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, constants.ErrInvalidCredentials
	}

	conn, err := ldap.DialURL(a.cfg.ServerURI)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	bindDN := substituteBindDN(a.cfg.UserBindDN, username)
	if err := conn.Bind(bindDN, password); err != nil {
		return nil, constants.ErrInvalidCredentials
	}

	searchRequest := ldap.NewSearchRequest(
		a.cfg.UserSearchBase,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 0, false,
		substituteFilter(a.cfg.UserSearchFilter, username),
		[]string{a.cfg.UsernameAttr, a.cfg.NameAttr, a.cfg.EmailAttr},
		nil,
	)
	result, err := conn.Search(searchRequest)
	if err != nil || len(result.Entries) == 0 {
		return nil, constants.ErrInvalidCredentials
	}

	entry := result.Entries[0]
	user := &User{
		Username: entry.GetAttributeValue(a.cfg.UsernameAttr),
		FullName: entry.GetAttributeValue(a.cfg.NameAttr),
		Email:    entry.GetAttributeValue(a.cfg.EmailAttr),
	}
	if user.Username == "" {
		user.Username = username
	}
	return user, nil
}

// substituteFilter fills the {username} placeholder in a search filter,
// escaping filter metacharacters so crafted usernames cannot widen the
// search.
func substituteFilter(template, username string) string {
	return strings.ReplaceAll(template, "{username}", ldap.EscapeFilter(username))
}

// substituteBindDN fills the {username} placeholder in a bind DN. DN
// escaping differs from filter escaping (RFC 4514 vs RFC 4515).
func substituteBindDN(template, username string) string {
	return strings.ReplaceAll(template, "{username}", ldap.EscapeDN(username))
}
