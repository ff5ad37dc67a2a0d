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

package config

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Server holds the configuration parameters for the application.
type Server struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// Server configurations
	Port string `envconfig:"PORT" default:"8000"`

	// APIURL is the externally reachable base URL of this service. When set,
	// netmiko deployments for HTTP-capable device kinds pull their config
	// from the raw_config endpoint instead of pushing line by line.
	APIURL string `envconfig:"API_URL" default:""`

	// Database configurations
	Database     Database `envconfig:"POSTGRES"`
	DBSchemaPath string   `envconfig:"DB_SCHEMA_PATH" default:"./src/internal/database/schema.sql"`

	// Generator profile bootstrap (seeds renderer profiles at startup)
	GeneratorProfilesPath string `envconfig:"GENERATOR_PROFILES_PATH" default:"./src/resources/generators"`

	// JWT Authentication configurations
	JWT JWT `envconfig:"JWT"`

	// LDAP authentication configurations
	LDAP LDAP `envconfig:"LDAP"`

	// Redis job queue configurations
	Queue Queue `envconfig:"REDIS_QUEUE"`
}

// JWT holds JWT-specific configuration
type JWT struct {
	SecretKey     string `envconfig:"SECRET_KEY" default:"change-me-in-production"`
	Issuer        string `envconfig:"ISSUER" default:"acl-platform"`
	ExpiryMinutes int    `envconfig:"EXPIRE_MINUTES" default:"60"`
}

// LDAP holds the directory configuration used by the password grant.
// UserBindDN and UserSearchFilter contain a {username} placeholder.
type LDAP struct {
	ServerURI        string `envconfig:"SERVER_URI" default:"ldap://localhost:389"`
	UserBindDN       string `envconfig:"USER_BIND_DN" default:"uid={username},ou=people,dc=example,dc=org"`
	UserSearchBase   string `envconfig:"USER_SEARCH_BASE" default:"ou=people,dc=example,dc=org"`
	UserSearchFilter string `envconfig:"USER_SEARCH_FILTER" default:"(uid={username})"`
	UsernameAttr     string `envconfig:"USERNAME_ATTR" default:"uid"`
	EmailAttr        string `envconfig:"EMAIL_ATTR" default:"mail"`
	NameAttr         string `envconfig:"NAME_ATTR" default:"cn"`
	// DefaultScopes are granted to every authenticated user until group
	// mapping is wired to the directory.
	DefaultScopes []string `envconfig:"DEFAULT_SCOPES" default:"policies:read,policies:write,networks:read,networks:write,services:read,services:write,targets:read,targets:write,tests:read,tests:write,revisions:read,revisions:write,deployers:read,deployers:write,deployments:read,deployments:write"`
}

// Queue holds the Redis job-queue configuration
type Queue struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"6379"`
	// Name is the Redis list jobs are pushed to.
	Name string `envconfig:"NAME" default:"acl-platform:deployments"`
}

// Database holds database-specific configuration
type Database struct {
	Driver string `envconfig:"DRIVER" default:"sqlite3"`
	// Path is the file path for SQLite databases.
	Path            string `envconfig:"DB_PATH" default:"./data/acl_platform.db"`
	Host            string `envconfig:"HOST" default:"localhost"`
	Port            int    `envconfig:"PORT" default:"5432"`
	Name            string `envconfig:"DB" default:"acl_platform"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	SSLMode         string `envconfig:"SSL_MODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME" default:"300"` // seconds
}

// package-level variable and mutex for thread safety
var (
	processOnce     sync.Once
	settingInstance *Server
)

// GetConfig initializes and returns a singleton instance of the Server
// settings. It uses sync.Once so the environment is processed exactly once,
// making it safe for concurrent use. Panics on invalid configuration.
func GetConfig() *Server {
	var err error
	processOnce.Do(func() {
		settingInstance = &Server{}
		err = envconfig.Process("", settingInstance)
		if err == nil {
			err = validateLDAPConfig(&settingInstance.LDAP)
		}
	})
	if err != nil {
		panic(err)
	}
	return settingInstance
}

// validateLDAPConfig ensures the placeholders the token handler substitutes
// are actually present.
func validateLDAPConfig(cfg *LDAP) error {
	if cfg.ServerURI == "" {
		return fmt.Errorf("LDAP_SERVER_URI is not configured")
	}
	if cfg.UserBindDN == "" {
		return fmt.Errorf("LDAP_USER_BIND_DN is not configured")
	}
	if cfg.UserSearchFilter == "" {
		return fmt.Errorf("LDAP_USER_SEARCH_FILTER is not configured")
	}
	return nil
}
