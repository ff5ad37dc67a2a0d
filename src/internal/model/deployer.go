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

package model

import (
	"time"

	"acl-platform/src/internal/constants"
)

// Deployer binds a target to one delivery mechanism. Exactly one of the
// mode config blocks is set, matching Mode.
type Deployer struct {
	ID       int64                  `json:"id" db:"id"`
	Name     string                 `json:"name" db:"name"`
	Mode     constants.DeployerMode `json:"mode" db:"mode"`
	TargetID int64                  `json:"targetId" db:"target_id"`

	Git        *DeployerGitConfig        `json:"git,omitempty"`
	Netmiko    *DeployerNetmikoConfig    `json:"netmiko,omitempty"`
	ProxmoxNft *DeployerProxmoxNftConfig `json:"proxmoxNft,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// TableName returns the table name for the Deployer model
func (Deployer) TableName() string {
	return "deployers"
}

// DeployerGitConfig pushes rendered configs as commits to a repository.
// SSHKeyEnv names the environment variable holding the private key; the key
// itself is never persisted.
type DeployerGitConfig struct {
	RepoURL    string `json:"repoUrl" db:"repo_url"`
	Branch     string `json:"branch" db:"branch"`
	FolderPath string `json:"folderPath,omitempty" db:"folder_path"`
	SSHKeyEnv  string `json:"sshKeyEnv" db:"ssh_key_env"`
}

// DeployerNetmikoConfig drives a network device over an interactive SSH
// session. Secret-bearing fields name environment variables.
type DeployerNetmikoConfig struct {
	Host        string `json:"host" db:"host"`
	Port        int    `json:"port" db:"port"`
	Username    string `json:"username" db:"username"`
	PasswordEnv string `json:"passwordEnv,omitempty" db:"password_env"`
	EnableEnv   string `json:"enableEnv,omitempty" db:"enable_env"`
	SSHKeyEnv   string `json:"sshKeyEnv,omitempty" db:"ssh_key_env"`
}

// DeployerProxmoxNftConfig loads an nftables ruleset on a remote host over
// SSH.
type DeployerProxmoxNftConfig struct {
	Host        string `json:"host" db:"host"`
	Port        int    `json:"port" db:"port"`
	Username    string `json:"username" db:"username"`
	PasswordEnv string `json:"passwordEnv,omitempty" db:"password_env"`
	SSHKeyEnv   string `json:"sshKeyEnv,omitempty" db:"ssh_key_env"`
}
