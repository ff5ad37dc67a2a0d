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

package dto

import (
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// DeployerGitRequest configures a git push deployer.
type DeployerGitRequest struct {
	RepoURL    string `json:"repoUrl" binding:"required"`
	Branch     string `json:"branch" binding:"required"`
	FolderPath string `json:"folderPath,omitempty"`
	SSHKeyEnv  string `json:"sshKeyEnv" binding:"required"`
}

// DeployerNetmikoRequest configures an interactive device-session deployer.
type DeployerNetmikoRequest struct {
	Host        string `json:"host" binding:"required"`
	Port        int    `json:"port" binding:"omitempty,min=1,max=65535"`
	Username    string `json:"username" binding:"required"`
	PasswordEnv string `json:"passwordEnv,omitempty"`
	EnableEnv   string `json:"enableEnv,omitempty"`
	SSHKeyEnv   string `json:"sshKeyEnv,omitempty"`
}

// DeployerProxmoxNftRequest configures an nftables ruleset deployer.
type DeployerProxmoxNftRequest struct {
	Host        string `json:"host" binding:"required"`
	Port        int    `json:"port" binding:"omitempty,min=1,max=65535"`
	Username    string `json:"username" binding:"required"`
	PasswordEnv string `json:"passwordEnv,omitempty"`
	SSHKeyEnv   string `json:"sshKeyEnv,omitempty"`
}

// DeployerRequest creates or replaces a deployer. Exactly one config block
// must be present, matching the mode.
type DeployerRequest struct {
	Name     string                 `json:"name" binding:"required"`
	Mode     constants.DeployerMode `json:"mode" binding:"required,oneof=git netmiko proxmox_nft"`
	TargetID int64                  `json:"targetId" binding:"required"`

	Git        *DeployerGitRequest        `json:"git,omitempty"`
	Netmiko    *DeployerNetmikoRequest    `json:"netmiko,omitempty"`
	ProxmoxNft *DeployerProxmoxNftRequest `json:"proxmoxNft,omitempty"`
}

// ToModel converts the request into the storage model.
func (r *DeployerRequest) ToModel() *model.Deployer {
	deployer := &model.Deployer{Name: r.Name, Mode: r.Mode, TargetID: r.TargetID}
	if r.Git != nil {
		deployer.Git = &model.DeployerGitConfig{
			RepoURL:    r.Git.RepoURL,
			Branch:     r.Git.Branch,
			FolderPath: r.Git.FolderPath,
			SSHKeyEnv:  r.Git.SSHKeyEnv,
		}
	}
	if r.Netmiko != nil {
		deployer.Netmiko = &model.DeployerNetmikoConfig{
			Host:        r.Netmiko.Host,
			Port:        r.Netmiko.Port,
			Username:    r.Netmiko.Username,
			PasswordEnv: r.Netmiko.PasswordEnv,
			EnableEnv:   r.Netmiko.EnableEnv,
			SSHKeyEnv:   r.Netmiko.SSHKeyEnv,
		}
	}
	if r.ProxmoxNft != nil {
		deployer.ProxmoxNft = &model.DeployerProxmoxNftConfig{
			Host:        r.ProxmoxNft.Host,
			Port:        r.ProxmoxNft.Port,
			Username:    r.ProxmoxNft.Username,
			PasswordEnv: r.ProxmoxNft.PasswordEnv,
			SSHKeyEnv:   r.ProxmoxNft.SSHKeyEnv,
		}
	}
	return deployer
}
