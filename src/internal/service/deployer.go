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

package service

import (
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/repository"
)

// DeployerService owns the deployer aggregate: exactly one mode config
// block, matching the declared mode, against an existing target.
type DeployerService struct {
	deployerRepo repository.DeployerRepository
	targetRepo   repository.TargetRepository
}

// NewDeployerService creates a new deployer service
func NewDeployerService(deployerRepo repository.DeployerRepository, targetRepo repository.TargetRepository) *DeployerService {
	return &DeployerService{deployerRepo: deployerRepo, targetRepo: targetRepo}
}

// CreateDeployer validates and persists a new deployer
func (s *DeployerService) CreateDeployer(deployer *model.Deployer) (*model.Deployer, error) {
	if err := s.validateDeployer(deployer); err != nil {
		return nil, err
	}

	existing, err := s.deployerRepo.GetDeployerByName(deployer.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, constants.ErrDeployerExists
	}

	if err := s.deployerRepo.CreateDeployer(deployer); err != nil {
		return nil, err
	}
	return s.GetDeployerByID(deployer.ID)
}

// GetDeployerByID retrieves a deployer with its mode config
func (s *DeployerService) GetDeployerByID(id int64) (*model.Deployer, error) {
	deployer, err := s.deployerRepo.GetDeployerByID(id)
	if err != nil {
		return nil, err
	}
	if deployer == nil {
		return nil, constants.ErrDeployerNotFound
	}
	return deployer, nil
}

// ListDeployers retrieves deployers with filtering and pagination
func (s *DeployerService) ListDeployers(opts *repository.ListOptions) ([]*model.Deployer, error) {
	return s.deployerRepo.ListDeployers(opts)
}

// UpdateDeployer validates and persists changes to a deployer
func (s *DeployerService) UpdateDeployer(deployer *model.Deployer) (*model.Deployer, error) {
	if err := s.validateDeployer(deployer); err != nil {
		return nil, err
	}

	current, err := s.deployerRepo.GetDeployerByID(deployer.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, constants.ErrDeployerNotFound
	}
	if deployer.Name != current.Name {
		existing, err := s.deployerRepo.GetDeployerByName(deployer.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, constants.ErrDeployerExists
		}
	}

	if err := s.deployerRepo.UpdateDeployer(deployer); err != nil {
		return nil, err
	}
	return s.GetDeployerByID(deployer.ID)
}

// DeleteDeployer removes a deployer; past deployments keep their logs
func (s *DeployerService) DeleteDeployer(id int64) error {
	deployer, err := s.deployerRepo.GetDeployerByID(id)
	if err != nil {
		return err
	}
	if deployer == nil {
		return constants.ErrDeployerNotFound
	}
	return s.deployerRepo.DeleteDeployer(id)
}

// validateDeployer checks the target exists and that exactly the config
// block matching the mode is present.
func (s *DeployerService) validateDeployer(deployer *model.Deployer) error {
	target, err := s.targetRepo.GetTargetByID(deployer.TargetID)
	if err != nil {
		return err
	}
	if target == nil {
		return constants.ErrTargetNotFound
	}

	blocks := 0
	if deployer.Git != nil {
		blocks++
	}
	if deployer.Netmiko != nil {
		blocks++
	}
	if deployer.ProxmoxNft != nil {
		blocks++
	}
	if blocks != 1 {
		return constants.Invalid("exactly one mode config block is required")
	}

	switch deployer.Mode {
	case constants.DeployerModeGit:
		if deployer.Git == nil {
			return constants.Invalid("mode git requires the git config block")
		}
		if deployer.Git.RepoURL == "" || deployer.Git.Branch == "" || deployer.Git.SSHKeyEnv == "" {
			return constants.Invalid("git config requires repo url, branch, and ssh key env var")
		}
	case constants.DeployerModeNetmiko:
		if deployer.Netmiko == nil {
			return constants.Invalid("mode netmiko requires the netmiko config block")
		}
		if deployer.Netmiko.Host == "" || deployer.Netmiko.Username == "" {
			return constants.Invalid("netmiko config requires host and username")
		}
		if deployer.Netmiko.PasswordEnv == "" && deployer.Netmiko.SSHKeyEnv == "" {
			return constants.Invalid("netmiko config requires a password or ssh key env var")
		}
	case constants.DeployerModeProxmoxNft:
		if deployer.ProxmoxNft == nil {
			return constants.Invalid("mode proxmox_nft requires the proxmox_nft config block")
		}
		if deployer.ProxmoxNft.Host == "" || deployer.ProxmoxNft.Username == "" {
			return constants.Invalid("proxmox_nft config requires host and username")
		}
		if deployer.ProxmoxNft.PasswordEnv == "" && deployer.ProxmoxNft.SSHKeyEnv == "" {
			return constants.Invalid("proxmox_nft config requires a password or ssh key env var")
		}
	default:
		return constants.Invalid("unknown deployer mode %q", deployer.Mode)
	}
	return nil
}
