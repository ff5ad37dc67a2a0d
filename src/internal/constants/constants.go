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

package constants

// PolicyAction is the action a policy term takes on matching traffic.
type PolicyAction string

const (
	ActionAccept           PolicyAction = "accept"
	ActionDeny             PolicyAction = "deny"
	ActionNext             PolicyAction = "next"
	ActionReject           PolicyAction = "reject"
	ActionRejectWithTCPRst PolicyAction = "reject-with-tcp-rst"
)

// ValidPolicyActions lists every accepted term action.
var ValidPolicyActions = []PolicyAction{
	ActionAccept, ActionDeny, ActionNext, ActionReject, ActionRejectWithTCPRst,
}

// TermOption is the optional match modifier of a policy term.
type TermOption string

const (
	OptionEstablished    TermOption = "established"
	OptionIsFragment     TermOption = "is-fragment"
	OptionTCPEstablished TermOption = "tcp-established"
	OptionTCPInitial     TermOption = "tcp-initial"
)

// DefaultAction is the terminal action appended to dynamic policies.
type DefaultAction string

const (
	DefaultAccept    DefaultAction = "accept"
	DefaultAcceptLog DefaultAction = "accept-log"
	DefaultDeny      DefaultAction = "deny"
	DefaultDenyLog   DefaultAction = "deny-log"
)

// InetMode selects the address family a target renders for.
type InetMode string

const (
	InetModeV4    InetMode = "inet"
	InetModeV6    InetMode = "inet6"
	InetModeMixed InetMode = "mixed"
)

// DeployerMode selects the delivery adaptor for a deployer.
type DeployerMode string

const (
	DeployerModeGit        DeployerMode = "git"
	DeployerModeNetmiko    DeployerMode = "netmiko"
	DeployerModeProxmoxNft DeployerMode = "proxmox_nft"
)

// DeploymentStatus is the lifecycle state of a single deployment attempt.
type DeploymentStatus string

const (
	DeploymentPending   DeploymentStatus = "pending"
	DeploymentRunning   DeploymentStatus = "running"
	DeploymentCompleted DeploymentStatus = "completed"
	DeploymentFailed    DeploymentStatus = "failed"
)

const (
	ProtocolTCP  = "tcp"
	ProtocolUDP  = "udp"
	ProtocolICMP = "icmp"
)

// Scopes carried by bearer tokens. Read scopes gate GET endpoints, write
// scopes gate mutations on the matching resource family.
const (
	ScopePoliciesRead     = "policies:read"
	ScopePoliciesWrite    = "policies:write"
	ScopeNetworksRead     = "networks:read"
	ScopeNetworksWrite    = "networks:write"
	ScopeServicesRead     = "services:read"
	ScopeServicesWrite    = "services:write"
	ScopeTargetsRead      = "targets:read"
	ScopeTargetsWrite     = "targets:write"
	ScopeTestsRead        = "tests:read"
	ScopeTestsWrite       = "tests:write"
	ScopeRevisionsRead    = "revisions:read"
	ScopeRevisionsWrite   = "revisions:write"
	ScopeDeployersRead    = "deployers:read"
	ScopeDeployersWrite   = "deployers:write"
	ScopeDeploymentsRead  = "deployments:read"
	ScopeDeploymentsWrite = "deployments:write"
)
