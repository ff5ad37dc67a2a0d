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

package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

func testRegistry() *Registry {
	return NewRegistry(
		Profile{Generator: "cisco", Style: "cisco", Extension: "acl", DeviceType: "cisco_ios", HTTPCopy: true},
		Profile{Generator: "juniper", Style: "juniper", Extension: "jcl", DeviceType: "juniper_junos"},
		Profile{Generator: "nftables", Style: "nftables", Extension: "nft"},
	)
}

func compileRequest(generator string, mode constants.InetMode) *Request {
	web := testService(1, "web", protoEntry("tcp", "80"), protoEntry("tcp", "443"))
	internal := testNetwork(1, "internal", "10.0.0.0/8")
	dmz := testNetwork(2, "dmz", "192.0.2.0/24")

	term := tacticalTerm(1, "Edge Filter", "web-in")
	term.SourceNetworkIDs = []int64{1}
	term.DestinationNetworkIDs = []int64{2}
	term.DestinationServiceIDs = []int64{1}

	return &Request{
		Name:  "Edge Filter",
		Terms: []model.PolicyTerm{term},
		Target: &model.Target{
			ID:        1,
			Name:      "edge-fw",
			Generator: generator,
			InetMode:  mode,
		},
		Networks: map[int64]*model.Network{1: internal, 2: dmz},
		Services: map[int64]*model.Service{1: web},
	}
}

func TestCompileCisco(t *testing.T) {
	compiler := New(testRegistry())
	artifact, err := compiler.Compile(compileRequest("cisco", constants.InetModeV4))
	require.NoError(t, err)

	assert.Equal(t, "Edge-Filter", artifact.FilterName)
	assert.Equal(t, "Edge-Filter.acl", artifact.Filename)

	// Remove-then-recreate preamble.
	assert.Contains(t, artifact.Config, "no ip access-list extended Edge-Filter\n")
	assert.Contains(t, artifact.Config, "ip access-list extended Edge-Filter\n")
	assert.Contains(t, artifact.Config, "remark Edge-Filter-web-in-tcp")
	// /8 and /24 in wildcard-mask notation, ports as eq list.
	assert.Contains(t, artifact.Config, "permit tcp 10.0.0.0 0.255.255.255 192.0.2.0 0.0.0.255 eq 80 443")
}

func TestCompileJuniper(t *testing.T) {
	compiler := New(testRegistry())
	artifact, err := compiler.Compile(compileRequest("juniper", constants.InetModeV4))
	require.NoError(t, err)

	assert.Equal(t, "Edge-Filter.jcl", artifact.Filename)
	assert.Contains(t, artifact.Config, "replace: filter Edge-Filter {")
	assert.Contains(t, artifact.Config, "term Edge-Filter-web-in-tcp {")
	assert.Contains(t, artifact.Config, "10.0.0.0/8;")
	assert.Contains(t, artifact.Config, "destination-port [ 80 443 ];")
	assert.Contains(t, artifact.Config, "family inet {")
}

func TestCompileJuniperV6Family(t *testing.T) {
	compiler := New(testRegistry())
	artifact, err := compiler.Compile(compileRequest("juniper", constants.InetModeV6))
	require.NoError(t, err)
	assert.Contains(t, artifact.Config, "family inet6 {")
}

func TestCompileNftables(t *testing.T) {
	compiler := New(testRegistry())
	artifact, err := compiler.Compile(compileRequest("nftables", constants.InetModeV4))
	require.NoError(t, err)

	assert.Equal(t, "Edge-Filter.nft", artifact.Filename)
	// The rendered table is renamed and the hook moved by post-processing.
	assert.Contains(t, artifact.Config, "table bridge Edge-Filter {")
	assert.NotContains(t, artifact.Config, "filtering_policies")
	assert.Contains(t, artifact.Config, "type filter hook postrouting priority 0;")
	assert.Contains(t, artifact.Config, `ip saddr { 10.0.0.0/8 }`)
	assert.Contains(t, artifact.Config, `tcp dport { 80, 443 }`)
}

func TestCompileDefaultActionAppended(t *testing.T) {
	compiler := New(testRegistry())
	req := compileRequest("juniper", constants.InetModeV4)
	action := constants.DefaultDenyLog
	req.DefaultAction = &action

	artifact, err := compiler.Compile(req)
	require.NoError(t, err)
	assert.Contains(t, artifact.Config, "term Edge-Filter-Default-Deny {")

	// The default term must come last.
	webIdx := strings.Index(artifact.Config, "term Edge-Filter-web-in-tcp")
	defaultIdx := strings.Index(artifact.Config, "term Edge-Filter-Default-Deny")
	assert.Greater(t, defaultIdx, webIdx)
}

func TestCompileCustomHeader(t *testing.T) {
	compiler := New(testRegistry())
	req := compileRequest("cisco", constants.InetModeV4)
	req.CustomHeader = "managed by acl-platform\ndo not edit"

	artifact, err := compiler.Compile(req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(artifact.Config, "! managed by acl-platform\n! do not edit\n"))
}

func TestCompileSubstitutions(t *testing.T) {
	compiler := New(testRegistry())
	req := compileRequest("cisco", constants.InetModeV4)
	req.Target.Substitutions = []model.TargetSubstitution{
		{Name: "permit", Value: "allow"},
	}

	artifact, err := compiler.Compile(req)
	require.NoError(t, err)
	assert.NotContains(t, artifact.Config, "permit tcp")
	assert.Contains(t, artifact.Config, "allow tcp")
}

func TestCompileUnknownGenerator(t *testing.T) {
	compiler := New(testRegistry())
	req := compileRequest("cisco", constants.InetModeV4)
	req.Target.Generator = "unknown"

	_, err := compiler.Compile(req)
	assert.ErrorIs(t, err, constants.ErrUnknownGenerator)
}
