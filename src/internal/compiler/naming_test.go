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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acl-platform/src/internal/model"
)

func TestBuildDefinitionsEmitsNetworkTree(t *testing.T) {
	leaf := testNetwork(1, "leaf", "10.0.0.0/24")
	parent := testNetwork(2, "parent", "192.168.0.0/16")
	nestedAddress(parent, 1)

	term := tacticalTerm(100, "p", "t")
	term.SourceNetworkIDs = []int64{2}

	networks := map[int64]*model.Network{1: leaf, 2: parent}
	defs, err := BuildDefinitions([]model.PolicyTerm{term}, networks, nil)
	require.NoError(t, err)

	members := defs.NetworkMembers(parent.HashedName())
	require.Len(t, members, 2)
	assert.Equal(t, "192.168.0.0/16", members[0])
	assert.Equal(t, leaf.HashedName(), members[1])

	// The nested token resolves transitively to both leaves.
	leaves := defs.ResolveNetworkToken(parent.HashedName())
	require.Len(t, leaves, 2)
}

func TestBuildDefinitionsReusedObjectSameToken(t *testing.T) {
	shared := testNetwork(7, "shared", "10.1.0.0/16")
	a := tacticalTerm(1, "p", "a")
	a.SourceNetworkIDs = []int64{7}
	b := tacticalTerm(2, "p", "b")
	b.DestinationNetworkIDs = []int64{7}

	defs, err := BuildDefinitions([]model.PolicyTerm{a, b},
		map[int64]*model.Network{7: shared}, nil)
	require.NoError(t, err)

	// One token, emitted once, regardless of how many terms reference it.
	assert.Equal(t, []string{shared.HashedName()}, defs.NetworkTokens())
}

func TestBuildDefinitionsServiceSpecs(t *testing.T) {
	web := testService(1, "web", protoEntry("tcp", "80"), protoEntry("tcp", "443"))
	wrapped := testService(2, "wrapped", nestedEntry(1), protoEntry("udp", "53"))

	term := tacticalTerm(10, "p", "t")
	term.DestinationServiceIDs = []int64{2}

	defs, err := BuildDefinitions([]model.PolicyTerm{term}, nil,
		map[int64]*model.Service{1: web, 2: wrapped})
	require.NoError(t, err)

	specs := defs.ServiceSpecs("wrapped")
	require.Len(t, specs, 3)
	assert.Equal(t, PortSpec{Protocol: "tcp", Port: "80"}, specs[0])
	assert.Equal(t, PortSpec{Protocol: "tcp", Port: "443"}, specs[1])
	assert.Equal(t, PortSpec{Protocol: "udp", Port: "53"}, specs[2])
}

func TestBuildDefinitionsNegatedSideGetsComplementToken(t *testing.T) {
	internal := testNetwork(1, "internal", "10.0.0.0/8")

	term := tacticalTerm(55, "p", "not-internal")
	term.SourceNetworkIDs = []int64{1}
	term.NegateSourceNetworks = true

	defs, err := BuildDefinitions([]model.PolicyTerm{term},
		map[int64]*model.Network{1: internal}, nil)
	require.NoError(t, err)

	token := term.HashedName() + "src"
	members := defs.NetworkMembers(token)
	require.NotEmpty(t, members)
	for _, member := range members {
		assert.NotEqual(t, "10.0.0.0/8", member)
	}
}

func TestBuildDefinitionsSkipsDisabledAndNested(t *testing.T) {
	network := testNetwork(1, "n", "10.0.0.0/8")
	off := tacticalTerm(1, "p", "off")
	off.Enabled = false
	off.SourceNetworkIDs = []int64{1}
	splice := nestedTerm(2, "p", "splice", 9)

	defs, err := BuildDefinitions([]model.PolicyTerm{off, splice},
		map[int64]*model.Network{1: network}, nil)
	require.NoError(t, err)
	assert.Empty(t, defs.NetworkTokens())
}
