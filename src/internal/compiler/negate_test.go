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
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrefix(t *testing.T, s string) netip.Prefix {
	t.Helper()
	prefix, err := netip.ParsePrefix(s)
	require.NoError(t, err)
	return prefix.Masked()
}

func TestComplementSingleV4Prefix(t *testing.T) {
	exclude := []netip.Prefix{mustPrefix(t, "10.0.0.0/8")}
	complement := Complement(exclude)

	// Carving a /8 out of 0.0.0.0/0 leaves exactly one prefix per bit.
	assert.Len(t, complement, 8)

	for _, prefix := range complement {
		assert.False(t, prefix.Overlaps(exclude[0]),
			"complement %s overlaps the excluded space", prefix)
	}

	// Probes outside the excluded space must be covered.
	for _, probe := range []string{"9.255.255.255", "11.0.0.0", "192.0.2.1", "255.255.255.255"} {
		addr := netip.MustParseAddr(probe)
		covered := false
		for _, prefix := range complement {
			if prefix.Contains(addr) {
				covered = true
				break
			}
		}
		assert.True(t, covered, "address %s not covered by the complement", probe)
	}
}

func TestComplementMultiplePrefixes(t *testing.T) {
	exclude := []netip.Prefix{
		mustPrefix(t, "10.0.0.0/8"),
		mustPrefix(t, "192.168.0.0/16"),
	}
	complement := Complement(exclude)

	for _, prefix := range complement {
		for _, ex := range exclude {
			assert.False(t, prefix.Overlaps(ex))
		}
	}
	assert.True(t, containsAddr(complement, "172.16.0.1"))
	assert.False(t, containsAddr(complement, "10.1.2.3"))
	assert.False(t, containsAddr(complement, "192.168.50.1"))
}

func TestComplementSortedNonOverlapping(t *testing.T) {
	complement := Complement([]netip.Prefix{
		mustPrefix(t, "172.16.0.0/12"),
		mustPrefix(t, "10.10.0.0/16"),
	})
	for i := 1; i < len(complement); i++ {
		assert.True(t, complement[i-1].Addr().Less(complement[i].Addr()) ||
			complement[i-1].Addr() == complement[i].Addr())
		assert.False(t, complement[i-1].Overlaps(complement[i]))
	}
}

func TestComplementV6RootOnlyWhenV6Excluded(t *testing.T) {
	v4Only := Complement([]netip.Prefix{mustPrefix(t, "10.0.0.0/8")})
	for _, prefix := range v4Only {
		assert.True(t, prefix.Addr().Is4(), "v4-only exclusion produced %s", prefix)
	}

	mixed := Complement([]netip.Prefix{
		mustPrefix(t, "10.0.0.0/8"),
		mustPrefix(t, "2001:db8::/32"),
	})
	hasV6 := false
	for _, prefix := range mixed {
		if !prefix.Addr().Is4() {
			hasV6 = true
		}
	}
	assert.True(t, hasV6)
	assert.False(t, containsAddr(mixed, "2001:db8::1"))
	assert.True(t, containsAddr(mixed, "2001:db9::1"))
}

func TestComplementFullSpace(t *testing.T) {
	// Excluding the whole v4 space leaves nothing.
	complement := Complement([]netip.Prefix{mustPrefix(t, "0.0.0.0/0")})
	assert.Empty(t, complement)
}

func containsAddr(prefixes []netip.Prefix, addr string) bool {
	a := netip.MustParseAddr(addr)
	for _, prefix := range prefixes {
		if prefix.Contains(a) {
			return true
		}
	}
	return false
}
