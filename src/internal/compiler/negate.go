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
	"sort"
)

// Complement computes the address-space complement of the excluded
// networks, per address family: if any IPv4 network is excluded the root
// 0.0.0.0/0 contributes, if any IPv6 network is excluded ::/0 contributes.
// The result is a flat list of non-overlapping CIDRs sorted by address.
func Complement(exclude []netip.Prefix) []netip.Prefix {
	var roots []netip.Prefix
	hasV4, hasV6 := false, false
	for _, p := range exclude {
		if p.Addr().Is4() {
			hasV4 = true
		} else {
			hasV6 = true
		}
	}
	if hasV4 {
		roots = append(roots, netip.PrefixFrom(netip.IPv4Unspecified(), 0))
	}
	if hasV6 {
		roots = append(roots, netip.PrefixFrom(netip.IPv6Unspecified(), 0))
	}

	var remaining []netip.Prefix
	for _, root := range roots {
		parts := []netip.Prefix{root}
		for _, ex := range exclude {
			if ex.Addr().Is4() != root.Addr().Is4() {
				continue
			}
			var next []netip.Prefix
			for _, part := range parts {
				if prefixContains(part, ex) {
					next = append(next, subtract(part, ex)...)
				} else {
					next = append(next, part)
				}
			}
			parts = next
		}
		remaining = append(remaining, parts...)
	}

	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].Addr() != remaining[j].Addr() {
			return remaining[i].Addr().Less(remaining[j].Addr())
		}
		return remaining[i].Bits() < remaining[j].Bits()
	})
	return remaining
}

// subtract splits space into the minimum set of subnets covering space
// minus ex. Requires ex ⊆ space.
func subtract(space, ex netip.Prefix) []netip.Prefix {
	if space.Bits() == ex.Bits() {
		return nil
	}
	var kept []netip.Prefix
	current := space
	for current.Bits() < ex.Bits() {
		lower, upper := halves(current)
		if prefixContains(lower, ex) {
			kept = append(kept, upper)
			current = lower
		} else {
			kept = append(kept, lower)
			current = upper
		}
	}
	return kept
}

// halves splits a prefix into its two child prefixes.
func halves(p netip.Prefix) (netip.Prefix, netip.Prefix) {
	bits := p.Bits() + 1
	lower := netip.PrefixFrom(p.Addr(), bits)
	var upperAddr netip.Addr
	if p.Addr().Is4() {
		a := p.Addr().As4()
		a[p.Bits()/8] |= 1 << (7 - p.Bits()%8)
		upperAddr = netip.AddrFrom4(a)
	} else {
		a := p.Addr().As16()
		a[p.Bits()/8] |= 1 << (7 - p.Bits()%8)
		upperAddr = netip.AddrFrom16(a)
	}
	return lower, netip.PrefixFrom(upperAddr, bits)
}

// prefixContains reports whether outer fully covers inner.
func prefixContains(outer, inner netip.Prefix) bool {
	return outer.Bits() <= inner.Bits() && outer.Contains(inner.Addr())
}

// prefixOverlaps reports whether two prefixes share any address.
func prefixOverlaps(a, b netip.Prefix) bool {
	return a.Overlaps(b)
}
