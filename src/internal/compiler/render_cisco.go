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
	"fmt"
	"net/netip"
	"strings"

	"acl-platform/src/internal/constants"
)

// renderCisco emits an IOS-style access list. Naming-table tokens are
// flattened to leaf CIDRs and every (source, destination) combination
// becomes one entry; IPv4 addresses use wildcard-mask notation.
func renderCisco(filterName, header, customHeader string, mode constants.InetMode, records []Record, defs *Definitions) string {
	var b strings.Builder
	for _, line := range commentLines(customHeader, "! ") {
		b.WriteString(line + "\n")
	}

	listCmd := "ip access-list extended " + filterName
	if mode == constants.InetModeV6 {
		listCmd = "ipv6 access-list " + filterName
	}
	// Remove-then-recreate keeps redeploys idempotent.
	b.WriteString("no " + listCmd + "\n")
	b.WriteString(listCmd + "\n")
	b.WriteString(" remark " + header + "\n")

	for _, record := range records {
		b.WriteString(" remark " + record.Name + "\n")
		for _, line := range ciscoEntries(&record, defs) {
			b.WriteString(" " + line + "\n")
		}
	}
	return b.String()
}

func ciscoEntries(record *Record, defs *Definitions) []string {
	action := actionKeyword(record.Action, "permit", "deny")
	protocol := record.Protocol
	if protocol == "" {
		protocol = "ip"
	}

	sources := ciscoAddresses(record.SourceTokens, defs)
	destinations := ciscoAddresses(record.DestTokens, defs)

	var suffix strings.Builder
	if record.Option != nil && (*record.Option == constants.OptionEstablished ||
		*record.Option == constants.OptionTCPEstablished) {
		suffix.WriteString(" established")
	}
	if record.Logging {
		suffix.WriteString(" log")
	}

	var lines []string
	for _, src := range sources {
		for _, dst := range destinations {
			line := fmt.Sprintf("%s %s %s%s %s%s%s",
				action, protocol,
				src, ciscoPorts(record.SourcePorts),
				dst, ciscoPorts(record.DestinationPorts),
				suffix.String())
			lines = append(lines, line)
		}
	}
	return lines
}

// ciscoAddresses flattens one side's tokens to address expressions; an
// empty side is "any".
func ciscoAddresses(tokens []string, defs *Definitions) []string {
	if len(tokens) == 0 {
		return []string{"any"}
	}
	var addresses []string
	for _, token := range tokens {
		for _, prefix := range defs.ResolveNetworkToken(token) {
			addresses = append(addresses, ciscoAddress(prefix))
		}
	}
	if len(addresses) == 0 {
		return []string{"any"}
	}
	return addresses
}

// ciscoAddress renders an IPv4 prefix as address + wildcard mask; IPv6
// stays in prefix notation.
func ciscoAddress(prefix netip.Prefix) string {
	if !prefix.Addr().Is4() {
		return prefix.String()
	}
	if prefix.Bits() == 0 {
		return "any"
	}
	if prefix.Bits() == 32 {
		return "host " + prefix.Addr().String()
	}
	mask := wildcardMask(prefix.Bits())
	return prefix.Addr().String() + " " + mask
}

func wildcardMask(bits int) string {
	var mask [4]byte
	for i := 0; i < 4; i++ {
		remaining := bits - i*8
		switch {
		case remaining >= 8:
			mask[i] = 0
		case remaining <= 0:
			mask[i] = 255
		default:
			mask[i] = byte(255 >> remaining)
		}
	}
	return fmt.Sprintf("%d.%d.%d.%d", mask[0], mask[1], mask[2], mask[3])
}

// ciscoPorts renders port constraints for one side: "eq p1 p2 ..." for
// single ports, "range A B" for a range. IOS accepts multiple eq operands.
func ciscoPorts(ports []string) string {
	if len(ports) == 0 {
		return ""
	}
	var singles []string
	for _, port := range ports {
		if low, high, ok := strings.Cut(port, "-"); ok {
			return fmt.Sprintf(" range %s %s", low, high)
		}
		singles = append(singles, port)
	}
	return " eq " + strings.Join(singles, " ")
}

// commentLines prefixes each non-empty custom-header line.
func commentLines(customHeader, prefix string) []string {
	if customHeader == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(customHeader), "\n") {
		lines = append(lines, prefix+strings.TrimSpace(line))
	}
	return lines
}
