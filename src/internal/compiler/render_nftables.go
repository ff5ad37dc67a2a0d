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
	"strings"

	"acl-platform/src/internal/constants"
)

// renderNftables emits an nftables ruleset. The table declaration is
// rewritten afterwards by postProcessNftables, so the raw form here always
// uses the filtering_policies table and the input hook.
func renderNftables(header, customHeader string, records []Record, defs *Definitions) string {
	var b strings.Builder
	for _, line := range commentLines(customHeader, "# ") {
		b.WriteString(line + "\n")
	}
	b.WriteString("# " + header + "\n")
	b.WriteString("table inet filtering_policies {\n")
	b.WriteString("\tchain input {\n")
	b.WriteString("\t\ttype filter hook input priority 0; policy drop;\n")

	for _, record := range records {
		for _, rule := range nftRules(&record, defs) {
			b.WriteString("\t\t" + rule + "\n")
		}
	}

	b.WriteString("\t}\n")
	b.WriteString("}\n")
	return b.String()
}

func nftRules(record *Record, defs *Definitions) []string {
	var matches []string

	if expr := nftAddressMatch("saddr", record.SourceTokens, defs); expr != "" {
		matches = append(matches, expr)
	}
	if expr := nftAddressMatch("daddr", record.DestTokens, defs); expr != "" {
		matches = append(matches, expr)
	}
	if record.Protocol != "" && record.Protocol != constants.ProtocolTCP && record.Protocol != constants.ProtocolUDP {
		matches = append(matches, "meta l4proto "+record.Protocol)
	}
	if record.Protocol == constants.ProtocolTCP || record.Protocol == constants.ProtocolUDP {
		if expr := nftPortMatch(record.Protocol, "sport", record.SourcePorts); expr != "" {
			matches = append(matches, expr)
		}
		if expr := nftPortMatch(record.Protocol, "dport", record.DestinationPorts); expr != "" {
			matches = append(matches, expr)
		} else if len(record.SourcePorts) == 0 && len(record.DestinationPorts) == 0 {
			matches = append(matches, "meta l4proto "+record.Protocol)
		}
	}
	if record.Option != nil {
		switch *record.Option {
		case constants.OptionEstablished, constants.OptionTCPEstablished:
			matches = append(matches, "ct state established,related")
		case constants.OptionTCPInitial:
			matches = append(matches, "tcp flags syn")
		case constants.OptionIsFragment:
			matches = append(matches, "ip frag-off != 0")
		}
	}

	var verdict string
	switch record.Action {
	case constants.ActionAccept, constants.ActionNext:
		verdict = "accept"
	case constants.ActionReject:
		verdict = "reject"
	case constants.ActionRejectWithTCPRst:
		verdict = "reject with tcp reset"
	default:
		verdict = "drop"
	}
	if record.Logging {
		verdict = fmt.Sprintf("log prefix %q %s", record.Name+": ", verdict)
	}

	rule := strings.Join(append(matches, verdict), " ")
	return []string{fmt.Sprintf("%s comment %q", rule, record.Name)}
}

// nftAddressMatch renders one side as an anonymous set over the flattened
// leaf CIDRs, split per family because inet rules key on ip/ip6.
func nftAddressMatch(direction string, tokens []string, defs *Definitions) string {
	if len(tokens) == 0 {
		return ""
	}
	var v4, v6 []string
	for _, token := range tokens {
		for _, prefix := range defs.ResolveNetworkToken(token) {
			if prefix.Addr().Is4() {
				v4 = append(v4, prefix.String())
			} else {
				v6 = append(v6, prefix.String())
			}
		}
	}
	var parts []string
	if len(v4) > 0 {
		parts = append(parts, fmt.Sprintf("ip %s { %s }", direction, strings.Join(v4, ", ")))
	}
	if len(v6) > 0 {
		parts = append(parts, fmt.Sprintf("ip6 %s { %s }", direction, strings.Join(v6, ", ")))
	}
	return strings.Join(parts, " ")
}

func nftPortMatch(protocol, direction string, ports []string) string {
	if len(ports) == 0 {
		return ""
	}
	rendered := make([]string, len(ports))
	for i, port := range ports {
		rendered[i] = nftPort(port)
	}
	if len(rendered) == 1 {
		return fmt.Sprintf("%s %s %s", protocol, direction, rendered[0])
	}
	return fmt.Sprintf("%s %s { %s }", protocol, direction, strings.Join(rendered, ", "))
}

func nftPort(port string) string {
	if low, high, ok := strings.Cut(port, "-"); ok {
		return low + "-" + high
	}
	return port
}
