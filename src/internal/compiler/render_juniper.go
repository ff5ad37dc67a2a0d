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

// renderJuniper emits a JunOS firewall filter. Term names carry through
// verbatim; naming-table tokens flatten to address lists inside from
// blocks.
func renderJuniper(filterName, header, customHeader string, mode constants.InetMode, records []Record, defs *Definitions) string {
	family := "inet"
	if mode == constants.InetModeV6 {
		family = "inet6"
	}

	var b strings.Builder
	for _, line := range commentLines(customHeader, "/* ") {
		b.WriteString(line + " */\n")
	}
	b.WriteString(fmt.Sprintf("/* %s */\n", header))
	b.WriteString("firewall {\n")
	b.WriteString(fmt.Sprintf("    family %s {\n", family))
	b.WriteString(fmt.Sprintf("        replace: filter %s {\n", filterName))

	for _, record := range records {
		writeJuniperTerm(&b, &record, defs)
	}

	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

func writeJuniperTerm(b *strings.Builder, record *Record, defs *Definitions) {
	indent := "            "
	b.WriteString(indent + fmt.Sprintf("term %s {\n", record.Name))

	hasFrom := len(record.SourceTokens) > 0 || len(record.DestTokens) > 0 ||
		record.Protocol != "" || len(record.SourcePorts) > 0 || len(record.DestinationPorts) > 0 ||
		record.Option != nil
	if hasFrom {
		b.WriteString(indent + "    from {\n")
		writeJuniperAddresses(b, indent+"        ", "source-address", record.SourceTokens, defs)
		writeJuniperAddresses(b, indent+"        ", "destination-address", record.DestTokens, defs)
		if record.Protocol != "" {
			b.WriteString(indent + "        protocol " + record.Protocol + ";\n")
		}
		writeJuniperPorts(b, indent+"        ", "source-port", record.SourcePorts)
		writeJuniperPorts(b, indent+"        ", "destination-port", record.DestinationPorts)
		if record.Option != nil {
			switch *record.Option {
			case constants.OptionEstablished, constants.OptionTCPEstablished:
				b.WriteString(indent + "        tcp-established;\n")
			case constants.OptionTCPInitial:
				b.WriteString(indent + "        tcp-initial;\n")
			case constants.OptionIsFragment:
				b.WriteString(indent + "        is-fragment;\n")
			}
		}
		b.WriteString(indent + "    }\n")
	}

	b.WriteString(indent + "    then {\n")
	switch record.Action {
	case constants.ActionAccept:
		b.WriteString(indent + "        accept;\n")
	case constants.ActionNext:
		b.WriteString(indent + "        next term;\n")
	case constants.ActionReject:
		b.WriteString(indent + "        reject;\n")
	case constants.ActionRejectWithTCPRst:
		b.WriteString(indent + "        reject tcp-reset;\n")
	default:
		b.WriteString(indent + "        discard;\n")
	}
	if record.Logging {
		b.WriteString(indent + "        log;\n")
	}
	b.WriteString(indent + "    }\n")
	b.WriteString(indent + "}\n")
}

func writeJuniperAddresses(b *strings.Builder, indent, keyword string, tokens []string, defs *Definitions) {
	if len(tokens) == 0 {
		return
	}
	b.WriteString(indent + keyword + " {\n")
	for _, token := range tokens {
		for _, prefix := range defs.ResolveNetworkToken(token) {
			b.WriteString(indent + "    " + prefix.String() + ";\n")
		}
	}
	b.WriteString(indent + "}\n")
}

func writeJuniperPorts(b *strings.Builder, indent, keyword string, ports []string) {
	if len(ports) == 0 {
		return
	}
	if len(ports) == 1 {
		b.WriteString(indent + keyword + " " + ports[0] + ";\n")
		return
	}
	b.WriteString(indent + keyword + " [ " + strings.Join(ports, " ") + " ];\n")
}
