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

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// Record is one rendered rule: a term narrowed to a single protocol (or no
// protocol at all when the term carries no service). Network sides hold
// naming-table tokens; empty sides mean "any".
type Record struct {
	Name             string
	Action           constants.PolicyAction
	Option           *constants.TermOption
	Logging          bool
	Protocol         string
	SourceTokens     []string
	DestTokens       []string
	SourcePorts      []string
	DestinationPorts []string
}

// BuildRecords turns the expanded term list into renderer records: one per
// (enabled term, used protocol), named `<term valid name>-<protocol>`. A
// term with both source and destination services uses the union of their
// protocols; a term with no service emits a single protocol-less record.
// ICMP records carry no port fields.
func BuildRecords(terms []model.PolicyTerm, networks map[int64]*model.Network, services map[int64]*model.Service) ([]Record, error) {
	var records []Record
	for i := range terms {
		term := &terms[i]
		if term.IsNested() || !term.Enabled {
			continue
		}

		srcTokens, err := sideTokens(term, term.SourceNetworkIDs, term.NegateSourceNetworks, "src", networks)
		if err != nil {
			return nil, err
		}
		dstTokens, err := sideTokens(term, term.DestinationNetworkIDs, term.NegateDestinationNetworks, "dst", networks)
		if err != nil {
			return nil, err
		}

		srcSpecs, err := sidePortSpecs(term.SourceServiceIDs, services)
		if err != nil {
			return nil, err
		}
		dstSpecs, err := sidePortSpecs(term.DestinationServiceIDs, services)
		if err != nil {
			return nil, err
		}

		base := Record{
			Action:       *term.Action,
			Option:       term.Option,
			Logging:      term.Logging,
			SourceTokens: srcTokens,
			DestTokens:   dstTokens,
		}

		protocols := protocolUnion(srcSpecs, dstSpecs)
		if len(protocols) == 0 {
			record := base
			record.Name = term.ValidName()
			records = append(records, record)
			continue
		}
		for _, protocol := range protocols {
			record := base
			record.Name = term.ValidName() + "-" + protocol
			record.Protocol = protocol
			if protocol != constants.ProtocolICMP {
				record.SourcePorts = portsFor(srcSpecs, protocol)
				record.DestinationPorts = portsFor(dstSpecs, protocol)
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// sideTokens maps one side of a term to naming-table tokens: the synthetic
// complement token when negated, the networks' hashed tokens otherwise.
func sideTokens(term *model.PolicyTerm, networkIDs []int64, negated bool, suffix string, networks map[int64]*model.Network) ([]string, error) {
	if negated {
		return []string{term.HashedName() + suffix}, nil
	}
	tokens := make([]string, 0, len(networkIDs))
	for _, id := range networkIDs {
		network, ok := networks[id]
		if !ok {
			return nil, constants.ErrNetworkNotFound
		}
		tokens = append(tokens, network.HashedName())
	}
	return tokens, nil
}

// protocolUnion collects the distinct protocols of both sides in first-seen
// order.
func protocolUnion(specSets ...[]PortSpec) []string {
	seen := make(map[string]bool)
	var protocols []string
	for _, specs := range specSets {
		for _, spec := range specs {
			if !seen[spec.Protocol] {
				seen[spec.Protocol] = true
				protocols = append(protocols, spec.Protocol)
			}
		}
	}
	return protocols
}

func portsFor(specs []PortSpec, protocol string) []string {
	var ports []string
	for _, spec := range specs {
		if spec.Protocol == protocol && spec.Port != "" {
			ports = append(ports, spec.Port)
		}
	}
	return ports
}

// DefaultActionRecord builds the terminal term appended when a default
// action is configured: `<filter name>-Default-Accept` or `-Default-Deny`,
// logging iff the configured action carries the -log suffix.
func DefaultActionRecord(filterName string, action constants.DefaultAction) Record {
	logging := strings.HasSuffix(string(action), "-log")
	name := "Default-Deny"
	termAction := constants.ActionDeny
	if strings.HasPrefix(string(action), "accept") {
		name = "Default-Accept"
		termAction = constants.ActionAccept
	}
	return Record{
		Name:    filterName + "-" + name,
		Action:  termAction,
		Logging: logging,
	}
}
