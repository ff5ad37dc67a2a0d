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
	"strconv"
	"strings"

	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

// Probe is a classification 5-tuple; any field may be the wildcard "any".
type Probe struct {
	Source          string
	Destination     string
	SourcePort      string
	DestinationPort string
	Protocol        string
}

// Match is the first term selected for a probe.
type Match struct {
	TermName string
	Action   constants.PolicyAction
}

// Classifier simulates packet classification over an expanded term list.
type Classifier struct {
	networks map[int64]*model.Network
	services map[int64]*model.Service
}

// NewClassifier creates a classifier over the given object graph.
func NewClassifier(networks map[int64]*model.Network, services map[int64]*model.Service) *Classifier {
	return &Classifier{networks: networks, services: services}
}

// Classify returns the first enabled term matching the probe, or nil when
// the probe falls through every term.
func (c *Classifier) Classify(terms []model.PolicyTerm, probe Probe) (*Match, error) {
	for i := range terms {
		term := &terms[i]
		if term.IsNested() || !term.Enabled {
			continue
		}
		matched, err := c.termMatches(term, probe)
		if err != nil {
			return nil, err
		}
		if matched {
			return &Match{TermName: term.ValidName(), Action: *term.Action}, nil
		}
	}
	return nil, nil
}

func (c *Classifier) termMatches(term *model.PolicyTerm, probe Probe) (bool, error) {
	srcOK, err := c.sideMatches(probe.Source, term.SourceNetworkIDs, term.NegateSourceNetworks)
	if err != nil || !srcOK {
		return false, err
	}
	dstOK, err := c.sideMatches(probe.Destination, term.DestinationNetworkIDs, term.NegateDestinationNetworks)
	if err != nil || !dstOK {
		return false, err
	}

	srcSpecs, err := sidePortSpecs(term.SourceServiceIDs, c.services)
	if err != nil {
		return false, err
	}
	dstSpecs, err := sidePortSpecs(term.DestinationServiceIDs, c.services)
	if err != nil {
		return false, err
	}

	protocols := protocolUnion(srcSpecs, dstSpecs)
	if len(protocols) > 0 && probe.Protocol != model.Wildcard {
		found := false
		for _, protocol := range protocols {
			if protocol == probe.Protocol {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}

	if !portMatches(probe.SourcePort, probe.Protocol, srcSpecs) {
		return false, nil
	}
	if !portMatches(probe.DestinationPort, probe.Protocol, dstSpecs) {
		return false, nil
	}
	return true, nil
}

// sideMatches checks a probe CIDR against one network side. An empty side
// means "any". A negated side matches when the probe avoids every excluded
// network.
func (c *Classifier) sideMatches(probeCIDR string, networkIDs []int64, negated bool) (bool, error) {
	if probeCIDR == model.Wildcard || len(networkIDs) == 0 {
		return true, nil
	}
	probe, err := parseProbeCIDR(probeCIDR)
	if err != nil {
		return false, err
	}
	leaves, err := sideLeafCIDRs(networkIDs, c.networks)
	if err != nil {
		return false, err
	}
	if negated {
		for _, leaf := range leaves {
			if prefixOverlaps(leaf, probe) {
				return false, nil
			}
		}
		return true, nil
	}
	for _, leaf := range leaves {
		if prefixContains(leaf, probe) {
			return true, nil
		}
	}
	return false, nil
}

// parseProbeCIDR accepts a bare address or a CIDR.
func parseProbeCIDR(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("invalid test network %q: %w", s, err)
		}
		return prefix.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid test address %q: %w", s, err)
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// portMatches checks a probe port against the specs of one side. A side
// without services or a wildcard probe always matches; ICMP carries no
// ports.
func portMatches(probePort, probeProtocol string, specs []PortSpec) bool {
	if probePort == model.Wildcard || len(specs) == 0 || probeProtocol == constants.ProtocolICMP {
		return true
	}
	port, err := strconv.Atoi(probePort)
	if err != nil {
		return false
	}
	for _, spec := range specs {
		if probeProtocol != model.Wildcard && spec.Protocol != probeProtocol {
			continue
		}
		if spec.Port == "" {
			return true
		}
		if portInSpec(port, spec.Port) {
			return true
		}
	}
	return false
}

// portInSpec checks a port against a "N" or "A-B" spec.
func portInSpec(port int, spec string) bool {
	if low, high, ok := strings.Cut(spec, "-"); ok {
		lo, err1 := strconv.Atoi(low)
		hi, err2 := strconv.Atoi(high)
		return err1 == nil && err2 == nil && port >= lo && port <= hi
	}
	n, err := strconv.Atoi(spec)
	return err == nil && port == n
}
