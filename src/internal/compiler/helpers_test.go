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
	"acl-platform/src/internal/constants"
	"acl-platform/src/internal/model"
)

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func actionPtr(a constants.PolicyAction) *constants.PolicyAction { return &a }

// testNetwork builds a network whose addresses are literal CIDRs.
func testNetwork(id int64, name string, cidrs ...string) *model.Network {
	n := &model.Network{ID: id, Name: name}
	for _, cidr := range cidrs {
		n.Addresses = append(n.Addresses, model.NetworkAddress{NetworkID: id, Address: strPtr(cidr)})
	}
	return n
}

// nestedAddress appends a nested-network member to a network.
func nestedAddress(n *model.Network, nestedID int64) {
	n.Addresses = append(n.Addresses, model.NetworkAddress{NetworkID: n.ID, NestedNetworkID: int64Ptr(nestedID)})
}

func testService(id int64, name string, entries ...model.ServiceEntry) *model.Service {
	return &model.Service{ID: id, Name: name, Entries: entries}
}

func protoEntry(protocol string, port string) model.ServiceEntry {
	e := model.ServiceEntry{Protocol: strPtr(protocol)}
	if port != "" {
		e.Port = strPtr(port)
	}
	return e
}

func nestedEntry(nestedID int64) model.ServiceEntry {
	return model.ServiceEntry{NestedServiceID: int64Ptr(nestedID)}
}

// tacticalTerm builds an enabled accept term owned by the named policy.
func tacticalTerm(id int64, policyName, name string) model.PolicyTerm {
	return model.PolicyTerm{
		ID:         id,
		Name:       name,
		PolicyName: policyName,
		Enabled:    true,
		Action:     actionPtr(constants.ActionAccept),
	}
}

func nestedTerm(id int64, policyName, name string, nestedPolicyID int64) model.PolicyTerm {
	return model.PolicyTerm{
		ID:             id,
		Name:           name,
		PolicyName:     policyName,
		Enabled:        true,
		NestedPolicyID: int64Ptr(nestedPolicyID),
	}
}
