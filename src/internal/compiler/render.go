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
	"acl-platform/src/internal/model"
)

// Compiler renders expanded policies into per-target ACL text.
type Compiler struct {
	registry *Registry
}

// New creates a compiler over the given generator registry.
func New(registry *Registry) *Compiler {
	return &Compiler{registry: registry}
}

// Request is one compilation: a policy (already expanded) against one
// target.
type Request struct {
	// Name of the policy or dynamic policy; spaces become dashes in the
	// filter name.
	Name          string
	CustomHeader  string
	Terms         []model.PolicyTerm
	Target        *model.Target
	DefaultAction *constants.DefaultAction
	Networks      map[int64]*model.Network
	Services      map[int64]*model.Service
}

// Artifact is the rendered output for one (policy, target) pair.
type Artifact struct {
	Config     string
	FilterName string
	Filename   string
}

// Compile builds the naming table and term records, renders them with the
// target's generator grammar, post-processes device-specific header lines,
// and applies the target's literal substitutions.
func (c *Compiler) Compile(req *Request) (*Artifact, error) {
	profile, err := c.registry.Profile(req.Target.Generator)
	if err != nil {
		return nil, err
	}
	filterName := model.ValidName(req.Name)

	defs, err := BuildDefinitions(req.Terms, req.Networks, req.Services)
	if err != nil {
		return nil, err
	}
	records, err := BuildRecords(req.Terms, req.Networks, req.Services)
	if err != nil {
		return nil, err
	}
	if req.DefaultAction != nil {
		records = append(records, DefaultActionRecord(filterName, *req.DefaultAction))
	}

	header := headerString(profile, filterName, req.Target.InetMode)

	var text string
	switch profile.Style {
	case "juniper":
		text = renderJuniper(filterName, header, req.CustomHeader, req.Target.InetMode, records, defs)
	case "nftables":
		text = renderNftables(header, req.CustomHeader, records, defs)
		text = postProcessNftables(text, filterName)
	default:
		text = renderCisco(filterName, header, req.CustomHeader, req.Target.InetMode, records, defs)
	}

	text = applySubstitutions(text, req.Target.Substitutions)

	return &Artifact{
		Config:     text,
		FilterName: filterName,
		Filename:   filterName + "." + profile.Extension,
	}, nil
}

// headerString derives the target header from the address-family mode.
func headerString(profile Profile, filterName string, mode constants.InetMode) string {
	switch {
	case profile.Style == "cisco" && mode == constants.InetModeV4:
		return "extended"
	case profile.Style == "nftables":
		return fmt.Sprintf("%s input", mode)
	default:
		return fmt.Sprintf("%s %s", filterName, mode)
	}
}

// postProcessNftables renames the rendered table to `bridge <filter name>`
// and moves the hook to postrouting, keeping redeploys of identical input
// idempotent.
func postProcessNftables(text, filterName string) string {
	text = strings.ReplaceAll(text,
		"table inet filtering_policies",
		"table bridge "+filterName)
	text = strings.ReplaceAll(text,
		"type filter hook input priority 0; policy drop;",
		"type filter hook postrouting priority 0;")
	return text
}

// applySubstitutions runs the target's literal replacements in declaration
// order.
func applySubstitutions(text string, subs []model.TargetSubstitution) string {
	for _, sub := range subs {
		text = strings.ReplaceAll(text, sub.Name, sub.Value)
	}
	return text
}

// actionKeyword maps a term action onto the renderer's accept/deny
// vocabulary.
func actionKeyword(action constants.PolicyAction, accept, deny string) string {
	switch action {
	case constants.ActionAccept, constants.ActionNext:
		return accept
	default:
		return deny
	}
}
