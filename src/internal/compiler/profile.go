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
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"acl-platform/src/internal/constants"
)

// Profile describes one generator kind: how its output is rendered, the
// file extension of rendered configs, and how devices of this kind are
// driven during deployment. Profiles are data, so adding a device kind is a
// resource file, not code.
type Profile struct {
	// Generator is the kind key targets refer to (cisco, juniper, ...).
	Generator string `yaml:"generator"`
	// Style selects the renderer grammar: cisco, juniper, or nftables.
	Style string `yaml:"style"`
	// Extension of rendered config filenames, without the dot.
	Extension string `yaml:"extension"`
	// DeviceType is the netmiko-style SSH driver name, when deployable
	// over an interactive session.
	DeviceType string `yaml:"device_type,omitempty"`
	// HTTPCopy marks device kinds that can pull a config over HTTP with a
	// single copy command.
	HTTPCopy bool `yaml:"http_copy,omitempty"`
}

// Registry holds the generator profiles loaded at startup.
type Registry struct {
	profiles map[string]Profile
}

// LoadRegistry reads every *.yaml profile in dir.
func LoadRegistry(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read generator profiles directory: %w", err)
	}

	registry := &Registry{profiles: make(map[string]Profile)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read generator profile %s: %w", entry.Name(), err)
		}
		var profile Profile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse generator profile %s: %w", entry.Name(), err)
		}
		if profile.Generator == "" {
			return nil, fmt.Errorf("generator profile %s has no generator key", entry.Name())
		}
		registry.profiles[profile.Generator] = profile
	}
	if len(registry.profiles) == 0 {
		return nil, fmt.Errorf("no generator profiles found in %s", dir)
	}
	return registry, nil
}

// NewRegistry builds a registry from in-memory profiles; tests use this.
func NewRegistry(profiles ...Profile) *Registry {
	registry := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, profile := range profiles {
		registry.profiles[profile.Generator] = profile
	}
	return registry
}

// Profile looks up the profile for a generator kind.
func (r *Registry) Profile(generator string) (Profile, error) {
	profile, ok := r.profiles[generator]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", constants.ErrUnknownGenerator, generator)
	}
	return profile, nil
}

// Generators returns the known generator kinds.
func (r *Registry) Generators() []string {
	kinds := make([]string, 0, len(r.profiles))
	for kind := range r.profiles {
		kinds = append(kinds, kind)
	}
	return kinds
}
