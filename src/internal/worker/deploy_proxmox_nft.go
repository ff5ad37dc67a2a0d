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

package worker

import (
	"bytes"
	"fmt"
	"log"
	"path"
	"strings"

	"golang.org/x/crypto/ssh"

	"acl-platform/src/internal/model"
)

const nftRulesetDir = "/opt/nft"

// deployProxmoxNft uploads an nftables ruleset to a Proxmox host and loads
// it atomically: syntax-check first, make sure the bridge table exists,
// flush it, then apply the file. The flush-then-apply pair keeps repeat
// deployments of the same revision idempotent.
func (w *Worker) deployProxmoxNft(logger *log.Logger, cfg *model.DeployerProxmoxNftConfig, rc *model.RevisionConfig) error {
	if cfg == nil {
		return fmt.Errorf("proxmox_nft deployer has no proxmox_nft config")
	}

	client, err := dialSSH(cfg.Host, cfg.Port, cfg.Username, cfg.PasswordEnv, cfg.SSHKeyEnv)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.Host, err)
	}
	defer client.Close()

	rulesetPath := path.Join(nftRulesetDir, configFilename(rc))
	if err := runRemote(client, logger, fmt.Sprintf("mkdir -p %s", nftRulesetDir), nil); err != nil {
		return err
	}
	if err := runRemote(client, logger, fmt.Sprintf("cat > %s", rulesetPath), strings.NewReader(rc.Config)); err != nil {
		return err
	}

	commands := []string{
		fmt.Sprintf("nft -c -f %s", rulesetPath),
		fmt.Sprintf("nft add table bridge %s", rc.FilterName),
		fmt.Sprintf("nft flush table bridge %s", rc.FilterName),
		fmt.Sprintf("nft -f %s", rulesetPath),
	}
	for _, command := range commands {
		if err := runRemote(client, logger, command, nil); err != nil {
			return err
		}
	}
	logger.Printf("ruleset %s loaded on %s", rc.FilterName, cfg.Host)
	return nil
}

// runRemote executes one command in a fresh session. Anything on stderr
// fails the deployment: nft reports syntax and load problems there even
// when it exits zero.
func runRemote(client *ssh.Client, logger *log.Logger, command string, stdin *strings.Reader) error {
	session, err := client.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if stdin != nil {
		session.Stdin = stdin
	}

	runErr := session.Run(command)
	if stdout.Len() > 0 {
		logger.Printf(">> %s\n%s", command, stdout.String())
	} else {
		logger.Printf(">> %s", command)
	}
	if stderr.Len() > 0 {
		return fmt.Errorf("command %q wrote to stderr: %s", command, strings.TrimSpace(stderr.String()))
	}
	if runErr != nil {
		return fmt.Errorf("command %q: %w", command, runErr)
	}
	return nil
}
