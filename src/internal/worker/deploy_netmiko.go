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
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"acl-platform/src/internal/compiler"
	"acl-platform/src/internal/model"
	"acl-platform/src/internal/utils"
)

// deviceSession is the interactive command surface the netmiko adaptor
// drives. deviceShell satisfies it over a real SSH pty.
type deviceSession interface {
	send(command string) (string, error)
	sendQuiet(line string) (string, error)
	drain(timeout time.Duration) (string, error)
}

// deployNetmiko drives a network device over an interactive SSH session.
// When the device kind supports HTTP copy and the service is externally
// reachable, the device pulls the config from the raw_config endpoint in a
// single copy command; otherwise the config is pushed line by line in
// configuration mode.
func (w *Worker) deployNetmiko(logger *log.Logger, deployer *model.Deployer, rc *model.RevisionConfig, revisionID int64) error {
	cfg := deployer.Netmiko
	if cfg == nil {
		return fmt.Errorf("netmiko deployer has no netmiko config")
	}
	profile, err := w.profileFor(deployer.TargetID)
	if err != nil {
		return err
	}

	client, err := dialSSH(cfg.Host, cfg.Port, cfg.Username, cfg.PasswordEnv, cfg.SSHKeyEnv)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.Host, err)
	}
	defer client.Close()

	shell, err := openShell(client, logger)
	if err != nil {
		return err
	}
	defer shell.Close()

	return w.runNetmikoSession(logger, shell, cfg, profile, rc, revisionID, deployer.TargetID)
}

func (w *Worker) runNetmikoSession(logger *log.Logger, shell deviceSession, cfg *model.DeployerNetmikoConfig, profile compiler.Profile, rc *model.RevisionConfig, revisionID, targetID int64) error {
	// Let the login banner and initial prompt pass.
	prompt, _ := shell.drain(readQuiet * 4)

	// Config push requires enable mode; a device left in user EXEC mode
	// would reject or mangle the commands, so abort instead.
	if !privilegedPrompt(prompt) {
		if _, err := shell.send("enable"); err != nil {
			return err
		}
		var err error
		if prompt, err = shell.sendQuiet(os.Getenv(cfg.EnableEnv)); err != nil {
			return err
		}
		if !privilegedPrompt(prompt) {
			return fmt.Errorf("device %s did not enter enable mode", cfg.Host)
		}
	}
	if _, err := shell.send("terminal length 0"); err != nil {
		return err
	}

	if profile.HTTPCopy && w.cfg.APIURL != "" {
		url := fmt.Sprintf("%s/api/v1/revisions/%d/raw_config/%d/%s",
			strings.TrimSuffix(w.cfg.APIURL, "/"), revisionID, targetID, utils.ConfigHash(rc.Config))
		if _, err := shell.send(fmt.Sprintf("copy %s running-config", url)); err != nil {
			return err
		}
	} else {
		if _, err := shell.send("configure terminal"); err != nil {
			return err
		}
		for _, line := range strings.Split(rc.Config, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if _, err := shell.send(line); err != nil {
				return err
			}
		}
		if _, err := shell.send("end"); err != nil {
			return err
		}
	}

	if _, err := shell.send("write memory"); err != nil {
		return err
	}
	logger.Printf("configuration saved on %s", cfg.Host)
	return nil
}

// privilegedPrompt reports whether the last prompt line indicates enable
// mode ('#') rather than user EXEC mode ('>').
func privilegedPrompt(output string) bool {
	lines := strings.Split(strings.TrimRight(output, " \t\r\n"), "\n")
	return strings.HasSuffix(strings.TrimSpace(lines[len(lines)-1]), "#")
}
