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
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	sshDialTimeout = 30 * time.Second
	// readTimeout bounds how long a single device command may stay silent.
	readTimeout = 60 * time.Second
	// readQuiet is the settle window after which a command's output is
	// considered complete.
	readQuiet = 500 * time.Millisecond
)

// dialSSH opens an SSH connection authenticated by a password and/or key
// taken from the named environment variables.
func dialSSH(host string, port int, username, passwordEnv, keyEnv string) (*ssh.Client, error) {
	var methods []ssh.AuthMethod
	if keyEnv != "" {
		if key := os.Getenv(keyEnv); key != "" {
			signer, err := ssh.ParsePrivateKey([]byte(key))
			if err != nil {
				return nil, fmt.Errorf("parsing SSH key from %s: %w", keyEnv, err)
			}
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}
	if passwordEnv != "" {
		if password := os.Getenv(passwordEnv); password != "" {
			methods = append(methods, ssh.Password(password))
		}
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("no SSH credentials available in the configured environment variables")
	}
	if port == 0 {
		port = 22
	}

	return ssh.Dial("tcp", fmt.Sprintf("%s:%d", host, port), &ssh.ClientConfig{
		User:            username,
		Auth:            methods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sshDialTimeout,
	})
}

// deviceShell is an interactive pty session against a network device:
// commands go in line by line, output is drained until the device settles.
type deviceShell struct {
	session *ssh.Session
	stdin   io.WriteCloser
	out     chan string
	logger  *log.Logger
}

func openShell(client *ssh.Client, logger *log.Logger) (*deviceShell, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, err
	}
	if err := session.RequestPty("vt100", 80, 200, ssh.TerminalModes{
		ssh.ECHO: 0,
	}); err != nil {
		session.Close()
		return nil, err
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		return nil, err
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, err
	}
	stderr, err := session.StderrPipe()
	if err != nil {
		session.Close()
		return nil, err
	}
	if err := session.Shell(); err != nil {
		session.Close()
		return nil, err
	}

	shell := &deviceShell{session: session, stdin: stdin, out: make(chan string, 64), logger: logger}
	go shell.pump(stdout)
	go shell.pump(stderr)
	return shell, nil
}

func (s *deviceShell) pump(r io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.out <- string(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// send writes one command and drains the device's response. It fails when
// the device stays silent past the read timeout.
func (s *deviceShell) send(command string) (string, error) {
	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		return "", err
	}
	output, err := s.drain(readTimeout)
	if err != nil {
		return output, fmt.Errorf("command %q: %w", command, err)
	}
	s.logger.Printf(">> %s\n%s", command, output)
	return output, nil
}

// sendQuiet writes a line without logging it; passwords go through here.
func (s *deviceShell) sendQuiet(line string) (string, error) {
	if _, err := io.WriteString(s.stdin, line+"\n"); err != nil {
		return "", err
	}
	return s.drain(readTimeout)
}

// drain collects output until the device stops talking.
func (s *deviceShell) drain(timeout time.Duration) (string, error) {
	var output string
	deadline := time.After(timeout)
	received := false
	for {
		select {
		case chunk := <-s.out:
			output += chunk
			received = true
		case <-time.After(readQuiet):
			if received {
				return output, nil
			}
		case <-deadline:
			if received {
				return output, nil
			}
			return output, fmt.Errorf("no response within %s", timeout)
		}
	}
}

func (s *deviceShell) Close() error {
	s.stdin.Close()
	return s.session.Close()
}
