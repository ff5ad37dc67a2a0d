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
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	cryptossh "golang.org/x/crypto/ssh"

	"acl-platform/src/internal/model"
)

// deployGit clones the target repository, writes the rendered config into
// the configured folder, and pushes a commit. A clean worktree after the
// write means the device already carries this revision; the job succeeds
// without committing.
func (w *Worker) deployGit(ctx context.Context, logger *log.Logger, cfg *model.DeployerGitConfig, rc *model.RevisionConfig, revisionID int64) error {
	if cfg == nil {
		return fmt.Errorf("git deployer has no git config")
	}
	key := os.Getenv(cfg.SSHKeyEnv)
	if key == "" {
		return fmt.Errorf("environment variable %s holds no SSH key", cfg.SSHKeyEnv)
	}
	auth, err := gitssh.NewPublicKeys("git", []byte(key), "")
	if err != nil {
		return fmt.Errorf("parsing SSH key from %s: %w", cfg.SSHKeyEnv, err)
	}
	auth.HostKeyCallback = cryptossh.InsecureIgnoreHostKey()

	dir, err := os.MkdirTemp("", "acl-deploy-git-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	logger.Printf("cloning %s (branch %s)", cfg.RepoURL, cfg.Branch)
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           cfg.RepoURL,
		ReferenceName: plumbing.NewBranchReferenceName(cfg.Branch),
		SingleBranch:  true,
		// Depth 2 keeps the clone small but still lets the push build on the
		// branch tip.
		Depth: 2,
		Auth:  auth,
	})
	if err != nil {
		return fmt.Errorf("cloning %s: %w", cfg.RepoURL, err)
	}

	relPath := filepath.Join(cfg.FolderPath, configFilename(rc))
	fullPath := filepath.Join(dir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, []byte(rc.Config), 0o644); err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	status, err := worktree.Status()
	if err != nil {
		return err
	}
	if status.IsClean() {
		logger.Printf("%s is unchanged, nothing to push", relPath)
		return nil
	}

	if _, err := worktree.Add(relPath); err != nil {
		return err
	}
	message := fmt.Sprintf("%s updated, revision_id=%d", configFilename(rc), revisionID)
	commit, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "acl-platform",
			Email: "acl-platform@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return err
	}
	logger.Printf("committed %s as %s", relPath, commit.String())

	if err := repo.PushContext(ctx, &git.PushOptions{Auth: auth}); err != nil {
		return fmt.Errorf("pushing to %s: %w", cfg.RepoURL, err)
	}
	logger.Printf("pushed %s to %s", cfg.Branch, cfg.RepoURL)
	return nil
}
