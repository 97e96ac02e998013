// Package hook installs the git commit-msg hook that validates
// commit messages before they enter history.
package hook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/versync-project/versync/pkg/fsutil"
)

const (
	// HookName is the git hook the validator installs as.
	HookName = "commit-msg"

	// BackupSuffix is appended to a pre-existing hook before overwrite.
	BackupSuffix = ".pre-versync"
)

const script = `#!/bin/sh
# Installed by versync. Validates the commit message and reports the
# version bump it would produce. Rejects messages that fail parsing.
versync preview --file "$1" --quiet
`

// Install writes the commit-msg hook into the repository's .git/hooks
// directory. An existing hook is preserved at commit-msg.pre-versync.
// The returned path is the installed hook.
func Install(repoRoot string) (string, error) {
	hooksDir := filepath.Join(repoRoot, ".git", "hooks")
	if info, err := os.Stat(filepath.Join(repoRoot, ".git")); err != nil || !info.IsDir() {
		return "", fmt.Errorf("no .git directory at %s", repoRoot)
	}
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", fmt.Errorf("create hooks dir: %w", err)
	}

	hookPath := filepath.Join(hooksDir, HookName)
	if existing, err := os.ReadFile(hookPath); err == nil {
		if string(existing) == script {
			return hookPath, nil // already installed
		}
		backup := hookPath + BackupSuffix
		if err := fsutil.AtomicWrite(backup, existing, 0755); err != nil {
			return "", fmt.Errorf("back up existing hook: %w", err)
		}
	}

	if err := fsutil.AtomicWrite(hookPath, []byte(script), 0755); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}
	return hookPath, nil
}

// Uninstall removes the hook and restores a backed-up predecessor if
// one exists.
func Uninstall(repoRoot string) error {
	hookPath := filepath.Join(repoRoot, ".git", "hooks", HookName)
	data, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read hook: %w", err)
	}
	if string(data) != script {
		return fmt.Errorf("hook at %s was not installed by versync", hookPath)
	}

	backup := hookPath + BackupSuffix
	if restored, err := os.ReadFile(backup); err == nil {
		if err := fsutil.AtomicWrite(hookPath, restored, 0755); err != nil {
			return fmt.Errorf("restore previous hook: %w", err)
		}
		return os.Remove(backup)
	}
	return os.Remove(hookPath)
}
