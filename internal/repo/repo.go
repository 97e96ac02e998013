package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/versync-project/versync/pkg/config"
	"github.com/versync-project/versync/pkg/fsutil"
	"github.com/versync-project/versync/pkg/uuidutil"
)

const (
	VersyncDirName = ".versync"
	RepoIDFile     = "repo_id"
)

// Repo represents an initialized versync repository.
type Repo struct {
	Root   string
	RepoID string
	Config *config.Config
}

// Init creates the .versync layout at path and writes the default
// configuration. Re-initializing an existing repository is an error.
func Init(path string) (*Repo, error) {
	versyncDir := filepath.Join(path, VersyncDirName)
	if _, err := os.Stat(versyncDir); err == nil {
		return nil, fmt.Errorf("already initialized: %s exists", versyncDir)
	}

	dirs := []string{
		versyncDir,
		filepath.Join(versyncDir, "audit"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	repoID := uuidutil.NewV4()
	if err := os.WriteFile(filepath.Join(versyncDir, RepoIDFile), []byte(repoID+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("write repo_id: %w", err)
	}

	cfg := config.Default()
	if err := config.Save(path, cfg); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}

	// Packages directory so a fresh repo scans cleanly
	if err := os.MkdirAll(filepath.Join(path, cfg.PackagesDir), 0755); err != nil {
		return nil, fmt.Errorf("create packages directory: %w", err)
	}

	if err := fsutil.FsyncDir(path); err != nil {
		return nil, fmt.Errorf("fsync repo root: %w", err)
	}

	return &Repo{
		Root:   path,
		RepoID: repoID,
		Config: cfg,
	}, nil
}

// Discover walks up from cwd to find the repository root. A directory
// containing .versync/ wins; failing that, a .git directory marks the
// root so commands work before `versync init` has run.
func Discover(cwd string) (*Repo, error) {
	gitRoot := ""
	path := cwd
	for {
		versyncDir := filepath.Join(path, VersyncDirName)
		if info, err := os.Stat(versyncDir); err == nil && info.IsDir() {
			cfg, err := config.Load(path)
			if err != nil {
				return nil, err
			}
			repoID, _ := readRepoID(versyncDir)
			return &Repo{
				Root:   path,
				RepoID: repoID,
				Config: cfg,
			}, nil
		}
		if gitRoot == "" {
			if info, err := os.Stat(filepath.Join(path, ".git")); err == nil && info.IsDir() {
				gitRoot = path
			}
		}

		parent := filepath.Dir(path)
		if parent == path {
			if gitRoot != "" {
				cfg, err := config.Load(gitRoot)
				if err != nil {
					return nil, err
				}
				return &Repo{Root: gitRoot, Config: cfg}, nil
			}
			return nil, fmt.Errorf("no versync repository found (no .versync/ or .git/ in parent directories)")
		}
		path = parent
	}
}

// PackagesPath returns the absolute packages directory for the repo.
func (r *Repo) PackagesPath() string {
	return filepath.Join(r.Root, r.Config.PackagesDir)
}

func readRepoID(versyncDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(versyncDir, RepoIDFile))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
