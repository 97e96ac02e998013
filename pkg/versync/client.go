package versync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/versync-project/versync/internal/bump"
	"github.com/versync-project/versync/internal/commit"
	"github.com/versync-project/versync/internal/engine"
	"github.com/versync-project/versync/internal/gitrepo"
	"github.com/versync-project/versync/internal/lock"
	"github.com/versync-project/versync/internal/repo"
	"github.com/versync-project/versync/internal/sanitize"
	"github.com/versync-project/versync/internal/scan"
	"github.com/versync-project/versync/pkg/config"
	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/logging"
	"github.com/versync-project/versync/pkg/metrics"
	"github.com/versync-project/versync/pkg/model"
)

// Client provides high-level version synchronization operations on a
// repository.
type Client struct {
	repoRoot string
	repoID   string
	cfg      *config.Config
	log      *logging.Logger
	registry *metrics.Registry
}

// Preview describes what a commit message would do to the repository
// without writing anything.
type Preview struct {
	Commit  *model.Commit     `json:"commit"`
	Bump    model.Bump        `json:"bump"`
	Current string            `json:"current"`
	Next    string            `json:"next"`
	Targets []*model.Manifest `json:"targets"`
}

// ApplyResult reports a committed synchronization run.
type ApplyResult struct {
	TxID    string   `json:"tx_id"`
	Version string   `json:"version"`
	Files   []string `json:"files"`
}

// BumpResult combines the preview with the apply outcome. Applied is
// false when the commits resolved to no bump.
type BumpResult struct {
	Preview *Preview     `json:"preview"`
	Applied bool         `json:"applied"`
	Apply   *ApplyResult `json:"apply,omitempty"`
}

// Init initializes a new versync repository at the given path.
func Init(path string) (*Client, error) {
	r, err := repo.Init(path)
	if err != nil {
		return nil, fmt.Errorf("versync init: %w", err)
	}
	return newClient(r), nil
}

// Open opens an existing versync repository at or above the given path.
func Open(path string) (*Client, error) {
	r, err := repo.Discover(path)
	if err != nil {
		return nil, fmt.Errorf("versync open: %w", err)
	}
	return newClient(r), nil
}

// OpenOrInit opens an existing repository, or initializes a new one if
// none exists.
func OpenOrInit(path string) (*Client, error) {
	versyncDir := filepath.Join(path, repo.VersyncDirName)
	if info, err := os.Stat(versyncDir); err == nil && info.IsDir() {
		return Open(path)
	}
	return Init(path)
}

func newClient(r *repo.Repo) *Client {
	return &Client{
		repoRoot: r.Root,
		repoID:   r.RepoID,
		cfg:      r.Config,
		log:      logging.WithFields(map[string]any{"repo": r.Root}),
		registry: metrics.Default(),
	}
}

// RepoRoot returns the absolute path to the repository root.
func (c *Client) RepoRoot() string { return c.repoRoot }

// RepoID returns the unique repository identifier.
func (c *Client) RepoID() string { return c.repoID }

// Config returns the loaded repository configuration.
func (c *Client) Config() *config.Config { return c.cfg }

// Scan discovers every manifest a version bump must touch.
func (c *Client) Scan() ([]*model.Manifest, error) {
	return scan.Scan(c.repoRoot, c.cfg.PackagesDir)
}

// CurrentVersion returns the version the manifest set agrees on.
// Drift across manifests is a version conflict.
func (c *Client) CurrentVersion(manifests []*model.Manifest) (string, error) {
	if len(manifests) == 0 {
		return "", errclass.ErrFileRead.
			WithMessagef("no packages found under %s", c.cfg.PackagesDir)
	}
	version := manifests[0].Version
	for _, m := range manifests[1:] {
		if m.Version != version {
			return "", errclass.ErrVersionConflict.
				WithMessagef("manifest versions disagree: %s has %s, %s has %s",
					manifests[0].Path, version, m.Path, m.Version).
				WithDetails(map[string]any{
					"expected": version,
					"actual":   m.Version,
					"path":     m.Path,
				})
		}
	}
	return version, nil
}

// ResolveAndPreview sanitizes and parses a raw commit message, resolves
// its bump, and reports the version transition it would apply. Nothing
// is written.
func (c *Client) ResolveAndPreview(_ context.Context, raw string) (*Preview, error) {
	clean, err := sanitize.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	parsed, err := commit.Parse(clean)
	if err != nil {
		return nil, err
	}

	manifests, err := c.Scan()
	if err != nil {
		return nil, err
	}
	current, err := c.CurrentVersion(manifests)
	if err != nil {
		return nil, err
	}
	cv, err := bump.ParseVersion(current)
	if err != nil {
		return nil, err
	}

	b := bump.ForCommit(parsed)
	return &Preview{
		Commit:  parsed,
		Bump:    b,
		Current: current,
		Next:    bump.Next(cv, b).String(),
		Targets: manifests,
	}, nil
}

// ResolveBatch resolves the single bump a batch of raw commit messages
// produces: the maximum bump over the batch. Any message that fails
// sanitization or parsing fails the batch.
func (c *Client) ResolveBatch(_ context.Context, raws []string) (model.Bump, error) {
	commits := make([]*model.Commit, 0, len(raws))
	for i, raw := range raws {
		clean, err := sanitize.Sanitize(raw)
		if err != nil {
			return model.BumpNone, wrapBatchErr(err, i)
		}
		parsed, err := commit.Parse(clean)
		if err != nil {
			return model.BumpNone, wrapBatchErr(err, i)
		}
		commits = append(commits, parsed)
	}
	return bump.Resolve(commits), nil
}

// Apply moves every manifest to version as one all-or-nothing
// transaction under the repository sync lock. The version must be a
// strict advance over the current one.
func (c *Client) Apply(_ context.Context, version string) (*ApplyResult, error) {
	nv, err := bump.ParseVersion(version)
	if err != nil {
		return nil, err
	}

	manifests, err := c.Scan()
	if err != nil {
		return nil, err
	}
	current, err := c.CurrentVersion(manifests)
	if err != nil {
		return nil, err
	}
	cv, err := bump.ParseVersion(current)
	if err != nil {
		return nil, err
	}
	if !nv.GT(cv) {
		return nil, errclass.ErrInvalidVersion.
			WithMessagef("target version %s does not advance current version %s", version, current)
	}

	tx := engine.NewTransaction(manifests, version,
		engine.WithConcurrency(c.cfg.Concurrency),
		engine.WithLogger(c.log),
		engine.WithMetrics(c.registry),
	)

	mgr := lock.NewManager(c.repoRoot, 0)
	if _, err := mgr.Acquire(tx.ID(), "apply"); err != nil {
		return nil, err
	}
	defer mgr.Release(tx.ID())

	if err := tx.Apply(); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(manifests))
	for _, m := range manifests {
		files = append(files, m.Path)
	}
	return &ApplyResult{TxID: tx.ID(), Version: version, Files: files}, nil
}

// Bump resolves a raw commit message and applies the resulting version.
// A message that resolves to no bump returns Applied=false and leaves
// the repository untouched.
func (c *Client) Bump(ctx context.Context, raw string) (*BumpResult, error) {
	preview, err := c.ResolveAndPreview(ctx, raw)
	if err != nil {
		return nil, err
	}
	if preview.Bump == model.BumpNone {
		return &BumpResult{Preview: preview}, nil
	}
	applied, err := c.Apply(ctx, preview.Next)
	if err != nil {
		return nil, err
	}
	return &BumpResult{Preview: preview, Applied: true, Apply: applied}, nil
}

// PreviewFromHistory resolves the bump from every commit since the
// last version tag without writing anything. Commits that do not
// follow the conventional format contribute no bump; history often
// predates the convention.
func (c *Client) PreviewFromHistory(_ context.Context) (*Preview, error) {
	infos, _, err := gitrepo.CommitsSinceLastTag(c.repoRoot)
	if err != nil {
		return nil, err
	}

	var commits []*model.Commit
	for _, info := range infos {
		clean, err := sanitize.Sanitize(info.Message)
		if err != nil {
			c.log.Warn("skipping commit", map[string]any{"sha": info.SHA, "reason": err.Error()})
			continue
		}
		parsed, err := commit.Parse(clean)
		if err != nil {
			c.log.Warn("skipping commit", map[string]any{"sha": info.SHA, "reason": err.Error()})
			continue
		}
		commits = append(commits, parsed)
	}

	b := bump.Resolve(commits)
	manifests, err := c.Scan()
	if err != nil {
		return nil, err
	}
	current, err := c.CurrentVersion(manifests)
	if err != nil {
		return nil, err
	}
	cv, err := bump.ParseVersion(current)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Bump:    b,
		Current: current,
		Next:    bump.Next(cv, b).String(),
		Targets: manifests,
	}, nil
}

// BumpFromHistory resolves the bump from commits since the last
// version tag and applies it.
func (c *Client) BumpFromHistory(ctx context.Context) (*BumpResult, error) {
	preview, err := c.PreviewFromHistory(ctx)
	if err != nil {
		return nil, err
	}
	if preview.Bump == model.BumpNone {
		return &BumpResult{Preview: preview}, nil
	}
	applied, err := c.Apply(ctx, preview.Next)
	if err != nil {
		return nil, err
	}
	return &BumpResult{Preview: preview, Applied: true, Apply: applied}, nil
}

func wrapBatchErr(err error, index int) error {
	var verr *errclass.VersionError
	if errors.As(err, &verr) {
		return verr.WithDetails(map[string]any{"message_index": index})
	}
	return err
}
