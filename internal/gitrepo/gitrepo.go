// Package gitrepo reads commit history from the repository that holds
// the packages being synchronized.
package gitrepo

import (
	"strings"

	"github.com/blang/semver/v4"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/versync-project/versync/pkg/errclass"
)

// Info is a single commit as seen by the resolver.
type Info struct {
	SHA     string
	Message string
}

// HeadCommit returns the commit HEAD points at.
func HeadCommit(root string) (*Info, error) {
	repo, err := open(root)
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, errclass.ErrGitState.WithMessage("repository has no commits").WithCause(err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, errclass.ErrGitState.WithMessagef("resolve HEAD commit %s", head.Hash()).WithCause(err)
	}
	return &Info{SHA: commit.Hash.String(), Message: commit.Message}, nil
}

// CommitsSinceLastTag walks HEAD history back to the most recent
// commit carrying a semantic-version tag and returns the commits after
// it, oldest first, together with the tagged version. A nil version
// means no version tag was found and the walk covered all of history.
func CommitsSinceLastTag(root string) ([]Info, *semver.Version, error) {
	repo, err := open(root)
	if err != nil {
		return nil, nil, err
	}

	tagged, err := versionTags(repo)
	if err != nil {
		return nil, nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, nil, errclass.ErrGitState.WithMessage("repository has no commits").WithCause(err)
	}
	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, nil, errclass.ErrGitState.WithMessage("walk commit history").WithCause(err)
	}

	var commits []Info
	var baseVersion *semver.Version
	err = iter.ForEach(func(c *object.Commit) error {
		if v, ok := tagged[c.Hash]; ok {
			baseVersion = &v
			return storer.ErrStop
		}
		commits = append(commits, Info{SHA: c.Hash.String(), Message: c.Message})
		return nil
	})
	if err != nil {
		return nil, nil, errclass.ErrGitState.WithMessage("walk commit history").WithCause(err)
	}

	// Log yields newest first; the resolver wants chronological order.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, baseVersion, nil
}

// versionTags maps commit hashes to the semantic version their tag
// names. Annotated tags are peeled to their target commit. Tags that
// do not parse as versions are ignored.
func versionTags(repo *gogit.Repository) (map[plumbing.Hash]semver.Version, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, errclass.ErrGitState.WithMessage("list tags").WithCause(err)
	}

	tagged := make(map[plumbing.Hash]semver.Version)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := strings.TrimPrefix(ref.Name().Short(), "v")
		v, parseErr := semver.Parse(name)
		if parseErr != nil {
			return nil
		}

		hash := ref.Hash()
		if tagObj, tagErr := repo.TagObject(hash); tagErr == nil {
			hash = tagObj.Target
		}
		if prev, ok := tagged[hash]; !ok || v.GT(prev) {
			tagged[hash] = v
		}
		return nil
	})
	if err != nil {
		return nil, errclass.ErrGitState.WithMessage("list tags").WithCause(err)
	}
	return tagged, nil
}

func open(root string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(root)
	if err != nil {
		return nil, errclass.ErrGitState.WithMessagef("open git repository at %s", root).WithCause(err)
	}
	return repo, nil
}
