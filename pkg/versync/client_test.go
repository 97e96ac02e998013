package versync_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/model"
	"github.com/versync-project/versync/pkg/versync"
)

func setup(t *testing.T) *versync.Client {
	t.Helper()
	dir := t.TempDir()
	client, err := versync.Init(dir)
	require.NoError(t, err)

	writeManifest(t, dir, "core", `{
  "name": "core",
  "version": "1.2.3"
}
`)
	writeManifest(t, dir, "cli", `{
  "name": "cli",
  "version": "1.2.3",
  "dependencies": {
    "core": "^1.2.3",
    "left-pad": "^1.0.0"
  }
}
`)
	return client
}

func writeManifest(t *testing.T, root, name, body string) {
	t.Helper()
	pkgDir := filepath.Join(root, "packages", name)
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(body), 0644))
}

func TestOpenOrInit(t *testing.T) {
	dir := t.TempDir()

	first, err := versync.OpenOrInit(dir)
	require.NoError(t, err)
	second, err := versync.OpenOrInit(dir)
	require.NoError(t, err)
	assert.Equal(t, first.RepoID(), second.RepoID())
}

func TestClient_ResolveAndPreview(t *testing.T) {
	client := setup(t)

	preview, err := client.ResolveAndPreview(context.Background(), "feat(core): add batching\n")
	require.NoError(t, err)
	assert.Equal(t, model.BumpMinor, preview.Bump)
	assert.Equal(t, "1.2.3", preview.Current)
	assert.Equal(t, "1.3.0", preview.Next)
	assert.Len(t, preview.Targets, 2)
	assert.Equal(t, "feat", preview.Commit.Type)
}

func TestClient_ResolveAndPreview_ParseError(t *testing.T) {
	client := setup(t)

	_, err := client.ResolveAndPreview(context.Background(), "updated some stuff")
	require.ErrorIs(t, err, errclass.ErrParse)
}

func TestClient_ResolveBatch(t *testing.T) {
	client := setup(t)

	b, err := client.ResolveBatch(context.Background(), []string{
		"docs: fix typo",
		"fix(cli): handle empty input",
		"feat!: drop legacy flags\n\nBREAKING CHANGE: --old is gone",
	})
	require.NoError(t, err)
	assert.Equal(t, model.BumpMajor, b)
}

func TestClient_ResolveBatch_FailsOnBadMessage(t *testing.T) {
	client := setup(t)

	_, err := client.ResolveBatch(context.Background(), []string{
		"fix: fine",
		"not conventional",
	})
	require.ErrorIs(t, err, errclass.ErrParse)

	var verr *errclass.VersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Details["message_index"])
}

func TestClient_Apply(t *testing.T) {
	client := setup(t)

	result, err := client.Apply(context.Background(), "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", result.Version)
	assert.Len(t, result.Files, 2)
	assert.NotEmpty(t, result.TxID)

	data, err := os.ReadFile(filepath.Join(client.RepoRoot(), "packages", "cli", "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.0.0"`)
	assert.Contains(t, string(data), `"core": "^2.0.0"`)
	assert.Contains(t, string(data), `"left-pad": "^1.0.0"`)
}

func TestClient_Apply_MustAdvance(t *testing.T) {
	client := setup(t)

	for _, v := range []string{"1.2.3", "1.0.0"} {
		_, err := client.Apply(context.Background(), v)
		require.ErrorIs(t, err, errclass.ErrInvalidVersion, v)
	}
}

func TestClient_Apply_RejectsDrift(t *testing.T) {
	client := setup(t)
	writeManifest(t, client.RepoRoot(), "drifted", `{
  "name": "drifted",
  "version": "9.9.9"
}
`)

	_, err := client.Apply(context.Background(), "2.0.0")
	require.ErrorIs(t, err, errclass.ErrVersionConflict)
}

func TestClient_Bump(t *testing.T) {
	client := setup(t)

	result, err := client.Bump(context.Background(), "fix(core): off-by-one in scanner")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "1.2.4", result.Apply.Version)

	data, err := os.ReadFile(filepath.Join(client.RepoRoot(), "packages", "core", "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.2.4"`)
}

func TestClient_Bump_NoneIsNoop(t *testing.T) {
	client := setup(t)

	result, err := client.Bump(context.Background(), "docs: clarify usage")
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Nil(t, result.Apply)
	assert.Equal(t, "1.2.3", result.Preview.Next)

	data, err := os.ReadFile(filepath.Join(client.RepoRoot(), "packages", "core", "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.2.3"`)
}

func TestClient_CurrentVersion_Empty(t *testing.T) {
	dir := t.TempDir()
	client, err := versync.Init(dir)
	require.NoError(t, err)

	manifests, err := client.Scan()
	require.NoError(t, err)
	_, err = client.CurrentVersion(manifests)
	require.ErrorIs(t, err, errclass.ErrFileRead)
}

func TestClient_BumpFromHistory(t *testing.T) {
	client := setup(t)
	root := client.RepoRoot()

	gr, err := gogit.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := gr.Worktree()
	require.NoError(t, err)
	for _, msg := range []string{"chore: scaffold", "feat(core): batching", "merge stuff"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "note.txt"), []byte(msg), 0644))
		_, err := wt.Add("note.txt")
		require.NoError(t, err)
		_, err = wt.Commit(msg, &gogit.CommitOptions{
			Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: time.Now()},
		})
		require.NoError(t, err)
	}

	result, err := client.BumpFromHistory(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, model.BumpMinor, result.Preview.Bump)
	assert.Equal(t, "1.3.0", result.Apply.Version)
}

func TestClient_PluginDescriptorFollowsPrimary(t *testing.T) {
	client := setup(t)
	root := client.RepoRoot()
	pkgDir := filepath.Join(root, "packages", "themed")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(`{
  "name": "themed",
  "version": "1.2.3",
  "plugin": "plugin.json"
}
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "plugin.json"), []byte(`{
  "name": "themed",
  "version": "1.2.3",
  "entry": "dist/main.js"
}
`), 0644))

	_, err := client.Apply(context.Background(), "1.3.0")
	require.NoError(t, err)

	for _, rel := range []string{"package.json", "plugin.json"} {
		data, err := os.ReadFile(filepath.Join(pkgDir, rel))
		require.NoError(t, err, rel)
		assert.Contains(t, string(data), fmt.Sprintf("%q: %q", "version", "1.3.0"), rel)
	}
}
