package doctor_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versync-project/versync/internal/audit"
	"github.com/versync-project/versync/internal/doctor"
	"github.com/versync-project/versync/internal/lock"
	"github.com/versync-project/versync/internal/repo"
)

func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := repo.Init(dir)
	require.NoError(t, err)
	return dir
}

func writePackage(t *testing.T, root, name, version string) {
	t.Helper()
	pkgDir := filepath.Join(root, "packages", name)
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	body := fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": %q\n}\n", name, version)
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(body), 0644))
}

func findingCategories(result *doctor.Result) []string {
	var cats []string
	for _, f := range result.Findings {
		cats = append(cats, f.Category)
	}
	return cats
}

func TestDoctor_Check_Healthy(t *testing.T) {
	root := setupRepo(t)
	writePackage(t, root, "core", "1.0.0")
	writePackage(t, root, "cli", "1.0.0")

	doc := doctor.NewDoctor(root, nil)
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy)
	assert.Empty(t, result.Findings)
}

func TestDoctor_Check_MissingLayout(t *testing.T) {
	doc := doctor.NewDoctor(t.TempDir(), nil)
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.False(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "layout")
}

func TestDoctor_Check_VersionDrift(t *testing.T) {
	root := setupRepo(t)
	writePackage(t, root, "core", "1.0.0")
	writePackage(t, root, "cli", "1.1.0")

	doc := doctor.NewDoctor(root, nil)
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.False(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "packages")
}

func TestDoctor_Check_MalformedManifest(t *testing.T) {
	root := setupRepo(t)
	pkgDir := filepath.Join(root, "packages", "bad")
	require.NoError(t, os.MkdirAll(pkgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte("{"), 0644))

	doc := doctor.NewDoctor(root, nil)
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.False(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "packages")
}

func TestDoctor_Check_StaleLock(t *testing.T) {
	root := setupRepo(t)
	writePackage(t, root, "core", "1.0.0")

	mgr := lock.NewManager(root, time.Millisecond)
	_, err := mgr.Acquire("tx-stale", "apply")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	doc := doctor.NewDoctor(root, nil)
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy) // info only
	assert.Contains(t, findingCategories(result), "lock")
}

func TestDoctor_Check_Strict_TamperedAudit(t *testing.T) {
	root := setupRepo(t)
	writePackage(t, root, "core", "1.0.0")

	logPath := filepath.Join(root, ".versync", "audit", "audit.jsonl")
	appender := audit.NewFileAppender(logPath)
	require.NoError(t, appender.Append("E_PARSE_ERROR", "first", nil, "", nil))
	require.NoError(t, appender.Append("E_PARSE_ERROR", "second", nil, "", nil))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	tampered := []byte(string(data[:len(data)-20]) + "x" + string(data[len(data)-19:]))
	require.NoError(t, os.WriteFile(logPath, tampered, 0644))

	doc := doctor.NewDoctor(root, nil)
	result, err := doc.Check(true)
	require.NoError(t, err)
	assert.False(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "audit")
}

func TestDoctor_Check_OrphanTmp(t *testing.T) {
	root := setupRepo(t)
	writePackage(t, root, "core", "1.0.0")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".versync-tmp-123"), []byte("x"), 0644))

	doc := doctor.NewDoctor(root, nil)
	result, err := doc.Check(false)
	require.NoError(t, err)
	assert.True(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "tmp")
}
