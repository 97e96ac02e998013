package scan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versync-project/versync/internal/scan"
	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/model"
)

func writePackage(t *testing.T, root, name, contents string) string {
	t.Helper()
	dir := filepath.Join(root, "packages", name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(contents), 0644))
	return dir
}

func TestScan_DiscoversPackages(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "core", `{"name":"@repo/core","version":"1.2.0"}`+"\n")
	writePackage(t, root, "utils", `{"name":"@repo/utils","version":"1.2.0"}`+"\n")

	manifests, err := scan.Scan(root, "packages")
	require.NoError(t, err)
	require.Len(t, manifests, 2)

	assert.Equal(t, "@repo/core", manifests[0].Name)
	assert.Equal(t, "1.2.0", manifests[0].Version)
	assert.Equal(t, model.ManifestPackage, manifests[0].Kind)
	assert.Equal(t, "  ", manifests[0].Format.Indent)
}

func TestScan_PluginDescriptor(t *testing.T) {
	root := t.TempDir()
	dir := writePackage(t, root, "core", `{"name":"@repo/core","version":"1.0.0","plugin":"plugin.json"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(`{"version":"1.0.0"}`), 0644))

	manifests, err := scan.Scan(root, "packages")
	require.NoError(t, err)
	require.Len(t, manifests, 2)

	var plugin *model.Manifest
	for _, m := range manifests {
		if m.Kind == model.ManifestPlugin {
			plugin = m
		}
	}
	require.NotNil(t, plugin)
	assert.Equal(t, "@repo/core", plugin.Name)
	assert.Equal(t, filepath.Join(dir, "plugin.json"), plugin.Path)
}

func TestScan_MissingPluginDescriptorIsError(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "core", `{"name":"@repo/core","version":"1.0.0","plugin":"plugin.json"}`)

	_, err := scan.Scan(root, "packages")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrFileRead))
}

func TestScan_MissingPrimaryManifestIsError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", "empty"), 0755))

	_, err := scan.Scan(root, "packages")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrFileRead))
}

func TestScan_MissingPackagesDir(t *testing.T) {
	_, err := scan.Scan(t.TempDir(), "packages")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrFileRead))
}

func TestScan_MalformedManifest(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "core", `{broken`)

	_, err := scan.Scan(root, "packages")
	assert.True(t, errors.Is(err, errclass.ErrFileRead))
}

func TestScan_InvalidVersion(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "core", `{"name":"c","version":"not-semver"}`)

	_, err := scan.Scan(root, "packages")
	assert.True(t, errors.Is(err, errclass.ErrInvalidVersion))

	root = t.TempDir()
	writePackage(t, root, "core", `{"name":"c"}`)
	_, err = scan.Scan(root, "packages")
	assert.True(t, errors.Is(err, errclass.ErrInvalidVersion))
}

func TestScan_SiblingDeps(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "core",
		`{"name":"@repo/core","version":"1.0.0","dependencies":{"@repo/utils":"^1.0.0","lodash":"^4.17.0"}}`)
	writePackage(t, root, "utils", `{"name":"@repo/utils","version":"1.0.0"}`)

	manifests, err := scan.Scan(root, "packages")
	require.NoError(t, err)

	var core *model.Manifest
	for _, m := range manifests {
		if m.Name == "@repo/core" {
			core = m
		}
	}
	require.NotNil(t, core)
	// Only the sibling is tracked; the external dependency is not.
	assert.Equal(t, []string{"@repo/utils"}, core.SiblingDeps)
}

func TestScan_SkipsDotDirsAndFiles(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "core", `{"name":"c","version":"1.0.0"}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", ".hidden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "README.md"), []byte("x"), 0644))

	manifests, err := scan.Scan(root, "packages")
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
}
