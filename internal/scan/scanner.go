// Package scan discovers the manifest set a version bump must change.
package scan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/versync-project/versync/internal/bump"
	"github.com/versync-project/versync/internal/format"
	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/model"
	"github.com/versync-project/versync/pkg/pathutil"
)

// PrimaryManifestName is the file every package directory must contain.
const PrimaryManifestName = "package.json"

// manifestFile is the subset of manifest fields the scanner reads.
type manifestFile struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Plugin       string            `json:"plugin,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

type discovered struct {
	manifest *model.Manifest
	deps     map[string]string
}

// Scan walks <root>/<packagesDir> and returns every manifest a bump must
// touch. A package directory missing a required file is an error, not a
// silent skip: an incomplete set would make the bump inconsistent.
func Scan(root, packagesDir string) ([]*model.Manifest, error) {
	pkgsPath := filepath.Join(root, packagesDir)
	entries, err := os.ReadDir(pkgsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errclass.ErrFileRead.
				WithMessagef("packages directory not found: %s", pkgsPath)
		}
		return nil, errclass.ErrFileRead.
			WithMessagef("read packages directory: %s", pkgsPath).
			WithCause(err)
	}

	var found []*discovered
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		if err := pathutil.ValidatePackageName(entry.Name()); err != nil {
			return nil, err
		}
		d, err := scanPackage(root, filepath.Join(pkgsPath, entry.Name()))
		if err != nil {
			return nil, err
		}
		found = append(found, d...)
	}

	// Resolve sibling dependencies now that every package name is known.
	names := make(map[string]bool, len(found))
	for _, d := range found {
		if d.manifest.Kind == model.ManifestPackage {
			names[d.manifest.Name] = true
		}
	}
	manifests := make([]*model.Manifest, 0, len(found))
	for _, d := range found {
		for dep := range d.deps {
			if dep != d.manifest.Name && names[dep] {
				d.manifest.SiblingDeps = append(d.manifest.SiblingDeps, dep)
			}
		}
		sort.Strings(d.manifest.SiblingDeps)
		manifests = append(manifests, d.manifest)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Path < manifests[j].Path })
	return manifests, nil
}

// scanPackage reads one package directory: the primary manifest plus the
// plugin descriptor it declares, if any.
func scanPackage(root, dir string) ([]*discovered, error) {
	primaryPath := filepath.Join(dir, PrimaryManifestName)
	primary, mf, err := readManifest(primaryPath, model.ManifestPackage)
	if err != nil {
		return nil, err
	}
	primary.manifest.Dir = dir
	if primary.manifest.Name == "" {
		primary.manifest.Name = filepath.Base(dir)
	}

	out := []*discovered{primary}
	if mf.Plugin != "" {
		pluginPath := filepath.Join(dir, mf.Plugin)
		if !pathutil.WithinRoot(root, pluginPath) {
			return nil, errclass.ErrFileRead.
				WithMessagef("plugin descriptor escapes repository: %s", mf.Plugin).
				WithDetails(map[string]any{"package": primary.manifest.Name})
		}
		plugin, _, err := readManifest(pluginPath, model.ManifestPlugin)
		if err != nil {
			return nil, err
		}
		plugin.manifest.Dir = dir
		if plugin.manifest.Name == "" {
			plugin.manifest.Name = primary.manifest.Name
		}
		out = append(out, plugin)
	}
	return out, nil
}

func readManifest(path string, kind model.ManifestKind) (*discovered, *manifestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errclass.ErrFileRead.
			WithMessagef("manifest missing or unreadable: %s", path).
			WithCause(err)
	}

	var mf manifestFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, nil, errclass.ErrFileRead.
			WithMessagef("malformed manifest: %s", path).
			WithCause(err)
	}
	if mf.Version == "" {
		return nil, nil, errclass.ErrInvalidVersion.
			WithMessagef("manifest has no version field: %s", path)
	}
	if _, err := bump.ParseVersion(mf.Version); err != nil {
		return nil, nil, errclass.ErrInvalidVersion.
			WithMessagef("manifest %s: %s", path, err.Error()).
			WithCause(err)
	}

	return &discovered{
		manifest: &model.Manifest{
			Path:    path,
			Name:    mf.Name,
			Kind:    kind,
			Version: mf.Version,
			Format:  format.Detect(data),
		},
		deps: mf.Dependencies,
	}, &mf, nil
}
