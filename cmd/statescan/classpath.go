package statescan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/state-scan/state-scan/internal/model"
)

// resolveClasspath turns the CLI's single positional target path into a
// ResolvedClasspath (spec.md §6: that conversion normally belongs to a
// build-tool descriptor collaborator out of this module's scope, but the
// CLI still needs something to hand internal/scan, so it walks target for
// itself): target is treated as the sole project class directory, and
// every .jar/.war/.ear found under it is treated as a dependency archive.
func resolveClasspath(target, packagePrefix string) (model.ResolvedClasspath, error) {
	info, err := os.Stat(target)
	if err != nil {
		return model.ResolvedClasspath{}, fmt.Errorf("resolving target path %s: %w", target, err)
	}
	if !info.IsDir() {
		if isArchive(target) {
			return model.ResolvedClasspath{
				DependencyArchives:    []string{target},
				DetectedPackagePrefix: packagePrefix,
			}, nil
		}
		return model.ResolvedClasspath{}, fmt.Errorf("target path %s is neither a directory nor a .jar/.war/.ear archive", target)
	}

	var archives []string
	err = filepath.WalkDir(target, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && isArchive(path) {
			archives = append(archives, path)
		}
		return nil
	})
	if err != nil {
		return model.ResolvedClasspath{}, fmt.Errorf("walking target path %s: %w", target, err)
	}

	return model.ResolvedClasspath{
		ProjectClassDirs:      []string{target},
		DependencyArchives:    archives,
		DetectedPackagePrefix: packagePrefix,
	}, nil
}

func isArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".war", ".ear":
		return true
	default:
		return false
	}
}
