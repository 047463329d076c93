// Package project locates the Dart package a command runs in and reads its
// pubspec.yaml.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	PubspecFile = "pubspec.yaml"
	MelosFile   = "melos.yaml"

	VeloPackage     = "velo"
	VeloTestPackage = "velo_test"
	flutterSDK      = "flutter"
)

// Profile summarizes a package manifest.
type Profile struct {
	Root     string   `json:"root"`
	Name     string   `json:"name,omitempty"`
	Flutter  bool     `json:"flutter"`
	Velo     bool     `json:"velo"`
	VeloTest bool     `json:"veloTest"`
	Packages []string `json:"packages,omitempty"`
}

type pubspec struct {
	Name            string         `yaml:"name"`
	Dependencies    map[string]any `yaml:"dependencies"`
	DevDependencies map[string]any `yaml:"dev_dependencies"`
}

// FindRoot walks up from start to the nearest directory holding a
// pubspec.yaml or melos.yaml.
func FindRoot(fsys afero.Fs, start string) (string, bool) {
	dir := filepath.Clean(start)
	for {
		for _, name := range []string{PubspecFile, MelosFile} {
			if ok, _ := afero.Exists(fsys, filepath.Join(dir, name)); ok {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Detect reads root/pubspec.yaml. A missing manifest yields an empty profile;
// a malformed one is an error.
func Detect(fsys afero.Fs, root string) (*Profile, error) {
	profile := &Profile{Root: root}
	profile.Packages = melosPackages(fsys, root)

	data, err := afero.ReadFile(fsys, filepath.Join(root, PubspecFile))
	if errors.Is(err, fs.ErrNotExist) {
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", PubspecFile, err)
	}

	var spec pubspec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PubspecFile, err)
	}

	profile.Name = spec.Name
	_, profile.Velo = spec.Dependencies[VeloPackage]
	_, profile.VeloTest = spec.DevDependencies[VeloTestPackage]
	profile.Flutter = isSDKDependency(spec.Dependencies[flutterSDK])
	return profile, nil
}

// isSDKDependency matches the `flutter: {sdk: flutter}` form.
func isSDKDependency(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	sdk, _ := m["sdk"].(string)
	return sdk == flutterSDK
}

// melosPackages returns the sorted package globs of a melos workspace.
func melosPackages(fsys afero.Fs, root string) []string {
	data, err := afero.ReadFile(fsys, filepath.Join(root, MelosFile))
	if err != nil {
		return nil
	}
	var config struct {
		Packages []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil
	}
	if len(config.Packages) == 0 {
		// Default Melos pattern
		config.Packages = []string{"packages/**"}
	}
	sort.Strings(config.Packages)
	return config.Packages
}
