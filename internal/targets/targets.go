// Package targets loads the optional list of extra monitor targets.
package targets

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tiarrablandin/grimoire-status/internal/checker"
)

// PrimaryName is reserved for the configured backend and cannot be used by
// an extra target.
const PrimaryName = "backend"

// File is the YAML document shape.
type File struct {
	Targets []Entry `yaml:"targets"`
}

// Entry describes one extra monitor target.
type Entry struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// Load reads, normalizes and validates the targets file. An empty path means
// the feature is off and yields an empty list.
func Load(path string) ([]checker.Target, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}

	normalize(&file)
	if err := validate(&file); err != nil {
		return nil, err
	}

	var list []checker.Target
	for _, entry := range file.Targets {
		list = append(list, checker.Target{
			Name: entry.Name,
			URL:  strings.TrimSuffix(entry.URL, "/") + entry.Path,
		})
	}
	return list, nil
}

// normalize applies defaults. It may mutate the file and runs before validate.
func normalize(file *File) {
	for i := range file.Targets {
		entry := &file.Targets[i]
		entry.Name = strings.TrimSpace(entry.Name)
		entry.URL = strings.TrimSpace(entry.URL)
		if entry.Path == "" {
			entry.Path = "/"
		}
		if !strings.HasPrefix(entry.Path, "/") {
			entry.Path = "/" + entry.Path
		}
	}
}

// validate checks the file declaratively and does not mutate it.
func validate(file *File) error {
	seen := make(map[string]bool)

	for _, entry := range file.Targets {
		if entry.Name == "" {
			return fmt.Errorf("target with url %q has no name", entry.URL)
		}
		if entry.Name == PrimaryName {
			return fmt.Errorf("target name %q is reserved for the primary backend", PrimaryName)
		}
		if seen[entry.Name] {
			return fmt.Errorf("duplicate target name %q", entry.Name)
		}
		seen[entry.Name] = true

		u, err := url.Parse(entry.URL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("target %q: url %q is not an absolute URL", entry.Name, entry.URL)
		}
	}

	return nil
}
