package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/consentbase/schemasync/pkg/schema"
)

// fragmentFile is the on-disk shape of one schema YAML file
type fragmentFile struct {
	Source    string          `yaml:"source"`
	Fragments []fragmentEntry `yaml:"fragments"`
}

type fragmentEntry struct {
	Table             string                  `yaml:"table"`
	Order             int                     `yaml:"order"`
	Fields            map[string]schema.Field `yaml:"fields"`
	FieldOrder        []string                `yaml:"field_order"`
	UniqueConstraints [][]string              `yaml:"unique_constraints"`
	Indexes           [][]string              `yaml:"indexes"`
}

// loadFragments reads every .yaml/.yml file in dir, in name order so
// later files win field collisions deterministically
func loadFragments(dir string) ([]schema.Fragment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	var fragments []schema.Fragment
	for _, path := range files {
		loaded, err := loadFragmentFile(path)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, loaded...)
	}
	return fragments, nil
}

func loadFragmentFile(path string) ([]schema.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file fragmentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	source := file.Source
	if source == "" {
		source = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	fragments := make([]schema.Fragment, 0, len(file.Fragments))
	for _, entry := range file.Fragments {
		fragments = append(fragments, schema.Fragment{
			Table:  entry.Table,
			Source: source,
			Definition: schema.TableDefinition{
				Fields:            entry.Fields,
				FieldOrder:        entry.FieldOrder,
				Order:             entry.Order,
				UniqueConstraints: entry.UniqueConstraints,
				Indexes:           entry.Indexes,
			},
		})
	}
	return fragments, nil
}
