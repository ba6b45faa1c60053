// Package catalog reads rule-node descriptors from local YAML files.
// It backs the registry when no server is configured.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	stdpath "path"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/log"
)

// ErrEmpty is returned when the catalog contains no descriptors.
var ErrEmpty = errors.New("catalog has no components")

// File is the root structure of a catalog YAML file.
type File struct {
	Components []rulenode.Descriptor `yaml:"components"`
}

// Source serves descriptors from a catalog file, or every *.yaml file
// under a catalog directory. Files are re-read on every fetch.
type Source struct {
	fsys fs.FS
	root string
}

// NewSource returns a Source for path, which may be a file or a directory.
func NewSource(path string) *Source {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Source{fsys: os.DirFS(filepath.Dir(abs)), root: filepath.Base(abs)}
}

// NewFSSource returns a Source reading root from fsys.
func NewFSSource(fsys fs.FS, root string) *Source {
	return &Source{fsys: fsys, root: root}
}

// FetchDescriptors returns the catalog components whose type is in types.
func (s *Source) FetchDescriptors(ctx context.Context, types []rulenode.ComponentType) ([]*rulenode.Descriptor, error) {
	all, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*rulenode.Descriptor, 0, len(all))
	for _, d := range all {
		if slices.Contains(types, d.Type) {
			out = append(out, d)
		}
	}
	log.Debug(log.CatCatalog, "catalog fetched", "root", s.root, "total", len(all), "matched", len(out))
	return out, nil
}

// Load parses every catalog file and validates the merged result.
func (s *Source) Load(ctx context.Context) ([]*rulenode.Descriptor, error) {
	var all []*rulenode.Descriptor
	seen := make(map[string]string)

	err := fs.WalkDir(s.fsys, s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isYAML(d.Name()) {
			return nil
		}

		content, err := fs.ReadFile(s.fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var file File
		if err := yaml.Unmarshal(content, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		for i := range file.Components {
			desc := &file.Components[i]
			if err := normalize(desc); err != nil {
				return fmt.Errorf("component %d in %s: %w", i, path, err)
			}
			if prev, dup := seen[desc.Clazz]; dup {
				return fmt.Errorf("component %s in %s: already defined in %s", desc.Clazz, path, prev)
			}
			seen[desc.Clazz] = path
			all = append(all, desc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan catalog %s: %w", s.root, err)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("%s: %w", s.root, ErrEmpty)
	}
	return all, nil
}

// normalize validates a parsed descriptor and fills the fields a server
// would always send.
func normalize(d *rulenode.Descriptor) error {
	if strings.TrimSpace(d.Clazz) == "" {
		return errors.New("missing clazz")
	}
	t, ok := rulenode.ParseComponentType(string(d.Type))
	if !ok || !slices.Contains(rulenode.NodeTypes, t) {
		return fmt.Errorf("%s: invalid type %q", d.Clazz, d.Type)
	}
	d.Type = t
	if d.Name == "" {
		d.Name = stdpath.Ext(d.Clazz)
		d.Name = strings.TrimPrefix(d.Name, ".")
		if d.Name == "" {
			d.Name = d.Clazz
		}
	}
	if d.Definition().RelationTypes == nil {
		d.Definition().RelationTypes = []string{}
	}
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(stdpath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
