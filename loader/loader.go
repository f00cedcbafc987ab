// Package loader reads configuration documents from disk into a YAML node
// tree for the validation engine.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/schema"
)

// Document is a loaded configuration tree.
type Document struct {
	// Root is the top level mapping of the document.
	Root *yaml.Node
	// Files lists every file that contributed to Root in load order.
	Files []string
}

// Load reads the document at path. A directory merges its CUE package first
// and then every YAML file in name order.
func Load(path string) (*Document, error) {
	if path == "" {
		return nil, errors.New("document path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat document path: %w", err)
	}
	if info.IsDir() {
		return loadDir(abs)
	}
	root, err := loadFile(abs)
	if err != nil {
		return nil, err
	}
	return &Document{Root: root, Files: []string{abs}}, nil
}

func loadFile(path string) (*yaml.Node, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return loadYAML(path)
	case ".cue":
		return loadCUE(filepath.Dir(path), []string{path})
	default:
		return nil, fmt.Errorf("document %s: unsupported file type %q", path, ext)
	}
}

func loadDir(path string) (*Document, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read document dir %s: %w", path, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var cueFiles, yamlFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".cue":
			cueFiles = append(cueFiles, filepath.Join(path, name))
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, filepath.Join(path, name))
		}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, fmt.Errorf("document dir %s contains no documents", path)
	}

	doc := &Document{}
	if len(cueFiles) > 0 {
		root, err := loadCUE(path, cueFiles)
		if err != nil {
			return nil, err
		}
		doc.Root = root
		doc.Files = append(doc.Files, cueFiles...)
	}
	for _, file := range yamlFiles {
		root, err := loadYAML(file)
		if err != nil {
			return nil, err
		}
		doc.Root = Merge(doc.Root, root)
		doc.Files = append(doc.Files, file)
	}
	return doc, nil
}

func loadYAML(path string) (*yaml.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	var document yaml.Node
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", path, err)
	}
	return rootOf(path, &document)
}

// loadCUE evaluates files as one CUE instance inside dir. The schema overlays
// make #System importable from schema.ImportPath.
func loadCUE(dir string, files []string) (*yaml.Node, error) {
	overlays, err := schema.ResolveOverlays(dir)
	if err != nil {
		return nil, err
	}
	insts := load.Instances(files, &load.Config{Dir: dir, Overlay: overlays})
	if len(insts) == 0 {
		return nil, fmt.Errorf("load cue %s: no instances", dir)
	}
	inst := insts[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("load cue %s: %w", dir, inst.Err)
	}
	v := cuecontext.New().BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("build cue %s: %w", dir, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate cue %s: %w", dir, err)
	}
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("export cue %s: %w", dir, err)
	}
	var document yaml.Node
	if err := yaml.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("convert cue %s: %w", dir, err)
	}
	return rootOf(dir, &document)
}

func rootOf(source string, document *yaml.Node) (*yaml.Node, error) {
	if len(document.Content) == 0 || document.Content[0] == nil {
		return nil, fmt.Errorf("document %s is empty", source)
	}
	root := document.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document %s: top-level value must be a mapping", source)
	}
	return root, nil
}
