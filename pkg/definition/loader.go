package definition

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Extensions recognised by LoadDir.
var Extensions = []string{".yaml", ".yml", ".json"}

// Load reads a single definition file from fsys.
func Load(fsys fs.FS, name string) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", name, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// LoadDir reads every definition file under dir, recursively, in lexical
// order and merges them. A form name defined twice is an error.
func LoadDir(fsys fs.FS, dir string) (*Document, error) {
	if dir == "" {
		dir = "."
	}
	var files []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsDefinitionFile(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("definition: walk %s: %w", dir, err)
	}
	sort.Strings(files)

	merged := &Document{Forms: make(map[string]FormSpec)}
	for _, file := range files {
		doc, err := Load(fsys, file)
		if err != nil {
			return nil, err
		}
		if err := merged.Merge(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	return merged, nil
}

// IsDefinitionFile reports whether name has a definition extension.
func IsDefinitionFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
