package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a JSON or YAML definition and validates it. source names the
// payload in error messages.
func Parse(data []byte, source string, opts ...Option) (Definition, error) {
	def, err := decode(data, source)
	if err != nil {
		return Definition{}, err
	}
	if err := validate(def, source, NewOptions(opts...)); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadFile reads and parses a definition from disk.
func LoadFile(path string, opts ...Option) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(data, path, opts...)
}

func decode(data []byte, source string) (Definition, error) {
	var def Definition
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("definition: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	def = Definition{}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return def, nil
}

// Store holds the definitions gathered by LoadFS keyed by Definition.Key.
type Store struct {
	definitions map[string]Definition
	sources     map[string]string
}

// LoadFS walks fsys and parses every JSON/YAML file as a definition. When
// fsys is nil or holds no definition files the returned store is empty.
func LoadFS(fsys fs.FS, opts ...Option) (*Store, error) {
	store := &Store{
		definitions: make(map[string]Definition),
		sources:     make(map[string]string),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		def, err := Parse(data, path, opts...)
		if err != nil {
			return err
		}

		key := def.Key()
		if key == "" {
			key = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if previous, exists := store.sources[key]; exists {
			return fmt.Errorf("definition: duplicate definition %q (files %s and %s)", key, previous, path)
		}
		store.definitions[key] = def
		store.sources[key] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Definition returns the definition filed under key.
func (s *Store) Definition(key string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.definitions[key]
	return def, ok
}

// Source returns the file a definition was loaded from.
func (s *Store) Source(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	path, ok := s.sources[key]
	return path, ok
}

// Keys lists the stored definition keys in sorted order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.definitions))
	for key := range s.definitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether the store holds any definitions.
func (s *Store) Empty() bool {
	return s == nil || len(s.definitions) == 0
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
