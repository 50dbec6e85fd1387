package label

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// taxonomyFile is the on-disk shape of a project's labels.yaml.
type taxonomyFile struct {
	Labels []Label `yaml:"labels"`
}

// LoadFile reads a label taxonomy from a YAML file.
// A missing file yields an empty set and no error.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSet(nil)
		}
		return Set{}, fmt.Errorf("read taxonomy: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML taxonomy document.
func Parse(data []byte) (Set, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Set{}, fmt.Errorf("parse taxonomy: %w", err)
	}
	return NewSet(f.Labels)
}

// SaveFile writes labels to path as a YAML taxonomy, creating parent dirs.
// The labels are validated first so a bad taxonomy is never written.
func SaveFile(path string, labels []Label) error {
	if _, err := NewSet(labels); err != nil {
		return err
	}
	data, err := yaml.Marshal(taxonomyFile{Labels: labels})
	if err != nil {
		return fmt.Errorf("encode taxonomy: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
