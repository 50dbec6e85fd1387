// Package project manages annotation projects on disk.
// Layout: <projects>/<name>/labels.yaml, guidelines.md, texts/*.txt
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"annotate/internal/label"
)

const (
	// LabelsFile is the taxonomy file inside a project directory.
	LabelsFile = "labels.yaml"
	// GuidelinesFile is the annotation guideline document.
	GuidelinesFile = "guidelines.md"
	// TextsDir holds the texts to annotate.
	TextsDir = "texts"
)

var (
	// ErrNotFound is returned for a project or text that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidName is returned for names that cannot be used as a directory.
	ErrInvalidName = errors.New("invalid name")
	// ErrExists is returned when an import would replace an existing text.
	ErrExists = errors.New("already exists")
)

// defaultTaxonomy seeds new projects so the workspace is usable immediately.
var defaultTaxonomy = []label.Label{
	{ID: "person", Name: "Person", Color: "#e06c75", Shortcut: "p", Description: "Named individual"},
	{ID: "place", Name: "Place", Color: "#98c379", Shortcut: "l", Description: "Geographic location"},
	{ID: "org", Name: "Organization", Color: "#61afef", Shortcut: "o", Description: "Institution, company or group"},
	{ID: "date", Name: "Date", Color: "#e5c07b", Shortcut: "d", Description: "Date or time expression"},
}

// Manager handles project CRUD and text access.
type Manager struct {
	projectsBase string
}

// NewManager creates a manager rooted at projectsBase.
func NewManager(projectsBase string) *Manager {
	return &Manager{projectsBase: projectsBase}
}

// Base returns the projects base directory.
func (m *Manager) Base() string {
	return m.projectsBase
}

// ProjectInfo holds minimal project metadata for listing.
type ProjectInfo struct {
	Name       string
	TextCount  int
	LabelCount int
	Dir        string
}

// Project is a fully loaded project: taxonomy plus text names.
type Project struct {
	Name   string
	Dir    string
	Labels label.Set
	Texts  []string
}

// ProjectDir returns the directory for a project by name.
// Names are normalized: lowercase, spaces replaced with hyphens.
func (m *Manager) ProjectDir(name string) string {
	return filepath.Join(m.projectsBase, Normalize(name))
}

// LabelsPath returns the taxonomy file path for a project.
func (m *Manager) LabelsPath(name string) string {
	return filepath.Join(m.ProjectDir(name), LabelsFile)
}

// Normalize returns the canonical project name: trimmed, lowercase, spaces
// replaced with hyphens. Annotations are keyed by it.
func Normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func validName(name string) error {
	n := Normalize(name)
	if n == "" || n == "." || n == ".." || strings.ContainsAny(n, `/\`) || strings.HasPrefix(n, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ListProjects returns projects from disk, sorted by name.
func (m *Manager) ListProjects() ([]ProjectInfo, error) {
	entries, err := os.ReadDir(m.projectsBase)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []ProjectInfo
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		name := e.Name()
		texts, _ := m.ListTexts(name)
		labels, _ := label.LoadFile(m.LabelsPath(name))
		out = append(out, ProjectInfo{
			Name:       name,
			TextCount:  len(texts),
			LabelCount: labels.Len(),
			Dir:        filepath.Join(m.projectsBase, name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateProject creates a project directory with a starter taxonomy and an
// empty texts directory. Creating an existing project is a no-op.
func (m *Manager) CreateProject(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	dir := m.ProjectDir(name)
	if err := os.MkdirAll(filepath.Join(dir, TextsDir), 0755); err != nil {
		return err
	}
	labelsPath := filepath.Join(dir, LabelsFile)
	if _, err := os.Stat(labelsPath); err == nil {
		return nil
	}
	if err := label.SaveFile(labelsPath, defaultTaxonomy); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}
	guide := fmt.Sprintf("# %s annotation guidelines\n\nDescribe when each label applies.\n", name)
	return os.WriteFile(filepath.Join(dir, GuidelinesFile), []byte(guide), 0644)
}

// DeleteProject removes a project directory and everything in it.
func (m *Manager) DeleteProject(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	dir := m.ProjectDir(name)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("project %s: %w", name, ErrNotFound)
		}
		return err
	}
	return os.RemoveAll(dir)
}

// Exists reports whether the project directory exists.
func (m *Manager) Exists(name string) bool {
	info, err := os.Stat(m.ProjectDir(name))
	return err == nil && info.IsDir()
}

// ListTexts returns the .txt files in the project's texts directory, sorted.
func (m *Manager) ListTexts(name string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(m.ProjectDir(name), TextsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// LoadText reads a text from the project.
func (m *Manager) LoadText(projectName, text string) (string, error) {
	if text != filepath.Base(text) {
		return "", fmt.Errorf("%w: text %q", ErrInvalidName, text)
	}
	b, err := os.ReadFile(filepath.Join(m.ProjectDir(projectName), TextsDir, text))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("text %s/%s: %w", projectName, text, ErrNotFound)
		}
		return "", err
	}
	return string(b), nil
}

// ImportText copies srcPath into the project's texts directory and returns
// the stored name. Files without a .txt extension get one appended. An
// existing text of the same name is never replaced; ErrExists is returned.
func (m *Manager) ImportText(projectName, srcPath string) (string, error) {
	if !m.Exists(projectName) {
		return "", fmt.Errorf("project %s: %w", projectName, ErrNotFound)
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := filepath.Base(srcPath)
	if !strings.EqualFold(filepath.Ext(name), ".txt") {
		name += ".txt"
	}
	dstPath := filepath.Join(m.ProjectDir(projectName), TextsDir, name)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return "", err
	}
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return "", fmt.Errorf("text %s: %w", name, ErrExists)
	}
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy %s: %w", name, err)
	}
	return name, dst.Close()
}

// LoadLabels reads the project's taxonomy.
func (m *Manager) LoadLabels(name string) (label.Set, error) {
	return label.LoadFile(m.LabelsPath(name))
}

// SaveLabels writes the project's taxonomy.
func (m *Manager) SaveLabels(name string, labels []label.Label) error {
	return label.SaveFile(m.LabelsPath(name), labels)
}

// LoadProject loads the taxonomy and the text list concurrently.
func (m *Manager) LoadProject(ctx context.Context, name string) (*Project, error) {
	if !m.Exists(name) {
		return nil, fmt.Errorf("project %s: %w", name, ErrNotFound)
	}
	p := &Project{Name: Normalize(name), Dir: m.ProjectDir(name)}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := m.LoadLabels(name)
		if err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		p.Labels = set
		return nil
	})
	g.Go(func() error {
		texts, err := m.ListTexts(name)
		if err != nil {
			return fmt.Errorf("texts: %w", err)
		}
		p.Texts = texts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load project %s: %w", name, err)
	}
	return p, nil
}
