// Package guidelines reads and writes a project's annotation guideline
// document.
package guidelines

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"annotate/internal/project"
)

// SummaryWidth is the display width of Summary.
const SummaryWidth = 60

// Store resolves guideline files through the project manager.
type Store struct {
	projects *project.Manager
}

// Guidelines is the guideline text of one project.
type Guidelines struct {
	Project string
	Body    string
}

// NewStore creates a store for the given project manager.
func NewStore(m *project.Manager) *Store {
	return &Store{projects: m}
}

// Path returns the guideline file path for a project.
func (s *Store) Path(projectName string) string {
	return filepath.Join(s.projects.ProjectDir(projectName), project.GuidelinesFile)
}

// Load reads the project's guidelines. A missing project or file yields an
// empty body, not an error.
func (s *Store) Load(projectName string) Guidelines {
	b, err := os.ReadFile(s.Path(projectName))
	if err != nil {
		return Guidelines{Project: projectName}
	}
	return Guidelines{Project: projectName, Body: strings.TrimSpace(string(b))}
}

// Save replaces the project's guidelines.
func (s *Store) Save(projectName, body string) error {
	path := s.Path(projectName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(body)+"\n"), 0644)
}

// Empty reports whether there is no guideline text.
func (g Guidelines) Empty() bool {
	return g.Body == ""
}

// Summary returns the first line without heading markers, truncated to
// SummaryWidth columns.
func (g Guidelines) Summary() string {
	if g.Body == "" {
		return "no guidelines yet"
	}
	first, _, _ := strings.Cut(g.Body, "\n")
	first = strings.TrimSpace(strings.TrimLeft(first, "# "))
	return runewidth.Truncate(first, SummaryWidth, "...")
}
