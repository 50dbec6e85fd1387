// Package annotation persists per-segment label selections in SQLite.
package annotation

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"annotate/internal/jsonutil"
)

// Annotation is the label selection for one segment of one text.
type Annotation struct {
	ID        string
	Project   string
	Text      string
	Segment   int
	Labels    []string
	UpdatedAt time.Time
}

// Store handles annotation persistence.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the annotation database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS annotations (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		text TEXT NOT NULL,
		segment INTEGER NOT NULL,
		labels TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(project, text, segment)
	);

	CREATE INDEX IF NOT EXISTS idx_annotations_project ON annotations(project);
	`)
	return err
}

// Put stores a segment's labels, replacing any previous selection.
// An empty label list removes the row.
func (s *Store) Put(ctx context.Context, a Annotation) error {
	if len(a.Labels) == 0 {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM annotations WHERE project = ? AND text = ? AND segment = ?
		`, a.Project, a.Text, a.Segment)
		if err != nil {
			return fmt.Errorf("delete annotation %s/%s#%d: %w", a.Project, a.Text, a.Segment, err)
		}
		return nil
	}

	labels, err := jsonutil.EncodeStrings(a.Labels)
	if err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO annotations (id, project, text, segment, labels, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project, text, segment)
		DO UPDATE SET labels = excluded.labels, updated_at = excluded.updated_at
	`, a.ID, a.Project, a.Text, a.Segment, labels, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("put annotation %s/%s#%d: %w", a.Project, a.Text, a.Segment, err)
	}
	return nil
}

// Get returns the annotation for one segment. ok is false when the segment
// has no labels.
func (s *Store) Get(ctx context.Context, project, text string, segment int) (a Annotation, ok bool, err error) {
	var labels string
	var updated int64
	err = s.db.QueryRowContext(ctx, `
		SELECT id, labels, updated_at FROM annotations
		WHERE project = ? AND text = ? AND segment = ?
	`, project, text, segment).Scan(&a.ID, &labels, &updated)
	if err == sql.ErrNoRows {
		return Annotation{}, false, nil
	}
	if err != nil {
		return Annotation{}, false, err
	}
	a.Project, a.Text, a.Segment = project, text, segment
	a.UpdatedAt = time.Unix(0, updated)
	a.Labels, err = jsonutil.DecodeStrings(labels, "annotation labels")
	if err != nil {
		return Annotation{}, false, err
	}
	return a, true, nil
}

// ForText returns the label selections of a text keyed by segment index.
func (s *Store) ForText(ctx context.Context, project, text string) (map[int][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT segment, labels FROM annotations
		WHERE project = ? AND text = ?
		ORDER BY segment
	`, project, text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]string)
	for rows.Next() {
		var seg int
		var labels string
		if err := rows.Scan(&seg, &labels); err != nil {
			return nil, err
		}
		ids, err := jsonutil.DecodeStrings(labels, fmt.Sprintf("segment %d labels", seg))
		if err != nil {
			return nil, err
		}
		out[seg] = ids
	}
	return out, rows.Err()
}

// LabelUsage counts how many segments in the project carry each label id.
func (s *Store) LabelUsage(ctx context.Context, project string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT labels FROM annotations WHERE project = ?
	`, project)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var labels string
		if err := rows.Scan(&labels); err != nil {
			return nil, err
		}
		ids, err := jsonutil.DecodeStrings(labels, "annotation labels")
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			usage[id]++
		}
	}
	return usage, rows.Err()
}

// DeleteProject removes every annotation of a project.
func (s *Store) DeleteProject(ctx context.Context, project string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE project = ?`, project)
	if err != nil {
		return 0, fmt.Errorf("delete annotations of %s: %w", project, err)
	}
	return res.RowsAffected()
}
