package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordStore is the minimal document-store surface the engine needs:
// hierarchical string paths with exactly three primitives.
//
// Get on a leaf path returns the stored document. Get on a branch path
// (one with stored children) returns a JSON object mapping each direct
// child key to its document, mirroring how a hierarchical remote store
// returns a subtree. The boolean reports existence.
type RecordStore interface {
	Get(ctx context.Context, path string) (json.RawMessage, bool, error)

	// Set writes the full value at path, replacing any previous document.
	Set(ctx context.Context, path string, value any) error

	// Update merges only the named fields into the document at path,
	// creating it if absent. Unnamed fields are left untouched.
	Update(ctx context.Context, path string, fields map[string]any) error
}

// NewKey returns a fresh store-assigned record key.
func NewKey() string {
	return uuid.NewString()
}

// sqliteRecords implements RecordStore over the records table.
type sqliteRecords struct {
	db *sql.DB
}

func (r *sqliteRecords) Get(ctx context.Context, path string) (json.RawMessage, bool, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT doc FROM records WHERE path = ?`, path).Scan(&doc)
	switch {
	case err == nil:
		return json.RawMessage(doc), true, nil
	case err != sql.ErrNoRows:
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}

	// No leaf document. Assemble direct children into an object.
	prefix := path + "/"
	rows, err := r.db.QueryContext(ctx,
		`SELECT path, doc FROM records WHERE path LIKE ? ORDER BY path`,
		prefix+"%")
	if err != nil {
		return nil, false, fmt.Errorf("get children of %s: %w", path, err)
	}
	defer rows.Close()

	children := make(map[string]json.RawMessage)
	for rows.Next() {
		var childPath, childDoc string
		if err := rows.Scan(&childPath, &childDoc); err != nil {
			return nil, false, fmt.Errorf("scan child of %s: %w", path, err)
		}
		rest := strings.TrimPrefix(childPath, prefix)
		if strings.Contains(rest, "/") {
			// Deeper descendant; only direct children are assembled.
			continue
		}
		children[rest] = json.RawMessage(childDoc)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate children of %s: %w", path, err)
	}

	if len(children) == 0 {
		return nil, false, nil
	}

	assembled, err := json.Marshal(children)
	if err != nil {
		return nil, false, fmt.Errorf("assemble children of %s: %w", path, err)
	}
	return assembled, true, nil
}

func (r *sqliteRecords) Set(ctx context.Context, path string, value any) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", path, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (path, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		path, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (r *sqliteRecords) Update(ctx context.Context, path string, fields map[string]any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s: begin: %w", path, err)
	}
	defer tx.Rollback()

	merged := make(map[string]any)

	var doc string
	err = tx.QueryRowContext(ctx,
		`SELECT doc FROM records WHERE path = ?`, path).Scan(&doc)
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(doc), &merged); err != nil {
			return fmt.Errorf("update %s: existing document is not an object: %w", path, err)
		}
	case err != sql.ErrNoRows:
		return fmt.Errorf("update %s: read: %w", path, err)
	}

	for k, v := range fields {
		merged[k] = v
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("update %s: marshal: %w", path, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (path, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		path, string(out), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("update %s: write: %w", path, err)
	}

	return tx.Commit()
}

// sortedKeys returns a map's keys in sorted order for deterministic iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
