// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for the play catalogue.  A play is
// keyed by a short string id (e.g. "hamlet") and carries a display name
// and a play type.
package repository

import (
	"context"      // context carries deadlines and cancellation to DB operations
	"database/sql" // sql provides the generic database API
	"fmt"
	"strings" // strings builds IN (...) placeholder lists

	"github.com/iliyamo/theater-statement/internal/model"
)

// PlayRepo encapsulates all database queries related to plays.
type PlayRepo struct {
	db *sql.DB
}

// NewPlayRepo constructs a PlayRepo with the provided DB handle.
func NewPlayRepo(db *sql.DB) *PlayRepo {
	return &PlayRepo{db: db}
}

// ListAll returns the whole catalogue as a lookup table.  An empty
// catalogue yields an empty, non-nil map.
func (r *PlayRepo) ListAll(ctx context.Context) (model.Plays, error) {
	const q = `SELECT id, name, type FROM plays ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlays(rows)
}

// GetByIDs returns the plays whose ids appear in ids.  Missing ids are
// simply absent from the result; resolution errors are left to the
// statement builder so that they report the offending performance.
func (r *PlayRepo) GetByIDs(ctx context.Context, ids []string) (model.Plays, error) {
	if len(ids) == 0 {
		return model.Plays{}, nil
	}
	seen := make(map[string]struct{}, len(ids))
	args := make([]interface{}, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT id, name, type FROM plays WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlays(rows)
}

// Upsert inserts the play or replaces the name and type of an existing
// play with the same id.
func (r *PlayRepo) Upsert(ctx context.Context, id string, p model.Play) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(p.Name) == "" || !p.Type.Valid() {
		return fmt.Errorf("%w: id=%q type=%q", ErrInvalidPlay, id, p.Type)
	}
	const q = `INSERT INTO plays (id, name, type) VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE name = VALUES(name), type = VALUES(type)`
	_, err := r.db.ExecContext(ctx, q, id, p.Name, string(p.Type))
	return err
}

func scanPlays(rows *sql.Rows) (model.Plays, error) {
	plays := make(model.Plays)
	for rows.Next() {
		var id, name, typ string
		if err := rows.Scan(&id, &name, &typ); err != nil {
			return nil, err
		}
		// the type is passed through untouched; an unsupported value
		// surfaces as an unknown play type when the play is priced
		plays[id] = model.Play{Name: name, Type: model.PlayType(typ)}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plays, nil
}
