package postgres

import (
	"context"
	"strings"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// NoteRepo implements NoteRepository using PostgreSQL.
type NoteRepo struct{ q Querier }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(q Querier) *NoteRepo { return &NoteRepo{q: q} }

const noteCols = `id, name, image_url, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	if err := row.Scan(&n.ID, &n.Name, &n.ImageURL, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a note row.
func (r *NoteRepo) Create(ctx context.Context, in model.NoteInput) (*model.Note, error) {
	const q = `INSERT INTO notes (name, image_url) VALUES ($1, $2) RETURNING ` + noteCols
	n, err := scanNote(r.q.QueryRow(ctx, q, in.Name, in.ImageURL))
	if err != nil {
		return nil, translate(err, "create", "note", uuid.Nil, false)
	}
	return n, nil
}

// GetByID selects a note by ID.
func (r *NoteRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	const q = `SELECT ` + noteCols + ` FROM notes WHERE id=$1`
	n, err := scanNote(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translate(err, "get", "note", id, false)
	}
	return n, nil
}

// NameTaken reports whether another note uses name.
func (r *NoteRepo) NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM notes WHERE name=$1 AND id<>$2)`
	var taken bool
	if err := r.q.QueryRow(ctx, q, name, exclude).Scan(&taken); err != nil {
		return false, translate(err, "check", "note", uuid.Nil, false)
	}
	return taken, nil
}

// MissingIDs returns the ids that do not resolve to a note, in input order.
func (r *NoteRepo) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	const q = `
SELECT t.id
FROM unnest($1::uuid[]) WITH ORDINALITY AS t(id, ord)
WHERE NOT EXISTS (SELECT 1 FROM notes n WHERE n.id = t.id)
ORDER BY t.ord`
	rows, err := r.q.Query(ctx, q, uuidStrings(ids))
	if err != nil {
		return nil, translate(err, "check", "note", uuid.Nil, false)
	}
	defer rows.Close()

	var missing []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "check", "note", uuid.Nil, false)
		}
		missing = append(missing, id)
	}
	return missing, translate(rows.Err(), "check", "note", uuid.Nil, false)
}

// List returns every note ordered by name.
func (r *NoteRepo) List(ctx context.Context) ([]model.Note, error) {
	const q = `SELECT ` + noteCols + ` FROM notes ORDER BY name`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, translate(err, "list", "note", uuid.Nil, false)
	}
	defer rows.Close()

	out := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, translate(err, "list", "note", uuid.Nil, false)
		}
		out = append(out, *n)
	}
	return out, translate(rows.Err(), "list", "note", uuid.Nil, false)
}

// Update changes the fields present in p.
func (r *NoteRepo) Update(ctx context.Context, id uuid.UUID, p model.NotePatch) (*model.Note, error) {
	if p.Empty() {
		return r.GetByID(ctx, id)
	}
	var s setList
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.ImageURL != nil {
		s.add("image_url", *p.ImageURL)
	}
	q := `UPDATE notes SET ` + strings.Join(s.cols, ", ") +
		` WHERE id=` + s.next(id) + ` RETURNING ` + noteCols
	n, err := scanNote(r.q.QueryRow(ctx, q, s.args...))
	if err != nil {
		return nil, translate(err, "update", "note", id, false)
	}
	return n, nil
}

// Delete removes a note row. Junction rows must be removed first.
func (r *NoteRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM notes WHERE id=$1`, id)
	if err != nil {
		return 0, translate(err, "delete", "note", id, true)
	}
	return tag.RowsAffected(), nil
}
