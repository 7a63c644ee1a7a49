package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// PerfumeRepo implements PerfumeRepository using PostgreSQL.
type PerfumeRepo struct{ q Querier }

// NewPerfumeRepo constructs a perfume repository.
func NewPerfumeRepo(q Querier) *PerfumeRepo { return &PerfumeRepo{q: q} }

const perfumeCols = `id, name, description, brand, gender, image_url, concentration_id, created_at, updated_at`

func scanPerfume(row interface{ Scan(...any) error }) (*model.Perfume, error) {
	var p model.Perfume
	var gender string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &gender, &p.ImageURL,
		&p.ConcentrationID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Gender = model.Gender(gender)
	return &p, nil
}

// Create inserts a perfume row.
func (r *PerfumeRepo) Create(ctx context.Context, in model.PerfumeInput) (*model.Perfume, error) {
	const q = `
INSERT INTO perfumes (name, description, brand, gender, image_url, concentration_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + perfumeCols
	p, err := scanPerfume(r.q.QueryRow(ctx, q,
		in.Name, in.Description, in.Brand, string(in.Gender), in.ImageURL, in.ConcentrationID))
	if err != nil {
		return nil, translate(err, "create", "perfume", uuid.Nil, false)
	}
	return p, nil
}

// GetByID selects a perfume by ID.
func (r *PerfumeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Perfume, error) {
	const q = `SELECT ` + perfumeCols + ` FROM perfumes WHERE id=$1`
	p, err := scanPerfume(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translate(err, "get", "perfume", id, false)
	}
	return p, nil
}

// LockForUpdate locks the perfume row for the rest of the transaction.
func (r *PerfumeRepo) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	const q = `SELECT id FROM perfumes WHERE id=$1 FOR UPDATE`
	var got uuid.UUID
	if err := r.q.QueryRow(ctx, q, id).Scan(&got); err != nil {
		return translate(err, "lock", "perfume", id, false)
	}
	return nil
}

// Taken reports whether another perfume has the (name, concentration) pair.
func (r *PerfumeRepo) Taken(ctx context.Context, name string, concentrationID, exclude uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM perfumes WHERE name=$1 AND concentration_id=$2 AND id<>$3)`
	var taken bool
	if err := r.q.QueryRow(ctx, q, name, concentrationID, exclude).Scan(&taken); err != nil {
		return false, translate(err, "check", "perfume", uuid.Nil, false)
	}
	return taken, nil
}

// CountByConcentration counts perfumes that reference the concentration.
func (r *PerfumeRepo) CountByConcentration(ctx context.Context, concentrationID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM perfumes WHERE concentration_id=$1`
	var n int64
	if err := r.q.QueryRow(ctx, q, concentrationID).Scan(&n); err != nil {
		return 0, translate(err, "count", "perfume", uuid.Nil, false)
	}
	return n, nil
}

// List returns perfumes matching f, oldest first.
func (r *PerfumeRepo) List(ctx context.Context, f model.PerfumeFilter) ([]model.Perfume, error) {
	var (
		where []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if f.Brand != "" {
		add("brand", f.Brand)
	}
	if f.Gender != "" {
		add("gender", string(f.Gender))
	}
	if f.ConcentrationID != uuid.Nil {
		add("concentration_id", f.ConcentrationID)
	}
	q := `SELECT ` + perfumeCols + ` FROM perfumes`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, translate(err, "list", "perfume", uuid.Nil, false)
	}
	defer rows.Close()

	out := []model.Perfume{}
	for rows.Next() {
		p, err := scanPerfume(rows)
		if err != nil {
			return nil, translate(err, "list", "perfume", uuid.Nil, false)
		}
		out = append(out, *p)
	}
	return out, translate(rows.Err(), "list", "perfume", uuid.Nil, false)
}

// Update changes the perfume columns present in p; p.Notes is ignored.
func (r *PerfumeRepo) Update(ctx context.Context, id uuid.UUID, p model.PerfumePatch) (*model.Perfume, error) {
	if p.FieldsEmpty() {
		return r.GetByID(ctx, id)
	}
	var s setList
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.Description != nil {
		s.add("description", *p.Description)
	}
	if p.Brand != nil {
		s.add("brand", *p.Brand)
	}
	if p.Gender != nil {
		s.add("gender", string(*p.Gender))
	}
	if p.ImageURL != nil {
		s.add("image_url", *p.ImageURL)
	}
	if p.ConcentrationID != nil {
		s.add("concentration_id", *p.ConcentrationID)
	}
	q := `UPDATE perfumes SET ` + strings.Join(s.cols, ", ") +
		` WHERE id=` + s.next(id) + ` RETURNING ` + perfumeCols
	out, err := scanPerfume(r.q.QueryRow(ctx, q, s.args...))
	if err != nil {
		return nil, translate(err, "update", "perfume", id, false)
	}
	return out, nil
}

// Delete removes a perfume row. Dependent rows must be removed first.
func (r *PerfumeRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM perfumes WHERE id=$1`, id)
	if err != nil {
		return 0, translate(err, "delete", "perfume", id, true)
	}
	return tag.RowsAffected(), nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSummaries(rows rowsScanner, op string) ([]model.PerfumeSummary, error) {
	out := []model.PerfumeSummary{}
	for rows.Next() {
		var s model.PerfumeSummary
		if err := rows.Scan(&s.ID, &s.Brand, &s.Name, &s.ImageURL); err != nil {
			return nil, translate(err, op, "perfume", uuid.Nil, false)
		}
		out = append(out, s)
	}
	return out, translate(rows.Err(), op, "perfume", uuid.Nil, false)
}
