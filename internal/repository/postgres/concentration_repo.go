package postgres

import (
	"context"
	"strings"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ConcentrationRepo implements ConcentrationRepository using PostgreSQL.
type ConcentrationRepo struct{ q Querier }

// NewConcentrationRepo constructs a concentration repository.
func NewConcentrationRepo(q Querier) *ConcentrationRepo { return &ConcentrationRepo{q: q} }

const concentrationCols = `id, name, display_name, created_at, updated_at`

func scanConcentration(row interface{ Scan(...any) error }) (*model.Concentration, error) {
	var c model.Concentration
	if err := row.Scan(&c.ID, &c.Name, &c.DisplayName, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a concentration row.
func (r *ConcentrationRepo) Create(ctx context.Context, in model.ConcentrationInput) (*model.Concentration, error) {
	const q = `
INSERT INTO concentrations (name, display_name)
VALUES ($1, $2)
RETURNING ` + concentrationCols
	c, err := scanConcentration(r.q.QueryRow(ctx, q, in.Name, in.DisplayName))
	if err != nil {
		return nil, translate(err, "create", "concentration", uuid.Nil, false)
	}
	return c, nil
}

// GetByID selects a concentration by ID.
func (r *ConcentrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Concentration, error) {
	const q = `SELECT ` + concentrationCols + ` FROM concentrations WHERE id=$1`
	c, err := scanConcentration(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translate(err, "get", "concentration", id, false)
	}
	return c, nil
}

// NameTaken reports whether another concentration uses name.
func (r *ConcentrationRepo) NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM concentrations WHERE name=$1 AND id<>$2)`
	var taken bool
	if err := r.q.QueryRow(ctx, q, name, exclude).Scan(&taken); err != nil {
		return false, translate(err, "check", "concentration", uuid.Nil, false)
	}
	return taken, nil
}

// DisplayNameTaken reports whether another concentration uses displayName.
func (r *ConcentrationRepo) DisplayNameTaken(ctx context.Context, displayName string, exclude uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM concentrations WHERE display_name=$1 AND id<>$2)`
	var taken bool
	if err := r.q.QueryRow(ctx, q, displayName, exclude).Scan(&taken); err != nil {
		return false, translate(err, "check", "concentration", uuid.Nil, false)
	}
	return taken, nil
}

// List returns every concentration ordered by name.
func (r *ConcentrationRepo) List(ctx context.Context) ([]model.Concentration, error) {
	const q = `SELECT ` + concentrationCols + ` FROM concentrations ORDER BY name`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, translate(err, "list", "concentration", uuid.Nil, false)
	}
	defer rows.Close()

	out := []model.Concentration{}
	for rows.Next() {
		c, err := scanConcentration(rows)
		if err != nil {
			return nil, translate(err, "list", "concentration", uuid.Nil, false)
		}
		out = append(out, *c)
	}
	return out, translate(rows.Err(), "list", "concentration", uuid.Nil, false)
}

// Update changes the fields present in p.
func (r *ConcentrationRepo) Update(ctx context.Context, id uuid.UUID, p model.ConcentrationPatch) (*model.Concentration, error) {
	if p.Empty() {
		return r.GetByID(ctx, id)
	}
	var s setList
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.DisplayName != nil {
		s.add("display_name", *p.DisplayName)
	}
	q := `UPDATE concentrations SET ` + strings.Join(s.cols, ", ") +
		` WHERE id=` + s.next(id) + ` RETURNING ` + concentrationCols
	c, err := scanConcentration(r.q.QueryRow(ctx, q, s.args...))
	if err != nil {
		return nil, translate(err, "update", "concentration", id, false)
	}
	return c, nil
}

// Delete removes a concentration row.
func (r *ConcentrationRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM concentrations WHERE id=$1`, id)
	if err != nil {
		return 0, translate(err, "delete", "concentration", id, true)
	}
	return tag.RowsAffected(), nil
}
