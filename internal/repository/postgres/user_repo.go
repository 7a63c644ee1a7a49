package postgres

import (
	"context"
	"strings"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ q Querier }

// NewUserRepo constructs a user repository.
func NewUserRepo(q Querier) *UserRepo { return &UserRepo{q: q} }

const userCols = `id, email, pwd_hash, first_name, last_name, nickname, role, profile_picture, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Nickname, &u.Role, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
INSERT INTO users (email, pwd_hash, first_name, last_name, nickname, role, profile_picture)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + userCols
	out, err := scanUser(r.q.QueryRow(ctx, q, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Nickname, u.Role, u.ProfilePicture))
	if err != nil {
		return nil, translate(err, "create", "user", uuid.Nil, false)
	}
	return out, nil
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=$1`
	u, err := scanUser(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translate(err, "get", "user", id, false)
	}
	return u, nil
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email=$1`
	u, err := scanUser(r.q.QueryRow(ctx, q, email))
	if err != nil {
		return nil, translate(err, "get", "user", uuid.Nil, false)
	}
	return u, nil
}

// EmailTaken reports whether email is registered.
func (r *UserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`
	var taken bool
	if err := r.q.QueryRow(ctx, q, email).Scan(&taken); err != nil {
		return false, translate(err, "check", "user", uuid.Nil, false)
	}
	return taken, nil
}

// List returns all users ordered by creation.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userCols + ` FROM users ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, translate(err, "list", "user", uuid.Nil, false)
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "list", "user", uuid.Nil, false)
		}
		out = append(out, *u)
	}
	return out, translate(rows.Err(), "list", "user", uuid.Nil, false)
}

// Update applies the mutable columns present in p. Email is never written here.
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error) {
	var s setList
	if p.FirstName != nil {
		s.add("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		s.add("last_name", *p.LastName)
	}
	if p.Nickname.Set {
		s.add("nickname", p.Nickname.Value)
	}
	if p.ProfilePicture.Set {
		s.add("profile_picture", p.ProfilePicture.Value)
	}
	if s.empty() {
		return r.GetByID(ctx, id)
	}
	q := `UPDATE users SET ` + strings.Join(s.cols, ", ") + ` WHERE id=` + s.next(id) + ` RETURNING ` + userCols
	u, err := scanUser(r.q.QueryRow(ctx, q, s.args...))
	if err != nil {
		return nil, translate(err, "update", "user", id, false)
	}
	return u, nil
}

// SetPasswordHash replaces the stored password hash.
func (r *UserRepo) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET pwd_hash=$2 WHERE id=$1`, id, hash)
	if err != nil {
		return translate(err, "set password", "user", id, false)
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, "set password", "user", id, false)
	}
	return nil
}

// Delete removes the user row.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return 0, translate(err, "delete", "user", id, true)
	}
	return tag.RowsAffected(), nil
}
