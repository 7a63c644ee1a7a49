package postgres

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// FavoriteRepo implements FavoriteRepository using PostgreSQL.
type FavoriteRepo struct{ q Querier }

// NewFavoriteRepo constructs a favorites repository.
func NewFavoriteRepo(q Querier) *FavoriteRepo { return &FavoriteRepo{q: q} }

// Create inserts the (user, perfume) pair; user_favorites_pair_uq guards duplicates.
func (r *FavoriteRepo) Create(ctx context.Context, userID, perfumeID uuid.UUID) (*model.UserFavorite, error) {
	const q = `
INSERT INTO user_favorites (user_id, perfume_id)
VALUES ($1, $2)
RETURNING id, user_id, perfume_id, created_at, updated_at`
	var f model.UserFavorite
	err := r.q.QueryRow(ctx, q, userID, perfumeID).
		Scan(&f.ID, &f.UserID, &f.PerfumeID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, translate(err, "create", "favorite", uuid.Nil, false)
	}
	return &f, nil
}

// Exists reports whether the pair is stored.
func (r *FavoriteRepo) Exists(ctx context.Context, userID, perfumeID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM user_favorites WHERE user_id=$1 AND perfume_id=$2)`
	var ok bool
	if err := r.q.QueryRow(ctx, q, userID, perfumeID).Scan(&ok); err != nil {
		return false, translate(err, "check", "favorite", uuid.Nil, false)
	}
	return ok, nil
}

// Delete removes the pair.
func (r *FavoriteRepo) Delete(ctx context.Context, userID, perfumeID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM user_favorites WHERE user_id=$1 AND perfume_id=$2`, userID, perfumeID)
	if err != nil {
		return 0, translate(err, "delete", "favorite", uuid.Nil, true)
	}
	return tag.RowsAffected(), nil
}

// ListPerfumes returns the user's favorites as perfume summaries, newest first.
func (r *FavoriteRepo) ListPerfumes(ctx context.Context, userID uuid.UUID) ([]model.PerfumeSummary, error) {
	const q = `
SELECT p.id, p.brand, p.name, p.image_url
FROM user_favorites f
JOIN perfumes p ON p.id = f.perfume_id
WHERE f.user_id=$1
ORDER BY f.created_at DESC, f.id`
	rows, err := r.q.Query(ctx, q, userID)
	if err != nil {
		return nil, translate(err, "list", "favorite", userID, false)
	}
	defer rows.Close()
	return scanSummaries(rows, "list favorites")
}

// DeleteByUser removes every favorite of a user.
func (r *FavoriteRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM user_favorites WHERE user_id=$1`, userID)
	if err != nil {
		return 0, translate(err, "cascade", "favorites of user", userID, true)
	}
	return tag.RowsAffected(), nil
}

// DeleteByPerfume removes every favorite pointing at a perfume.
func (r *FavoriteRepo) DeleteByPerfume(ctx context.Context, perfumeID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM user_favorites WHERE perfume_id=$1`, perfumeID)
	if err != nil {
		return 0, translate(err, "cascade", "favorites of perfume", perfumeID, true)
	}
	return tag.RowsAffected(), nil
}
