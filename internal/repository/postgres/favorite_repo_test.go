package postgres

import (
	"context"
	"testing"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRepo_Create_Duplicate(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db.Pool)
	ctx := context.Background()
	id, userID, perfumeID := newID(), newID(), newID()

	mock.ExpectQuery(`INSERT INTO user_favorites \(user_id, perfume_id\) VALUES \(\$1, \$2\)`).
		WithArgs(userID, perfumeID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "perfume_id", "created_at", "updated_at"}).
			AddRow(id, userID, perfumeID, stamp, stamp))
	f, err := r.Create(ctx, userID, perfumeID)
	require.NoError(t, err)
	require.Equal(t, id, f.ID)

	mock.ExpectQuery(`INSERT INTO user_favorites`).
		WithArgs(userID, perfumeID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "user_favorites_pair_uq"})
	_, err = r.Create(ctx, userID, perfumeID)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepo_ExistsDelete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db.Pool)
	ctx := context.Background()
	userID, perfumeID := newID(), newID()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM user_favorites WHERE user_id=\$1 AND perfume_id=\$2\)`).
		WithArgs(userID, perfumeID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := r.Exists(ctx, userID, perfumeID)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectExec(`DELETE FROM user_favorites WHERE user_id=\$1 AND perfume_id=\$2`).
		WithArgs(userID, perfumeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	n, err := r.Delete(ctx, userID, perfumeID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestFavoriteRepo_ListPerfumes(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db.Pool)
	userID, p1, p2 := newID(), newID(), newID()

	mock.ExpectQuery(`FROM user_favorites f JOIN perfumes p ON p.id = f.perfume_id WHERE f.user_id=\$1 ORDER BY f.created_at DESC`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(summaryColNames).
			AddRow(p2, "B", "Newer", "").
			AddRow(p1, "A", "Older", ""))
	out, err := r.ListPerfumes(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, p2, out[0].ID)
}

func TestFavoriteRepo_Cascades(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewFavoriteRepo(db.Pool)
	ctx := context.Background()
	userID, perfumeID := newID(), newID()

	mock.ExpectExec(`DELETE FROM user_favorites WHERE user_id=\$1`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	n, err := r.DeleteByUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)

	mock.ExpectExec(`DELETE FROM user_favorites WHERE perfume_id=\$1`).
		WithArgs(perfumeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	n, err = r.DeleteByPerfume(ctx, perfumeID)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
