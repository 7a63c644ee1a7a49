package postgres

import (
	"context"
	"testing"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestPerfumeNoteRepo_Insert(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPerfumeNoteRepo(db.Pool)
	ctx := context.Background()
	id, perfumeID, noteID := newID(), newID(), newID()
	a := model.NoteAssignment{NoteID: noteID, NoteType: model.NoteTop}

	mock.ExpectQuery(`INSERT INTO perfume_notes \(perfume_id, note_id, note_type\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(perfumeID, noteID, "TOP").
		WillReturnRows(pgxmock.NewRows([]string{"id", "perfume_id", "note_id", "note_type", "created_at", "updated_at"}).
			AddRow(id, perfumeID, noteID, "TOP", stamp, stamp))
	pn, err := r.Insert(ctx, perfumeID, a)
	require.NoError(t, err)
	require.Equal(t, model.NoteTop, pn.NoteType)
	require.Equal(t, noteID, pn.NoteID)

	mock.ExpectQuery(`INSERT INTO perfume_notes`).
		WithArgs(perfumeID, noteID, "TOP").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "perfume_notes_pair_uq"})
	_, err = r.Insert(ctx, perfumeID, a)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Contains(t, err.Error(), "already attached")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPerfumeNoteRepo_AttachedNoteIDs(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPerfumeNoteRepo(db.Pool)
	perfumeID, a, b := newID(), newID(), newID()

	mock.ExpectQuery(`SELECT note_id FROM perfume_notes WHERE perfume_id=\$1 AND note_id = ANY\(\$2::uuid\[\]\)`).
		WithArgs(perfumeID, []string{a.String(), b.String()}).
		WillReturnRows(pgxmock.NewRows([]string{"note_id"}).AddRow(a))
	got, err := r.AttachedNoteIDs(context.Background(), perfumeID, []uuid.UUID{a, b})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{a}, got)
}

func TestPerfumeNoteRepo_ListViews_Ordered(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPerfumeNoteRepo(db.Pool)
	perfumeID, a, b := newID(), newID(), newID()

	mock.ExpectQuery(`JOIN notes n ON n.id = pn.note_id WHERE pn.perfume_id=\$1 ORDER BY pn.seq`).
		WithArgs(perfumeID).
		WillReturnRows(pgxmock.NewRows([]string{"note_id", "name", "image_url", "note_type"}).
			AddRow(b, "Musk", "", "BASE").
			AddRow(a, "Lemon", "l.png", "TOP"))
	views, err := r.ListViews(context.Background(), perfumeID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "Musk", views[0].Name)
	require.Equal(t, model.NoteBase, views[0].NoteType)
	require.Equal(t, model.NoteTop, views[1].NoteType)
}

func TestPerfumeNoteRepo_Deletes(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPerfumeNoteRepo(db.Pool)
	ctx := context.Background()
	perfumeID, noteID := newID(), newID()

	mock.ExpectExec(`DELETE FROM perfume_notes WHERE perfume_id=\$1`).
		WithArgs(perfumeID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	n, err := r.DeleteByPerfume(ctx, perfumeID)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	mock.ExpectExec(`DELETE FROM perfume_notes WHERE note_id=\$1`).
		WithArgs(noteID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	n, err = r.DeleteByNote(ctx, noteID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPerfumeNoteRepo_MatchAll(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPerfumeNoteRepo(db.Pool)
	ctx := context.Background()
	a, b, p1 := newID(), newID(), newID()

	mock.ExpectQuery(`GROUP BY perfume_id HAVING COUNT\(DISTINCT note_id\) = \$2 \) m ON m.perfume_id = p.id ORDER BY p.created_at, p.id`).
		WithArgs([]string{a.String(), b.String()}, 2).
		WillReturnRows(pgxmock.NewRows(summaryColNames).AddRow(p1, "Dior", "Sauvage", "s.png"))
	out, err := r.MatchAll(ctx, []uuid.UUID{a, b})
	require.NoError(t, err)
	require.Equal(t, []model.PerfumeSummary{{ID: p1, Brand: "Dior", Name: "Sauvage", ImageURL: "s.png"}}, out)

	mock.ExpectQuery(`HAVING COUNT\(DISTINCT note_id\)`).
		WithArgs([]string{a.String()}, 1).
		WillReturnRows(pgxmock.NewRows(summaryColNames))
	out, err = r.MatchAll(ctx, []uuid.UUID{a})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}
