package postgres

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// PerfumeNoteRepo implements PerfumeNoteRepository using PostgreSQL.
type PerfumeNoteRepo struct{ q Querier }

// NewPerfumeNoteRepo constructs a junction repository.
func NewPerfumeNoteRepo(q Querier) *PerfumeNoteRepo { return &PerfumeNoteRepo{q: q} }

// Insert adds one junction row; perfume_notes_pair_uq guards the (perfume, note) pair.
func (r *PerfumeNoteRepo) Insert(ctx context.Context, perfumeID uuid.UUID, a model.NoteAssignment) (*model.PerfumeNote, error) {
	const q = `
INSERT INTO perfume_notes (perfume_id, note_id, note_type)
VALUES ($1, $2, $3)
RETURNING id, perfume_id, note_id, note_type, created_at, updated_at`
	var (
		pn       model.PerfumeNote
		noteType string
	)
	err := r.q.QueryRow(ctx, q, perfumeID, a.NoteID, string(a.NoteType)).
		Scan(&pn.ID, &pn.PerfumeID, &pn.NoteID, &noteType, &pn.CreatedAt, &pn.UpdatedAt)
	if err != nil {
		return nil, translate(err, "attach", "perfume note", perfumeID, false)
	}
	pn.NoteType = model.NoteType(noteType)
	return &pn, nil
}

// AttachedNoteIDs returns which of noteIDs are already linked to the perfume.
func (r *PerfumeNoteRepo) AttachedNoteIDs(ctx context.Context, perfumeID uuid.UUID, noteIDs []uuid.UUID) ([]uuid.UUID, error) {
	const q = `
SELECT note_id FROM perfume_notes
WHERE perfume_id=$1 AND note_id = ANY($2::uuid[])
ORDER BY seq`
	rows, err := r.q.Query(ctx, q, perfumeID, uuidStrings(noteIDs))
	if err != nil {
		return nil, translate(err, "check", "perfume note", perfumeID, false)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "check", "perfume note", perfumeID, false)
		}
		out = append(out, id)
	}
	return out, translate(rows.Err(), "check", "perfume note", perfumeID, false)
}

// ListViews returns the perfume's notes joined with note data, in insertion order.
func (r *PerfumeNoteRepo) ListViews(ctx context.Context, perfumeID uuid.UUID) ([]model.PerfumeNoteView, error) {
	const q = `
SELECT pn.note_id, n.name, n.image_url, pn.note_type
FROM perfume_notes pn
JOIN notes n ON n.id = pn.note_id
WHERE pn.perfume_id=$1
ORDER BY pn.seq`
	rows, err := r.q.Query(ctx, q, perfumeID)
	if err != nil {
		return nil, translate(err, "list", "perfume note", perfumeID, false)
	}
	defer rows.Close()

	out := []model.PerfumeNoteView{}
	for rows.Next() {
		var (
			v        model.PerfumeNoteView
			noteType string
		)
		if err := rows.Scan(&v.NoteID, &v.Name, &v.ImageURL, &noteType); err != nil {
			return nil, translate(err, "list", "perfume note", perfumeID, false)
		}
		v.NoteType = model.NoteType(noteType)
		out = append(out, v)
	}
	return out, translate(rows.Err(), "list", "perfume note", perfumeID, false)
}

// DeleteByPerfume removes every junction row of a perfume.
func (r *PerfumeNoteRepo) DeleteByPerfume(ctx context.Context, perfumeID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM perfume_notes WHERE perfume_id=$1`, perfumeID)
	if err != nil {
		return 0, translate(err, "detach", "perfume notes of perfume", perfumeID, true)
	}
	return tag.RowsAffected(), nil
}

// DeleteByNote removes every junction row that references a note.
func (r *PerfumeNoteRepo) DeleteByNote(ctx context.Context, noteID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM perfume_notes WHERE note_id=$1`, noteID)
	if err != nil {
		return 0, translate(err, "detach", "perfume notes of note", noteID, true)
	}
	return tag.RowsAffected(), nil
}

// MatchAll groups junction rows restricted to noteIDs by perfume and keeps perfumes
// whose distinct matched notes number len(noteIDs), i.e. perfumes that carry every
// requested note (possibly among others). noteIDs must already be deduplicated.
func (r *PerfumeNoteRepo) MatchAll(ctx context.Context, noteIDs []uuid.UUID) ([]model.PerfumeSummary, error) {
	const q = `
SELECT p.id, p.brand, p.name, p.image_url
FROM perfumes p
JOIN (
	SELECT perfume_id
	FROM perfume_notes
	WHERE note_id = ANY($1::uuid[])
	GROUP BY perfume_id
	HAVING COUNT(DISTINCT note_id) = $2
) m ON m.perfume_id = p.id
ORDER BY p.created_at, p.id`
	rows, err := r.q.Query(ctx, q, uuidStrings(noteIDs), len(noteIDs))
	if err != nil {
		return nil, translate(err, "match", "perfume", uuid.Nil, false)
	}
	defer rows.Close()
	return scanSummaries(rows, "match")
}
