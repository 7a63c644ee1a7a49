package repository

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ConcentrationRepository stores concentrations.
type ConcentrationRepository interface {
	Create(ctx context.Context, in model.ConcentrationInput) (*model.Concentration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Concentration, error)
	// NameTaken reports whether a concentration other than exclude uses name.
	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	// DisplayNameTaken reports whether a concentration other than exclude uses displayName.
	DisplayNameTaken(ctx context.Context, displayName string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context) ([]model.Concentration, error)
	Update(ctx context.Context, id uuid.UUID, p model.ConcentrationPatch) (*model.Concentration, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// NoteRepository stores notes.
type NoteRepository interface {
	Create(ctx context.Context, in model.NoteInput) (*model.Note, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Note, error)
	// NameTaken reports whether a note other than exclude uses name.
	NameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	// MissingIDs returns the ids among ids that do not resolve to a note.
	MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	List(ctx context.Context) ([]model.Note, error)
	Update(ctx context.Context, id uuid.UUID, p model.NotePatch) (*model.Note, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// PerfumeRepository stores perfume rows. Note links live in PerfumeNoteRepository.
type PerfumeRepository interface {
	// Create inserts the perfume columns of in; in.Notes is ignored.
	Create(ctx context.Context, in model.PerfumeInput) (*model.Perfume, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Perfume, error)
	// LockForUpdate takes a row lock on the perfume until the transaction ends.
	LockForUpdate(ctx context.Context, id uuid.UUID) error
	// Taken reports whether a perfume other than exclude has the (name, concentrationID) pair.
	Taken(ctx context.Context, name string, concentrationID, exclude uuid.UUID) (bool, error)
	// CountByConcentration counts perfumes referencing a concentration.
	CountByConcentration(ctx context.Context, concentrationID uuid.UUID) (int64, error)
	List(ctx context.Context, f model.PerfumeFilter) ([]model.Perfume, error)
	Update(ctx context.Context, id uuid.UUID, p model.PerfumePatch) (*model.Perfume, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// PerfumeNoteRepository stores the perfume-note junction.
type PerfumeNoteRepository interface {
	// Insert adds one junction row. A duplicate (perfume, note) pair is errs.ErrConflict.
	Insert(ctx context.Context, perfumeID uuid.UUID, a model.NoteAssignment) (*model.PerfumeNote, error)
	// AttachedNoteIDs returns which of noteIDs are already attached to the perfume.
	AttachedNoteIDs(ctx context.Context, perfumeID uuid.UUID, noteIDs []uuid.UUID) ([]uuid.UUID, error)
	// ListViews returns the perfume's notes in insertion order.
	ListViews(ctx context.Context, perfumeID uuid.UUID) ([]model.PerfumeNoteView, error)
	DeleteByPerfume(ctx context.Context, perfumeID uuid.UUID) (int64, error)
	DeleteByNote(ctx context.Context, noteID uuid.UUID) (int64, error)
	// MatchAll returns perfumes linked to every id in noteIDs. noteIDs must be distinct.
	MatchAll(ctx context.Context, noteIDs []uuid.UUID) ([]model.PerfumeSummary, error)
}

// FavoriteRepository stores user favorites.
type FavoriteRepository interface {
	// Create inserts the pair. A duplicate pair is errs.ErrConflict.
	Create(ctx context.Context, userID, perfumeID uuid.UUID) (*model.UserFavorite, error)
	Exists(ctx context.Context, userID, perfumeID uuid.UUID) (bool, error)
	Delete(ctx context.Context, userID, perfumeID uuid.UUID) (int64, error)
	// ListPerfumes returns the user's favorite perfumes, most recent first.
	ListPerfumes(ctx context.Context, userID uuid.UUID) ([]model.PerfumeSummary, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByPerfume(ctx context.Context, perfumeID uuid.UUID) (int64, error)
}

// CommentRepository stores comments.
type CommentRepository interface {
	Create(ctx context.Context, in model.CommentInput) (*model.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	List(ctx context.Context, f model.CommentFilter) ([]model.Comment, error)
	Update(ctx context.Context, id uuid.UUID, p model.CommentPatch) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByPerfume(ctx context.Context, perfumeID uuid.UUID) (int64, error)
}
