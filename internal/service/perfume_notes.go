package service

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/cache"
	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// PerfumeNoteService keeps a perfume and its note associations consistent.
// Every batch is validated as a whole and written in one transaction.
type PerfumeNoteService interface {
	// AttachNotes adds notes to a perfume. An already attached note fails the whole batch.
	AttachNotes(ctx context.Context, perfumeID uuid.UUID, notes []model.NoteAssignment) ([]model.PerfumeNoteView, error)
	// ReplaceNotes swaps the perfume's mapping for notes. Readers see either the old or
	// the new mapping, never an empty one.
	ReplaceNotes(ctx context.Context, perfumeID uuid.UUID, notes []model.NoteAssignment) ([]model.PerfumeNoteView, error)
	DetachAllNotes(ctx context.Context, perfumeID uuid.UUID) (int64, error)
	DetachAllPerfumes(ctx context.Context, noteID uuid.UUID) (int64, error)
	// ListNotesForPerfume returns the mapping in insertion order.
	ListNotesForPerfume(ctx context.Context, perfumeID uuid.UUID) ([]model.PerfumeNoteView, error)
}

type PerfumeNoteServiceImpl struct {
	store repository.Store
	inv   invalidator
	log   *zap.Logger
}

// NewPerfumeNoteService constructs PerfumeNoteService. A nil cache disables invalidation.
func NewPerfumeNoteService(store repository.Store, c cache.MatchCache, log *zap.Logger) *PerfumeNoteServiceImpl {
	log = orNop(log)
	return &PerfumeNoteServiceImpl{store: store, inv: newInvalidator(c, log), log: log}
}

// validateBatch checks the batch shape before any store access.
func validateBatch(notes []model.NoteAssignment) error {
	if len(notes) == 0 {
		return errs.Validationf("at least one note is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(notes))
	for i, a := range notes {
		if a.NoteID == uuid.Nil {
			return errs.Validationf("notes[%d]: note_id is required", i)
		}
		if !a.NoteType.Valid() {
			return errs.Validationf("notes[%d]: note_type %q must be one of TOP, MIDDLE, BASE", i, a.NoteType)
		}
		if _, dup := seen[a.NoteID]; dup {
			return errs.Conflictf("note %s appears more than once in the batch", a.NoteID)
		}
		seen[a.NoteID] = struct{}{}
	}
	return nil
}

func noteIDs(notes []model.NoteAssignment) []uuid.UUID {
	ids := make([]uuid.UUID, len(notes))
	for i, a := range notes {
		ids[i] = a.NoteID
	}
	return ids
}

// insertBatch resolves every referenced note, then inserts the rows. The caller owns
// the transaction and has validated the batch shape.
func insertBatch(ctx context.Context, r repository.Repos, perfumeID uuid.UUID, notes []model.NoteAssignment) error {
	missing, err := r.Notes().MissingIDs(ctx, noteIDs(notes))
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return errs.Validationf("unknown note %s", missing[0])
	}
	for _, a := range notes {
		if _, err := r.PerfumeNotes().Insert(ctx, perfumeID, a); err != nil {
			return err
		}
	}
	return nil
}

// attach is AttachNotes inside an existing transaction.
func attach(ctx context.Context, r repository.Repos, perfumeID uuid.UUID, notes []model.NoteAssignment) error {
	if err := r.Perfumes().LockForUpdate(ctx, perfumeID); err != nil {
		return err
	}
	dup, err := r.PerfumeNotes().AttachedNoteIDs(ctx, perfumeID, noteIDs(notes))
	if err != nil {
		return err
	}
	if len(dup) > 0 {
		return errs.Conflictf("note %s already attached to perfume %s", dup[0], perfumeID)
	}
	return insertBatch(ctx, r, perfumeID, notes)
}

// replace is ReplaceNotes inside an existing transaction.
func replace(ctx context.Context, r repository.Repos, perfumeID uuid.UUID, notes []model.NoteAssignment) error {
	if err := r.Perfumes().LockForUpdate(ctx, perfumeID); err != nil {
		return err
	}
	if _, err := r.PerfumeNotes().DeleteByPerfume(ctx, perfumeID); err != nil {
		return err
	}
	return insertBatch(ctx, r, perfumeID, notes)
}

func detachAllPerfumes(ctx context.Context, r repository.Repos, noteID uuid.UUID) (int64, error) {
	return r.PerfumeNotes().DeleteByNote(ctx, noteID)
}

func (s *PerfumeNoteServiceImpl) AttachNotes(ctx context.Context, perfumeID uuid.UUID, notes []model.NoteAssignment) ([]model.PerfumeNoteView, error) {
	if err := validateBatch(notes); err != nil {
		return nil, err
	}
	var out []model.PerfumeNoteView
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if err := attach(ctx, r, perfumeID, notes); err != nil {
			return err
		}
		var err error
		out, err = r.PerfumeNotes().ListViews(ctx, perfumeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.inv.invalidate(ctx, "notes attached")
	return out, nil
}

func (s *PerfumeNoteServiceImpl) ReplaceNotes(ctx context.Context, perfumeID uuid.UUID, notes []model.NoteAssignment) ([]model.PerfumeNoteView, error) {
	if err := validateBatch(notes); err != nil {
		return nil, err
	}
	var out []model.PerfumeNoteView
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if err := replace(ctx, r, perfumeID, notes); err != nil {
			return err
		}
		var err error
		out, err = r.PerfumeNotes().ListViews(ctx, perfumeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.inv.invalidate(ctx, "notes replaced")
	return out, nil
}

func (s *PerfumeNoteServiceImpl) DetachAllNotes(ctx context.Context, perfumeID uuid.UUID) (int64, error) {
	var n int64
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if err := r.Perfumes().LockForUpdate(ctx, perfumeID); err != nil {
			return err
		}
		var err error
		n, err = r.PerfumeNotes().DeleteByPerfume(ctx, perfumeID)
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.inv.invalidate(ctx, "notes detached")
	}
	return n, nil
}

func (s *PerfumeNoteServiceImpl) DetachAllPerfumes(ctx context.Context, noteID uuid.UUID) (int64, error) {
	n, err := detachAllPerfumes(ctx, s.store, noteID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.inv.invalidate(ctx, "note detached")
	}
	return n, nil
}

func (s *PerfumeNoteServiceImpl) ListNotesForPerfume(ctx context.Context, perfumeID uuid.UUID) ([]model.PerfumeNoteView, error) {
	return s.store.PerfumeNotes().ListViews(ctx, perfumeID)
}
