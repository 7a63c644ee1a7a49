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

// NoteService manages scent notes.
type NoteService interface {
	Create(ctx context.Context, in model.NoteInput) (*model.Note, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Note, error)
	List(ctx context.Context) ([]model.Note, error)
	Update(ctx context.Context, id uuid.UUID, p model.NotePatch) (*model.Note, error)
	// Delete detaches the note from every perfume, then removes it. Perfumes survive.
	Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error)
}

type NoteServiceImpl struct {
	store repository.Store
	inv   invalidator
	log   *zap.Logger
}

// NewNoteService constructs NoteService. A nil cache disables invalidation.
func NewNoteService(store repository.Store, c cache.MatchCache, log *zap.Logger) *NoteServiceImpl {
	log = orNop(log)
	return &NoteServiceImpl{store: store, inv: newInvalidator(c, log), log: log}
}

func (s *NoteServiceImpl) Create(ctx context.Context, in model.NoteInput) (*model.Note, error) {
	var err error
	if in.Name, err = required("name", in.Name); err != nil {
		return nil, err
	}
	var out *model.Note
	err = s.store.InTx(ctx, func(r repository.Repos) error {
		taken, err := r.Notes().NameTaken(ctx, in.Name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return errs.Conflictf("note name %q already exists", in.Name)
		}
		out, err = r.Notes().Create(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NoteServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Note, error) {
	return s.store.Notes().GetByID(ctx, id)
}

func (s *NoteServiceImpl) List(ctx context.Context) ([]model.Note, error) {
	return s.store.Notes().List(ctx)
}

func (s *NoteServiceImpl) Update(ctx context.Context, id uuid.UUID, p model.NotePatch) (*model.Note, error) {
	var err error
	if p.Name, err = requiredPtr("name", p.Name); err != nil {
		return nil, err
	}
	var out *model.Note
	err = s.store.InTx(ctx, func(r repository.Repos) error {
		if _, err := r.Notes().GetByID(ctx, id); err != nil {
			return err
		}
		if p.Name != nil {
			taken, err := r.Notes().NameTaken(ctx, *p.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return errs.Conflictf("note name %q already exists", *p.Name)
			}
		}
		var err error
		out, err = r.Notes().Update(ctx, id, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NoteServiceImpl) Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error) {
	var rep model.DeleteReport
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		if rep.NoteLinks, err = detachAllPerfumes(ctx, r, id); err != nil {
			return err
		}
		if rep.Removed, err = r.Notes().Delete(ctx, id); err != nil {
			return err
		}
		if rep.Removed == 0 {
			return errs.NotFoundf("note %s", id)
		}
		return nil
	})
	if err != nil {
		return model.DeleteReport{}, err
	}
	s.log.Debug("note deleted", zap.Stringer("note_id", id), zap.Int64("note_links", rep.NoteLinks))
	if rep.NoteLinks > 0 {
		s.inv.invalidate(ctx, "note deleted")
	}
	return rep, nil
}
