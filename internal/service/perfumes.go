package service

import (
	"context"
	"errors"

	"github.com/and161185/perfume-catalog/internal/cache"
	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// PerfumeService manages perfumes together with the records they own.
type PerfumeService interface {
	// Create inserts a perfume and its optional initial notes in one transaction.
	Create(ctx context.Context, in model.PerfumeInput) (*model.PerfumeDetail, error)
	// Get returns the perfume with its concentration and notes.
	Get(ctx context.Context, id uuid.UUID) (*model.PerfumeDetail, error)
	List(ctx context.Context, f model.PerfumeFilter) ([]model.Perfume, error)
	// Update merges the fields present in p. A non-nil p.Notes replaces the note mapping.
	Update(ctx context.Context, id uuid.UUID, p model.PerfumePatch) (*model.PerfumeDetail, error)
	// Delete removes the perfume with its note links, favorites and comments.
	Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error)
}

type PerfumeServiceImpl struct {
	store repository.Store
	inv   invalidator
	log   *zap.Logger
}

// NewPerfumeService constructs PerfumeService. A nil cache disables invalidation.
func NewPerfumeService(store repository.Store, c cache.MatchCache, log *zap.Logger) *PerfumeServiceImpl {
	log = orNop(log)
	return &PerfumeServiceImpl{store: store, inv: newInvalidator(c, log), log: log}
}

func validatePerfumeInput(in *model.PerfumeInput) error {
	var err error
	if in.Name, err = required("name", in.Name); err != nil {
		return err
	}
	if in.Description, err = required("description", in.Description); err != nil {
		return err
	}
	if in.Brand, err = required("brand", in.Brand); err != nil {
		return err
	}
	if in.ImageURL, err = required("image_url", in.ImageURL); err != nil {
		return err
	}
	if !in.Gender.Valid() {
		return errs.Validationf("gender %q must be one of Female, Male, Unisex", in.Gender)
	}
	if in.ConcentrationID == uuid.Nil {
		return errs.Validationf("concentration_id is required")
	}
	if len(in.Notes) > 0 {
		return validateBatch(in.Notes)
	}
	return nil
}

func validatePerfumePatch(p *model.PerfumePatch) error {
	var err error
	for _, f := range []struct {
		name string
		v    **string
	}{
		{"name", &p.Name}, {"description", &p.Description}, {"brand", &p.Brand}, {"image_url", &p.ImageURL},
	} {
		if *f.v, err = requiredPtr(f.name, *f.v); err != nil {
			return err
		}
	}
	if p.Gender != nil && !p.Gender.Valid() {
		return errs.Validationf("gender %q must be one of Female, Male, Unisex", *p.Gender)
	}
	if p.ConcentrationID != nil && *p.ConcentrationID == uuid.Nil {
		return errs.Validationf("concentration_id must not be empty")
	}
	if p.Notes != nil {
		return validateBatch(*p.Notes)
	}
	return nil
}

func checkConcentration(ctx context.Context, r repository.Repos, id uuid.UUID) error {
	_, err := r.Concentrations().GetByID(ctx, id)
	return notFoundAsValidation(err, "unknown concentration %s", id)
}

func (s *PerfumeServiceImpl) Create(ctx context.Context, in model.PerfumeInput) (*model.PerfumeDetail, error) {
	if err := validatePerfumeInput(&in); err != nil {
		return nil, err
	}
	var out *model.PerfumeDetail
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if err := checkConcentration(ctx, r, in.ConcentrationID); err != nil {
			return err
		}
		taken, err := r.Perfumes().Taken(ctx, in.Name, in.ConcentrationID, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return errs.Conflictf("perfume %q already exists for this concentration", in.Name)
		}
		p, err := r.Perfumes().Create(ctx, in)
		if err != nil {
			return err
		}
		if len(in.Notes) > 0 {
			if err := insertBatch(ctx, r, p.ID, in.Notes); err != nil {
				return err
			}
		}
		out, err = detail(ctx, r, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(in.Notes) > 0 {
		s.inv.invalidate(ctx, "perfume created")
	}
	return out, nil
}

// detail enriches p with its concentration and notes.
func detail(ctx context.Context, r repository.Repos, p *model.Perfume) (*model.PerfumeDetail, error) {
	d := &model.PerfumeDetail{Perfume: *p}
	c, err := r.Concentrations().GetByID(ctx, p.ConcentrationID)
	switch {
	case err == nil:
		d.Concentration = c
	case !errors.Is(err, errs.ErrNotFound):
		return nil, err
	}
	if d.Notes, err = r.PerfumeNotes().ListViews(ctx, p.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *PerfumeServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.PerfumeDetail, error) {
	p, err := s.store.Perfumes().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail(ctx, s.store, p)
}

func (s *PerfumeServiceImpl) List(ctx context.Context, f model.PerfumeFilter) ([]model.Perfume, error) {
	if f.Gender != "" && !f.Gender.Valid() {
		return nil, errs.Validationf("gender %q must be one of Female, Male, Unisex", f.Gender)
	}
	return s.store.Perfumes().List(ctx, f)
}

func (s *PerfumeServiceImpl) Update(ctx context.Context, id uuid.UUID, p model.PerfumePatch) (*model.PerfumeDetail, error) {
	if err := validatePerfumePatch(&p); err != nil {
		return nil, err
	}
	var out *model.PerfumeDetail
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		cur, err := r.Perfumes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.ConcentrationID != nil {
			if err := checkConcentration(ctx, r, *p.ConcentrationID); err != nil {
				return err
			}
		}
		if p.Name != nil || p.ConcentrationID != nil {
			name, conc := cur.Name, cur.ConcentrationID
			if p.Name != nil {
				name = *p.Name
			}
			if p.ConcentrationID != nil {
				conc = *p.ConcentrationID
			}
			taken, err := r.Perfumes().Taken(ctx, name, conc, id)
			if err != nil {
				return err
			}
			if taken {
				return errs.Conflictf("perfume %q already exists for this concentration", name)
			}
		}
		upd, err := r.Perfumes().Update(ctx, id, p)
		if err != nil {
			return err
		}
		if p.Notes != nil {
			if err := replace(ctx, r, id, *p.Notes); err != nil {
				return err
			}
		}
		out, err = detail(ctx, r, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !p.FieldsEmpty() || p.Notes != nil {
		s.inv.invalidate(ctx, "perfume updated")
	}
	return out, nil
}

func (s *PerfumeServiceImpl) Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error) {
	var rep model.DeleteReport
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if err := r.Perfumes().LockForUpdate(ctx, id); err != nil {
			return err
		}
		var err error
		if rep.NoteLinks, err = r.PerfumeNotes().DeleteByPerfume(ctx, id); err != nil {
			return err
		}
		if rep.Favorites, err = r.Favorites().DeleteByPerfume(ctx, id); err != nil {
			return err
		}
		if rep.Comments, err = r.Comments().DeleteByPerfume(ctx, id); err != nil {
			return err
		}
		if rep.Removed, err = r.Perfumes().Delete(ctx, id); err != nil {
			return err
		}
		if rep.Removed == 0 {
			return errs.NotFoundf("perfume %s", id)
		}
		return nil
	})
	if err != nil {
		return model.DeleteReport{}, err
	}
	s.log.Debug("perfume deleted",
		zap.Stringer("perfume_id", id),
		zap.Int64("note_links", rep.NoteLinks),
		zap.Int64("favorites", rep.Favorites),
		zap.Int64("comments", rep.Comments))
	s.inv.invalidate(ctx, "perfume deleted")
	return rep, nil
}
