package service

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// ConcentrationService manages perfume concentrations.
type ConcentrationService interface {
	Create(ctx context.Context, in model.ConcentrationInput) (*model.Concentration, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Concentration, error)
	List(ctx context.Context) ([]model.Concentration, error)
	Update(ctx context.Context, id uuid.UUID, p model.ConcentrationPatch) (*model.Concentration, error)
	// Delete fails with ErrConflict while any perfume references the concentration.
	Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error)
}

type ConcentrationServiceImpl struct {
	store repository.Store
	log   *zap.Logger
}

// NewConcentrationService constructs ConcentrationService.
func NewConcentrationService(store repository.Store, log *zap.Logger) *ConcentrationServiceImpl {
	return &ConcentrationServiceImpl{store: store, log: orNop(log)}
}

func (s *ConcentrationServiceImpl) Create(ctx context.Context, in model.ConcentrationInput) (*model.Concentration, error) {
	var err error
	if in.Name, err = required("name", in.Name); err != nil {
		return nil, err
	}
	if in.DisplayName, err = required("display_name", in.DisplayName); err != nil {
		return nil, err
	}
	var out *model.Concentration
	err = s.store.InTx(ctx, func(r repository.Repos) error {
		if err := s.checkUnique(ctx, r, &in.Name, &in.DisplayName, uuid.Nil); err != nil {
			return err
		}
		c, err := r.Concentrations().Create(ctx, in)
		out = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConcentrationServiceImpl) checkUnique(ctx context.Context, r repository.Repos, name, display *string, self uuid.UUID) error {
	if name != nil {
		taken, err := r.Concentrations().NameTaken(ctx, *name, self)
		if err != nil {
			return err
		}
		if taken {
			return errs.Conflictf("concentration name %q already exists", *name)
		}
	}
	if display != nil {
		taken, err := r.Concentrations().DisplayNameTaken(ctx, *display, self)
		if err != nil {
			return err
		}
		if taken {
			return errs.Conflictf("concentration display name %q already exists", *display)
		}
	}
	return nil
}

func (s *ConcentrationServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Concentration, error) {
	return s.store.Concentrations().GetByID(ctx, id)
}

func (s *ConcentrationServiceImpl) List(ctx context.Context) ([]model.Concentration, error) {
	return s.store.Concentrations().List(ctx)
}

func (s *ConcentrationServiceImpl) Update(ctx context.Context, id uuid.UUID, p model.ConcentrationPatch) (*model.Concentration, error) {
	var err error
	if p.Name, err = requiredPtr("name", p.Name); err != nil {
		return nil, err
	}
	if p.DisplayName, err = requiredPtr("display_name", p.DisplayName); err != nil {
		return nil, err
	}
	var out *model.Concentration
	err = s.store.InTx(ctx, func(r repository.Repos) error {
		if _, err := r.Concentrations().GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, r, p.Name, p.DisplayName, id); err != nil {
			return err
		}
		c, err := r.Concentrations().Update(ctx, id, p)
		out = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConcentrationServiceImpl) Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error) {
	var rep model.DeleteReport
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		n, err := r.Perfumes().CountByConcentration(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return errs.Conflictf("concentration %s is used by %d perfume(s)", id, n)
		}
		rep.Removed, err = r.Concentrations().Delete(ctx, id)
		if err != nil {
			return err
		}
		if rep.Removed == 0 {
			return errs.NotFoundf("concentration %s", id)
		}
		return nil
	})
	if err != nil {
		return model.DeleteReport{}, err
	}
	return rep, nil
}
