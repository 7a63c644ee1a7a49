package service

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// FavoriteService manages user favorites.
type FavoriteService interface {
	// Add favorites a perfume. A repeated pair fails with ErrConflict.
	Add(ctx context.Context, userID, perfumeID uuid.UUID) (*model.PerfumeSummary, error)
	// Remove fails with ErrNotFound when the pair is absent.
	Remove(ctx context.Context, userID, perfumeID uuid.UUID) error
	// List returns the user's favorite perfumes, most recent first.
	List(ctx context.Context, userID uuid.UUID) ([]model.PerfumeSummary, error)
}

type FavoriteServiceImpl struct {
	store repository.Store
	log   *zap.Logger
}

// NewFavoriteService constructs FavoriteService.
func NewFavoriteService(store repository.Store, log *zap.Logger) *FavoriteServiceImpl {
	return &FavoriteServiceImpl{store: store, log: orNop(log)}
}

func (s *FavoriteServiceImpl) Add(ctx context.Context, userID, perfumeID uuid.UUID) (*model.PerfumeSummary, error) {
	var out *model.PerfumeSummary
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		if _, err := r.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		p, err := r.Perfumes().GetByID(ctx, perfumeID)
		if err != nil {
			return err
		}
		exists, err := r.Favorites().Exists(ctx, userID, perfumeID)
		if err != nil {
			return err
		}
		if exists {
			return errs.Conflictf("perfume %s already in favorites", perfumeID)
		}
		if _, err := r.Favorites().Create(ctx, userID, perfumeID); err != nil {
			return err
		}
		out = &model.PerfumeSummary{ID: p.ID, Brand: p.Brand, Name: p.Name, ImageURL: p.ImageURL}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FavoriteServiceImpl) Remove(ctx context.Context, userID, perfumeID uuid.UUID) error {
	n, err := s.store.Favorites().Delete(ctx, userID, perfumeID)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFoundf("favorite %s for user %s", perfumeID, userID)
	}
	return nil
}

func (s *FavoriteServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.PerfumeSummary, error) {
	return s.store.Favorites().ListPerfumes(ctx, userID)
}
