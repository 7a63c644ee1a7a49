package service

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/and161185/perfume-catalog/internal/cache"
	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MatchService answers set-match queries over the perfume-note junction.
type MatchService interface {
	// PerfumesWithNotes returns every perfume whose notes contain all of noteIDs.
	// Perfumes carrying additional notes match too: this is containment, not set
	// equality. Duplicate ids are ignored; an empty set is ErrValidation.
	PerfumesWithNotes(ctx context.Context, noteIDs []uuid.UUID) ([]model.PerfumeSummary, error)
}

type MatchServiceImpl struct {
	store repository.Store
	cache cache.MatchCache
	group singleflight.Group
	log   *zap.Logger
}

// NewMatchService constructs MatchService. A nil cache disables caching.
func NewMatchService(store repository.Store, c cache.MatchCache, log *zap.Logger) *MatchServiceImpl {
	if c == nil {
		c = &cache.Nop{}
	}
	return &MatchServiceImpl{store: store, cache: c, log: orNop(log)}
}

// canonicalSet dedupes and sorts ids so equal sets share one cache key.
func canonicalSet(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, errs.Validationf("at least one note id is required")
	}
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, errs.Validationf("note id must not be empty")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return out, nil
}

func (s *MatchServiceImpl) PerfumesWithNotes(ctx context.Context, noteIDs []uuid.UUID) ([]model.PerfumeSummary, error) {
	ids, err := canonicalSet(noteIDs)
	if err != nil {
		return nil, err
	}

	res, gen, err := s.cache.Get(ctx, ids)
	if err == nil {
		return res, nil
	}
	cacheable := errors.Is(err, cache.ErrMiss)
	if !cacheable {
		s.log.Warn("match cache read failed", zap.Error(err))
	}

	// Flights are per generation: a query issued after a committed write never joins
	// a lookup that started before it.
	key := "-|" + joinIDs(ids)
	if cacheable {
		key = strconv.FormatInt(gen, 10) + "|" + joinIDs(ids)
	}
	ch := s.group.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		res, err := s.store.PerfumeNotes().MatchAll(fctx, ids)
		if err != nil {
			return nil, err
		}
		if cacheable {
			if err := s.cache.Set(fctx, gen, ids, res); err != nil {
				s.log.Warn("match cache write failed", zap.Error(err))
			}
		}
		return res, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return nil, r.Err
	}
	res = r.Val.([]model.PerfumeSummary)
	if r.Shared {
		res = slices.Clone(res)
	}
	if res == nil {
		res = []model.PerfumeSummary{}
	}
	return res, nil
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
