// Package service contains the catalog managers: entity CRUD, the perfume-note
// relationship manager, the set-match query engine, favorites, comments and users.
//
// Managers receive a repository.Store at construction and run every multi-record
// change inside Store.InTx.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/and161185/perfume-catalog/internal/cache"
	"github.com/and161185/perfume-catalog/internal/errs"
	"go.uber.org/zap"
)

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// required trims s and fails with ErrValidation when nothing is left.
func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.Validationf("%s is required", field)
	}
	return s, nil
}

// requiredPtr validates a present patch field and returns a trimmed copy.
func requiredPtr(field string, p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	v, err := required(field, *p)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// notFoundAsValidation reports a missing referenced record as invalid input.
func notFoundAsValidation(err error, format string, args ...any) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Validationf(format, args...)
	}
	return err
}

// invalidator drops cached match results after committed junction or perfume writes.
type invalidator struct {
	cache cache.MatchCache
	log   *zap.Logger
}

func newInvalidator(c cache.MatchCache, log *zap.Logger) invalidator {
	if c == nil {
		c = &cache.Nop{}
	}
	return invalidator{cache: c, log: log}
}

// invalidate never fails the caller: the write is already committed and stale
// entries expire by TTL.
func (i invalidator) invalidate(ctx context.Context, reason string) {
	if err := i.cache.Invalidate(ctx); err != nil {
		i.log.Warn("match cache invalidation failed", zap.String("reason", reason), zap.Error(err))
	}
}
