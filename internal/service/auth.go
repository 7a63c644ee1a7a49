package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/limiter"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Authenticate checks credentials with rate limiting by (email, ip).
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password, ip string) (*model.AuthResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	ipHash := limiter.HashIP(ip)

	allowed, retry, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: retry in %s", errs.ErrRateLimited, retry.Round(time.Second))
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	ok := false
	if err == nil {
		if ok, err = s.hasher.Verify(u.PasswordHash, password); err != nil {
			return nil, err
		}
	} else if h := s.placeholderHash(); h != "" {
		_, _ = s.hasher.Verify(h, password)
	}
	if !ok {
		blocked, retry, ferr := s.lim.Failure(ctx, email, ipHash)
		if ferr != nil {
			s.log.Warn("limiter failure not recorded", zap.Error(ferr))
		} else if blocked {
			return nil, fmt.Errorf("%w: retry in %s", errs.ErrRateLimited, retry.Round(time.Second))
		}
		// unknown email and wrong password look the same
		return nil, errs.ErrUnauthorized
	}

	if err := s.lim.Success(ctx, email, ipHash); err != nil {
		s.log.Warn("limiter reset failed", zap.Error(err))
	}
	return &model.AuthResult{
		User:         *u,
		IsAdmin:      u.HasRole(model.RoleAdmin) || u.HasRole(model.RoleSuperAdmin),
		IsSuperAdmin: u.HasRole(model.RoleSuperAdmin),
	}, nil
}

func (s *UserServiceImpl) placeholderHash() string {
	s.placeholderOnce.Do(func() {
		h, err := s.hasher.Hash("placeholder-password")
		if err != nil {
			s.log.Warn("placeholder hash failed", zap.Error(err))
			return
		}
		s.placeholder = h
	})
	return s.placeholder
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.hasher.Verify(u.PasswordHash, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrUnauthorized
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.store.Users().SetPasswordHash(ctx, id, hash)
}
