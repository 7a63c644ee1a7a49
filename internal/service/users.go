package service

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/limiter"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Password length bounds, in characters.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 16
)

// PasswordHasher hashes and verifies passwords. The core never compares plaintext itself.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// UserService manages accounts and credential checks.
type UserService interface {
	Create(ctx context.Context, in model.UserInput) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Update rejects any change of Email.
	Update(ctx context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error)
	// Delete removes the user together with their favorites and comments.
	Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error)
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
	// Authenticate checks credentials, throttled per (email, ip).
	Authenticate(ctx context.Context, email, password, ip string) (*model.AuthResult, error)
}

type UserServiceImpl struct {
	store  repository.Store
	hasher PasswordHasher
	lim    limiter.Limiter
	log    *zap.Logger

	// placeholder is verified against for unknown emails so both paths cost one hash check.
	placeholderOnce sync.Once
	placeholder     string
}

// NewUserService constructs UserService. A nil limiter disables throttling.
func NewUserService(store repository.Store, hasher PasswordHasher, lim limiter.Limiter, log *zap.Logger) *UserServiceImpl {
	if lim == nil {
		lim = limiter.Nop{}
	}
	return &UserServiceImpl{store: store, hasher: hasher, lim: lim, log: orNop(log)}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errs.Validationf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errs.Validationf("email %q is malformed", email)
	}
	return email, nil
}

func validatePassword(pw string) error {
	if n := utf8.RuneCountInString(pw); n < MinPasswordLen || n > MaxPasswordLen {
		return errs.Validationf("password must be %d to %d characters", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func validRole(role *string) error {
	if role == nil {
		return nil
	}
	switch *role {
	case "", model.RoleAdmin, model.RoleSuperAdmin:
		return nil
	}
	return errs.Validationf("role %q must be empty, %q or %q", *role, model.RoleAdmin, model.RoleSuperAdmin)
}

func (s *UserServiceImpl) Create(ctx context.Context, in model.UserInput) (*model.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	first, err := required("first_name", in.FirstName)
	if err != nil {
		return nil, err
	}
	last, err := required("last_name", in.LastName)
	if err != nil {
		return nil, err
	}
	if err := validRole(in.Role); err != nil {
		return nil, err
	}
	if in.Role != nil && *in.Role == "" {
		in.Role = nil
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Nickname:     in.Nickname,
		Role:         in.Role,
	}
	var out *model.User
	err = s.store.InTx(ctx, func(r repository.Repos) error {
		taken, err := r.Users().EmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return errs.Conflictf("email %s already registered", email)
		}
		out, err = r.Users().Create(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *UserServiceImpl) List(ctx context.Context) ([]model.User, error) {
	return s.store.Users().List(ctx)
}

func (s *UserServiceImpl) Update(ctx context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error) {
	if p.Email != nil {
		return nil, errs.Validationf("email is immutable")
	}
	var err error
	if p.FirstName, err = requiredPtr("first_name", p.FirstName); err != nil {
		return nil, err
	}
	if p.LastName, err = requiredPtr("last_name", p.LastName); err != nil {
		return nil, err
	}
	return s.store.Users().Update(ctx, id, p)
}

func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error) {
	var rep model.DeleteReport
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		if rep.Favorites, err = r.Favorites().DeleteByUser(ctx, id); err != nil {
			return err
		}
		if rep.Comments, err = r.Comments().DeleteByUser(ctx, id); err != nil {
			return err
		}
		if rep.Removed, err = r.Users().Delete(ctx, id); err != nil {
			return err
		}
		if rep.Removed == 0 {
			return errs.NotFoundf("user %s", id)
		}
		return nil
	})
	if err != nil {
		return model.DeleteReport{}, err
	}
	s.log.Debug("user deleted",
		zap.Stringer("user_id", id),
		zap.Int64("favorites", rep.Favorites),
		zap.Int64("comments", rep.Comments))
	return rep, nil
}
