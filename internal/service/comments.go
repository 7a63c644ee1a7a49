package service

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// Rating bounds, inclusive.
const (
	MinRating = 0
	MaxRating = 5
)

// CommentService manages perfume comments and their reply edges.
//
// A reply stores only its parent's id. Deleting a comment leaves replies in place with
// a dangling parent; callers walk threads with List(CommentFilter{ParentID: ...}).
type CommentService interface {
	Add(ctx context.Context, in model.CommentInput) (*model.Comment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	List(ctx context.Context, f model.CommentFilter) ([]model.Comment, error)
	// Update rejects any change of UserID or PerfumeID.
	Update(ctx context.Context, id uuid.UUID, p model.CommentPatch) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error)
}

type CommentServiceImpl struct {
	store repository.Store
	log   *zap.Logger
}

// NewCommentService constructs CommentService.
func NewCommentService(store repository.Store, log *zap.Logger) *CommentServiceImpl {
	return &CommentServiceImpl{store: store, log: orNop(log)}
}

func validRating(r *int) error {
	if r != nil && (*r < MinRating || *r > MaxRating) {
		return errs.Validationf("rating %d must be between %d and %d", *r, MinRating, MaxRating)
	}
	return nil
}

// checkParent requires parentID to name a comment on perfumeID.
func checkParent(ctx context.Context, r repository.Repos, parentID, perfumeID uuid.UUID) error {
	parent, err := r.Comments().GetByID(ctx, parentID)
	if err != nil {
		return notFoundAsValidation(err, "unknown parent comment %s", parentID)
	}
	if parent.PerfumeID != perfumeID {
		return errs.Validationf("parent comment %s belongs to another perfume", parentID)
	}
	return nil
}

func (s *CommentServiceImpl) Add(ctx context.Context, in model.CommentInput) (*model.Comment, error) {
	if in.UserID == uuid.Nil {
		return nil, errs.Validationf("user_id is required")
	}
	if in.PerfumeID == uuid.Nil {
		return nil, errs.Validationf("perfume_id is required")
	}
	var err error
	if in.Content, err = required("content", in.Content); err != nil {
		return nil, err
	}
	if err := validRating(in.Rating); err != nil {
		return nil, err
	}
	if in.ParentCommentID != nil && *in.ParentCommentID == uuid.Nil {
		in.ParentCommentID = nil
	}

	var out *model.Comment
	err = s.store.InTx(ctx, func(r repository.Repos) error {
		if _, err := r.Users().GetByID(ctx, in.UserID); err != nil {
			return notFoundAsValidation(err, "unknown user %s", in.UserID)
		}
		if _, err := r.Perfumes().GetByID(ctx, in.PerfumeID); err != nil {
			return notFoundAsValidation(err, "unknown perfume %s", in.PerfumeID)
		}
		if in.ParentCommentID != nil {
			if err := checkParent(ctx, r, *in.ParentCommentID, in.PerfumeID); err != nil {
				return err
			}
		}
		var err error
		out, err = r.Comments().Create(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CommentServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	return s.store.Comments().GetByID(ctx, id)
}

func (s *CommentServiceImpl) List(ctx context.Context, f model.CommentFilter) ([]model.Comment, error) {
	return s.store.Comments().List(ctx, f)
}

func (s *CommentServiceImpl) Update(ctx context.Context, id uuid.UUID, p model.CommentPatch) (*model.Comment, error) {
	if p.UserID != nil {
		return nil, errs.Validationf("user_id is immutable")
	}
	if p.PerfumeID != nil {
		return nil, errs.Validationf("perfume_id is immutable")
	}
	var err error
	if p.Content, err = requiredPtr("content", p.Content); err != nil {
		return nil, err
	}
	if p.Rating.Set {
		if err := validRating(p.Rating.Value); err != nil {
			return nil, err
		}
	}

	var out *model.Comment
	err = s.store.InTx(ctx, func(r repository.Repos) error {
		cur, err := r.Comments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.ParentCommentID.Set && p.ParentCommentID.Value != nil {
			parentID := *p.ParentCommentID.Value
			if parentID == id {
				return errs.Validationf("comment cannot reply to itself")
			}
			if err := checkParent(ctx, r, parentID, cur.PerfumeID); err != nil {
				return err
			}
		}
		out, err = r.Comments().Update(ctx, id, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CommentServiceImpl) Delete(ctx context.Context, id uuid.UUID) (model.DeleteReport, error) {
	n, err := s.store.Comments().Delete(ctx, id)
	if err != nil {
		return model.DeleteReport{}, err
	}
	if n == 0 {
		return model.DeleteReport{}, errs.NotFoundf("comment %s", id)
	}
	return model.DeleteReport{Removed: n}, nil
}
