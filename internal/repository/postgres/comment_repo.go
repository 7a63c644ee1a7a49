package postgres

import (
	"context"
	"strings"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommentRepo implements CommentRepository using PostgreSQL.
type CommentRepo struct{ q Querier }

// NewCommentRepo constructs a comment repository.
func NewCommentRepo(q Querier) *CommentRepo { return &CommentRepo{q: q} }

const commentCols = `id, user_id, perfume_id, content, parent_comment_id, rating, created_at, updated_at`

func scanComment(row interface{ Scan(...any) error }) (*model.Comment, error) {
	var (
		c      model.Comment
		parent uuid.NullUUID
		rating pgtype.Int4
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.PerfumeID, &c.Content, &parent, &rating, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		id := parent.UUID
		c.ParentCommentID = &id
	}
	if rating.Valid {
		v := int(rating.Int32)
		c.Rating = &v
	}
	return &c, nil
}

// Create inserts a comment row.
func (r *CommentRepo) Create(ctx context.Context, in model.CommentInput) (*model.Comment, error) {
	const q = `
INSERT INTO comments (user_id, perfume_id, content, parent_comment_id, rating)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + commentCols
	c, err := scanComment(r.q.QueryRow(ctx, q, in.UserID, in.PerfumeID, in.Content, in.ParentCommentID, in.Rating))
	if err != nil {
		return nil, translate(err, "create", "comment", uuid.Nil, false)
	}
	return c, nil
}

// GetByID selects a comment by ID.
func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	const q = `SELECT ` + commentCols + ` FROM comments WHERE id=$1`
	c, err := scanComment(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return nil, translate(err, "get", "comment", id, false)
	}
	return c, nil
}

// List returns comments matching f, oldest first.
func (r *CommentRepo) List(ctx context.Context, f model.CommentFilter) ([]model.Comment, error) {
	var w setList
	if f.PerfumeID != uuid.Nil {
		w.add("perfume_id", f.PerfumeID)
	}
	if f.UserID != uuid.Nil {
		w.add("user_id", f.UserID)
	}
	if f.ParentID != uuid.Nil {
		w.add("parent_comment_id", f.ParentID)
	}
	q := `SELECT ` + commentCols + ` FROM comments`
	if !w.empty() {
		q += ` WHERE ` + strings.Join(w.cols, " AND ")
	}
	q += ` ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, translate(err, "list", "comment", uuid.Nil, false)
	}
	defer rows.Close()

	out := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, translate(err, "list", "comment", uuid.Nil, false)
		}
		out = append(out, *c)
	}
	return out, translate(rows.Err(), "list", "comment", uuid.Nil, false)
}

// Update applies the mutable columns present in p.
func (r *CommentRepo) Update(ctx context.Context, id uuid.UUID, p model.CommentPatch) (*model.Comment, error) {
	var s setList
	if p.Content != nil {
		s.add("content", *p.Content)
	}
	if p.ParentCommentID.Set {
		s.add("parent_comment_id", p.ParentCommentID.Value)
	}
	if p.Rating.Set {
		s.add("rating", p.Rating.Value)
	}
	if s.empty() {
		return r.GetByID(ctx, id)
	}
	q := `UPDATE comments SET ` + strings.Join(s.cols, ", ") + ` WHERE id=` + s.next(id) + ` RETURNING ` + commentCols
	c, err := scanComment(r.q.QueryRow(ctx, q, s.args...))
	if err != nil {
		return nil, translate(err, "update", "comment", id, false)
	}
	return c, nil
}

// Delete removes one comment. Replies keep their parent id.
func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return 0, translate(err, "delete", "comment", id, true)
	}
	return tag.RowsAffected(), nil
}

// DeleteByUser removes every comment written by a user.
func (r *CommentRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM comments WHERE user_id=$1`, userID)
	if err != nil {
		return 0, translate(err, "cascade", "comments of user", userID, true)
	}
	return tag.RowsAffected(), nil
}

// DeleteByPerfume removes every comment on a perfume.
func (r *CommentRepo) DeleteByPerfume(ctx context.Context, perfumeID uuid.UUID) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM comments WHERE perfume_id=$1`, perfumeID)
	if err != nil {
		return 0, translate(err, "cascade", "comments of perfume", perfumeID, true)
	}
	return tag.RowsAffected(), nil
}
