package postgres

import (
	"context"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/jackc/pgx/v5"
)

// repos hands out repositories bound to one Querier (the pool or a transaction).
type repos struct{ q Querier }

func (r repos) Concentrations() repository.ConcentrationRepository {
	return NewConcentrationRepo(r.q)
}
func (r repos) Notes() repository.NoteRepository               { return NewNoteRepo(r.q) }
func (r repos) Perfumes() repository.PerfumeRepository         { return NewPerfumeRepo(r.q) }
func (r repos) PerfumeNotes() repository.PerfumeNoteRepository { return NewPerfumeNoteRepo(r.q) }
func (r repos) Users() repository.UserRepository               { return NewUserRepo(r.q) }
func (r repos) Favorites() repository.FavoriteRepository       { return NewFavoriteRepo(r.q) }
func (r repos) Comments() repository.CommentRepository         { return NewCommentRepo(r.q) }

// Store implements repository.Store on a connection pool.
type Store struct {
	repos
	db *DB
}

var _ repository.Store = (*Store)(nil)

// NewStore constructs a store whose plain repositories run on the pool.
func NewStore(db *DB) *Store { return &Store{repos: repos{q: db.Pool}, db: db} }

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return errs.Store("ping", "database", "", s.db.Pool.Ping(ctx))
}

// InTx runs fn with repositories bound to a single transaction.
func (s *Store) InTx(ctx context.Context, fn func(repository.Repos) error) (err error) {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errs.Store("begin", "transaction", "", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = errs.Store("commit", "transaction", "", e)
		}
	}()
	return fn(repos{q: tx})
}
