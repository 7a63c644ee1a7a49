package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/and161185/perfume-catalog/internal/cache"
	"github.com/and161185/perfume-catalog/internal/crypto"
	"github.com/and161185/perfume-catalog/internal/limiter"
	"github.com/and161185/perfume-catalog/internal/migrate"
	"github.com/and161185/perfume-catalog/internal/repository/postgres"
	"github.com/and161185/perfume-catalog/internal/service"
)

// app wires the store, cache and services for one command invocation.
type app struct {
	log *zap.Logger
	db  *postgres.DB
	rdb *redis.Client

	concentrations service.ConcentrationService
	notes          service.NoteService
	perfumes       service.PerfumeService
	perfumeNotes   service.PerfumeNoteService
	match          service.MatchService
	users          service.UserService
	favorites      service.FavoriteService
	comments       service.CommentService
}

func newApp(ctx context.Context, o *rootOpts) (*app, error) {
	cfg, log := o.cfg, o.log

	if cfg.DB.MigrateOnStart {
		if err := migrate.Up(ctx, cfg.DB.DSN, log); err != nil {
			return nil, fmt.Errorf("migrate up: %w", err)
		}
	}

	db, err := postgres.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	store := postgres.NewStore(db)
	if err := store.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	a := &app{log: log, db: db}

	var mc cache.MatchCache = &cache.Nop{}
	if cfg.Redis.Addr != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		mc = cache.NewRedis(a.rdb, "", cfg.Cache.MatchTTL)
		log.Debug("match cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Cache.MatchTTL))
	}

	hasher, err := crypto.NewBcrypt(cfg.Auth.BcryptCost)
	if err != nil {
		a.Close()
		return nil, err
	}
	lim := limiter.NewPG(db.Pool, limiter.Policy{
		Window:   cfg.Auth.Limiter.Window,
		MaxFails: cfg.Auth.Limiter.MaxFails,
		BlockFor: cfg.Auth.Limiter.BlockFor,
	})

	a.concentrations = service.NewConcentrationService(store, log)
	a.notes = service.NewNoteService(store, mc, log)
	a.perfumes = service.NewPerfumeService(store, mc, log)
	a.perfumeNotes = service.NewPerfumeNoteService(store, mc, log)
	a.match = service.NewMatchService(store, mc, log)
	a.users = service.NewUserService(store, hasher, lim, log)
	a.favorites = service.NewFavoriteService(store, log)
	a.comments = service.NewCommentService(store, log)
	return a, nil
}

// Close releases the pool and the redis client.
func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("redis close", zap.Error(err))
		}
	}
	a.db.Close()
}

// run builds the app, calls fn and prints its result.
func (o *rootOpts) run(ctx context.Context, p printer, fn func(ctx context.Context, a *app) (any, error)) error {
	a, err := newApp(ctx, o)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return p.print(res)
}
