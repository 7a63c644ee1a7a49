// Package migrate applies embedded SQL migrations.
package migrate

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/and161185/perfume-catalog/migrations"
)

// Status is the state of one embedded migration.
type Status struct {
	Version   int64     `json:"version"`
	Source    string    `json:"source"`
	State     string    `json:"state"`
	AppliedAt time.Time `json:"applied_at,omitempty"`
}

// gooseLogger routes goose output through zap.
type gooseLogger struct{ s *zap.SugaredLogger }

func (l gooseLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }

// Up runs all pending migrations from the embedded filesystem.
func Up(ctx context.Context, dsn string, log *zap.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if log == nil {
		log = zap.NewNop()
	}
	goose.SetLogger(gooseLogger{s: log.Sugar()})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// List reports every embedded migration and whether it has been applied.
func List(ctx context.Context, dsn string) ([]Status, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	p, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, err
	}
	res, err := p.Status(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Status, 0, len(res))
	for _, s := range res {
		out = append(out, Status{
			Version:   s.Source.Version,
			Source:    s.Source.Path,
			State:     string(s.State),
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}
