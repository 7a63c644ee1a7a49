package limiter

import (
	"context"
	"crypto/sha256"
	"errors"
	"time"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PG is a PostgreSQL-backed limiter with a sliding failure window and lockout.
type PG struct {
	q      pgxQuerier
	policy Policy
	now    func() time.Time
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter on a pool or transaction.
func NewPG(q pgxQuerier, p Policy) *PG {
	return &PG{q: q, policy: p, now: time.Now}
}

// HashIP returns a stable hash for an IP string to avoid storing raw addresses.
func HashIP(ip string) []byte {
	h := sha256.Sum256([]byte(ip))
	return h[:]
}

// Allow reports whether a check is currently allowed and a retry-after duration.
func (l *PG) Allow(ctx context.Context, subject string, ipHash []byte) (bool, time.Duration, error) {
	const q = `SELECT blocked_until, updated_at FROM auth_limiter WHERE subject=$1 AND ip_hash=$2`
	var blockedUntil, updatedAt time.Time
	err := l.q.QueryRow(ctx, q, subject, ipHash).Scan(&blockedUntil, &updatedAt)
	switch {
	case err == nil:
		if now := l.now(); blockedUntil.After(now) {
			return false, blockedUntil.Sub(now), nil
		}
		return true, 0, nil
	case errors.Is(err, pgx.ErrNoRows):
		return true, 0, nil
	default:
		return false, 0, errs.Store("allow", "auth limiter", subject, err)
	}
}

// Success resets counters for (subject, ip).
func (l *PG) Success(ctx context.Context, subject string, ipHash []byte) error {
	const q = `
INSERT INTO auth_limiter (subject, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1,$2,0,'epoch',now())
ON CONFLICT (subject, ip_hash)
DO UPDATE SET fail_count=0, blocked_until='epoch', updated_at=now()`
	_, err := l.q.Exec(ctx, q, subject, ipHash)
	return errs.Store("reset", "auth limiter", subject, err)
}

// Failure records a failed attempt; at MaxFails within Window it blocks for BlockFor.
func (l *PG) Failure(ctx context.Context, subject string, ipHash []byte) (bool, time.Duration, error) {
	now := l.now()

	const q = `
INSERT INTO auth_limiter (subject, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1,$2,1,'epoch',now())
ON CONFLICT (subject, ip_hash) DO UPDATE
SET
  fail_count = CASE WHEN EXCLUDED.updated_at - auth_limiter.updated_at > $3::interval THEN 1 ELSE auth_limiter.fail_count + 1 END,
  updated_at = now()
RETURNING fail_count`
	var fails int
	if err := l.q.QueryRow(ctx, q, subject, ipHash, l.policy.Window).Scan(&fails); err != nil {
		return false, 0, errs.Store("record failure", "auth limiter", subject, err)
	}
	if fails >= l.policy.MaxFails {
		const upd = `UPDATE auth_limiter SET blocked_until=$3 WHERE subject=$1 AND ip_hash=$2`
		if _, err := l.q.Exec(ctx, upd, subject, ipHash, now.Add(l.policy.BlockFor)); err != nil {
			return false, 0, errs.Store("block", "auth limiter", subject, err)
		}
		return true, l.policy.BlockFor, nil
	}
	return false, 0, nil
}
