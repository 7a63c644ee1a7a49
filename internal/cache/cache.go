// Package cache stores set-match query results.
//
// Entries are keyed by a generation counter and the canonical note id list. Bumping the
// generation on every catalog write makes all earlier entries unreachable at once; they
// then expire by TTL.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ErrMiss is returned by Get when no entry is stored for the key.
var ErrMiss = errors.New("cache miss")

// MatchCache stores set-match results per canonical note id set.
//
// Get reports the generation it read under, hit or miss. A caller that then queries
// the store passes that generation back to Set, so a result computed before a write
// lands under the superseded generation and is never read again.
type MatchCache interface {
	// Get returns the cached result for ids and the current generation, or ErrMiss.
	Get(ctx context.Context, ids []uuid.UUID) ([]model.PerfumeSummary, int64, error)
	// Set stores the result for ids under gen.
	Set(ctx context.Context, gen int64, ids []uuid.UUID, res []model.PerfumeSummary) error
	// Invalidate starts a new generation, hiding every stored result.
	Invalidate(ctx context.Context) error
}

// Nop is a MatchCache that stores nothing but still counts generations.
type Nop struct{ gen atomic.Int64 }

func (n *Nop) Get(context.Context, []uuid.UUID) ([]model.PerfumeSummary, int64, error) {
	return nil, n.gen.Load(), ErrMiss
}
func (n *Nop) Set(context.Context, int64, []uuid.UUID, []model.PerfumeSummary) error { return nil }
func (n *Nop) Invalidate(context.Context) error {
	n.gen.Add(1)
	return nil
}

// canonical joins ids in their given order; callers pass them sorted.
func canonical(ids []uuid.UUID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	return b.String()
}
