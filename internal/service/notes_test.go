package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap/zaptest"
)

func TestNotes_CreateUpdate(t *testing.T) {
	t.Parallel()
	s := newMemStore()
	svc := NewNoteService(s, nil, zaptest.NewLogger(t))
	ctx := context.Background()

	n, err := svc.Create(ctx, model.NoteInput{Name: "Neroli", ImageURL: "n.png"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, model.NoteInput{Name: "Neroli"}); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
	if _, err := svc.Create(ctx, model.NoteInput{Name: "  "}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	other, _ := svc.Create(ctx, model.NoteInput{Name: "Petitgrain"})
	if _, err := svc.Update(ctx, other.ID, model.NotePatch{Name: strPtr("Neroli")}); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("want ErrConflict on rename, got %v", err)
	}

	upd, err := svc.Update(ctx, n.ID, model.NotePatch{ImageURL: strPtr("neroli.png")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Name != "Neroli" || upd.ImageURL != "neroli.png" {
		t.Fatalf("bad update: %+v", upd)
	}
	got, err := svc.Get(ctx, n.ID)
	if err != nil || got.ImageURL != "neroli.png" {
		t.Fatalf("Get: %+v %v", got, err)
	}
}

func TestNotes_DeleteDetachesPerfumes(t *testing.T) {
	t.Parallel()
	s, c := newMemStore(), newFakeCache()
	svc := NewNoteService(s, c, zaptest.NewLogger(t))
	ctx := context.Background()

	conc := mustConcentration(t, s, "edp")
	a, b := mustNote(t, s, "a"), mustNote(t, s, "b")
	p := mustPerfume(t, s, conc, "Survivor", a, b)

	rep, err := svc.Delete(ctx, a)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rep.Removed != 1 || rep.NoteLinks != 1 {
		t.Fatalf("report: %+v", rep)
	}
	if _, err := s.Perfumes().GetByID(ctx, p); err != nil {
		t.Fatalf("perfume must survive note delete: %v", err)
	}
	views, _ := s.PerfumeNotes().ListViews(ctx, p)
	if !slices.Equal(viewIDs(views), []uuid.UUID{b}) {
		t.Fatalf("remaining notes: %v", viewIDs(views))
	}
	if c.invalidated() != 1 {
		t.Fatalf("want invalidation, got %d", c.invalidated())
	}

	if _, err := svc.Delete(ctx, a); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if c.invalidated() != 1 {
		t.Fatalf("missing note must not invalidate")
	}
}
