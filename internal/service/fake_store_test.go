package service

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/and161185/perfume-catalog/internal/errs"
	"github.com/and161185/perfume-catalog/internal/model"
	"github.com/and161185/perfume-catalog/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// memState is the whole fake database. Slices keep insertion order.
type memState struct {
	concentrations map[uuid.UUID]model.Concentration
	notes          map[uuid.UUID]model.Note
	perfumes       []model.Perfume
	links          []model.PerfumeNote
	users          []model.User
	favorites      []model.UserFavorite
	comments       []model.Comment
}

func (st *memState) clone() *memState {
	return &memState{
		concentrations: maps.Clone(st.concentrations),
		notes:          maps.Clone(st.notes),
		perfumes:       slices.Clone(st.perfumes),
		links:          slices.Clone(st.links),
		users:          slices.Clone(st.users),
		favorites:      slices.Clone(st.favorites),
		comments:       slices.Clone(st.comments),
	}
}

// memStore is an in-memory repository.Store. InTx snapshots the state and restores
// it when fn fails, so tests can assert that nothing partial was written.
type memStore struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	st    *memState
	clock time.Time

	// fail injects an error for an operation named "<repo>.<method>".
	fail map[string]error

	matchCalls atomic.Int64
	matchHook  func()
	txCount    int
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		st: &memState{
			concentrations: map[uuid.UUID]model.Concentration{},
			notes:          map[uuid.UUID]model.Note{},
		},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		fail:  map[string]error{},
	}
}

// tick must be called with mu held.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// injected must be called with mu held.
func (s *memStore) injected(op string) error { return s.fail[op] }

func (s *memStore) snapshot() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

func (s *memStore) InTx(ctx context.Context, fn func(repository.Repos) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	before := s.snapshot()
	s.mu.Lock()
	s.txCount++
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(before)
			panic(p)
		}
		if err != nil {
			s.restore(before)
		}
	}()
	return fn(s)
}

func (s *memStore) restore(st *memState) {
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
}

func (s *memStore) Concentrations() repository.ConcentrationRepository { return memConcentrations{s} }
func (s *memStore) Notes() repository.NoteRepository                   { return memNotes{s} }
func (s *memStore) Perfumes() repository.PerfumeRepository             { return memPerfumes{s} }
func (s *memStore) PerfumeNotes() repository.PerfumeNoteRepository     { return memPerfumeNotes{s} }
func (s *memStore) Users() repository.UserRepository                   { return memUsers{s} }
func (s *memStore) Favorites() repository.FavoriteRepository           { return memFavorites{s} }
func (s *memStore) Comments() repository.CommentRepository             { return memComments{s} }

func newUUID() uuid.UUID { return uuid.Must(uuid.NewV4()) }

// ---- concentrations ----

type memConcentrations struct{ s *memStore }

func (r memConcentrations) Create(_ context.Context, in model.ConcentrationInput) (*model.Concentration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("concentrations.Create"); err != nil {
		return nil, err
	}
	for _, c := range r.s.st.concentrations {
		if c.Name == in.Name || c.DisplayName == in.DisplayName {
			return nil, errs.Conflictf("concentration name already exists")
		}
	}
	now := r.s.tick()
	c := model.Concentration{ID: newUUID(), Name: in.Name, DisplayName: in.DisplayName, CreatedAt: now, UpdatedAt: now}
	r.s.st.concentrations[c.ID] = c
	return &c, nil
}

func (r memConcentrations) GetByID(_ context.Context, id uuid.UUID) (*model.Concentration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.concentrations[id]
	if !ok {
		return nil, errs.NotFoundf("concentration %s", id)
	}
	return &c, nil
}

func (r memConcentrations) NameTaken(_ context.Context, name string, exclude uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.concentrations {
		if c.Name == name && c.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (r memConcentrations) DisplayNameTaken(_ context.Context, displayName string, exclude uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.concentrations {
		if c.DisplayName == displayName && c.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (r memConcentrations) List(context.Context) ([]model.Concentration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := slices.Collect(maps.Values(r.s.st.concentrations))
	slices.SortFunc(out, func(a, b model.Concentration) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r memConcentrations) Update(_ context.Context, id uuid.UUID, p model.ConcentrationPatch) (*model.Concentration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.concentrations[id]
	if !ok {
		return nil, errs.NotFoundf("concentration %s", id)
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.DisplayName != nil {
		c.DisplayName = *p.DisplayName
	}
	c.UpdatedAt = r.s.tick()
	r.s.st.concentrations[id] = c
	return &c, nil
}

func (r memConcentrations) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.concentrations[id]; !ok {
		return 0, nil
	}
	for _, p := range r.s.st.perfumes {
		if p.ConcentrationID == id {
			return 0, errs.Conflictf("concentration is still referenced")
		}
	}
	delete(r.s.st.concentrations, id)
	return 1, nil
}

// ---- notes ----

type memNotes struct{ s *memStore }

func (r memNotes) Create(_ context.Context, in model.NoteInput) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.st.notes {
		if n.Name == in.Name {
			return nil, errs.Conflictf("note name already exists")
		}
	}
	now := r.s.tick()
	n := model.Note{ID: newUUID(), Name: in.Name, ImageURL: in.ImageURL, CreatedAt: now, UpdatedAt: now}
	r.s.st.notes[n.ID] = n
	return &n, nil
}

func (r memNotes) GetByID(_ context.Context, id uuid.UUID) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.st.notes[id]
	if !ok {
		return nil, errs.NotFoundf("note %s", id)
	}
	return &n, nil
}

func (r memNotes) NameTaken(_ context.Context, name string, exclude uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.st.notes {
		if n.Name == name && n.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (r memNotes) MissingIDs(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := r.s.st.notes[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r memNotes) List(context.Context) ([]model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := slices.Collect(maps.Values(r.s.st.notes))
	slices.SortFunc(out, func(a, b model.Note) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r memNotes) Update(_ context.Context, id uuid.UUID, p model.NotePatch) (*model.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.st.notes[id]
	if !ok {
		return nil, errs.NotFoundf("note %s", id)
	}
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.ImageURL != nil {
		n.ImageURL = *p.ImageURL
	}
	n.UpdatedAt = r.s.tick()
	r.s.st.notes[id] = n
	return &n, nil
}

func (r memNotes) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.notes[id]; !ok {
		return 0, nil
	}
	for _, l := range r.s.st.links {
		if l.NoteID == id {
			return 0, errs.Conflictf("note is still referenced")
		}
	}
	delete(r.s.st.notes, id)
	return 1, nil
}

// ---- perfumes ----

type memPerfumes struct{ s *memStore }

func (r memPerfumes) find(id uuid.UUID) int {
	return slices.IndexFunc(r.s.st.perfumes, func(p model.Perfume) bool { return p.ID == id })
}

func (r memPerfumes) Create(_ context.Context, in model.PerfumeInput) (*model.Perfume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("perfumes.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.s.st.concentrations[in.ConcentrationID]; !ok {
		return nil, errs.Validationf("perfume references a missing record")
	}
	for _, p := range r.s.st.perfumes {
		if p.Name == in.Name && p.ConcentrationID == in.ConcentrationID {
			return nil, errs.Conflictf("perfume with this name and concentration already exists")
		}
	}
	now := r.s.tick()
	p := model.Perfume{
		ID: newUUID(), Name: in.Name, Description: in.Description, Brand: in.Brand,
		Gender: in.Gender, ImageURL: in.ImageURL, ConcentrationID: in.ConcentrationID,
		CreatedAt: now, UpdatedAt: now,
	}
	r.s.st.perfumes = append(r.s.st.perfumes, p)
	return &p, nil
}

func (r memPerfumes) GetByID(_ context.Context, id uuid.UUID) (*model.Perfume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return nil, errs.NotFoundf("perfume %s", id)
	}
	p := r.s.st.perfumes[i]
	return &p, nil
}

func (r memPerfumes) LockForUpdate(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.find(id) < 0 {
		return errs.NotFoundf("perfume %s", id)
	}
	return nil
}

func (r memPerfumes) Taken(_ context.Context, name string, concentrationID, exclude uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.perfumes {
		if p.Name == name && p.ConcentrationID == concentrationID && p.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (r memPerfumes) CountByConcentration(_ context.Context, concentrationID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.st.perfumes {
		if p.ConcentrationID == concentrationID {
			n++
		}
	}
	return n, nil
}

func (r memPerfumes) List(_ context.Context, f model.PerfumeFilter) ([]model.Perfume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Perfume{}
	for _, p := range r.s.st.perfumes {
		if f.Brand != "" && p.Brand != f.Brand {
			continue
		}
		if f.Gender != "" && p.Gender != f.Gender {
			continue
		}
		if f.ConcentrationID != uuid.Nil && p.ConcentrationID != f.ConcentrationID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r memPerfumes) Update(_ context.Context, id uuid.UUID, p model.PerfumePatch) (*model.Perfume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return nil, errs.NotFoundf("perfume %s", id)
	}
	cur := r.s.st.perfumes[i]
	if p.FieldsEmpty() {
		return &cur, nil
	}
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Description != nil {
		cur.Description = *p.Description
	}
	if p.Brand != nil {
		cur.Brand = *p.Brand
	}
	if p.Gender != nil {
		cur.Gender = *p.Gender
	}
	if p.ImageURL != nil {
		cur.ImageURL = *p.ImageURL
	}
	if p.ConcentrationID != nil {
		cur.ConcentrationID = *p.ConcentrationID
	}
	cur.UpdatedAt = r.s.tick()
	r.s.st.perfumes[i] = cur
	return &cur, nil
}

func (r memPerfumes) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("perfumes.Delete"); err != nil {
		return 0, err
	}
	i := r.find(id)
	if i < 0 {
		return 0, nil
	}
	for _, l := range r.s.st.links {
		if l.PerfumeID == id {
			return 0, errs.Conflictf("perfume is still referenced")
		}
	}
	r.s.st.perfumes = slices.Delete(r.s.st.perfumes, i, i+1)
	return 1, nil
}

func summaryOf(p model.Perfume) model.PerfumeSummary {
	return model.PerfumeSummary{ID: p.ID, Brand: p.Brand, Name: p.Name, ImageURL: p.ImageURL}
}

// ---- perfume notes ----

type memPerfumeNotes struct{ s *memStore }

func (r memPerfumeNotes) Insert(_ context.Context, perfumeID uuid.UUID, a model.NoteAssignment) (*model.PerfumeNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("perfume_notes.Insert"); err != nil {
		return nil, err
	}
	if (memPerfumes{r.s}).find(perfumeID) < 0 {
		return nil, errs.Validationf("perfume_note references a missing record")
	}
	if _, ok := r.s.st.notes[a.NoteID]; !ok {
		return nil, errs.Validationf("perfume_note references a missing record")
	}
	for _, l := range r.s.st.links {
		if l.PerfumeID == perfumeID && l.NoteID == a.NoteID {
			return nil, errs.Conflictf("note already attached to perfume")
		}
	}
	now := r.s.tick()
	l := model.PerfumeNote{ID: newUUID(), PerfumeID: perfumeID, NoteID: a.NoteID, NoteType: a.NoteType, CreatedAt: now, UpdatedAt: now}
	r.s.st.links = append(r.s.st.links, l)
	return &l, nil
}

func (r memPerfumeNotes) AttachedNoteIDs(_ context.Context, perfumeID uuid.UUID, noteIDs []uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []uuid.UUID
	for _, l := range r.s.st.links {
		if l.PerfumeID == perfumeID && slices.Contains(noteIDs, l.NoteID) {
			out = append(out, l.NoteID)
		}
	}
	return out, nil
}

func (r memPerfumeNotes) ListViews(_ context.Context, perfumeID uuid.UUID) ([]model.PerfumeNoteView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.PerfumeNoteView{}
	for _, l := range r.s.st.links {
		if l.PerfumeID != perfumeID {
			continue
		}
		n := r.s.st.notes[l.NoteID]
		out = append(out, model.PerfumeNoteView{NoteID: n.ID, Name: n.Name, ImageURL: n.ImageURL, NoteType: l.NoteType})
	}
	return out, nil
}

func (r memPerfumeNotes) deleteWhere(keep func(model.PerfumeNote) bool) int64 {
	before := len(r.s.st.links)
	r.s.st.links = slices.DeleteFunc(r.s.st.links, func(l model.PerfumeNote) bool { return !keep(l) })
	return int64(before - len(r.s.st.links))
}

func (r memPerfumeNotes) DeleteByPerfume(_ context.Context, perfumeID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("perfume_notes.DeleteByPerfume"); err != nil {
		return 0, err
	}
	return r.deleteWhere(func(l model.PerfumeNote) bool { return l.PerfumeID != perfumeID }), nil
}

func (r memPerfumeNotes) DeleteByNote(_ context.Context, noteID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(l model.PerfumeNote) bool { return l.NoteID != noteID }), nil
}

func (r memPerfumeNotes) MatchAll(ctx context.Context, noteIDs []uuid.UUID) ([]model.PerfumeSummary, error) {
	r.s.matchCalls.Add(1)
	if r.s.matchHook != nil {
		r.s.matchHook()
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Store("match", "perfume_note", "", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("perfume_notes.MatchAll"); err != nil {
		return nil, err
	}
	out := []model.PerfumeSummary{}
	for _, p := range r.s.st.perfumes {
		have := map[uuid.UUID]bool{}
		for _, l := range r.s.st.links {
			if l.PerfumeID == p.ID {
				have[l.NoteID] = true
			}
		}
		all := true
		for _, id := range noteIDs {
			if !have[id] {
				all = false
				break
			}
		}
		if all {
			out = append(out, summaryOf(p))
		}
	}
	return out, nil
}

// ---- users ----

type memUsers struct{ s *memStore }

func (r memUsers) find(id uuid.UUID) int {
	return slices.IndexFunc(r.s.st.users, func(u model.User) bool { return u.ID == id })
}

func (r memUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.users {
		if x.Email == u.Email {
			return nil, errs.Conflictf("email already registered")
		}
	}
	now := r.s.tick()
	nu := *u
	nu.ID, nu.CreatedAt, nu.UpdatedAt = newUUID(), now, now
	r.s.st.users = append(r.s.st.users, nu)
	return &nu, nil
}

func (r memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("users.GetByID"); err != nil {
		return nil, err
	}
	i := r.find(id)
	if i < 0 {
		return nil, errs.NotFoundf("user %s", id)
	}
	u := r.s.st.users[i]
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.NotFoundf("user")
}

func (r memUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r memUsers) List(context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.User{}, r.s.st.users...), nil
}

func (r memUsers) Update(_ context.Context, id uuid.UUID, p model.UserPatch) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return nil, errs.NotFoundf("user %s", id)
	}
	u := r.s.st.users[i]
	if p.ColumnsEmpty() {
		return &u, nil
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Nickname.Set {
		u.Nickname = p.Nickname.Value
	}
	if p.ProfilePicture.Set {
		u.ProfilePicture = p.ProfilePicture.Value
	}
	u.UpdatedAt = r.s.tick()
	r.s.st.users[i] = u
	return &u, nil
}

func (r memUsers) SetPasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return errs.NotFoundf("user %s", id)
	}
	r.s.st.users[i].PasswordHash = hash
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return 0, nil
	}
	r.s.st.users = slices.Delete(r.s.st.users, i, i+1)
	return 1, nil
}

// ---- favorites ----

type memFavorites struct{ s *memStore }

func (r memFavorites) Create(_ context.Context, userID, perfumeID uuid.UUID) (*model.UserFavorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.st.favorites {
		if f.UserID == userID && f.PerfumeID == perfumeID {
			return nil, errs.Conflictf("perfume already in favorites")
		}
	}
	now := r.s.tick()
	f := model.UserFavorite{ID: newUUID(), UserID: userID, PerfumeID: perfumeID, CreatedAt: now, UpdatedAt: now}
	r.s.st.favorites = append(r.s.st.favorites, f)
	return &f, nil
}

func (r memFavorites) Exists(_ context.Context, userID, perfumeID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.ContainsFunc(r.s.st.favorites, func(f model.UserFavorite) bool {
		return f.UserID == userID && f.PerfumeID == perfumeID
	}), nil
}

func (r memFavorites) deleteWhere(drop func(model.UserFavorite) bool) int64 {
	before := len(r.s.st.favorites)
	r.s.st.favorites = slices.DeleteFunc(r.s.st.favorites, drop)
	return int64(before - len(r.s.st.favorites))
}

func (r memFavorites) Delete(_ context.Context, userID, perfumeID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(f model.UserFavorite) bool { return f.UserID == userID && f.PerfumeID == perfumeID }), nil
}

func (r memFavorites) ListPerfumes(_ context.Context, userID uuid.UUID) ([]model.PerfumeSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.PerfumeSummary{}
	for i := len(r.s.st.favorites) - 1; i >= 0; i-- {
		f := r.s.st.favorites[i]
		if f.UserID != userID {
			continue
		}
		if j := (memPerfumes{r.s}).find(f.PerfumeID); j >= 0 {
			out = append(out, summaryOf(r.s.st.perfumes[j]))
		}
	}
	return out, nil
}

func (r memFavorites) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(f model.UserFavorite) bool { return f.UserID == userID }), nil
}

func (r memFavorites) DeleteByPerfume(_ context.Context, perfumeID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("favorites.DeleteByPerfume"); err != nil {
		return 0, err
	}
	return r.deleteWhere(func(f model.UserFavorite) bool { return f.PerfumeID == perfumeID }), nil
}

// ---- comments ----

type memComments struct{ s *memStore }

func (r memComments) find(id uuid.UUID) int {
	return slices.IndexFunc(r.s.st.comments, func(c model.Comment) bool { return c.ID == id })
}

func (r memComments) Create(_ context.Context, in model.CommentInput) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	c := model.Comment{
		ID: newUUID(), UserID: in.UserID, PerfumeID: in.PerfumeID, Content: in.Content,
		ParentCommentID: in.ParentCommentID, Rating: in.Rating, CreatedAt: now, UpdatedAt: now,
	}
	r.s.st.comments = append(r.s.st.comments, c)
	return &c, nil
}

func (r memComments) GetByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return nil, errs.NotFoundf("comment %s", id)
	}
	c := r.s.st.comments[i]
	return &c, nil
}

func (r memComments) List(_ context.Context, f model.CommentFilter) ([]model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Comment{}
	for _, c := range r.s.st.comments {
		if f.PerfumeID != uuid.Nil && c.PerfumeID != f.PerfumeID {
			continue
		}
		if f.UserID != uuid.Nil && c.UserID != f.UserID {
			continue
		}
		if f.ParentID != uuid.Nil && (c.ParentCommentID == nil || *c.ParentCommentID != f.ParentID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r memComments) Update(_ context.Context, id uuid.UUID, p model.CommentPatch) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.find(id)
	if i < 0 {
		return nil, errs.NotFoundf("comment %s", id)
	}
	c := r.s.st.comments[i]
	if p.ColumnsEmpty() {
		return &c, nil
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.ParentCommentID.Set {
		c.ParentCommentID = p.ParentCommentID.Value
	}
	if p.Rating.Set {
		c.Rating = p.Rating.Value
	}
	c.UpdatedAt = r.s.tick()
	r.s.st.comments[i] = c
	return &c, nil
}

func (r memComments) deleteWhere(drop func(model.Comment) bool) int64 {
	before := len(r.s.st.comments)
	r.s.st.comments = slices.DeleteFunc(r.s.st.comments, drop)
	return int64(before - len(r.s.st.comments))
}

func (r memComments) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(c model.Comment) bool { return c.ID == id }), nil
}

func (r memComments) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(c model.Comment) bool { return c.UserID == userID }), nil
}

func (r memComments) DeleteByPerfume(_ context.Context, perfumeID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(c model.Comment) bool { return c.PerfumeID == perfumeID }), nil
}
