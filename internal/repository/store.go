package repository

import "context"

// Repos bundles one repository per entity, all bound to the same connection or transaction.
type Repos interface {
	Concentrations() ConcentrationRepository
	Notes() NoteRepository
	Perfumes() PerfumeRepository
	PerfumeNotes() PerfumeNoteRepository
	Users() UserRepository
	Favorites() FavoriteRepository
	Comments() CommentRepository
}

// Store is the handle injected into services.
type Store interface {
	Repos
	// InTx runs fn in a single transaction. fn's error (or a panic) rolls everything back.
	InTx(ctx context.Context, fn func(Repos) error) error
}
