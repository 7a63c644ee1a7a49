package model

import "github.com/gofrs/uuid/v5"

// PerfumeSummary is the projection returned by set-match queries and favorites.
type PerfumeSummary struct {
	ID       uuid.UUID `json:"id"`
	Brand    string    `json:"brand"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
}

// PerfumeNoteView is one note of a perfume, enriched with note data.
type PerfumeNoteView struct {
	NoteID   uuid.UUID `json:"note_id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
	NoteType NoteType  `json:"note_type"`
}

// PerfumeDetail is the enriched perfume view.
type PerfumeDetail struct {
	Perfume
	Concentration *Concentration    `json:"concentration,omitempty"`
	Notes         []PerfumeNoteView `json:"notes"`
}

// DeleteReport tells the caller what a delete removed, cascades included.
type DeleteReport struct {
	Removed   int64 `json:"removed"`
	NoteLinks int64 `json:"note_links,omitempty"`
	Favorites int64 `json:"favorites,omitempty"`
	Comments  int64 `json:"comments,omitempty"`
}

// AuthResult is the outcome of a successful credential check.
type AuthResult struct {
	User         User `json:"user"`
	IsAdmin      bool `json:"is_admin"`
	IsSuperAdmin bool `json:"is_super_admin"`
}
