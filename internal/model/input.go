package model

import "github.com/gofrs/uuid/v5"

// Clearable is a patch field that can be left untouched, set to a value, or cleared.
type Clearable[T any] struct {
	Set   bool // present in the patch
	Value *T   // nil clears the column
}

// SetTo returns a Clearable carrying v.
func SetTo[T any](v T) Clearable[T] { return Clearable[T]{Set: true, Value: &v} }

// Cleared returns a Clearable that nulls the column.
func Cleared[T any]() Clearable[T] { return Clearable[T]{Set: true} }

// NoteAssignment attaches a note to a perfume in a given role.
type NoteAssignment struct {
	NoteID   uuid.UUID `json:"note_id"`
	NoteType NoteType  `json:"note_type"`
}

// ConcentrationInput creates a concentration.
type ConcentrationInput struct {
	Name        string
	DisplayName string
}

// ConcentrationPatch is a partial update; nil fields are left untouched.
type ConcentrationPatch struct {
	Name        *string
	DisplayName *string
}

// Empty reports whether the patch changes nothing.
func (p ConcentrationPatch) Empty() bool { return p.Name == nil && p.DisplayName == nil }

// NoteInput creates a note.
type NoteInput struct {
	Name     string
	ImageURL string
}

// NotePatch is a partial update; nil fields are left untouched.
type NotePatch struct {
	Name     *string
	ImageURL *string
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool { return p.Name == nil && p.ImageURL == nil }

// PerfumeInput creates a perfume, optionally with its initial notes.
type PerfumeInput struct {
	Name            string
	Description     string
	Brand           string
	Gender          Gender
	ImageURL        string
	ConcentrationID uuid.UUID
	Notes           []NoteAssignment
}

// PerfumePatch is a partial update. A non-nil Notes replaces the whole note mapping.
type PerfumePatch struct {
	Name            *string
	Description     *string
	Brand           *string
	Gender          *Gender
	ImageURL        *string
	ConcentrationID *uuid.UUID
	Notes           *[]NoteAssignment
}

// FieldsEmpty reports whether no perfume column is changed.
func (p PerfumePatch) FieldsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Brand == nil && p.Gender == nil &&
		p.ImageURL == nil && p.ConcentrationID == nil
}

// PerfumeFilter narrows perfume listings. Zero values match everything.
type PerfumeFilter struct {
	Brand           string
	Gender          Gender
	ConcentrationID uuid.UUID
}

// UserInput registers a user. Password is plaintext and is hashed before storage.
type UserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Nickname  *string
	Role      *string
}

// UserPatch is a partial update. Email is accepted only to be rejected: it is immutable.
type UserPatch struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Nickname       Clearable[string]
	ProfilePicture Clearable[string]
}

// ColumnsEmpty reports whether no mutable column is changed.
func (p UserPatch) ColumnsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && !p.Nickname.Set && !p.ProfilePicture.Set
}

// CommentInput adds a comment.
type CommentInput struct {
	UserID          uuid.UUID
	PerfumeID       uuid.UUID
	Content         string
	ParentCommentID *uuid.UUID
	Rating          *int
}

// CommentPatch is a partial update. UserID and PerfumeID are immutable and rejected when set.
type CommentPatch struct {
	UserID          *uuid.UUID
	PerfumeID       *uuid.UUID
	Content         *string
	ParentCommentID Clearable[uuid.UUID]
	Rating          Clearable[int]
}

// ColumnsEmpty reports whether no mutable column is changed.
func (p CommentPatch) ColumnsEmpty() bool {
	return p.Content == nil && !p.ParentCommentID.Set && !p.Rating.Set
}

// CommentFilter narrows comment listings. Nil ids match everything.
type CommentFilter struct {
	PerfumeID uuid.UUID
	UserID    uuid.UUID
	ParentID  uuid.UUID
}
