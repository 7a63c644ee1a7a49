// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Gender is the perfume target audience.
type Gender string

// Allowed genders.
const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
	GenderUnisex Gender = "Unisex"
)

// Valid reports whether g is one of the allowed genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderUnisex:
		return true
	}
	return false
}

// NoteType is the role a note plays in a perfume's pyramid.
type NoteType string

// Allowed note roles.
const (
	NoteTop    NoteType = "TOP"
	NoteMiddle NoteType = "MIDDLE"
	NoteBase   NoteType = "BASE"
)

// Valid reports whether t is one of the allowed note roles.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTop, NoteMiddle, NoteBase:
		return true
	}
	return false
}

// Concentration is a perfume strength (EDT, EDP, ...).
type Concentration struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`         // unique
	DisplayName string    `json:"display_name"` // unique
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Note is a scent note that perfumes reference through PerfumeNote rows.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"` // unique
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Perfume is a catalog entry. (Name, ConcentrationID) is unique.
type Perfume struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Brand           string    `json:"brand"`
	Gender          Gender    `json:"gender"`
	ImageURL        string    `json:"image_url"`
	ConcentrationID uuid.UUID `json:"concentration_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PerfumeNote is the junction row between a perfume and a note. (PerfumeID, NoteID) is unique.
type PerfumeNote struct {
	ID        uuid.UUID `json:"id"`
	PerfumeID uuid.UUID `json:"perfume_id"`
	NoteID    uuid.UUID `json:"note_id"`
	NoteType  NoteType  `json:"note_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is an account. The password is only ever held as a salted hash.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"` // unique, immutable
	PasswordHash   string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Nickname       *string   `json:"nickname,omitempty"`
	Role           *string   `json:"role,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Roles with elevated rights.
const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "Super Admin"
)

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role string) bool { return u.Role != nil && *u.Role == role }

// UserFavorite links a user to a perfume. (UserID, PerfumeID) is unique.
type UserFavorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PerfumeID uuid.UUID `json:"perfume_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a user remark on a perfume, optionally replying to another comment.
// ParentCommentID is a plain identifier edge; the parent may no longer exist.
type Comment struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`    // immutable
	PerfumeID       uuid.UUID  `json:"perfume_id"` // immutable
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	Rating          *int       `json:"rating,omitempty"` // 0..5
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
