package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrNoteNotFound      = errors.New("note not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotAcknowledged   = errors.New("storage did not acknowledge the operation")
	ErrInvalidCredential = errors.New("invalid credentials")
)

// Note is the persisted note record. Every query and mutation is scoped
// by UserID; a note is never visible to a caller whose identity does not
// match it. Notes are soft-deleted only.
type Note struct {
	ID                  string     `db:"id" json:"id"`
	UserID              string     `db:"user_id" json:"userId"`
	Title               string     `db:"title" json:"title"`
	Text                string     `db:"text" json:"text"`
	EncodedText         string     `db:"encoded_text" json:"encodedText,omitempty"`
	Category            string     `db:"category" json:"category,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
	DueDate             *time.Time `db:"due_date" json:"dueDate,omitempty"`
	IsDeleted           bool       `db:"is_deleted" json:"isDeleted"`
	IsResolved          bool       `db:"is_resolved" json:"isResolved"`
	IsEncrypted         bool       `db:"is_encrypted" json:"isEncrypted"`
	DueNotificationSent bool       `db:"due_notification_sent" json:"dueNotificationSent"`
}

// User is the persisted account record. Password holds the hash and must
// be stripped before a user leaves the service layer.
type User struct {
	ID          string    `db:"id" json:"id"`
	Login       string    `db:"login" json:"login"`
	Password    string    `db:"password" json:"password,omitempty"`
	DateCreated time.Time `db:"date_created" json:"dateCreated"`
}

// NoteGroup bundles the due, unsent notes of a single owner for
// notification dispatch.
type NoteGroup struct {
	UserID string
	Notes  []*Note
}
