package converter

import (
	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/ports"
)

// NoteToDTO converts a persisted note into its transport shape. The
// owner id and the notification flag never leave the service layer.
func NoteToDTO(note *entities.Note) ports.NoteDTO {
	if note == nil {
		return ports.NoteDTO{}
	}

	return ports.NoteDTO{
		ID:          note.ID,
		Title:       note.Title,
		Text:        note.Text,
		EncodedText: note.EncodedText,
		Category:    note.Category,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
		DueDate:     note.DueDate,
		IsDeleted:   note.IsDeleted,
		IsResolved:  note.IsResolved,
		IsEncrypted: note.IsEncrypted,
	}
}

// NotesToDTOs converts a slice of notes, returning an empty slice rather
// than nil so listings serialize as [] instead of null.
func NotesToDTOs(notes []*entities.Note) []ports.NoteDTO {
	dtos := make([]ports.NoteDTO, 0, len(notes))
	for _, note := range notes {
		dtos = append(dtos, NoteToDTO(note))
	}
	return dtos
}

// ApplyDTO copies the caller-supplied fields of the DTO onto an existing
// entity. Server-stamped fields (id, owner, audit timestamps, deletion
// and notification flags) are left untouched; the service layer owns
// those.
func ApplyDTO(note *entities.Note, dto ports.NoteDTO) {
	note.Title = dto.Title
	note.Text = dto.Text
	note.EncodedText = dto.EncodedText
	note.Category = dto.Category
	note.DueDate = dto.DueDate
	note.IsResolved = dto.IsResolved
	note.IsEncrypted = dto.IsEncrypted
}

// UserToInfo strips the password hash from a user record.
func UserToInfo(user *entities.User) ports.UserInfo {
	if user == nil {
		return ports.UserInfo{}
	}

	return ports.UserInfo{
		ID:          user.ID,
		Login:       user.Login,
		DateCreated: user.DateCreated,
	}
}
