package ports

import "time"

// NoteDTO is the transport-facing note shape. It deliberately has no
// owner field: the service layer threads the verified identity into the
// entity, never a caller-supplied value. DueNotificationSent is likewise
// internal and never exposed. CreatedAt, UpdatedAt and IsDeleted are
// output-only: they are ignored on create and update requests, where the
// service stamps the timestamps and deletion happens only through the
// delete operation.
type NoteDTO struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	EncodedText string     `json:"encodedText,omitempty"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsDeleted   bool       `json:"isDeleted"`
	IsResolved  bool       `json:"isResolved"`
	IsEncrypted bool       `json:"isEncrypted"`
}

// Credentials carries a login/password pair for signup and verification.
type Credentials struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo is the caller-visible account shape, always without the
// password hash.
type UserInfo struct {
	ID          string    `json:"id"`
	Login       string    `json:"login"`
	DateCreated time.Time `json:"dateCreated"`
}
