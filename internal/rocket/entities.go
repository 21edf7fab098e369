package rocket

import (
	"io"
	"time"
)

// UserRef is the short user mirror embedded in rooms and messages.
type UserRef struct {
	ID       string
	Username string
	Name     string
}

// Room is a Rocket.Chat conversation container (public channel, private
// group, or direct message). Rooms are read-mostly upstream mirrors; this
// service never mutates one after translation.
type Room struct {
	ID          string
	Name        string
	Kind        string
	Creator     UserRef
	Topic       string
	Description string
	ReadOnly    bool
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Attachment describes a file attached to a message.
type Attachment struct {
	Title          string
	Type           string
	Description    string
	Link           string
	LinkIsDownload bool
	ImageURL       string
	ImageType      string
	// ImageSizeBytes is nil when upstream omitted the size.
	ImageSizeBytes *int64
}

// Message is a chat message, immutable once translated.
type Message struct {
	ID          string
	RoomID      string
	Body        string
	Timestamp   time.Time
	Author      UserRef
	Attachments []Attachment
}

// Profile mirrors the authenticated account returned by the login exchange.
type Profile struct {
	ID       string
	Username string
	Name     string
	Email    string
}

// AuthInfo is the full payload of a successful login.
type AuthInfo struct {
	Token   string
	UserID  string
	Profile Profile
}

// File is an upload destined for a room. ContentType may be empty, in which
// case the multipart part carries no explicit type.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}
