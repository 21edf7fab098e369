package http

import (
	"time"

	"github.com/chatgate/chatgate-server/internal/rocket"
)

// UserResponse represents a user reference in API responses.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// RoomResponse represents a channel in API responses.
type RoomResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        string        `json:"kind"`
	Creator     *UserResponse `json:"creator,omitempty"`
	Topic       string        `json:"topic,omitempty"`
	Description string        `json:"description,omitempty"`
	ReadOnly    bool          `json:"read_only"`
	IsDefault   bool          `json:"is_default"`
	CreatedAt   string        `json:"created_at,omitempty"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
}

// AttachmentResponse represents a message attachment in API responses.
type AttachmentResponse struct {
	Title          string `json:"title,omitempty"`
	Type           string `json:"type,omitempty"`
	Description    string `json:"description,omitempty"`
	Link           string `json:"link,omitempty"`
	LinkIsDownload bool   `json:"link_is_download"`
	ImageURL       string `json:"image_url,omitempty"`
	ImageType      string `json:"image_type,omitempty"`
	ImageSizeBytes *int64 `json:"image_size_bytes,omitempty"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID          string               `json:"id"`
	RoomID      string               `json:"room_id"`
	Body        string               `json:"body"`
	Timestamp   string               `json:"timestamp,omitempty"`
	Author      *UserResponse        `json:"author,omitempty"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
}

// AuthResponse represents the facade login response body.
type AuthResponse struct {
	Status   string `json:"status"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func userResponse(u rocket.UserRef) *UserResponse {
	if u == (rocket.UserRef{}) {
		return nil
	}
	return &UserResponse{ID: u.ID, Username: u.Username, Name: u.Name}
}

func roomResponse(room rocket.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		Kind:        room.Kind,
		Creator:     userResponse(room.Creator),
		Topic:       room.Topic,
		Description: room.Description,
		ReadOnly:    room.ReadOnly,
		IsDefault:   room.IsDefault,
		CreatedAt:   formatInstant(room.CreatedAt),
		UpdatedAt:   formatInstant(room.UpdatedAt),
	}
}

func roomResponses(rooms []rocket.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, roomResponse(room))
	}
	return out
}

func messageResponse(msg rocket.Message) MessageResponse {
	resp := MessageResponse{
		ID:        msg.ID,
		RoomID:    msg.RoomID,
		Body:      msg.Body,
		Timestamp: formatInstant(msg.Timestamp),
		Author:    userResponse(msg.Author),
	}
	for _, a := range msg.Attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			Title:          a.Title,
			Type:           a.Type,
			Description:    a.Description,
			Link:           a.Link,
			LinkIsDownload: a.LinkIsDownload,
			ImageURL:       a.ImageURL,
			ImageType:      a.ImageType,
			ImageSizeBytes: a.ImageSizeBytes,
		})
	}
	return resp
}

func messageResponses(msgs []rocket.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, messageResponse(msg))
	}
	return out
}
