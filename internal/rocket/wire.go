package rocket

import (
	"time"

	"github.com/pkg/errors"
)

// Wire DTOs mirror the upstream JSON exactly. Every optional field is a
// pointer: an absent key leaves the translated field at its type default,
// while a present-but-malformed value fails the decode or the translation.

type wireUser struct {
	ID       *string `json:"_id"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
}

type wireRoom struct {
	ID          *string   `json:"_id"`
	Name        *string   `json:"name"`
	Type        *string   `json:"t"`
	Creator     *wireUser `json:"u"`
	Topic       *string   `json:"topic"`
	Description *string   `json:"description"`
	ReadOnly    *bool     `json:"ro"`
	Default     *bool     `json:"default"`
	CreatedAt   *string   `json:"ts"`
	UpdatedAt   *string   `json:"_updatedAt"`
}

type wireAttachment struct {
	Title             *string `json:"title"`
	Type              *string `json:"type"`
	Description       *string `json:"description"`
	TitleLink         *string `json:"title_link"`
	TitleLinkDownload *bool   `json:"title_link_download"`
	ImageURL          *string `json:"image_url"`
	ImageType         *string `json:"image_type"`
	ImageSize         *int64  `json:"image_size"`
}

type wireMessage struct {
	ID          *string          `json:"_id"`
	RoomID      *string          `json:"rid"`
	Body        *string          `json:"msg"`
	Timestamp   *string          `json:"ts"`
	Author      *wireUser        `json:"u"`
	Attachments []wireAttachment `json:"attachments"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

// parseInstant parses an upstream ISO-8601 timestamp. Absent (nil) yields the
// zero time; a present value that does not parse is an error, never silently
// dropped.
func parseInstant(s *string) (time.Time, error) {
	if s == nil {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "malformed timestamp %q", *s)
	}
	return t, nil
}

func (w wireUser) toUserRef() UserRef {
	return UserRef{
		ID:       deref(w.ID),
		Username: deref(w.Username),
		Name:     deref(w.Name),
	}
}

func (w wireRoom) toRoom() (Room, error) {
	createdAt, err := parseInstant(w.CreatedAt)
	if err != nil {
		return Room{}, err
	}
	updatedAt, err := parseInstant(w.UpdatedAt)
	if err != nil {
		return Room{}, err
	}

	room := Room{
		ID:          deref(w.ID),
		Name:        deref(w.Name),
		Kind:        deref(w.Type),
		Topic:       deref(w.Topic),
		Description: deref(w.Description),
		ReadOnly:    derefBool(w.ReadOnly),
		IsDefault:   derefBool(w.Default),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if w.Creator != nil {
		room.Creator = w.Creator.toUserRef()
	}
	return room, nil
}

func (w wireMessage) toMessage() (Message, error) {
	ts, err := parseInstant(w.Timestamp)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		ID:        deref(w.ID),
		RoomID:    deref(w.RoomID),
		Body:      deref(w.Body),
		Timestamp: ts,
	}
	if w.Author != nil {
		msg.Author = w.Author.toUserRef()
	}
	if w.Attachments != nil {
		msg.Attachments = make([]Attachment, 0, len(w.Attachments))
		for _, a := range w.Attachments {
			msg.Attachments = append(msg.Attachments, Attachment{
				Title:          deref(a.Title),
				Type:           deref(a.Type),
				Description:    deref(a.Description),
				Link:           deref(a.TitleLink),
				LinkIsDownload: derefBool(a.TitleLinkDownload),
				ImageURL:       deref(a.ImageURL),
				ImageType:      deref(a.ImageType),
				ImageSizeBytes: a.ImageSize,
			})
		}
	}
	return msg, nil
}

func translateMessages(wires []wireMessage) ([]Message, error) {
	out := make([]Message, 0, len(wires))
	for _, w := range wires {
		msg, err := w.toMessage()
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}
