package rocket

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// DefaultMessageLimit is the message count used when the caller does not
// supply one.
const DefaultMessageLimit = 50

type wireMessageEnvelope struct {
	Message *wireMessage `json:"message"`
}

type wireMessagesEnvelope struct {
	Messages *[]wireMessage `json:"messages"`
}

type wireUploadEnvelope struct {
	Success *bool        `json:"success"`
	Message *wireMessage `json:"message"`
}

// SendMessage posts a plain text message to a room.
func (c *Client) SendMessage(ctx context.Context, roomID, text string) (Message, error) {
	if err := c.ensureSession(ctx); err != nil {
		return Message{}, err
	}

	body := map[string]any{
		"roomId": roomID,
		"text":   text,
	}

	var payload wireMessageEnvelope
	if err := c.postJSON(ctx, endpointChatPostMessage, body, KindMessageSend, &payload); err != nil {
		return Message{}, err
	}
	if payload.Message == nil {
		return Message{}, newError(KindMessageSend, nil, "response missing message")
	}

	msg, err := payload.Message.toMessage()
	if err != nil {
		return Message{}, newError(KindMessageSend, err, "translate message: %v", err)
	}

	if c.log != nil {
		c.log.Debug().Str("room_id", roomID).Str("message_id", msg.ID).Msg("message sent")
	}
	return msg, nil
}

// SendMessageWithAttachments posts a message with an uploaded file. With no
// files it behaves exactly like SendMessage. Otherwise it switches to the
// multipart upload endpoint; the upstream API accepts a single file per
// request, so only the first file is uploaded and the rest are dropped.
func (c *Client) SendMessageWithAttachments(ctx context.Context, roomID, text string, files []File) (Message, error) {
	if len(files) == 0 {
		return c.SendMessage(ctx, roomID, text)
	}

	if err := c.ensureSession(ctx); err != nil {
		return Message{}, err
	}

	body, contentType, err := buildUploadBody(text, roomID, files[0])
	if err != nil {
		return Message{}, newError(KindMessageUpload, err, "build upload body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint(endpointRoomsUpload+"/"+url.PathEscape(roomID)), body)
	if err != nil {
		return Message{}, newError(KindMessageUpload, err, "build upload request")
	}
	req.Header.Set("Content-Type", contentType)

	var payload wireUploadEnvelope
	if err := c.do(req, KindMessageUpload, &payload); err != nil {
		return Message{}, err
	}
	if payload.Success == nil || !*payload.Success {
		return Message{}, newError(KindMessageUpload, nil, "upstream reported upload failure")
	}
	if payload.Message == nil {
		return Message{}, newError(KindMessageUpload, nil, "response missing message")
	}

	msg, err := payload.Message.toMessage()
	if err != nil {
		return Message{}, newError(KindMessageUpload, err, "translate message: %v", err)
	}

	if c.log != nil {
		c.log.Debug().Str("room_id", roomID).Str("message_id", msg.ID).Str("file", files[0].Name).Msg("file uploaded")
	}
	return msg, nil
}

// GetMessages returns up to limit messages from a room, in the order upstream
// returns them. A non-positive limit falls back to DefaultMessageLimit.
func (c *Client) GetMessages(ctx context.Context, roomID string, limit int) ([]Message, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	query := url.Values{
		"roomId": []string{roomID},
		"count":  []string{strconv.Itoa(limit)},
	}

	var payload wireMessagesEnvelope
	if err := c.getJSON(ctx, endpointChannelMessages, query, KindMessageList, &payload); err != nil {
		return nil, err
	}
	if payload.Messages == nil {
		return nil, newError(KindMessageList, nil, "response missing messages")
	}

	msgs, err := translateMessages(*payload.Messages)
	if err != nil {
		return nil, newError(KindMessageList, err, "translate messages: %v", err)
	}
	return msgs, nil
}

// SearchMessages searches message bodies for searchText. An empty roomID
// searches across all rooms; a non-empty one scopes the search to that room.
// One operation, two modes.
func (c *Client) SearchMessages(ctx context.Context, searchText, roomID string) ([]Message, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	query := url.Values{"searchText": []string{searchText}}
	if roomID != "" {
		query.Set("roomId", roomID)
	}

	var payload wireMessagesEnvelope
	if err := c.getJSON(ctx, endpointChatSearch, query, KindSearch, &payload); err != nil {
		return nil, err
	}
	if payload.Messages == nil {
		return nil, newError(KindSearch, nil, "response missing messages")
	}

	msgs, err := translateMessages(*payload.Messages)
	if err != nil {
		return nil, newError(KindSearch, err, "translate messages: %v", err)
	}
	return msgs, nil
}

// buildUploadBody assembles the multipart form the upload endpoint expects:
// msg and roomId text parts plus exactly one file part.
func buildUploadBody(text, roomID string, file File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("msg", text); err != nil {
		return nil, "", errors.Wrap(err, "write msg part")
	}
	if err := w.WriteField("roomId", roomID); err != nil {
		return nil, "", errors.Wrap(err, "write roomId part")
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename=`+strconv.Quote(file.Name))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	}
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", errors.Wrap(err, "create file part")
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return nil, "", errors.Wrapf(err, "copy file %q", file.Name)
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "finalize multipart body")
	}
	return &buf, w.FormDataContentType(), nil
}
