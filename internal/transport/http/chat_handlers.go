package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatgate/chatgate-server/internal/rocket"
)

// ChatHandlers provides the facade HTTP handlers over the upstream client.
type ChatHandlers struct {
	client *rocket.Client
	log    *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance.
func NewChatHandlers(client *rocket.Client, logger *zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{
		client: client,
		log:    logger,
	}
}

// CreateChannelRequest represents the create channel query parameters.
type CreateChannelRequest struct {
	Name        string   `form:"name" binding:"required"`
	Members     []string `form:"members"`
	ReadOnly    bool     `form:"readOnly"`
	Description string   `form:"description"`
}

// SendMessageRequest represents the send message request body.
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Login triggers the upstream credential exchange.
// POST /api/chat/login
func (h *ChatHandlers) Login(c *gin.Context) {
	info, err := h.client.Login(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("upstream login failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.log.Info().Str("user_id", info.UserID).Msg("authenticated with upstream")
	c.JSON(http.StatusOK, AuthResponse{
		Status:   "success",
		UserID:   info.UserID,
		Username: info.Profile.Username,
	})
}

// ListChannels lists public channels.
// GET /api/chat/channels
func (h *ChatHandlers) ListChannels(c *gin.Context) {
	rooms, err := h.client.ListPublicChannels(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err, "failed to list channels")
		return
	}
	c.JSON(http.StatusOK, roomResponses(rooms))
}

// CreateChannel creates a public channel.
// POST /api/chat/channels
func (h *ChatHandlers) CreateChannel(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create channel request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	room, err := h.client.CreateChannel(c.Request.Context(), req.Name, req.Members, req.ReadOnly, req.Description)
	if err != nil {
		h.upstreamError(c, err, "failed to create channel")
		return
	}

	h.log.Info().Str("room_id", room.ID).Str("name", room.Name).Msg("channel created")
	c.JSON(http.StatusCreated, roomResponse(room))
}

// ChannelInfo fetches a single channel.
// GET /api/chat/channels/:roomId
func (h *ChatHandlers) ChannelInfo(c *gin.Context) {
	room, err := h.client.GetChannelInfo(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		h.upstreamError(c, err, "failed to get channel info")
		return
	}
	c.JSON(http.StatusOK, roomResponse(room))
}

// ListMessages lists messages from a channel, newest-first as upstream
// returns them.
// GET /api/chat/channels/:roomId/messages?limit=
func (h *ChatHandlers) ListMessages(c *gin.Context) {
	limit := rocket.DefaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	msgs, err := h.client.GetMessages(c.Request.Context(), c.Param("roomId"), limit)
	if err != nil {
		h.upstreamError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messageResponses(msgs))
}

// SendMessage posts a text message to a channel.
// POST /api/chat/channels/:roomId/messages
func (h *ChatHandlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid send message request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.client.SendMessage(c.Request.Context(), c.Param("roomId"), req.Message)
	if err != nil {
		h.upstreamError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, messageResponse(msg))
}

// UploadFile posts a message with an attached file.
// POST /api/chat/channels/:roomId/files (multipart: msg, file)
func (h *ChatHandlers) UploadFile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.log.Debug().Err(err).Msg("invalid upload request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	headers := form.File["file"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}

	// Upstream accepts one file per upload; forward only the first.
	opened, err := headers[0].Open()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	defer func() { _ = opened.Close() }()

	text := ""
	if vals := form.Value["msg"]; len(vals) > 0 {
		text = vals[0]
	}

	file := rocket.File{
		Name:        headers[0].Filename,
		ContentType: headers[0].Header.Get("Content-Type"),
		Reader:      opened,
	}

	msg, err := h.client.SendMessageWithAttachments(c.Request.Context(), c.Param("roomId"), text, []rocket.File{file})
	if err != nil {
		h.upstreamError(c, err, "failed to upload file")
		return
	}
	c.JSON(http.StatusCreated, messageResponse(msg))
}

// SearchMessages searches messages globally or within one room.
// GET /api/chat/messages/search?text=&roomId=
func (h *ChatHandlers) SearchMessages(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "text is required"})
		return
	}

	msgs, err := h.client.SearchMessages(c.Request.Context(), text, c.Query("roomId"))
	if err != nil {
		h.upstreamError(c, err, "failed to search messages")
		return
	}
	c.JSON(http.StatusOK, messageResponses(msgs))
}

// upstreamError renders a failed client operation. Every upstream error kind,
// including an authentication failure during the guard step, is the upstream
// misbehaving from the caller's point of view.
func (h *ChatHandlers) upstreamError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("kind", string(rocket.ErrKind(err))).Msg(msg)

	status := http.StatusInternalServerError
	if rocket.ErrKind(err) != "" {
		status = http.StatusBadGateway
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
