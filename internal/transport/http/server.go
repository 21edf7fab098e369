package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatgate/chatgate-server/internal/config"
	"github.com/chatgate/chatgate-server/internal/rocket"
)

// NewServer builds the facade HTTP server and wires all routes.
func NewServer(client *rocket.Client, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	handlers := NewChatHandlers(client, logger)
	api := router.Group("/api/chat")
	{
		api.POST("/login", handlers.Login)
		api.GET("/channels", handlers.ListChannels)
		api.POST("/channels", handlers.CreateChannel)
		api.GET("/channels/:roomId", handlers.ChannelInfo)
		api.GET("/channels/:roomId/messages", handlers.ListMessages)
		api.POST("/channels/:roomId/messages", handlers.SendMessage)
		api.POST("/channels/:roomId/files", handlers.UploadFile)
		api.GET("/messages/search", handlers.SearchMessages)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	fmt.Fprint(c.Writer, "ok")
}
