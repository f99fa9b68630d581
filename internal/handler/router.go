package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Documents *DocumentHandler
	Chat      *ChatHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/upload", deps.Documents.Upload)
	api.PUT("/update/:asset_id", deps.Documents.Update)
	api.GET("/document/:asset_id", deps.Documents.Get)
	api.DELETE("/document/:asset_id", deps.Documents.Delete)

	api.POST("/api/chat/start", deps.Chat.Start)
	api.POST("/api/chat/message", deps.Chat.Message)
	api.GET("/api/chat/history", deps.Chat.History)
}
