package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docdexio/docdex/internal/pkg/errcode"
	"github.com/docdexio/docdex/internal/pkg/response"
	"github.com/docdexio/docdex/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatStartRequest struct {
	AssetID string `json:"asset_id"`
}

func (h *ChatHandler) Start(c *gin.Context) {
	var req chatStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	token, err := h.chat.Start(c.Request.Context(), req.AssetID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"chat_thread_id": token})
}

type chatMessageRequest struct {
	ChatThreadID string `json:"chat_thread_id"`
	Message      string `json:"message"`
}

func (h *ChatHandler) Message(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.ChatThreadID == "" || req.Message == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "chat_thread_id and message are required")
		return
	}
	reply, err := h.chat.Send(c.Request.Context(), req.ChatThreadID, req.Message)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"response": reply})
}

func (h *ChatHandler) History(c *gin.Context) {
	token := c.Query("chat_thread_id")
	if token == "" {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "chat_thread_id is required")
		return
	}
	history, err := h.chat.History(token)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"history": history})
}
