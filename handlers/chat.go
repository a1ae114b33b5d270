package handlers

import (
	"net/http"

	"kree/middleware"
	"kree/services/chat"
	"kree/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the REST side of chat threads. Live delivery happens
// over the websocket gateway.
type ChatHandler struct {
	ChatService chat.ChatService
}

func NewChatHandler(cs chat.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

// Open returns the thread with the other party, creating it if needed.
func (h *ChatHandler) Open(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var input struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == "" {
		utils.JSONError(c, http.StatusBadRequest, "userId is required")
		return
	}

	thread, err := h.ChatService.OpenThread(actor, input.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, thread)
}

// List returns the actor's threads, newest activity first.
func (h *ChatHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	threads, err := h.ChatService.ListThreads(actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, threads)
}

// Get returns one full thread and marks it read for the actor.
func (h *ChatHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	thread, err := h.ChatService.GetThread(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, thread)
}

// PostMessage appends a message over REST; the other party still gets the
// real-time push.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	msg, err := h.ChatService.PostMessageWeb(actor, c.Param("id"), input.Content)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusCreated, msg)
}

// MarkRead flips the other party's messages to read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	if err := h.ChatService.MarkRead(actor, c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Messages marked as read")
}
