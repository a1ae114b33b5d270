package handlers

import (
	"net/http"

	notificationRepo "kree/database/repository/notification"
	"kree/middleware"

	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the persisted notification inbox.
type NotificationHandler struct {
	Repo notificationRepo.NotificationRepository
}

func NewNotificationHandler(repo notificationRepo.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Repo: repo}
}

// List returns the actor's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	page, limit := paginationParams(c)

	notifications, total, err := h.Repo.ListByRecipient(actor.ID, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, notifications, newPagination(page, limit, total))
}

// MarkRead flips one notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	if err := h.Repo.MarkRead(c.Param("id"), actor.ID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Notification marked as read")
}

// MarkAllRead flips every notification to read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	if err := h.Repo.MarkAllRead(actor.ID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "All notifications marked as read")
}
