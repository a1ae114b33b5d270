package handlers

import (
	"net/http"

	requestRepo "kree/database/repository/request"
	"kree/middleware"
	"kree/models"
	"kree/services/request"
	"kree/utils"

	"github.com/gin-gonic/gin"
)

// RequestHandler serves rental request endpoints.
type RequestHandler struct {
	RequestService request.RequestService
}

func NewRequestHandler(rs request.RequestService) *RequestHandler {
	return &RequestHandler{RequestService: rs}
}

// Create posts a new rental request for the authenticated customer.
func (h *RequestHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var req models.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	created, err := h.RequestService.Create(actor.ID, &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusCreated, created)
}

// Get returns one request.
func (h *RequestHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	req, err := h.RequestService.Get(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, req)
}

// ListMine returns the authenticated customer's requests.
func (h *RequestHandler) ListMine(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	page, limit := paginationParams(c)
	filter := requestRepo.RequestFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	requests, total, err := h.RequestService.ListForCustomer(actor.ID, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, requests, newPagination(page, limit, total))
}

// ListOpen returns requests still accepting proposals (agency view).
func (h *RequestHandler) ListOpen(c *gin.Context) {
	page, limit := paginationParams(c)
	filter := requestRepo.RequestFilter{Page: page, Limit: limit}

	requests, total, err := h.RequestService.ListOpen(filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, requests, newPagination(page, limit, total))
}

// ListAll returns every request (admin view).
func (h *RequestHandler) ListAll(c *gin.Context) {
	page, limit := paginationParams(c)
	filter := requestRepo.RequestFilter{
		Customer: c.Query("customer"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	}

	requests, total, err := h.RequestService.ListAll(filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, requests, newPagination(page, limit, total))
}

// Cancel closes a request before any booking was made.
func (h *RequestHandler) Cancel(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	req, err := h.RequestService.Cancel(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, req)
}

// Complete marks a booked request as delivered.
func (h *RequestHandler) Complete(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	req, err := h.RequestService.Complete(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, req)
}
