package handlers

import (
	"net/http"

	bookingRepo "kree/database/repository/booking"
	"kree/middleware"
	"kree/models"
	"kree/services/booking"
	"kree/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves booking lifecycle endpoints.
type BookingHandler struct {
	BookingService booking.BookingService
}

func NewBookingHandler(bs booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingService: bs}
}

// Create accepts a proposal into a booking for the authenticated customer.
func (h *BookingHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var input booking.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if input.ProposalID == "" {
		utils.JSONError(c, http.StatusBadRequest, "proposalId is required")
		return
	}

	b, err := h.BookingService.CreateFromProposal(c.Request.Context(), actor.ID, input)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusCreated, b)
}

// Get returns one booking.
func (h *BookingHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	b, err := h.BookingService.Get(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, b)
}

// ListMine returns the actor's bookings by role.
func (h *BookingHandler) ListMine(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	page, limit := paginationParams(c)
	filter := bookingRepo.BookingFilter{Page: page, Limit: limit}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []string{status}
	}

	var (
		bookings []models.Booking
		total    int64
		err      error
	)
	if actor.Role == models.RoleAgency {
		bookings, total, err = h.BookingService.ListForAgency(actor.ID, filter)
	} else {
		bookings, total, err = h.BookingService.ListForCustomer(actor.ID, filter)
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, bookings, newPagination(page, limit, total))
}

// Active returns the customer's current in-flight booking, or null when
// none exists.
func (h *BookingHandler) Active(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	b, err := h.BookingService.ActiveForCustomer(actor.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, b)
}

// ListAll returns every booking (admin view).
func (h *BookingHandler) ListAll(c *gin.Context) {
	page, limit := paginationParams(c)
	filter := bookingRepo.BookingFilter{Page: page, Limit: limit}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []string{status}
	}

	bookings, total, err := h.BookingService.ListAll(filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, bookings, newPagination(page, limit, total))
}

// Confirm moves a booking to confirmed (agency).
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.BookingService.Confirm)
}

// Pickup stamps the actual pickup (agency).
func (h *BookingHandler) Pickup(c *gin.Context) {
	h.transition(c, h.BookingService.MarkPickedUp)
}

// Return stamps the actual return (agency).
func (h *BookingHandler) Return(c *gin.Context) {
	h.transition(c, h.BookingService.MarkReturned)
}

// Complete closes the booking as delivered (agency or admin).
func (h *BookingHandler) Complete(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	b, err := h.BookingService.Complete(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, b)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(agencyID, id string) (*models.Booking, error)) {
	actor := middleware.CurrentUser(c)

	b, err := fn(actor.ID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, b)
}

// Cancel aborts a booking before pickup.
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	b, err := h.BookingService.Cancel(actor, c.Param("id"), input.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, b)
}
