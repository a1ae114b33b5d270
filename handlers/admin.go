package handlers

import (
	"net/http"

	bookingRepo "kree/database/repository/booking"
	requestRepo "kree/database/repository/request"
	userRepo "kree/database/repository/user"
	"kree/models"
	"kree/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	UserService user.UserService
	UserRepo    userRepo.UserRepository
	RequestRepo requestRepo.RequestRepository
	BookingRepo bookingRepo.BookingRepository
}

func NewAdminHandler(us user.UserService, users userRepo.UserRepository, requests requestRepo.RequestRepository, bookings bookingRepo.BookingRepository) *AdminHandler {
	return &AdminHandler{
		UserService: us,
		UserRepo:    users,
		RequestRepo: requests,
		BookingRepo: bookings,
	}
}

// ListUsers returns accounts filtered by role, sensitive fields excluded.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := paginationParams(c)
	role := models.Role(c.Query("role"))

	users, total, err := h.UserService.ListByRole(role, page, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, users, newPagination(page, limit, total))
}

// Stats returns platform-wide counters for the admin dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats := gin.H{}

	count := func(name string, fn func() (int64, error)) {
		n, err := fn()
		if err != nil {
			zap.L().Warn("failed to compute stat", zap.String("stat", name), zap.Error(err))
			return
		}
		stats[name] = n
	}

	count("customers", func() (int64, error) { return h.UserRepo.CountByRole(models.RoleCustomer) })
	count("agencies", func() (int64, error) { return h.UserRepo.CountByRole(models.RoleAgency) })
	count("requests", func() (int64, error) { return h.RequestRepo.CountByStatus("") })
	count("openRequests", func() (int64, error) { return h.RequestRepo.CountByStatus(models.RequestStatusPending) })
	count("bookings", func() (int64, error) { return h.BookingRepo.CountByStatus("") })
	count("deliveredBookings", func() (int64, error) { return h.BookingRepo.CountByStatus(models.BookingStatusDelivered) })
	count("cancelledBookings", func() (int64, error) { return h.BookingRepo.CountByStatus(models.BookingStatusCancelled) })

	respondData(c, http.StatusOK, stats)
}
