package handlers

import (
	"net/http"

	proposalRepo "kree/database/repository/proposal"
	"kree/middleware"
	"kree/models"
	"kree/services/proposal"
	"kree/utils"

	"github.com/gin-gonic/gin"
)

// ProposalHandler serves proposal endpoints.
type ProposalHandler struct {
	ProposalService proposal.ProposalService
}

func NewProposalHandler(ps proposal.ProposalService) *ProposalHandler {
	return &ProposalHandler{ProposalService: ps}
}

// Create submits a proposal from the authenticated agency.
func (h *ProposalHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var p models.Proposal
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	created, err := h.ProposalService.Create(actor.ID, &p)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusCreated, created)
}

// Get returns one proposal.
func (h *ProposalHandler) Get(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	p, err := h.ProposalService.Get(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

// Update amends a pending proposal.
func (h *ProposalHandler) Update(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var updates models.Proposal
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	p, err := h.ProposalService.Update(actor.ID, c.Param("id"), &updates)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

// Withdraw retracts a pending proposal.
func (h *ProposalHandler) Withdraw(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	p, err := h.ProposalService.Withdraw(actor.ID, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, p)
}

// ListForRequest returns the live proposals on one request.
func (h *ProposalHandler) ListForRequest(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	proposals, err := h.ProposalService.ListForRequest(actor, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, proposals)
}

// ListMine returns the actor's proposals: sent ones for agencies, received
// ones for customers.
func (h *ProposalHandler) ListMine(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	page, limit := paginationParams(c)
	filter := proposalRepo.ProposalFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	var (
		proposals []models.Proposal
		total     int64
		err       error
	)
	if actor.Role == models.RoleAgency {
		proposals, total, err = h.ProposalService.ListForAgency(actor.ID, filter)
	} else {
		proposals, total, err = h.ProposalService.ListForCustomer(actor.ID, filter)
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, proposals, newPagination(page, limit, total))
}

// ListAll returns every proposal (admin view).
func (h *ProposalHandler) ListAll(c *gin.Context) {
	page, limit := paginationParams(c)
	filter := proposalRepo.ProposalFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	proposals, total, err := h.ProposalService.ListAll(filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondList(c, proposals, newPagination(page, limit, total))
}
