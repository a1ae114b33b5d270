package handlers

import (
	"net/http"

	"kree/middleware"
	"kree/services/score"
	"kree/utils"

	"github.com/gin-gonic/gin"
)

// ScoreHandler serves loyalty point balances.
type ScoreHandler struct {
	ScoreService score.ScoreService
}

func NewScoreHandler(ss score.ScoreService) *ScoreHandler {
	return &ScoreHandler{ScoreService: ss}
}

// Mine returns the authenticated customer's balance.
func (h *ScoreHandler) Mine(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	s, err := h.ScoreService.GetForCustomer(actor, actor.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, s)
}

// Award adds points to a customer (admin).
func (h *ScoreHandler) Award(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var input struct {
		CustomerID string `json:"customerId"`
		Points     int    `json:"points"`
		Reason     string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.CustomerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "customerId and points are required")
		return
	}

	if err := h.ScoreService.Award(actor.ID, input.CustomerID, input.Points, input.Reason); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Points awarded")
}
