package handlers

import (
	"net/http"

	"kree/middleware"
	"kree/models"
	"kree/services/user"
	"kree/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	UserService user.UserService
}

func NewAuthHandler(us user.UserService) *AuthHandler {
	return &AuthHandler{UserService: us}
}

// Register creates an account and opens its first session.
func (h *AuthHandler) Register(c *gin.Context) {
	var input user.RegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	session, err := h.UserService.Register(input)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusCreated, session)
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	session, err := h.UserService.Authenticate(input.Email, input.Password)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, session)
}

// Logout revokes the active session.
func (h *AuthHandler) Logout(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := h.UserService.Logout(actor.ID); err != nil {
		respondErr(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Logged out")
}

// Profile returns the authenticated account.
func (h *AuthHandler) Profile(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondData(c, http.StatusOK, actor.PublicProfile())
}

// UpdateProfile amends the authenticated account's profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var updates models.User
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	updated, err := h.UserService.UpdateProfile(actor.ID, &updates)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondData(c, http.StatusOK, updated)
}
