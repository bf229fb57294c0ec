package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siwes-platform/logbook-service/internal/services"
	"github.com/siwes-platform/logbook-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	accountService services.AccountService
}

func NewAuthHandler(accountService services.AccountService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
	}
}

// Register creates a new account; students get their profile in the same
// transaction.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Token exchanges email and password for an access/refresh token pair.
func (h *AuthHandler) Token(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	pair, err := h.accountService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// RefreshToken exchanges a refresh token for a fresh pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	pair, err := h.accountService.Refresh(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Profile returns the authenticated user, with matric number for students.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	profile, err := h.accountService.Profile(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
