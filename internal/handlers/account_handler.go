package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siwes-platform/logbook-service/internal/services"
	"github.com/siwes-platform/logbook-service/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService, logger utils.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
	}
}

// ListSupervisors lists all supervisor accounts.
func (h *AccountHandler) ListSupervisors(c *gin.Context) {
	if _, ok := h.CurrentUser(c); !ok {
		return
	}

	supervisors, err := h.accountService.ListSupervisors(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, supervisors)
}

// ListStudents is the admin student-management listing.
func (h *AccountHandler) ListStudents(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	profiles, err := h.accountService.ListStudents(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// AssignSupervisor links a student profile to a supervisor (admin only).
func (h *AccountHandler) AssignSupervisor(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	profileID := ParseIDParam(c, "id")
	if profileID == 0 {
		return
	}

	var req services.AssignSupervisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.accountService.AssignSupervisor(c.Request.Context(), user, profileID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DashboardStats returns role-dependent counters.
func (h *AccountHandler) DashboardStats(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	stats, err := h.accountService.GetDashboardStats(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
