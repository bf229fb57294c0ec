package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siwes-platform/logbook-service/internal/services"
	"github.com/siwes-platform/logbook-service/internal/utils"
)

type LogbookHandler struct {
	BaseHandler
	logbookService services.LogbookService
}

func NewLogbookHandler(logbookService services.LogbookService, logger utils.Logger) *LogbookHandler {
	return &LogbookHandler{
		BaseHandler:    NewBaseHandler(logger),
		logbookService: logbookService,
	}
}

// CreateLog opens a new pending entry owned by the requesting student.
func (h *LogbookHandler) CreateLog(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req services.CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	entry, err := h.logbookService.Create(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListLogs returns the entries visible to the requester's role.
func (h *LogbookHandler) ListLogs(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	entries, err := h.logbookService.List(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetLog returns a single visible entry.
func (h *LogbookHandler) GetLog(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	entry, err := h.logbookService.Get(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateLog is the student edit; the entry's status falls back to pending.
func (h *LogbookHandler) UpdateLog(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	entry, err := h.logbookService.Update(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ReviewLog applies the supervisor approve/reject transition.
func (h *LogbookHandler) ReviewLog(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ReviewLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	entry, err := h.logbookService.Review(c.Request.Context(), user, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
