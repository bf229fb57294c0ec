package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/siwes-platform/logbook-service/internal/services"
	"github.com/siwes-platform/logbook-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	mediaDir      string
}

func NewReportHandler(reportService services.ReportService, mediaDir string, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		mediaDir:      mediaDir,
	}
}

// GenerateReport renders the logbook window for a student as a downloadable
// document. Supervisor-only.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	studentID := ParseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	format := c.Query("format")

	generated, err := h.reportService.Generate(c.Request.Context(), user, studentID, startDate, endDate, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", generated.FileName))
	c.Data(http.StatusOK, generated.ContentType, generated.Content)
}

// UploadReport stores a final-report file and its metadata row.
func (h *ReportHandler) UploadReport(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: "file is required",
		})
		return
	}

	storedName := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	storedPath := filepath.Join(h.mediaDir, "reports", storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		h.logger.LogError(err, "failed to save uploaded report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to store uploaded file",
		})
		return
	}

	finalReport, err := h.reportService.Upload(c.Request.Context(), user, title, storedPath)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, finalReport)
}

// ListReports returns uploaded final reports, scoped to the requester.
func (h *ReportHandler) ListReports(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	reports, err := h.reportService.ListUploads(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}
