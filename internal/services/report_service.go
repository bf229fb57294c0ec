package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/report"
	"github.com/siwes-platform/logbook-service/internal/repositories"
)

const reportTitle = "SIWES Logbook Report"

// GeneratedReport is the rendered document plus what the HTTP layer needs to
// serve it as an attachment.
type GeneratedReport struct {
	FileName    string
	ContentType string
	Content     []byte
}

type UploadReportRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	FilePath string `json:"-"`
}

type ReportService interface {
	// Generate renders the student's approved-period logbook for the
	// inclusive [start, end] window. Supervisor-only.
	Generate(ctx context.Context, actor *models.User, studentID uint, startDate, endDate, format string) (*GeneratedReport, error)

	Upload(ctx context.Context, actor *models.User, title, filePath string) (*models.FinalReport, error)
	ListUploads(ctx context.Context, actor *models.User) ([]*models.FinalReport, error)
}

type reportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	renderers map[string]report.Renderer
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
		renderers: map[string]report.Renderer{
			"pdf":  report.NewPDFRenderer(),
			"xlsx": report.NewXLSXRenderer(),
		},
	}
}

func (s *reportService) Generate(ctx context.Context, actor *models.User, studentID uint, startDate, endDate, format string) (*GeneratedReport, error) {
	if actor.Role != models.RoleSupervisor {
		return nil, ErrReportNotAllowed
	}

	if format == "" {
		format = "pdf"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, ValidationErrors{*NewValidationError("format", "must be pdf or xlsx", format)}
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, ValidationErrors{*NewValidationError("start_date", "must be a valid date (YYYY-MM-DD)", startDate)}
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, ValidationErrors{*NewValidationError("end_date", "must be a valid date (YYYY-MM-DD)", endDate)}
	}
	if end.Before(start) {
		return nil, ValidationErrors{*NewValidationError("end_date", "must not be before start_date", endDate)}
	}

	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if err != nil || student.Role != models.RoleStudent {
		return nil, ErrStudentNotFound
	}

	matric := ""
	if student.Profile != nil {
		matric = student.Profile.MatricNumber
	}

	entries, err := s.repo.LogEntry().ListByStudentBetween(ctx, studentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load log entries: %w", err)
	}

	doc := &report.Document{
		Title:          reportTitle,
		StudentName:    student.FullName(),
		MatricNumber:   matric,
		SupervisorName: actor.FullName(),
		PeriodStart:    startDate,
		PeriodEnd:      endDate,
		Rows:           buildReportRows(entries),
	}

	content, err := renderer.Render(doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("report generated",
		"student_id", studentID,
		"supervisor_id", actor.ID,
		"rows", len(doc.Rows),
		"format", format)

	return &GeneratedReport{
		FileName: fmt.Sprintf("SIWES_Report_%s_%s_to_%s.%s",
			student.Username, startDate, endDate, renderer.FileExtension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// Upload records a final-report file already saved by the HTTP layer.
func (s *reportService) Upload(ctx context.Context, actor *models.User, title, filePath string) (*models.FinalReport, error) {
	if title == "" {
		return nil, ValidationErrors{*NewValidationError("title", "is required", title)}
	}

	finalReport := &models.FinalReport{
		StudentID: actor.ID,
		Title:     title,
		FilePath:  filePath,
	}
	if err := s.repo.FinalReport().Create(ctx, finalReport); err != nil {
		return nil, fmt.Errorf("failed to store final report: %w", err)
	}
	return finalReport, nil
}

func (s *reportService) ListUploads(ctx context.Context, actor *models.User) ([]*models.FinalReport, error) {
	if actor.Role == models.RoleStudent {
		return s.repo.FinalReport().ListByStudent(ctx, actor.ID)
	}
	return s.repo.FinalReport().List(ctx)
}

func buildReportRows(entries []*models.LogEntry) []report.Row {
	rows := make([]report.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, report.Row{
			Date:     time.Time(e.Date).Format("2006-01-02"),
			Time:     fmt.Sprintf("%s - %s", e.TimeIn, e.TimeOut),
			Activity: e.Activities,
			Status:   titleCase(string(e.Status)),
		})
	}
	return rows
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
