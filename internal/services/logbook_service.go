package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siwes-platform/logbook-service/internal/events"
	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/repositories"
	"github.com/siwes-platform/logbook-service/internal/validator"
	"gorm.io/datatypes"
)

type CreateLogRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeIn     string `json:"time_in" validate:"required,time_of_day"`
	TimeOut    string `json:"time_out" validate:"required,time_of_day"`
	Activities string `json:"activities" validate:"required"`
}

// UpdateLogRequest is a partial student edit; omitted fields keep their
// current value.
type UpdateLogRequest struct {
	Date       *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TimeIn     *string `json:"time_in" validate:"omitempty,time_of_day"`
	TimeOut    *string `json:"time_out" validate:"omitempty,time_of_day"`
	Activities *string `json:"activities" validate:"omitempty"`
}

type ReviewLogRequest struct {
	Status             models.ReviewStatus `json:"status" validate:"required,review_status"`
	SupervisorFeedback *string             `json:"supervisor_feedback"`
}

// LogbookService owns the review state machine and the per-role visibility
// rules for log entries. The acting identity is always passed in explicitly.
type LogbookService interface {
	Create(ctx context.Context, actor *models.User, req *CreateLogRequest) (*models.LogEntry, error)
	List(ctx context.Context, actor *models.User) ([]*models.LogEntry, error)
	Get(ctx context.Context, actor *models.User, id uint) (*models.LogEntry, error)
	Update(ctx context.Context, actor *models.User, id uint, req *UpdateLogRequest) (*models.LogEntry, error)
	Review(ctx context.Context, actor *models.User, id uint, req *ReviewLogRequest) (*models.LogEntry, error)
}

type logbookService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewLogbookService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
) LogbookService {
	return &logbookService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Create opens a new entry. Every entry starts at pending regardless of the
// request body; only students create entries, owned by themselves.
func (s *logbookService) Create(ctx context.Context, actor *models.User, req *CreateLogRequest) (*models.LogEntry, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrOnlyStudentsWrite
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}
	if errs := s.validator.Business().ValidateLogTimes(req.TimeIn, req.TimeOut); len(errs) > 0 {
		return nil, errs
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, validator.ValidationErrors{*NewValidationError("date", "must be a valid date (YYYY-MM-DD)", req.Date)}
	}

	entry := &models.LogEntry{
		StudentID:  actor.ID,
		Date:       datatypes.Date(date),
		TimeIn:     req.TimeIn,
		TimeOut:    req.TimeOut,
		Activities: req.Activities,
		Status:     models.StatusPending,
	}

	if err := s.repo.LogEntry().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create log entry: %w", err)
	}

	s.logger.Info("log entry created", "log_id", entry.ID, "student_id", actor.ID)
	s.publishLogEvent(ctx, events.EventLogCreated, events.LogCreatedEvent{
		LogID:        entry.ID,
		StudentID:    actor.ID,
		SupervisorID: s.supervisorOf(ctx, actor.ID),
		Date:         req.Date,
		CreatedAt:    entry.CreatedAt,
	})

	return entry, nil
}

// List applies the visibility filter: students see their own entries,
// supervisors see their assigned students' entries, everyone else sees
// nothing. An unknown role is an empty result, not an error.
func (s *logbookService) List(ctx context.Context, actor *models.User) ([]*models.LogEntry, error) {
	switch actor.Role {
	case models.RoleStudent:
		return s.repo.LogEntry().ListByStudent(ctx, actor.ID)

	case models.RoleSupervisor:
		entries, err := s.repo.LogEntry().ListBySupervisor(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return dedupeByID(entries), nil

	default:
		return []*models.LogEntry{}, nil
	}
}

// Get returns a single entry, subject to the same visibility rules as List.
func (s *logbookService) Get(ctx context.Context, actor *models.User, id uint) (*models.LogEntry, error) {
	entry, err := s.repo.LogEntry().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to load log entry: %w", err)
	}

	if err := s.canSee(ctx, actor, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Update is the student edit transition: content fields may change, and the
// status unconditionally drops back to pending so the entry is re-reviewed.
// Feedback is left untouched.
func (s *logbookService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateLogRequest) (*models.LogEntry, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrOnlyStudentsWrite
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	entry, err := s.repo.LogEntry().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to load log entry: %w", err)
	}
	if entry.StudentID != actor.ID {
		return nil, NewPermissionError(actor.ID, id, "log_entry", "update", "not the owning student")
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, validator.ValidationErrors{*NewValidationError("date", "must be a valid date (YYYY-MM-DD)", *req.Date)}
		}
		entry.Date = datatypes.Date(date)
	}
	if req.TimeIn != nil {
		entry.TimeIn = *req.TimeIn
	}
	if req.TimeOut != nil {
		entry.TimeOut = *req.TimeOut
	}
	if errs := s.validator.Business().ValidateLogTimes(entry.TimeIn, entry.TimeOut); len(errs) > 0 {
		return nil, errs
	}
	if req.Activities != nil {
		entry.Activities = *req.Activities
	}

	previous := entry.Status
	entry.Status = models.StatusPending

	if err := s.repo.LogEntry().Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update log entry: %w", err)
	}

	s.logger.Info("log entry resubmitted", "log_id", entry.ID, "previous_status", previous)
	s.publishLogEvent(ctx, events.EventLogResubmitted, events.LogResubmittedEvent{
		LogID:          entry.ID,
		StudentID:      entry.StudentID,
		SupervisorID:   s.supervisorOf(ctx, entry.StudentID),
		PreviousStatus: previous,
	})

	return entry, nil
}

// Review is the supervisor transition: approved or rejected, with optional
// feedback, on an entry belonging to one of the supervisor's assigned
// students. Any other actor is rejected before any state changes.
func (s *logbookService) Review(ctx context.Context, actor *models.User, id uint, req *ReviewLogRequest) (*models.LogEntry, error) {
	if actor.Role != models.RoleSupervisor {
		return nil, ErrReviewNotAllowed
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	entry, err := s.repo.LogEntry().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to load log entry: %w", err)
	}

	supervisorID := s.supervisorOf(ctx, entry.StudentID)
	if supervisorID == nil || *supervisorID != actor.ID {
		return nil, ErrNotAssignedToYou
	}

	if err := s.repo.LogEntry().UpdateReview(ctx, entry.ID, req.Status, req.SupervisorFeedback); err != nil {
		return nil, fmt.Errorf("failed to apply review: %w", err)
	}

	entry.Status = req.Status
	if req.SupervisorFeedback != nil {
		entry.SupervisorFeedback = req.SupervisorFeedback
	}

	s.logger.Info("log entry reviewed",
		"log_id", entry.ID,
		"supervisor_id", actor.ID,
		"status", req.Status)
	s.publishLogEvent(ctx, events.EventLogReviewed, events.LogReviewedEvent{
		LogID:        entry.ID,
		StudentID:    entry.StudentID,
		SupervisorID: actor.ID,
		Status:       req.Status,
		HasFeedback:  req.SupervisorFeedback != nil,
	})

	return entry, nil
}

// publishLogEvent wraps the payload in the event envelope and publishes it.
// Publishing is best effort; a broker failure never fails the request.
func (s *logbookService) publishLogEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	event := events.NewLogbookEvent(eventType, payload)
	if err := s.publisher.PublishLogbookEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", eventType, "error", err)
	}
}

func (s *logbookService) canSee(ctx context.Context, actor *models.User, entry *models.LogEntry) error {
	switch actor.Role {
	case models.RoleStudent:
		if entry.StudentID == actor.ID {
			return nil
		}
	case models.RoleSupervisor:
		supervisorID := s.supervisorOf(ctx, entry.StudentID)
		if supervisorID != nil && *supervisorID == actor.ID {
			return nil
		}
	}
	return NewPermissionError(actor.ID, entry.ID, "log_entry", "read", "outside visibility scope")
}

// supervisorOf resolves the assigned supervisor of a student, nil when the
// student has no profile or no assignment.
func (s *logbookService) supervisorOf(ctx context.Context, studentID uint) *uint {
	profile, err := s.repo.StudentProfile().GetByUserID(ctx, studentID)
	if err != nil {
		return nil
	}
	return profile.AssignedSupervisorID
}

// dedupeByID drops repeated rows the supervisor join may have produced,
// keeping first occurrence order.
func dedupeByID(entries []*models.LogEntry) []*models.LogEntry {
	seen := make(map[uint]struct{}, len(entries))
	result := make([]*models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		result = append(result, e)
	}
	return result
}
