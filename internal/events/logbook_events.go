package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/siwes-platform/logbook-service/internal/models"
)

// EventType represents different types of logbook events
type EventType string

const (
	// Log entry events
	EventLogCreated     EventType = "log.created"
	EventLogResubmitted EventType = "log.resubmitted"
	EventLogReviewed    EventType = "log.reviewed"

	// Account events
	EventStudentRegistered  EventType = "student.registered"
	EventSupervisorAssigned EventType = "supervisor.assigned"
)

// LogbookEvent is the envelope shared by all published events.
type LogbookEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewLogbookEvent wraps a payload in the standard envelope.
func NewLogbookEvent(eventType EventType, data interface{}) *LogbookEvent {
	return &LogbookEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "logbook-service",
		Version:   "1.0",
		Data:      data,
	}
}

// Log entry event payloads

type LogCreatedEvent struct {
	LogID        uint      `json:"log_id"`
	StudentID    uint      `json:"student_id"`
	SupervisorID *uint     `json:"supervisor_id,omitempty"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

type LogResubmittedEvent struct {
	LogID          uint                `json:"log_id"`
	StudentID      uint                `json:"student_id"`
	SupervisorID   *uint               `json:"supervisor_id,omitempty"`
	PreviousStatus models.ReviewStatus `json:"previous_status"`
}

type LogReviewedEvent struct {
	LogID        uint                `json:"log_id"`
	StudentID    uint                `json:"student_id"`
	SupervisorID uint                `json:"supervisor_id"`
	Status       models.ReviewStatus `json:"status"`
	HasFeedback  bool                `json:"has_feedback"`
}

// Account event payloads

type StudentRegisteredEvent struct {
	UserID       uint   `json:"user_id"`
	MatricNumber string `json:"matric_number"`
	Department   string `json:"department,omitempty"`
}

type SupervisorAssignedEvent struct {
	ProfileID    uint `json:"profile_id"`
	StudentID    uint `json:"student_id"`
	SupervisorID uint `json:"supervisor_id"`
}
