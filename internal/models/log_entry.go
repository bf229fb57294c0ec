package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// LogEntry is one day's activity record with a review status. Status and
// supervisor feedback are writable only through the logbook service's review
// transition, never directly by the owning student.
type LogEntry struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StudentID uint           `json:"student_id" gorm:"index;not null"`
	Student   *User          `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Date      datatypes.Date `json:"date" gorm:"not null;index"`

	// Times of day, "HH:MM".
	TimeIn  string `json:"time_in" gorm:"not null;size:5"`
	TimeOut string `json:"time_out" gorm:"not null;size:5"`

	Activities string `json:"activities" gorm:"type:text;not null"`

	Status             ReviewStatus `json:"status" gorm:"not null;size:20;default:pending"`
	SupervisorFeedback *string      `json:"supervisor_feedback" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LogEntry) TableName() string {
	return "log_entries"
}

// FinalReport is an uploaded end-of-internship document. It is created once
// per upload and never touched by the review state machine.
type FinalReport struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"index;not null"`
	Student    *User     `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Title      string    `json:"title" gorm:"not null;size:200"`
	FilePath   string    `json:"file" gorm:"not null;size:500"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (FinalReport) TableName() string {
	return "final_reports"
}
