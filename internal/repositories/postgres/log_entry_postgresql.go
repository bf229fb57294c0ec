package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogEntryPostgreSQL struct {
	db *gorm.DB
}

func NewLogEntryPostgreSQL(db *gorm.DB) repositories.LogEntryRepository {
	return &LogEntryPostgreSQL{db: db}
}

func (l *LogEntryPostgreSQL) Create(ctx context.Context, entry *models.LogEntry) error {
	if err := l.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}
	return nil
}

func (l *LogEntryPostgreSQL) GetByID(ctx context.Context, id uint) (*models.LogEntry, error) {
	var entry models.LogEntry
	err := l.db.WithContext(ctx).
		Preload("Student").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (l *LogEntryPostgreSQL) Update(ctx context.Context, entry *models.LogEntry) error {
	if err := l.db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("failed to update log entry: %w", err)
	}
	return nil
}

func (l *LogEntryPostgreSQL) UpdateReview(ctx context.Context, id uint, status models.ReviewStatus, feedback *string) error {
	updates := map[string]interface{}{"status": status}
	if feedback != nil {
		updates["supervisor_feedback"] = *feedback
	}

	result := l.db.WithContext(ctx).
		Model(&models.LogEntry{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (l *LogEntryPostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]*models.LogEntry, error) {
	var entries []*models.LogEntry
	err := l.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	return entries, nil
}

// ListBySupervisor joins through student_profiles; DISTINCT keeps the join
// from repeating an entry when profile rows fan out.
func (l *LogEntryPostgreSQL) ListBySupervisor(ctx context.Context, supervisorID uint) ([]*models.LogEntry, error) {
	var entries []*models.LogEntry
	err := l.db.WithContext(ctx).
		Distinct("log_entries.*").
		Joins("JOIN student_profiles ON student_profiles.user_id = log_entries.student_id").
		Where("student_profiles.assigned_supervisor_id = ?", supervisorID).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list supervised log entries: %w", err)
	}
	return entries, nil
}

func (l *LogEntryPostgreSQL) ListByStudentBetween(ctx context.Context, studentID uint, start, end time.Time) ([]*models.LogEntry, error) {
	var entries []*models.LogEntry
	err := l.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("date BETWEEN ? AND ?", datatypes.Date(start), datatypes.Date(end)).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries in range: %w", err)
	}
	return entries, nil
}

func (l *LogEntryPostgreSQL) CountPendingBySupervisor(ctx context.Context, supervisorID uint) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.LogEntry{}).
		Joins("JOIN student_profiles ON student_profiles.user_id = log_entries.student_id").
		Where("student_profiles.assigned_supervisor_id = ?", supervisorID).
		Where("log_entries.status = ?", models.StatusPending).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending reviews: %w", err)
	}
	return count, nil
}
