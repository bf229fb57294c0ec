package postgres

import (
	"context"
	"fmt"

	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/repositories"
	"gorm.io/gorm"
)

type FinalReportPostgreSQL struct {
	db *gorm.DB
}

func NewFinalReportPostgreSQL(db *gorm.DB) repositories.FinalReportRepository {
	return &FinalReportPostgreSQL{db: db}
}

func (f *FinalReportPostgreSQL) Create(ctx context.Context, report *models.FinalReport) error {
	if err := f.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create final report: %w", err)
	}
	return nil
}

func (f *FinalReportPostgreSQL) List(ctx context.Context) ([]*models.FinalReport, error) {
	var reports []*models.FinalReport
	err := f.db.WithContext(ctx).
		Preload("Student").
		Order("uploaded_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list final reports: %w", err)
	}
	return reports, nil
}

func (f *FinalReportPostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]*models.FinalReport, error) {
	var reports []*models.FinalReport
	err := f.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("uploaded_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list final reports: %w", err)
	}
	return reports, nil
}
