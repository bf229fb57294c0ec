package postgres

import (
	"context"
	"fmt"

	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/repositories"
	"gorm.io/gorm"
)

type StudentProfilePostgreSQL struct {
	db *gorm.DB
}

func NewStudentProfilePostgreSQL(db *gorm.DB) repositories.StudentProfileRepository {
	return &StudentProfilePostgreSQL{db: db}
}

func (s *StudentProfilePostgreSQL) Create(ctx context.Context, profile *models.StudentProfile) error {
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

func (s *StudentProfilePostgreSQL) GetByID(ctx context.Context, id uint) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("AssignedSupervisor").
		First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *StudentProfilePostgreSQL) GetByUserID(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("AssignedSupervisor").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *StudentProfilePostgreSQL) List(ctx context.Context) ([]*models.StudentProfile, error) {
	var profiles []*models.StudentProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("AssignedSupervisor").
		Order("matric_number ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list student profiles: %w", err)
	}
	return profiles, nil
}

func (s *StudentProfilePostgreSQL) ListBySupervisor(ctx context.Context, supervisorID uint) ([]*models.StudentProfile, error) {
	var profiles []*models.StudentProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("assigned_supervisor_id = ?", supervisorID).
		Order("matric_number ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list supervised profiles: %w", err)
	}
	return profiles, nil
}

func (s *StudentProfilePostgreSQL) CountBySupervisor(ctx context.Context, supervisorID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("assigned_supervisor_id = ?", supervisorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count supervised profiles: %w", err)
	}
	return count, nil
}

func (s *StudentProfilePostgreSQL) UpdateSupervisor(ctx context.Context, profileID uint, supervisorID *uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("id = ?", profileID).
		Update("assigned_supervisor_id", supervisorID)
	if result.Error != nil {
		return fmt.Errorf("failed to update assigned supervisor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
