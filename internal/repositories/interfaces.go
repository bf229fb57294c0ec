package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/siwes-platform/logbook-service/internal/models"
	"gorm.io/gorm"
)

// Repository bundles the per-entity repositories. Transaction runs fn against
// a repository bound to a single database transaction; registration uses it
// so the user and student profile commit or roll back together.
type Repository interface {
	User() UserRepository
	StudentProfile() StudentProfileRepository
	LogEntry() LogEntryRepository
	FinalReport() FinalReportRepository

	Transaction(ctx context.Context, fn func(Repository) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type StudentProfileRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetByID(ctx context.Context, id uint) (*models.StudentProfile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.StudentProfile, error)
	List(ctx context.Context) ([]*models.StudentProfile, error)
	ListBySupervisor(ctx context.Context, supervisorID uint) ([]*models.StudentProfile, error)
	CountBySupervisor(ctx context.Context, supervisorID uint) (int64, error)
	UpdateSupervisor(ctx context.Context, profileID uint, supervisorID *uint) error
}

type LogEntryRepository interface {
	Create(ctx context.Context, entry *models.LogEntry) error
	GetByID(ctx context.Context, id uint) (*models.LogEntry, error)
	Update(ctx context.Context, entry *models.LogEntry) error

	// UpdateReview touches status and, when feedback is non-nil, the
	// supervisor feedback column. Nothing else.
	UpdateReview(ctx context.Context, id uint, status models.ReviewStatus, feedback *string) error

	// ListByStudent returns the student's entries, newest date first.
	ListByStudent(ctx context.Context, studentID uint) ([]*models.LogEntry, error)

	// ListBySupervisor returns entries of all students assigned to the
	// supervisor, newest date first. The profile join must not fan a
	// single entry out into repeated rows.
	ListBySupervisor(ctx context.Context, supervisorID uint) ([]*models.LogEntry, error)

	// ListByStudentBetween returns the student's entries with
	// start <= date <= end, oldest date first (report order).
	ListByStudentBetween(ctx context.Context, studentID uint, start, end time.Time) ([]*models.LogEntry, error)

	CountPendingBySupervisor(ctx context.Context, supervisorID uint) (int64, error)
}

type FinalReportRepository interface {
	Create(ctx context.Context, report *models.FinalReport) error
	List(ctx context.Context) ([]*models.FinalReport, error)
	ListByStudent(ctx context.Context, studentID uint) ([]*models.FinalReport, error)
}

// IsNotFoundError reports whether err came back from a lookup that matched
// no row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
