package postgres

import (
	"context"

	"github.com/siwes-platform/logbook-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db             *gorm.DB
	users          repositories.UserRepository
	profiles       repositories.StudentProfileRepository
	logEntries     repositories.LogEntryRepository
	finalReports   repositories.FinalReportRepository
}

// NewRepository builds the gorm-backed repository bundle.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:           db,
		users:        NewUserPostgreSQL(db),
		profiles:     NewStudentProfilePostgreSQL(db),
		logEntries:   NewLogEntryPostgreSQL(db),
		finalReports: NewFinalReportPostgreSQL(db),
	}
}

func (r *repository) User() repositories.UserRepository                     { return r.users }
func (r *repository) StudentProfile() repositories.StudentProfileRepository { return r.profiles }
func (r *repository) LogEntry() repositories.LogEntryRepository             { return r.logEntries }
func (r *repository) FinalReport() repositories.FinalReportRepository       { return r.finalReports }

// Transaction runs fn against a repository bound to a single transaction.
// Returning an error from fn rolls everything back.
func (r *repository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
