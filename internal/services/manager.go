package services

import (
	"log/slog"

	"github.com/siwes-platform/logbook-service/internal/cache"
	"github.com/siwes-platform/logbook-service/internal/events"
	"github.com/siwes-platform/logbook-service/internal/repositories"
	"github.com/siwes-platform/logbook-service/internal/validator"
)

// ServiceManager hands the handler layer its service dependencies.
type ServiceManager interface {
	Account() AccountService
	Logbook() LogbookService
	Report() ReportService
}

type serviceManager struct {
	account AccountService
	logbook LogbookService
	report  ReportService
}

func NewServiceManager(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	tokens TokenSettings,
) ServiceManager {
	return &serviceManager{
		account: NewAccountService(repo, logger, validator, publisher, cacheService, tokens),
		logbook: NewLogbookService(repo, logger, validator, publisher),
		report:  NewReportService(repo, logger),
	}
}

func (m *serviceManager) Account() AccountService { return m.account }
func (m *serviceManager) Logbook() LogbookService { return m.logbook }
func (m *serviceManager) Report() ReportService   { return m.report }
