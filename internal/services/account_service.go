package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siwes-platform/logbook-service/internal/auth"
	"github.com/siwes-platform/logbook-service/internal/cache"
	"github.com/siwes-platform/logbook-service/internal/events"
	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/repositories"
	"github.com/siwes-platform/logbook-service/internal/validator"
)

const statsCacheTTL = time.Minute

// TokenSettings carries what the account service needs to mint JWTs.
type TokenSettings struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type RegisterRequest struct {
	Email        string          `json:"email" validate:"required,email"`
	Username     string          `json:"username" validate:"required,min=2,max=150"`
	Password     string          `json:"password" validate:"required,min=8"`
	FirstName    string          `json:"first_name" validate:"required,max=100"`
	LastName     string          `json:"last_name" validate:"max=100"`
	Role         models.UserRole `json:"role" validate:"required,user_role"`
	PhoneNumber  *string         `json:"phone_number" validate:"omitempty,max=20"`
	MatricNumber string          `json:"matric_number" validate:"omitempty,max=20"`
	Department   string          `json:"department" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type UserResponse struct {
	ID          uint            `json:"id"`
	Username    string          `json:"username"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	Role        models.UserRole `json:"role"`
	PhoneNumber *string         `json:"phone_number,omitempty"`
	Matric      *string         `json:"matric,omitempty"`
}

type AssignSupervisorRequest struct {
	SupervisorID *uint `json:"assigned_supervisor"`
}

type DashboardStats struct {
	TotalStudents    *int64 `json:"total_students,omitempty"`
	TotalSupervisors *int64 `json:"total_supervisors,omitempty"`
	StudentCount     *int64 `json:"student_count,omitempty"`
	PendingReviews   *int64 `json:"pending_reviews,omitempty"`
}

type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*TokenPair, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Profile(ctx context.Context, userID uint) (*UserResponse, error)
	ListSupervisors(ctx context.Context) ([]*UserResponse, error)
	ListStudents(ctx context.Context, actor *models.User) ([]*models.StudentProfile, error)
	AssignSupervisor(ctx context.Context, actor *models.User, profileID uint, req *AssignSupervisorRequest) (*models.StudentProfile, error)
	GetDashboardStats(ctx context.Context, actor *models.User) (*DashboardStats, error)
}

type accountService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     cache.CacheService
	tokens    TokenSettings
}

func NewAccountService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	tokens TokenSettings,
) AccountService {
	return &accountService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheService,
		tokens:    tokens,
	}
}

// Register creates the user and, for students, the student profile in a
// single transaction. A failure anywhere leaves no partial user behind.
func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}
	if errs := s.validator.Business().ValidateRegistration(req.Role, req.MatricNumber); len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
	}

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			return err
		}
		if user.Role == models.RoleStudent {
			profile := &models.StudentProfile{
				UserID:       user.ID,
				MatricNumber: req.MatricNumber,
				Department:   req.Department,
			}
			if err := tx.StudentProfile().Create(ctx, profile); err != nil {
				return err
			}
			user.Profile = profile
		}
		return nil
	})
	if err != nil {
		s.logger.Error("registration rolled back", "email", req.Email, "error", err)
		return nil, ErrRegistrationFailed
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	if user.Role == models.RoleStudent {
		event := events.NewLogbookEvent(events.EventStudentRegistered, events.StudentRegisteredEvent{
			UserID:       user.ID,
			MatricNumber: req.MatricNumber,
			Department:   req.Department,
		})
		if err := s.publisher.PublishLogbookEvent(ctx, event); err != nil {
			s.logger.Warn("failed to publish registration event", "user_id", user.ID, "error", err)
		}
	}

	return buildUserResponse(user), nil
}

func (s *accountService) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *accountService) Refresh(ctx context.Context, req *RefreshRequest) (*TokenPair, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	claims, err := auth.ParseToken(s.tokens.Secret, req.RefreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.User().GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *accountService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := auth.NewToken(s.tokens.Secret, s.tokens.AccessTTL, user, auth.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := auth.NewToken(s.tokens.Secret, s.tokens.RefreshTTL, user, auth.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *accountService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *accountService) Profile(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildUserResponse(user), nil
}

func (s *accountService) ListSupervisors(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.repo.User().GetByRole(ctx, models.RoleSupervisor)
	if err != nil {
		return nil, err
	}
	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, buildUserResponse(u))
	}
	return responses, nil
}

// ListStudents is the admin student-management listing.
func (s *accountService) ListStudents(ctx context.Context, actor *models.User) ([]*models.StudentProfile, error) {
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ID, 0, "student_profile", "list", "admin role required")
	}
	return s.repo.StudentProfile().List(ctx)
}

// AssignSupervisor links a student profile to a supervisor. The target user
// must carry the supervisor role; a nil SupervisorID clears the assignment.
func (s *accountService) AssignSupervisor(ctx context.Context, actor *models.User, profileID uint, req *AssignSupervisorRequest) (*models.StudentProfile, error) {
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.ID, profileID, "student_profile", "assign_supervisor", "admin role required")
	}

	if req.SupervisorID != nil {
		supervisor, err := s.repo.User().GetByID(ctx, *req.SupervisorID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to load supervisor: %w", err)
		}
		if supervisor.Role != models.RoleSupervisor {
			return nil, ErrNotASupervisor
		}
	}

	if err := s.repo.StudentProfile().UpdateSupervisor(ctx, profileID, req.SupervisorID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to assign supervisor: %w", err)
	}

	updated, err := s.repo.StudentProfile().GetByID(ctx, profileID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}

	if req.SupervisorID != nil {
		event := events.NewLogbookEvent(events.EventSupervisorAssigned, events.SupervisorAssignedEvent{
			ProfileID:    updated.ID,
			StudentID:    updated.UserID,
			SupervisorID: *req.SupervisorID,
		})
		if err := s.publisher.PublishLogbookEvent(ctx, event); err != nil {
			s.logger.Warn("failed to publish assignment event", "profile_id", profileID, "error", err)
		}
	}

	return updated, nil
}

// GetDashboardStats returns role-dependent counters, cached briefly in Redis
// when a cache is configured.
func (s *accountService) GetDashboardStats(ctx context.Context, actor *models.User) (*DashboardStats, error) {
	key := fmt.Sprintf("dashboard:stats:%s:%d", actor.Role, actor.ID)

	var cached DashboardStats
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	stats := &DashboardStats{}
	switch actor.Role {
	case models.RoleAdmin:
		students, err := s.repo.User().CountByRole(ctx, models.RoleStudent)
		if err != nil {
			return nil, err
		}
		supervisors, err := s.repo.User().CountByRole(ctx, models.RoleSupervisor)
		if err != nil {
			return nil, err
		}
		stats.TotalStudents = &students
		stats.TotalSupervisors = &supervisors

	case models.RoleSupervisor:
		count, err := s.repo.StudentProfile().CountBySupervisor(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		pending, err := s.repo.LogEntry().CountPendingBySupervisor(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		stats.StudentCount = &count
		stats.PendingReviews = &pending
	}

	if err := s.cache.Set(ctx, key, stats, statsCacheTTL); err != nil {
		s.logger.Debug("stats cache write failed", "key", key, "error", err)
	}

	return stats, nil
}

func buildUserResponse(u *models.User) *UserResponse {
	resp := &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
	}
	if u.Role == models.RoleStudent && u.Profile != nil {
		matric := u.Profile.MatricNumber
		resp.Matric = &matric
	}
	return resp
}
