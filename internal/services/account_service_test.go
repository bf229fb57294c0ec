package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/siwes-platform/logbook-service/internal/auth"
	"github.com/siwes-platform/logbook-service/internal/cache"
	"github.com/siwes-platform/logbook-service/internal/events"
	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountFixture() (AccountService, *mockRepository, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	service := NewAccountService(repo, logger, validator.New(), publisher, cache.NewNoopCache(), TokenSettings{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	return service, repo, publisher
}

func studentRegisterRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:        "alice@example.com",
		Username:     "alice",
		Password:     "s3cretpass",
		FirstName:    "Alice",
		LastName:     "Okoro",
		Role:         models.RoleStudent,
		MatricNumber: "ENG/2021/001",
		Department:   "Computer Engineering",
	}
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("student gets user and linked profile atomically", func(t *testing.T) {
		service, repo, publisher := newAccountFixture()

		resp, err := service.Register(ctx, studentRegisterRequest())
		require.NoError(t, err)
		require.NotNil(t, resp.Matric)
		assert.Equal(t, "ENG/2021/001", *resp.Matric)

		assert.Len(t, repo.store.users, 1)
		require.Len(t, repo.store.profiles, 1)
		assert.Equal(t, repo.store.users[0].ID, repo.store.profiles[0].UserID)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventStudentRegistered, published[0].Type)
	})

	t.Run("student without matric number is rejected before any write", func(t *testing.T) {
		service, repo, _ := newAccountFixture()

		req := studentRegisterRequest()
		req.MatricNumber = ""
		_, err := service.Register(ctx, req)
		assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		assert.Empty(t, repo.store.users)
		assert.Empty(t, repo.store.profiles)
	})

	t.Run("supervisor needs no matric number and no profile", func(t *testing.T) {
		service, repo, _ := newAccountFixture()

		req := studentRegisterRequest()
		req.Role = models.RoleSupervisor
		req.MatricNumber = ""
		resp, err := service.Register(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, resp.Matric)
		assert.Empty(t, repo.store.profiles)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		service, _, _ := newAccountFixture()

		_, err := service.Register(ctx, studentRegisterRequest())
		require.NoError(t, err)

		req := studentRegisterRequest()
		req.Username = "alice2"
		req.MatricNumber = "ENG/2021/002"
		_, err = service.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("profile failure leaves no orphan user", func(t *testing.T) {
		service, repo, _ := newAccountFixture()
		repo.store.failProfileCreate = true

		_, err := service.Register(ctx, studentRegisterRequest())
		assert.ErrorIs(t, err, ErrRegistrationFailed)
		assert.Empty(t, repo.store.users)
		assert.Empty(t, repo.store.profiles)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		service, _, _ := newAccountFixture()

		req := studentRegisterRequest()
		req.Role = models.UserRole("superuser")
		_, err := service.Register(ctx, req)
		assert.True(t, IsValidation(err), "expected validation error, got %v", err)
	})
}

func TestAccountService_LoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newAccountFixture()

	_, err := service.Register(ctx, studentRegisterRequest())
	require.NoError(t, err)

	t.Run("valid credentials yield an access and refresh pair", func(t *testing.T) {
		pair, err := service.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "s3cretpass"})
		require.NoError(t, err)

		claims, err := auth.ParseToken("test-secret", pair.Access)
		require.NoError(t, err)
		assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
		assert.Equal(t, models.RoleStudent, claims.Role)

		refreshed, err := service.Refresh(ctx, &RefreshRequest{RefreshToken: pair.Refresh})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.Access)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, &LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("access token rejected on refresh endpoint", func(t *testing.T) {
		pair, err := service.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "s3cretpass"})
		require.NoError(t, err)

		_, err = service.Refresh(ctx, &RefreshRequest{RefreshToken: pair.Access})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestAccountService_AssignSupervisor(t *testing.T) {
	ctx := context.Background()
	service, repo, publisher := newAccountFixture()

	admin := addUser(repo, models.RoleAdmin, "admin")
	supervisor := addUser(repo, models.RoleSupervisor, "sup")
	student := addStudent(repo, "alice", nil)
	profile, err := repo.StudentProfile().GetByUserID(ctx, student.ID)
	require.NoError(t, err)

	t.Run("non-admin is refused", func(t *testing.T) {
		_, err := service.AssignSupervisor(ctx, supervisor, profile.ID, &AssignSupervisorRequest{SupervisorID: &supervisor.ID})
		assert.True(t, IsUnauthorized(err), "expected permission error, got %v", err)
	})

	t.Run("target must hold the supervisor role", func(t *testing.T) {
		otherStudent := addStudent(repo, "bob", nil)
		_, err := service.AssignSupervisor(ctx, admin, profile.ID, &AssignSupervisorRequest{SupervisorID: &otherStudent.ID})
		assert.ErrorIs(t, err, ErrNotASupervisor)
	})

	t.Run("admin assigns and clears", func(t *testing.T) {
		publisher.ClearEvents()

		updated, err := service.AssignSupervisor(ctx, admin, profile.ID, &AssignSupervisorRequest{SupervisorID: &supervisor.ID})
		require.NoError(t, err)
		require.NotNil(t, updated.AssignedSupervisorID)
		assert.Equal(t, supervisor.ID, *updated.AssignedSupervisorID)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventSupervisorAssigned, published[0].Type)

		cleared, err := service.AssignSupervisor(ctx, admin, profile.ID, &AssignSupervisorRequest{SupervisorID: nil})
		require.NoError(t, err)
		assert.Nil(t, cleared.AssignedSupervisorID)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := service.AssignSupervisor(ctx, admin, 9999, &AssignSupervisorRequest{SupervisorID: &supervisor.ID})
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestAccountService_DashboardStats(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newAccountFixture()

	admin := addUser(repo, models.RoleAdmin, "admin")
	supervisor := addUser(repo, models.RoleSupervisor, "sup")
	alice := addStudent(repo, "alice", &supervisor.ID)
	addStudent(repo, "bob", nil)
	addEntry(repo, alice.ID, "2024-03-01", models.StatusPending)
	addEntry(repo, alice.ID, "2024-03-02", models.StatusApproved)

	t.Run("admin counters", func(t *testing.T) {
		stats, err := service.GetDashboardStats(ctx, admin)
		require.NoError(t, err)
		require.NotNil(t, stats.TotalStudents)
		require.NotNil(t, stats.TotalSupervisors)
		assert.EqualValues(t, 2, *stats.TotalStudents)
		assert.EqualValues(t, 1, *stats.TotalSupervisors)
		assert.Nil(t, stats.PendingReviews)
	})

	t.Run("supervisor counters", func(t *testing.T) {
		stats, err := service.GetDashboardStats(ctx, supervisor)
		require.NoError(t, err)
		require.NotNil(t, stats.StudentCount)
		require.NotNil(t, stats.PendingReviews)
		assert.EqualValues(t, 1, *stats.StudentCount)
		assert.EqualValues(t, 1, *stats.PendingReviews)
	})
}
