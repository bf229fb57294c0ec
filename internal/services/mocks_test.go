package services

import (
	"context"
	"time"

	"github.com/siwes-platform/logbook-service/internal/models"
	"github.com/siwes-platform/logbook-service/internal/repositories"
	"gorm.io/gorm"
)

// memStore is the in-memory backing state shared by the mock repositories.
type memStore struct {
	users    []*models.User
	profiles []*models.StudentProfile
	entries  []*models.LogEntry
	reports  []*models.FinalReport
	nextID   uint

	// failProfileCreate forces StudentProfile.Create to fail, used to
	// exercise registration rollback.
	failProfileCreate bool

	// duplicateSupervisorRows makes ListBySupervisor return each entry
	// twice, simulating a fanned-out join.
	duplicateSupervisorRows bool
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) clone() *memStore {
	c := *s
	c.users = append([]*models.User(nil), s.users...)
	c.profiles = append([]*models.StudentProfile(nil), s.profiles...)
	c.entries = append([]*models.LogEntry(nil), s.entries...)
	c.reports = append([]*models.FinalReport(nil), s.reports...)
	return &c
}

type mockRepository struct {
	store *memStore
}

func newMockRepository() *mockRepository {
	return &mockRepository{store: &memStore{}}
}

func (m *mockRepository) User() repositories.UserRepository                     { return &mockUserRepo{m.store} }
func (m *mockRepository) StudentProfile() repositories.StudentProfileRepository { return &mockProfileRepo{m.store} }
func (m *mockRepository) LogEntry() repositories.LogEntryRepository             { return &mockLogRepo{m.store} }
func (m *mockRepository) FinalReport() repositories.FinalReportRepository       { return &mockReportRepo{m.store} }

// Transaction runs fn against a cloned store and only keeps the changes when
// fn succeeds, mirroring commit/rollback.
func (m *mockRepository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	clone := m.store.clone()
	if err := fn(&mockRepository{store: clone}); err != nil {
		return err
	}
	*m.store = *clone
	return nil
}

// ===== users =====

type mockUserRepo struct{ store *memStore }

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.store.id()
	user.CreatedAt = time.Now()
	r.store.users = append(r.store.users, user)
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range r.store.users {
		if u.ID == id {
			r.attachProfile(u)
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			r.attachProfile(u)
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	var result []*models.User
	for _, u := range r.store.users {
		if u.Role == role {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *mockUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	users, _ := r.GetByRole(ctx, role)
	return int64(len(users)), nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *mockUserRepo) attachProfile(u *models.User) {
	if u.Role != models.RoleStudent {
		return
	}
	for _, p := range r.store.profiles {
		if p.UserID == u.ID {
			u.Profile = p
			return
		}
	}
}

// ===== student profiles =====

type mockProfileRepo struct{ store *memStore }

func (r *mockProfileRepo) Create(ctx context.Context, profile *models.StudentProfile) error {
	if r.store.failProfileCreate {
		return gorm.ErrInvalidData
	}
	profile.ID = r.store.id()
	r.store.profiles = append(r.store.profiles, profile)
	return nil
}

func (r *mockProfileRepo) GetByID(ctx context.Context, id uint) (*models.StudentProfile, error) {
	for _, p := range r.store.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockProfileRepo) GetByUserID(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	for _, p := range r.store.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockProfileRepo) List(ctx context.Context) ([]*models.StudentProfile, error) {
	return append([]*models.StudentProfile(nil), r.store.profiles...), nil
}

func (r *mockProfileRepo) ListBySupervisor(ctx context.Context, supervisorID uint) ([]*models.StudentProfile, error) {
	var result []*models.StudentProfile
	for _, p := range r.store.profiles {
		if p.AssignedSupervisorID != nil && *p.AssignedSupervisorID == supervisorID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *mockProfileRepo) CountBySupervisor(ctx context.Context, supervisorID uint) (int64, error) {
	profiles, _ := r.ListBySupervisor(ctx, supervisorID)
	return int64(len(profiles)), nil
}

func (r *mockProfileRepo) UpdateSupervisor(ctx context.Context, profileID uint, supervisorID *uint) error {
	for _, p := range r.store.profiles {
		if p.ID == profileID {
			p.AssignedSupervisorID = supervisorID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ===== log entries =====

type mockLogRepo struct{ store *memStore }

func (r *mockLogRepo) Create(ctx context.Context, entry *models.LogEntry) error {
	entry.ID = r.store.id()
	entry.CreatedAt = time.Now()
	r.store.entries = append(r.store.entries, entry)
	return nil
}

func (r *mockLogRepo) GetByID(ctx context.Context, id uint) (*models.LogEntry, error) {
	for _, e := range r.store.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockLogRepo) Update(ctx context.Context, entry *models.LogEntry) error {
	for i, e := range r.store.entries {
		if e.ID == entry.ID {
			r.store.entries[i] = entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *mockLogRepo) UpdateReview(ctx context.Context, id uint, status models.ReviewStatus, feedback *string) error {
	entry, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	entry.Status = status
	if feedback != nil {
		entry.SupervisorFeedback = feedback
	}
	return nil
}

func (r *mockLogRepo) ListByStudent(ctx context.Context, studentID uint) ([]*models.LogEntry, error) {
	var result []*models.LogEntry
	for _, e := range r.store.entries {
		if e.StudentID == studentID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *mockLogRepo) ListBySupervisor(ctx context.Context, supervisorID uint) ([]*models.LogEntry, error) {
	var result []*models.LogEntry
	for _, e := range r.store.entries {
		for _, p := range r.store.profiles {
			if p.UserID == e.StudentID && p.AssignedSupervisorID != nil && *p.AssignedSupervisorID == supervisorID {
				result = append(result, e)
				if r.store.duplicateSupervisorRows {
					result = append(result, e)
				}
			}
		}
	}
	return result, nil
}

func (r *mockLogRepo) ListByStudentBetween(ctx context.Context, studentID uint, start, end time.Time) ([]*models.LogEntry, error) {
	var result []*models.LogEntry
	for _, e := range r.store.entries {
		d := time.Time(e.Date)
		if e.StudentID == studentID && !d.Before(start) && !d.After(end) {
			result = append(result, e)
		}
	}
	// ascending by date
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if time.Time(result[j].Date).Before(time.Time(result[i].Date)) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (r *mockLogRepo) CountPendingBySupervisor(ctx context.Context, supervisorID uint) (int64, error) {
	entries, _ := r.ListBySupervisor(ctx, supervisorID)
	var count int64
	for _, e := range entries {
		if e.Status == models.StatusPending {
			count++
		}
	}
	return count, nil
}

// ===== final reports =====

type mockReportRepo struct{ store *memStore }

func (r *mockReportRepo) Create(ctx context.Context, report *models.FinalReport) error {
	report.ID = r.store.id()
	report.UploadedAt = time.Now()
	r.store.reports = append(r.store.reports, report)
	return nil
}

func (r *mockReportRepo) List(ctx context.Context) ([]*models.FinalReport, error) {
	return append([]*models.FinalReport(nil), r.store.reports...), nil
}

func (r *mockReportRepo) ListByStudent(ctx context.Context, studentID uint) ([]*models.FinalReport, error) {
	var result []*models.FinalReport
	for _, rep := range r.store.reports {
		if rep.StudentID == studentID {
			result = append(result, rep)
		}
	}
	return result, nil
}
