package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/siwes-platform/logbook-service/internal/models"
)

func newReportFixture() (ReportService, *mockRepository) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	return NewReportService(repo, logger), repo
}

func TestReportService_Generate(t *testing.T) {
	service, repo := newReportFixture()
	ctx := context.Background()

	supervisor := addUser(repo, models.RoleSupervisor, "sup")
	student := addStudent(repo, "alice", &supervisor.ID)

	// Inserted out of order to check the report window sorts ascending.
	addEntry(repo, student.ID, "2024-03-05", models.StatusApproved)
	addEntry(repo, student.ID, "2024-03-01", models.StatusPending)
	addEntry(repo, student.ID, "2024-04-20", models.StatusApproved)

	t.Run("students cannot generate reports", func(t *testing.T) {
		_, err := service.Generate(ctx, student, student.ID, "2024-03-01", "2024-03-31", "pdf")
		if !errors.Is(err, ErrReportNotAllowed) {
			t.Errorf("Expected ErrReportNotAllowed, got %v", err)
		}
	})

	t.Run("unknown student id", func(t *testing.T) {
		_, err := service.Generate(ctx, supervisor, 9999, "2024-03-01", "2024-03-31", "pdf")
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("Expected ErrStudentNotFound, got %v", err)
		}
	})

	t.Run("non-student target id", func(t *testing.T) {
		_, err := service.Generate(ctx, supervisor, supervisor.ID, "2024-03-01", "2024-03-31", "pdf")
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("Expected ErrStudentNotFound, got %v", err)
		}
	})

	t.Run("malformed dates", func(t *testing.T) {
		for _, pair := range [][2]string{
			{"01-03-2024", "2024-03-31"},
			{"2024-03-01", "soon"},
		} {
			_, err := service.Generate(ctx, supervisor, student.ID, pair[0], pair[1], "pdf")
			if !IsValidation(err) {
				t.Errorf("Expected validation error for %v, got %v", pair, err)
			}
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := service.Generate(ctx, supervisor, student.ID, "2024-03-31", "2024-03-01", "pdf")
		if !IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := service.Generate(ctx, supervisor, student.ID, "2024-03-01", "2024-03-31", "docx")
		if !IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("pdf for a window with entries", func(t *testing.T) {
		generated, err := service.Generate(ctx, supervisor, student.ID, "2024-03-01", "2024-03-31", "pdf")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if generated.FileName != "SIWES_Report_alice_2024-03-01_to_2024-03-31.pdf" {
			t.Errorf("Unexpected file name %q", generated.FileName)
		}
		if generated.ContentType != "application/pdf" {
			t.Errorf("Unexpected content type %q", generated.ContentType)
		}
		if !bytes.HasPrefix(generated.Content, []byte("%PDF")) {
			t.Errorf("Content does not look like a PDF")
		}
	})

	t.Run("empty format defaults to pdf", func(t *testing.T) {
		generated, err := service.Generate(ctx, supervisor, student.ID, "2024-03-01", "2024-03-31", "")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if generated.ContentType != "application/pdf" {
			t.Errorf("Unexpected content type %q", generated.ContentType)
		}
	})

	t.Run("empty window still yields a document", func(t *testing.T) {
		generated, err := service.Generate(ctx, supervisor, student.ID, "2020-01-01", "2020-01-31", "pdf")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(generated.Content) == 0 {
			t.Error("Expected non-empty document for an empty window")
		}
	})

	t.Run("xlsx rendering", func(t *testing.T) {
		generated, err := service.Generate(ctx, supervisor, student.ID, "2024-03-01", "2024-04-30", "xlsx")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if generated.FileName != "SIWES_Report_alice_2024-03-01_to_2024-04-30.xlsx" {
			t.Errorf("Unexpected file name %q", generated.FileName)
		}
		if len(generated.Content) == 0 {
			t.Error("Expected non-empty workbook")
		}
	})
}

func TestBuildReportRows(t *testing.T) {
	repo := newMockRepository()
	supervisor := addUser(repo, models.RoleSupervisor, "sup")
	student := addStudent(repo, "alice", &supervisor.ID)
	entry := addEntry(repo, student.ID, "2024-03-01", models.StatusApproved)
	entry.TimeIn = "08:30"
	entry.TimeOut = "16:45"
	entry.Activities = "Calibrated sensors"

	rows := buildReportRows([]*models.LogEntry{entry})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Date != "2024-03-01" {
		t.Errorf("Unexpected date %q", row.Date)
	}
	if row.Time != "08:30 - 16:45" {
		t.Errorf("Unexpected time %q", row.Time)
	}
	if row.Status != "Approved" {
		t.Errorf("Unexpected status %q", row.Status)
	}
	if row.Activity != "Calibrated sensors" {
		t.Errorf("Unexpected activity %q", row.Activity)
	}
}

func TestReportService_Uploads(t *testing.T) {
	service, repo := newReportFixture()
	ctx := context.Background()

	supervisor := addUser(repo, models.RoleSupervisor, "sup")
	alice := addStudent(repo, "alice", &supervisor.ID)
	bob := addStudent(repo, "bob", &supervisor.ID)

	t.Run("missing title", func(t *testing.T) {
		_, err := service.Upload(ctx, alice, "", "media/reports/x.pdf")
		if !IsValidation(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("upload and list", func(t *testing.T) {
		if _, err := service.Upload(ctx, alice, "Final Report", "media/reports/a.pdf"); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}
		if _, err := service.Upload(ctx, bob, "Final Report", "media/reports/b.pdf"); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}

		own, err := service.ListUploads(ctx, alice)
		if err != nil {
			t.Fatalf("ListUploads failed: %v", err)
		}
		if len(own) != 1 || own[0].StudentID != alice.ID {
			t.Errorf("Student listing leaked foreign uploads: %+v", own)
		}

		all, err := service.ListUploads(ctx, supervisor)
		if err != nil {
			t.Fatalf("ListUploads failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("Expected 2 uploads, got %d", len(all))
		}
	})
}
