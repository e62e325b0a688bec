package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

func newAttendanceFixture(t *testing.T) (AttendanceService, *mockRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewAttendanceService(repo, publisher, logger, validator.New())
	return svc, repo
}

func TestAttendanceService_SaveSheet(t *testing.T) {
	ctx := context.Background()

	t.Run("Second_Save_Replaces_First", func(t *testing.T) {
		svc, repo := newAttendanceFixture(t)

		first := &validator.AttendanceSaveRequest{
			Class: "JSS2",
			Date:  "2026-03-10",
			Term:  "Second Term",
			Records: map[string]models.AttendanceStatus{
				"student-1": models.AttendancePresent,
				"student-2": models.AttendanceLate,
			},
		}
		if _, err := svc.SaveSheet(ctx, teacherSession(), first); err != nil {
			t.Fatalf("first save failed: %v", err)
		}

		second := &validator.AttendanceSaveRequest{
			Class: "JSS2",
			Date:  "2026-03-10",
			Term:  "Second Term",
			Records: map[string]models.AttendanceStatus{
				"student-2": models.AttendancePresent,
			},
		}
		if _, err := svc.SaveSheet(ctx, teacherSession(), second); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		if len(repo.attendance.sheets) != 1 {
			t.Fatalf("expected 1 sheet for the key, got %d", len(repo.attendance.sheets))
		}
		stored := repo.attendance.sheets["JSS2_2026-03-10"]
		records := stored.Records.Data()
		if len(records) != 1 {
			t.Fatalf("expected replaced map with 1 entry, got %d", len(records))
		}
		if _, ok := records["student-1"]; ok {
			t.Error("student-1 should be gone after full replace")
		}
		if records["student-2"] != models.AttendancePresent {
			t.Errorf("student-2 = %v, want present", records["student-2"])
		}
	})

	t.Run("Different_Dates_Are_Separate_Sheets", func(t *testing.T) {
		svc, repo := newAttendanceFixture(t)

		for _, date := range []string{"2026-03-10", "2026-03-11"} {
			req := &validator.AttendanceSaveRequest{
				Class: "JSS2",
				Date:  date,
				Records: map[string]models.AttendanceStatus{
					"student-1": models.AttendancePresent,
				},
			}
			if _, err := svc.SaveSheet(ctx, teacherSession(), req); err != nil {
				t.Fatalf("save for %s failed: %v", date, err)
			}
		}
		if len(repo.attendance.sheets) != 2 {
			t.Errorf("expected 2 sheets, got %d", len(repo.attendance.sheets))
		}
	})

	t.Run("Records_Marked_By_Actor", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t)

		sheet, err := svc.SaveSheet(ctx, teacherSession(), &validator.AttendanceSaveRequest{
			Class: "JSS2",
			Date:  "2026-03-12",
			Records: map[string]models.AttendanceStatus{
				"student-1": models.AttendanceAbsent,
			},
		})
		if err != nil {
			t.Fatalf("SaveSheet failed: %v", err)
		}
		if sheet.MarkedBy != "Ms. Adeyemi" {
			t.Errorf("MarkedBy = %q, want actor display name", sheet.MarkedBy)
		}
	})

	t.Run("Bad_Date_Rejected", func(t *testing.T) {
		svc, repo := newAttendanceFixture(t)

		_, err := svc.SaveSheet(ctx, teacherSession(), &validator.AttendanceSaveRequest{
			Class: "JSS2",
			Date:  "10/03/2026",
			Records: map[string]models.AttendanceStatus{
				"student-1": models.AttendancePresent,
			},
		})
		if !IsValidationError(err) {
			t.Errorf("expected validation error for bad date, got %v", err)
		}
		if len(repo.attendance.sheets) != 0 {
			t.Error("bad date must not write a sheet")
		}
	})

	t.Run("Student_Role_Denied", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t)

		actor := &models.SessionIdentity{UserID: "student-1", RealRole: models.RoleStudent}
		_, err := svc.SaveSheet(ctx, actor, &validator.AttendanceSaveRequest{
			Class: "JSS2",
			Date:  "2026-03-10",
			Records: map[string]models.AttendanceStatus{
				"student-1": models.AttendancePresent,
			},
		})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestAttendanceService_GetSheet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAttendanceFixture(t)

	if _, err := svc.SaveSheet(ctx, teacherSession(), &validator.AttendanceSaveRequest{
		Class: "JSS3",
		Date:  "2026-03-10",
		Records: map[string]models.AttendanceStatus{
			"student-9": models.AttendanceLate,
		},
	}); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	t.Run("Found", func(t *testing.T) {
		sheet, err := svc.GetSheet(ctx, teacherSession(), "JSS3", "2026-03-10")
		if err != nil {
			t.Fatalf("GetSheet failed: %v", err)
		}
		if sheet.Records.Data()["student-9"] != models.AttendanceLate {
			t.Errorf("unexpected records: %v", sheet.Records.Data())
		}
	})

	t.Run("Missing_Is_NotFound", func(t *testing.T) {
		_, err := svc.GetSheet(ctx, teacherSession(), "JSS3", "2026-03-11")
		if !IsNotFoundError(err) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})
}
