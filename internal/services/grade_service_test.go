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

func teacherSession() *models.SessionIdentity {
	return &models.SessionIdentity{
		UserID:   "teacher-1",
		RealRole: models.RoleTeacher,
		UserName: "Ms. Adeyemi",
	}
}

func newGradeFixture(t *testing.T) (GradeService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewGradeService(repo, publisher, logger, validator.New())
	return svc, repo, publisher
}

func TestLetterForTotal_Thresholds(t *testing.T) {
	tests := []struct {
		total float64
		want  models.LetterGrade
	}{
		{70, models.GradeA},
		{85.5, models.GradeA},
		{69.99, models.GradeB},
		{60, models.GradeB},
		{59.99, models.GradeC},
		{50, models.GradeC},
		{49.99, models.GradeD},
		{45, models.GradeD},
		{44.99, models.GradeF},
		{0, models.GradeF},
	}

	for _, tt := range tests {
		if got := letterForTotal(tt.total); got != tt.want {
			t.Errorf("letterForTotal(%v) = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestParseComponent_CoercesBadInput(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"42.5", 42.5},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"12abc", 0},
	}

	for _, tt := range tests {
		if got := ParseComponent(tt.raw); got != tt.want {
			t.Errorf("ParseComponent(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestGradeService_SaveStructuredGrade(t *testing.T) {
	ctx := context.Background()

	seedStudent := func(repo *mockRepository) {
		repo.user.users["student-1"] = &models.User{
			ID:            "student-1",
			Name:          "Chidi Okafor",
			Email:         "chidi@example.com",
			Role:          models.RoleStudent,
			ClassAssigned: "JSS2",
			Status:        models.UserActive,
		}
	}

	t.Run("Computes_Total_And_Letter", func(t *testing.T) {
		svc, repo, publisher := newGradeFixture(t)
		seedStudent(repo)

		grade, err := svc.SaveStructuredGrade(ctx, teacherSession(), &validator.StructuredGradeRequest{
			StudentID:  "student-1",
			Subject:    "Mathematics",
			Test:       "20",
			Assignment: "15",
			Exam:       "40",
		})
		if err != nil {
			t.Fatalf("SaveStructuredGrade failed: %v", err)
		}
		if grade.Total != 75 {
			t.Errorf("Total = %v, want 75", grade.Total)
		}
		if grade.Grade != models.GradeA {
			t.Errorf("Grade = %v, want A", grade.Grade)
		}
		if grade.ID != "student-1_Mathematics" {
			t.Errorf("ID = %q, want student-1_Mathematics", grade.ID)
		}
		if grade.StudentName != "Chidi Okafor" || grade.Class != "JSS2" {
			t.Errorf("student fields not snapshotted: %+v", grade)
		}
		if len(publisher.GetPublishedEvents()) != 1 {
			t.Errorf("expected 1 published event, got %d", len(publisher.GetPublishedEvents()))
		}
	})

	t.Run("Resave_Replaces_Not_Duplicates", func(t *testing.T) {
		svc, repo, _ := newGradeFixture(t)
		seedStudent(repo)

		req := &validator.StructuredGradeRequest{
			StudentID: "student-1",
			Subject:   "English",
			Test:      "10",
		}
		if _, err := svc.SaveStructuredGrade(ctx, teacherSession(), req); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		req.Test = "30"
		req.Exam = "35"
		if _, err := svc.SaveStructuredGrade(ctx, teacherSession(), req); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		if len(repo.grade.structured) != 1 {
			t.Fatalf("expected 1 stored record, got %d", len(repo.grade.structured))
		}
		stored := repo.grade.structured["student-1_English"]
		if stored.Total != 65 {
			t.Errorf("stored Total = %v, want 65", stored.Total)
		}
		if stored.Grade != models.GradeB {
			t.Errorf("stored Grade = %v, want B", stored.Grade)
		}
	})

	t.Run("All_Blank_Components_Is_NoOp", func(t *testing.T) {
		svc, repo, publisher := newGradeFixture(t)
		seedStudent(repo)

		grade, err := svc.SaveStructuredGrade(ctx, teacherSession(), &validator.StructuredGradeRequest{
			StudentID: "student-1",
			Subject:   "Biology",
		})
		if err != nil {
			t.Fatalf("expected no error for blank submit, got %v", err)
		}
		if grade != nil {
			t.Errorf("expected nil grade for blank submit, got %+v", grade)
		}
		if len(repo.grade.structured) != 0 {
			t.Errorf("expected nothing written, got %d records", len(repo.grade.structured))
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Errorf("expected no events for blank submit")
		}
	})

	t.Run("Bad_Numeric_Input_Coerced_To_Zero", func(t *testing.T) {
		svc, repo, _ := newGradeFixture(t)
		seedStudent(repo)

		grade, err := svc.SaveStructuredGrade(ctx, teacherSession(), &validator.StructuredGradeRequest{
			StudentID:  "student-1",
			Subject:    "Physics",
			Test:       "not-a-number",
			Assignment: "30",
		})
		if err != nil {
			t.Fatalf("SaveStructuredGrade failed: %v", err)
		}
		if grade.Test != 0 {
			t.Errorf("Test = %v, want 0", grade.Test)
		}
		if grade.Total != 30 {
			t.Errorf("Total = %v, want 30", grade.Total)
		}
	})

	t.Run("Student_Role_Denied", func(t *testing.T) {
		svc, repo, _ := newGradeFixture(t)
		seedStudent(repo)

		actor := &models.SessionIdentity{UserID: "student-1", RealRole: models.RoleStudent}
		_, err := svc.SaveStructuredGrade(ctx, actor, &validator.StructuredGradeRequest{
			StudentID: "student-1",
			Subject:   "Mathematics",
			Test:      "50",
		})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("Simulated_Teacher_Can_Grade", func(t *testing.T) {
		svc, repo, _ := newGradeFixture(t)
		seedStudent(repo)

		actor := &models.SessionIdentity{
			UserID:        "admin-1",
			RealRole:      models.RoleAdmin,
			SimulatedID:   "teacher-2",
			SimulatedRole: models.RoleTeacher,
			SimulatedName: "Mr. Bello",
		}
		grade, err := svc.SaveStructuredGrade(ctx, actor, &validator.StructuredGradeRequest{
			StudentID: "student-1",
			Subject:   "Chemistry",
			Exam:      "48",
		})
		if err != nil {
			t.Fatalf("SaveStructuredGrade failed: %v", err)
		}
		if grade.Grade != models.GradeD {
			t.Errorf("Grade = %v, want D", grade.Grade)
		}
	})
}

func TestGradeService_GetStructuredGrade(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newGradeFixture(t)
	repo.user.users["student-1"] = &models.User{
		ID:            "student-1",
		Name:          "Chidi Okafor",
		Role:          models.RoleStudent,
		ClassAssigned: "JSS2",
		Status:        models.UserActive,
	}

	if _, err := svc.SaveStructuredGrade(ctx, teacherSession(), &validator.StructuredGradeRequest{
		StudentID:  "student-1",
		Subject:    "Mathematics",
		Test:       "20",
		Assignment: "15",
		Exam:       "40",
	}); err != nil {
		t.Fatalf("seed save failed: %v", err)
	}

	grade, err := svc.GetStructuredGrade(ctx, teacherSession(), "student-1", "Mathematics")
	if err != nil {
		t.Fatalf("GetStructuredGrade failed: %v", err)
	}
	if grade.Total != 75 || grade.Grade != models.GradeA {
		t.Errorf("grade = %+v, want total 75 grade A", grade)
	}

	if _, err := svc.GetStructuredGrade(ctx, teacherSession(), "student-1", "Physics"); !IsNotFoundError(err) {
		t.Errorf("expected not-found for unrecorded subject, got %v", err)
	}

	student := &models.SessionIdentity{UserID: "student-1", RealRole: models.RoleStudent}
	if _, err := svc.GetStructuredGrade(ctx, student, "student-1", "Mathematics"); !IsPermissionError(err) {
		t.Errorf("expected permission error for a student, got %v", err)
	}
}

func TestGradeService_AppendFreeformGrade(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *mockRepository) {
		repo.user.users["student-2"] = &models.User{
			ID:     "student-2",
			Name:   "Amina Yusuf",
			Email:  "amina@example.com",
			Role:   models.RoleStudent,
			Status: models.UserActive,
		}
	}

	t.Run("Appends_Every_Save", func(t *testing.T) {
		svc, repo, _ := newGradeFixture(t)
		seed(repo)

		req := &validator.FreeformGradeRequest{
			StudentID: "student-2",
			Subject:   "History",
			Score:     "72",
			Feedback:  "Strong essay work",
		}
		if _, err := svc.AppendFreeformGrade(ctx, teacherSession(), req); err != nil {
			t.Fatalf("first append failed: %v", err)
		}
		if _, err := svc.AppendFreeformGrade(ctx, teacherSession(), req); err != nil {
			t.Fatalf("second append failed: %v", err)
		}
		if len(repo.grade.freeform) != 2 {
			t.Errorf("expected 2 freeform records, got %d", len(repo.grade.freeform))
		}
	})

	t.Run("Blank_Feedback_Gets_Sentinel", func(t *testing.T) {
		svc, repo, _ := newGradeFixture(t)
		seed(repo)

		grade, err := svc.AppendFreeformGrade(ctx, teacherSession(), &validator.FreeformGradeRequest{
			StudentID: "student-2",
			Subject:   "History",
			Score:     "55",
			Feedback:  "   ",
		})
		if err != nil {
			t.Fatalf("AppendFreeformGrade failed: %v", err)
		}
		if grade.Feedback != DefaultFeedback {
			t.Errorf("Feedback = %q, want %q", grade.Feedback, DefaultFeedback)
		}
		if grade.TeacherName != "Ms. Adeyemi" {
			t.Errorf("TeacherName = %q, want teacher display name", grade.TeacherName)
		}
	})

	t.Run("Missing_Score_Rejected", func(t *testing.T) {
		svc, repo, _ := newGradeFixture(t)
		seed(repo)

		_, err := svc.AppendFreeformGrade(ctx, teacherSession(), &validator.FreeformGradeRequest{
			StudentID: "student-2",
			Subject:   "History",
			Score:     "   ",
		})
		if !IsValidationError(err) {
			t.Errorf("expected validation error for blank score, got %v", err)
		}
		if len(repo.grade.freeform) != 0 {
			t.Errorf("expected nothing written, got %d records", len(repo.grade.freeform))
		}
	})
}

func TestGradeService_ExportGradebook(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newGradeFixture(t)
	repo.grade.structured["s1_Mathematics"] = &models.StructuredGrade{
		ID:          "s1_Mathematics",
		StudentID:   "s1",
		StudentName: "Chidi Okafor",
		Class:       "JSS2",
		Subject:     "Mathematics",
		Total:       75,
		Grade:       models.GradeA,
	}

	data, err := svc.ExportGradebook(ctx, teacherSession(), "JSS2")
	if err != nil {
		t.Fatalf("ExportGradebook failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected xlsx bytes")
	}
	// xlsx files are zip archives.
	if data[0] != 'P' || data[1] != 'K' {
		t.Errorf("unexpected magic bytes: %x", data[:2])
	}

	student := &models.SessionIdentity{UserID: "s1", RealRole: models.RoleStudent}
	if _, err := svc.ExportGradebook(ctx, student, "JSS2"); !IsPermissionError(err) {
		t.Errorf("expected permission error for student, got %v", err)
	}
}

func TestGradeService_StudentResults(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newGradeFixture(t)

	repo.user.users["student-3"] = &models.User{
		ID:     "student-3",
		Name:   "Tunde Alabi",
		Email:  "tunde@example.com",
		Role:   models.RoleStudent,
		Status: models.UserActive,
	}
	repo.grade.structured["student-3_Mathematics"] = &models.StructuredGrade{
		ID:        "student-3_Mathematics",
		StudentID: "student-3",
		Subject:   "Mathematics",
		Total:     64,
		Grade:     models.GradeB,
	}
	repo.grade.structured["other_Mathematics"] = &models.StructuredGrade{
		ID:        "other_Mathematics",
		StudentID: "other",
		Subject:   "Mathematics",
	}

	t.Run("Student_Sees_Own_Results", func(t *testing.T) {
		actor := &models.SessionIdentity{UserID: "student-3", RealRole: models.RoleStudent}
		results, err := svc.StudentResults(ctx, actor, "student-3")
		if err != nil {
			t.Fatalf("StudentResults failed: %v", err)
		}
		if len(results.Structured) != 1 {
			t.Fatalf("expected 1 structured result, got %d", len(results.Structured))
		}
		if results.Structured[0].StudentID != "student-3" {
			t.Errorf("result leaked another student's row: %+v", results.Structured[0])
		}
	})

	t.Run("Student_Cannot_Read_Other_Results", func(t *testing.T) {
		actor := &models.SessionIdentity{UserID: "student-3", RealRole: models.RoleStudent}
		_, err := svc.StudentResults(ctx, actor, "other")
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("Simulated_Student_Scoped_To_Target", func(t *testing.T) {
		actor := &models.SessionIdentity{
			UserID:        "admin-1",
			RealRole:      models.RoleAdmin,
			SimulatedID:   "student-3",
			SimulatedRole: models.RoleStudent,
		}
		results, err := svc.StudentResults(ctx, actor, "student-3")
		if err != nil {
			t.Fatalf("StudentResults failed: %v", err)
		}
		if len(results.Structured) != 1 {
			t.Errorf("expected the simulated student's results, got %d rows", len(results.Structured))
		}
	})
}
