package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

func adminSession() *models.SessionIdentity {
	return &models.SessionIdentity{
		UserID:   "admin-1",
		RealRole: models.RoleAdmin,
		UserName: "Funke Balogun",
	}
}

func newTransactionFixture(t *testing.T) (TransactionService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewTransactionService(repo, publisher, logger, validator.New())
	return svc, repo, publisher
}

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Starts_Pending_And_Publishes", func(t *testing.T) {
		svc, repo, publisher := newTransactionFixture(t)

		txn, err := svc.Create(ctx, adminSession(), &validator.TransactionCreateRequest{
			Type:   models.TransactionIncome,
			Name:   "Term fees",
			Amount: 45000,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if txn.Status != models.TransactionPending {
			t.Errorf("Status = %v, want Pending", txn.Status)
		}
		if txn.ID == "" {
			t.Error("expected a generated id")
		}
		if len(repo.transaction.txns) != 1 {
			t.Errorf("expected 1 stored transaction, got %d", len(repo.transaction.txns))
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventTransactionChanged {
			t.Errorf("expected one transaction-changed event, got %+v", published)
		}
	})

	t.Run("Resolves_Customer_Name", func(t *testing.T) {
		svc, repo, _ := newTransactionFixture(t)
		repo.customer.customers["cust-1"] = &models.Customer{ID: "cust-1", Name: "Okafor Family"}

		customerID := "cust-1"
		txn, err := svc.Create(ctx, adminSession(), &validator.TransactionCreateRequest{
			Type:       models.TransactionIncome,
			Name:       "Term fees",
			Amount:     45000,
			CustomerID: &customerID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if txn.CustomerName != "Okafor Family" {
			t.Errorf("CustomerName = %q, want resolved name", txn.CustomerName)
		}
	})

	t.Run("Real_Role_Gate", func(t *testing.T) {
		svc, _, publisher := newTransactionFixture(t)

		// A simulated admin keeps finance access; the simulated role
		// never matters here.
		simulating := adminSession()
		simulating.SimulatedID = "student-1"
		simulating.SimulatedRole = models.RoleStudent
		if _, err := svc.Create(ctx, simulating, &validator.TransactionCreateRequest{
			Type:   models.TransactionExpense,
			Name:   "Generator fuel",
			Amount: 12000,
		}); err != nil {
			t.Errorf("simulating admin must keep finance access, got %v", err)
		}

		publisher.ClearEvents()
		teacher := &models.SessionIdentity{UserID: "teacher-1", RealRole: models.RoleTeacher}
		if _, err := svc.Create(ctx, teacher, &validator.TransactionCreateRequest{
			Type:   models.TransactionIncome,
			Name:   "Term fees",
			Amount: 45000,
		}); !IsPermissionError(err) {
			t.Errorf("expected permission error for teacher, got %v", err)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("denied create must not publish events")
		}
	})
}

func TestTransactionService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTransactionFixture(t)

	txn, err := svc.Create(ctx, adminSession(), &validator.TransactionCreateRequest{
		Type:   models.TransactionIncome,
		Name:   "Term fees",
		Amount: 45000,
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, adminSession(), txn.ID, &validator.TransactionStatusRequest{
		Status: models.TransactionCompleted,
	})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.TransactionCompleted {
		t.Errorf("Status = %v, want Completed", updated.Status)
	}
	if stored := repo.transaction.txns[txn.ID]; stored.Status != models.TransactionCompleted {
		t.Errorf("stored status = %v, want Completed", stored.Status)
	}

	if _, err := svc.UpdateStatus(ctx, adminSession(), "ghost", &validator.TransactionStatusRequest{
		Status: models.TransactionCompleted,
	}); !IsNotFoundError(err) {
		t.Errorf("expected not-found for unknown id, got %v", err)
	}
}

func TestTransactionService_UpdateStatus_ClearsNote(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTransactionFixture(t)

	note := "awaiting bank confirmation"
	txn, err := svc.Create(ctx, adminSession(), &validator.TransactionCreateRequest{
		Type:   models.TransactionIncome,
		Name:   "Term fees",
		Amount: 45000,
		Note:   note,
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	empty := ""
	if _, err := svc.UpdateStatus(ctx, adminSession(), txn.ID, &validator.TransactionStatusRequest{
		Status: models.TransactionCompleted,
		Note:   &empty,
	}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if stored := repo.transaction.txns[txn.ID]; stored.Note != "" {
		t.Errorf("stored note = %q, want it cleared", stored.Note)
	}
}

func TestTransactionService_List(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTransactionFixture(t)

	for _, req := range []*validator.TransactionCreateRequest{
		{Type: models.TransactionIncome, Name: "Term fees", Amount: 45000},
		{Type: models.TransactionExpense, Name: "Chalk order", Amount: 3000},
	} {
		if _, err := svc.Create(ctx, adminSession(), req); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	income := models.TransactionIncome
	resp, err := svc.List(ctx, adminSession(), repositories.TransactionFilters{Type: &income})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("Total = %d, want 1 income entry", resp.Total)
	}

	student := &models.SessionIdentity{UserID: "student-1", RealRole: models.RoleStudent}
	if _, err := svc.List(ctx, student, repositories.TransactionFilters{}); !IsPermissionError(err) {
		t.Errorf("expected permission error for student, got %v", err)
	}
}
