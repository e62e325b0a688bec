package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type transactionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTransactionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) TransactionService {
	return &transactionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *transactionService) Create(ctx context.Context, actor *models.SessionIdentity, req *validator.TransactionCreateRequest) (*models.Transaction, error) {
	if err := s.requireRealAdmin(actor, "create"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err == nil {
			date = parsed
		}
	}

	customerName := req.CustomerName
	if req.CustomerID != nil && customerName == "" {
		customer, err := s.repo.Customer().GetByID(ctx, *req.CustomerID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, NewNotFoundError("customer", *req.CustomerID)
			}
			return nil, err
		}
		customerName = customer.Name
	}

	txn := &models.Transaction{
		ID:           uuid.NewString(),
		Type:         req.Type,
		Name:         req.Name,
		Description:  req.Description,
		Amount:       req.Amount,
		Status:       models.TransactionPending,
		Note:         req.Note,
		CustomerID:   req.CustomerID,
		CustomerName: customerName,
		Date:         date,
	}
	if err := s.repo.Transaction().Create(ctx, txn); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, txn.ID)
	s.logger.InfoContext(ctx, "Transaction recorded",
		"transaction_id", txn.ID,
		"type", txn.Type,
		"amount", txn.Amount)
	return txn, nil
}

func (s *transactionService) UpdateStatus(ctx context.Context, actor *models.SessionIdentity, id string, req *validator.TransactionStatusRequest) (*models.Transaction, error) {
	if err := s.requireRealAdmin(actor, "update_status"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("", err.Error())
	}

	txn, err := s.repo.Transaction().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("transaction", id)
		}
		return nil, err
	}

	txn.Status = req.Status
	if req.Note != nil {
		txn.Note = *req.Note
	}
	if req.Date != nil {
		if parsed, err := time.Parse("2006-01-02", *req.Date); err == nil {
			txn.Date = parsed
		}
	}
	if err := s.repo.Transaction().Update(ctx, txn); err != nil {
		return nil, err
	}

	s.publishChanged(ctx, txn.ID)
	s.logger.InfoContext(ctx, "Transaction status updated",
		"transaction_id", id,
		"status", req.Status)
	return txn, nil
}

func (s *transactionService) List(ctx context.Context, actor *models.SessionIdentity, filters repositories.TransactionFilters) (*TransactionListResponse, error) {
	if err := s.requireRealAdmin(actor, "list"); err != nil {
		return nil, err
	}

	txns, total, err := s.repo.Transaction().List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return &TransactionListResponse{Transactions: txns, Total: total}, nil
}

// requireRealAdmin is the financial gate: RealRole only. An admin
// previewing as a student keeps finance access, and a student being
// simulated never grants it.
func (s *transactionService) requireRealAdmin(actor *models.SessionIdentity, action string) error {
	if actor.RealRole != models.RoleAdmin {
		return NewPermissionError(actor.UserID, "", "transaction", action, "financial data requires an admin account")
	}
	return nil
}

func (s *transactionService) publishChanged(ctx context.Context, id string) {
	event := events.NewEvent(events.EventTransactionChanged, map[string]string{"transaction_id": id})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish transaction event",
			"error", err,
			"transaction_id", id)
	}
}
