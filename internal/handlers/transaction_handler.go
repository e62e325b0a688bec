package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/models"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type TransactionHandler struct {
	BaseHandler
	transactionService services.TransactionService
}

func NewTransactionHandler(transactionService services.TransactionService, logger utils.Logger) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler:        NewBaseHandler(logger),
		transactionService: transactionService,
	}
}

// Create records a finance entry
// @Summary Record transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Success 201 {object} models.Transaction
// @Failure 403 {object} ErrorResponse "Not a real admin"
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.TransactionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	txn, err := h.transactionService.Create(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to record transaction")
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// UpdateStatus flips an entry between Pending and Completed
func (h *TransactionHandler) UpdateStatus(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.TransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	txn, err := h.transactionService.UpdateStatus(c.Request.Context(), session, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// List returns finance entries with optional filters
func (h *TransactionHandler) List(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	filters := h.parseFilters(c)
	resp, err := h.transactionService.List(c.Request.Context(), session, filters)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransactionHandler) parseFilters(c *gin.Context) repositories.TransactionFilters {
	filters := repositories.TransactionFilters{
		Query: c.Query("q"),
	}

	if raw := c.Query("type"); raw != "" {
		t := models.TransactionType(raw)
		filters.Type = &t
	}
	if raw := c.Query("status"); raw != "" {
		s := models.TransactionStatus(raw)
		filters.Status = &s
	}
	if raw := c.Query("from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			filters.DateFrom = &parsed
		}
	}
	if raw := c.Query("to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			filters.DateTo = &parsed
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filters.Limit = parsed
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filters.Offset = parsed
		}
	}

	return filters
}
