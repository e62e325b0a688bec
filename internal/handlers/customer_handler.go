package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

type CustomerHandler struct {
	BaseHandler
	customerService services.CustomerService
}

func NewCustomerHandler(customerService services.CustomerService, logger utils.Logger) *CustomerHandler {
	return &CustomerHandler{
		BaseHandler:     NewBaseHandler(logger),
		customerService: customerService,
	}
}

// Create adds a fee-paying account
func (h *CustomerHandler) Create(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	var req validator.CustomerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// List returns customers, optionally filtered by a name/email query
func (h *CustomerHandler) List(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	customers, err := h.customerService.List(c.Request.Context(), session, c.Query("q"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": len(customers)})
}

// Delete removes a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete customer")
		return
	}
	c.Status(http.StatusNoContent)
}
