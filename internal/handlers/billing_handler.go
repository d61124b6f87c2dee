package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/services"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
)

type BillingHandler struct {
	BaseHandler
	billingService services.BillingService
}

func NewBillingHandler(billingService services.BillingService, logger utils.Logger) *BillingHandler {
	return &BillingHandler{
		BaseHandler:    NewBaseHandler(logger),
		billingService: billingService,
	}
}

func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	var req services.InvoiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if !DecisionFromContext(c).PermitsCampus(req.CampusID) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return
	}

	invoice, err := h.billingService.CreateInvoice(c.Request.Context(), subject.ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *BillingHandler) IssueInvoice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.permitsInvoiceCampus(c, id) {
		return
	}

	invoice, err := h.billingService.IssueInvoice(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *BillingHandler) CancelInvoice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.permitsInvoiceCampus(c, id) {
		return
	}

	invoice, err := h.billingService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *BillingHandler) RecordPayment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.permitsInvoiceCampus(c, id) {
		return
	}

	var req services.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "invalid request payload",
			Details: err.Error(),
		})
		return
	}

	invoice, err := h.billingService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	invoice, err := h.billingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Students may read their own invoices; staff need campus visibility.
	subject := SubjectFromContext(c)
	if subject == nil || (invoice.StudentID != subject.ID && !DecisionFromContext(c).PermitsCampus(invoice.CampusID)) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	filters := repositories.InvoiceFilters{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("student_id"); raw != "" {
		filters.StudentID = &raw
	}
	if raw := c.Query("status"); raw != "" {
		status := models.InvoiceStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("campus_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filters.CampusIDs = []uint{uint(id)}
		}
	}

	resp, err := h.billingService.List(c.Request.Context(), DecisionFromContext(c), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyBalance returns the caller's outstanding balance in minor units
func (h *BillingHandler) GetMyBalance(c *gin.Context) {
	subject := SubjectFromContext(c)
	if subject == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_required",
			Message: "authentication required",
		})
		return
	}

	balance, err := h.billingService.OutstandingBalance(c.Request.Context(), subject.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outstanding": balance})
}

func (h *BillingHandler) permitsInvoiceCampus(c *gin.Context, id uint) bool {
	invoice, err := h.billingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return false
	}
	if !DecisionFromContext(c).PermitsCampus(invoice.CampusID) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "insufficient permissions",
		})
		return false
	}
	return true
}
