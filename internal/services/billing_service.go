package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/events"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/utils"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

type billingService struct {
	repo      repositories.Repository
	validator *validator.Validator
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewBillingService(repo repositories.Repository, v *validator.Validator, publisher events.EventPublisher, logger utils.Logger) BillingService {
	return &billingService{repo: repo, validator: v, publisher: publisher, logger: logger}
}

// invoiceNumber builds a unique human-readable number. The random suffix
// avoids a counter table; the unique index on Number is the backstop.
func invoiceNumber(campusCode string, now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("INV-%s-%s-%s", campusCode, now.Format("200601"), suffix)
}

func (s *billingService) CreateInvoice(ctx context.Context, actorID string, req InvoiceCreateRequest) (*models.Invoice, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if exists, err := s.repo.User().ExistsByID(ctx, req.StudentID); err != nil {
		return nil, fmt.Errorf("checking student: %w", err)
	} else if !exists {
		return nil, ErrUserNotFound
	}

	campus, err := s.repo.Campus().GetByID(ctx, req.CampusID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCampusNotFound
		}
		return nil, fmt.Errorf("getting campus: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "VND"
	}

	var total int64
	items := make([]models.InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		total += item.Amount * int64(quantity)
		items = append(items, models.InvoiceItem{
			Label:    item.Label,
			Amount:   item.Amount,
			Quantity: quantity,
		})
	}

	invoice := &models.Invoice{
		Number:      invoiceNumber(campus.Code, time.Now().UTC()),
		StudentID:   req.StudentID,
		CampusID:    req.CampusID,
		Status:      models.InvoiceDraft,
		Currency:    strings.ToUpper(currency),
		TotalAmount: total,
		DueDate:     req.DueDate,
		CreatedBy:   actorID,
		Items:       items,
	}
	if err := s.repo.Invoice().Create(ctx, nil, invoice); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	s.logger.Info("invoice created",
		"invoice_id", invoice.ID, "number", invoice.Number, "student_id", invoice.StudentID, "total", invoice.TotalAmount)
	return invoice, nil
}

func (s *billingService) IssueInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.InvoiceDraft {
		return nil, NewBusinessRuleError("invoice_not_draft",
			"only draft invoices can be issued")
	}

	invoice.Status = models.InvoiceIssued
	if err := s.repo.Invoice().Update(ctx, nil, invoice); err != nil {
		return nil, fmt.Errorf("issuing invoice: %w", err)
	}

	if s.publisher != nil {
		event := events.InvoiceIssuedEvent{
			InvoiceID:   invoice.ID,
			Number:      invoice.Number,
			StudentID:   invoice.StudentID,
			TotalAmount: invoice.TotalAmount,
			Currency:    invoice.Currency,
			DueDate:     invoice.DueDate,
			IssuedAt:    time.Now().UTC(),
		}
		if err := s.publisher.Publish(ctx, events.TopicBilling, event); err != nil {
			s.logger.Error("failed to publish invoice issued event",
				"invoice_id", invoice.ID, "error", err)
		}
	}
	return invoice, nil
}

func (s *billingService) CancelInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoicePaid {
		return nil, NewBusinessRuleError("invoice_paid",
			"paid invoices cannot be cancelled")
	}
	if invoice.PaidAmount > 0 {
		return nil, NewBusinessRuleError("invoice_partially_paid",
			"invoices with recorded payments cannot be cancelled")
	}

	invoice.Status = models.InvoiceCancelled
	if err := s.repo.Invoice().Update(ctx, nil, invoice); err != nil {
		return nil, fmt.Errorf("cancelling invoice: %w", err)
	}
	return invoice, nil
}

// RecordPayment adds a payment against an issued invoice. Overpayment is
// rejected; the final payment flips the status and stamps PaidAt.
func (s *billingService) RecordPayment(ctx context.Context, id uint, req PaymentRequest) (*models.Invoice, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	var invoice *models.Invoice
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		invoice, err = txRepo.Invoice().GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("getting invoice: %w", err)
		}
		if invoice.Status != models.InvoiceIssued && invoice.Status != models.InvoiceOverdue {
			return ErrInvoiceNotPayable
		}
		if req.Amount > invoice.Outstanding() {
			return NewBusinessRuleError("overpayment",
				fmt.Sprintf("payment of %d exceeds outstanding %d", req.Amount, invoice.Outstanding()))
		}

		invoice.PaidAmount += req.Amount
		if invoice.Outstanding() == 0 {
			now := time.Now().UTC()
			invoice.Status = models.InvoicePaid
			invoice.PaidAt = &now
		}
		return txRepo.Invoice().Update(ctx, nil, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		"invoice_id", invoice.ID, "amount", req.Amount, "status", invoice.Status)
	return invoice, nil
}

func (s *billingService) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.repo.Invoice().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return invoice, nil
}

func (s *billingService) List(ctx context.Context, decision authz.Decision, filters repositories.InvoiceFilters) (*ListResponse[*models.Invoice], error) {
	filters.CampusIDs = narrowCampuses(decision, filters.CampusIDs)

	invoices, total, err := s.repo.Invoice().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return &ListResponse[*models.Invoice]{Items: invoices, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *billingService) OutstandingBalance(ctx context.Context, studentID string) (int64, error) {
	return s.repo.Invoice().SumOutstanding(ctx, nil, studentID)
}
