// Package services – InvoiceService
//
// This file implements the payment state machine over invoices. Every
// transition loads the invoice inside a transaction, checks the action
// against billing's transition table, writes the Payment/PaymentProof side
// effect and then moves the status with a guarded UPDATE. If the guard
// matches no row a concurrent request won and the whole unit rolls back.
//
// Observability: transitions are OpenTelemetry-instrumented; spans carry the
// invoice id and action.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/billing"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// Payment methods accepted on declarations and manual settlements.
var paymentMethods = map[string]bool{
	"CASH":          true,
	"BANK_TRANSFER": true,
	"BIZUM":         true,
	"CARD":          true,
	"OTHER":         true,
}

// NormalizeMethod upper-cases a payment method and reports whether it is
// known.
func NormalizeMethod(m string) (string, bool) {
	m = strings.ToUpper(strings.TrimSpace(m))
	return m, paymentMethods[m]
}

// MarkPaidInput describes a manual settlement by the landlord.
type MarkPaidInput struct {
	Method string
	// PaidDate defaults to today.
	PaidDate time.Time
	Note     *string
}

// DeclareInput describes a tenant's payment declaration.
type DeclareInput struct {
	Method string
	Notes  *string
}

// InvoicePage is one page of a landlord's invoices.
type InvoicePage struct {
	Items []domain.Invoice
	Total int64
}

// InvoiceService drives invoice status transitions.
type InvoiceService struct {
	DB    *gorm.DB
	Clock calendar.Clock
}

// NewInvoiceService constructs an InvoiceService.
func NewInvoiceService(db *gorm.DB, clock calendar.Clock) *InvoiceService {
	return &InvoiceService{DB: db, Clock: clock}
}

func (s *InvoiceService) today() time.Time {
	return calendar.Today(s.Clock)
}

// Get returns one of the landlord's invoices.
func (s *InvoiceService) Get(ctx context.Context, landlordID, id string) (*domain.Invoice, error) {
	inv, err := repo.GetInvoice(ctx, s.DB, id, landlordID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

// List returns a page of invoices and the unpaged total.
func (s *InvoiceService) List(ctx context.Context, f repo.InvoiceFilter) (*InvoicePage, error) {
	items, err := repo.ListInvoices(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountInvoices(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	return &InvoicePage{Items: items, Total: total}, nil
}

// Stats returns the count and latest update time of the invoices matching f,
// used for conditional GETs.
func (s *InvoiceService) Stats(ctx context.Context, f repo.InvoiceFilter) (int64, *time.Time, error) {
	return repo.InvoicesStats(ctx, s.DB, f)
}

// ListForTenant returns every invoice on the tenant's leases.
func (s *InvoiceService) ListForTenant(ctx context.Context, tenantID string) ([]domain.Invoice, error) {
	return repo.ListInvoicesByTenant(ctx, s.DB, tenantID)
}

// loader fetches the invoice an action targets, scoped to its caller.
type loader func(tx *gorm.DB) (*domain.Invoice, error)

// apply runs one state-machine action atomically. next computes the target
// status and effect performs the Payment/PaymentProof writes.
func (s *InvoiceService) apply(
	ctx context.Context,
	action billing.Action,
	id string,
	load loader,
	next func(inv *domain.Invoice) (domain.InvoiceStatus, *time.Time),
	effect func(tx *gorm.DB, inv *domain.Invoice) error,
) (*domain.Invoice, error) {
	tr := otel.Tracer("services/InvoiceService")
	ctx, span := tr.Start(ctx, string(action),
		trace.WithAttributes(
			attribute.String("invoice.id", id),
			attribute.String("invoice.action", string(action)),
		),
	)
	defer span.End()

	var out *domain.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := load(tx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if err := checkAction(action, inv.Status); err != nil {
			return err
		}
		if effect != nil {
			if err := effect(tx, inv); err != nil {
				return err
			}
		}
		to, paidAt := next(inv)
		n, err := repo.TransitionInvoice(ctx, tx, inv.ID, []domain.InvoiceStatus{inv.Status}, to, paidAt)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: invoice %s changed concurrently", ErrConflict, inv.ID)
		}
		inv.Status, inv.PaidAt = to, paidAt
		out = inv
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

// checkAction maps a rejected transition to the service errors callers
// branch on.
func checkAction(action billing.Action, current domain.InvoiceStatus) error {
	err := billing.ValidateTransition(action, current)
	if err == nil {
		return nil
	}
	if current == domain.InvoicePaid && (action == billing.ActionDeclarePayment || action == billing.ActionMarkPaid) {
		return ErrAlreadyPaid
	}
	if current != domain.InvoicePaymentProcessing && (action == billing.ActionApprovePayment || action == billing.ActionRejectPayment) {
		return fmt.Errorf("%w: invoice is %s", ErrProofNotFound, current)
	}
	return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
}

// reopened is the status an invoice returns to when it stops being paid or
// processing.
func (s *InvoiceService) reopened(inv *domain.Invoice) (domain.InvoiceStatus, *time.Time) {
	return billing.StatusForDueDate(inv.DueDate, s.today()), nil
}

func (s *InvoiceService) landlordInvoice(ctx context.Context, landlordID, id string) loader {
	return func(tx *gorm.DB) (*domain.Invoice, error) {
		return repo.GetInvoice(ctx, tx, id, landlordID)
	}
}

// MarkPaid settles a PENDING or OVERDUE invoice directly, recording a Payment
// for the full amount.
func (s *InvoiceService) MarkPaid(ctx context.Context, landlordID, id string, in MarkPaidInput) (*domain.Invoice, error) {
	method, ok := NormalizeMethod(in.Method)
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, in.Method)
	}
	paidDate := in.PaidDate
	if paidDate.IsZero() {
		paidDate = s.today()
	}
	now := s.Clock.Now().UTC()

	return s.apply(ctx, billing.ActionMarkPaid, id, s.landlordInvoice(ctx, landlordID, id),
		func(*domain.Invoice) (domain.InvoiceStatus, *time.Time) { return domain.InvoicePaid, &now },
		func(tx *gorm.DB, inv *domain.Invoice) error {
			return createPayment(ctx, tx, &domain.Payment{
				InvoiceID: inv.ID,
				Amount:    inv.Amount,
				PaidDate:  calendar.DateOf(paidDate),
				Method:    method,
				Note:      in.Note,
			})
		})
}

// UnmarkPaid reverts a PAID invoice to PENDING or OVERDUE by due date and
// deletes its Payment.
func (s *InvoiceService) UnmarkPaid(ctx context.Context, landlordID, id string) (*domain.Invoice, error) {
	return s.apply(ctx, billing.ActionUnmarkPaid, id, s.landlordInvoice(ctx, landlordID, id),
		s.reopened,
		func(tx *gorm.DB, inv *domain.Invoice) error {
			_, err := repo.DeletePaymentByInvoice(ctx, tx, inv.ID)
			return err
		})
}

// DeclarePayment records a tenant's payment proof and moves the invoice to
// PAYMENT_PROCESSING. The invoice must sit on a lease held by tenantID.
func (s *InvoiceService) DeclarePayment(ctx context.Context, tenantID, id string, in DeclareInput) (*domain.Invoice, error) {
	method, ok := NormalizeMethod(in.Method)
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, in.Method)
	}
	load := func(tx *gorm.DB) (*domain.Invoice, error) {
		return repo.GetInvoiceForTenant(ctx, tx, id, tenantID)
	}
	return s.apply(ctx, billing.ActionDeclarePayment, id, load,
		func(*domain.Invoice) (domain.InvoiceStatus, *time.Time) { return domain.InvoicePaymentProcessing, nil },
		func(tx *gorm.DB, inv *domain.Invoice) error {
			err := repo.CreatePaymentProof(ctx, tx, &domain.PaymentProof{
				InvoiceID: inv.ID,
				Method:    method,
				Notes:     in.Notes,
			})
			if errors.Is(err, repo.ErrDuplicate) {
				return fmt.Errorf("%w: a payment proof already exists", ErrConflict)
			}
			return err
		})
}

// ApprovePayment accepts the pending proof: the invoice becomes PAID, a
// Payment copies the declared method and full amount, and the proof is
// deleted.
func (s *InvoiceService) ApprovePayment(ctx context.Context, landlordID, id string) (*domain.Invoice, error) {
	now := s.Clock.Now().UTC()
	return s.apply(ctx, billing.ActionApprovePayment, id, s.landlordInvoice(ctx, landlordID, id),
		func(*domain.Invoice) (domain.InvoiceStatus, *time.Time) { return domain.InvoicePaid, &now },
		func(tx *gorm.DB, inv *domain.Invoice) error {
			proof, err := repo.GetPaymentProof(ctx, tx, inv.ID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrProofNotFound
				}
				return err
			}
			if err := createPayment(ctx, tx, &domain.Payment{
				InvoiceID: inv.ID,
				Amount:    inv.Amount,
				PaidDate:  s.today(),
				Method:    proof.Method,
				Note:      proof.Notes,
			}); err != nil {
				return err
			}
			_, err = repo.DeletePaymentProof(ctx, tx, inv.ID)
			return err
		})
}

// RejectPayment discards the pending proof and reopens the invoice as
// PENDING or OVERDUE by due date.
func (s *InvoiceService) RejectPayment(ctx context.Context, landlordID, id string) (*domain.Invoice, error) {
	return s.apply(ctx, billing.ActionRejectPayment, id, s.landlordInvoice(ctx, landlordID, id),
		s.reopened,
		func(tx *gorm.DB, inv *domain.Invoice) error {
			n, err := repo.DeletePaymentProof(ctx, tx, inv.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrProofNotFound
			}
			return nil
		})
}

func createPayment(ctx context.Context, tx *gorm.DB, p *domain.Payment) error {
	err := repo.CreatePayment(ctx, tx, p)
	if errors.Is(err, repo.ErrDuplicate) {
		return fmt.Errorf("%w: invoice already has a payment", ErrConflict)
	}
	return err
}
