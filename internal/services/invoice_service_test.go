package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// invoiceFixture opens a lease on 2025-06-01 with three monthly invoices and
// returns the first one (due 2025-07-01).
func invoiceFixture(t *testing.T) (*InvoiceService, *domain.Lease, *domain.TenantProfile, domain.Invoice) {
	t.Helper()
	db := newSvcDB(t)
	clock := clockAt(2025, time.June, 1)
	l, tp := seedActiveLease(t, db, clock, "l1", date(2025, time.June, 1), 1, 3)
	invs, err := repo.ListInvoicesByLease(context.Background(), db, l.ID)
	if err != nil || len(invs) != 3 {
		t.Fatalf("list invoices: %v (%d)", err, len(invs))
	}
	return NewInvoiceService(db, clock), l, tp, invs[0]
}

func TestInvoiceService_DeclareApproveUnmark_RoundTrip(t *testing.T) {
	svc, _, tp, inv := invoiceFixture(t)
	ctx := context.Background()
	note := "transfer ref 42"

	got, err := svc.DeclarePayment(ctx, tp.ID, inv.ID, DeclareInput{Method: "bank_transfer", Notes: &note})
	if err != nil {
		t.Fatalf("DeclarePayment: %v", err)
	}
	if got.Status != domain.InvoicePaymentProcessing {
		t.Fatalf("status = %s", got.Status)
	}
	if n := countRows(t, svc.DB, &domain.PaymentProof{}, "invoice_id = ?", inv.ID); n != 1 {
		t.Fatalf("proofs = %d, want 1", n)
	}

	got, err = svc.ApprovePayment(ctx, "l1", inv.ID)
	if err != nil {
		t.Fatalf("ApprovePayment: %v", err)
	}
	if got.Status != domain.InvoicePaid || got.PaidAt == nil || !got.PaidAt.Equal(clockAt(2025, time.June, 1).T) {
		t.Fatalf("after approve: %+v", got)
	}
	if n := countRows(t, svc.DB, &domain.PaymentProof{}, "invoice_id = ?", inv.ID); n != 0 {
		t.Fatalf("proofs = %d, want 0", n)
	}
	p := paymentOf(t, svc.DB, inv.ID)
	if p.Method != "BANK_TRANSFER" || p.Amount != inv.Amount || p.Note == nil || *p.Note != note {
		t.Fatalf("payment = %+v", p)
	}

	got, err = svc.UnmarkPaid(ctx, "l1", inv.ID)
	if err != nil {
		t.Fatalf("UnmarkPaid: %v", err)
	}
	if got.Status != domain.InvoicePending || got.PaidAt != nil {
		t.Fatalf("after unmark: %+v", got)
	}
	stored, _ := svc.Get(ctx, "l1", inv.ID)
	if stored.Status != domain.InvoicePending || stored.PaidAt != nil {
		t.Fatalf("stored after unmark: %+v", stored)
	}
	if n := countRows(t, svc.DB, &domain.Payment{}, ""); n != 0 {
		t.Fatalf("payments = %d, want 0", n)
	}
}

func TestInvoiceService_UnmarkAfterDueDate_IsOverdue(t *testing.T) {
	svc, _, _, inv := invoiceFixture(t)
	ctx := context.Background()

	if _, err := svc.MarkPaid(ctx, "l1", inv.ID, MarkPaidInput{Method: "CASH"}); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	svc.Clock = clockAt(2025, time.July, 2)
	got, err := svc.UnmarkPaid(ctx, "l1", inv.ID)
	if err != nil {
		t.Fatalf("UnmarkPaid: %v", err)
	}
	if got.Status != domain.InvoiceOverdue {
		t.Fatalf("status = %s, want OVERDUE", got.Status)
	}
}

func TestInvoiceService_RejectPayment_RecomputesStatus(t *testing.T) {
	svc, _, tp, inv := invoiceFixture(t)
	ctx := context.Background()

	if _, err := svc.DeclarePayment(ctx, tp.ID, inv.ID, DeclareInput{Method: "bizum"}); err != nil {
		t.Fatalf("DeclarePayment: %v", err)
	}
	svc.Clock = clockAt(2025, time.July, 1)
	got, err := svc.RejectPayment(ctx, "l1", inv.ID)
	if err != nil {
		t.Fatalf("RejectPayment: %v", err)
	}
	// Due today is not yet overdue.
	if got.Status != domain.InvoicePending {
		t.Fatalf("status = %s, want PENDING", got.Status)
	}
	if n := countRows(t, svc.DB, &domain.PaymentProof{}, ""); n != 0 {
		t.Fatalf("proofs = %d", n)
	}
	if _, err := svc.RejectPayment(ctx, "l1", inv.ID); !errors.Is(err, ErrProofNotFound) {
		t.Fatalf("second reject: expected ErrProofNotFound, got %v", err)
	}
}

func TestInvoiceService_MarkPaid(t *testing.T) {
	svc, _, _, inv := invoiceFixture(t)
	ctx := context.Background()

	if _, err := svc.MarkPaid(ctx, "l1", inv.ID, MarkPaidInput{Method: "crypto"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	got, err := svc.MarkPaid(ctx, "l1", inv.ID, MarkPaidInput{Method: "card", PaidDate: date(2025, time.June, 20)})
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got.Status != domain.InvoicePaid {
		t.Fatalf("status = %s", got.Status)
	}
	// paid_at follows the service clock, not the wall clock.
	if got.PaidAt == nil || !got.PaidAt.Equal(clockAt(2025, time.June, 1).T) {
		t.Fatalf("paid_at = %v", got.PaidAt)
	}
	p := paymentOf(t, svc.DB, inv.ID)
	if !p.PaidDate.Equal(date(2025, time.June, 20)) || p.Method != "CARD" {
		t.Fatalf("payment = %+v", p)
	}
	if _, err := svc.MarkPaid(ctx, "l1", inv.ID, MarkPaidInput{Method: "cash"}); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
	if n := countRows(t, svc.DB, &domain.Payment{}, ""); n != 1 {
		t.Fatalf("payments = %d, want 1", n)
	}
}

func TestInvoiceService_DisallowedTransitions_NoMutation(t *testing.T) {
	svc, _, tp, inv := invoiceFixture(t)
	ctx := context.Background()

	if _, err := svc.ApprovePayment(ctx, "l1", inv.ID); !errors.Is(err, ErrProofNotFound) {
		t.Fatalf("approve without proof: expected ErrProofNotFound, got %v", err)
	}
	if _, err := svc.UnmarkPaid(ctx, "l1", inv.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("unmark pending: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.DeclarePayment(ctx, tp.ID, inv.ID, DeclareInput{Method: "cash"}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := svc.DeclarePayment(ctx, tp.ID, inv.ID, DeclareInput{Method: "cash"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-declare: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.MarkPaid(ctx, "l1", inv.ID, MarkPaidInput{Method: "cash"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("mark processing paid: expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.ApprovePayment(ctx, "l1", inv.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.DeclarePayment(ctx, tp.ID, inv.ID, DeclareInput{Method: "cash"}); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("declare paid: expected ErrAlreadyPaid, got %v", err)
	}
	if n := countRows(t, svc.DB, &domain.Payment{}, ""); n != 1 {
		t.Fatalf("payments = %d, want 1", n)
	}
	if n := countRows(t, svc.DB, &domain.PaymentProof{}, ""); n != 0 {
		t.Fatalf("proofs = %d, want 0", n)
	}
}

func TestInvoiceService_Scoping(t *testing.T) {
	svc, _, _, inv := invoiceFixture(t)
	ctx := context.Background()
	other := seedTenant(t, svc.DB, "l1")

	if _, err := svc.DeclarePayment(ctx, other.ID, inv.ID, DeclareInput{Method: "cash"}); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("foreign tenant: expected ErrInvoiceNotFound, got %v", err)
	}
	if _, err := svc.MarkPaid(ctx, "l2", inv.ID, MarkPaidInput{Method: "cash"}); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("foreign landlord: expected ErrInvoiceNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, "l2", inv.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("foreign get: expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestInvoiceService_ListAndStats(t *testing.T) {
	svc, l, _, _ := invoiceFixture(t)
	ctx := context.Background()

	page, err := svc.List(ctx, repo.InvoiceFilter{LandlordID: "l1", LeaseID: l.ID, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 3 {
		t.Fatalf("page = %d items, total %d", len(page.Items), page.Total)
	}
	n, last, err := svc.Stats(ctx, repo.InvoiceFilter{LandlordID: "l1"})
	if err != nil || n != 3 || last == nil {
		t.Fatalf("Stats = %d %v %v", n, last, err)
	}
	n, last, _ = svc.Stats(ctx, repo.InvoiceFilter{LandlordID: "l2"})
	if n != 0 || last != nil {
		t.Fatalf("foreign stats = %d %v", n, last)
	}
}
