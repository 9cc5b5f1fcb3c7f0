// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for invoices,
// including the set-based overdue sweep and the reminder candidate queries.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// InvoiceFilter narrows ListInvoices. Zero values match everything except
// LandlordID, which is mandatory.
type InvoiceFilter struct {
	LandlordID string
	LeaseID    string
	Status     domain.InvoiceStatus
	Offset     int
	Limit      int
}

// ReminderCandidate is an invoice joined with the contact data of the tenant
// who owes it.
type ReminderCandidate struct {
	InvoiceID   string
	LeaseID     string
	DueDate     time.Time
	Amount      int64
	TenantID    string
	DisplayName string
	Phone       string
	Email       string
}

// CreateInvoices batch-inserts invoices.
func CreateInvoices(ctx context.Context, db *gorm.DB, invoices []domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit("Lease").CreateInBatches(&invoices, 100).Error
}

// GetInvoice fetches an invoice by id scoped to landlordID.
func GetInvoice(ctx context.Context, db *gorm.DB, id, landlordID string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvoiceForTenant fetches an invoice only if it belongs to a lease held
// by tenantID.
func GetInvoiceForTenant(ctx context.Context, db *gorm.DB, id, tenantID string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Joins("JOIN leases ON leases.id = invoices.lease_id").
		Where("invoices.id = ? AND leases.tenant_id = ?", id, tenantID).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func invoiceQuery(ctx context.Context, db *gorm.DB, f InvoiceFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Invoice{}).Where("landlord_id = ?", f.LandlordID)
	if f.LeaseID != "" {
		q = q.Where("lease_id = ?", f.LeaseID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// ListInvoices returns a page of the landlord's invoices ordered by due date.
func ListInvoices(ctx context.Context, db *gorm.DB, f InvoiceFilter) ([]domain.Invoice, error) {
	var out []domain.Invoice
	q := invoiceQuery(ctx, db, f).Order("due_date asc").Order("id asc")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountInvoices returns the total matching f, ignoring paging.
func CountInvoices(ctx context.Context, db *gorm.DB, f InvoiceFilter) (int64, error) {
	var n int64
	err := invoiceQuery(ctx, db, f).Count(&n).Error
	return n, err
}

// ListInvoicesByLease returns every invoice of a lease ordered by due date.
func ListInvoicesByLease(ctx context.Context, db *gorm.DB, leaseID string) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("due_date asc").
		Find(&out).Error
	return out, err
}

// ListInvoicesByTenant returns every invoice on leases held by tenantID.
func ListInvoicesByTenant(ctx context.Context, db *gorm.DB, tenantID string) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := db.WithContext(ctx).
		Joins("JOIN leases ON leases.id = invoices.lease_id").
		Where("leases.tenant_id = ?", tenantID).
		Order("invoices.due_date asc").
		Find(&out).Error
	return out, err
}

// TransitionInvoice moves an invoice to status to, but only if its current
// status is one of from. paidAt is written as given (nil clears it). The
// returned count is zero when the guard did not match.
func TransitionInvoice(ctx context.Context, db *gorm.DB, id string, from []domain.InvoiceStatus, to domain.InvoiceStatus, paidAt *time.Time) (int64, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
		"paid_at":    nil,
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	res := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// MarkOverdue promotes every PENDING invoice due strictly before today to
// OVERDUE in one statement and returns the number of rows changed.
func MarkOverdue(ctx context.Context, db *gorm.DB, today time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("status = ? AND due_date < ?", domain.InvoicePending, today).
		Updates(map[string]any{"status": domain.InvoiceOverdue, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// ListDueCandidates returns invoices with the given status due exactly on
// dueDate whose tenant opted in to reminders.
func ListDueCandidates(ctx context.Context, db *gorm.DB, dueDate time.Time, status domain.InvoiceStatus) ([]ReminderCandidate, error) {
	var out []ReminderCandidate
	err := db.WithContext(ctx).
		Table("invoices").
		Select(`invoices.id AS invoice_id, invoices.lease_id, invoices.due_date, invoices.amount,
			tenant_profiles.id AS tenant_id, tenant_profiles.display_name, tenant_profiles.phone, tenant_profiles.email`).
		Joins("JOIN leases ON leases.id = invoices.lease_id").
		Joins("JOIN tenant_profiles ON tenant_profiles.id = leases.tenant_id").
		Where("invoices.status = ? AND invoices.due_date = ? AND tenant_profiles.whatsapp_opt_in = ?", status, dueDate, true).
		Order("invoices.id asc").
		Scan(&out).Error
	return out, err
}

// ListOverdueForActiveLeases returns every OVERDUE invoice on an ACTIVE lease
// whose tenant opted in, ordered by lease then due date, so callers can
// group consecutive rows into one summary per lease.
func ListOverdueForActiveLeases(ctx context.Context, db *gorm.DB) ([]ReminderCandidate, error) {
	var out []ReminderCandidate
	err := db.WithContext(ctx).
		Table("invoices").
		Select(`invoices.id AS invoice_id, invoices.lease_id, invoices.due_date, invoices.amount,
			tenant_profiles.id AS tenant_id, tenant_profiles.display_name, tenant_profiles.phone, tenant_profiles.email`).
		Joins("JOIN leases ON leases.id = invoices.lease_id").
		Joins("JOIN tenant_profiles ON tenant_profiles.id = leases.tenant_id").
		Where("invoices.status = ? AND leases.status = ? AND tenant_profiles.whatsapp_opt_in = ?",
			domain.InvoiceOverdue, domain.LeaseActive, true).
		Order("invoices.lease_id asc").
		Order("invoices.due_date asc").
		Scan(&out).Error
	return out, err
}
