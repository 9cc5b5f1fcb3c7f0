// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer and for the tenant balance view.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// InvoicesStats returns aggregate metadata for the invoices matching f: the
// total number of rows and the maximum UpdatedAt among them. When nothing
// matches, count is 0 and maxUpdatedAt is nil.
func InvoicesStats(ctx context.Context, db *gorm.DB, f InvoiceFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	if count, err = CountInvoices(ctx, db, f); err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = invoiceQuery(ctx, db, f).Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// StatusTotal is the summed amount and row count of one invoice status.
type StatusTotal struct {
	Status domain.InvoiceStatus
	Total  int64
	Count  int64
}

// TenantInvoiceTotals sums the invoices of tenantID per status.
func TenantInvoiceTotals(ctx context.Context, db *gorm.DB, tenantID string) ([]StatusTotal, error) {
	var out []StatusTotal
	err := db.WithContext(ctx).
		Table("invoices").
		Select("invoices.status AS status, COALESCE(SUM(invoices.amount), 0) AS total, COUNT(*) AS count").
		Joins("JOIN leases ON leases.id = invoices.lease_id").
		Where("leases.tenant_id = ?", tenantID).
		Group("invoices.status").
		Scan(&out).Error
	return out, err
}

// NextOpenDueDate returns the earliest due date among the tenant's PENDING
// invoices, or nil when there is none.
func NextOpenDueDate(ctx context.Context, db *gorm.DB, tenantID string) (*time.Time, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Joins("JOIN leases ON leases.id = invoices.lease_id").
		Where("leases.tenant_id = ? AND invoices.status = ?", tenantID, domain.InvoicePending).
		Order("invoices.due_date asc").
		Limit(1).
		Find(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == "" {
		return nil, nil
	}
	return &inv.DueDate, nil
}
