// Package billing turns lease terms into invoice drafts and holds the
// invoice status rules shared by the state machine and the daily jobs.
package billing

import (
	"time"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// DefaultHorizon is the number of monthly invoices generated when the lease
// does not say otherwise.
const DefaultHorizon = 12

// Terms are the lease parameters the schedule depends on.
type Terms struct {
	StartDate  time.Time
	BillingDay int
	Rent       int64
	// Horizon is the number of months to generate; <= 0 means DefaultHorizon.
	Horizon int
}

// Draft is an invoice that has not been persisted yet.
type Draft struct {
	DueDate time.Time
	Amount  int64
	Status  domain.InvoiceStatus
}

// GenerateSchedule returns one draft per month offset 1..Horizon, in due-date
// order. The first invoice falls in the month after the start month. Drafts
// already due before today start OVERDUE.
func GenerateSchedule(t Terms, today time.Time) []Draft {
	n := t.Horizon
	if n <= 0 {
		n = DefaultHorizon
	}
	start := calendar.DateOf(t.StartDate)
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]Draft, 0, n)
	for offset := 1; offset <= n; offset++ {
		m := calendar.AddMonths(first, offset)
		due := calendar.DueDateFor(m.Year(), m.Month(), t.BillingDay)
		out = append(out, Draft{
			DueDate: due,
			Amount:  t.Rent,
			Status:  StatusForDueDate(due, today),
		})
	}
	return out
}

// StatusForDueDate is the open status an unpaid invoice should have on
// today: OVERDUE once the due date has passed, PENDING otherwise.
func StatusForDueDate(due, today time.Time) domain.InvoiceStatus {
	if calendar.Before(due, today) {
		return domain.InvoiceOverdue
	}
	return domain.InvoicePending
}

// ToInvoices materializes drafts for a lease. newID supplies primary keys.
func ToInvoices(drafts []Draft, leaseID, landlordID string, newID func() string) []domain.Invoice {
	out := make([]domain.Invoice, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, domain.Invoice{
			ID:         newID(),
			LeaseID:    leaseID,
			LandlordID: landlordID,
			DueDate:    d.DueDate,
			Amount:     d.Amount,
			Status:     d.Status,
		})
	}
	return out
}
