// Package handlers exposes the rental API over Gin.
//
// Handlers are transport-thin: they bind and validate input, resolve the
// acting landlord or tenant from the request, call an application service
// and translate the result into a response or an ErrorResponse envelope.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http/middleware"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

//
// Service contracts (context-aware)
//

// RoomService manages a landlord's rooms.
type RoomService interface {
	Create(ctx context.Context, landlordID, name string) (*domain.Room, error)
	List(ctx context.Context, landlordID string) ([]domain.Room, error)
	// Delete fails with ErrRoomInUse when any lease references the room.
	Delete(ctx context.Context, landlordID, id string) error
}

// TenantService manages tenant profiles and the balance view.
type TenantService interface {
	CreateProfile(ctx context.Context, in services.CreateProfileInput) (*domain.TenantProfile, error)
	ListProfiles(ctx context.Context, landlordID string) ([]domain.TenantProfile, error)
	Balance(ctx context.Context, tenantID string) (*services.Balance, error)
}

// LeaseService drives the lease lifecycle.
//
// Implementations must be safe for concurrent use and honor ctx.
type LeaseService interface {
	// CreateWithKey creates a lease once per (landlord, key). A repeated key
	// returns the lease created first with replayed=true.
	CreateWithKey(ctx context.Context, in services.CreateLeaseInput, key string) (*domain.Lease, bool, error)
	Get(ctx context.Context, landlordID, id string) (*domain.Lease, error)
	List(ctx context.Context, landlordID string, status domain.LeaseStatus) ([]domain.Lease, error)
	End(ctx context.Context, landlordID, id string) (*domain.Lease, error)
	UpdateTerms(ctx context.Context, landlordID, id string, rent int64, billingDay int) error
	Delete(ctx context.Context, landlordID, id string) error
}

// InvoiceService drives invoice status transitions.
type InvoiceService interface {
	Get(ctx context.Context, landlordID, id string) (*domain.Invoice, error)
	List(ctx context.Context, f repo.InvoiceFilter) (*services.InvoicePage, error)
	// Stats returns the row count and latest update for the filter; it backs
	// the list ETag.
	Stats(ctx context.Context, f repo.InvoiceFilter) (int64, *time.Time, error)
	ListForTenant(ctx context.Context, tenantID string) ([]domain.Invoice, error)
	MarkPaid(ctx context.Context, landlordID, id string, in services.MarkPaidInput) (*domain.Invoice, error)
	UnmarkPaid(ctx context.Context, landlordID, id string) (*domain.Invoice, error)
	DeclarePayment(ctx context.Context, tenantID, id string, in services.DeclareInput) (*domain.Invoice, error)
	ApprovePayment(ctx context.Context, landlordID, id string) (*domain.Invoice, error)
	RejectPayment(ctx context.Context, landlordID, id string) (*domain.Invoice, error)
}

// MessageService handles incident tickets.
type MessageService interface {
	Open(ctx context.Context, tenantID, leaseID, content string) (*domain.Message, error)
	ListPage(ctx context.Context, tenantID, leaseID string, page, pageSize int) ([]domain.Message, int64, error)
	ListForLandlord(ctx context.Context, landlordID string, status domain.MessageStatus) ([]domain.Message, error)
	Reply(ctx context.Context, landlordID, id, reply string) (*domain.Message, error)
	Close(ctx context.Context, landlordID, id string) error
}

// ExpenseService implements the expense review flow.
type ExpenseService interface {
	Create(ctx context.Context, in services.ExpenseInput) (*domain.Expense, error)
	List(ctx context.Context, landlordID string, status domain.ExpenseStatus) ([]domain.Expense, error)
	Approve(ctx context.Context, landlordID, id string) (*domain.Expense, error)
	Reject(ctx context.Context, landlordID, id string) (*domain.Expense, error)
}

// OverdueRunner runs one overdue sweep.
type OverdueRunner interface {
	Run(ctx context.Context) (worker.OverdueResult, error)
}

// ReminderRunner runs one reminder dispatch.
type ReminderRunner interface {
	Run(ctx context.Context) (worker.ReminderResult, error)
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers. Nil members are allowed in
// tests as long as the matching routes are not exercised.
type Services struct {
	Rooms    RoomService
	Tenants  TenantService
	Leases   LeaseService
	Invoices InvoiceService
	Messages MessageService
	Expenses ExpenseService

	Overdue   OverdueRunner
	Reminders ReminderRunner

	// WorkerSecret authenticates the /worker endpoints. Empty rejects all
	// worker calls.
	WorkerSecret string
	// Today returns the current business date; used to default form dates.
	Today func() time.Time
}

// Handlers groups every HTTP endpoint of the API.
type Handlers struct {
	svc Services
}

// New constructs Handlers bound to svc and registers the custom validators.
func New(svc Services) *Handlers {
	registerValidators()
	if svc.Today == nil {
		svc.Today = func() time.Time {
			y, m, d := time.Now().UTC().Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		}
	}
	return &Handlers{svc: svc}
}

// landlordID reads the acting landlord resolved by RequireLandlord.
func landlordID(c *gin.Context) string { return middleware.LandlordID(c) }

// tenantID reads the acting tenant profile resolved by RequireTenant.
func tenantID(c *gin.Context) string { return middleware.TenantID(c) }
