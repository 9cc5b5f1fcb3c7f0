package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http/middleware"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

// ---------- stub services ----------

type stubLeases struct {
	in       services.CreateLeaseInput
	key      string
	replayed bool
	err      error
}

func (s *stubLeases) CreateWithKey(_ context.Context, in services.CreateLeaseInput, key string) (*domain.Lease, bool, error) {
	s.in, s.key = in, key
	if s.err != nil {
		return nil, false, s.err
	}
	return &domain.Lease{ID: "lease-1", LandlordID: in.LandlordID, TenantID: in.TenantID, BillingDay: in.BillingDay}, s.replayed, nil
}

func (s *stubLeases) Get(_ context.Context, landlordID, id string) (*domain.Lease, error) {
	if id != "lease-1" {
		return nil, services.ErrLeaseNotFound
	}
	return &domain.Lease{ID: id, LandlordID: landlordID}, nil
}

func (s *stubLeases) List(context.Context, string, domain.LeaseStatus) ([]domain.Lease, error) {
	return []domain.Lease{}, nil
}

func (s *stubLeases) End(context.Context, string, string) (*domain.Lease, error) {
	return nil, services.ErrLeaseEnded
}

func (s *stubLeases) UpdateTerms(context.Context, string, string, int64, int) error { return nil }
func (s *stubLeases) Delete(context.Context, string, string) error                 { return nil }

type stubInvoices struct {
	filter   repo.InvoiceFilter
	count    int64
	maxTS    *time.Time
	statsErr error
	total    int64
	markIn   services.MarkPaidInput
	declare  services.DeclareInput
	err      error
}

func (s *stubInvoices) Get(context.Context, string, string) (*domain.Invoice, error) {
	return nil, services.ErrInvoiceNotFound
}

func (s *stubInvoices) List(_ context.Context, f repo.InvoiceFilter) (*services.InvoicePage, error) {
	s.filter = f
	return &services.InvoicePage{Items: []domain.Invoice{{ID: "inv-1"}}, Total: s.total}, nil
}

func (s *stubInvoices) Stats(context.Context, repo.InvoiceFilter) (int64, *time.Time, error) {
	return s.count, s.maxTS, s.statsErr
}

func (s *stubInvoices) ListForTenant(_ context.Context, tenantID string) ([]domain.Invoice, error) {
	return []domain.Invoice{{ID: "inv-" + tenantID}}, nil
}

func (s *stubInvoices) MarkPaid(_ context.Context, _, id string, in services.MarkPaidInput) (*domain.Invoice, error) {
	s.markIn = in
	return &domain.Invoice{ID: id, Status: domain.InvoicePaid}, s.err
}

func (s *stubInvoices) UnmarkPaid(context.Context, string, string) (*domain.Invoice, error) {
	return nil, services.ErrInvalidTransition
}

func (s *stubInvoices) DeclarePayment(_ context.Context, _, id string, in services.DeclareInput) (*domain.Invoice, error) {
	s.declare = in
	return &domain.Invoice{ID: id, Status: domain.InvoicePaymentProcessing}, s.err
}

func (s *stubInvoices) ApprovePayment(context.Context, string, string) (*domain.Invoice, error) {
	return nil, services.ErrProofNotFound
}

func (s *stubInvoices) RejectPayment(_ context.Context, _, id string) (*domain.Invoice, error) {
	return &domain.Invoice{ID: id, Status: domain.InvoiceOverdue}, nil
}

type stubMessages struct {
	content string
	page    [2]int
}

func (s *stubMessages) Open(_ context.Context, tenantID, leaseID, content string) (*domain.Message, error) {
	s.content = content
	return &domain.Message{ID: "m1", LeaseID: leaseID, TenantID: tenantID, Content: content}, nil
}

func (s *stubMessages) ListPage(_ context.Context, _, _ string, page, pageSize int) ([]domain.Message, int64, error) {
	s.page = [2]int{page, pageSize}
	return []domain.Message{}, 45, nil
}

func (s *stubMessages) ListForLandlord(context.Context, string, domain.MessageStatus) ([]domain.Message, error) {
	return []domain.Message{}, nil
}

func (s *stubMessages) Reply(context.Context, string, string, string) (*domain.Message, error) {
	return nil, services.ErrMessageNotFound
}

func (s *stubMessages) Close(context.Context, string, string) error { return services.ErrInvalidTransition }

type runOverdue struct {
	res worker.OverdueResult
	err error
}

func (r runOverdue) Run(context.Context) (worker.OverdueResult, error) { return r.res, r.err }

type runReminders struct {
	res worker.ReminderResult
	err error
}

func (r runReminders) Run(context.Context) (worker.ReminderResult, error) { return r.res, r.err }

// ---------- harness ----------

var stubToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

// testRouter mounts every handler with the identity middleware the real
// router uses.
func testRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())

	api := r.Group("", middleware.RequireLandlord())
	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms", h.ListRooms)
	api.DELETE("/rooms/:id", h.DeleteRoom)
	api.POST("/tenants", h.CreateTenant)
	api.GET("/tenants", h.ListTenants)
	api.POST("/leases", h.CreateLease)
	api.GET("/leases", h.ListLeases)
	api.GET("/leases/:id", h.GetLease)
	api.POST("/leases/:id/end", h.EndLease)
	api.PATCH("/leases/:id/terms", h.UpdateLeaseTerms)
	api.DELETE("/leases/:id", h.DeleteLease)
	api.GET("/invoices", h.ListInvoices)
	api.GET("/invoices/:id", h.GetInvoice)
	api.POST("/invoices/:id/mark-paid", h.MarkPaid)
	api.POST("/invoices/:id/unmark-paid", h.UnmarkPaid)
	api.POST("/invoices/:id/approve", h.ApprovePayment)
	api.POST("/invoices/:id/reject", h.RejectPayment)
	api.GET("/messages", h.LandlordMessages)
	api.POST("/messages/:id/reply", h.ReplyMessage)
	api.POST("/messages/:id/close", h.CloseMessage)
	api.POST("/expenses", h.CreateExpense)
	api.GET("/expenses", h.ListExpenses)
	api.POST("/expenses/:id/approve", h.ApproveExpense)
	api.POST("/expenses/:id/reject", h.RejectExpense)

	tenant := r.Group("/tenant", middleware.RequireTenant())
	tenant.GET("/invoices", h.TenantInvoices)
	tenant.POST("/invoices/:id/declare", h.DeclarePayment)
	tenant.GET("/balance", h.TenantBalance)
	tenant.POST("/leases/:id/messages", h.PostMessage)
	tenant.GET("/leases/:id/messages", h.ListMessages)

	r.POST("/worker/recompute-overdue", h.RecomputeOverdue)
	r.POST("/worker/send-whatsapp-reminders", h.SendReminders)
	return r
}

// do sends a request. hdr holds header name/value pairs.
func do(r http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func asLandlord(id string) []string { return []string{middleware.HeaderLandlordID, id} }
func asTenant(id string) []string   { return []string{middleware.HeaderTenantID, id} }

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("json: %v (%s)", err, w.Body.String())
	}
	return v
}
