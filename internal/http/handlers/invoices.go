// Invoice HTTP handlers.
//
// Landlord:
//   - GET  /invoices                    (list, paginated, ETag support)
//   - GET  /invoices/{id}               (detail)
//   - POST /invoices/{id}/mark-paid     (PENDING|OVERDUE -> PAID)
//   - POST /invoices/{id}/unmark-paid   (PAID -> PENDING|OVERDUE by due date)
//   - POST /invoices/{id}/approve       (PAYMENT_PROCESSING -> PAID)
//   - POST /invoices/{id}/reject        (PAYMENT_PROCESSING -> PENDING|OVERDUE)
//
// Tenant:
//   - GET  /tenant/invoices               (own invoices across leases)
//   - POST /tenant/invoices/{id}/declare  (PENDING|OVERDUE -> PAYMENT_PROCESSING)
//   - GET  /tenant/balance                (outstanding totals)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/utils"
)

const (
	defaultInvoicePageSize = 20
	maxInvoicePageSize     = 100
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(p utils.Page, total int64) Pagination {
	pages := p.TotalPages(total)
	return Pagination{
		Page:       p.Number,
		PageSize:   p.Size,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Number < pages,
	}
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices   []domain.Invoice `json:"invoices"`
	Pagination Pagination       `json:"pagination"`
}

// TenantInvoicesResponse wraps a tenant's invoices.
type TenantInvoicesResponse struct {
	Invoices []domain.Invoice `json:"invoices"`
}

// MarkPaidRequest is the JSON payload for a manual settlement.
type MarkPaidRequest struct {
	Method string `json:"method" binding:"required" example:"BANK_TRANSFER"`
	// PaidDate defaults to today's business date.
	PaidDate string  `json:"paid_date" binding:"omitempty,isodate" example:"2025-02-03"`
	Note     *string `json:"note,omitempty" binding:"omitempty,max=1000" example:"Paid in two transfers"`
}

// DeclarePaymentRequest is the JSON payload for a tenant payment declaration.
type DeclarePaymentRequest struct {
	Method string  `json:"method" binding:"required" example:"BIZUM"`
	Notes  *string `json:"notes,omitempty" binding:"omitempty,max=1000" example:"Sent from my sister's account"`
}

// invoiceStatusParam parses an optional status filter.
func invoiceStatusParam(raw string) (domain.InvoiceStatus, bool) {
	s := domain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case "", domain.InvoicePending, domain.InvoiceOverdue, domain.InvoicePaymentProcessing, domain.InvoicePaid:
		return s, true
	}
	return "", false
}

// ListInvoices godoc
// @ID          listInvoices
// @Summary     List invoices
// @Description Paginated, ordered by due date. Responds 304 when If-None-Match matches the list ETag.
// @Tags        Invoices
// @Produce     json
// @Param       X-Landlord-ID  header  string  true   "Acting landlord"
// @Param       status         query   string  false  "Filter by status"  Enums(PENDING, OVERDUE, PAYMENT_PROCESSING, PAID)
// @Param       lease_id       query   string  false  "Filter by lease"   format(uuid)
// @Param       page           query   int     false  "Page number"       minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"    minimum(1) maximum(100) default(20)
// @Param       If-None-Match  header  string  false  "ETag from a previous list"
// @Success     200  {object}  handlers.ListInvoicesResponse
// @Success     304  "Not modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /invoices [get]
func (h *Handlers) ListInvoices(c *gin.Context) {
	ctx := c.Request.Context()
	status, valid := invoiceStatusParam(c.Query("status"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown invoice status")
		return
	}
	filter := repo.InvoiceFilter{
		LandlordID: landlordID(c),
		LeaseID:    strings.TrimSpace(c.Query("lease_id")),
		Status:     status,
	}

	// ETag pre-check (best effort).
	if count, maxTS, err := h.svc.Invoices.Stats(ctx, filter); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"invoices:%s:%s:%s:%d:%d"`, filter.LandlordID, filter.LeaseID, filter.Status, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	p := utils.ParsePage(c.Query("page"), c.Query("page_size"), defaultInvoicePageSize, maxInvoicePageSize)
	filter.Offset, filter.Limit = p.Offset(), p.Size
	page, err := h.svc.Invoices.List(ctx, filter)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListInvoicesResponse{Invoices: page.Items, Pagination: newPagination(p, page.Total)})
}

// GetInvoice godoc
// @ID          getInvoice
// @Summary     Get an invoice
// @Tags        Invoices
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Invoice ID"  format(uuid)
// @Success     200  {object}  domain.Invoice
// @Failure     404  {object}  handlers.ErrorResponse  "Invoice not found"
// @Router      /invoices/{id} [get]
func (h *Handlers) GetInvoice(c *gin.Context) {
	inv, err := h.svc.Invoices.Get(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// MarkPaid godoc
// @ID          markInvoicePaid
// @Summary     Mark an invoice paid
// @Description Records a Payment for the full amount. Only PENDING or OVERDUE invoices qualify.
// @Tags        Invoices
// @Accept      json
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Invoice ID"  format(uuid)
// @Param       body           body    handlers.MarkPaidRequest  true  "Settlement"
// @Success     200  {object}  domain.Invoice
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Invoice not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /invoices/{id}/mark-paid [post]
func (h *Handlers) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if !bindJSON(c, &req) {
		return
	}
	paid, err := parseDateOr(req.PaidDate, h.svc.Today())
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "paid_date must be a YYYY-MM-DD date")
		return
	}
	inv, err := h.svc.Invoices.MarkPaid(c.Request.Context(), landlordID(c), c.Param("id"), services.MarkPaidInput{
		Method:   req.Method,
		PaidDate: paid,
		Note:     req.Note,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// UnmarkPaid godoc
// @ID          unmarkInvoicePaid
// @Summary     Revert a payment
// @Description Deletes the Payment and returns the invoice to PENDING, or OVERDUE when its due date has passed.
// @Tags        Invoices
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Invoice ID"  format(uuid)
// @Success     200  {object}  domain.Invoice
// @Failure     404  {object}  handlers.ErrorResponse  "Invoice not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /invoices/{id}/unmark-paid [post]
func (h *Handlers) UnmarkPaid(c *gin.Context) {
	inv, err := h.svc.Invoices.UnmarkPaid(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// ApprovePayment godoc
// @ID          approvePayment
// @Summary     Approve a declared payment
// @Tags        Invoices
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Invoice ID"  format(uuid)
// @Success     200  {object}  domain.Invoice
// @Failure     404  {object}  handlers.ErrorResponse  "Invoice not found"
// @Failure     409  {object}  handlers.ErrorResponse  "No pending proof"
// @Router      /invoices/{id}/approve [post]
func (h *Handlers) ApprovePayment(c *gin.Context) {
	inv, err := h.svc.Invoices.ApprovePayment(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// RejectPayment godoc
// @ID          rejectPayment
// @Summary     Reject a declared payment
// @Tags        Invoices
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Invoice ID"  format(uuid)
// @Success     200  {object}  domain.Invoice
// @Failure     404  {object}  handlers.ErrorResponse  "Invoice not found"
// @Failure     409  {object}  handlers.ErrorResponse  "No pending proof"
// @Router      /invoices/{id}/reject [post]
func (h *Handlers) RejectPayment(c *gin.Context) {
	inv, err := h.svc.Invoices.RejectPayment(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// TenantInvoices godoc
// @ID          tenantInvoices
// @Summary     List my invoices
// @Tags        Tenant
// @Produce     json
// @Param       X-Tenant-ID  header  string  true  "Acting tenant profile"
// @Success     200  {object}  handlers.TenantInvoicesResponse
// @Router      /tenant/invoices [get]
func (h *Handlers) TenantInvoices(c *gin.Context) {
	items, err := h.svc.Invoices.ListForTenant(c.Request.Context(), tenantID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TenantInvoicesResponse{Invoices: items})
}

// DeclarePayment godoc
// @ID          declarePayment
// @Summary     Declare a payment
// @Description Files a payment proof and moves the invoice to PAYMENT_PROCESSING for landlord review.
// @Tags        Tenant
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  true  "Acting tenant profile"
// @Param       id           path    string  true  "Invoice ID"  format(uuid)
// @Param       body         body    handlers.DeclarePaymentRequest  true  "Declaration"
// @Success     200  {object}  domain.Invoice
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Invoice not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Invalid transition"
// @Router      /tenant/invoices/{id}/declare [post]
func (h *Handlers) DeclarePayment(c *gin.Context) {
	var req DeclarePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.svc.Invoices.DeclarePayment(c.Request.Context(), tenantID(c), c.Param("id"), services.DeclareInput{
		Method: req.Method,
		Notes:  req.Notes,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// TenantBalance godoc
// @ID          tenantBalance
// @Summary     My balance
// @Tags        Tenant
// @Produce     json
// @Param       X-Tenant-ID  header  string  true  "Acting tenant profile"
// @Success     200  {object}  services.Balance
// @Failure     404  {object}  handlers.ErrorResponse  "Tenant not found"
// @Router      /tenant/balance [get]
func (h *Handlers) TenantBalance(c *gin.Context) {
	b, err := h.svc.Tenants.Balance(c.Request.Context(), tenantID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}
