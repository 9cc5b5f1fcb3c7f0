// Lease HTTP handlers.
//
//   - POST   /leases              (create; Idempotency-Key aware)
//   - GET    /leases              (list, optional ?status=ACTIVE|ENDED)
//   - GET    /leases/{id}         (detail with rooms)
//   - POST   /leases/{id}/end     (end; rooms return to AVAILABLE)
//   - PATCH  /leases/{id}/terms   (edit rent and billing day for future invoices)
//   - DELETE /leases/{id}         (delete lease, invoices, payments and logs)
//
// Idempotency:
// When the client sends an Idempotency-Key and the same landlord already
// created a lease with it, the first lease is returned with 200 and
// `Idempotency-Replayed: true` instead of 201.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http/middleware"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
)

// CreateLeaseRequest is the JSON payload for opening a lease.
type CreateLeaseRequest struct {
	TenantID string   `json:"tenant_id"   binding:"required" example:"5b0e2c1a-8f9d-4a63-9f3e-2a1d0c9b8e7f"`
	RoomIDs  []string `json:"room_ids"    binding:"required,min=1" example:"c0a8012e-7d3b-4c55-a0c2-91b2f1e4d6aa"`
	// StartDate defaults to today's business date.
	StartDate string `json:"start_date"  binding:"omitempty,isodate" example:"2025-01-15"`
	// RentAmount is in minor currency units.
	RentAmount int64 `json:"rent_amount" example:"45000"`
	BillingDay int   `json:"billing_day" binding:"required,billingday" example:"5"`
}

// UpdateTermsRequest is the JSON payload for editing lease terms.
type UpdateTermsRequest struct {
	RentAmount int64 `json:"rent_amount" example:"47000"`
	BillingDay int   `json:"billing_day" binding:"required,billingday" example:"1"`
}

// ListLeasesResponse wraps the landlord's leases.
type ListLeasesResponse struct {
	Leases []domain.Lease `json:"leases"`
}

// parseDateOr parses an optional YYYY-MM-DD value, falling back to def.
func parseDateOr(s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return calendar.Parse(s)
}

// CreateLease godoc
// @ID          createLease
// @Summary     Open a lease
// @Description Validates rooms and tenant, flips the rooms to OCCUPIED and generates the invoice
// @Description schedule in one transaction. A repeated Idempotency-Key returns the first lease.
// @Tags        Leases
// @Accept      json
// @Produce     json
// @Param       X-Landlord-ID    header  string  true   "Acting landlord"
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreateLeaseRequest  true  "Lease"
// @Success     201  {object}  domain.Lease  "Created"
// @Success     200  {object}  domain.Lease  "Replayed"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Tenant or room not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Room unavailable"
// @Router      /leases [post]
func (h *Handlers) CreateLease(c *gin.Context) {
	var req CreateLeaseRequest
	if !bindJSON(c, &req) {
		return
	}
	start, err := parseDateOr(req.StartDate, h.svc.Today())
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "start_date must be a YYYY-MM-DD date")
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	lease, replayed, err := h.svc.Leases.CreateWithKey(c.Request.Context(), services.CreateLeaseInput{
		LandlordID: landlordID(c),
		TenantID:   req.TenantID,
		RoomIDs:    req.RoomIDs,
		StartDate:  start,
		RentAmount: req.RentAmount,
		BillingDay: req.BillingDay,
	}, key)
	if err != nil {
		failErr(c, err)
		return
	}
	if replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
		ok(c, http.StatusOK, lease)
		return
	}
	ok(c, http.StatusCreated, lease)
}

// ListLeases godoc
// @ID          listLeases
// @Summary     List leases
// @Tags        Leases
// @Produce     json
// @Param       X-Landlord-ID  header  string  true   "Acting landlord"
// @Param       status         query   string  false  "Filter by status"  Enums(ACTIVE, ENDED)
// @Success     200  {object}  handlers.ListLeasesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad status"
// @Router      /leases [get]
func (h *Handlers) ListLeases(c *gin.Context) {
	status := domain.LeaseStatus(strings.ToUpper(c.Query("status")))
	switch status {
	case "", domain.LeaseActive, domain.LeaseEnded:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be ACTIVE or ENDED")
		return
	}
	items, err := h.svc.Leases.List(c.Request.Context(), landlordID(c), status)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListLeasesResponse{Leases: items})
}

// GetLease godoc
// @ID          getLease
// @Summary     Get a lease
// @Tags        Leases
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Lease ID"  format(uuid)
// @Success     200  {object}  domain.Lease
// @Failure     404  {object}  handlers.ErrorResponse  "Lease not found"
// @Router      /leases/{id} [get]
func (h *Handlers) GetLease(c *gin.Context) {
	l, err := h.svc.Leases.Get(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, l)
}

// EndLease godoc
// @ID          endLease
// @Summary     End a lease
// @Description Stamps the end date and returns the lease's rooms to AVAILABLE. Invoices are kept.
// @Tags        Leases
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Lease ID"  format(uuid)
// @Success     200  {object}  domain.Lease
// @Failure     404  {object}  handlers.ErrorResponse  "Lease not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Lease already ended"
// @Router      /leases/{id}/end [post]
func (h *Handlers) EndLease(c *gin.Context) {
	l, err := h.svc.Leases.End(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, l)
}

// UpdateLeaseTerms godoc
// @ID          updateLeaseTerms
// @Summary     Edit lease terms
// @Description Applies to invoices generated later; existing invoices keep their amount and due date.
// @Tags        Leases
// @Accept      json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Lease ID"  format(uuid)
// @Param       body           body    handlers.UpdateTermsRequest  true  "Terms"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Lease not found"
// @Router      /leases/{id}/terms [patch]
func (h *Handlers) UpdateLeaseTerms(c *gin.Context) {
	var req UpdateTermsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Leases.UpdateTerms(c.Request.Context(), landlordID(c), c.Param("id"), req.RentAmount, req.BillingDay); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// DeleteLease godoc
// @ID          deleteLease
// @Summary     Delete a lease
// @Description Irreversible. Removes invoices, payments, proofs, messages and reminder logs.
// @Tags        Leases
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Lease ID"  format(uuid)
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse  "Lease not found"
// @Router      /leases/{id} [delete]
func (h *Handlers) DeleteLease(c *gin.Context) {
	if err := h.svc.Leases.Delete(c.Request.Context(), landlordID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
