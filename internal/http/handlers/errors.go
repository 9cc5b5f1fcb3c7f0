// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them. Generic
// codes mirror HTTP status semantics, domain codes name the rental rule that
// rejected the request.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "room_unavailable",
//	  "message": "rooms not available: Room 2"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeRoomUnavailable   = "room_unavailable"
	ErrCodeRoomInUse         = "room_in_use"
	ErrCodeLeaseEnded        = "lease_ended"
	ErrCodeAlreadyPaid       = "already_paid"
	ErrCodeProofNotFound     = "proof_not_found"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeJobFailed         = "job_failed"
)

// errorMapping pairs a service sentinel with its HTTP status and code.
type errorMapping struct {
	err    error
	status int
	code   string
}

// serviceErrors is checked in order with errors.Is.
var serviceErrors = []errorMapping{
	{services.ErrRoomNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrLeaseNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrTenantNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrInvoiceNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrMessageNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrExpenseNotFound, http.StatusNotFound, ErrCodeNotFound},

	{services.ErrProofNotFound, http.StatusConflict, ErrCodeProofNotFound},
	{services.ErrAlreadyPaid, http.StatusConflict, ErrCodeAlreadyPaid},
	{services.ErrLeaseEnded, http.StatusConflict, ErrCodeLeaseEnded},
	{services.ErrRoomInUse, http.StatusConflict, ErrCodeRoomInUse},
	{services.ErrInvalidTransition, http.StatusConflict, ErrCodeInvalidTransition},
	{services.ErrConflict, http.StatusConflict, ErrCodeConflict},

	{services.ErrInvalidInput, http.StatusBadRequest, ErrCodeValidation},
	{services.ErrNoRooms, http.StatusBadRequest, ErrCodeValidation},
	{services.ErrBillingDay, http.StatusBadRequest, ErrCodeValidation},
	{services.ErrNegativeRent, http.StatusBadRequest, ErrCodeValidation},
	{services.ErrEmptyContent, http.StatusBadRequest, ErrCodeValidation},
	{services.ErrTooLong, http.StatusBadRequest, ErrCodeValidation},
}

// failErr translates a service error into the error envelope. Known errors
// surface their message; anything else is a 500 with a generic message and
// the cause logged.
func failErr(c *gin.Context, err error) {
	var unavailable *services.RoomUnavailableError
	if errors.As(err, &unavailable) {
		fail(c, http.StatusConflict, ErrCodeRoomUnavailable, unavailable.Error())
		return
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			fail(c, m.status, m.code, err.Error())
			return
		}
	}
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}
