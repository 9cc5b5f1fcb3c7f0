// Package services defines the business logic for rooms, leases, invoices,
// payments, incident messages and expenses. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"strings"
)

// Not-found errors. Records owned by another landlord or tenant are reported
// the same way as missing ones.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrLeaseNotFound   = errors.New("lease not found")
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrProofNotFound is returned when approving or rejecting an invoice
	// that has no pending payment proof.
	ErrProofNotFound = errors.New("payment proof not found")
)

// State-conflict errors.
var (
	// ErrInvalidTransition is wrapped around billing.TransitionError and the
	// other status-guard failures.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyPaid is returned when declaring or marking payment on an
	// invoice that is already PAID.
	ErrAlreadyPaid = errors.New("invoice already paid")

	// ErrLeaseEnded is returned when ending a lease that is not ACTIVE.
	ErrLeaseEnded = errors.New("lease already ended")

	// ErrRoomInUse is returned when deleting a room referenced by any lease.
	ErrRoomInUse = errors.New("room is referenced by a lease")

	// ErrConflict is returned when a guarded write matched no row because a
	// concurrent request changed the record first.
	ErrConflict = errors.New("concurrent modification")
)

// Validation errors.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoRooms      = errors.New("a lease needs at least one room")
	ErrBillingDay   = errors.New("billing day must be between 1 and 31")
	ErrNegativeRent = errors.New("amount must not be negative")
	ErrEmptyContent = errors.New("content is empty")
	ErrTooLong      = errors.New("content too long")
)

// RoomUnavailableError names the requested rooms that are not AVAILABLE.
type RoomUnavailableError struct {
	Rooms []string
}

func (e *RoomUnavailableError) Error() string {
	return "rooms not available: " + strings.Join(e.Rooms, ", ")
}
