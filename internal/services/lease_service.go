// Package services – LeaseService
//
// This file implements the lease lifecycle: create, end and delete. Each
// operation is one transaction. Create validates the requested rooms, links
// them, flips them to OCCUPIED and persists the whole invoice schedule; any
// failure rolls every write back. Delete runs the repository's explicit
// deletion plan.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/billing"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// Test seams.
var (
	createInvoices = repo.CreateInvoices
	newID          = uuid.NewString
)

// idempotencyScopeLease namespaces Idempotency-Key records for lease creation.
const idempotencyScopeLease = "leases"

// CreateLeaseInput carries everything needed to open a lease.
type CreateLeaseInput struct {
	LandlordID string
	TenantID   string
	RoomIDs    []string
	StartDate  time.Time
	RentAmount int64
	BillingDay int
	// Horizon overrides the service default number of invoices.
	Horizon int
}

// LeaseService owns the lease lifecycle.
type LeaseService struct {
	DB    *gorm.DB
	Clock calendar.Clock

	// Horizon is the default number of monthly invoices per lease.
	Horizon int
	// IdempotencyTTL bounds how long a creation key can be replayed.
	IdempotencyTTL time.Duration
}

// NewLeaseService constructs a LeaseService with the default horizon.
func NewLeaseService(db *gorm.DB, clock calendar.Clock) *LeaseService {
	return &LeaseService{DB: db, Clock: clock, Horizon: billing.DefaultHorizon, IdempotencyTTL: 24 * time.Hour}
}

func (s *LeaseService) today() time.Time {
	return calendar.Today(s.Clock)
}

// Create opens a lease. It is CreateWithKey without an idempotency key.
func (s *LeaseService) Create(ctx context.Context, in CreateLeaseInput) (*domain.Lease, error) {
	l, _, err := s.CreateWithKey(ctx, in, "")
	return l, err
}

// CreateWithKey opens a lease, flips its rooms to OCCUPIED and persists its
// invoice schedule in one transaction. When key is non-empty and a previous
// creation by the same landlord used it, that lease is returned instead and
// replayed is true.
func (s *LeaseService) CreateWithKey(ctx context.Context, in CreateLeaseInput, key string) (lease *domain.Lease, replayed bool, err error) {
	tr := otel.Tracer("services/LeaseService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("landlord.id", in.LandlordID),
			attribute.Int("rooms", len(in.RoomIDs)),
		),
	)
	defer span.End()

	if key != "" {
		if rec, err := repo.GetIdempotency(ctx, s.DB, in.LandlordID, idempotencyScopeLease, key, time.Now().UTC()); err == nil {
			if prev, err := repo.GetLease(ctx, s.DB, rec.ResourceID, in.LandlordID); err == nil {
				return prev, true, nil
			}
		}
	}

	roomIDs, err := validateLeaseInput(&in)
	if err != nil {
		return nil, false, err
	}
	horizon := in.Horizon
	if horizon <= 0 {
		horizon = s.Horizon
	}

	l := &domain.Lease{
		ID:         newID(),
		LandlordID: in.LandlordID,
		TenantID:   in.TenantID,
		StartDate:  calendar.DateOf(in.StartDate),
		RentAmount: in.RentAmount,
		BillingDay: in.BillingDay,
		Status:     domain.LeaseActive,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetTenantProfile(ctx, tx, in.TenantID, in.LandlordID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTenantNotFound
			}
			return err
		}

		rooms, err := repo.GetRoomsByIDs(ctx, tx, in.LandlordID, roomIDs)
		if err != nil {
			return err
		}
		if err := checkRoomsAvailable(roomIDs, rooms); err != nil {
			return err
		}

		if err := repo.CreateLease(ctx, tx, l, roomIDs); err != nil {
			return err
		}
		n, err := repo.SetRoomsStatus(ctx, tx, roomIDs, domain.RoomAvailable, domain.RoomOccupied)
		if err != nil {
			return err
		}
		if int(n) != len(roomIDs) {
			return fmt.Errorf("%w: rooms changed while creating the lease", ErrConflict)
		}
		for i := range rooms {
			rooms[i].Status = domain.RoomOccupied
		}
		l.Rooms = rooms

		drafts := billing.GenerateSchedule(billing.Terms{
			StartDate:  l.StartDate,
			BillingDay: l.BillingDay,
			Rent:       l.RentAmount,
			Horizon:    horizon,
		}, s.today())
		if err := createInvoices(ctx, tx, billing.ToInvoices(drafts, l.ID, l.LandlordID, newID)); err != nil {
			return err
		}

		if key != "" {
			if _, err := repo.CreateIdempotency(ctx, tx, in.LandlordID, idempotencyScopeLease, key, l.ID, http.StatusCreated, s.ttl()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Two requests raced with the same key; serve the winner.
		if key != "" && errors.Is(err, repo.ErrDuplicate) {
			if rec, gerr := repo.GetIdempotency(ctx, s.DB, in.LandlordID, idempotencyScopeLease, key, time.Now().UTC()); gerr == nil {
				if prev, gerr := repo.GetLease(ctx, s.DB, rec.ResourceID, in.LandlordID); gerr == nil {
					return prev, true, nil
				}
			}
		}
		return nil, false, err
	}
	return l, false, nil
}

func (s *LeaseService) ttl() time.Duration {
	if s.IdempotencyTTL > 0 {
		return s.IdempotencyTTL
	}
	return 24 * time.Hour
}

// validateLeaseInput checks the scalar fields and returns the de-duplicated
// room ids in request order.
func validateLeaseInput(in *CreateLeaseInput) ([]string, error) {
	if strings.TrimSpace(in.LandlordID) == "" || strings.TrimSpace(in.TenantID) == "" {
		return nil, fmt.Errorf("%w: landlord and tenant are required", ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if in.BillingDay < 1 || in.BillingDay > 31 {
		return nil, ErrBillingDay
	}
	if in.RentAmount < 0 {
		return nil, ErrNegativeRent
	}
	seen := make(map[string]bool, len(in.RoomIDs))
	ids := make([]string, 0, len(in.RoomIDs))
	for _, id := range in.RoomIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNoRooms
	}
	return ids, nil
}

// checkRoomsAvailable fails with ErrRoomNotFound for ids the landlord does
// not own and with *RoomUnavailableError for rooms that are not AVAILABLE.
func checkRoomsAvailable(ids []string, rooms []domain.Room) error {
	byID := make(map[string]domain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	var missing, busy []string
	for _, id := range ids {
		r, ok := byID[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case r.Status != domain.RoomAvailable:
			busy = append(busy, r.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, strings.Join(missing, ", "))
	}
	if len(busy) > 0 {
		sort.Strings(busy)
		return &RoomUnavailableError{Rooms: busy}
	}
	return nil
}

// Get returns a lease of the landlord with its rooms.
func (s *LeaseService) Get(ctx context.Context, landlordID, id string) (*domain.Lease, error) {
	l, err := repo.GetLease(ctx, s.DB, id, landlordID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeaseNotFound
	}
	return l, err
}

// List returns the landlord's leases, optionally filtered by status.
func (s *LeaseService) List(ctx context.Context, landlordID string, status domain.LeaseStatus) ([]domain.Lease, error) {
	return repo.ListLeases(ctx, s.DB, landlordID, status)
}

// End marks an ACTIVE lease ENDED as of today and frees its rooms. Existing
// invoices are left as they are.
func (s *LeaseService) End(ctx context.Context, landlordID, id string) (*domain.Lease, error) {
	tr := otel.Tracer("services/LeaseService")
	ctx, span := tr.Start(ctx, "End", trace.WithAttributes(attribute.String("lease.id", id)))
	defer span.End()

	var out *domain.Lease
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := repo.EndLease(ctx, tx, id, landlordID, s.today())
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := repo.GetLease(ctx, tx, id, landlordID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrLeaseNotFound
				}
				return err
			}
			return ErrLeaseEnded
		}
		roomIDs, err := repo.LeaseRoomIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := repo.SetRoomsStatus(ctx, tx, roomIDs, domain.RoomOccupied, domain.RoomAvailable); err != nil {
			return err
		}
		out, err = repo.GetLease(ctx, tx, id, landlordID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTerms edits rent and billing day. Already generated invoices keep
// their amounts and due dates.
func (s *LeaseService) UpdateTerms(ctx context.Context, landlordID, id string, rent int64, billingDay int) error {
	if billingDay < 1 || billingDay > 31 {
		return ErrBillingDay
	}
	if rent < 0 {
		return ErrNegativeRent
	}
	err := repo.UpdateLeaseTerms(ctx, s.DB, id, landlordID, rent, billingDay)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLeaseNotFound
	}
	return err
}

// Delete removes a lease and everything hanging off it. Rooms of an ACTIVE
// lease return to AVAILABLE. This is irreversible.
func (s *LeaseService) Delete(ctx context.Context, landlordID, id string) error {
	tr := otel.Tracer("services/LeaseService")
	ctx, span := tr.Start(ctx, "Delete", trace.WithAttributes(attribute.String("lease.id", id)))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := repo.PlanLeaseDeletion(ctx, tx, id, landlordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeaseNotFound
			}
			return err
		}
		span.SetAttributes(attribute.Int("invoices", len(plan.InvoiceIDs)))
		if err := plan.Execute(ctx, tx); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeaseNotFound
			}
			return err
		}
		return nil
	})
}
