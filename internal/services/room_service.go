// Package services – RoomService and TenantService
//
// Rooms and tenant profiles are the landlord's inventory. Rooms flip between
// AVAILABLE and OCCUPIED only through the lease lifecycle; the service here
// covers creation, listing and guarded deletion. TenantService adds the
// tenant-facing balance view.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

const maxNameRunes = 255

// RoomService manages a landlord's rooms.
type RoomService struct {
	DB *gorm.DB
}

// Create adds an AVAILABLE room.
func (s *RoomService) Create(ctx context.Context, landlordID, name string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		return nil, ErrTooLong
	}
	return repo.CreateRoom(ctx, s.DB, landlordID, name)
}

// List returns the landlord's rooms.
func (s *RoomService) List(ctx context.Context, landlordID string) ([]domain.Room, error) {
	return repo.ListRooms(ctx, s.DB, landlordID)
}

// Delete removes a room that no lease has ever referenced.
func (s *RoomService) Delete(ctx context.Context, landlordID, id string) error {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "Delete", trace.WithAttributes(attribute.String("room.id", id)))
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetRoom(ctx, tx, id, landlordID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		inUse, err := repo.RoomInUse(ctx, tx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrRoomInUse
		}
		if err := repo.DeleteRoom(ctx, tx, id, landlordID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		return nil
	})
}

// Balance is a tenant's position across all their leases.
type Balance struct {
	TenantID string `json:"tenant_id"`
	// Outstanding sums every invoice that is not PAID.
	Outstanding int64      `json:"outstanding"`
	Overdue     int64      `json:"overdue"`
	Processing  int64      `json:"processing"`
	Paid        int64      `json:"paid"`
	OpenCount   int64      `json:"open_count"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
}

// TenantService manages tenant profiles and the tenant balance view.
type TenantService struct {
	DB *gorm.DB
}

// CreateProfileInput carries the fields of a new tenant profile.
type CreateProfileInput struct {
	LandlordID    string
	UserID        string
	DisplayName   string
	Phone         string
	Email         string
	WhatsAppOptIn bool
}

// CreateProfile adds a tenant profile for the landlord.
func (s *TenantService) CreateProfile(ctx context.Context, in CreateProfileInput) (*domain.TenantProfile, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.DisplayName == "" || strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("%w: user id and display name are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.DisplayName) > maxNameRunes {
		return nil, ErrTooLong
	}
	tp := &domain.TenantProfile{
		LandlordID:    in.LandlordID,
		UserID:        strings.TrimSpace(in.UserID),
		DisplayName:   in.DisplayName,
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		WhatsAppOptIn: in.WhatsAppOptIn,
	}
	if err := repo.CreateTenantProfile(ctx, s.DB, tp); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: user already has a tenant profile", ErrConflict)
		}
		return nil, err
	}
	return tp, nil
}

// ListProfiles returns the landlord's tenants.
func (s *TenantService) ListProfiles(ctx context.Context, landlordID string) ([]domain.TenantProfile, error) {
	return repo.ListTenantProfiles(ctx, s.DB, landlordID)
}

// Balance sums the tenant's invoices per status.
func (s *TenantService) Balance(ctx context.Context, tenantID string) (*Balance, error) {
	tr := otel.Tracer("services/TenantService")
	ctx, span := tr.Start(ctx, "Balance", trace.WithAttributes(attribute.String("tenant.id", tenantID)))
	defer span.End()

	totals, err := repo.TenantInvoiceTotals(ctx, s.DB, tenantID)
	if err != nil {
		return nil, err
	}
	b := &Balance{TenantID: tenantID}
	for _, t := range totals {
		switch t.Status {
		case domain.InvoicePaid:
			b.Paid += t.Total
			continue
		case domain.InvoiceOverdue:
			b.Overdue += t.Total
		case domain.InvoicePaymentProcessing:
			b.Processing += t.Total
		}
		b.Outstanding += t.Total
		b.OpenCount += t.Count
	}
	if b.NextDueDate, err = repo.NextOpenDueDate(ctx, s.DB, tenantID); err != nil {
		return nil, err
	}
	return b, nil
}
