package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// newRepoDB opens a migrated file-backed SQLite database with foreign keys on.
func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "repo_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type leaseFixture struct {
	Tenant *domain.TenantProfile
	Rooms  []domain.Room
	Lease  *domain.Lease
}

// seedLease creates a tenant, two occupied rooms and an ACTIVE lease over them.
func seedLease(t *testing.T, db *gorm.DB, landlordID string, optIn bool) leaseFixture {
	t.Helper()
	ctx := context.Background()

	tp := &domain.TenantProfile{
		LandlordID:    landlordID,
		UserID:        uuid.NewString(),
		DisplayName:   "Lucia",
		Phone:         "+34600111222",
		Email:         "lucia@example.com",
		WhatsAppOptIn: optIn,
	}
	if err := CreateTenantProfile(ctx, db, tp); err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	var rooms []domain.Room
	var ids []string
	for _, name := range []string{"Room A", "Room B"} {
		r, err := CreateRoom(ctx, db, landlordID, name)
		if err != nil {
			t.Fatalf("create room: %v", err)
		}
		rooms = append(rooms, *r)
		ids = append(ids, r.ID)
	}
	if _, err := SetRoomsStatus(ctx, db, ids, domain.RoomAvailable, domain.RoomOccupied); err != nil {
		t.Fatalf("occupy rooms: %v", err)
	}

	l := &domain.Lease{
		ID:         "lease-" + tp.ID[:8],
		LandlordID: landlordID,
		TenantID:   tp.ID,
		StartDate:  day(2025, time.January, 15),
		RentAmount: 45000,
		BillingDay: 15,
		Status:     domain.LeaseActive,
	}
	if err := CreateLease(ctx, db, l, ids); err != nil {
		t.Fatalf("create lease: %v", err)
	}
	return leaseFixture{Tenant: tp, Rooms: rooms, Lease: l}
}

func seedInvoice(t *testing.T, db *gorm.DB, l *domain.Lease, id string, due time.Time, status domain.InvoiceStatus) domain.Invoice {
	t.Helper()
	inv := domain.Invoice{
		ID:         id,
		LeaseID:    l.ID,
		LandlordID: l.LandlordID,
		DueDate:    due,
		Amount:     l.RentAmount,
		Status:     status,
	}
	if err := CreateInvoices(context.Background(), db, []domain.Invoice{inv}); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}
