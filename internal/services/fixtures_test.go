package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "svc_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// clockAt returns a fixed clock at noon UTC on the given business day.
func clockAt(y int, m time.Month, d int) calendar.FixedClock {
	return calendar.FixedClock{T: time.Date(y, m, d, 12, 0, 0, 0, time.UTC)}
}

func seedTenant(t *testing.T, db *gorm.DB, landlordID string) *domain.TenantProfile {
	t.Helper()
	svc := &TenantService{DB: db}
	tp, err := svc.CreateProfile(context.Background(), CreateProfileInput{
		LandlordID:    landlordID,
		UserID:        uuid.NewString(),
		DisplayName:   "Marta",
		Phone:         "+34600999888",
		WhatsAppOptIn: true,
	})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	return tp
}

func seedRooms(t *testing.T, db *gorm.DB, landlordID string, names ...string) []string {
	t.Helper()
	svc := &RoomService{DB: db}
	var ids []string
	for _, n := range names {
		r, err := svc.Create(context.Background(), landlordID, n)
		if err != nil {
			t.Fatalf("create room: %v", err)
		}
		ids = append(ids, r.ID)
	}
	return ids
}

func roomStatuses(t *testing.T, db *gorm.DB, ids []string) []domain.RoomStatus {
	t.Helper()
	var rooms []domain.Room
	if err := db.Where("id IN ?", ids).Order("name asc").Find(&rooms).Error; err != nil {
		t.Fatalf("load rooms: %v", err)
	}
	out := make([]domain.RoomStatus, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Status)
	}
	return out
}

func paymentOf(t *testing.T, db *gorm.DB, invoiceID string) domain.Payment {
	t.Helper()
	var p domain.Payment
	if err := db.Where("invoice_id = ?", invoiceID).First(&p).Error; err != nil {
		t.Fatalf("payment of %s: %v", invoiceID, err)
	}
	return p
}

func countRows(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// seedActiveLease opens a one-room lease through the service.
func seedActiveLease(t *testing.T, db *gorm.DB, clock calendar.Clock, landlordID string, start time.Time, billingDay, horizon int) (*domain.Lease, *domain.TenantProfile) {
	t.Helper()
	tp := seedTenant(t, db, landlordID)
	rooms := seedRooms(t, db, landlordID, "Room 1")
	svc := NewLeaseService(db, clock)
	l, err := svc.Create(context.Background(), CreateLeaseInput{
		LandlordID: landlordID,
		TenantID:   tp.ID,
		RoomIDs:    rooms,
		StartDate:  start,
		RentAmount: 35000,
		BillingDay: billingDay,
		Horizon:    horizon,
	})
	if err != nil {
		t.Fatalf("create lease: %v", err)
	}
	return l, tp
}
