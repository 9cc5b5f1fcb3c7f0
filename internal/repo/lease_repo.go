// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for leases and
// their room links.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// CreateLease inserts the lease row and its lease_rooms links. Callers run it
// inside a transaction together with the room flip and invoice batch.
func CreateLease(ctx context.Context, db *gorm.DB, l *domain.Lease, roomIDs []string) error {
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	if err := db.WithContext(ctx).Omit("Tenant").Create(l).Error; err != nil {
		return err
	}
	if len(roomIDs) == 0 {
		return nil
	}
	links := make([]domain.LeaseRoom, 0, len(roomIDs))
	for _, id := range roomIDs {
		links = append(links, domain.LeaseRoom{LeaseID: l.ID, RoomID: id})
	}
	return db.WithContext(ctx).Omit("Lease", "Room").Create(&links).Error
}

// GetLease fetches a lease by id scoped to landlordID, with its rooms loaded.
func GetLease(ctx context.Context, db *gorm.DB, id, landlordID string) (*domain.Lease, error) {
	var l domain.Lease
	err := db.WithContext(ctx).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	rooms, err := LeaseRooms(ctx, db, l.ID)
	if err != nil {
		return nil, err
	}
	l.Rooms = rooms
	return &l, nil
}

// GetLeaseForTenant fetches a lease only if tenantID holds it.
func GetLeaseForTenant(ctx context.Context, db *gorm.DB, id, tenantID string) (*domain.Lease, error) {
	var l domain.Lease
	err := db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLeases returns the landlord's leases, newest first. An empty status
// matches every lease.
func ListLeases(ctx context.Context, db *gorm.DB, landlordID string, status domain.LeaseStatus) ([]domain.Lease, error) {
	var out []domain.Lease
	q := db.WithContext(ctx).Where("landlord_id = ?", landlordID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("start_date desc").Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		rooms, err := LeaseRooms(ctx, db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Rooms = rooms
	}
	return out, nil
}

// ListLeasesByTenant returns every lease held by a tenant profile.
func ListLeasesByTenant(ctx context.Context, db *gorm.DB, tenantID string) ([]domain.Lease, error) {
	var out []domain.Lease
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_date desc").
		Find(&out).Error
	return out, err
}

// LeaseRooms returns the rooms linked to a lease ordered by name.
func LeaseRooms(ctx context.Context, db *gorm.DB, leaseID string) ([]domain.Room, error) {
	var out []domain.Room
	err := db.WithContext(ctx).
		Joins("JOIN lease_rooms lr ON lr.room_id = rooms.id").
		Where("lr.lease_id = ?", leaseID).
		Order("rooms.name asc").
		Find(&out).Error
	return out, err
}

// LeaseRoomIDs returns the ids of the rooms linked to a lease.
func LeaseRoomIDs(ctx context.Context, db *gorm.DB, leaseID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.LeaseRoom{}).
		Where("lease_id = ?", leaseID).
		Pluck("room_id", &ids).Error
	return ids, err
}

// EndLease flips an ACTIVE lease to ENDED and stamps its end date. It returns
// the number of rows changed; zero means the lease was missing or already
// ended.
func EndLease(ctx context.Context, db *gorm.DB, id, landlordID string, endDate time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Lease{}).
		Where("id = ? AND landlord_id = ? AND status = ?", id, landlordID, domain.LeaseActive).
		Updates(map[string]any{
			"status":     domain.LeaseEnded,
			"end_date":   endDate,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// UpdateLeaseTerms edits rent and billing day. Existing invoices keep the
// amount they were generated with.
func UpdateLeaseTerms(ctx context.Context, db *gorm.DB, id, landlordID string, rent int64, billingDay int) error {
	res := db.WithContext(ctx).
		Model(&domain.Lease{}).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		Updates(map[string]any{
			"rent_amount": rent,
			"billing_day": billingDay,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
