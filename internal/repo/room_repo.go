// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for rooms and
// tenant profiles.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Every landlord-owned query filters by
// landlord_id.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateRoom inserts an AVAILABLE room owned by landlordID.
func CreateRoom(ctx context.Context, db *gorm.DB, landlordID, name string) (*domain.Room, error) {
	now := time.Now().UTC()
	r := &domain.Room{
		ID:         uuid.NewString(),
		LandlordID: landlordID,
		Name:       name,
		Status:     domain.RoomAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListRooms returns every room owned by landlordID ordered by name.
func ListRooms(ctx context.Context, db *gorm.DB, landlordID string) ([]domain.Room, error) {
	var out []domain.Room
	err := db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// GetRoom fetches a single room by id and owner.
func GetRoom(ctx context.Context, db *gorm.DB, id, landlordID string) (*domain.Room, error) {
	var r domain.Room
	err := db.WithContext(ctx).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRoomsByIDs returns the subset of ids owned by landlordID. Missing or
// foreign ids are simply absent from the result.
func GetRoomsByIDs(ctx context.Context, db *gorm.DB, landlordID string, ids []string) ([]domain.Room, error) {
	var out []domain.Room
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Where("landlord_id = ? AND id IN ?", landlordID, ids).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// SetRoomsStatus moves rooms from one status to another and returns the
// number of rows that actually changed. Rooms not in the from status are
// left untouched.
func SetRoomsStatus(ctx context.Context, db *gorm.DB, ids []string, from, to domain.RoomStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id IN ? AND status = ?", ids, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// RoomInUse reports whether any lease, active or ended, references the room.
func RoomInUse(ctx context.Context, db *gorm.DB, roomID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.LeaseRoom{}).
		Where("room_id = ?", roomID).
		Count(&n).Error
	return n > 0, err
}

// DeleteRoom hard-deletes a room owned by landlordID. It returns ErrNotFound
// when nothing matched.
func DeleteRoom(ctx context.Context, db *gorm.DB, id, landlordID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		Delete(&domain.Room{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateTenantProfile inserts a tenant profile. UserID is unique.
func CreateTenantProfile(ctx context.Context, db *gorm.DB, tp *domain.TenantProfile) error {
	if tp.ID == "" {
		tp.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(tp).Error
}

// GetTenantProfile fetches a tenant by id scoped to landlordID.
func GetTenantProfile(ctx context.Context, db *gorm.DB, id, landlordID string) (*domain.TenantProfile, error) {
	var tp domain.TenantProfile
	err := db.WithContext(ctx).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		First(&tp).Error
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// ListTenantProfiles returns every tenant of landlordID ordered by name.
func ListTenantProfiles(ctx context.Context, db *gorm.DB, landlordID string) ([]domain.TenantProfile, error) {
	var out []domain.TenantProfile
	err := db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("display_name asc").
		Find(&out).Error
	return out, err
}
