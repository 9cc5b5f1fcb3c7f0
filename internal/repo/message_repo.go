// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for incident
// messages opened by tenants on their leases.
//
// These helpers take a *gorm.DB that the caller has already bound to a
// context (db.WithContext(ctx)).
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// CreateMessage opens an incident ticket.
func CreateMessage(db *gorm.DB, leaseID, tenantID, content string) (*domain.Message, error) {
	now := time.Now().UTC()
	m := &domain.Message{
		ID:        uuid.NewString(),
		LeaseID:   leaseID,
		TenantID:  tenantID,
		Content:   content,
		Status:    domain.MessageOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return m, db.Create(m).Error
}

// ListMessagesPage returns a page of the incident tickets of one lease in
// creation order.
func ListMessagesPage(db *gorm.DB, leaseID string, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.
		Where("lease_id = ?", leaseID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountMessages returns the number of tickets on a lease.
func CountMessages(db *gorm.DB, leaseID string) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages WHERE lease_id = ?", leaseID).Scan(&total).Error
	return total, err
}

// ListLandlordMessages returns the tickets on every lease of a landlord,
// newest first. An empty status matches all.
func ListLandlordMessages(db *gorm.DB, landlordID string, status domain.MessageStatus) ([]domain.Message, error) {
	var out []domain.Message
	q := db.
		Joins("JOIN leases ON leases.id = messages.lease_id").
		Where("leases.landlord_id = ?", landlordID)
	if status != "" {
		q = q.Where("messages.status = ?", status)
	}
	err := q.Order("messages.created_at DESC").Find(&out).Error
	return out, err
}

// GetLandlordMessage fetches a ticket only if its lease belongs to landlordID.
func GetLandlordMessage(db *gorm.DB, id, landlordID string) (*domain.Message, error) {
	var m domain.Message
	err := db.
		Joins("JOIN leases ON leases.id = messages.lease_id").
		Where("messages.id = ? AND leases.landlord_id = ?", id, landlordID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ReplyMessage stores the landlord reply. Replying again overwrites it.
func ReplyMessage(db *gorm.DB, id, reply string, at time.Time) error {
	res := db.Model(&domain.Message{}).
		Where("id = ?", id).
		Updates(map[string]any{"reply": reply, "replied_at": at, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetMessageStatus moves a ticket from one status to another; zero rows means
// the guard did not match.
func SetMessageStatus(db *gorm.DB, id string, from, to domain.MessageStatus) (int64, error) {
	res := db.Model(&domain.Message{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
