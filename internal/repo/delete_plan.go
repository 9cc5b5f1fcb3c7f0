// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the lease deletion plan: the dependent
// row sets are enumerated first, then removed child-first in one pass.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// LeaseDeletePlan lists everything that disappears with a lease.
type LeaseDeletePlan struct {
	LeaseID    string
	LandlordID string
	InvoiceIDs []string
	RoomIDs    []string
	// FreeRooms is set when the lease was ACTIVE; its rooms go back to
	// AVAILABLE.
	FreeRooms bool
}

// PlanLeaseDeletion loads a lease scoped to landlordID and enumerates its
// dependents. It returns ErrNotFound when the lease does not exist.
func PlanLeaseDeletion(ctx context.Context, db *gorm.DB, leaseID, landlordID string) (*LeaseDeletePlan, error) {
	var l domain.Lease
	err := db.WithContext(ctx).Where("id = ? AND landlord_id = ?", leaseID, landlordID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	plan := &LeaseDeletePlan{
		LeaseID:    l.ID,
		LandlordID: l.LandlordID,
		FreeRooms:  l.Status == domain.LeaseActive,
	}
	if err := db.WithContext(ctx).Model(&domain.Invoice{}).Where("lease_id = ?", l.ID).Pluck("id", &plan.InvoiceIDs).Error; err != nil {
		return nil, err
	}
	ids, err := LeaseRoomIDs(ctx, db, l.ID)
	if err != nil {
		return nil, err
	}
	plan.RoomIDs = ids
	return plan, nil
}

// Execute deletes the planned rows child-first. Run it inside a transaction;
// the first failing statement aborts the rest.
func (p *LeaseDeletePlan) Execute(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)

	if len(p.InvoiceIDs) > 0 {
		steps := []struct {
			model any
			where string
		}{
			{&domain.Payment{}, "invoice_id IN ?"},
			{&domain.PaymentProof{}, "invoice_id IN ?"},
			{&domain.NotificationLog{}, "invoice_id IN ?"},
			{&domain.Invoice{}, "id IN ?"},
		}
		for _, s := range steps {
			if err := tx.Where(s.where, p.InvoiceIDs).Delete(s.model).Error; err != nil {
				return err
			}
		}
	}

	if err := tx.Where("lease_id = ?", p.LeaseID).Delete(&domain.Message{}).Error; err != nil {
		return err
	}
	if err := tx.Where("lease_id = ?", p.LeaseID).Delete(&domain.NotificationLog{}).Error; err != nil {
		return err
	}

	if p.FreeRooms && len(p.RoomIDs) > 0 {
		err := tx.Model(&domain.Room{}).
			Where("id IN ? AND status = ?", p.RoomIDs, domain.RoomOccupied).
			Updates(map[string]any{"status": domain.RoomAvailable, "updated_at": time.Now().UTC()}).Error
		if err != nil {
			return err
		}
	}

	if err := tx.Where("lease_id = ?", p.LeaseID).Delete(&domain.LeaseRoom{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND landlord_id = ?", p.LeaseID, p.LandlordID).Delete(&domain.Lease{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
