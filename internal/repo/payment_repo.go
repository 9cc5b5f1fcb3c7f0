// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for payments and
// payment proofs. Both are 1:1 with an invoice (UNIQUE invoice_id), so a
// second insert for the same invoice maps to ErrDuplicate.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// CreatePayment inserts the settlement record for a PAID invoice.
func CreatePayment(ctx context.Context, db *gorm.DB, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Omit("Invoice").Create(p).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DeletePaymentByInvoice removes the payment of an invoice and returns the
// number of rows deleted.
func DeletePaymentByInvoice(ctx context.Context, db *gorm.DB, invoiceID string) (int64, error) {
	res := db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&domain.Payment{})
	return res.RowsAffected, res.Error
}

// CreatePaymentProof inserts a tenant's payment declaration.
func CreatePaymentProof(ctx context.Context, db *gorm.DB, pp *domain.PaymentProof) error {
	if pp.ID == "" {
		pp.ID = uuid.NewString()
	}
	if pp.CreatedAt.IsZero() {
		pp.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Omit("Invoice").Create(pp).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetPaymentProof returns the pending proof of an invoice or ErrNotFound.
func GetPaymentProof(ctx context.Context, db *gorm.DB, invoiceID string) (*domain.PaymentProof, error) {
	var pp domain.PaymentProof
	err := db.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&pp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pp, nil
}

// DeletePaymentProof removes the proof of an invoice and returns the number
// of rows deleted.
func DeletePaymentProof(ctx context.Context, db *gorm.DB, invoiceID string) (int64, error) {
	res := db.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&domain.PaymentProof{})
	return res.RowsAffected, res.Error
}
