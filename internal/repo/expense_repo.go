// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for landlord
// expenses.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// CreateExpense inserts a PENDING expense.
func CreateExpense(ctx context.Context, db *gorm.DB, e *domain.Expense) error {
	now := time.Now().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Status = domain.ExpensePending
	e.CreatedAt, e.UpdatedAt = now, now
	return db.WithContext(ctx).Create(e).Error
}

// ListExpenses returns the landlord's expenses, newest first. An empty
// status matches all.
func ListExpenses(ctx context.Context, db *gorm.DB, landlordID string, status domain.ExpenseStatus) ([]domain.Expense, error) {
	var out []domain.Expense
	q := db.WithContext(ctx).Where("landlord_id = ?", landlordID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("date desc").Order("created_at desc").Find(&out).Error
	return out, err
}

// GetExpense fetches an expense by id scoped to landlordID.
func GetExpense(ctx context.Context, db *gorm.DB, id, landlordID string) (*domain.Expense, error) {
	var e domain.Expense
	err := db.WithContext(ctx).
		Where("id = ? AND landlord_id = ?", id, landlordID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SetExpenseStatus moves an expense from one status to another; zero rows
// means the guard did not match.
func SetExpenseStatus(ctx context.Context, db *gorm.DB, id, landlordID string, from, to domain.ExpenseStatus) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("id = ? AND landlord_id = ? AND status = ?", id, landlordID, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
