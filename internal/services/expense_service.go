// Package services – ExpenseService
//
// This file implements ExpenseService, which records landlord expenses and
// moves them through review. An expense starts PENDING and is either
// APPROVED or REJECTED; both outcomes are terminal. All reads and writes are
// scoped to the owning landlord, so another landlord's expense looks exactly
// like a missing one.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// ExpenseInput carries the fields of a new expense.
type ExpenseInput struct {
	LandlordID  string
	RoomID      *string
	Description string
	Amount      int64
	Date        time.Time
	Category    string
}

// ExpenseService implements the expense use-cases.
type ExpenseService struct {
	// DB is the database handle used for all expense operations.
	DB *gorm.DB
}

// Create records a PENDING expense.
//
// Validation:
//   - Description and Category must be non-blank; otherwise ErrInvalidInput.
//   - Amount must not be negative; otherwise ErrNegativeRent.
//   - Date defaults to today (UTC) when zero.
//   - When RoomID is set the room must belong to the landlord; otherwise
//     ErrRoomNotFound.
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (*domain.Expense, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	if in.Description == "" || in.Category == "" {
		return nil, fmt.Errorf("%w: description and category are required", ErrInvalidInput)
	}
	if in.Amount < 0 {
		return nil, ErrNegativeRent
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	if in.RoomID != nil && *in.RoomID != "" {
		if _, err := repo.GetRoom(ctx, s.DB, *in.RoomID, in.LandlordID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
	} else {
		in.RoomID = nil
	}

	e := &domain.Expense{
		LandlordID:  in.LandlordID,
		RoomID:      in.RoomID,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        calendar.DateOf(in.Date),
		Category:    in.Category,
	}
	if err := repo.CreateExpense(ctx, s.DB, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns the landlord's expenses filtered by status (empty = all).
func (s *ExpenseService) List(ctx context.Context, landlordID string, status domain.ExpenseStatus) ([]domain.Expense, error) {
	return repo.ListExpenses(ctx, s.DB, landlordID, status)
}

// Approve moves a PENDING expense to APPROVED.
func (s *ExpenseService) Approve(ctx context.Context, landlordID, id string) (*domain.Expense, error) {
	return s.review(ctx, landlordID, id, domain.ExpenseApproved)
}

// Reject moves a PENDING expense to REJECTED.
func (s *ExpenseService) Reject(ctx context.Context, landlordID, id string) (*domain.Expense, error) {
	return s.review(ctx, landlordID, id, domain.ExpenseRejected)
}

// review applies a terminal decision.
//
// Errors:
//   - ErrExpenseNotFound when the expense does not exist for the landlord.
//   - ErrInvalidTransition when it was already reviewed.
func (s *ExpenseService) review(ctx context.Context, landlordID, id string, to domain.ExpenseStatus) (*domain.Expense, error) {
	var out *domain.Expense
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := repo.SetExpenseStatus(ctx, tx, id, landlordID, domain.ExpensePending, to)
		if err != nil {
			return err
		}
		e, err := repo.GetExpense(ctx, tx, id, landlordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: expense is %s", ErrInvalidTransition, e.Status)
		}
		out = e
		return nil
	})
	return out, err
}
