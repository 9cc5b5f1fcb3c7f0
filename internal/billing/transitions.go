package billing

import (
	"fmt"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

// Action names a manual or scheduled invoice transition.
type Action string

const (
	ActionMarkOverdue    Action = "mark_overdue"
	ActionDeclarePayment Action = "declare_payment"
	ActionApprovePayment Action = "approve_payment"
	ActionRejectPayment  Action = "reject_payment"
	ActionMarkPaid       Action = "mark_paid"
	ActionUnmarkPaid     Action = "unmark_paid"
)

// allowedFrom lists, per action, the statuses an invoice may be in for the
// action to apply.
var allowedFrom = map[Action][]domain.InvoiceStatus{
	ActionMarkOverdue:    {domain.InvoicePending},
	ActionDeclarePayment: {domain.InvoicePending, domain.InvoiceOverdue},
	ActionApprovePayment: {domain.InvoicePaymentProcessing},
	ActionRejectPayment:  {domain.InvoicePaymentProcessing},
	ActionMarkPaid:       {domain.InvoicePending, domain.InvoiceOverdue},
	ActionUnmarkPaid:     {domain.InvoicePaid},
}

// AllowedFrom returns the source statuses of an action. The slice is shared;
// do not modify it.
func AllowedFrom(a Action) []domain.InvoiceStatus {
	return allowedFrom[a]
}

// TransitionError reports an action attempted from a status it does not
// apply to.
type TransitionError struct {
	Action Action
	From   domain.InvoiceStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s an invoice in status %s", e.Action, e.From)
}

// ValidateTransition checks that action may run on an invoice in status
// current.
func ValidateTransition(action Action, current domain.InvoiceStatus) error {
	from, ok := allowedFrom[action]
	if !ok {
		return fmt.Errorf("unknown invoice action %q", action)
	}
	for _, s := range from {
		if s == current {
			return nil
		}
	}
	return &TransitionError{Action: action, From: current}
}
