// Expense HTTP handlers.
//
//   - POST /expenses               (record a PENDING expense)
//   - GET  /expenses               (list, optional ?status=)
//   - POST /expenses/{id}/approve  (PENDING -> APPROVED)
//   - POST /expenses/{id}/reject   (PENDING -> REJECTED)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
)

// CreateExpenseRequest is the JSON payload for a new expense.
type CreateExpenseRequest struct {
	RoomID      *string `json:"room_id,omitempty" example:"c0a8012e-7d3b-4c55-a0c2-91b2f1e4d6aa"`
	Description string  `json:"description" binding:"required,max=1000" example:"Replace kitchen tap"`
	// Amount is in minor currency units.
	Amount   int64  `json:"amount" example:"8950"`
	Date     string `json:"date" binding:"omitempty,isodate" example:"2025-03-02"`
	Category string `json:"category" binding:"required,max=64" example:"REPAIRS"`
}

// ListExpensesResponse wraps the landlord's expenses.
type ListExpensesResponse struct {
	Expenses []domain.Expense `json:"expenses"`
}

// CreateExpense godoc
// @ID          createExpense
// @Summary     Record an expense
// @Tags        Expenses
// @Accept      json
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       body           body    handlers.CreateExpenseRequest  true  "Expense"
// @Success     201  {object}  domain.Expense
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Room not found"
// @Router      /expenses [post]
func (h *Handlers) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDateOr(req.Date, h.svc.Today())
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "date must be a YYYY-MM-DD date")
		return
	}
	e, err := h.svc.Expenses.Create(c.Request.Context(), services.ExpenseInput{
		LandlordID:  landlordID(c),
		RoomID:      req.RoomID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Category:    req.Category,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, e)
}

// ListExpenses godoc
// @ID          listExpenses
// @Summary     List expenses
// @Tags        Expenses
// @Produce     json
// @Param       X-Landlord-ID  header  string  true   "Acting landlord"
// @Param       status         query   string  false  "Filter by status"  Enums(PENDING, APPROVED, REJECTED)
// @Success     200  {object}  handlers.ListExpensesResponse
// @Router      /expenses [get]
func (h *Handlers) ListExpenses(c *gin.Context) {
	status := domain.ExpenseStatus(strings.ToUpper(c.Query("status")))
	switch status {
	case "", domain.ExpensePending, domain.ExpenseApproved, domain.ExpenseRejected:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown expense status")
		return
	}
	items, err := h.svc.Expenses.List(c.Request.Context(), landlordID(c), status)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListExpensesResponse{Expenses: items})
}

// ApproveExpense godoc
// @ID          approveExpense
// @Summary     Approve an expense
// @Tags        Expenses
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Expense ID"  format(uuid)
// @Success     200  {object}  domain.Expense
// @Failure     404  {object}  handlers.ErrorResponse  "Expense not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already reviewed"
// @Router      /expenses/{id}/approve [post]
func (h *Handlers) ApproveExpense(c *gin.Context) {
	e, err := h.svc.Expenses.Approve(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

// RejectExpense godoc
// @ID          rejectExpense
// @Summary     Reject an expense
// @Tags        Expenses
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Expense ID"  format(uuid)
// @Success     200  {object}  domain.Expense
// @Failure     404  {object}  handlers.ErrorResponse  "Expense not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already reviewed"
// @Router      /expenses/{id}/reject [post]
func (h *Handlers) RejectExpense(c *gin.Context) {
	e, err := h.svc.Expenses.Reject(c.Request.Context(), landlordID(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}
