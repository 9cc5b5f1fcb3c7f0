// Worker HTTP handlers.
//
//   - POST /worker/recompute-overdue          (overdue sweep)
//   - POST /worker/send-whatsapp-reminders    (reminder dispatch)
//
// Both authenticate with the shared x-worker-secret header. A wrong or
// missing secret is the only non-200 outcome: job failures answer 200 with
// success=false so the caller can tell them apart from auth problems.
package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http/middleware"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

// workerAuthorized compares the header with the configured secret in
// constant time. An unset secret rejects everything.
func (h *Handlers) workerAuthorized(c *gin.Context) bool {
	want := h.svc.WorkerSecret
	got := c.GetHeader(worker.SecretHeader)
	if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return false
	}
	return true
}

// RecomputeOverdue godoc
// @ID          recomputeOverdue
// @Summary     Promote past-due invoices to OVERDUE
// @Description Idempotent set-based sweep for the current business date.
// @Tags        Worker
// @Produce     json
// @Param       x-worker-secret  header  string  true  "Shared worker secret"
// @Success     200  {object}  worker.RecomputeResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /worker/recompute-overdue [post]
func (h *Handlers) RecomputeOverdue(c *gin.Context) {
	if !h.workerAuthorized(c) {
		return
	}
	res, err := h.svc.Overdue.Run(c.Request.Context())
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("recompute-overdue failed")
		ok(c, http.StatusOK, worker.RecomputeResponse{Success: false, DateUsed: res.DateUsed, Error: err.Error()})
		return
	}
	ok(c, http.StatusOK, worker.RecomputeResponse{Success: true, Updated: res.Updated, DateUsed: res.DateUsed})
}

// SendReminders godoc
// @ID          sendReminders
// @Summary     Dispatch today's payment reminders
// @Description Sends the three-days-before, due-today and Monday overdue-summary reminders.
// @Description Each (subject, rule, date) is delivered at most once; failed sends are logged, not retried.
// @Tags        Worker
// @Produce     json
// @Param       x-worker-secret  header  string  true  "Shared worker secret"
// @Success     200  {object}  worker.RemindersResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /worker/send-whatsapp-reminders [post]
func (h *Handlers) SendReminders(c *gin.Context) {
	if !h.workerAuthorized(c) {
		return
	}
	res, err := h.svc.Reminders.Run(c.Request.Context())
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("send-whatsapp-reminders failed")
		ok(c, http.StatusOK, worker.RemindersResponse{
			Success: false,
			Sent:    res.Sent,
			Failed:  res.Failed,
			Skipped: res.Skipped,
			Error:   err.Error(),
		})
		return
	}
	ok(c, http.StatusOK, worker.RemindersResponse{
		Success:   true,
		Processed: true,
		Sent:      res.Sent,
		Failed:    res.Failed,
		Skipped:   res.Skipped,
		Locked:    res.Locked,
	})
}
