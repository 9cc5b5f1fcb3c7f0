// Incident message HTTP handlers.
//
// Tenant:
//   - POST /tenant/leases/{id}/messages   (open an incident on a lease)
//   - GET  /tenant/leases/{id}/messages   (list incidents, paginated)
//
// Landlord:
//   - GET  /messages                      (list incidents, optional ?status=OPEN|CLOSED)
//   - POST /messages/{id}/reply           (answer; overwrites a previous reply)
//   - POST /messages/{id}/close           (OPEN -> CLOSED)
package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/utils"
)

const (
	defaultMessagePageSize = 20
	maxMessagePageSize     = 100
)

// PostMessageRequest is the JSON payload for opening an incident.
type PostMessageRequest struct {
	// Content is normalized (line endings, blank-line runs) before storage.
	Content string `json:"content" binding:"required" example:"The boiler makes a loud noise at night."`
}

// ReplyMessageRequest is the JSON payload for a landlord reply.
type ReplyMessageRequest struct {
	Reply string `json:"reply" binding:"required" example:"A technician will come on Thursday morning."`
}

// ListMessagesResponse contains a page of incidents and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// LandlordMessagesResponse wraps the landlord's incident inbox.
type LandlordMessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent converts CRLF/CR to LF, collapses blank-line runs and
// trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Open an incident
// @Tags        Tenant
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  true  "Acting tenant profile"
// @Param       id           path    string  true  "Lease ID"  format(uuid)
// @Param       body         body    handlers.PostMessageRequest  true  "Incident"
// @Success     201  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Lease not found"
// @Router      /tenant/leases/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	var req PostMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Messages.Open(c.Request.Context(), tenantID(c), c.Param("id"), sanitizeContent(req.Content))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List incidents on a lease
// @Tags        Tenant
// @Produce     json
// @Param       X-Tenant-ID  header  string  true   "Acting tenant profile"
// @Param       id           path    string  true   "Lease ID"  format(uuid)
// @Param       page         query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size    query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListMessagesResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Lease not found"
// @Router      /tenant/leases/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	p := utils.ParsePage(c.Query("page"), c.Query("page_size"), defaultMessagePageSize, maxMessagePageSize)
	items, total, err := h.svc.Messages.ListPage(c.Request.Context(), tenantID(c), c.Param("id"), p.Number, p.Size)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{Messages: items, Pagination: newPagination(p, total)})
}

// LandlordMessages godoc
// @ID          landlordMessages
// @Summary     Incident inbox
// @Tags        Messages
// @Produce     json
// @Param       X-Landlord-ID  header  string  true   "Acting landlord"
// @Param       status         query   string  false  "Filter by status"  Enums(OPEN, CLOSED)
// @Success     200  {object}  handlers.LandlordMessagesResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad status"
// @Router      /messages [get]
func (h *Handlers) LandlordMessages(c *gin.Context) {
	status := domain.MessageStatus(strings.ToUpper(c.Query("status")))
	switch status {
	case "", domain.MessageOpen, domain.MessageClosed:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be OPEN or CLOSED")
		return
	}
	items, err := h.svc.Messages.ListForLandlord(c.Request.Context(), landlordID(c), status)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, LandlordMessagesResponse{Messages: items})
}

// ReplyMessage godoc
// @ID          replyMessage
// @Summary     Reply to an incident
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Message ID"  format(uuid)
// @Param       body           body    handlers.ReplyMessageRequest  true  "Reply"
// @Success     200  {object}  domain.Message
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Message not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Message closed"
// @Router      /messages/{id}/reply [post]
func (h *Handlers) ReplyMessage(c *gin.Context) {
	var req ReplyMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.Messages.Reply(c.Request.Context(), landlordID(c), c.Param("id"), sanitizeContent(req.Reply))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// CloseMessage godoc
// @ID          closeMessage
// @Summary     Close an incident
// @Tags        Messages
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Message ID"  format(uuid)
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse  "Message not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already closed"
// @Router      /messages/{id}/close [post]
func (h *Handlers) CloseMessage(c *gin.Context) {
	if err := h.svc.Messages.Close(c.Request.Context(), landlordID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
