// Room and tenant-profile HTTP handlers.
//
//   - POST   /rooms          (create)
//   - GET    /rooms          (list)
//   - DELETE /rooms/{id}     (delete; refused while any lease references it)
//   - POST   /tenants        (create tenant profile)
//   - GET    /tenants        (list tenant profiles)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
)

// CreateRoomRequest is the JSON payload for creating a room.
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"Room 2 (balcony)"`
}

// ListRoomsResponse wraps the landlord's rooms.
type ListRoomsResponse struct {
	Rooms []domain.Room `json:"rooms"`
}

// CreateTenantRequest is the JSON payload for creating a tenant profile.
type CreateTenantRequest struct {
	// UserID links the profile to a login account.
	UserID      string `json:"user_id"         binding:"required,max=64" example:"user_8f1c"`
	DisplayName string `json:"display_name"    binding:"required,max=255" example:"Lucía Pérez"`
	// Phone is E.164; required for WhatsApp reminders.
	Phone         string `json:"phone"           binding:"omitempty,e164" example:"+34600111222"`
	Email         string `json:"email"           binding:"omitempty,email" example:"lucia@example.com"`
	WhatsAppOptIn bool   `json:"whatsapp_opt_in" example:"true"`
}

// ListTenantsResponse wraps the landlord's tenant profiles.
type ListTenantsResponse struct {
	Tenants []domain.TenantProfile `json:"tenants"`
}

// CreateRoom godoc
// @ID          createRoom
// @Summary     Create a room
// @Tags        Rooms
// @Accept      json
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       body           body    handlers.CreateRoomRequest  true  "Room"
// @Success     201  {object}  domain.Room
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /rooms [post]
func (h *Handlers) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := h.svc.Rooms.Create(c.Request.Context(), landlordID(c), req.Name)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, room)
}

// ListRooms godoc
// @ID          listRooms
// @Summary     List rooms
// @Tags        Rooms
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Success     200  {object}  handlers.ListRoomsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /rooms [get]
func (h *Handlers) ListRooms(c *gin.Context) {
	rooms, err := h.svc.Rooms.List(c.Request.Context(), landlordID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListRoomsResponse{Rooms: rooms})
}

// DeleteRoom godoc
// @ID          deleteRoom
// @Summary     Delete a room
// @Description Rooms referenced by any lease, current or historical, cannot be deleted.
// @Tags        Rooms
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       id             path    string  true  "Room ID"  format(uuid)
// @Success     204
// @Failure     404  {object}  handlers.ErrorResponse  "Room not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Room in use"
// @Router      /rooms/{id} [delete]
func (h *Handlers) DeleteRoom(c *gin.Context) {
	if err := h.svc.Rooms.Delete(c.Request.Context(), landlordID(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// CreateTenant godoc
// @ID          createTenant
// @Summary     Create a tenant profile
// @Tags        Tenants
// @Accept      json
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Param       body           body    handlers.CreateTenantRequest  true  "Tenant profile"
// @Success     201  {object}  domain.TenantProfile
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "User already has a profile"
// @Router      /tenants [post]
func (h *Handlers) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Tenants.CreateProfile(c.Request.Context(), services.CreateProfileInput{
		LandlordID:    landlordID(c),
		UserID:        req.UserID,
		DisplayName:   req.DisplayName,
		Phone:         req.Phone,
		Email:         req.Email,
		WhatsAppOptIn: req.WhatsAppOptIn,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

// ListTenants godoc
// @ID          listTenants
// @Summary     List tenant profiles
// @Tags        Tenants
// @Produce     json
// @Param       X-Landlord-ID  header  string  true  "Acting landlord"
// @Success     200  {object}  handlers.ListTenantsResponse
// @Router      /tenants [get]
func (h *Handlers) ListTenants(c *gin.Context) {
	items, err := h.svc.Tenants.ListProfiles(c.Request.Context(), landlordID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListTenantsResponse{Tenants: items})
}
