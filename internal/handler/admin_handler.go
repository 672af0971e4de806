package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadfi53/rakb-sub000/internal/application"
	"github.com/hadfi53/rakb-sub000/internal/platform/auth"
	"github.com/hadfi53/rakb-sub000/internal/platform/middleware"
	"github.com/hadfi53/rakb-sub000/internal/platform/response"
)

// AdminHandler handles moderation and back-office HTTP endpoints.
type AdminHandler struct {
	vehicles *application.VehicleService
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(vehicles *application.VehicleService, bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{vehicles: vehicles, bookings: bookings}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/vehicles/pending", h.ListPendingVehicles)
		admin.POST("/vehicles/:id/approve", h.ApproveVehicle)
		admin.POST("/vehicles/:id/reject", h.RejectVehicle)
		admin.POST("/vehicles/:id/suspend", h.SuspendVehicle)
		admin.POST("/vehicles/:id/reactivate", h.ReactivateVehicle)
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.BookingStats)
	}
}

// ListPendingVehicles handles GET /api/v1/admin/vehicles/pending. The
// moderation queue is a filtered query over the durable store, so concurrent
// moderator sessions always see a consistent view.
func (h *AdminHandler) ListPendingVehicles(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.vehicles.ListPendingReview(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// ApproveVehicle handles POST /api/v1/admin/vehicles/:id/approve.
func (h *AdminHandler) ApproveVehicle(c *gin.Context) {
	h.moderate(c, h.vehicles.Approve)
}

// RejectVehicle handles POST /api/v1/admin/vehicles/:id/reject.
func (h *AdminHandler) RejectVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.Reject(c.Request.Context(), vehicleID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SuspendVehicle handles POST /api/v1/admin/vehicles/:id/suspend.
func (h *AdminHandler) SuspendVehicle(c *gin.Context) {
	h.moderate(c, h.vehicles.Suspend)
}

// ReactivateVehicle handles POST /api/v1/admin/vehicles/:id/reactivate.
func (h *AdminHandler) ReactivateVehicle(c *gin.Context) {
	h.moderate(c, h.vehicles.Reactivate)
}

func (h *AdminHandler) moderate(c *gin.Context, fn func(ctx context.Context, vehicleID uuid.UUID) (*application.VehicleDTO, error)) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	result, err := fn(c.Request.Context(), vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// BookingStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	result, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
