package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadfi53/rakb-sub000/internal/application"
	"github.com/hadfi53/rakb-sub000/internal/platform/auth"
	"github.com/hadfi53/rakb-sub000/internal/platform/middleware"
	"github.com/hadfi53/rakb-sub000/internal/platform/response"
)

// VehicleHandler handles HTTP requests for listing management.
type VehicleHandler struct {
	vehicles     *application.VehicleService
	reservations *application.ReservationService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicles *application.VehicleService, reservations *application.ReservationService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, reservations: reservations}
}

// RegisterRoutes registers all vehicle routes on the given router group.
func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	vehicles := r.Group("/api/v1/vehicles")
	{
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.GET("/:id/availability", h.CheckAvailability)
	}

	hostVehicles := r.Group("/api/v1/vehicles")
	hostVehicles.Use(authMW, middleware.RequireRole(auth.RoleHost))
	{
		hostVehicles.POST("", h.CreateVehicle)
		hostVehicles.PUT("/:id", h.UpdateVehicle)
		hostVehicles.POST("/:id/submit", h.SubmitVehicle)
	}

	mine := r.Group("/api/v1/my/vehicles")
	mine.Use(authMW, middleware.RequireRole(auth.RoleHost))
	{
		mine.GET("", h.ListMyVehicles)
	}
}

// CreateVehicle handles POST /api/v1/vehicles.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.CreateListing(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateVehicle handles PUT /api/v1/vehicles/:id.
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	var req application.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.vehicles.UpdateListing(c.Request.Context(), userID, vehicleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SubmitVehicle handles POST /api/v1/vehicles/:id/submit.
func (h *VehicleHandler) SubmitVehicle(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	result, err := h.vehicles.SubmitForReview(c.Request.Context(), userID, vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	result, err := h.vehicles.GetListing(c.Request.Context(), vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListMyVehicles handles GET /api/v1/my/vehicles.
func (h *VehicleHandler) ListMyVehicles(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.vehicles.GetHostListings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CheckAvailability handles GET /api/v1/vehicles/:id/availability?start&end.
// The answer is advisory; the reservation itself is still subject to the
// storage constraint.
func (h *VehicleHandler) CheckAvailability(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		response.BadRequest(c, "start must be a date in YYYY-MM-DD format")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		response.BadRequest(c, "end must be a date in YYYY-MM-DD format")
		return
	}

	available, err := h.reservations.CheckAvailability(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"vehicle_id": vehicleID,
		"start_date": start,
		"end_date":   end,
		"available":  available,
	})
}
