package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadfi53/rakb-sub000/internal/application"
	"github.com/hadfi53/rakb-sub000/internal/platform/auth"
	"github.com/hadfi53/rakb-sub000/internal/platform/middleware"
	"github.com/hadfi53/rakb-sub000/internal/platform/response"
)

// CalendarHandler handles HTTP requests for host calendar blocks.
type CalendarHandler struct {
	service *application.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(service *application.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// RegisterRoutes registers all calendar routes on the given router group.
func (h *CalendarHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	blocks := r.Group("/api/v1/vehicles/:id/blocks")
	blocks.Use(authMW, middleware.RequireRole(auth.RoleHost))
	{
		blocks.POST("", h.CreateBlock)
		blocks.GET("", h.ListBlocks)
		blocks.DELETE("/:blockId", h.DeleteBlock)
	}
}

// CreateBlock handles POST /api/v1/vehicles/:id/blocks.
func (h *CalendarHandler) CreateBlock(c *gin.Context) {
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

	var req application.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBlock(c.Request.Context(), userID, vehicleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBlocks handles GET /api/v1/vehicles/:id/blocks.
func (h *CalendarHandler) ListBlocks(c *gin.Context) {
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

	result, err := h.service.ListBlocks(c.Request.Context(), userID, vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBlock handles DELETE /api/v1/vehicles/:id/blocks/:blockId.
func (h *CalendarHandler) DeleteBlock(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	blockID, err := uuid.Parse(c.Param("blockId"))
	if err != nil {
		response.BadRequest(c, "invalid block ID")
		return
	}

	if err := h.service.DeleteBlock(c.Request.Context(), userID, blockID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
