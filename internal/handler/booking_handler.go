package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hadfi53/rakb-sub000/internal/application"
	"github.com/hadfi53/rakb-sub000/internal/platform/auth"
	"github.com/hadfi53/rakb-sub000/internal/platform/middleware"
	"github.com/hadfi53/rakb-sub000/internal/platform/response"
)

// BookingHandler handles HTTP requests for reservations and the booking
// lifecycle.
type BookingHandler struct {
	reservations *application.ReservationService
	bookings     *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(reservations *application.ReservationService, bookings *application.BookingService) *BookingHandler {
	return &BookingHandler{reservations: reservations, bookings: bookings}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", middleware.RequireRole(auth.RoleRenter), h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/accept", middleware.RequireRole(auth.RoleHost), h.AcceptBooking)
		bookings.POST("/:id/reject", middleware.RequireRole(auth.RoleHost), h.RejectBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/check-in", middleware.RequireRole(auth.RoleHost), h.CheckIn)
		bookings.POST("/:id/check-out", middleware.RequireRole(auth.RoleHost), h.CheckOut)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reservations.Reserve(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Renters see their own trips,
// hosts the requests against their vehicles.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	if role == auth.RoleHost {
		result, err := h.bookings.GetHostBookings(c.Request.Context(), userID, page, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
		return
	}

	result, err := h.bookings.GetRenterBookings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.bookings.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AcceptBooking handles POST /api/v1/bookings/:id/accept.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, bookingID, userID uuid.UUID) (*application.BookingDTO, error) {
		return h.bookings.Accept(ctx.Request.Context(), bookingID, userID)
	})
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// RejectBooking handles POST /api/v1/bookings/:id/reject.
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	h.transition(c, func(ctx *gin.Context, bookingID, userID uuid.UUID) (*application.BookingDTO, error) {
		return h.bookings.Reject(ctx.Request.Context(), bookingID, userID, req.Reason)
	})
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel. Either party may
// cancel while the booking is cancellable.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req reasonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	h.transition(c, func(ctx *gin.Context, bookingID, userID uuid.UUID) (*application.BookingDTO, error) {
		return h.bookings.Cancel(ctx.Request.Context(), bookingID, userID, req.Reason)
	})
}

// CheckIn handles POST /api/v1/bookings/:id/check-in.
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, bookingID, userID uuid.UUID) (*application.BookingDTO, error) {
		return h.bookings.CheckIn(ctx.Request.Context(), bookingID, userID)
	})
}

// CheckOut handles POST /api/v1/bookings/:id/check-out.
func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, bookingID, userID uuid.UUID) (*application.BookingDTO, error) {
		return h.bookings.CheckOut(ctx.Request.Context(), bookingID, userID)
	})
}

func (h *BookingHandler) transition(c *gin.Context, fn func(*gin.Context, uuid.UUID, uuid.UUID) (*application.BookingDTO, error)) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := fn(c, bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
