package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hadfi53/rakb-sub000/internal/domain"
)

// envelope is the standard success response body.
type envelope struct {
	Data interface{} `json:"data"`
}

// errorBody is the standard error response body.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// paginatedEnvelope wraps a page of results.
type paginatedEnvelope struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedEnvelope{Data: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 with a validation error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Code: string(domain.CodeValidation), Message: message})
}

// Error maps a domain error to its HTTP status. Unrecognized errors are
// reported as a generic 500 without leaking internals.
func Error(c *gin.Context, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Code), errorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, errorBody{
		Code:    "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
	})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeConflict, domain.CodeInvalidState:
		return http.StatusConflict
	case domain.CodeNotBookable:
		return http.StatusUnprocessableEntity
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
