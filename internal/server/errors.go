package server

import (
	"errors"
	"net/http"
	"strings"

	accountdomain "github.com/casekit/lexbill/internal/account/domain"
	"github.com/casekit/lexbill/internal/ledes"
	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	"github.com/casekit/lexbill/internal/money"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string                        `json:"type"`
	Message string                        `json:"message"`
	Errors  []ledesdomain.ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrInternal       = errors.New("internal_error")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "INVALID_REQUEST", "invalid request")
}

func newValidationError(field, code, message string) error {
	return ledesdomain.ValidationErrors{
		{
			Field:   field,
			Code:    code,
			Message: message,
		},
	}
}

func mapError(err error) (int, errorPayload) {
	var vErrs ledesdomain.ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs,
		}
	}

	switch {
	case isValidationError(err):
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ledesdomain.ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    strings.ToUpper(code),
					Message: "invalid value",
				},
			},
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, accountdomain.ErrWriteConflict),
		errors.Is(err, accountdomain.ErrRetriesExhausted):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "the account was modified concurrently, please retry",
		}
	case errors.Is(err, ledesdomain.ErrClientConfigExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "a configuration already exists for this client",
		}
	case errors.Is(err, accountdomain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "insufficient_funds",
			Message: "the balance would fall below zero",
		}
	case errors.Is(err, accountdomain.ErrBalanceLimitExceeded):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "balance_limit_exceeded",
			Message: "the balance would exceed the account limit",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrAmountTooLarge),
		errors.Is(err, renewaldomain.ErrInvalidProcessingSpeed),
		errors.Is(err, renewaldomain.ErrInvalidAnswer),
		errors.Is(err, renewaldomain.ErrInvalidID),
		errors.Is(err, ledesdomain.ErrInvalidID),
		errors.Is(err, accountdomain.ErrInvalidOperation),
		errors.Is(err, accountdomain.ErrInvalidID),
		errors.Is(err, ledes.ErrUnsupportedFormat):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, renewaldomain.ErrNotFound),
		errors.Is(err, ledesdomain.ErrNotFound),
		errors.Is(err, accountdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		field := strings.TrimPrefix(code, "invalid_")
		if field == "request" {
			return "request"
		}
		return field
	}
	return ""
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status == http.StatusNotFound:
		return "not_found", payload.Type
	default:
		return "client", payload.Type
	}
}
