package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"stagebook/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{common.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{common.ErrConflict, http.StatusConflict, "CONFLICT"},
	{common.ErrReferenceViolation, http.StatusConflict, "REFERENCE_VIOLATION"},
	{common.ErrScheduleConflict, http.StatusConflict, "SCHEDULE_CONFLICT"},
	{common.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
	{common.ErrInvalidTransition, http.StatusUnprocessableEntity, "INVALID_TRANSITION"},
	{common.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{common.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{common.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
}

// NewHTTPErrorHandler renders domain errors as the standard error envelope.
// Unknown errors become 500 and are logged with their cause.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	log = log.Named("http")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("failed to write error response", zap.Error(err))
		}
	}
}

func errorResponse(err error) (int, *common.ErrorResponse) {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		var details map[string]string
		if validationErr.Field != "" {
			details = map[string]string{validationErr.Field: validationErr.Message}
		}
		return http.StatusBadRequest, common.CreateErrorResponse("VALIDATION_ERROR", validationErr.Error(), details)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, common.CreateErrorResponse(m.code, err.Error(), nil)
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return httpErr.Code, common.CreateErrorResponse(codeForStatus(httpErr.Code), message, nil)
	}

	return http.StatusInternalServerError, common.CreateErrorResponse("INTERNAL_ERROR", "Internal server error", nil)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	}
	if status >= 500 {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}

func tenantID(c echo.Context) (uuid.UUID, error) {
	id, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, fmt.Errorf("tenant not found in token: %w", common.ErrUnauthorized)
	}
	return id, nil
}

func userID(c echo.Context) (uuid.UUID, error) {
	id, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, fmt.Errorf("user not found in token: %w", common.ErrUnauthorized)
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param(name), name)
	if err != nil {
		return uuid.Nil, common.NewValidationError(name, err.Error())
	}
	return id, nil
}

// bindAndValidate binds the request body and runs the registered validator
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return common.NewValidationError("body", "request body is not valid JSON")
	}
	return c.Validate(dst)
}

func pagination(c echo.Context) (int, int, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return 0, 0, err
	}
	l, o := common.ValidatePaginationParams(derefInt(limit), derefInt(offset))
	return l, o, nil
}

func queryString(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	return &v
}

func queryInt(c echo.Context, name string) (*int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, common.NewValidationError(name, "must be an integer")
	}
	return &n, nil
}

func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, common.NewValidationError(name, "must be a valid UUID")
	}
	return &id, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, common.NewValidationError(name, "must be a decimal number")
	}
	return &d, nil
}

func queryDate(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, common.NewValidationError(name, "must be a date in YYYY-MM-DD format")
	}
	return &d, nil
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// listResponse is the envelope for paginated collections
type listResponse struct {
	Items  interface{} `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
