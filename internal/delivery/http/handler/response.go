package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gdugdh24/sitter-presence-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeValidation   = "validation_failed"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeInternal     = "internal_error"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	RequestID string              `json:"request_id,omitempty"`
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func fail(c *gin.Context, status int, code, message string, fields map[string][]string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get(middleware.RequestIDHeader),
		Code:      code,
		Message:   message,
		Errors:    fields,
	})
}

// Fail is used by the router for NoRoute/NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, message string) {
	fail(c, status, code, message, nil)
}

// respondError maps domain errors onto HTTP statuses. Unknown errors become
// a generic 500 and only their detail is logged.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusUnprocessableEntity, ErrCodeValidation, "The given data was invalid.", verr.Fields)
	case errors.Is(err, domain.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "forbidden", nil)
	case errors.Is(err, domain.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized", nil)
	case errors.Is(err, domain.ErrPresenceNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, domain.ErrPresenceNotFound.Error(), nil)
	case errors.Is(err, domain.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, domain.ErrUserNotFound.Error(), nil)
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("request failed")
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error", nil)
	}
}

// currentUserID returns the id stored by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserID)
	if id == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized", nil)
		return "", false
	}
	return id, true
}

// bindJSON decodes the body and converts binding failures into a
// ValidationError keyed by JSON field path.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	verr := domain.NewValidationError()

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			verr.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		verr.Add(typeErr.Field, fmt.Sprintf("The %s field must be a %s.", typeErr.Field, typeErr.Type.String()))
	default:
		verr.Add("body", "The request body must be a valid JSON object.")
	}
	return verr
}

// fieldPath turns "Req.availabilities[0].date" into "availabilities.0.date".
func fieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		namespace = rest
	}
	return strings.NewReplacer("[", ".", "]", "").Replace(namespace)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

var registerOnce sync.Once

// RegisterValidatorTags makes validator report JSON field names.
func RegisterValidatorTags() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}
