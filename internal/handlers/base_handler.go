package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/feedback-form-service/internal/services"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Message string                      `json:"message"`
	Details string                      `json:"details,omitempty"`
	Errors  []validator.ValidationError `json:"errors,omitempty"`
}

// SuccessResponse is the JSON body for message-only results
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// parseIDParam parses a positive integer path parameter; on failure it
// writes the error response and returns 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps the service error taxonomy onto HTTP status
// codes: NotFound 404, permission failures 403, validation and
// reference mismatches 400, conflicts 409, transient storage 503,
// anything unexpected 500.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	var permissionErr *services.PermissionError
	var referenceErr *services.ReferenceMismatchError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Errors:  validationErrs,
		})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
	case errors.As(err, &referenceErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid reference",
			Details: referenceErr.Error(),
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Storage temporarily unavailable",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// writeDownload streams an export with attachment headers
func writeDownload(c *gin.Context, file *services.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename=`+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
