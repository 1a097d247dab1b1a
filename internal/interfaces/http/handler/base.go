package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/interfaces/http/dto"
	"github.com/dms/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides shared response and error handling helpers for all
// HTTP handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a new BaseHandler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseHandler{logger: logger}
}

// OK writes a 200 response with data
func (h *BaseHandler) OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created writes a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Paginated writes a 200 response with data and pagination metadata
func (h *BaseHandler) Paginated(c *gin.Context, data interface{}, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// Error writes an error response with an explicit status and code
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, nil, middleware.RequestIDFromContext(c)))
}

// HandleError maps an error to the appropriate HTTP response. Domain errors
// keep their code; binding errors become VALIDATION_FAILED; anything else is
// an internal error and is logged with the request id.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	requestID := middleware.RequestIDFromContext(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.HTTPStatusForCode(domainErr.Code)
		if status >= http.StatusInternalServerError {
			h.logger.Error("domain error",
				zap.String("code", domainErr.Code),
				zap.String("request_id", requestID),
				zap.Error(err))
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, nil, requestID))
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]gin.H, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, gin.H{
				"field": fe.Field(),
				"rule":  fe.Tag(),
			})
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeValidationFailed, "Request validation failed", details, requestID))
		return
	}

	h.logger.Error("unhandled error", zap.String("request_id", requestID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternalError, "An internal error occurred", nil, requestID))
}

// BindJSON binds the request body and reports failures through HandleError.
// Returns false when binding failed and a response was already written.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			h.HandleError(c, err)
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, "Request body is not valid JSON")
		return false
	}
	return true
}

// UUIDParam parses a UUID path parameter, writing a 400 on failure.
// Returns uuid.Nil and false when the parameter is malformed.
func (h *BaseHandler) UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, "Parameter "+name+" is not a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// UUIDQuery parses an optional UUID query parameter. A missing parameter
// yields (nil, true); a malformed one writes a 400 and yields (nil, false).
func (h *BaseHandler) UUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidRequest, "Query parameter "+name+" is not a valid UUID")
		return nil, false
	}
	return &id, true
}
