package util

import (
	"errors"
	"net/http"

	"github.com/Array-stack/interaktive-umfrage-plattform-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody 统一错误载荷：{"error":{"message","code",...}}
type ErrorBody struct {
	Message  string `json:"message"`
	Code     string `json:"code"`
	UserRole string `json:"userRole,omitempty"`
	Path     string `json:"path,omitempty"`
	SurveyID string `json:"surveyId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 删除类接口成功时返回 204 空响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Message: message, Code: code}})
}

func Unauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Message: message, Code: code}})
}

func Forbidden(c *gin.Context, userRole string) {
	c.JSON(http.StatusForbidden, ErrorResponse{Error: ErrorBody{
		Message:  "insufficient role",
		Code:     "FORBIDDEN",
		UserRole: userRole,
	}})
}

func EndpointNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: ErrorBody{
		Message: "endpoint not found",
		Code:    "ENDPOINT_NOT_FOUND",
		Path:    c.Request.URL.Path,
	}})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// HandleError 将服务层错误映射到 HTTP 状态码与 code。
// 未识别的错误一律记日志并返回 500，不向客户端泄漏内部细节。
func HandleError(c *gin.Context, err error) {
	var (
		validationErr   *ValidationError
		notFoundErr     *NotFoundError
		unauthorizedErr *UnauthorizedError
		forbiddenErr    *ForbiddenError
		aggregationErr  *AggregationError
		storeErr        *StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message)
	case errors.As(err, &notFoundErr):
		Error(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Error())
	case errors.As(err, &unauthorizedErr):
		Unauthorized(c, unauthorizedErr.Code, unauthorizedErr.Message)
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: ErrorBody{
			Message:  forbiddenErr.Message,
			Code:     "FORBIDDEN",
			UserRole: forbiddenErr.UserRole,
		}})
	case errors.As(err, &aggregationErr):
		logger.Log.Error("aggregation failed",
			zap.String("surveyId", aggregationErr.SurveyID),
			zap.Error(aggregationErr.Err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
			Message:  "failed to aggregate survey responses",
			Code:     "AGGREGATION_ERROR",
			SurveyID: aggregationErr.SurveyID,
		}})
	case errors.As(err, &storeErr):
		logger.Log.Error("store failure", zap.String("op", storeErr.Op), zap.Error(storeErr.Err))
		Error(c, http.StatusInternalServerError, "STORE_ERROR", "storage operation failed")
	default:
		LogInternalError(c, err)
	}
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
