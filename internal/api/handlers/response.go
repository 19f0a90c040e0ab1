package handlers

import (
	"context"
	"errors"
	"net/http"

	"recipe-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// RespondError 將錯誤轉為統一的錯誤響應並中止請求
func RespondError(c *gin.Context, err error) {
	status, body := ErrorBody(err)
	_ = c.Error(err)
	if body.Retryable {
		c.Header("Retry-After", "5")
	}
	c.AbortWithStatusJSON(status, body)
}

// ErrorBody 依錯誤分類決定 HTTP 狀態碼與響應內容
func ErrorBody(err error) (int, common.ErrorResponse) {
	if common.IsValidationError(err) {
		return http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		}
	}

	if ce, ok := common.AsCustomError(err); ok {
		resp := common.ErrorResponse{
			Code:      ce.Code,
			Message:   ce.Message,
			Retryable: ce.Retryable,
		}
		// 開發模式才回傳原始錯誤
		if ce.Err != nil && gin.Mode() != gin.ReleaseMode {
			resp.Details = ce.Err.Error()
		}
		status := ce.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, resp
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, common.ErrorResponse{
			Code:    common.ErrCodeGatewayTimeout,
			Message: common.ErrGatewayTimeout.Message,
		}
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, common.ErrorResponse{
			Code:    common.ErrCodeRequestTimeout,
			Message: common.ErrRequestTimeout.Message,
		}
	}

	return http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: common.ErrInternalError.Message,
	}
}
