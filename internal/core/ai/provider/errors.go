package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"recipe-recommender/internal/pkg/common"
)

// ClassifyTransportError 將傳輸層錯誤轉為錯誤分類：逾時可重試，其餘視為模型無法使用
func ClassifyTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return common.WrapError(common.ErrGenerationTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return common.WrapError(common.ErrGenerationTimeout, err)
	}
	return common.WrapError(common.ErrModelUnavailable, err)
}

// ClassifyStatus 將非 2xx 狀態碼轉為錯誤分類
func ClassifyStatus(status int, body string) error {
	cause := fmt.Errorf("status %d: %s", status, body)
	switch {
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return common.WrapError(common.ErrGenerationTimeout, cause)
	case status == http.StatusTooManyRequests:
		return common.WrapError(common.ErrTooManyRequests, cause)
	default:
		return common.WrapError(common.ErrModelUnavailable, cause)
	}
}
