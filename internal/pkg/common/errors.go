package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code      string `json:"code"`                // 錯誤代碼
	Message   string `json:"message"`             // 錯誤信息
	Details   string `json:"details,omitempty"`   // 詳細信息（僅在開發模式顯示）
	Retryable bool   `json:"retryable,omitempty"` // 可稍後重試
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code      string // 錯誤代碼
	Message   string // 錯誤信息
	Err       error  // 原始錯誤
	Status    int    // HTTP 狀態碼
	Retryable bool   // 呼叫端是否可以重試
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓包裝過的錯誤仍可用 errors.Is 判斷
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WrapError 以既有錯誤代碼包裝原因
func WrapError(base *CustomError, err error) *CustomError {
	return &CustomError{
		Code:      base.Code,
		Message:   base.Message,
		Status:    base.Status,
		Retryable: base.Retryable,
		Err:       err,
	}
}

// AsCustomError 從錯誤鏈中取出 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsRetryable 判斷錯誤是否可重試
func IsRetryable(err error) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Retryable
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 推薦流程錯誤
	ErrCodeModelUnavailable  = "MODEL_UNAVAILABLE"
	ErrCodeCorpusUnavailable = "CORPUS_UNAVAILABLE"
	ErrCodeNoCandidates      = "NO_CANDIDATES"
	ErrCodeGenerationTimeout = "GENERATION_TIMEOUT"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrCacheFull = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheMiss = NewError("CACHE_MISS", "cache miss", http.StatusNotFound, nil)

	// 推薦流程錯誤
	ErrModelUnavailable  = NewError(ErrCodeModelUnavailable, "model unavailable", http.StatusServiceUnavailable, nil)
	ErrCorpusUnavailable = NewError(ErrCodeCorpusUnavailable, "recipe corpus unavailable", http.StatusServiceUnavailable, nil)
	ErrNoCandidates      = NewError(ErrCodeNoCandidates, "no candidate recipes retrieved", http.StatusServiceUnavailable, nil)
	ErrGenerationTimeout = &CustomError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "generation request timed out",
		Status:    http.StatusGatewayTimeout,
		Retryable: true,
	}
)
