package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"recipe-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	assert.NoError(t, ClassifyTransportError(nil))

	err := ClassifyTransportError(fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.True(t, errors.Is(err, common.ErrGenerationTimeout))
	assert.True(t, common.IsRetryable(err))

	err = ClassifyTransportError(timeoutErr{})
	assert.True(t, errors.Is(err, common.ErrGenerationTimeout))

	err = ClassifyTransportError(errors.New("connection refused"))
	assert.True(t, errors.Is(err, common.ErrModelUnavailable))
	assert.False(t, common.IsRetryable(err))
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   *common.CustomError
	}{
		{http.StatusGatewayTimeout, common.ErrGenerationTimeout},
		{http.StatusRequestTimeout, common.ErrGenerationTimeout},
		{http.StatusTooManyRequests, common.ErrTooManyRequests},
		{http.StatusUnauthorized, common.ErrModelUnavailable},
		{http.StatusServiceUnavailable, common.ErrModelUnavailable},
	}

	for _, tt := range tests {
		err := ClassifyStatus(tt.status, "body")
		assert.True(t, errors.Is(err, tt.want), "status %d", tt.status)
		assert.Contains(t, err.Error(), "body")
	}
}

func TestUserPrompt(t *testing.T) {
	req := UserPrompt("hello", Params{MaxTokens: 10, Temperature: 0.1})

	assert.Equal(t, []Message{{Role: "user", Content: "hello"}}, req.Messages)
	assert.Equal(t, 10, req.MaxTokens)
	assert.Equal(t, 0.1, req.Temperature)
}
