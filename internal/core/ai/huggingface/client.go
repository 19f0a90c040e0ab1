package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co"
)

// Client Hugging Face text-generation 推論客戶端
type Client struct {
	client *resty.Client
	cfg    provider.Config
}

// Parameters text-generation 參數
type Parameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

// Request text-generation 請求
type Request struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

// Generation 單筆生成結果
type Generation struct {
	GeneratedText string `json:"generated_text"`
}

// Error 推論 API 錯誤，模型載入中時會帶 estimated_time
type Error struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// NewClient 創建 Hugging Face 客戶端
func NewClient(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{client: client, cfg: cfg}
}

// Generate 將對話訊息合併為單一輸入並呼叫推論 API
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	parts := make([]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		parts = append(parts, m.Content)
	}

	body := Request{
		Inputs: strings.Join(parts, "\n\n"),
		Parameters: Parameters{
			MaxNewTokens:   req.MaxTokens,
			Temperature:    req.Temperature,
			ReturnFullText: false,
		},
	}

	common.LogDebug("Sending request to Hugging Face",
		zap.String("model", c.cfg.Model),
		zap.Int("input_length", len(body.Inputs)),
		zap.Int("max_new_tokens", body.Parameters.MaxNewTokens),
	)

	var result []Generation
	var apiErr Error
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/models/" + c.cfg.Model)
	if err != nil {
		common.LogError("Failed to send request to Hugging Face",
			zap.Error(err),
			zap.String("model", c.cfg.Model),
		)
		return nil, provider.ClassifyTransportError(err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.String()
		}
		common.LogError("Hugging Face returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.cfg.Model),
			zap.String("response", msg),
			zap.Float64("estimated_time", apiErr.EstimatedTime),
		)
		return nil, provider.ClassifyStatus(resp.StatusCode(), msg)
	}

	if len(result) == 0 {
		return nil, common.WrapError(common.ErrModelUnavailable, fmt.Errorf("empty generation from Hugging Face"))
	}

	return &provider.Response{
		Content: result[0].GeneratedText,
		Model:   c.cfg.Model,
	}, nil
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.cfg.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.cfg.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
