package embedding

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"recipe-recommender/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	ProviderTEI    = "tei"
	ProviderOllama = "ollama"

	warmupText = "Recipe with water."
)

// Config 句向量服務設定
type Config struct {
	Provider  string
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// Client 呼叫句向量服務；GPU/CPU 由服務端決定
type Client struct {
	client *resty.Client
	cfg    Config
	dim    int64
	ready  int32
}

type teiRequest struct {
	Inputs []string `json:"inputs"`
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewClient 創建句向量客戶端
func NewClient(cfg Config) *Client {
	if cfg.Provider == "" {
		cfg.Provider = ProviderTEI
	}
	if cfg.BaseURL == "" {
		if cfg.Provider == ProviderOllama {
			cfg.BaseURL = "http://localhost:11434"
		} else {
			cfg.BaseURL = "http://localhost:8080"
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{client: client, cfg: cfg, dim: int64(cfg.Dimension)}
}

// Encode 將單一文字轉為向量
func (c *Client) Encode(ctx context.Context, text string) ([]float32, error) {
	var (
		vec []float32
		err error
	)
	switch c.cfg.Provider {
	case ProviderOllama:
		vec, err = c.encodeOllama(ctx, text)
	default:
		var batch [][]float32
		batch, err = c.encodeTEI(ctx, []string{text})
		if err == nil {
			vec = batch[0]
		}
	}
	if err != nil {
		return nil, err
	}
	if err := c.checkDimension(vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// Warmup 啟動時編碼一次探測文字，確認模型可用並記錄維度
func (c *Client) Warmup(ctx context.Context) error {
	start := time.Now()
	vec, err := c.Encode(ctx, warmupText)
	if err != nil {
		return err
	}
	atomic.StoreInt64(&c.dim, int64(len(vec)))
	atomic.StoreInt32(&c.ready, 1)

	common.LogInfo("embedding model ready",
		zap.String("provider", c.cfg.Provider),
		zap.String("model", c.cfg.Model),
		zap.Int("dimension", len(vec)),
		zap.Duration("latency", time.Since(start)),
	)
	return nil
}

// Ready Warmup 是否成功
func (c *Client) Ready() bool {
	return atomic.LoadInt32(&c.ready) == 1
}

// Dimension 向量維度，未知時為 0
func (c *Client) Dimension() int {
	return int(atomic.LoadInt64(&c.dim))
}

func (c *Client) checkDimension(vec []float32) error {
	if len(vec) == 0 {
		return common.WrapError(common.ErrModelUnavailable, fmt.Errorf("empty embedding"))
	}
	if want := c.Dimension(); want > 0 && len(vec) != want {
		return common.WrapError(common.ErrModelUnavailable,
			fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), want))
	}
	return nil
}

func (c *Client) encodeTEI(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(teiRequest{Inputs: texts}).
		SetResult(&result).
		Post("/embed")
	if err != nil {
		common.LogError("embedding request failed", zap.String("provider", ProviderTEI), zap.Error(err))
		return nil, common.WrapError(common.ErrModelUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.WrapError(common.ErrModelUnavailable,
			fmt.Errorf("embedding server returned status %d: %s", resp.StatusCode(), resp.String()))
	}
	if len(result) != len(texts) {
		return nil, common.WrapError(common.ErrModelUnavailable,
			fmt.Errorf("embedding server returned %d vectors for %d inputs", len(result), len(texts)))
	}
	return result, nil
}

func (c *Client) encodeOllama(ctx context.Context, text string) ([]float32, error) {
	var result ollamaResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(ollamaRequest{Model: c.cfg.Model, Prompt: text}).
		SetResult(&result).
		Post("/api/embeddings")
	if err != nil {
		common.LogError("embedding request failed", zap.String("provider", ProviderOllama), zap.Error(err))
		return nil, common.WrapError(common.ErrModelUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.WrapError(common.ErrModelUnavailable,
			fmt.Errorf("Ollama returned status %d", resp.StatusCode()))
	}
	return result.Embedding, nil
}
