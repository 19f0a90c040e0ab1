package corpus

import (
	"context"
	"fmt"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Load 依設定載入語料庫，程序啟動時呼叫一次；dim 為編碼器維度，0 表示不檢查
func Load(ctx context.Context, cfg config.CorpusConfig, dim int) (Backend, error) {
	start := time.Now()

	switch cfg.Backend {
	case "pgvector":
		r, err := OpenPGVector(ctx, cfg.DatabaseURL, cfg.Table)
		if err != nil {
			return nil, err
		}
		common.LogInfo("recipe corpus connected",
			zap.String("backend", cfg.Backend),
			zap.String("table", cfg.Table),
			zap.Duration("latency", time.Since(start)),
		)
		return r, nil

	case "file", "":
		index, err := LoadFlatIndex(cfg.IndexPath)
		if err != nil {
			return nil, common.WrapError(common.ErrCorpusUnavailable, fmt.Errorf("loading index %s: %w", cfg.IndexPath, err))
		}
		if dim > 0 && index.Dim() != dim {
			return nil, common.WrapError(common.ErrCorpusUnavailable,
				fmt.Errorf("index dimension %d does not match encoder dimension %d", index.Dim(), dim))
		}
		index.SetWorkers(cfg.SearchShards)

		table, err := LoadTable(cfg.MetadataPath)
		if err != nil {
			return nil, common.WrapError(common.ErrCorpusUnavailable, fmt.Errorf("loading metadata %s: %w", cfg.MetadataPath, err))
		}

		r, err := NewFileRetriever(index, table)
		if err != nil {
			return nil, err
		}
		common.LogInfo("recipe corpus loaded",
			zap.String("backend", "file"),
			zap.Int("vectors", index.Len()),
			zap.Int("dimension", index.Dim()),
			zap.Int("recipes", table.Len()),
			zap.Duration("latency", time.Since(start)),
		)
		return r, nil
	}

	return nil, common.WrapError(common.ErrCorpusUnavailable, fmt.Errorf("unsupported corpus backend %q", cfg.Backend))
}
