package corpus

import (
	"context"
	"fmt"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Backend 可檢索的語料庫
type Backend interface {
	recipe.Retriever
	// Ready 檢查語料庫是否可用
	Ready(ctx context.Context) error
	Close() error
}

// FileRetriever 結合 FlatIndex 與 Table 的檔案型語料庫
type FileRetriever struct {
	index *FlatIndex
	table *Table
}

// NewFileRetriever 建立檔案型語料庫，索引筆數不可多於資料表
func NewFileRetriever(index *FlatIndex, table *Table) (*FileRetriever, error) {
	if index == nil || table == nil {
		return nil, common.WrapError(common.ErrCorpusUnavailable, fmt.Errorf("index and table are required"))
	}
	if index.Len() > table.Len() {
		return nil, common.WrapError(common.ErrCorpusUnavailable,
			fmt.Errorf("index has %d vectors but metadata has %d rows", index.Len(), table.Len()))
	}
	return &FileRetriever{index: index, table: table}, nil
}

// Search 檢索最近的 k 筆食譜
func (r *FileRetriever) Search(ctx context.Context, vector []float32, k int) ([]recipe.Candidate, error) {
	hits, err := r.index.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	candidates := make([]recipe.Candidate, 0, len(hits))
	for _, hit := range hits {
		record, ok := r.table.Get(hit.ID)
		if !ok {
			common.LogWarn("index id has no metadata row", zap.Int("id", hit.ID))
			continue
		}
		candidates = append(candidates, recipe.Candidate{
			Record:   record,
			Distance: hit.Distance,
			Rank:     len(candidates),
		})
	}
	return candidates, nil
}

// Ready 檔案載入後即可使用
func (r *FileRetriever) Ready(ctx context.Context) error {
	if r.index.Len() == 0 {
		return common.WrapError(common.ErrCorpusUnavailable, fmt.Errorf("index is empty"))
	}
	return nil
}

// Close 無需釋放資源
func (r *FileRetriever) Close() error { return nil }
