package corpus

import (
	"context"
	"fmt"
	"regexp"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PGVectorRetriever 以 pgvector 的 L2 距離 (<->) 在 Postgres 中檢索
type PGVectorRetriever struct {
	db    *gorm.DB
	table string
}

type scoredRow struct {
	recipeRow
	Distance float64
}

// OpenPGVector 連線並確認資料庫可用
func OpenPGVector(ctx context.Context, dsn, table string) (*PGVectorRetriever, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, common.WrapError(common.ErrCorpusUnavailable, err)
	}

	r, err := NewPGVectorRetriever(db, table)
	if err != nil {
		return nil, err
	}
	if err := r.Ready(ctx); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// NewPGVectorRetriever 以既有連線建立檢索器
func NewPGVectorRetriever(db *gorm.DB, table string) (*PGVectorRetriever, error) {
	if table == "" {
		table = "recipes"
	}
	if !tableName.MatchString(table) {
		return nil, common.WrapError(common.ErrCorpusUnavailable, fmt.Errorf("invalid table name %q", table))
	}
	return &PGVectorRetriever{db: db, table: table}, nil
}

// Search 檢索最近的 k 筆食譜
func (r *PGVectorRetriever) Search(ctx context.Context, vector []float32, k int) ([]recipe.Candidate, error) {
	if k <= 0 {
		return []recipe.Candidate{}, nil
	}

	query := fmt.Sprintf(`SELECT id, name, ingredients, ingredients_raw_str, steps, tags,
		embedding <-> ? AS distance
		FROM %s ORDER BY distance, id LIMIT ?`, r.table)

	var rows []scoredRow
	if err := r.db.WithContext(ctx).Raw(query, pgvector.NewVector(vector), k).Scan(&rows).Error; err != nil {
		return nil, common.WrapError(common.ErrCorpusUnavailable, err)
	}

	candidates := make([]recipe.Candidate, 0, len(rows))
	for i, row := range rows {
		candidates = append(candidates, recipe.Candidate{
			Record:   row.toRecord(row.ID),
			Distance: row.Distance,
			Rank:     i,
		})
	}
	return candidates, nil
}

// Ready 檢查資料庫連線
func (r *PGVectorRetriever) Ready(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return common.WrapError(common.ErrCorpusUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return common.WrapError(common.ErrCorpusUnavailable, err)
	}
	return nil
}

// Close 關閉連線
func (r *PGVectorRetriever) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
