package corpus

import (
	"context"
	"os"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type pgRecipe struct {
	ID                int
	Name              string
	Ingredients       string
	IngredientsRawStr string
	Steps             string
	Tags              string
	Embedding         pgvector.Vector `gorm:"type:vector(2)"`
}

func TestPGVectorRetriever_Search(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error)

	const table = "recipes_search_test"
	require.NoError(t, db.Migrator().DropTable(table))
	require.NoError(t, db.Table(table).AutoMigrate(&pgRecipe{}))
	t.Cleanup(func() { _ = db.Migrator().DropTable(table) })

	require.NoError(t, db.Table(table).Create([]pgRecipe{
		{ID: 1, Name: "Omelette", Ingredients: "Egg, Milk", Steps: "Beat. Cook.", Tags: "breakfast", Embedding: pgvector.NewVector([]float32{0, 0})},
		{ID: 2, Name: "Salad", Ingredients: "Lettuce", Steps: "Toss.", Tags: "lunch", Embedding: pgvector.NewVector([]float32{3, 4})},
		{ID: 3, Name: "Toast", Ingredients: "Bread", Steps: "Toast.", Tags: "breakfast", Embedding: pgvector.NewVector([]float32{1, 0})},
	}).Error)

	r, err := NewPGVectorRetriever(db, table)
	require.NoError(t, err)
	require.NoError(t, r.Ready(context.Background()))

	candidates, err := r.Search(context.Background(), []float32{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Omelette", candidates[0].Record.Name)
	assert.Equal(t, "Toast", candidates[1].Record.Name)
	assert.InDelta(t, 1.0, candidates[1].Distance, 1e-6)
	assert.Equal(t, 1, candidates[1].Rank)
}

func TestNewPGVectorRetriever_RejectsBadTableName(t *testing.T) {
	_, err := NewPGVectorRetriever(nil, "recipes; DROP TABLE users")
	assert.Error(t, err)

	r, err := NewPGVectorRetriever(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "recipes", r.table)
}
