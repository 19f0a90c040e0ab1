package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testCSV = `,name,ingredients,ingredients_raw_str,steps,tags,minutes
0,Omelette,"Egg, Milk, Salt",,"['Beat the eggs', 'Cook in a pan']","breakfast, vegetarian, american",10
1,Pancakes,,"Flour, Egg, Milk","1. Mix everything 2. Fry","breakfast, american",20
2,Salad,"Lettuce, Tomato",,Chop. Toss.,"lunch, vegan",5
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTable_CSV(t *testing.T) {
	table, err := LoadTable(writeFile(t, "recipes.csv", testCSV))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	omelette, ok := table.Get(0)
	require.True(t, ok)
	assert.Equal(t, 0, omelette.ID)
	assert.Equal(t, "Omelette", omelette.Name)
	assert.Equal(t, []string{"Egg", "Milk", "Salt"}, omelette.IngredientList())
	assert.Equal(t, "['Beat the eggs', 'Cook in a pan']", omelette.Steps.Text())

	pancakes, ok := table.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"Flour", "Egg", "Milk"}, pancakes.IngredientList())

	_, ok = table.Get(3)
	assert.False(t, ok)
	_, ok = table.Get(-1)
	assert.False(t, ok)
}

func TestLoadTable_JSON(t *testing.T) {
	path := writeFile(t, "recipes.json", `[
		{"name": "Omelette", "ingredients": "Egg, Milk", "steps": ["Beat", "Cook"], "tags": "breakfast"},
		{"name": "Toast", "ingredients": "Bread", "steps": "Toast the bread.", "tags": "breakfast"}
	]`)

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	first, _ := table.Get(0)
	assert.True(t, first.Steps.IsList())
	assert.Equal(t, []string{"Beat", "Cook"}, first.Steps.List())

	second, _ := table.Get(1)
	assert.Equal(t, 1, second.ID)
	assert.False(t, second.Steps.IsList())
}

func TestLoadTable_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Table("recipes").AutoMigrate(&recipeRow{}))
	require.NoError(t, db.Table("recipes").Create([]recipeRow{
		{ID: 2, Name: "Second", Ingredients: "Rice", Steps: "Boil.", Tags: "dinner"},
		{ID: 1, Name: "First", Ingredients: "Egg", Steps: "Fry.", Tags: "breakfast"},
	}).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	first, _ := table.Get(0)
	assert.Equal(t, "First", first.Name)
	second, _ := table.Get(1)
	assert.Equal(t, "Second", second.Name)
}

func TestLoadTable_Errors(t *testing.T) {
	_, err := LoadTable(writeFile(t, "recipes.parquet", "x"))
	assert.Error(t, err)

	_, err = LoadTable(writeFile(t, "recipes.csv", "title,steps\nA,B\n"))
	assert.Error(t, err)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestFileRetriever_Search(t *testing.T) {
	index, err := NewFlatIndex([][]float32{{0, 0}, {1, 1}, {2, 2}})
	require.NoError(t, err)
	table, err := LoadTable(writeFile(t, "recipes.csv", testCSV))
	require.NoError(t, err)

	r, err := NewFileRetriever(index, table)
	require.NoError(t, err)
	require.NoError(t, r.Ready(context.Background()))

	candidates, err := r.Search(context.Background(), []float32{2, 2}, 2)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Salad", candidates[0].Record.Name)
	assert.Equal(t, 0, candidates[0].Rank)
	assert.Equal(t, "Pancakes", candidates[1].Record.Name)
	assert.Equal(t, 1, candidates[1].Rank)
	assert.InDelta(t, 2.0, candidates[1].Distance, 1e-9)
}

func TestNewFileRetriever_IndexLargerThanTable(t *testing.T) {
	index, err := NewFlatIndex([][]float32{{0}, {1}, {2}, {3}})
	require.NoError(t, err)
	table, err := LoadTable(writeFile(t, "recipes.csv", testCSV))
	require.NoError(t, err)

	_, err = NewFileRetriever(index, table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCorpusUnavailable))
}

func TestLoad_FileBackend(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "recipes.fvecs")
	f, err := os.Create(indexPath)
	require.NoError(t, err)
	require.NoError(t, WriteFlatIndex(f, [][]float32{{0, 0}, {1, 1}, {2, 2}}))
	require.NoError(t, f.Close())
	metaPath := filepath.Join(dir, "recipes.csv")
	require.NoError(t, os.WriteFile(metaPath, []byte(testCSV), 0o644))

	cfg := config.CorpusConfig{Backend: "file", IndexPath: indexPath, MetadataPath: metaPath, SearchShards: 2}

	backend, err := Load(context.Background(), cfg, 2)
	require.NoError(t, err)
	defer backend.Close()

	candidates, err := backend.Search(context.Background(), []float32{0, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
	assert.Equal(t, "Omelette", candidates[0].Record.Name)

	_, err = Load(context.Background(), cfg, 384)
	assert.True(t, errors.Is(err, common.ErrCorpusUnavailable))
}

func TestLoad_MissingFiles(t *testing.T) {
	cfg := config.CorpusConfig{
		Backend:      "file",
		IndexPath:    filepath.Join(t.TempDir(), "missing.fvecs"),
		MetadataPath: filepath.Join(t.TempDir(), "missing.csv"),
	}

	_, err := Load(context.Background(), cfg, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCorpusUnavailable))

	_, err = Load(context.Background(), config.CorpusConfig{Backend: "faiss"}, 0)
	assert.True(t, errors.Is(err, common.ErrCorpusUnavailable))
}
