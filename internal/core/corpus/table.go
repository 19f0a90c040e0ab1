package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Table 食譜資料表，以列位置對應向量索引 ID
type Table struct {
	records []recipe.RecipeRecord
}

// recipeRow 資料庫中的食譜欄位
type recipeRow struct {
	ID                int
	Name              string
	Ingredients       string
	IngredientsRawStr string
	Steps             string
	Tags              string
}

func (r recipeRow) toRecord(id int) recipe.RecipeRecord {
	return recipe.RecipeRecord{
		ID:             id,
		Name:           r.Name,
		Ingredients:    r.Ingredients,
		IngredientsRaw: r.IngredientsRawStr,
		Steps:          recipe.StepsFromText(r.Steps),
		Tags:           r.Tags,
	}
}

// NewTable 以記憶體中的食譜建立資料表，ID 依位置重新編號
func NewTable(records []recipe.RecipeRecord) *Table {
	out := make([]recipe.RecipeRecord, len(records))
	for i, r := range records {
		r.ID = i
		out[i] = r
	}
	return &Table{records: out}
}

// LoadTable 依副檔名讀取 .csv、.json 或 SQLite (.db/.sqlite/.sqlite3)
func LoadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported metadata format %q", filepath.Ext(path))
	}
}

// Len 食譜數量
func (t *Table) Len() int { return len(t.records) }

// Get 依位置取得食譜
func (t *Table) Get(id int) (recipe.RecipeRecord, bool) {
	if id < 0 || id >= len(t.records) {
		return recipe.RecipeRecord{}, false
	}
	return t.records[id], true
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("metadata table has no name column")
	}

	field := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	var records []recipe.RecipeRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(records)+1, err)
		}
		records = append(records, recipeRow{
			Name:              field(row, "name"),
			Ingredients:       field(row, "ingredients"),
			IngredientsRawStr: field(row, "ingredients_raw_str"),
			Steps:             field(row, "steps"),
			Tags:              field(row, "tags"),
		}.toRecord(len(records)))
	}

	return &Table{records: records}, nil
}

func loadJSON(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []recipe.RecipeRecord
	if err := common.DecodeJSON(f, &records); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	return NewTable(records), nil
}

func loadSQLite(path string) (*Table, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()

	var rows []recipeRow
	if err := db.Table("recipes").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}

	records := make([]recipe.RecipeRecord, 0, len(rows))
	for i, row := range rows {
		records = append(records, row.toRecord(i))
	}
	return &Table{records: records}, nil
}
