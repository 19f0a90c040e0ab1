package recipe

import (
	"context"
	"fmt"
	"strings"

	"recipe-recommender/internal/core/ai/provider"
)

// Encoder 將文字轉為句向量
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// Retriever 以向量檢索最近的 k 筆食譜，依距離遞增排序
type Retriever interface {
	Search(ctx context.Context, vector []float32, k int) ([]Candidate, error)
}

// Generator 呼叫生成模型
type Generator interface {
	ProcessRequest(ctx context.Context, prompt string, params provider.Params) (*provider.Result, error)
}

// BuildQueryText 組合用於檢索的查詢文字
func BuildQueryText(inv Inventory, prefs Preferences) string {
	return fmt.Sprintf("Recipe with %s. Preferences: mealtype: %s, dietaryneeds: %s, cuisinetype: %s.",
		strings.Join(inv.Names(), ", "),
		prefs.MealType,
		prefs.DietaryNeeds.Joined(),
		prefs.CuisineType,
	)
}
