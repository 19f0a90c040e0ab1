package recipe

import (
	"strings"

	"recipe-recommender/internal/pkg/common"
)

// Weights 綜合分數的權重
type Weights struct {
	Ingredient float64
	Preference float64
	Similarity float64
}

// DefaultWeights 預設權重 0.5 / 0.3 / 0.2
var DefaultWeights = Weights{Ingredient: 0.5, Preference: 0.3, Similarity: 0.2}

// Scorer 候選食譜評分器
type Scorer struct {
	Weights Weights
}

// NewScorer 創建評分器
func NewScorer(w Weights) *Scorer {
	return &Scorer{Weights: w}
}

// Score 為每個候選評分並選出最佳者；同分時取檢索順序較前者
func (s *Scorer) Score(inv Inventory, prefs Preferences, candidates []Candidate) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, common.ErrNoCandidates
	}

	available := inv.Available()

	// maxDistance 必須在逐筆計算相似度之前取得
	maxDistance := 0.0
	for _, c := range candidates {
		if c.Distance > maxDistance {
			maxDistance = c.Distance
		}
	}

	sel := &Selection{
		BestIndex:  -1,
		Candidates: make([]ScoredCandidate, 0, len(candidates)),
	}
	for i, c := range candidates {
		scored := s.scoreOne(c, available, prefs, maxDistance)
		sel.Candidates = append(sel.Candidates, scored)
		if sel.BestIndex < 0 || scored.OverallScore > sel.Candidates[sel.BestIndex].OverallScore {
			sel.BestIndex = i
		}
	}
	sel.Best = sel.Candidates[sel.BestIndex]

	return sel, nil
}

func (s *Scorer) scoreOne(c Candidate, available map[string]struct{}, prefs Preferences, maxDistance float64) ScoredCandidate {
	ingredients := c.Record.IngredientList()
	present, missing := splitIngredients(ingredients, available)

	scored := ScoredCandidate{
		Candidate:          c,
		Ingredients:        ingredients,
		PresentIngredients: present,
		MissingIngredients: missing,
		IngredientScore:    IngredientScore(ingredients, available),
		PreferenceScore:    PreferenceScore(prefs, c.Record.Tags),
		SimilarityScore:    SimilarityScore(c.Distance, maxDistance),
	}
	scored.OverallScore = s.Weights.Ingredient*scored.IngredientScore +
		s.Weights.Preference*scored.PreferenceScore +
		s.Weights.Similarity*scored.SimilarityScore
	return scored
}

// IngredientScore 可用食材佔候選食材的比例，候選沒有食材時為 0
func IngredientScore(ingredients []string, available map[string]struct{}) float64 {
	if len(ingredients) == 0 {
		return 0
	}
	present, _ := splitIngredients(ingredients, available)
	return float64(len(present)) / float64(len(ingredients))
}

// PreferenceScore 偏好在 tags 中以子字串出現的比例
func PreferenceScore(prefs Preferences, tags string) float64 {
	tags = strings.ToLower(tags)
	needs := prefs.DietaryNeeds.Values()

	matched := 0
	if strings.Contains(tags, strings.ToLower(prefs.MealType)) {
		matched++
	}
	for _, need := range needs {
		if strings.Contains(tags, strings.ToLower(need)) {
			matched++
		}
	}
	if strings.Contains(tags, strings.ToLower(prefs.CuisineType)) {
		matched++
	}

	axes := 2 + len(needs)
	return float64(matched) / float64(axes)
}

// SimilarityScore 1 - distance/maxDistance，maxDistance 為 0 時回傳 0
func SimilarityScore(distance, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return 0
	}
	return 1 - distance/maxDistance
}

// splitIngredients 依可用集合將候選食材分為已有與缺少兩部分
func splitIngredients(ingredients []string, available map[string]struct{}) (present, missing []string) {
	present = []string{}
	missing = []string{}
	for _, ing := range ingredients {
		key := normalizeIngredient(ing)
		if _, ok := available[key]; ok {
			present = append(present, ing)
			continue
		}
		missing = append(missing, ing)
	}
	return present, missing
}

func normalizeIngredient(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
