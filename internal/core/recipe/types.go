package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Item 冰箱庫存項目
type Item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// InventoryEntry 庫存中的單一食材與數量
type InventoryEntry struct {
	Name     string
	Quantity string
}

// Inventory 有序的食材 → 數量對應，保留輸入順序讓 prompt 可重現
type Inventory []InventoryEntry

// InventoryFromItems 將庫存快照轉為食材對應
func InventoryFromItems(items []Item) Inventory {
	inv := make(Inventory, 0, len(items))
	for _, item := range items {
		inv = append(inv, InventoryEntry{Name: item.Name, Quantity: strconv.Itoa(item.Count)})
	}
	return inv
}

// Names 回傳所有食材名稱（原始寫法）
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for _, e := range inv {
		names = append(names, e.Name)
	}
	return names
}

// Available 回傳可用食材集合，key 為去除數量後綴並小寫的名稱
func (inv Inventory) Available() map[string]struct{} {
	available := make(map[string]struct{}, len(inv))
	for _, e := range inv {
		name := e.Name
		if i := strings.Index(name, ":"); i >= 0 {
			name = name[:i]
		}
		available[normalizeIngredient(name)] = struct{}{}
	}
	return available
}

// MarshalJSON 以物件形式輸出並保留順序
func (inv Inventory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range inv {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Quantity)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 接受 {"Egg": "3"} 物件或 [{"name": "Egg", "count": 3}] 陣列
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*inv = nil
		return nil
	}

	switch data[0] {
	case '[':
		var items []struct {
			Name     string          `json:"name"`
			Count    json.RawMessage `json:"count"`
			Quantity json.RawMessage `json:"quantity"`
		}
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("invalid inventory list: %w", err)
		}
		out := make(Inventory, 0, len(items))
		for _, item := range items {
			raw := item.Count
			if len(raw) == 0 {
				raw = item.Quantity
			}
			qty, err := quantityFromJSON(raw)
			if err != nil {
				return fmt.Errorf("invalid quantity for %q: %w", item.Name, err)
			}
			out = append(out, InventoryEntry{Name: item.Name, Quantity: qty})
		}
		*inv = out
		return nil

	case '{':
		dec := json.NewDecoder(bytes.NewReader(data))
		if _, err := dec.Token(); err != nil {
			return err
		}
		out := Inventory{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			name, _ := tok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return err
			}
			qty, err := quantityFromJSON(raw)
			if err != nil {
				return fmt.Errorf("invalid quantity for %q: %w", name, err)
			}
			out = append(out, InventoryEntry{Name: name, Quantity: qty})
		}
		*inv = out
		return nil
	}

	return fmt.Errorf("inventory must be an object or a list")
}

// quantityFromJSON 數量可以是字串、數字或 null
func quantityFromJSON(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// DietaryNeeds 飲食需求：單一字串或字串陣列，內部一律以清單表示
type DietaryNeeds struct {
	values []string
	isList bool
}

// ScalarNeeds 以單一字串建立飲食需求，等同只有一個元素的清單（空字串亦然）
func ScalarNeeds(need string) DietaryNeeds {
	return DietaryNeeds{values: []string{need}}
}

// ListNeeds 以字串陣列建立飲食需求
func ListNeeds(needs ...string) DietaryNeeds {
	return DietaryNeeds{values: append([]string(nil), needs...), isList: true}
}

// Values 回傳正規化後的需求清單
func (d DietaryNeeds) Values() []string {
	return append([]string(nil), d.values...)
}

// IsList 輸入是否為陣列形式
func (d DietaryNeeds) IsList() bool {
	return d.isList
}

// Joined 以逗號連接的需求
func (d DietaryNeeds) Joined() string {
	return strings.Join(d.values, ", ")
}

// MarshalJSON 保留原本的輸入形式
func (d DietaryNeeds) MarshalJSON() ([]byte, error) {
	if d.isList {
		if d.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.values)
	}
	return json.Marshal(d.Joined())
}

// UnmarshalJSON 接受字串或字串陣列
func (d *DietaryNeeds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*d = DietaryNeeds{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = ScalarNeeds(s)
	case data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("dietaryNeeds must be a list of strings: %w", err)
		}
		*d = ListNeeds(list...)
	default:
		return fmt.Errorf("dietaryNeeds must be a string or a list of strings")
	}
	return nil
}

// Preferences 使用者偏好
type Preferences struct {
	MealType     string       `json:"mealType"`
	DietaryNeeds DietaryNeeds `json:"dietaryNeeds"`
	CuisineType  string       `json:"cuisineType"`
}

// Steps 食譜步驟欄位：已是清單或原始文字
type Steps struct {
	list   []string
	text   string
	isList bool
}

// StepsFromList 以清單建立步驟
func StepsFromList(steps []string) Steps {
	return Steps{list: append([]string(nil), steps...), isList: true}
}

// StepsFromText 以原始文字建立步驟
func StepsFromText(text string) Steps {
	return Steps{text: text}
}

// IsList 是否已是清單
func (s Steps) IsList() bool { return s.isList }

// List 清單形式的步驟
func (s Steps) List() []string { return append([]string(nil), s.list...) }

// Text 原始文字
func (s Steps) Text() string { return s.text }

// String 參考資料中使用的文字表示
func (s Steps) String() string {
	if s.isList {
		return strings.Join(s.list, " ")
	}
	return s.text
}

// MarshalJSON 保留原本的形式
func (s Steps) MarshalJSON() ([]byte, error) {
	if s.isList {
		if s.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.list)
	}
	return json.Marshal(s.text)
}

// UnmarshalJSON 接受字串或字串陣列
func (s *Steps) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = Steps{}
	case data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("steps must be a list of strings: %w", err)
		}
		*s = StepsFromList(list)
	default:
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("steps must be a string or a list of strings: %w", err)
		}
		*s = StepsFromText(text)
	}
	return nil
}

// RecipeRecord 語料庫中的食譜，ID 對應向量索引中的位置
type RecipeRecord struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Ingredients    string `json:"ingredients"`
	IngredientsRaw string `json:"ingredients_raw_str,omitempty"`
	Steps          Steps  `json:"steps"`
	Tags           string `json:"tags"`
}

// IngredientList 解析食材清單，優先使用 ingredients 欄位
func (r RecipeRecord) IngredientList() []string {
	raw := r.Ingredients
	if raw == "" {
		raw = r.IngredientsRaw
	}
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Candidate 檢索得到的候選食譜
type Candidate struct {
	Record   RecipeRecord
	Distance float64
	Rank     int
}

// ScoredCandidate 已評分的候選食譜
type ScoredCandidate struct {
	Candidate
	IngredientScore    float64
	PreferenceScore    float64
	SimilarityScore    float64
	OverallScore       float64
	Ingredients        []string
	PresentIngredients []string
	MissingIngredients []string
}

// Selection 評分結果，Best 為 Candidates 中被選中的那一筆
type Selection struct {
	Best       ScoredCandidate
	BestIndex  int
	Candidates []ScoredCandidate
}

// RetrievalResult 推薦結果
type RetrievalResult struct {
	RecipeName         string         `json:"recipe_name"`
	CustomizedFor      Preferences    `json:"customized_for"`
	IngredientsNeeded  []string       `json:"ingredients_needed"`
	Instructions       []string       `json:"instructions"`
	MissingIngredients []string       `json:"missing_ingredients"`
	MatchScore         float64        `json:"match_score"`
	MatchingRecipes    []RecipeRecord `json:"matching_recipes"`

	Selection *Selection `json:"-"`
}

// GeneratedRecipe 模型生成並解析後的食譜，欄位名稱與前端約定一致
type GeneratedRecipe struct {
	Name            string   `json:"Recipe_name"`
	Ingredients     []string `json:"Ingredients"`
	Instructions    []string `json:"Step by step instructions"`
	NutritionalNote string   `json:"Nutritional_note"`
}

// GenerationResult 完整的生成結果
type GenerationResult struct {
	Recipe            GeneratedRecipe  `json:"recipe"`
	RecommendedRecipe string           `json:"recommended_recipe"`
	MissingSections   []string         `json:"missing_sections,omitempty"`
	Retrieval         *RetrievalResult `json:"retrieval"`
	Model             string           `json:"model"`
	CacheHit          bool             `json:"cache_hit"`

	Prompt string `json:"-"`
}
