package recipe

import (
	"context"
	"time"

	"recipe-recommender/internal/core/ai/provider"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

const unknownRecipeName = "Unknown Recipe"

// Options 推薦流程參數
type Options struct {
	TopK        int
	Weights     Weights
	NoteWidth   int
	MaxTokens   int
	Temperature float64
}

// Service 食譜推薦與生成流程
type Service struct {
	encoder   Encoder
	retriever Retriever
	generator Generator
	scorer    *Scorer
	opts      Options
}

// NewService 創建食譜服務，encoder 與 retriever 於程序啟動時載入一次後共用
func NewService(encoder Encoder, retriever Retriever, generator Generator, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights
	}
	return &Service{
		encoder:   encoder,
		retriever: retriever,
		generator: generator,
		scorer:    NewScorer(opts.Weights),
		opts:      opts,
	}
}

// Recommend 編碼查詢、檢索候選、評分並整理最佳食譜的步驟
func (s *Service) Recommend(ctx context.Context, inv Inventory, prefs Preferences) (*RetrievalResult, error) {
	query := BuildQueryText(inv, prefs)
	common.LogDebug("encoding recipe query", zap.Int("query_length", len(query)))

	vector, err := s.encoder.Encode(ctx, query)
	if err != nil {
		return nil, classify(err, common.ErrModelUnavailable)
	}

	candidates, err := s.retriever.Search(ctx, vector, s.opts.TopK)
	if err != nil {
		return nil, classify(err, common.ErrCorpusUnavailable)
	}

	sel, err := s.scorer.Score(inv, prefs, candidates)
	if err != nil {
		return nil, err
	}

	for _, c := range sel.Candidates {
		common.LogDebug("candidate scored",
			zap.String("name", c.Record.Name),
			zap.Int("rank", c.Rank),
			zap.Float64("distance", c.Distance),
			zap.Float64("ingredient_score", c.IngredientScore),
			zap.Float64("preference_score", c.PreferenceScore),
			zap.Float64("similarity_score", c.SimilarityScore),
			zap.Float64("overall_score", c.OverallScore),
		)
	}

	best := sel.Best
	name := best.Record.Name
	if name == "" {
		name = unknownRecipeName
	}

	records := make([]RecipeRecord, 0, len(sel.Candidates))
	for _, c := range sel.Candidates {
		records = append(records, c.Record)
	}

	return &RetrievalResult{
		RecipeName:         name,
		CustomizedFor:      prefs,
		IngredientsNeeded:  best.Ingredients,
		Instructions:       NormalizeInstructions(best.Record.Steps),
		MissingIngredients: best.MissingIngredients,
		MatchScore:         best.OverallScore,
		MatchingRecipes:    records,
		Selection:          sel,
	}, nil
}

// Generate 在推薦結果上建立 prompt、呼叫生成模型並解析輸出
func (s *Service) Generate(ctx context.Context, inv Inventory, prefs Preferences) (*GenerationResult, error) {
	retrieval, err := s.Recommend(ctx, inv, prefs)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(BuildReferenceContext(retrieval.MatchingRecipes), inv, prefs)

	start := time.Now()
	resp, err := s.generator.ProcessRequest(ctx, prompt, provider.Params{
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		return nil, classify(err, common.ErrModelUnavailable)
	}
	common.LogDebug("generation received",
		zap.Int("response_length", len(resp.Content)),
		zap.Duration("latency", time.Since(start)),
		zap.Bool("cache_hit", resp.CacheHit),
	)

	parsed := ParseResponse(resp.Content, s.opts.NoteWidth)
	if len(parsed.MissingSections) > 0 {
		common.LogWarn("generated recipe is missing sections",
			zap.Strings("missing_sections", parsed.MissingSections),
			zap.String("recipe_name", retrieval.RecipeName),
		)
	}

	return &GenerationResult{
		Recipe:            parsed.Recipe,
		RecommendedRecipe: parsed.Body,
		MissingSections:   parsed.MissingSections,
		Retrieval:         retrieval,
		Model:             resp.Model,
		CacheHit:          resp.CacheHit,
		Prompt:            prompt,
	}, nil
}

// classify 保留已分類的錯誤，其餘以 fallback 包裝
func classify(err error, fallback *common.CustomError) error {
	if _, ok := common.AsCustomError(err); ok {
		return err
	}
	return common.WrapError(fallback, err)
}
