package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInstructions(t *testing.T) {
	tests := []struct {
		name  string
		steps Steps
		want  []string
	}{
		{
			name:  "native list is returned unchanged",
			steps: StepsFromList([]string{" 1. keep", "as-is "}),
			want:  []string{" 1. keep", "as-is "},
		},
		{
			name:  "numbered lines",
			steps: StepsFromText("1. Chop onions\n2. Boil water"),
			want:  []string{"Chop onions", "Boil water"},
		},
		{
			name:  "python list literal",
			steps: StepsFromText(`['preheat oven', "mix flour, sugar", 'bake it\'s done']`),
			want:  []string{"preheat oven", "mix flour, sugar", "bake it's done"},
		},
		{
			name:  "json list literal",
			steps: StepsFromText(`["Whisk eggs", "Pour into pan"]`),
			want:  []string{"Whisk eggs", "Pour into pan"},
		},
		{
			name:  "empty list literal",
			steps: StepsFromText(`[]`),
			want:  []string{},
		},
		{
			name:  "malformed literal falls back to sentences",
			steps: StepsFromText(`[Mix the batter. Bake it]`),
			want:  []string{"Mix the batter", "Bake it]"},
		},
		{
			name:  "line breaks drop blanks",
			steps: StepsFromText("Heat pan\n\n  \nAdd oil\n"),
			want:  []string{"Heat pan", "Add oil"},
		},
		{
			name:  "inline numbered markers",
			steps: StepsFromText("1. Mix flour and 2 eggs 2. Bake at 180C 3. Serve"),
			want:  []string{"Mix flour and 2 eggs", "Bake at 180C", "Serve"},
		},
		{
			name:  "number ending a sentence is not a marker",
			steps: StepsFromText("1. Preheat oven to 350. 2. Bake for 20 min."),
			want:  []string{"Preheat oven to 350.", "Bake for 20 min."},
		},
		{
			name:  "leading brackets and quotes are stripped",
			steps: StepsFromText("(optional) sift flour\n\"Stir\" gently\n'fold"),
			want:  []string{"optional) sift flour", "Stir\" gently", "fold"},
		},
		{
			name:  "single numbered marker is not enough",
			steps: StepsFromText("1. Mix everything. Serve warm."),
			want:  []string{"Mix everything", "Serve warm"},
		},
		{
			name:  "sentences keep decimals",
			steps: StepsFromText("Add 3.5 cups of flour. Stir well. Rest for 1.5 hours."),
			want:  []string{"Add 3.5 cups of flour", "Stir well", "Rest for 1.5 hours"},
		},
		{
			name:  "leading punctuation is stripped",
			steps: StepsFromText(", add salt\n- stir\n• serve"),
			want:  []string{"add salt", "stir", "serve"},
		},
		{
			name:  "empty text",
			steps: StepsFromText("   "),
			want:  []string{},
		},
		{
			name:  "zero value",
			steps: Steps{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInstructions(tt.steps))
		})
	}
}

func TestNormalizeInstructions_NativeListNil(t *testing.T) {
	assert.Empty(t, NormalizeInstructions(StepsFromList(nil)))
}
