package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const wellFormedResponse = `Recipe Name: Fluffy Vegetarian Omelette

Ingredients:
- 3 Eggs
- 1/4 cup Milk
* Pinch of salt (Missing)

This omelette suits the preferences of the user.

Instructions:
1. Whisk the eggs with milk.
2. Pour into a hot pan.
3. Fold and serve.

Nutritional Note: Eggs provide complete protein while milk adds calcium, making this a balanced vegetarian breakfast that keeps you full until lunch.`

func TestParseResponse_WellFormed(t *testing.T) {
	parsed := ParseResponse(wellFormedResponse, 90)

	assert.Equal(t, "Fluffy Vegetarian Omelette", parsed.Recipe.Name)
	assert.Equal(t, []string{"3 Eggs", "1/4 cup Milk", "Pinch of salt (Missing)"}, parsed.Recipe.Ingredients)
	assert.Equal(t, []string{
		"1. Whisk the eggs with milk.",
		"2. Pour into a hot pan.",
		"3. Fold and serve.",
	}, parsed.Recipe.Instructions)
	assert.NotEmpty(t, parsed.Recipe.NutritionalNote)
	assert.Empty(t, parsed.MissingSections)

	assert.NotContains(t, parsed.Body, "Nutritional Note:")
	assert.NotContains(t, parsed.Body, "Eggs provide complete protein")
	assert.NotContains(t, parsed.Body, "of the user.")
	assert.True(t, strings.HasSuffix(parsed.Body, "3. Fold and serve."))
}

func TestParseResponse_NoteIsWrapped(t *testing.T) {
	parsed := ParseResponse(wellFormedResponse, 40)

	for _, line := range strings.Split(parsed.Recipe.NutritionalNote, "\n") {
		assert.LessOrEqual(t, len(line), 40)
	}
	assert.Equal(t,
		"Eggs provide complete protein while milk adds calcium, making this a balanced vegetarian breakfast that keeps you full until lunch.",
		strings.ReplaceAll(parsed.Recipe.NutritionalNote, "\n", " "),
	)
}

func TestParseResponse_WithoutNote(t *testing.T) {
	raw := "Recipe Name: Toast\n\nIngredients: Bread\n\nToast it."

	parsed := ParseResponse(raw, 90)

	assert.Equal(t, "Toast", parsed.Recipe.Name)
	assert.Equal(t, []string{"Bread"}, parsed.Recipe.Ingredients)
	assert.Empty(t, parsed.Recipe.Instructions)
	assert.Empty(t, parsed.Recipe.NutritionalNote)
	assert.Equal(t, raw, parsed.Body)
	assert.Equal(t, []string{SectionInstructions, SectionNutritionalNote}, parsed.MissingSections)
}

func TestParseResponse_NoSections(t *testing.T) {
	parsed := ParseResponse("Just a single paragraph with no structure at all.", 90)

	assert.Empty(t, parsed.Recipe.Name)
	assert.Empty(t, parsed.Recipe.Ingredients)
	assert.Empty(t, parsed.Recipe.Instructions)
	assert.Empty(t, parsed.Recipe.NutritionalNote)
	assert.Equal(t, "Just a single paragraph with no structure at all.", parsed.Body)
	assert.Equal(t, []string{SectionName, SectionIngredients, SectionInstructions, SectionNutritionalNote}, parsed.MissingSections)
}

func TestParseResponse_Empty(t *testing.T) {
	parsed := ParseResponse("", 90)

	assert.Empty(t, parsed.Body)
	assert.Len(t, parsed.MissingSections, 4)
	assert.NotNil(t, parsed.Recipe.Ingredients)
	assert.NotNil(t, parsed.Recipe.Instructions)
}

func TestParseResponse_OnlyNote(t *testing.T) {
	parsed := ParseResponse("Nutritional Note: High in protein.", 90)

	assert.Equal(t, "High in protein.", parsed.Recipe.NutritionalNote)
	assert.Empty(t, parsed.Body)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "a bb\nccc", wrapText("a  bb\nccc", 5))
	assert.Equal(t, "averyveryverylongword\nx", wrapText("averyveryverylongword x", 5))
	assert.Equal(t, "one two", wrapText(" one   two ", 0))
	assert.Equal(t, "", wrapText("   ", 10))
}
