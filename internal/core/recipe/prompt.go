package recipe

import (
	"fmt"
	"strings"
)

// BuildReferenceContext 將所有候選食譜組成參考資料
func BuildReferenceContext(records []RecipeRecord) string {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		ingredients := r.Ingredients
		if ingredients == "" {
			ingredients = r.IngredientsRaw
		}
		parts = append(parts, fmt.Sprintf("%s: %s. %s", r.Name, ingredients, r.Steps.String()))
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt 產生送往生成模型的指令；ParseResponse 依賴這裡要求的輸出結構
func BuildPrompt(contextText string, inv Inventory, prefs Preferences) string {
	lines := make([]string, 0, len(inv))
	for _, e := range inv {
		if strings.TrimSpace(e.Quantity) != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", e.Name, e.Quantity))
		} else {
			lines = append(lines, fmt.Sprintf("- %s", e.Name))
		}
	}

	var b strings.Builder
	b.WriteString("You are a certified dietician and culinary expert.\n")
	b.WriteString("Your task is to create one personalized recipe using ONLY the ingredients available in the user's fridge.\n\n")

	b.WriteString("User Preferences:\n")
	fmt.Fprintf(&b, "- Meal Type: %s\n", prefs.MealType)
	fmt.Fprintf(&b, "- Dietary Needs: %s\n", prefs.DietaryNeeds.Joined())
	fmt.Fprintf(&b, "- Cuisine Type: %s\n\n", prefs.CuisineType)

	b.WriteString("AVAILABLE INGREDIENTS IN USER'S FRIDGE (all of these are available):\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	b.WriteString("IMPORTANT INSTRUCTIONS:\n")
	b.WriteString("- You MUST use ONLY ingredients from the list above.\n")
	b.WriteString("- DO NOT mark any ingredient from the above list as 'Missing' - they are ALL available.\n")
	b.WriteString("- Do not invent or add any ingredients not listed above.\n")
	b.WriteString("- Only ingredients listed above may be used.\n")
	b.WriteString("- If a required ingredient is not listed (even honey, spices, etc.), you must clearly label it as 'Missing'.\n")
	b.WriteString("- Exception: water is allowed without marking it missing.\n")
	b.WriteString("- Match the preferences strictly (meal type, dietary needs, cuisine).\n")
	b.WriteString("- Provide clear, realistic ingredient quantities.\n\n")

	b.WriteString("Reference Recipe (for inspiration):\n")
	b.WriteString(contextText)
	b.WriteString("\n\n")

	b.WriteString("Please generate exactly one recipe that includes:\n")
	b.WriteString("1. Recipe Name\n")
	b.WriteString("2. List of Ingredients with quantities\n")
	b.WriteString("3. Step-by-step Instructions\n")
	b.WriteString("4. Brief nutritional note explaining how this recipe meets the dietary needs")

	return b.String()
}
