package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_UnmarshalObjectKeepsOrder(t *testing.T) {
	var inv Inventory
	require.NoError(t, json.Unmarshal([]byte(`{"Milk": "1", "Egg": 3, "Salt": null}`), &inv))

	assert.Equal(t, Inventory{
		{Name: "Milk", Quantity: "1"},
		{Name: "Egg", Quantity: "3"},
		{Name: "Salt", Quantity: ""},
	}, inv)
}

func TestInventory_UnmarshalList(t *testing.T) {
	var inv Inventory
	require.NoError(t, json.Unmarshal([]byte(`[{"name": "Egg", "count": 3}, {"name": "Milk", "quantity": "1 cup"}]`), &inv))

	assert.Equal(t, Inventory{
		{Name: "Egg", Quantity: "3"},
		{Name: "Milk", Quantity: "1 cup"},
	}, inv)
}

func TestInventory_UnmarshalInvalid(t *testing.T) {
	var inv Inventory
	assert.Error(t, json.Unmarshal([]byte(`"eggs"`), &inv))
	assert.Error(t, json.Unmarshal([]byte(`{"Egg": {"n": 1}}`), &inv))
}

func TestInventory_MarshalRoundTrip(t *testing.T) {
	inv := Inventory{{Name: "Milk", Quantity: "1"}, {Name: "Egg", Quantity: "3"}}

	data, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.Equal(t, `{"Milk":"1","Egg":"3"}`, string(data))
}

func TestInventory_Available(t *testing.T) {
	inv := Inventory{{Name: " Egg "}, {Name: "Milk: 2 cups"}}

	available := inv.Available()
	assert.Contains(t, available, "egg")
	assert.Contains(t, available, "milk")
	assert.Len(t, available, 2)
}

func TestDietaryNeeds_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		values []string
		isList bool
	}{
		{"scalar", `"vegan"`, []string{"vegan"}, false},
		{"list", `["vegan", "gluten-free"]`, []string{"vegan", "gluten-free"}, true},
		{"empty scalar", `""`, []string{""}, false},
		{"empty string in list", `[""]`, []string{""}, true},
		{"null", `null`, nil, false},
		{"empty list", `[]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prefs Preferences
			require.NoError(t, json.Unmarshal([]byte(`{"dietaryNeeds": `+tt.input+`}`), &prefs))
			assert.Equal(t, tt.values, prefs.DietaryNeeds.Values())
			assert.Equal(t, tt.isList, prefs.DietaryNeeds.IsList())
		})
	}

	var prefs Preferences
	assert.Error(t, json.Unmarshal([]byte(`{"dietaryNeeds": 3}`), &prefs))
}

func TestDietaryNeeds_MarshalKeepsShape(t *testing.T) {
	data, err := json.Marshal(ScalarNeeds("vegan"))
	require.NoError(t, err)
	assert.Equal(t, `"vegan"`, string(data))

	data, err = json.Marshal(ListNeeds("vegan", "keto"))
	require.NoError(t, err)
	assert.Equal(t, `["vegan","keto"]`, string(data))
}

func TestSteps_Unmarshal(t *testing.T) {
	var record RecipeRecord
	require.NoError(t, json.Unmarshal([]byte(`{"name": "A", "steps": ["one", "two"]}`), &record))
	assert.True(t, record.Steps.IsList())
	assert.Equal(t, []string{"one", "two"}, record.Steps.List())
	assert.Equal(t, "one two", record.Steps.String())

	require.NoError(t, json.Unmarshal([]byte(`{"name": "B", "steps": "Mix. Bake."}`), &record))
	assert.False(t, record.Steps.IsList())
	assert.Equal(t, "Mix. Bake.", record.Steps.Text())

	assert.Error(t, json.Unmarshal([]byte(`{"steps": [1, 2]}`), &record))
}

func TestRecipeRecord_IngredientList(t *testing.T) {
	assert.Equal(t, []string{"Egg", "Milk"}, RecipeRecord{Ingredients: "Egg ,  Milk"}.IngredientList())
	assert.Equal(t, []string{"Flour", "Sugar"}, RecipeRecord{IngredientsRaw: "Flour, Sugar"}.IngredientList())
	assert.Equal(t, []string{"Egg"}, RecipeRecord{Ingredients: "Egg", IngredientsRaw: "Flour"}.IngredientList())
	assert.Empty(t, RecipeRecord{}.IngredientList())
}

func TestInventoryFromItems(t *testing.T) {
	inv := InventoryFromItems([]Item{{Name: "Egg", Count: 3}, {Name: "Milk", Count: 1}})
	assert.Equal(t, Inventory{{Name: "Egg", Quantity: "3"}, {Name: "Milk", Quantity: "1"}}, inv)
}
