/*
# Module: types/recipe.go
Recipe records as returned by the recipe API.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, recipes

## Exports
Meal, IngredientLine, MealsResponse, MaxIngredients

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/recipe.go" ;
    code:description "Recipe records as returned by the recipe API" ;
    code:exports :Meal, :IngredientLine, :MealsResponse, :MaxIngredients ;
    code:tags "data-types", "recipes" .
<!-- End LinkedDoc RDF -->
*/
package types

import (
	"encoding/json"
	"fmt"
)

// MaxIngredients is the number of numbered ingredient slots on a recipe record
const MaxIngredients = 20

// IngredientLine is one numbered ingredient slot and its measure, untrimmed
type IngredientLine struct {
	Ingredient string `json:"ingredient"`
	Measure    string `json:"measure"`
}

// Meal is a recipe record. The recipe API spreads ingredients over
// strIngredient1..20 / strMeasure1..20; they are collected into Ingredients.
type Meal struct {
	ID           string           `json:"idMeal"`
	Name         string           `json:"strMeal"`
	Category     string           `json:"strCategory"`
	Area         string           `json:"strArea"`
	Instructions string           `json:"strInstructions"`
	Thumbnail    string           `json:"strMealThumb"`
	Tags         string           `json:"strTags"`
	YouTube      string           `json:"strYoutube"`
	Source       string           `json:"strSource"`
	Ingredients  []IngredientLine `json:"-"`
}

// UnmarshalJSON decodes the flat recipe record, tolerating null fields
func (m *Meal) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	str := func(key string) string {
		if s, ok := raw[key].(string); ok {
			return s
		}
		return ""
	}

	m.ID = str("idMeal")
	m.Name = str("strMeal")
	m.Category = str("strCategory")
	m.Area = str("strArea")
	m.Instructions = str("strInstructions")
	m.Thumbnail = str("strMealThumb")
	m.Tags = str("strTags")
	m.YouTube = str("strYoutube")
	m.Source = str("strSource")

	m.Ingredients = make([]IngredientLine, 0, MaxIngredients)
	for i := 1; i <= MaxIngredients; i++ {
		m.Ingredients = append(m.Ingredients, IngredientLine{
			Ingredient: str(fmt.Sprintf("strIngredient%d", i)),
			Measure:    str(fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return nil
}

// MealsResponse is the envelope of every recipe API endpoint; Meals is nil when nothing matched
type MealsResponse struct {
	Meals []*Meal `json:"meals"`
}
