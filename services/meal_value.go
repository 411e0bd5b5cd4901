package services

import (
	"strings"

	"recipe-giving/types"
)

// defaultMealValueEUR applies to any category without its own band
const defaultMealValueEUR = 15

// mealValuesEUR are flat price bands per recipe category, in EUR
var mealValuesEUR = map[string]int64{
	// Lower cost meals
	"pasta":      8,
	"vegetarian": 10,
	"vegan":      10,
	"breakfast":  10,
	"side":       8,
	"dessert":    12,

	// Medium cost meals
	"chicken": 15,
	"pork":    18,
	"goat":    18,

	// Higher cost meals
	"beef":    25,
	"lamb":    28,
	"seafood": 30,
}

// MealValueEUR returns the EUR price band for a recipe category (case-insensitive)
func MealValueEUR(category string) int64 {
	if v, ok := mealValuesEUR[strings.ToLower(strings.TrimSpace(category))]; ok {
		return v
	}
	return defaultMealValueEUR
}

// EstimateMealValue estimates what a meal costs to make. With a location
// carrying a currency the value is converted into that currency, otherwise
// the EUR value is returned.
func EstimateMealValue(category string, loc *types.UserLocation) int64 {
	eur := MealValueEUR(category)
	if loc != nil && loc.Currency != "" {
		return ConvertFromEUR(float64(eur), loc.Currency)
	}
	return eur
}
