/*
# Module: services/recipes.go
Recipe listing and detail assembly on top of the recipe API.

## Linked Modules
- [types/recipe](../types/recipe.go) - Recipe data structures
- [services/location](./location.go) - Visitor location resolution
- [services/meal_value](./meal_value.go) - Meal cost estimate

## Tags
business-logic, recipes, concurrency

## Exports
RecipeSource, LocationSource, RecipeService, NewRecipeService, RecipeList, RecipeDetail, ExtractIngredients, ExtractInstructions, ErrRecipeNotFound, ErrRecipeAPI, APIError

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/recipes.go" ;
    code:description "Recipe listing and detail assembly on top of the recipe API" ;
    code:linksTo [
        code:name "types/recipe" ;
        code:path "../types/recipe.go" ;
        code:relationship "Recipe data structures"
    ], [
        code:name "services/location" ;
        code:path "./location.go" ;
        code:relationship "Visitor location resolution"
    ], [
        code:name "services/meal_value" ;
        code:path "./meal_value.go" ;
        code:relationship "Meal cost estimate"
    ] ;
    code:exports :RecipeSource, :LocationSource, :RecipeService, :NewRecipeService, :RecipeList, :RecipeDetail, :ExtractIngredients, :ExtractInstructions, :ErrRecipeNotFound, :ErrRecipeAPI, :APIError ;
    code:tags "business-logic", "recipes", "concurrency" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"recipe-giving/types"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrRecipeAPI      = errors.New("recipe service unavailable")
)

// APIError is a failed call to the recipe API. It matches ErrRecipeAPI
// under errors.Is and unwraps to the transport error.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return e.Op + ": " + ErrRecipeAPI.Error() + ": " + e.Err.Error()
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool { return target == ErrRecipeAPI }

var (
	stepSeparator = regexp.MustCompile(`\r\n\r\n|\n\n`)
	stepLabel     = regexp.MustCompile(`(?i)^(STEP\s+\d+|\d+)\s*\r?\n?`)
)

// RecipeSource is the recipe API
type RecipeSource interface {
	Lookup(ctx context.Context, id string) (*types.MealsResponse, error)
	Search(ctx context.Context, query string) (*types.MealsResponse, error)
	FilterByCategory(ctx context.Context, category string) (*types.MealsResponse, error)
}

// LocationSource resolves a visitor's location; *LocationResolver satisfies it
type LocationSource interface {
	Resolve(ctx context.Context, visitorID, clientIP string) types.UserLocation
}

// RecipeList is one page of recipe cards
type RecipeList struct {
	Meals      []*types.Meal
	Query      string
	Category   string
	Page       int // 1-based
	TotalPages int
	Total      int
}

// HasPrev reports whether there is a page before this one
func (l RecipeList) HasPrev() bool { return l.Page > 1 }

// HasNext reports whether there is a page after this one
func (l RecipeList) HasNext() bool { return l.Page < l.TotalPages }

// RecipeDetail is everything the detail page renders before the charity modal
type RecipeDetail struct {
	Meal        *types.Meal
	Location    types.UserLocation
	MealValue   int64
	Ingredients []string
	Steps       []string
}

// RecipeService assembles recipe pages
type RecipeService struct {
	source    RecipeSource
	locations LocationSource
}

func NewRecipeService(source RecipeSource, locations LocationSource) *RecipeService {
	return &RecipeService{source: source, locations: locations}
}

// List returns one page of recipes. With a category the category filter is
// used, otherwise a name search (an empty query lists everything).
func (s *RecipeService) List(ctx context.Context, query, category string, page, perPage int) (RecipeList, error) {
	var (
		resp *types.MealsResponse
		err  error
	)
	if category != "" {
		resp, err = s.source.FilterByCategory(ctx, category)
	} else {
		resp, err = s.source.Search(ctx, query)
	}
	if err != nil {
		return RecipeList{}, &APIError{Op: "list recipes", Err: err}
	}

	meals := make([]*types.Meal, 0)
	if resp != nil {
		for _, m := range resp.Meals {
			if m != nil {
				meals = append(meals, m)
			}
		}
	}

	if perPage <= 0 {
		perPage = len(meals)
	}
	totalPages := 1
	if perPage > 0 && len(meals) > 0 {
		totalPages = (len(meals) + perPage - 1) / perPage
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	from := (page - 1) * perPage
	to := from + perPage
	if to > len(meals) {
		to = len(meals)
	}

	return RecipeList{
		Meals:      meals[from:to],
		Query:      query,
		Category:   category,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(meals),
	}, nil
}

// Detail looks up a recipe and the visitor's location concurrently and joins
// them. A missing or incomplete recipe is ErrRecipeNotFound; a failed lookup
// is an *APIError.
func (s *RecipeService) Detail(ctx context.Context, id, visitorID, clientIP string) (*RecipeDetail, error) {
	var (
		wg        sync.WaitGroup
		resp      *types.MealsResponse
		lookupErr error
		loc       types.UserLocation
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		resp, lookupErr = s.source.Lookup(ctx, id)
	}()
	go func() {
		defer wg.Done()
		loc = s.locations.Resolve(ctx, visitorID, clientIP)
	}()
	wg.Wait()

	if lookupErr != nil {
		return nil, &APIError{Op: "lookup recipe " + id, Err: lookupErr}
	}
	if resp == nil || len(resp.Meals) == 0 || resp.Meals[0] == nil {
		return nil, errors.Wrapf(ErrRecipeNotFound, "Recipe ID: %s", id)
	}

	meal := resp.Meals[0]
	if meal.Name == "" || meal.Thumbnail == "" {
		return nil, errors.Wrapf(ErrRecipeNotFound, "Recipe ID: %s", id)
	}

	return &RecipeDetail{
		Meal:        meal,
		Location:    loc,
		MealValue:   EstimateMealValue(meal.Category, &loc),
		Ingredients: ExtractIngredients(meal),
		Steps:       ExtractInstructions(meal.Instructions),
	}, nil
}

// ExtractIngredients lists "<measure> <ingredient>" for every filled slot
func ExtractIngredients(meal *types.Meal) []string {
	out := make([]string, 0)
	if meal == nil {
		return out
	}

	for _, line := range meal.Ingredients {
		ingredient := strings.TrimSpace(line.Ingredient)
		if ingredient == "" {
			continue
		}
		if measure := strings.TrimSpace(line.Measure); measure != "" {
			out = append(out, measure+" "+ingredient)
		} else {
			out = append(out, ingredient)
		}
	}
	return out
}

// ExtractInstructions splits instructions on blank lines and strips leading
// "STEP n" or bare number labels
func ExtractInstructions(text string) []string {
	out := make([]string, 0)
	for _, step := range stepSeparator.Split(text, -1) {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		step = strings.TrimSpace(stepLabel.ReplaceAllString(step, ""))
		if step != "" {
			out = append(out, step)
		}
	}
	return out
}
