package views

import (
	"net/url"
	"strconv"

	"recipe-giving/services"
	"recipe-giving/types"
)

// Page template names
const (
	PageHome    = "home"
	PageRecipes = "recipes"
	PageDetail  = "detail"
	PageError   = "error"
)

// Navbar sections
const (
	NavHome    = "home"
	NavRecipes = "recipes"
)

// Page wraps a page body with the shared layout fields
type Page struct {
	Title         string
	Nav           string
	OGTitle       string
	OGDescription string
	OGImage       string
	Body          any
}

// RecipeCard is one recipe tile
type RecipeCard struct {
	ID        string
	Name      string
	Thumbnail string
	Category  string
	Area      string
}

// RecipeCards maps meals to tiles, skipping null entries
func RecipeCards(meals []*types.Meal) []RecipeCard {
	cards := make([]RecipeCard, 0, len(meals))
	for _, m := range meals {
		if m == nil || m.ID == "" {
			continue
		}
		cards = append(cards, RecipeCard{
			ID:        m.ID,
			Name:      m.Name,
			Thumbnail: m.Thumbnail,
			Category:  m.Category,
			Area:      m.Area,
		})
	}
	return cards
}

// HomeView is the landing page
type HomeView struct {
	Recipes []RecipeCard
	Error   string
}

// RecipesView is the searchable recipe list
type RecipesView struct {
	Recipes    []RecipeCard
	Query      string
	Category   string
	Categories []string
	Page       int
	TotalPages int
	Total      int
	Error      string
}

// NewRecipesView builds the list page from one page of results
func NewRecipesView(list services.RecipeList, categories []string) RecipesView {
	return RecipesView{
		Recipes:    RecipeCards(list.Meals),
		Query:      list.Query,
		Category:   list.Category,
		Categories: categories,
		Page:       list.Page,
		TotalPages: list.TotalPages,
		Total:      list.Total,
	}
}

func (v RecipesView) HasPrev() bool { return v.Page > 1 }
func (v RecipesView) HasNext() bool { return v.Page < v.TotalPages }

// PrevURL links to the previous page keeping the current filters
func (v RecipesView) PrevURL() string { return v.pageURL(v.Page - 1) }

// NextURL links to the next page keeping the current filters
func (v RecipesView) NextURL() string { return v.pageURL(v.Page + 1) }

func (v RecipesView) pageURL(page int) string {
	q := url.Values{}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	if v.Category != "" {
		q.Set("category", v.Category)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/recipes"
	}
	return "/recipes?" + q.Encode()
}

// DetailView is the recipe page with its donation modal
type DetailView struct {
	ID            string
	Name          string
	Thumbnail     string
	Category      string
	Area          string
	Tags          string
	YouTube       string
	Source        string
	Ingredients   []string
	Steps         []string
	Amount        string
	ShareCaption  string
	ShareImageURL string
	Modal         ModalView
}

// NewDetailView combines the recipe detail with the opened modal state
func NewDetailView(detail *services.RecipeDetail, state services.ModalState) DetailView {
	meal := detail.Meal
	amount := services.FormatForLocation(detail.MealValue, &detail.Location)
	return DetailView{
		ID:            meal.ID,
		Name:          meal.Name,
		Thumbnail:     meal.Thumbnail,
		Category:      meal.Category,
		Area:          meal.Area,
		Tags:          meal.Tags,
		YouTube:       meal.YouTube,
		Source:        meal.Source,
		Ingredients:   detail.Ingredients,
		Steps:         detail.Steps,
		Amount:        amount,
		ShareCaption:  services.ShareCaption(meal.Name, amount),
		ShareImageURL: ShareImagePath(meal.ID),
		Modal:         BuildModalView(state, detail.Location, meal.ID, meal.Name),
	}
}

// ShareImagePath is the route serving a recipe's share card
func ShareImagePath(recipeID string) string {
	return "/recipes/" + url.PathEscape(recipeID) + "/share.png"
}
