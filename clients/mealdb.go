/*
# Module: clients/mealdb.go
TheMealDB recipe API client.

## Linked Modules
- [types/recipe](../types/recipe.go) - Recipe data structures

## Tags
api-client, external, recipes

## Exports
MealDBClient, NewMealDBClient, DefaultMealDBURL

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/mealdb.go" ;
    code:description "TheMealDB recipe API client" ;
    code:linksTo [
        code:name "types/recipe" ;
        code:path "../types/recipe.go" ;
        code:relationship "Recipe data structures"
    ] ;
    code:exports :MealDBClient, :NewMealDBClient, :DefaultMealDBURL ;
    code:tags "api-client", "external", "recipes" .
<!-- End LinkedDoc RDF -->
*/
package clients

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"recipe-giving/types"
)

// DefaultMealDBURL is the public test-key endpoint
const DefaultMealDBURL = "https://www.themealdb.com/api/json/v1/1"

// MealDBClient handles recipe API requests
type MealDBClient struct {
	http *resty.Client
}

// NewMealDBClient creates a client; an empty baseURL uses the public API
func NewMealDBClient(baseURL string) *MealDBClient {
	if baseURL == "" {
		baseURL = DefaultMealDBURL
	}
	return &MealDBClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// Lookup fetches one recipe by id. Unknown ids come back as {"meals": null}.
func (c *MealDBClient) Lookup(ctx context.Context, id string) (*types.MealsResponse, error) {
	return c.get(ctx, "/lookup.php", "i", id)
}

// Search finds recipes by name; an empty query lists the default set
func (c *MealDBClient) Search(ctx context.Context, query string) (*types.MealsResponse, error) {
	return c.get(ctx, "/search.php", "s", query)
}

// FilterByCategory lists recipes in a category (id, name and thumbnail only)
func (c *MealDBClient) FilterByCategory(ctx context.Context, category string) (*types.MealsResponse, error) {
	return c.get(ctx, "/filter.php", "c", category)
}

// Categories lists the category names
func (c *MealDBClient) Categories(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, "/list.php", "c", "list")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		if m != nil && m.Category != "" {
			names = append(names, m.Category)
		}
	}
	return names, nil
}

// FetchImage downloads a recipe thumbnail
func (c *MealDBClient) FetchImage(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).SetHeader("Accept", "image/*").Get(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download image")
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("image download returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

func (c *MealDBClient) get(ctx context.Context, path, param, value string) (*types.MealsResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam(param, value).
		Get(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call recipe API %s", path)
	}
	if !resp.IsSuccess() {
		return nil, errors.Errorf("recipe API %s returned status %d", path, resp.StatusCode())
	}

	var meals types.MealsResponse
	if err := json.Unmarshal(resp.Body(), &meals); err != nil {
		return nil, errors.Wrapf(err, "failed to decode recipe API %s response", path)
	}
	return &meals, nil
}
