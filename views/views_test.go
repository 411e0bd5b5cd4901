package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"recipe-giving/services"
	"recipe-giving/types"
)

var gbLocation = types.UserLocation{
	CountryCode:    "GB",
	CountryName:    "United Kingdom",
	City:           "London",
	Currency:       "GBP",
	CurrencySymbol: "£",
}

func project(id string, goal, funding float64) types.CharityProject {
	return types.CharityProject{
		ID:           types.ProjectID(id),
		Title:        "Project " + id,
		Summary:      "<p>Feeding <b>families</b></p>",
		Organization: types.Organization{Name: "Org " + id},
		Country:      "Kenya",
		Goal:         goal,
		Funding:      funding,
		Active:       true,
	}
}

func mustRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return doc
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"a &amp; b", "a & b"},
		{"  spaced\n\tout  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 150); got != "short" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("a", 151)
	got := Truncate(long, 150)
	if got != strings.Repeat("a", 150)+"..." {
		t.Errorf("unexpected truncation length %d", len(got))
	}
	if got := Truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("rune truncation = %q", got)
	}
}

func TestFormatThousands(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		1234567.4: "1,234,567",
		2500.5:    "2,501",
	}
	for in, want := range tests {
		if got := FormatThousands(in); got != want {
			t.Errorf("FormatThousands(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildProjectCard(t *testing.T) {
	card := BuildProjectCard(project("1", 50, 25), false)
	if !card.HasProgress || card.Progress != 50 {
		t.Errorf("progress = %v/%d, want 50", card.HasProgress, card.Progress)
	}
	if card.Summary != "Feeding families" {
		t.Errorf("summary = %q", card.Summary)
	}
	if card.Funding != "25" || card.Goal != "50" {
		t.Errorf("funding/goal = %s/%s", card.Funding, card.Goal)
	}

	bare := types.CharityProject{ID: "2", Title: "Bare", SourceCountry: "Peru"}
	card = BuildProjectCard(bare, true)
	if card.HasProgress {
		t.Error("expected no progress when goal is 0")
	}
	if card.Organization != "Organization" {
		t.Errorf("organization = %q", card.Organization)
	}
	if card.Location != "Peru" {
		t.Errorf("location = %q", card.Location)
	}
	if card.Summary != "Support this important cause" {
		t.Errorf("summary = %q", card.Summary)
	}
	if !card.Selected {
		t.Error("expected selected card")
	}

	card = BuildProjectCard(types.CharityProject{ID: "3"}, false)
	if card.Location != "Unknown" {
		t.Errorf("location = %q", card.Location)
	}

	withImages := types.CharityProject{
		ID:        "4",
		ImageLink: "https://img/flat.jpg",
		Image: &types.ProjectImage{ImageLink: types.OneOrMany[types.ImageLink]{
			{Size: "small", URL: "https://img/small.jpg"},
			{Size: "original", URL: "https://img/original.jpg"},
		}},
	}
	if got := BuildProjectCard(withImages, false).Image; got != "https://img/original.jpg" {
		t.Errorf("image = %q", got)
	}
}

func TestBuildProjectCardTruncatesSummary(t *testing.T) {
	p := project("1", 0, 0)
	p.Summary = strings.Repeat("word ", 60)
	card := BuildProjectCard(p, false)
	if !strings.HasSuffix(card.Summary, "...") {
		t.Errorf("summary not truncated: %q", card.Summary)
	}
	if n := len([]rune(card.Summary)); n != 153 {
		t.Errorf("summary length = %d, want 153", n)
	}
}

func TestBuildModalView(t *testing.T) {
	page := types.CharityPage{
		Projects:     []types.CharityProject{project("1", 50, 25), project("2", 0, 0)},
		TotalFound:   12,
		CurrentStart: 0,
	}
	state := services.NewModalState(page, "GB", 7)
	state, err := state.Select("2")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	view := BuildModalView(state, gbLocation, "52772", "Teriyaki Chicken")
	if view.Empty {
		t.Fatal("expected populated view")
	}
	if view.Amount != "£7" {
		t.Errorf("amount = %q", view.Amount)
	}
	if !view.ShowLoadMore {
		t.Error("expected load more with 2 of 12 shown")
	}
	if !view.CanDonate {
		t.Error("expected donate enabled after selection")
	}
	if len(view.Cards) != 2 || view.Cards[0].Selected || !view.Cards[1].Selected {
		t.Errorf("unexpected selection in cards: %+v", view.Cards)
	}
}

func TestBuildModalViewEmpty(t *testing.T) {
	state := services.NewModalState(types.EmptyCharityPage(0), "GB", 7)
	view := BuildModalView(state, gbLocation, "1", "")
	if !view.Empty || view.FallbackURL != FallbackCharityURL {
		t.Errorf("expected fallback view, got %+v", view)
	}
	if view.ShowLoadMore || len(view.Cards) != 0 {
		t.Error("fallback view must not paginate")
	}
	if view.RecipeName != "this meal" {
		t.Errorf("recipe name = %q", view.RecipeName)
	}
}

func TestRenderModalProgress(t *testing.T) {
	r := mustRenderer(t)
	page := types.CharityPage{
		Projects:     []types.CharityProject{project("1", 50, 25), project("2", 0, 0)},
		TotalFound:   2,
		CurrentStart: 0,
	}
	html, err := r.RenderModal(BuildModalView(services.NewModalState(page, "GB", 7), gbLocation, "1", "Pasta"))
	if err != nil {
		t.Fatalf("RenderModal failed: %v", err)
	}
	doc := parse(t, html)

	cards := doc.Find(".charity-card")
	if cards.Length() != 2 {
		t.Fatalf("cards = %d, want 2", cards.Length())
	}
	first := cards.Eq(0)
	if got := strings.TrimSpace(first.Find(".progress-text").Text()); got != "50% funded" {
		t.Errorf("progress text = %q", got)
	}
	if style, _ := first.Find(".progress-bar").Attr("style"); !strings.Contains(style, "width: 50%") {
		t.Errorf("progress style = %q", style)
	}
	if cards.Eq(1).Find(".progress").Length() != 0 {
		t.Error("expected no progress bar when goal is 0")
	}
	if doc.Find("#loadMoreCharities").Length() != 0 {
		t.Error("load more should be hidden when all projects are shown")
	}
	if _, disabled := doc.Find("#donateToSelectedCharity").Attr("disabled"); !disabled {
		t.Error("donate button should start disabled")
	}
	if !strings.Contains(doc.Find(".modal-body p").First().Text(), "£7") {
		t.Error("expected meal value in the intro text")
	}
}

func TestRenderModalCardsAreKeyboardButtons(t *testing.T) {
	r := mustRenderer(t)
	page := types.CharityPage{
		Projects:     []types.CharityProject{project("1", 50, 25), project("2", 0, 0)},
		TotalFound:   2,
		CurrentStart: 0,
	}
	state, err := services.NewModalState(page, "GB", 7).Select("2")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	html, err := r.RenderModal(BuildModalView(state, gbLocation, "1", "Pasta"))
	if err != nil {
		t.Fatalf("RenderModal failed: %v", err)
	}

	cards := parse(t, html).Find(".charity-card")
	if cards.Length() != 2 {
		t.Fatalf("cards = %d, want 2", cards.Length())
	}
	cards.Each(func(i int, card *goquery.Selection) {
		if role, _ := card.Attr("role"); role != "button" {
			t.Errorf("card %d role = %q", i, role)
		}
		if tab, _ := card.Attr("tabindex"); tab != "0" {
			t.Errorf("card %d tabindex = %q", i, tab)
		}
	})
	if pressed, _ := cards.Eq(0).Attr("aria-pressed"); pressed != "false" {
		t.Errorf("unselected aria-pressed = %q", pressed)
	}
	if pressed, _ := cards.Eq(1).Attr("aria-pressed"); pressed != "true" {
		t.Errorf("selected aria-pressed = %q", pressed)
	}
}

func TestRenderModalFallback(t *testing.T) {
	r := mustRenderer(t)
	html, err := r.RenderModal(BuildModalView(services.NewModalState(types.EmptyCharityPage(0), "", 15), types.UserLocation{}, "1", "Pasta"))
	if err != nil {
		t.Fatalf("RenderModal failed: %v", err)
	}
	doc := parse(t, html)

	if got := strings.TrimSpace(doc.Find(".modal-title").Text()); got != "Choose a Charity" {
		t.Errorf("title = %q", got)
	}
	if href, _ := doc.Find("#charityFallback a").Attr("href"); href != FallbackCharityURL {
		t.Errorf("fallback link = %q", href)
	}
	if doc.Find("#loadMoreCharities").Length() != 0 || doc.Find("#donateToSelectedCharity").Length() != 0 {
		t.Error("fallback must not render pagination or donate controls")
	}
}

func TestRenderModalLoadError(t *testing.T) {
	r := mustRenderer(t)
	state := services.NewModalState(types.CharityPage{
		Projects:   []types.CharityProject{project("1", 0, 0)},
		TotalFound: 30,
	}, "GB", 7)
	state, start, ok := state.BeginLoadMore()
	if !ok {
		t.Fatal("expected load more to start")
	}
	state = state.CompleteLoadMore(start, types.EmptyCharityPage(start))

	html, err := r.RenderModal(BuildModalView(state, gbLocation, "1", "Pasta"))
	if err != nil {
		t.Fatalf("RenderModal failed: %v", err)
	}
	doc := parse(t, html)
	if doc.Find("#loadMoreCharities").Length() != 0 {
		t.Error("load more should be hidden after an empty page")
	}
	if got := strings.TrimSpace(doc.Find("#loadMoreError").Text()); got != "Error loading more" {
		t.Errorf("load error = %q", got)
	}
}

func TestRenderDetailPage(t *testing.T) {
	r := mustRenderer(t)
	detail := &services.RecipeDetail{
		Meal:        &types.Meal{ID: "52772", Name: "Teriyaki Chicken", Category: "Chicken", Thumbnail: "https://img/t.jpg"},
		Location:    gbLocation,
		MealValue:   13,
		Ingredients: []string{"3/4 cup soy sauce", "1 tbs honey"},
		Steps:       []string{"Preheat oven.", "Bake."},
	}
	state := services.NewModalState(types.CharityPage{Projects: []types.CharityProject{project("1", 10, 5)}, TotalFound: 1}, "GB", 13)
	view := NewDetailView(detail, state)

	var buf bytes.Buffer
	err := r.RenderPage(&buf, PageDetail, Page{
		Title:   view.Name,
		Nav:     NavRecipes,
		OGTitle: view.Name,
		OGImage: "https://example.com" + view.ShareImageURL,
		Body:    view,
	})
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	doc := parse(t, buf.String())

	if got := doc.Find("#recipeName").Text(); got != "Teriyaki Chicken" {
		t.Errorf("name = %q", got)
	}
	if doc.Find("#ingredients li").Length() != 2 || doc.Find("#instructions li").Length() != 2 {
		t.Error("unexpected ingredient or step count")
	}
	if got := doc.Find("#mealValue").Text(); got != "£13" {
		t.Errorf("meal value = %q", got)
	}
	if og, _ := doc.Find(`meta[property="og:image"]`).Attr("content"); og != "https://example.com/recipes/52772/share.png" {
		t.Errorf("og:image = %q", og)
	}
	if id, _ := doc.Find("#charityModal").Attr("data-recipe-id"); id != "52772" {
		t.Errorf("modal recipe id = %q", id)
	}
	if doc.Find(".nav-link.active").Text() != "Recipes" {
		t.Error("expected Recipes nav to be active")
	}
	if script := doc.Find("script").Text(); !strings.Contains(script, "'keydown'") || !strings.Contains(script, "event.key !== ' '") {
		t.Error("expected Enter and Space to select charity cards")
	}
}

func TestRenderRecipesPagination(t *testing.T) {
	r := mustRenderer(t)
	meals := []*types.Meal{{ID: "1", Name: "Arrabiata"}, nil, {ID: "2", Name: "Carbonara"}}
	view := NewRecipesView(services.RecipeList{Meals: meals, Query: "pasta", Page: 2, TotalPages: 3, Total: 30}, []string{"Pasta", "Beef"})

	var buf bytes.Buffer
	if err := r.RenderPage(&buf, PageRecipes, Page{Title: "Recipes", Nav: NavRecipes, Body: view}); err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	doc := parse(t, buf.String())

	if n := doc.Find("#recipeList .recipe-card").Length(); n != 2 {
		t.Errorf("recipe cards = %d, want 2", n)
	}
	if href, _ := doc.Find(`a[rel="prev"]`).Attr("href"); href != "/recipes?q=pasta" {
		t.Errorf("prev = %q", href)
	}
	if href, _ := doc.Find(`a[rel="next"]`).Attr("href"); href != "/recipes?page=3&q=pasta" {
		t.Errorf("next = %q", href)
	}
	if v, _ := doc.Find(`input[name="q"]`).Attr("value"); v != "pasta" {
		t.Errorf("query input = %q", v)
	}
}

func TestRenderRecipesError(t *testing.T) {
	r := mustRenderer(t)
	var buf bytes.Buffer
	err := r.RenderPage(&buf, PageRecipes, Page{Body: RecipesView{Error: "Error loading recipes"}})
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	doc := parse(t, buf.String())
	alert := doc.Find(".alert-danger")
	if alert.Find(".alert-heading").Text() != "Error" {
		t.Error("expected Error heading")
	}
	if !strings.Contains(alert.Text(), "Error loading recipes") {
		t.Errorf("alert = %q", alert.Text())
	}
}

func TestBuildErrorView(t *testing.T) {
	v := BuildErrorView(ErrorRecipeNotFound, "ignored", "Recipe ID: 99")
	if !strings.Contains(v.Message, "could not be found") || v.Details != "Recipe ID: 99" {
		t.Errorf("unexpected view: %+v", v)
	}
	if v := BuildErrorView("custom", "Custom message", ""); v.Message != "Custom message" {
		t.Errorf("message = %q", v.Message)
	}
	if v := BuildErrorView("", "", ""); v.Message != defaultErrorMessage {
		t.Errorf("message = %q", v.Message)
	}
}

func TestRenderErrorPage(t *testing.T) {
	r := mustRenderer(t)
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, PageError, Page{Title: "Error", Body: BuildErrorView(ErrorAPI, "", "timeout")}); err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	doc := parse(t, buf.String())
	if doc.Find(".error-details").Text() != "timeout" {
		t.Errorf("details = %q", doc.Find(".error-details").Text())
	}
	if err := r.RenderPage(&buf, "missing", Page{}); err == nil {
		t.Error("expected error for unknown page")
	}
}
