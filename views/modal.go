/*
# Module: views/modal.go
Pure view models for the charity selection modal and its project cards.

## Linked Modules
- [services/modal](../services/modal.go) - Modal state
- [types/charity](../types/charity.go) - Charity project structures

## Tags
presentation, modal, view-model

## Exports
ModalView, ProjectCard, BuildModalView, BuildProjectCard, FallbackCharityURL

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "views/modal.go" ;
    code:description "Pure view models for the charity selection modal and its project cards" ;
    code:linksTo [
        code:name "services/modal" ;
        code:path "../services/modal.go" ;
        code:relationship "Modal state"
    ], [
        code:name "types/charity" ;
        code:path "../types/charity.go" ;
        code:relationship "Charity project structures"
    ] ;
    code:exports :ModalView, :ProjectCard, :BuildModalView, :BuildProjectCard, :FallbackCharityURL ;
    code:tags "presentation", "modal", "view-model" .
<!-- End LinkedDoc RDF -->
*/
package views

import (
	"math"

	"recipe-giving/services"
	"recipe-giving/types"
)

const (
	// FallbackCharityURL is offered when no projects could be loaded
	FallbackCharityURL = "https://www.globalgiving.org/search/?size=25&nextPage=1&sortField=sortorder&selectedCountries=&loadAllResults=true&theme=food"

	summaryLimit   = 150
	defaultSummary = "Support this important cause"
	defaultOrg     = "Organization"
)

// ProjectCard is one rendered charity project
type ProjectCard struct {
	ID           string
	Title        string
	Image        string
	Organization string
	Location     string
	Summary      string
	HasProgress  bool
	Progress     int
	Funding      string
	Goal         string
	Selected     bool
}

// ModalView is everything the modal template needs
type ModalView struct {
	RecipeID     string
	RecipeName   string
	Amount       string
	Empty        bool
	FallbackURL  string
	Cards        []ProjectCard
	NextStart    int
	TotalFound   int
	ShowLoadMore bool
	Loading      bool
	LoadError    string
	CanDonate    bool
	CountryCode  string
}

// BuildProjectCard maps a project to its card
func BuildProjectCard(p types.CharityProject, selected bool) ProjectCard {
	card := ProjectCard{
		ID:           string(p.ID),
		Title:        p.Title,
		Image:        p.PreferredImage(),
		Organization: p.Organization.Name,
		Location:     firstNonEmpty(p.Country, p.SourceCountry, "Unknown"),
		Selected:     selected,
	}
	if card.Organization == "" {
		card.Organization = defaultOrg
	}

	if summary := StripHTML(p.Summary); summary != "" {
		card.Summary = Truncate(summary, summaryLimit)
	} else {
		card.Summary = defaultSummary
	}

	if p.Goal > 0 {
		card.HasProgress = true
		card.Progress = int(math.Round(p.Funding / p.Goal * 100))
		card.Funding = FormatThousands(p.Funding)
		card.Goal = FormatThousands(p.Goal)
	}
	return card
}

// BuildModalView maps modal state to its view. It has no side effects.
func BuildModalView(state services.ModalState, loc types.UserLocation, recipeID, recipeName string) ModalView {
	if recipeName == "" {
		recipeName = "this meal"
	}

	view := ModalView{
		RecipeID:    recipeID,
		RecipeName:  recipeName,
		Amount:      services.FormatForLocation(state.MealValue, &loc),
		NextStart:   state.NextStart,
		TotalFound:  state.TotalFound,
		Loading:     state.Loading,
		LoadError:   state.LoadError,
		CanDonate:   state.CanDonate(),
		CountryCode: state.CountryCode,
	}

	if state.Phase() == services.PhaseEmpty {
		view.Empty = true
		view.FallbackURL = FallbackCharityURL
		return view
	}

	view.ShowLoadMore = !state.LoadMoreHidden
	view.Cards = make([]ProjectCard, 0, len(state.Projects))
	for _, p := range state.Projects {
		view.Cards = append(view.Cards, BuildProjectCard(p, string(p.ID) == state.SelectedProjectID))
	}
	return view
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
