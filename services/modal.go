/*
# Module: services/modal.go
Charity selection modal as an explicit state value with pure transitions.

## Linked Modules
- [types/charity](../types/charity.go) - Charity project structures

## Tags
business-logic, modal, state-machine, donations

## Exports
ModalState, ModalPhase, NewModalState, CheckoutURL, MinimumDonation, FirstPageSize, ErrUnknownProject, ErrNoSelection

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/modal.go" ;
    code:description "Charity selection modal as an explicit state value with pure transitions" ;
    code:linksTo [
        code:name "types/charity" ;
        code:path "../types/charity.go" ;
        code:relationship "Charity project structures"
    ] ;
    code:exports :ModalState, :ModalPhase, :NewModalState, :CheckoutURL, :MinimumDonation, :FirstPageSize, :ErrUnknownProject, :ErrNoSelection ;
    code:tags "business-logic", "modal", "state-machine", "donations" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	"recipe-giving/types"
)

const (
	// MinimumDonation is the smallest amount the checkout accepts
	MinimumDonation = 5
	// FirstPageSize is the number of projects the upstream returns per page
	FirstPageSize = 10

	checkoutBaseURL = "https://www.globalgiving.org/dy/cart/view/gg.html"
	loadMoreError   = "Error loading more"
)

var (
	ErrUnknownProject = errors.New("project is not in the modal")
	ErrNoSelection    = errors.New("no project selected")
)

// ModalPhase is derived from a ModalState, never stored
type ModalPhase int

const (
	PhaseEmpty ModalPhase = iota
	PhasePopulated
	PhaseSelected
	PhaseLoading
)

func (p ModalPhase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhasePopulated:
		return "populated"
	case PhaseSelected:
		return "selected"
	case PhaseLoading:
		return "loading"
	}
	return "unknown"
}

// ModalState is everything the charity modal shows for one visitor and recipe.
// Transitions return a new value and leave the receiver untouched.
type ModalState struct {
	Projects          []types.CharityProject
	SelectedProjectID string
	NextStart         int
	TotalFound        int
	Loading           bool
	LoadError         string
	LoadMoreHidden    bool
	CountryCode       string
	MealValue         int64
}

// NewModalState opens the modal on the first page of projects
func NewModalState(page types.CharityPage, countryCode string, mealValue int64) ModalState {
	projects := make([]types.CharityProject, len(page.Projects))
	copy(projects, page.Projects)

	s := ModalState{
		Projects:    projects,
		NextStart:   page.CurrentStart + len(projects),
		TotalFound:  page.TotalFound,
		CountryCode: countryCode,
		MealValue:   mealValue,
	}
	s.LoadMoreHidden = len(projects) == 0 || s.Exhausted()
	return s
}

// Phase reports which of the four modal phases the state is in
func (s ModalState) Phase() ModalPhase {
	switch {
	case s.Loading:
		return PhaseLoading
	case len(s.Projects) == 0:
		return PhaseEmpty
	case s.SelectedProjectID != "":
		return PhaseSelected
	default:
		return PhasePopulated
	}
}

// Exhausted is true once every project the search found has been requested
func (s ModalState) Exhausted() bool {
	return s.NextStart >= s.TotalFound
}

// CanDonate is true when a project is selected
func (s ModalState) CanDonate() bool {
	return s.SelectedProjectID != ""
}

// Selected returns the selected project, if any
func (s ModalState) Selected() (types.CharityProject, bool) {
	if s.SelectedProjectID == "" {
		return types.CharityProject{}, false
	}
	for _, p := range s.Projects {
		if string(p.ID) == s.SelectedProjectID {
			return p, true
		}
	}
	return types.CharityProject{}, false
}

// Select marks exactly one project as selected, replacing any previous choice
func (s ModalState) Select(projectID string) (ModalState, error) {
	for _, p := range s.Projects {
		if string(p.ID) == projectID {
			next := s.clone()
			next.SelectedProjectID = projectID
			return next, nil
		}
	}
	return s, errors.Wrapf(ErrUnknownProject, "project %q", projectID)
}

// BeginLoadMore starts fetching the next page. It refuses while a fetch is
// in flight and hides the control when nothing is left to fetch.
func (s ModalState) BeginLoadMore() (ModalState, int, bool) {
	if s.Loading {
		return s, 0, false
	}

	next := s.clone()
	if s.Exhausted() {
		next.LoadMoreHidden = true
		return next, 0, false
	}

	next.Loading = true
	next.LoadError = ""
	return next, s.NextStart, true
}

// CompleteLoadMore applies the result of the fetch started at offset start.
// Loading is always cleared. A result for an offset other than NextStart is
// stale and otherwise ignored.
func (s ModalState) CompleteLoadMore(start int, page types.CharityPage) ModalState {
	next := s.clone()
	next.Loading = false

	if start != s.NextStart {
		return next
	}

	if len(page.Projects) == 0 {
		next.LoadMoreHidden = true
		next.LoadError = loadMoreError
		return next
	}

	next.Projects = append(next.Projects, page.Projects...)
	next.NextStart += len(page.Projects)
	next.LoadError = ""
	if next.Exhausted() {
		next.LoadMoreHidden = true
	}
	return next
}

// Donate returns the checkout URL for the selected project and the reset
// state: no selection, back to the first page of cards.
func (s ModalState) Donate() (ModalState, string, error) {
	if s.SelectedProjectID == "" {
		return s, "", ErrNoSelection
	}

	checkout := CheckoutURL(s.SelectedProjectID, s.MealValue)

	next := s.clone()
	next.SelectedProjectID = ""
	next.LoadError = ""
	if len(next.Projects) > FirstPageSize {
		next.Projects = next.Projects[:FirstPageSize]
	}
	next.NextStart = FirstPageSize
	next.LoadMoreHidden = !(FirstPageSize < next.TotalFound)

	return next, checkout, nil
}

func (s ModalState) clone() ModalState {
	next := s
	next.Projects = make([]types.CharityProject, len(s.Projects))
	copy(next.Projects, s.Projects)
	return next
}

// CheckoutURL builds the pre-filled one-off donation link. Amounts below the
// minimum are raised to it.
func CheckoutURL(projectID string, amount int64) string {
	if amount < MinimumDonation {
		amount = MinimumDonation
	}

	return fmt.Sprintf("%s?cmd=addItem&projid=%s&frequency=ONCE&amount=%d",
		checkoutBaseURL, url.QueryEscape(projectID), amount)
}
