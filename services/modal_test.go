package services

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"recipe-giving/types"
)

func makeProjects(from, n int) []types.CharityProject {
	out := make([]types.CharityProject, n)
	for i := range out {
		id := from + i + 1
		out[i] = types.CharityProject{
			ID:    types.ProjectID(fmt.Sprint(id)),
			Title: fmt.Sprintf("Project %d", id),
		}
	}
	return out
}

func pageAt(start, n, total int) types.CharityPage {
	return types.CharityPage{Projects: makeProjects(start, n), TotalFound: total, CurrentStart: start}
}

func TestNewModalState(t *testing.T) {
	tests := []struct {
		name      string
		page      types.CharityPage
		nextStart int
		hidden    bool
		phase     ModalPhase
		exhausted bool
	}{
		{"more available", pageAt(0, 10, 25), 10, false, PhasePopulated, false},
		{"single page", pageAt(0, 10, 10), 10, true, PhasePopulated, true},
		{"short page", pageAt(0, 4, 4), 4, true, PhasePopulated, true},
		{"empty", types.EmptyCharityPage(0), 0, true, PhaseEmpty, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewModalState(tt.page, "GB", 7)
			if s.NextStart != tt.nextStart || s.LoadMoreHidden != tt.hidden || s.Phase() != tt.phase || s.Exhausted() != tt.exhausted {
				t.Errorf("state = next %d hidden %v phase %v exhausted %v", s.NextStart, s.LoadMoreHidden, s.Phase(), s.Exhausted())
			}
			if s.CountryCode != "GB" || s.MealValue != 7 || s.CanDonate() {
				t.Errorf("state = %+v", s)
			}
		})
	}
}

func TestModalState_Select(t *testing.T) {
	s := NewModalState(pageAt(0, 10, 25), "", 10)

	first, err := s.Select("3")
	if err != nil {
		t.Fatalf("Select error = %v", err)
	}
	if first.Phase() != PhaseSelected || !first.CanDonate() {
		t.Errorf("phase = %v", first.Phase())
	}
	if s.SelectedProjectID != "" {
		t.Error("Select mutated the receiver")
	}

	second, err := first.Select("7")
	if err != nil {
		t.Fatalf("Select error = %v", err)
	}
	if p, ok := second.Selected(); !ok || p.ID != "7" {
		t.Errorf("Selected = %v %v, want only project 7", p.ID, ok)
	}

	if _, err := second.Select("999"); errors.Cause(err) != ErrUnknownProject {
		t.Errorf("Select(unknown) error = %v, want ErrUnknownProject", err)
	}
}

func TestModalState_LoadMoreAppends(t *testing.T) {
	s := NewModalState(pageAt(0, 10, 25), "", 10)

	s, start, ok := s.BeginLoadMore()
	if !ok || start != 10 || !s.Loading || s.Phase() != PhaseLoading {
		t.Fatalf("BeginLoadMore = start %d ok %v loading %v", start, ok, s.Loading)
	}

	if _, _, again := s.BeginLoadMore(); again {
		t.Fatal("BeginLoadMore allowed a second fetch while loading")
	}

	s = s.CompleteLoadMore(start, pageAt(10, 10, 25))
	if s.Loading || len(s.Projects) != 20 || s.NextStart != 20 || s.LoadMoreHidden {
		t.Fatalf("after first page: loading %v projects %d next %d hidden %v", s.Loading, len(s.Projects), s.NextStart, s.LoadMoreHidden)
	}
	if s.Projects[0].ID != "1" || s.Projects[19].ID != "20" {
		t.Error("existing cards were replaced instead of appended")
	}

	s, start, _ = s.BeginLoadMore()
	s = s.CompleteLoadMore(start, pageAt(20, 5, 25))
	if len(s.Projects) != 25 || s.NextStart != 25 || !s.LoadMoreHidden || !s.Exhausted() {
		t.Fatalf("after last page: projects %d next %d hidden %v", len(s.Projects), s.NextStart, s.LoadMoreHidden)
	}

	s, _, ok = s.BeginLoadMore()
	if ok || !s.LoadMoreHidden {
		t.Error("BeginLoadMore should refuse once exhausted")
	}
}

func TestModalState_LoadMoreEmptyResult(t *testing.T) {
	s := NewModalState(pageAt(0, 10, 25), "", 10)
	s, start, _ := s.BeginLoadMore()

	s = s.CompleteLoadMore(start, types.EmptyCharityPage(start))
	if s.Loading {
		t.Error("Loading not cleared")
	}
	if !s.LoadMoreHidden || s.LoadError == "" {
		t.Errorf("hidden %v error %q, want hidden with an inline error", s.LoadMoreHidden, s.LoadError)
	}
	if len(s.Projects) != 10 || s.NextStart != 10 {
		t.Errorf("projects %d next %d, want unchanged", len(s.Projects), s.NextStart)
	}
}

func TestModalState_Donate(t *testing.T) {
	s := NewModalState(pageAt(0, 10, 25), "GB", 7)
	s, start, _ := s.BeginLoadMore()
	s = s.CompleteLoadMore(start, pageAt(10, 10, 25))

	if _, _, err := s.Donate(); err != ErrNoSelection {
		t.Fatalf("Donate without selection error = %v", err)
	}

	s, _ = s.Select("15")
	reset, checkout, err := s.Donate()
	if err != nil {
		t.Fatalf("Donate error = %v", err)
	}

	want := "https://www.globalgiving.org/dy/cart/view/gg.html?cmd=addItem&projid=15&frequency=ONCE&amount=7"
	if checkout != want {
		t.Errorf("checkout = %q, want %q", checkout, want)
	}
	if reset.SelectedProjectID != "" || reset.CanDonate() {
		t.Error("selection not cleared")
	}
	if len(reset.Projects) != 10 || reset.NextStart != 10 || reset.LoadMoreHidden {
		t.Errorf("reset: projects %d next %d hidden %v", len(reset.Projects), reset.NextStart, reset.LoadMoreHidden)
	}
	if len(s.Projects) != 20 {
		t.Error("Donate mutated the receiver")
	}
}

func TestModalState_DonateResetEdgeCases(t *testing.T) {
	// fewer than ten projects: NextStart still resets to ten
	s, _ := NewModalState(pageAt(0, 4, 4), "", 3).Select("2")
	reset, checkout, err := s.Donate()
	if err != nil {
		t.Fatal(err)
	}
	if reset.NextStart != 10 || !reset.LoadMoreHidden || len(reset.Projects) != 4 {
		t.Errorf("reset = next %d hidden %v projects %d", reset.NextStart, reset.LoadMoreHidden, len(reset.Projects))
	}
	// meal values under the minimum are raised
	if checkout != "https://www.globalgiving.org/dy/cart/view/gg.html?cmd=addItem&projid=2&frequency=ONCE&amount=5" {
		t.Errorf("checkout = %q", checkout)
	}
}

func TestModalState_StaleCompletionAfterReset(t *testing.T) {
	s := NewModalState(pageAt(0, 10, 40), "", 10)
	s, start, _ := s.BeginLoadMore()
	s = s.CompleteLoadMore(start, pageAt(10, 10, 40))

	// a fetch for offset 20 is in flight when the visitor donates
	s, start, ok := s.BeginLoadMore()
	if !ok || start != 20 {
		t.Fatalf("BeginLoadMore = %d %v", start, ok)
	}
	s, _ = s.Select("3")
	s, _, _ = s.Donate()

	s = s.CompleteLoadMore(start, pageAt(20, 10, 40))
	if s.Loading {
		t.Error("Loading not cleared by stale completion")
	}
	if len(s.Projects) != 10 || s.NextStart != 10 {
		t.Errorf("stale page applied: projects %d next %d", len(s.Projects), s.NextStart)
	}
}

func TestCheckoutURL(t *testing.T) {
	tests := []struct {
		id     string
		amount int64
		want   string
	}{
		{"12345", 20, "amount=20"},
		{"12345", 5, "amount=5"},
		{"12345", 4, "amount=5"},
		{"12345", 0, "amount=5"},
		{"12345", -3, "amount=5"},
	}

	for _, tt := range tests {
		want := "https://www.globalgiving.org/dy/cart/view/gg.html?cmd=addItem&projid=12345&frequency=ONCE&" + tt.want
		if got := CheckoutURL(tt.id, tt.amount); got != want {
			t.Errorf("CheckoutURL(%s, %d) = %q, want %q", tt.id, tt.amount, got, want)
		}
	}
}
