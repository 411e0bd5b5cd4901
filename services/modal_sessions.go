/*
# Module: services/modal_sessions.go
Per-visitor charity modal sessions: applies modal transitions under a lock and
runs page fetches and donation logging around them.

## Linked Modules
- [services/modal](./modal.go) - Modal state and transitions
- [storage/repository](../storage/repository.go) - Donation log repository
- [types/donation](../types/donation.go) - Donation records

## Tags
business-logic, modal, sessions, concurrency

## Exports
CharityGateway, SessionKey, ModalService, NewModalService, ModalOption, WithMaxSessions, WithFirstPageTTL, ErrNoSession

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/modal_sessions.go" ;
    code:description "Per-visitor charity modal sessions" ;
    code:linksTo [
        code:name "services/modal" ;
        code:path "./modal.go" ;
        code:relationship "Modal state and transitions"
    ], [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Donation log repository"
    ], [
        code:name "types/donation" ;
        code:path "../types/donation.go" ;
        code:relationship "Donation records"
    ] ;
    code:exports :CharityGateway, :SessionKey, :ModalService, :NewModalService, :ModalOption, :WithMaxSessions, :WithFirstPageTTL, :ErrNoSession ;
    code:tags "business-logic", "modal", "sessions", "concurrency" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"recipe-giving/logging"
	"recipe-giving/storage"
	"recipe-giving/types"
)

const (
	// DefaultSessionTTL is how long an untouched modal session is kept
	DefaultSessionTTL = 24 * time.Hour
	// DefaultMaxSessions bounds the open sessions; the least recently
	// touched one is evicted to make room
	DefaultMaxSessions = 10000
	// DefaultFirstPageTTL matches the max-age the charity proxy advertises
	DefaultFirstPageTTL = 5 * time.Minute
)

// ErrNoSession is returned for an action on a modal that was never opened
var ErrNoSession = errors.New("no modal session for this visitor and recipe")

// CharityGateway fetches one page of hunger-relief projects. It never fails:
// every failure comes back as an empty page at start.
type CharityGateway interface {
	FetchCharityPage(ctx context.Context, countryCode string, start int) types.CharityPage
}

// SessionKey identifies one modal: a visitor looking at a recipe
type SessionKey struct {
	VisitorID string
	RecipeID  string
}

type cachedPage struct {
	page    types.CharityPage
	fetched time.Time
}

type modalSession struct {
	state      ModalState
	recipeName string
	location   types.UserLocation
	touched    time.Time
}

// ModalService owns the modal state of every open session
type ModalService struct {
	gateway   CharityGateway
	donations storage.DonationRepository

	mu         sync.Mutex
	sessions   map[SessionKey]*modalSession
	firstPages map[string]cachedPage // country code -> first page

	ttl          time.Duration
	maxSessions  int
	firstPageTTL time.Duration
	now          func() time.Time
	newID        func() string
}

// ModalOption tunes a ModalService
type ModalOption func(*ModalService)

// WithMaxSessions caps the number of open sessions
func WithMaxSessions(n int) ModalOption {
	return func(s *ModalService) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithFirstPageTTL sets how long a country's first page is reused across
// sessions. Zero disables the cache.
func WithFirstPageTTL(d time.Duration) ModalOption {
	return func(s *ModalService) {
		s.firstPageTTL = d
	}
}

// NewModalService creates a service. donations may be nil to skip the donation log.
func NewModalService(gateway CharityGateway, donations storage.DonationRepository, opts ...ModalOption) *ModalService {
	s := &ModalService{
		gateway:      gateway,
		donations:    donations,
		sessions:     make(map[SessionKey]*modalSession),
		firstPages:   make(map[string]cachedPage),
		ttl:          DefaultSessionTTL,
		maxSessions:  DefaultMaxSessions,
		firstPageTTL: DefaultFirstPageTTL,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// firstPage returns the opening page for a country, reusing a recent fetch.
// Empty pages are not cached since they also stand for upstream failures.
func (s *ModalService) firstPage(ctx context.Context, countryCode string) types.CharityPage {
	if s.firstPageTTL > 0 {
		s.mu.Lock()
		cached, ok := s.firstPages[countryCode]
		s.mu.Unlock()
		if ok && s.now().Sub(cached.fetched) < s.firstPageTTL {
			return cached.page
		}
	}

	page := s.gateway.FetchCharityPage(ctx, countryCode, 0)
	if s.firstPageTTL > 0 && len(page.Projects) > 0 {
		s.mu.Lock()
		s.firstPages[countryCode] = cachedPage{page: page, fetched: s.now()}
		s.mu.Unlock()
	}
	return page
}

// evictOldest drops the least recently touched session. Caller holds mu.
func (s *ModalService) evictOldest() {
	var (
		oldest SessionKey
		found  bool
		at     time.Time
	)
	for key, sess := range s.sessions {
		if !found || sess.touched.Before(at) {
			oldest, at, found = key, sess.touched, true
		}
	}
	if found {
		delete(s.sessions, oldest)
	}
}

// Open fetches the first page of projects and starts a fresh session,
// replacing any earlier one for the same key
func (s *ModalService) Open(ctx context.Context, key SessionKey, recipeName string, loc types.UserLocation, mealValue int64) ModalState {
	page := s.firstPage(ctx, loc.CountryCode)
	state := NewModalState(page, loc.CountryCode, mealValue)

	s.mu.Lock()
	if _, exists := s.sessions[key]; !exists {
		for len(s.sessions) >= s.maxSessions {
			s.evictOldest()
		}
	}
	s.sessions[key] = &modalSession{
		state:      state,
		recipeName: recipeName,
		location:   loc,
		touched:    s.now(),
	}
	s.mu.Unlock()

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"recipe_id": key.RecipeID,
		"projects":  len(state.Projects),
		"total":     state.TotalFound,
	}).Info("💝 Charity modal opened")
	return state
}

// State returns the current state of a session
func (s *ModalService) State(key SessionKey) (ModalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return ModalState{}, ErrNoSession
	}
	return sess.state, nil
}

// Describe returns the recipe name and location a session was opened with
func (s *ModalService) Describe(key SessionKey) (string, types.UserLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return "", types.UserLocation{}, ErrNoSession
	}
	return sess.recipeName, sess.location, nil
}

// Select marks a project as the donation target
func (s *ModalService) Select(key SessionKey, projectID string) (ModalState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return ModalState{}, ErrNoSession
	}

	next, err := sess.state.Select(projectID)
	if err != nil {
		return sess.state, err
	}
	sess.state = next
	sess.touched = s.now()
	return next, nil
}

// LoadMore fetches and appends the next page. While one fetch is in flight
// for a session, further calls return the current state without fetching.
func (s *ModalService) LoadMore(ctx context.Context, key SessionKey) (ModalState, error) {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if !ok {
		s.mu.Unlock()
		return ModalState{}, ErrNoSession
	}
	next, start, begun := sess.state.BeginLoadMore()
	sess.state = next
	sess.touched = s.now()
	countryCode := next.CountryCode
	s.mu.Unlock()

	if !begun {
		return next, nil
	}

	page := s.gateway.FetchCharityPage(ctx, countryCode, start)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok = s.sessions[key]
	if !ok {
		return ModalState{}, ErrNoSession
	}
	sess.state = sess.state.CompleteLoadMore(start, page)
	sess.touched = s.now()

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"recipe_id": key.RecipeID,
		"start":     start,
		"received":  len(page.Projects),
	}).Debug("📄 Loaded more charity projects")
	return sess.state, nil
}

// Donate hands the selection off to checkout: it returns the checkout URL,
// resets the session and records the donation click
func (s *ModalService) Donate(ctx context.Context, key SessionKey) (ModalState, string, error) {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if !ok {
		s.mu.Unlock()
		return ModalState{}, "", ErrNoSession
	}

	selected := sess.state.SelectedProjectID
	next, checkout, err := sess.state.Donate()
	if err != nil {
		s.mu.Unlock()
		return sess.state, "", err
	}
	sess.state = next
	sess.touched = s.now()
	currency := sess.location.Currency
	s.mu.Unlock()

	amount := next.MealValue
	if amount < MinimumDonation {
		amount = MinimumDonation
	}

	donation := types.Donation{
		ID:          s.newID(),
		ProjectID:   selected,
		RecipeID:    key.RecipeID,
		Amount:      amount,
		Currency:    currency,
		CountryCode: next.CountryCode,
		VisitorID:   key.VisitorID,
		CheckoutURL: checkout,
		Timestamp:   s.now().UTC(),
	}

	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"recipe_id":  key.RecipeID,
		"project_id": selected,
		"amount":     amount,
	})
	if s.donations != nil {
		if err := s.donations.Save(ctx, donation); err != nil {
			log.WithError(err).Warn("⚠️  Failed to record donation")
		}
	}
	log.Info("🎁 Donation handed off to checkout")

	return next, checkout, nil
}

// Close forgets a session
func (s *ModalService) Close(key SessionKey) {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
}

// Len reports how many sessions are open
func (s *ModalService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Expire removes sessions idle for longer than the TTL and stale first pages
func (s *ModalService) Expire() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for country, cached := range s.firstPages {
		if s.now().Sub(cached.fetched) >= s.firstPageTTL {
			delete(s.firstPages, country)
		}
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for key, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// RunCleanup expires idle sessions every interval until ctx is done
func (s *ModalService) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Expire(); n > 0 {
				logrus.WithField("removed", n).Info("🧹 Expired idle modal sessions")
			}
		}
	}
}
