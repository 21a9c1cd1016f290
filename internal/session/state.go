// Package session holds the signed-in user's application state and the login flow that
// produces it. State changes go through typed actions applied by a pure reducer, and
// consumers receive the Store explicitly instead of reaching for a global.
package session

import (
	"sync"

	"github.com/jonathan/jobhunter/internal/types"
	"golang.org/x/oauth2"
)

// State is the application-wide session state.
type State struct {
	User  *types.User
	Token *oauth2.Token
}

// LoggedIn reports whether a user and token are present.
func (s State) LoggedIn() bool {
	return s.User != nil && s.Token != nil
}

// Role is the job list the user sees. Anonymous users see the applicant list.
func (s State) Role() types.Role {
	return s.User.ListRole()
}

// Action is a state transition request.
type Action interface {
	Name() string
}

// LoggedInAction records a successful login.
type LoggedInAction struct {
	User  *types.User
	Token *oauth2.Token
}

// Name implements Action.
func (LoggedInAction) Name() string { return "logged_in" }

// LoggedOutAction clears the session.
type LoggedOutAction struct{}

// Name implements Action.
func (LoggedOutAction) Name() string { return "logged_out" }

// ProfileLoadedAction replaces the user profile, keeping the token.
type ProfileLoadedAction struct {
	User *types.User
}

// Name implements Action.
func (ProfileLoadedAction) Name() string { return "profile_loaded" }

// Reduce returns the state that results from applying action to s. Unknown actions leave s unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case LoggedInAction:
		return State{User: a.User, Token: a.Token}
	case LoggedOutAction:
		return State{}
	case ProfileLoadedAction:
		s.User = a.User
		return s
	}
	return s
}

// Store holds the current State and notifies subscribers after every dispatch.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial, subscribers: make(map[int]func(State))}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action and returns the new state. Subscribers are called synchronously,
// outside the store's lock, in no particular order.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
