package session

import (
	"sync/atomic"
	"testing"

	"github.com/jonathan/jobhunter/internal/types"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

type unknownAction struct{}

func (unknownAction) Name() string { return "unknown" }

func TestReduce(t *testing.T) {
	recruiter := &types.User{ID: 1, Username: "acme", Role: "RECRUITER"}
	token := &oauth2.Token{AccessToken: "abc"}

	s := Reduce(State{}, LoggedInAction{User: recruiter, Token: token})
	assert.True(t, s.LoggedIn())
	assert.Equal(t, types.RoleRecruiter, s.Role())

	updated := &types.User{ID: 1, Username: "acme", Role: "RECRUITER", FirstName: "Ann"}
	s = Reduce(s, ProfileLoadedAction{User: updated})
	assert.Equal(t, "Ann", s.User.FirstName)
	assert.Same(t, token, s.Token, "profile reload keeps the token")

	assert.Equal(t, s, Reduce(s, unknownAction{}))

	s = Reduce(s, LoggedOutAction{})
	assert.False(t, s.LoggedIn())
	assert.Equal(t, types.RoleApplicant, s.Role())
}

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	store := NewStore(State{})

	var calls atomic.Int32
	var last State
	unsubscribe := store.Subscribe(func(s State) {
		calls.Add(1)
		last = s
	})

	user := &types.User{ID: 2, Username: "jane", Role: "APPLICANT"}
	next := store.Dispatch(LoggedInAction{User: user, Token: &oauth2.Token{AccessToken: "t"}})

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, next, last)
	assert.Equal(t, next, store.State())
	assert.Equal(t, "jane", store.State().User.Username)

	unsubscribe()
	store.Dispatch(LoggedOutAction{})
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, store.State().LoggedIn())
}

func TestStore_SubscriberMayDispatch(t *testing.T) {
	store := NewStore(State{})
	store.Subscribe(func(s State) {
		if s.User != nil && s.User.FirstName == "" {
			store.Dispatch(ProfileLoadedAction{User: &types.User{ID: s.User.ID, FirstName: "Loaded"}})
		}
	})

	store.Dispatch(LoggedInAction{User: &types.User{ID: 3}, Token: &oauth2.Token{AccessToken: "t"}})
	assert.Equal(t, "Loaded", store.State().User.FirstName)
}
