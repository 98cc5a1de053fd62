// Package view holds the screen logic of the blog front-end: which actions
// a session may see, how a screen activates its session concurrently with
// its data fetch, and how user actions turn into notifications and route
// changes.
//
// Screens never talk to stdout directly. Side effects go through [Notifier]
// and [Navigator] so commands and tests can observe them.
package view

import (
	"context"

	goBlog "github.com/MrEthical07/goBlog"
)

// Resolver yields the session state for a screen activation.
type Resolver interface {
	ResolveSession(ctx context.Context) goBlog.SessionState
}

// Blog is the client surface screens depend on. *goBlog.Client satisfies it.
type Blog interface {
	Resolver
	ListPosts(ctx context.Context) ([]goBlog.Post, error)
	GetPost(ctx context.Context, id int64) (*goBlog.Post, error)
	SavePost(ctx context.Context, id int64, in goBlog.PostInput) (*goBlog.Post, error)
	DeletePost(ctx context.Context, id int64) error
	Login(ctx context.Context, username, password string) (goBlog.LoginResult, error)
	Logout(ctx context.Context) goBlog.SessionState
	Gate(ctx context.Context, state goBlog.SessionState, action goBlog.Action) goBlog.GateDecision
}

// Notifier shows transient messages.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// Navigator changes the current route.
type Navigator interface {
	Navigate(route string)
}

// Visibility of one action on a screen.
type Visibility uint8

const (
	Hidden Visibility = iota
	Visible
	// Gated actions are shown but redirect to login when used.
	Gated
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Gated:
		return "gated"
	default:
		return "hidden"
	}
}

// Actions is the per-session set of affordances.
type Actions struct {
	Login    Visibility
	Register Visibility
	Create   Visibility
	Edit     Visibility
	Delete   Visibility
	Logout   Visibility
}

// Affordances derives the visible actions for state.
func Affordances(state goBlog.SessionState) Actions {
	if state.IsAuthenticated() {
		return Actions{
			Login:    Hidden,
			Register: Hidden,
			Create:   Visible,
			Edit:     Visible,
			Delete:   Visible,
			Logout:   Visible,
		}
	}
	return Actions{
		Login:    Visible,
		Register: Visible,
		Create:   Gated,
		Edit:     Gated,
		Delete:   Gated,
		Logout:   Hidden,
	}
}
