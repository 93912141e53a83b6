package session

import (
	"context"
	"log"
	"sync"

	"github.com/sandeepkv93/zen/internal/api"
)

type EventKind string

const (
	SignedIn       EventKind = "SIGNED_IN"
	InitialSession EventKind = "INITIAL_SESSION"
	SignedOut      EventKind = "SIGNED_OUT"
	TokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// Event is an identity provider state change.
type Event struct {
	Kind          EventKind
	ProviderToken string
}

// Change is published to subscribers whenever the app session changes.
type Change struct {
	Session  Session
	SignedIn bool
}

// Exchanger turns a provider token into an app session.
type Exchanger interface {
	Login(ctx context.Context, providerToken string) (api.LoginResponse, error)
}

// ProviderSignOut clears the provider's own session.
type ProviderSignOut interface {
	SignOut() error
}

// Bridge owns the current app session. It is the only shared mutable
// state in the client and is safe for concurrent use.
type Bridge struct {
	exchanger Exchanger
	provider  ProviderSignOut

	mu            sync.RWMutex
	providerToken string
	current       *Session
	subscribers   []chan Change
}

func NewBridge(exchanger Exchanger, provider ProviderSignOut) *Bridge {
	return &Bridge{exchanger: exchanger, provider: provider}
}

func (b *Bridge) Current() (Session, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return Session{}, false
	}
	return *b.current, true
}

// ProviderAuthenticated reports whether a provider token is held, even if
// the exchange for an app session failed.
func (b *Bridge) ProviderAuthenticated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.providerToken != ""
}

// HandleEvent applies a provider event. Sign-in events with a token issue
// exactly one exchange; a failed exchange is logged and leaves the app
// session empty.
func (b *Bridge) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case SignedOut:
		b.clear()
		return
	case TokenRefreshed:
		if ev.ProviderToken != "" {
			b.mu.Lock()
			b.providerToken = ev.ProviderToken
			if b.current != nil {
				b.current.ProviderToken = ev.ProviderToken
			}
			b.mu.Unlock()
		}
		return
	case SignedIn, InitialSession:
	default:
		log.Printf("session: ignoring unknown provider event %q", ev.Kind)
		return
	}

	b.mu.Lock()
	b.providerToken = ev.ProviderToken
	stale := b.current != nil && b.current.ProviderToken != ev.ProviderToken
	if stale {
		b.current = nil
	}
	b.mu.Unlock()
	if stale {
		// the previous identity's app session must not outlive its provider token
		b.publish(Change{})
	}

	if ev.ProviderToken == "" {
		return
	}

	resp, err := b.exchanger.Login(ctx, ev.ProviderToken)
	if err != nil {
		log.Printf("session: service login failed: %v", err)
		return
	}

	s := Session{ProviderToken: ev.ProviderToken, AccessToken: resp.AccessToken, User: resp.User}
	b.mu.Lock()
	if b.providerToken != ev.ProviderToken {
		// signed out or re-signed in while the exchange was in flight
		b.mu.Unlock()
		return
	}
	b.current = &s
	b.mu.Unlock()
	b.publish(Change{Session: s, SignedIn: true})
}

// SignOut clears the provider session and the derived app session.
func (b *Bridge) SignOut(ctx context.Context) error {
	var err error
	if b.provider != nil {
		err = b.provider.SignOut()
	}
	b.clear()
	return err
}

func (b *Bridge) clear() {
	b.mu.Lock()
	hadSession := b.current != nil || b.providerToken != ""
	b.providerToken = ""
	b.current = nil
	b.mu.Unlock()
	if hadSession {
		b.publish(Change{})
	}
}

// Subscribe returns a channel receiving session changes. Slow subscribers
// miss changes rather than block the bridge.
func (b *Bridge) Subscribe() <-chan Change {
	ch := make(chan Change, 4)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

func (b *Bridge) publish(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- c:
		default:
		}
	}
}
