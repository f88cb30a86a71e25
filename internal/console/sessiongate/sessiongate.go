// Package sessiongate owns the console's authenticated-user value.
// Every other screen is gated behind it: while no identity is present
// the console shows only the sign-in screen.
package sessiongate

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/console/gateway"
	"github.com/sitesmith/sitesmith/pkg/api"
)

// Gate tracks the current identity. It is set once from the backend at
// startup and then overwritten by each session event, in the order the
// backend emits them.
type Gate struct {
	auth gateway.AuthGateway

	mu   sync.RWMutex
	user api.User
	ok   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a gate with no identity.
func New(auth gateway.AuthGateway) *Gate {
	return &Gate{auth: auth}
}

// Start resolves the current session and subscribes to session events
// for the remainder of the process lifetime. A missing session, whether
// reported as an error or as no user at all, is not fatal; the gate
// simply stays unauthenticated until an event signs a user in.
func (g *Gate) Start(ctx context.Context) error {
	user, err := g.auth.Session(ctx)
	if err == nil && user != nil {
		g.set(*user, true)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	events, err := g.auth.SubscribeSessionEvents(streamCtx)
	if err != nil {
		cancel()
		return err
	}
	g.cancel = cancel
	g.done = make(chan struct{})

	go g.consume(events)
	return nil
}

// consume applies session events one at a time so identity updates
// land in delivery order.
func (g *Gate) consume(events <-chan api.SessionEvent) {
	defer close(g.done)
	for event := range events {
		switch event.Event {
		case api.EventSignedIn:
			g.set(event.User, true)
		case api.EventSignedOut:
			g.set(api.User{}, false)
		default:
			log.Debug().Str("event", event.Event).Msg("ignoring unknown session event")
		}
	}
}

func (g *Gate) set(user api.User, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = user
	g.ok = ok
}

// Current returns the identity, and whether one is present.
func (g *Gate) Current() (api.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user, g.ok
}

// Authenticated reports whether an identity is present.
func (g *Gate) Authenticated() bool {
	_, ok := g.Current()
	return ok
}

// Close tears down the event subscription and waits for the consumer
// to drain.
func (g *Gate) Close() {
	if g.cancel == nil {
		return
	}
	g.cancel()
	<-g.done
}
