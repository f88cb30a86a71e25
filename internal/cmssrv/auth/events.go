package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/cmssrv/cmscommon"
	"github.com/sitesmith/sitesmith/internal/cmssrv/sessionhub"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// publishTimeout bounds event delivery to slow session feeds.
const publishTimeout = 100 * time.Millisecond

// eventBufferSize is the per-feed channel buffer. Session transitions
// are rare, so a small buffer suffices.
const eventBufferSize = 8

var hub *sessionhub.Hub

// SetSessionHub installs the hub that login, logout, and the events
// stream share. Called once during server setup.
func SetSessionHub(h *sessionhub.Hub) {
	hub = h
}

func publishSessionEvent(userID uuid.UUID, kind cmscommon.SessionEvent) {
	if hub != nil {
		hub.Publish(userID, kind, publishTimeout)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement happens in the CORS layer; the socket carries
	// no state beyond what the bearer token already grants.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type sessionEventFrame struct {
	Event string  `json:"event"`
	User  userRsp `json:"user"`
	At    string  `json:"at"`
}

// SessionEvents streams the caller's session-state transitions over a
// WebSocket, in emit order, until the client disconnects or the server
// shuts down.
func SessionEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uc := cmscommon.GetUserContext(ctx)
	if uc == nil {
		httpx.ErrUnAuthorized().Send(w)
		return
	}
	if hub == nil {
		httpx.ErrApplicationError("session events unavailable").Send(w)
		return
	}

	events, unsubscribe := hub.Subscribe(uc.UserID, eventBufferSize)
	defer unsubscribe()

	conn, goerr := upgrader.Upgrade(w, r, nil)
	if goerr != nil {
		log.Ctx(ctx).Warn().Err(goerr).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Reader goroutine drains client frames and surfaces disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			frame := &sessionEventFrame{
				Event: string(event.Kind),
				User: userRsp{
					UserID: uc.UserID.String(),
					Email:  uc.Email,
				},
				At: event.At.Format(time.RFC3339),
			}
			if err := conn.WriteJSON(frame); err != nil {
				log.Ctx(ctx).Debug().Err(err).Msg("session event write failed")
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
