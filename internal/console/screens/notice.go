// Package screens holds the console's screen controllers. Each screen
// fetches and mutates its own records through the gateways and
// expresses navigation intent only through the nav store.
package screens

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Notice is a one-shot user-facing message, the console's toast. A
// failed backend call produces exactly one notice and leaves the
// screen state as it was.
type Notice struct {
	Message string
}

// noticeBoard is embedded in every screen controller. Only the most
// recent notice is kept; TakeNotice consumes it.
type noticeBoard struct {
	mu     sync.Mutex
	notice *Notice
}

func (b *noticeBoard) post(message string, err error) {
	if err != nil {
		log.Warn().Err(err).Msg(message)
	} else {
		log.Warn().Msg(message)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = &Notice{Message: message}
}

// TakeNotice returns the pending notice, if any, and clears it.
func (b *noticeBoard) TakeNotice() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice == nil {
		return Notice{}, false
	}
	notice := *b.notice
	b.notice = nil
	return notice, true
}
