package cmscommon

// ServerVersion is the sitesmith server version reported by /version.
const ServerVersion = "0.1.0"

// ApiVersion is the API version reported by /version.
const ApiVersion = "v1"

// SessionEvent names the auth-state transitions pushed to subscribers.
type SessionEvent string

const (
	// SessionSignedIn is emitted after a successful login.
	SessionSignedIn SessionEvent = "signed_in"
	// SessionSignedOut is emitted after logout.
	SessionSignedOut SessionEvent = "signed_out"
)
