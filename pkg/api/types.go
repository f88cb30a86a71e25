package api

import (
	"encoding/json"
	"time"
)

// User identifies an authenticated account.
type User struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// SessionEvent is one auth-state transition frame from the session
// events stream.
type SessionEvent struct {
	Event string `json:"event"`
	User  User   `json:"user"`
	At    string `json:"at"`
}

// Session event kinds.
const (
	EventSignedIn  = "signed_in"
	EventSignedOut = "signed_out"
)

// Project is a site project record.
type Project struct {
	ProjectID     string          `json:"project_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Domain        string          `json:"domain,omitempty"`
	Subdomain     string          `json:"subdomain,omitempty"`
	IsPublished   bool            `json:"is_published"`
	ThemeSettings json.RawMessage `json:"theme_settings,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProjectRequest is the create/update payload for projects.
type ProjectRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Domain        string          `json:"domain,omitempty"`
	Subdomain     string          `json:"subdomain,omitempty"`
	IsPublished   *bool           `json:"is_published,omitempty"`
	ThemeSettings json.RawMessage `json:"theme_settings,omitempty"`
}

// Page is a single page within a project.
type Page struct {
	PageID          string    `json:"page_id"`
	ProjectID       string    `json:"project_id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	MetaDescription string    `json:"meta_description,omitempty"`
	MetaKeywords    string    `json:"meta_keywords,omitempty"`
	IsPublished     bool      `json:"is_published"`
	OrderIndex      int       `json:"order_index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PageRequest is the create/update payload for pages.
type PageRequest struct {
	Title           string `json:"title"`
	Slug            string `json:"slug,omitempty"`
	Content         string `json:"content"`
	MetaDescription string `json:"meta_description,omitempty"`
	MetaKeywords    string `json:"meta_keywords,omitempty"`
	IsPublished     *bool  `json:"is_published,omitempty"`
	OrderIndex      *int   `json:"order_index,omitempty"`
}

// Template is an entry in the shared template catalog.
type Template struct {
	TemplateID  string    `json:"template_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Content     string    `json:"content"`
	PreviewURL  string    `json:"preview_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnalyticsEvent is a recorded visitor event.
type AnalyticsEvent struct {
	EventID   string    `json:"event_id"`
	ProjectID string    `json:"project_id"`
	EventType string    `json:"event_type"`
	PagePath  string    `json:"page_path"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Version is the server version report.
type Version struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}
