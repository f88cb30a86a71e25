// Package gateway defines the backend interfaces the console screens
// depend on. The concrete implementation is the pkg/api client; tests
// substitute in-memory fakes.
package gateway

import (
	"context"

	"github.com/sitesmith/sitesmith/pkg/api"
)

// AuthGateway covers session lifecycle and the auth event stream.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*api.User, error)
	SubscribeSessionEvents(ctx context.Context) (<-chan api.SessionEvent, error)
}

// ProjectGateway covers project record operations.
type ProjectGateway interface {
	ListProjects(ctx context.Context, limit int) ([]api.Project, error)
	GetProject(ctx context.Context, projectID string) (*api.Project, error)
	CreateProject(ctx context.Context, req *api.ProjectRequest) (*api.Project, error)
	UpdateProject(ctx context.Context, projectID string, req *api.ProjectRequest) (*api.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	DuplicateProject(ctx context.Context, projectID, name string) (*api.Project, error)
}

// PageGateway covers page record operations.
type PageGateway interface {
	ListPages(ctx context.Context, projectID string) ([]api.Page, error)
	GetPage(ctx context.Context, pageID string) (*api.Page, error)
	CreatePage(ctx context.Context, projectID string, req *api.PageRequest) (*api.Page, error)
	UpdatePage(ctx context.Context, pageID string, req *api.PageRequest) (*api.Page, error)
	DeletePage(ctx context.Context, pageID string) error
	ReorderPages(ctx context.Context, projectID string, pageIDs []string) error
}

// TemplateGateway covers the read-only template catalog.
type TemplateGateway interface {
	ListTemplates(ctx context.Context) ([]api.Template, error)
	GetTemplate(ctx context.Context, templateID string) (*api.Template, error)
}

// AnalyticsGateway covers the read-only analytics listing.
type AnalyticsGateway interface {
	ListAnalytics(ctx context.Context, projectID string) ([]api.AnalyticsEvent, error)
}

// The api client satisfies every gateway.
var (
	_ AuthGateway      = (*api.Client)(nil)
	_ ProjectGateway   = (*api.Client)(nil)
	_ PageGateway      = (*api.Client)(nil)
	_ TemplateGateway  = (*api.Client)(nil)
	_ AnalyticsGateway = (*api.Client)(nil)
)
