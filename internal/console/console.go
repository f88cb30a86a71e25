// Package console wires the dashboard application together: the
// session gate in front, the nav store as the single source of truth,
// and one controller per screen.
package console

import (
	"context"

	"github.com/sitesmith/sitesmith/internal/console/gateway"
	"github.com/sitesmith/sitesmith/internal/console/nav"
	"github.com/sitesmith/sitesmith/internal/console/screens"
	"github.com/sitesmith/sitesmith/internal/console/sessiongate"
)

// ScreenAuth is the sign-in screen, shown whenever no identity is
// present. It sits outside the View enum: it is not navigable, it is
// imposed by the gate.
const ScreenAuth nav.View = "auth"

// Backend bundles the gateways the console needs. The pkg/api client
// satisfies it.
type Backend interface {
	gateway.AuthGateway
	gateway.ProjectGateway
	gateway.PageGateway
	gateway.TemplateGateway
	gateway.AnalyticsGateway
}

// App is the composed console application.
type App struct {
	Gate *sessiongate.Gate
	Nav  *nav.Store

	Dashboard *screens.Dashboard
	Projects  *screens.Projects
	Editor    *screens.Editor
	Templates *screens.Templates
	Analytics *screens.Analytics
}

// New composes the console over the given backend.
func New(backend Backend) *App {
	navStore := nav.NewStore()
	return &App{
		Gate:      sessiongate.New(backend),
		Nav:       navStore,
		Dashboard: screens.NewDashboard(backend, backend, navStore),
		Projects:  screens.NewProjects(backend, navStore),
		Editor:    screens.NewEditor(backend, backend, navStore),
		Templates: screens.NewTemplates(backend),
		Analytics: screens.NewAnalytics(backend, navStore),
	}
}

// Start brings up the session gate.
func (a *App) Start(ctx context.Context) error {
	return a.Gate.Start(ctx)
}

// Close tears the session gate down.
func (a *App) Close() {
	a.Gate.Close()
}

// ActiveScreen resolves what to render right now. While the gate holds
// no identity only the auth screen renders; otherwise the nav store's
// current view decides, with unknown tags falling back to the
// dashboard.
func (a *App) ActiveScreen() nav.View {
	if !a.Gate.Authenticated() {
		return ScreenAuth
	}
	return nav.ScreenFor(a.Nav.Current().CurrentView)
}
