package screens

import (
	"context"

	"github.com/sitesmith/sitesmith/internal/console/gateway"
	"github.com/sitesmith/sitesmith/internal/console/nav"
	"github.com/sitesmith/sitesmith/pkg/api"
)

// Templates is the read-only template catalog screen.
type Templates struct {
	noticeBoard
	templates gateway.TemplateGateway

	state []api.Template
}

// NewTemplates creates the template catalog controller.
func NewTemplates(templates gateway.TemplateGateway) *Templates {
	return &Templates{templates: templates}
}

// Load fetches the catalog, grouped by category server-side.
func (t *Templates) Load(ctx context.Context) {
	templates, err := t.templates.ListTemplates(ctx)
	if err != nil {
		t.post("failed to load templates", err)
		return
	}
	t.state = templates
}

// State returns the last loaded catalog.
func (t *Templates) State() []api.Template {
	return t.state
}

// Analytics is the read-only analytics screen. It follows the selected
// project when one is set, and shows the flat feed otherwise.
type Analytics struct {
	noticeBoard
	analytics gateway.AnalyticsGateway
	navStore  *nav.Store

	state []api.AnalyticsEvent
}

// NewAnalytics creates the analytics controller.
func NewAnalytics(analytics gateway.AnalyticsGateway, navStore *nav.Store) *Analytics {
	return &Analytics{analytics: analytics, navStore: navStore}
}

// Load fetches events for the selected project, or all events when no
// project is selected.
func (a *Analytics) Load(ctx context.Context) {
	events, err := a.analytics.ListAnalytics(ctx, a.navStore.Current().SelectedProjectID)
	if err != nil {
		a.post("failed to load analytics", err)
		return
	}
	a.state = events
}

// State returns the last loaded event list.
func (a *Analytics) State() []api.AnalyticsEvent {
	return a.state
}
