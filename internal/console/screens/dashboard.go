package screens

import (
	"context"

	"github.com/sitesmith/sitesmith/internal/console/gateway"
	"github.com/sitesmith/sitesmith/internal/console/nav"
	"github.com/sitesmith/sitesmith/pkg/api"
)

const recentProjectCount = 5

// Stats are the dashboard's headline numbers, derived from the recent
// projects and the analytics feed.
type Stats struct {
	TotalProjects  int
	PublishedSites int
	TotalViews     int
	ActiveUsers    int
}

// DashboardState is what the dashboard renders.
type DashboardState struct {
	Projects []api.Project
	Stats    Stats
}

// Dashboard shows the most recent projects and aggregate analytics.
type Dashboard struct {
	noticeBoard
	projects  gateway.ProjectGateway
	analytics gateway.AnalyticsGateway
	navStore  *nav.Store

	state DashboardState
}

// NewDashboard creates the dashboard controller.
func NewDashboard(projects gateway.ProjectGateway, analytics gateway.AnalyticsGateway, navStore *nav.Store) *Dashboard {
	return &Dashboard{projects: projects, analytics: analytics, navStore: navStore}
}

// Load fetches the five most recent projects and the full analytics
// feed, then derives the stats. On failure the previous state stands
// and a notice is posted.
func (d *Dashboard) Load(ctx context.Context) {
	projects, err := d.projects.ListProjects(ctx, recentProjectCount)
	if err != nil {
		d.post("failed to load projects", err)
		return
	}
	events, err := d.analytics.ListAnalytics(ctx, "")
	if err != nil {
		d.post("failed to load analytics", err)
		return
	}

	published := 0
	for _, project := range projects {
		if project.IsPublished {
			published++
		}
	}

	// Active users is a placeholder heuristic derived from view
	// volume, not a measured metric.
	totalViews := len(events)
	d.state = DashboardState{
		Projects: projects,
		Stats: Stats{
			TotalProjects:  len(projects),
			PublishedSites: published,
			TotalViews:     totalViews,
			ActiveUsers:    totalViews * 4 / 10,
		},
	}
}

// State returns the last loaded dashboard state.
func (d *Dashboard) State() DashboardState {
	return d.state
}

// OpenProject jumps into the editor for the given project.
func (d *Dashboard) OpenProject(projectID string) {
	d.navStore.NavigateTo(nav.ViewEditor, nav.WithProject(projectID))
}

// ShowAllProjects switches to the project manager.
func (d *Dashboard) ShowAllProjects() {
	d.navStore.NavigateTo(nav.ViewProjects)
}
