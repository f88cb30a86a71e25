package screens

import (
	"context"
	"strings"

	"github.com/sitesmith/sitesmith/internal/console/gateway"
	"github.com/sitesmith/sitesmith/internal/console/nav"
	"github.com/sitesmith/sitesmith/pkg/api"
)

// Projects is the project manager screen.
type Projects struct {
	noticeBoard
	projects gateway.ProjectGateway
	navStore *nav.Store

	state []api.Project
}

// NewProjects creates the project manager controller.
func NewProjects(projects gateway.ProjectGateway, navStore *nav.Store) *Projects {
	return &Projects{projects: projects, navStore: navStore}
}

// Load fetches all of the user's projects, most recent first.
func (p *Projects) Load(ctx context.Context) {
	projects, err := p.projects.ListProjects(ctx, 0)
	if err != nil {
		p.post("failed to load projects", err)
		return
	}
	p.state = projects
}

// State returns the last loaded project list.
func (p *Projects) State() []api.Project {
	return p.state
}

// Create validates the name locally, creates the project, and opens it
// in the editor. The server seeds the default page.
func (p *Projects) Create(ctx context.Context, req *api.ProjectRequest) {
	if strings.TrimSpace(req.Name) == "" {
		p.post("project name is required", nil)
		return
	}
	project, err := p.projects.CreateProject(ctx, req)
	if err != nil {
		p.post("failed to create project", err)
		return
	}
	p.state = append([]api.Project{*project}, p.state...)
	p.navStore.NavigateTo(nav.ViewEditor, nav.WithProject(project.ProjectID))
}

// Update persists project changes and refreshes the list entry.
func (p *Projects) Update(ctx context.Context, projectID string, req *api.ProjectRequest) {
	if strings.TrimSpace(req.Name) == "" {
		p.post("project name is required", nil)
		return
	}
	project, err := p.projects.UpdateProject(ctx, projectID, req)
	if err != nil {
		p.post("failed to update project", err)
		return
	}
	for i := range p.state {
		if p.state[i].ProjectID == projectID {
			p.state[i] = *project
			break
		}
	}
}

// Delete removes a project and all of its pages.
func (p *Projects) Delete(ctx context.Context, projectID string) {
	if err := p.projects.DeleteProject(ctx, projectID); err != nil {
		p.post("failed to delete project", err)
		return
	}
	kept := p.state[:0]
	for _, project := range p.state {
		if project.ProjectID != projectID {
			kept = append(kept, project)
		}
	}
	p.state = kept
}

// Duplicate copies a project with its pages; copies always start
// unpublished.
func (p *Projects) Duplicate(ctx context.Context, projectID string) {
	project, err := p.projects.DuplicateProject(ctx, projectID, "")
	if err != nil {
		p.post("failed to duplicate project", err)
		return
	}
	p.state = append([]api.Project{*project}, p.state...)
}

// Open switches to the editor for the given project.
func (p *Projects) Open(projectID string) {
	p.navStore.NavigateTo(nav.ViewEditor, nav.WithProject(projectID))
}
