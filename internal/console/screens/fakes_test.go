package screens

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sitesmith/sitesmith/pkg/api"
)

// fakeBackend is an in-memory stand-in for the server, implementing
// the project, page, template, and analytics gateways. Setting fail
// makes every call return that error.
type fakeBackend struct {
	fail error

	nextID    int
	projects  []api.Project
	pages     map[string][]api.Page
	templates []api.Template
	events    []api.AnalyticsEvent
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{pages: map[string][]api.Page{}}
}

func (f *fakeBackend) id(prefix string) string {
	f.nextID++
	return prefix + strconv.Itoa(f.nextID)
}

func (f *fakeBackend) seedProject(name string, published bool) *api.Project {
	project := api.Project{
		ProjectID:   f.id("p"),
		Name:        name,
		IsPublished: published,
		UpdatedAt:   time.Now(),
	}
	f.projects = append([]api.Project{project}, f.projects...)
	f.seedPage(project.ProjectID, "Home", "home")
	return &project
}

func (f *fakeBackend) seedPage(projectID, title, slug string) *api.Page {
	page := api.Page{
		PageID:     f.id("pg"),
		ProjectID:  projectID,
		Title:      title,
		Slug:       slug,
		OrderIndex: len(f.pages[projectID]),
	}
	f.pages[projectID] = append(f.pages[projectID], page)
	return &page
}

func (f *fakeBackend) ListProjects(ctx context.Context, limit int) ([]api.Project, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	projects := append([]api.Project{}, f.projects...)
	if limit > 0 && len(projects) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

func (f *fakeBackend) GetProject(ctx context.Context, projectID string) (*api.Project, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for _, project := range f.projects {
		if project.ProjectID == projectID {
			p := project
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: project", api.ErrNotFound)
}

func (f *fakeBackend) CreateProject(ctx context.Context, req *api.ProjectRequest) (*api.Project, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.seedProject(req.Name, false), nil
}

func (f *fakeBackend) UpdateProject(ctx context.Context, projectID string, req *api.ProjectRequest) (*api.Project, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for i := range f.projects {
		if f.projects[i].ProjectID == projectID {
			f.projects[i].Name = req.Name
			f.projects[i].UpdatedAt = time.Now()
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: project", api.ErrNotFound)
}

func (f *fakeBackend) DeleteProject(ctx context.Context, projectID string) error {
	if f.fail != nil {
		return f.fail
	}
	for i := range f.projects {
		if f.projects[i].ProjectID == projectID {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			delete(f.pages, projectID)
			return nil
		}
	}
	return fmt.Errorf("%w: project", api.ErrNotFound)
}

func (f *fakeBackend) DuplicateProject(ctx context.Context, projectID, name string) (*api.Project, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	src, err := f.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = src.Name + " (Copy)"
	}
	dup := api.Project{ProjectID: f.id("p"), Name: name, UpdatedAt: time.Now()}
	f.projects = append([]api.Project{dup}, f.projects...)
	for _, page := range f.pages[projectID] {
		page.PageID = f.id("pg")
		page.ProjectID = dup.ProjectID
		page.IsPublished = false
		f.pages[dup.ProjectID] = append(f.pages[dup.ProjectID], page)
	}
	return &dup, nil
}

func (f *fakeBackend) ListPages(ctx context.Context, projectID string) ([]api.Page, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	pages := append([]api.Page{}, f.pages[projectID]...)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].OrderIndex < pages[j].OrderIndex
	})
	return pages, nil
}

func (f *fakeBackend) GetPage(ctx context.Context, pageID string) (*api.Page, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for _, pages := range f.pages {
		for _, page := range pages {
			if page.PageID == pageID {
				p := page
				return &p, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: page", api.ErrNotFound)
}

func (f *fakeBackend) CreatePage(ctx context.Context, projectID string, req *api.PageRequest) (*api.Page, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	slug := req.Slug
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(req.Title, " ", "-"))
	}
	return f.seedPage(projectID, req.Title, slug), nil
}

func (f *fakeBackend) UpdatePage(ctx context.Context, pageID string, req *api.PageRequest) (*api.Page, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for projectID, pages := range f.pages {
		for i := range pages {
			if pages[i].PageID == pageID {
				pages[i].Title = req.Title
				pages[i].Content = req.Content
				pages[i].MetaDescription = req.MetaDescription
				pages[i].MetaKeywords = req.MetaKeywords
				if req.Slug != "" {
					pages[i].Slug = req.Slug
				}
				if req.IsPublished != nil {
					pages[i].IsPublished = *req.IsPublished
				}
				pages[i].UpdatedAt = time.Now()
				f.pages[projectID] = pages
				p := pages[i]
				return &p, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: page", api.ErrNotFound)
}

func (f *fakeBackend) DeletePage(ctx context.Context, pageID string) error {
	if f.fail != nil {
		return f.fail
	}
	for projectID, pages := range f.pages {
		for i := range pages {
			if pages[i].PageID == pageID {
				f.pages[projectID] = append(pages[:i], pages[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: page", api.ErrNotFound)
}

func (f *fakeBackend) ReorderPages(ctx context.Context, projectID string, pageIDs []string) error {
	if f.fail != nil {
		return f.fail
	}
	position := make(map[string]int, len(pageIDs))
	for i, id := range pageIDs {
		position[id] = i
	}
	pages := f.pages[projectID]
	for i := range pages {
		if idx, ok := position[pages[i].PageID]; ok {
			pages[i].OrderIndex = idx
		}
	}
	return nil
}

func (f *fakeBackend) ListTemplates(ctx context.Context) ([]api.Template, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]api.Template{}, f.templates...), nil
}

func (f *fakeBackend) GetTemplate(ctx context.Context, templateID string) (*api.Template, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for _, template := range f.templates {
		if template.TemplateID == templateID {
			t := template
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: template", api.ErrNotFound)
}

func (f *fakeBackend) ListAnalytics(ctx context.Context, projectID string) ([]api.AnalyticsEvent, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if projectID == "" {
		return append([]api.AnalyticsEvent{}, f.events...), nil
	}
	events := []api.AnalyticsEvent{}
	for _, event := range f.events {
		if event.ProjectID == projectID {
			events = append(events, event)
		}
	}
	return events, nil
}
