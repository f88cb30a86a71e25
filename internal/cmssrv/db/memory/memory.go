// Package memory implements the sitesmith storage interface in process
// memory. It backs the server's -dev mode and the HTTP tests, and
// mirrors the scoping and error behavior of the postgresql store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sitesmith/sitesmith/internal/cmssrv/cmscommon"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/dberror"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// Store keeps all records in maps guarded by a single mutex. Good
// enough for development and tests; not meant for production load.
type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*models.User
	projects  map[uuid.UUID]*models.Project
	pages     map[uuid.UUID]*models.Page
	templates map[uuid.UUID]*models.Template
	events    map[uuid.UUID]*models.AnalyticsEvent
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:     map[uuid.UUID]*models.User{},
		projects:  map[uuid.UUID]*models.Project{},
		pages:     map[uuid.UUID]*models.Page{},
		templates: map[uuid.UUID]*models.Template{},
		events:    map[uuid.UUID]*models.AnalyticsEvent{},
	}
}

func userIDFromContext(ctx context.Context) (uuid.UUID, apperrors.Error) {
	uc := cmscommon.GetUserContext(ctx)
	if uc == nil || uc.UserID == uuid.Nil {
		return uuid.Nil, dberror.ErrMissingUserContext
	}
	return uc.UserID, nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, user *models.User) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return dberror.ErrAlreadyExists.Msg("user already exists")
		}
	}
	if user.UserID == uuid.Nil {
		user.UserID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()
	cp := *user
	s.users[user.UserID] = &cp
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, apperrors.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, apperrors.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, dberror.ErrNotFound.Msg("user not found")
}

// Projects

func (s *Store) CreateProject(ctx context.Context, project *models.Project, defaultPage *models.Page) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if project.ProjectID == uuid.Nil {
		project.ProjectID = uuid.New()
	}
	project.UserID = userID
	now := time.Now().UTC()
	project.IsPublished = false
	project.CreatedAt = now
	project.UpdatedAt = now

	defaultPage.ProjectID = project.ProjectID
	if defaultPage.PageID == uuid.Nil {
		defaultPage.PageID = uuid.New()
	}
	defaultPage.CreatedAt = now
	defaultPage.UpdatedAt = now

	pcp := *project
	s.projects[project.ProjectID] = &pcp
	dcp := *defaultPage
	s.pages[defaultPage.PageID] = &dcp
	return nil
}

func (s *Store) getProjectLocked(projectID, userID uuid.UUID) (*models.Project, apperrors.Error) {
	p, ok := s.projects[projectID]
	if !ok || p.UserID != userID {
		return nil, dberror.ErrNotFound.Msg("project not found")
	}
	return p, nil
}

func (s *Store) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.getProjectLocked(projectID, userID)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListProjects(ctx context.Context, limit int) ([]*models.Project, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := []*models.Project{}
	for _, p := range s.projects {
		if p.UserID == userID {
			cp := *p
			projects = append(projects, &cp)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	if limit > 0 && len(projects) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

func (s *Store) UpdateProject(ctx context.Context, project *models.Project) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getProjectLocked(project.ProjectID, userID)
	if err != nil {
		return err
	}
	existing.Name = project.Name
	existing.Description = project.Description
	existing.Domain = project.Domain
	existing.Subdomain = project.Subdomain
	existing.IsPublished = project.IsPublished
	existing.ThemeSettings = project.ThemeSettings
	existing.UpdatedAt = time.Now().UTC()
	project.UserID = existing.UserID
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, projectID uuid.UUID) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getProjectLocked(projectID, userID); err != nil {
		return err
	}
	delete(s.projects, projectID)
	for id, pg := range s.pages {
		if pg.ProjectID == projectID {
			delete(s.pages, id)
		}
	}
	for id, ev := range s.events {
		if ev.ProjectID == projectID {
			delete(s.events, id)
		}
	}
	return nil
}

func (s *Store) DuplicateProject(ctx context.Context, projectID uuid.UUID, name string) (*models.Project, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.getProjectLocked(projectID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dup := *src
	dup.ProjectID = uuid.New()
	dup.Name = name
	dup.IsPublished = false
	dup.CreatedAt = now
	dup.UpdatedAt = now
	s.projects[dup.ProjectID] = &dup

	for _, pg := range s.pagesOfLocked(projectID) {
		cp := *pg
		cp.PageID = uuid.New()
		cp.ProjectID = dup.ProjectID
		cp.IsPublished = false
		cp.ParentID = uuid.Nil
		cp.CreatedAt = now
		cp.UpdatedAt = now
		s.pages[cp.PageID] = &cp
	}

	out := dup
	return &out, nil
}

// Pages

func (s *Store) pagesOfLocked(projectID uuid.UUID) []*models.Page {
	pages := []*models.Page{}
	for _, pg := range s.pages {
		if pg.ProjectID == projectID {
			pages = append(pages, pg)
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].OrderIndex < pages[j].OrderIndex
	})
	return pages
}

func (s *Store) CreatePage(ctx context.Context, page *models.Page) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getProjectLocked(page.ProjectID, userID); err != nil {
		return err
	}
	siblings := s.pagesOfLocked(page.ProjectID)
	for _, sib := range siblings {
		if sib.Slug == page.Slug {
			return dberror.ErrAlreadyExists.Msg("a page with this slug already exists")
		}
	}
	if page.OrderIndex == models.OrderAppend {
		page.OrderIndex = 0
		if len(siblings) > 0 {
			page.OrderIndex = siblings[len(siblings)-1].OrderIndex + 1
		}
	}
	if page.PageID == uuid.Nil {
		page.PageID = uuid.New()
	}
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now
	cp := *page
	s.pages[page.PageID] = &cp
	return nil
}

func (s *Store) getPageLocked(pageID, userID uuid.UUID) (*models.Page, apperrors.Error) {
	pg, ok := s.pages[pageID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("page not found")
	}
	if _, err := s.getProjectLocked(pg.ProjectID, userID); err != nil {
		return nil, dberror.ErrNotFound.Msg("page not found")
	}
	return pg, nil
}

func (s *Store) GetPage(ctx context.Context, pageID uuid.UUID) (*models.Page, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pg, err := s.getPageLocked(pageID, userID)
	if err != nil {
		return nil, err
	}
	cp := *pg
	return &cp, nil
}

func (s *Store) ListPagesByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Page, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.getProjectLocked(projectID, userID); err != nil {
		return nil, err
	}
	pages := []*models.Page{}
	for _, pg := range s.pagesOfLocked(projectID) {
		cp := *pg
		pages = append(pages, &cp)
	}
	return pages, nil
}

func (s *Store) UpdatePage(ctx context.Context, page *models.Page) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getPageLocked(page.PageID, userID)
	if err != nil {
		return err
	}
	existing.Title = page.Title
	existing.Slug = page.Slug
	existing.Content = page.Content
	existing.MetaDescription = page.MetaDescription
	existing.MetaKeywords = page.MetaKeywords
	existing.IsPublished = page.IsPublished
	existing.OrderIndex = page.OrderIndex
	existing.UpdatedAt = time.Now().UTC()
	page.ProjectID = existing.ProjectID
	page.CreatedAt = existing.CreatedAt
	page.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *Store) DeletePage(ctx context.Context, pageID uuid.UUID) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pg, err := s.getPageLocked(pageID, userID)
	if err != nil {
		return err
	}
	if len(s.pagesOfLocked(pg.ProjectID)) <= 1 {
		return dberror.ErrLastPage
	}
	delete(s.pages, pageID)
	return nil
}

func (s *Store) ReorderPages(ctx context.Context, projectID uuid.UUID, pageIDs []uuid.UUID) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getProjectLocked(projectID, userID); err != nil {
		return err
	}
	now := time.Now().UTC()
	for i, id := range pageIDs {
		pg, ok := s.pages[id]
		if !ok || pg.ProjectID != projectID {
			continue
		}
		pg.OrderIndex = i
		pg.UpdatedAt = now
	}
	return nil
}

// Templates

// AddTemplate seeds the shared template catalog. Dev and test helper;
// the API never writes templates.
func (s *Store) AddTemplate(t *models.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.TemplateID == uuid.Nil {
		t.TemplateID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	cp := *t
	s.templates[t.TemplateID] = &cp
}

func (s *Store) ListTemplates(ctx context.Context) ([]*models.Template, apperrors.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := []*models.Template{}
	for _, t := range s.templates {
		cp := *t
		templates = append(templates, &cp)
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Category != templates[j].Category {
			return templates[i].Category < templates[j].Category
		}
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

func (s *Store) GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.Template, apperrors.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[templateID]
	if !ok {
		return nil, dberror.ErrNotFound.Msg("template not found")
	}
	cp := *t
	return &cp, nil
}

// Analytics

// AddAnalyticsEvent records an event. Dev and test helper standing in
// for the publishing edge.
func (s *Store) AddAnalyticsEvent(e *models.AnalyticsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	cp := *e
	s.events[e.EventID] = &cp
}

func (s *Store) ListAnalyticsEvents(ctx context.Context, projectID uuid.UUID) ([]*models.AnalyticsEvent, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if projectID != uuid.Nil {
		if _, err := s.getProjectLocked(projectID, userID); err != nil {
			return nil, err
		}
	}

	events := []*models.AnalyticsEvent{}
	for _, e := range s.events {
		p, ok := s.projects[e.ProjectID]
		if !ok || p.UserID != userID {
			continue
		}
		if projectID != uuid.Nil && e.ProjectID != projectID {
			continue
		}
		cp := *e
		events = append(events, &cp)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

// Lifecycle

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() {}
