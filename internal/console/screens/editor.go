package screens

import (
	"context"
	"errors"
	"sort"

	"github.com/sitesmith/sitesmith/internal/console/gateway"
	"github.com/sitesmith/sitesmith/internal/console/nav"
	"github.com/sitesmith/sitesmith/pkg/api"
)

// EditorState is what the page editor renders: the project, its pages
// in display order, and a working copy of the selected page.
type EditorState struct {
	Project  *api.Project
	Pages    []api.Page
	Current  *api.Page
	NotFound bool
}

// Editor is the page editor screen.
type Editor struct {
	noticeBoard
	projects gateway.ProjectGateway
	pages    gateway.PageGateway
	navStore *nav.Store

	state EditorState
}

// NewEditor creates the page editor controller.
func NewEditor(projects gateway.ProjectGateway, pages gateway.PageGateway, navStore *nav.Store) *Editor {
	return &Editor{projects: projects, pages: pages, navStore: navStore}
}

// Load fetches the selected project and its pages. When no page is
// selected the first page by order becomes current, and the selection
// is pushed back into the nav store so the state reflects what is
// shown. A missing project or page yields the NotFound state rather
// than a notice.
func (e *Editor) Load(ctx context.Context) {
	navState := e.navStore.Current()
	if navState.SelectedProjectID == "" {
		e.state = EditorState{NotFound: true}
		return
	}

	project, err := e.projects.GetProject(ctx, navState.SelectedProjectID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			e.state = EditorState{NotFound: true}
			return
		}
		e.post("failed to load project", err)
		return
	}

	pages, err := e.pages.ListPages(ctx, project.ProjectID)
	if err != nil {
		e.post("failed to load pages", err)
		return
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].OrderIndex < pages[j].OrderIndex
	})

	state := EditorState{Project: project, Pages: pages}
	if navState.SelectedPageID != "" {
		for i := range pages {
			if pages[i].PageID == navState.SelectedPageID {
				page := pages[i]
				state.Current = &page
				break
			}
		}
		if state.Current == nil {
			e.state = EditorState{NotFound: true}
			return
		}
	} else if len(pages) > 0 {
		page := pages[0]
		state.Current = &page
		e.navStore.NavigateTo(nav.ViewEditor, nav.WithPage(page.PageID))
	}
	e.state = state
}

// State returns the last loaded editor state.
func (e *Editor) State() EditorState {
	return e.state
}

// Current returns the working copy of the selected page. Edits are
// applied to it directly and persisted with Save.
func (e *Editor) Current() *api.Page {
	return e.state.Current
}

// SelectPage makes a loaded page current and records the selection.
func (e *Editor) SelectPage(pageID string) {
	for i := range e.state.Pages {
		if e.state.Pages[i].PageID == pageID {
			page := e.state.Pages[i]
			e.state.Current = &page
			e.navStore.NavigateTo(nav.ViewEditor, nav.WithPage(pageID))
			return
		}
	}
	e.post("page is not part of this project", nil)
}

// Save persists every editable field of the working copy. The server
// bumps the updated timestamp.
func (e *Editor) Save(ctx context.Context) {
	current := e.state.Current
	if current == nil {
		e.post("no page selected", nil)
		return
	}
	req := &api.PageRequest{
		Title:           current.Title,
		Slug:            current.Slug,
		Content:         current.Content,
		MetaDescription: current.MetaDescription,
		MetaKeywords:    current.MetaKeywords,
		IsPublished:     &current.IsPublished,
		OrderIndex:      &current.OrderIndex,
	}
	page, err := e.pages.UpdatePage(ctx, current.PageID, req)
	if err != nil {
		e.post("failed to save page", err)
		return
	}
	e.state.Current = page
	for i := range e.state.Pages {
		if e.state.Pages[i].PageID == page.PageID {
			e.state.Pages[i] = *page
			break
		}
	}
}

// TogglePublish flips the publish state and saves immediately.
func (e *Editor) TogglePublish(ctx context.Context) {
	if e.state.Current == nil {
		e.post("no page selected", nil)
		return
	}
	e.state.Current.IsPublished = !e.state.Current.IsPublished
	e.Save(ctx)
}

// CreatePage adds a page to the project and selects it.
func (e *Editor) CreatePage(ctx context.Context, title string) {
	if e.state.Project == nil {
		e.post("no project loaded", nil)
		return
	}
	page, err := e.pages.CreatePage(ctx, e.state.Project.ProjectID, &api.PageRequest{Title: title})
	if err != nil {
		e.post("failed to create page", err)
		return
	}
	e.state.Pages = append(e.state.Pages, *page)
	e.state.Current = page
	e.navStore.NavigateTo(nav.ViewEditor, nav.WithPage(page.PageID))
}

// DeletePage removes a page. The last remaining page is rejected here
// without a backend call; the server enforces the same rule.
func (e *Editor) DeletePage(ctx context.Context, pageID string) {
	if len(e.state.Pages) <= 1 {
		e.post("a project must keep at least one page", nil)
		return
	}
	if err := e.pages.DeletePage(ctx, pageID); err != nil {
		e.post("failed to delete page", err)
		return
	}
	kept := e.state.Pages[:0]
	for _, page := range e.state.Pages {
		if page.PageID != pageID {
			kept = append(kept, page)
		}
	}
	e.state.Pages = kept

	if e.state.Current != nil && e.state.Current.PageID == pageID {
		page := e.state.Pages[0]
		e.state.Current = &page
		e.navStore.NavigateTo(nav.ViewEditor, nav.WithPage(page.PageID))
	}
}

// Reorder rewrites the page order and reloads nothing; the given order
// becomes the display order.
func (e *Editor) Reorder(ctx context.Context, pageIDs []string) {
	if e.state.Project == nil {
		e.post("no project loaded", nil)
		return
	}
	if err := e.pages.ReorderPages(ctx, e.state.Project.ProjectID, pageIDs); err != nil {
		e.post("failed to reorder pages", err)
		return
	}
	position := make(map[string]int, len(pageIDs))
	for i, id := range pageIDs {
		position[id] = i
	}
	for i := range e.state.Pages {
		if idx, ok := position[e.state.Pages[i].PageID]; ok {
			e.state.Pages[i].OrderIndex = idx
		}
	}
	sort.SliceStable(e.state.Pages, func(i, j int) bool {
		return e.state.Pages[i].OrderIndex < e.state.Pages[j].OrderIndex
	})
}

// Back leaves a missing or finished editor session for the project
// manager.
func (e *Editor) Back() {
	e.navStore.NavigateTo(nav.ViewProjects)
}
