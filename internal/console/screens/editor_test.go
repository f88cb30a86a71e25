package screens

import (
	"context"
	"errors"
	"testing"

	"github.com/sitesmith/sitesmith/internal/console/nav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorSelectsFirstPageAndRecordsIt(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)
	about := backend.seedPage(project.ProjectID, "About", "about")

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor, nav.WithProject(project.ProjectID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	state := e.State()
	require.NotNil(t, state.Current)
	assert.Equal(t, "Home", state.Current.Title)
	assert.NotEqual(t, about.PageID, state.Current.PageID)

	// The default selection is pushed back into the nav state.
	assert.Equal(t, state.Current.PageID, navStore.Current().SelectedPageID)
}

func TestEditorHonorsSelectedPage(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)
	about := backend.seedPage(project.ProjectID, "About", "about")

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor,
		nav.WithProject(project.ProjectID), nav.WithPage(about.PageID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	require.NotNil(t, e.Current())
	assert.Equal(t, "About", e.Current().Title)
}

func TestEditorMissingProjectIsNotFound(t *testing.T) {
	backend := newFakeBackend()
	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor, nav.WithProject("p999"))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	assert.True(t, e.State().NotFound)
	_, pending := e.TakeNotice()
	assert.False(t, pending)

	e.Back()
	assert.Equal(t, nav.ViewProjects, navStore.Current().CurrentView)
}

func TestEditorStalePageSelectionIsNotFound(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor,
		nav.WithProject(project.ProjectID), nav.WithPage("pg999"))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	assert.True(t, e.State().NotFound)
}

func TestEditorSavePersistsEdits(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor, nav.WithProject(project.ProjectID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	e.Current().Title = "Welcome"
	e.Current().Content = "# Hello\n"
	e.Save(context.Background())

	pages, err := backend.ListPages(context.Background(), project.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", pages[0].Title)
	assert.Equal(t, "# Hello\n", pages[0].Content)
	assert.Equal(t, "Welcome", e.State().Pages[0].Title)
}

func TestEditorPublishSavesImmediately(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor, nav.WithProject(project.ProjectID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	e.TogglePublish(context.Background())

	pages, err := backend.ListPages(context.Background(), project.ProjectID)
	require.NoError(t, err)
	assert.True(t, pages[0].IsPublished)

	e.TogglePublish(context.Background())
	pages, err = backend.ListPages(context.Background(), project.ProjectID)
	require.NoError(t, err)
	assert.False(t, pages[0].IsPublished)
}

func TestEditorLastPageDeleteRejectedLocally(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor, nav.WithProject(project.ProjectID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	// Force the backend to fail so a call would be visible.
	backend.fail = errors.New("must not be called")
	e.DeletePage(context.Background(), e.Current().PageID)

	notice, ok := e.TakeNotice()
	require.True(t, ok)
	assert.Equal(t, "a project must keep at least one page", notice.Message)
	assert.Len(t, e.State().Pages, 1)
}

func TestEditorDeleteSelectedPageMovesSelection(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)
	about := backend.seedPage(project.ProjectID, "About", "about")

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor,
		nav.WithProject(project.ProjectID), nav.WithPage(about.PageID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	e.DeletePage(context.Background(), about.PageID)

	require.Len(t, e.State().Pages, 1)
	require.NotNil(t, e.Current())
	assert.Equal(t, "Home", e.Current().Title)
	assert.Equal(t, e.Current().PageID, navStore.Current().SelectedPageID)
}

func TestEditorCreatePageSelectsIt(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor, nav.WithProject(project.ProjectID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())

	e.CreatePage(context.Background(), "Contact")

	require.Len(t, e.State().Pages, 2)
	assert.Equal(t, "Contact", e.Current().Title)
	assert.Equal(t, e.Current().PageID, navStore.Current().SelectedPageID)
}

func TestEditorReorderRewritesDisplayOrder(t *testing.T) {
	backend := newFakeBackend()
	project := backend.seedProject("Site", false)
	about := backend.seedPage(project.ProjectID, "About", "about")

	navStore := nav.NewStore()
	navStore.NavigateTo(nav.ViewEditor, nav.WithProject(project.ProjectID))

	e := NewEditor(backend, backend, navStore)
	e.Load(context.Background())
	home := e.State().Pages[0]

	e.Reorder(context.Background(), []string{about.PageID, home.PageID})

	assert.Equal(t, "About", e.State().Pages[0].Title)
	assert.Equal(t, "Home", e.State().Pages[1].Title)
}
