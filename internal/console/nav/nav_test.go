package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialState(t *testing.T) {
	s := NewStore()
	state := s.Current()
	assert.Equal(t, ViewDashboard, state.CurrentView)
	assert.Empty(t, state.SelectedProjectID)
	assert.Empty(t, state.SelectedPageID)
}

func TestNavigateToSetsView(t *testing.T) {
	s := NewStore()
	state := s.NavigateTo(ViewProjects)
	assert.Equal(t, ViewProjects, state.CurrentView)

	// The last call always wins.
	s.NavigateTo(ViewTemplates)
	s.NavigateTo(ViewSettings)
	assert.Equal(t, ViewSettings, s.Current().CurrentView)
}

func TestSelectionMergeRetain(t *testing.T) {
	s := NewStore()

	s.NavigateTo(ViewEditor, WithProject("p1"), WithPage("pg1"))
	state := s.Current()
	assert.Equal(t, "p1", state.SelectedProjectID)
	assert.Equal(t, "pg1", state.SelectedPageID)

	// Navigating without options keeps the previous selection.
	s.NavigateTo(ViewDashboard)
	state = s.Current()
	assert.Equal(t, ViewDashboard, state.CurrentView)
	assert.Equal(t, "p1", state.SelectedProjectID)
	assert.Equal(t, "pg1", state.SelectedPageID)

	// A new project overwrites only the project selection.
	s.NavigateTo(ViewEditor, WithProject("p2"))
	state = s.Current()
	assert.Equal(t, "p2", state.SelectedProjectID)
	assert.Equal(t, "pg1", state.SelectedPageID)
}

func TestBackAndForthResumesSelection(t *testing.T) {
	s := NewStore()

	s.NavigateTo(ViewEditor, WithProject("p1"))
	s.NavigateTo(ViewDashboard)
	s.NavigateTo(ViewEditor)

	state := s.Current()
	assert.Equal(t, ViewEditor, state.CurrentView)
	assert.Equal(t, "p1", state.SelectedProjectID)
	assert.Empty(t, state.SelectedPageID)
}

func TestNavigateToSameViewIsIdempotent(t *testing.T) {
	s := NewStore()
	first := s.NavigateTo(ViewAnalytics, WithProject("p1"))
	second := s.NavigateTo(ViewAnalytics)
	assert.Equal(t, first, second)
}

func TestClearSelectionRequiresExplicitEmpty(t *testing.T) {
	s := NewStore()
	s.NavigateTo(ViewEditor, WithProject("p1"), WithPage("pg1"))

	// There is no reset operation; the only way to drop a selection
	// is to pass the empty value explicitly.
	s.NavigateTo(ViewProjects, WithProject(""), WithPage(""))
	state := s.Current()
	assert.Empty(t, state.SelectedProjectID)
	assert.Empty(t, state.SelectedPageID)
}

func TestSubscribeReceivesSnapshotsInOrder(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe(8)
	defer cancel()

	s.NavigateTo(ViewProjects)
	s.NavigateTo(ViewEditor, WithProject("p1"))

	first := <-ch
	assert.Equal(t, ViewProjects, first.CurrentView)

	second := <-ch
	assert.Equal(t, ViewEditor, second.CurrentView)
	assert.Equal(t, "p1", second.SelectedProjectID)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := NewStore()
	ch, cancel := s.Subscribe(1)
	cancel()

	_, ok := <-ch
	require.False(t, ok)

	// Navigation after cancel must not panic or deliver.
	s.NavigateTo(ViewSettings)
}

func TestScreenForFallsBackToDashboard(t *testing.T) {
	assert.Equal(t, ViewEditor, ScreenFor(ViewEditor))
	assert.Equal(t, ViewSettings, ScreenFor(ViewSettings))
	assert.Equal(t, ViewDashboard, ScreenFor(View("billing")))
	assert.Equal(t, ViewDashboard, ScreenFor(View("")))
}
