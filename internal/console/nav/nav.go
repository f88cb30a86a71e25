// Package nav holds the console's navigation state: the current view
// and the selected project and page. It is the single source of truth
// for what the console renders, mutated only through NavigateTo.
package nav

import "sync"

// View tags the screens the console can show.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewEditor    View = "editor"
	ViewProjects  View = "projects"
	ViewTemplates View = "templates"
	ViewAnalytics View = "analytics"
	ViewSettings  View = "settings"
)

// ScreenFor resolves a view tag to the screen that renders it. Any tag
// outside the known set resolves to the dashboard so enum drift never
// leaves the console blank.
func ScreenFor(view View) View {
	switch view {
	case ViewDashboard, ViewEditor, ViewProjects, ViewTemplates, ViewAnalytics, ViewSettings:
		return view
	default:
		return ViewDashboard
	}
}

// State is a snapshot of the navigation record. Selections omitted in a
// NavigateTo call carry over from the previous state, so a selected
// project survives a detour through the dashboard.
type State struct {
	CurrentView       View
	SelectedProjectID string
	SelectedPageID    string
}

// Option adjusts the selection carried by a NavigateTo call.
type Option func(*State)

// WithProject overwrites the selected project.
func WithProject(projectID string) Option {
	return func(s *State) {
		s.SelectedProjectID = projectID
	}
}

// WithPage overwrites the selected page.
func WithPage(pageID string) Option {
	return func(s *State) {
		s.SelectedPageID = pageID
	}
}

// Store owns the navigation state for the life of the process. Safe
// for concurrent use.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]chan State
	nextID      int
}

// NewStore creates a store showing the dashboard with no selection.
func NewStore() *Store {
	return &Store{
		state:       State{CurrentView: ViewDashboard},
		subscribers: make(map[int]chan State),
	}
}

// Current returns a snapshot of the navigation state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NavigateTo sets the current view and applies any selection options.
// Selections not named by an option retain their previous value; there
// is no reset operation. Subscribers receive the resulting snapshot.
func (s *Store) NavigateTo(view View, opts ...Option) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentView = view
	for _, opt := range opts {
		opt(&s.state)
	}

	for _, ch := range s.subscribers {
		select {
		case ch <- s.state:
		default:
			// Subscriber is not keeping up; it will catch up on
			// the next transition or via Current.
		}
	}
	return s.state
}

// Subscribe registers for navigation snapshots. Snapshots arrive in
// transition order on the returned channel; the cancel function
// unregisters and closes it.
func (s *Store) Subscribe(buffer int) (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State, buffer)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}
