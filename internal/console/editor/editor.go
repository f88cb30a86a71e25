// Package editor holds the markdown editor model: tab state, the text
// selection, toolbar splicing, and the sanitized HTML preview.
package editor

import "strings"

// Tab selects between the editing surface and the rendered preview.
type Tab string

const (
	TabEdit    Tab = "edit"
	TabPreview Tab = "preview"
)

// Selection is a half-open range of rune offsets into the content.
// Start equals End for a bare cursor.
type Selection struct {
	Start int
	End   int
}

// Action is a toolbar action.
type Action string

const (
	ActionBold    Action = "bold"
	ActionItalic  Action = "italic"
	ActionHeading Action = "heading"
	ActionLink    Action = "link"
	ActionList    Action = "list"
	ActionQuote   Action = "quote"
	ActionCode    Action = "code"
)

// markers is the markup spliced around the selection per action.
var markers = map[Action]struct {
	prefix string
	suffix string
}{
	ActionBold:    {prefix: "**", suffix: "**"},
	ActionItalic:  {prefix: "*", suffix: "*"},
	ActionHeading: {prefix: "## "},
	ActionLink:    {prefix: "[", suffix: "](url)"},
	ActionList:    {prefix: "- "},
	ActionQuote:   {prefix: "> "},
	ActionCode:    {prefix: "`", suffix: "`"},
}

// Model is the editor's in-memory state. It is not safe for concurrent
// use; the editor screen owns it exclusively.
type Model struct {
	content   []rune
	tab       Tab
	selection Selection
}

// NewModel creates a model over the given content, on the edit tab
// with the cursor at the start.
func NewModel(content string) *Model {
	return &Model{content: []rune(content), tab: TabEdit}
}

// Content returns the current markdown text.
func (m *Model) Content() string {
	return string(m.content)
}

// SetContent replaces the text and clamps the selection to it.
func (m *Model) SetContent(content string) {
	m.content = []rune(content)
	m.Select(m.selection.Start, m.selection.End)
}

// Tab returns the active tab.
func (m *Model) Tab() Tab {
	return m.tab
}

// SetTab switches between edit and preview; anything else keeps the
// edit surface.
func (m *Model) SetTab(tab Tab) {
	if tab == TabPreview {
		m.tab = TabPreview
		return
	}
	m.tab = TabEdit
}

// Select sets the selection, clamped to the content and normalized so
// Start is never past End.
func (m *Model) Select(start, end int) {
	start = clamp(start, 0, len(m.content))
	end = clamp(end, 0, len(m.content))
	if start > end {
		start, end = end, start
	}
	m.selection = Selection{Start: start, End: end}
}

// Selection returns the current selection.
func (m *Model) Selection() Selection {
	return m.selection
}

// SelectedText returns the text under the selection.
func (m *Model) SelectedText() string {
	return string(m.content[m.selection.Start:m.selection.End])
}

// Apply splices the action's markup around the selection. The selected
// text stays selected, shifted past the inserted prefix, so the cursor
// lands where typing would continue.
func (m *Model) Apply(action Action) {
	marker, ok := markers[action]
	if !ok {
		return
	}
	prefix := []rune(marker.prefix)
	suffix := []rune(marker.suffix)
	sel := m.selection

	spliced := make([]rune, 0, len(m.content)+len(prefix)+len(suffix))
	spliced = append(spliced, m.content[:sel.Start]...)
	spliced = append(spliced, prefix...)
	spliced = append(spliced, m.content[sel.Start:sel.End]...)
	spliced = append(spliced, suffix...)
	spliced = append(spliced, m.content[sel.End:]...)
	m.content = spliced

	m.selection = Selection{
		Start: sel.Start + len(prefix),
		End:   sel.End + len(prefix),
	}
}

// Undo does nothing. Edit history is not tracked; the toolbar buttons
// exist but are inert.
func (m *Model) Undo() {}

// Redo does nothing, as Undo.
func (m *Model) Redo() {}

// CharCount counts runes in the content.
func (m *Model) CharCount() int {
	return len(m.content)
}

// WordCount counts whitespace-separated words in the content.
func (m *Model) WordCount() int {
	return len(strings.Fields(string(m.content)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
