package gline

import (
	"strings"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// inputView is the terminal rendition of a suggest.View: a single-line
// text input with the results list drawn underneath it. The controller only
// touches it from inside appModel.Update, so it needs no locking.
type inputView struct {
	textInput textinput.Model
	classes   suggest.Classes
	items     []suggest.Item
	visible   bool
	active    int
}

func newInputView(prompt string) *inputView {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Focus()

	return &inputView{
		textInput: ti,
		active:    suggest.NoPointer,
	}
}

func (v *inputView) Mount(classes suggest.Classes) {
	v.classes = classes
}

func (v *inputView) Value() string {
	return v.textInput.Value()
}

func (v *inputView) SetValue(value string) {
	v.textInput.SetValue(value)
	v.textInput.CursorEnd()
}

func (v *inputView) Render(items []suggest.Item) {
	v.items = items
	v.active = suggest.NoPointer
}

func (v *inputView) SetVisible(visible bool) {
	v.visible = visible
}

func (v *inputView) SetActive(index int, active bool) {
	switch {
	case active:
		v.active = index
	case v.active == index:
		v.active = suggest.NoPointer
	}
}

// listWindow returns the range of items shown when at most height rows are
// available, paging so the active item stays visible.
func listWindow(active, total, height int) (start, end int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	if active < 0 {
		active = 0
	}
	start = (active / height) * height
	end = min(start+height, total)
	return start, end
}

// itemAt maps a row of the list (0 is the first visible row) back to an
// item index, or NoPointer when the row holds no item.
func (v *inputView) itemAt(row, height int) int {
	start, end := listWindow(v.active, len(v.items), height)
	index := start + row
	if row < 0 || index >= end {
		return suggest.NoPointer
	}
	return v.items[index].Index
}

type listStyles struct {
	box    lipgloss.Style
	item   lipgloss.Style
	active lipgloss.Style
	marker lipgloss.Style
}

func defaultListStyles() listStyles {
	return listStyles{
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")),
		item:   lipgloss.NewStyle(),
		active: lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true),
		marker: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// listView renders the visible window of items, one per line, each cut to
// width display columns.
func (v *inputView) listView(styles listStyles, height, width int) string {
	if !v.visible || len(v.items) == 0 {
		return ""
	}

	start, end := listWindow(v.active, len(v.items), height)
	lines := make([]string, 0, end-start)
	for _, item := range v.items[start:end] {
		text := strings.ReplaceAll(item.Text, "\n", " ")
		if width > 2 {
			text = truncate.StringWithTail(text, uint(width-2), "…")
		}
		padding := max(0, width-2-runewidth.StringWidth(text))

		if item.Index == v.active {
			lines = append(lines, styles.marker.Render("> ")+styles.active.Render(text)+strings.Repeat(" ", padding))
		} else {
			lines = append(lines, "  "+styles.item.Render(text)+strings.Repeat(" ", padding))
		}
	}

	return strings.Join(lines, "\n")
}
