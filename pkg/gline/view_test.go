package gline

import (
	"strings"
	"testing"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(texts ...string) []suggest.Item {
	result := make([]suggest.Item, len(texts))
	for i, text := range texts {
		result[i] = suggest.Item{Index: i, Text: text}
	}
	return result
}

func TestListWindow(t *testing.T) {
	tests := []struct {
		name          string
		active        int
		total         int
		height        int
		expectedStart int
		expectedEnd   int
	}{
		{"fits entirely", 2, 4, 6, 0, 4},
		{"no pointer shows first page", suggest.NoPointer, 10, 3, 0, 3},
		{"second page", 4, 10, 3, 3, 6},
		{"last partial page", 9, 10, 3, 9, 10},
		{"unlimited height", 7, 10, 0, 0, 10},
		{"empty", suggest.NoPointer, 0, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := listWindow(tt.active, tt.total, tt.height)
			assert.Equal(t, tt.expectedStart, start)
			assert.Equal(t, tt.expectedEnd, end)
		})
	}
}

func TestInputViewImplementsView(t *testing.T) {
	var view suggest.View = newInputView("> ")

	view.Mount(suggest.Classes{Item: "row"})
	view.SetValue("hello")
	assert.Equal(t, "hello", view.Value())

	view.Render(items("a", "b"))
	view.SetVisible(true)
	view.SetActive(1, true)

	v := view.(*inputView)
	assert.Equal(t, "row", v.classes.Item)
	assert.True(t, v.visible)
	assert.Equal(t, 1, v.active)

	// clearing a different index leaves the highlight alone
	view.SetActive(0, false)
	assert.Equal(t, 1, v.active)

	view.SetActive(1, false)
	assert.Equal(t, suggest.NoPointer, v.active)

	view.SetActive(0, true)
	view.Render(items("c"))
	assert.Equal(t, suggest.NoPointer, v.active, "render drops the highlight")
}

func TestItemAt(t *testing.T) {
	v := newInputView("> ")
	v.Render(items("a", "b", "c", "d", "e"))

	assert.Equal(t, 0, v.itemAt(0, 2))
	assert.Equal(t, 1, v.itemAt(1, 2))
	assert.Equal(t, suggest.NoPointer, v.itemAt(2, 2))
	assert.Equal(t, suggest.NoPointer, v.itemAt(-1, 2))

	v.SetActive(3, true)
	assert.Equal(t, 2, v.itemAt(0, 2))
	assert.Equal(t, 3, v.itemAt(1, 2))

	v.SetActive(3, false)
	v.SetActive(4, true)
	assert.Equal(t, 4, v.itemAt(0, 2))
	assert.Equal(t, suggest.NoPointer, v.itemAt(1, 2))
}

func TestListView(t *testing.T) {
	styles := defaultListStyles()

	t.Run("hidden list renders nothing", func(t *testing.T) {
		v := newInputView("> ")
		v.Render(items("apple"))
		assert.Equal(t, "", v.listView(styles, 6, 20))
	})

	t.Run("visible empty list renders nothing", func(t *testing.T) {
		v := newInputView("> ")
		v.SetVisible(true)
		assert.Equal(t, "", v.listView(styles, 6, 20))
	})

	t.Run("marks the active row", func(t *testing.T) {
		v := newInputView("> ")
		v.Render(items("apple", "apricot"))
		v.SetVisible(true)
		v.SetActive(1, true)

		lines := strings.Split(v.listView(styles, 6, 20), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "  "))
		assert.Contains(t, lines[0], "apple")
		assert.Contains(t, lines[1], "> ")
		assert.Contains(t, lines[1], "apricot")
	})

	t.Run("truncates and pads to width", func(t *testing.T) {
		v := newInputView("> ")
		v.Render(items("a very long candidate that does not fit", "short"))
		v.SetVisible(true)

		lines := strings.Split(v.listView(styles, 6, 12), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Equal(t, 12, lipgloss.Width(line))
		}
		assert.Contains(t, lines[0], "…")
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		v := newInputView("> ")
		v.Render(items("two\nlines"))
		v.SetVisible(true)

		assert.Equal(t, 1, strings.Count(v.listView(styles, 6, 0), "\n")+1)
	})
}
