package gline

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FetchStatus represents the state of the suggestion endpoint as seen by
// the prompt.
type FetchStatus int

const (
	// FetchStatusIdle means nothing has been requested yet
	FetchStatusIdle FetchStatus = iota
	// FetchStatusInFlight means a fetch is scheduled or running
	FetchStatusInFlight
	// FetchStatusDone means the last fetch finished
	FetchStatusDone
)

const statusGlyph = "●"

// Color cycle for in-flight animation: blue → purple → orange → yellow → back
var inFlightColors = []lipgloss.Color{
	"12", "33", "57", "93", "129", "208", "214", "220",
	"214", "208", "129", "93", "57", "33",
}

// fetchTickMsg advances the in-flight animation
type fetchTickMsg struct{}

// FetchIndicator is a one-cell activity light drawn next to the list.
type FetchIndicator struct {
	status     FetchStatus
	frameIndex int
}

func NewFetchIndicator() FetchIndicator {
	return FetchIndicator{status: FetchStatusIdle}
}

// Tick returns a command that sends fetchTickMsg after the animation interval
func (i FetchIndicator) Tick() tea.Cmd {
	return tea.Tick(time.Second/8, func(t time.Time) tea.Msg {
		return fetchTickMsg{}
	})
}

func (i *FetchIndicator) SetStatus(status FetchStatus) {
	i.status = status
}

func (i FetchIndicator) GetStatus() FetchStatus {
	return i.status
}

// Update advances the animation frame
func (i *FetchIndicator) Update() {
	i.frameIndex = (i.frameIndex + 1) % len(inFlightColors)
}

func (i FetchIndicator) View() string {
	switch i.status {
	case FetchStatusInFlight:
		color := inFlightColors[i.frameIndex]
		return lipgloss.NewStyle().Foreground(color).Render(statusGlyph)
	case FetchStatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(statusGlyph)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(statusGlyph)
	}
}
