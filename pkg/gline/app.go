package gline

import (
	"errors"

	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// ErrInterrupted is returned when the user presses Ctrl+C
var ErrInterrupted = errors.New("interrupted by user")

// dispatchMsg carries a controller callback onto the bubbletea loop so that
// timer and network completions mutate the view on the same goroutine as
// key handling.
type dispatchMsg struct {
	fn func()
}

type terminateMsg struct{}

func terminate() tea.Msg {
	return terminateMsg{}
}

type interruptMsg struct{}

func interrupt() tea.Msg {
	return interruptMsg{}
}

type appState int

const (
	Active appState = iota
	Terminated
)

var interruptKey = key.NewBinding(key.WithKeys("ctrl+c"))

// rows above the list: the input line and the list's top border
const listRowOffset = 2

type appModel struct {
	ctrl    *suggest.Controller
	view    *inputView
	logger  *zap.Logger
	options Options

	result      string
	appState    appState
	interrupted bool
	width       int

	styles    listStyles
	indicator FetchIndicator
}

func initialModel(ctrl *suggest.Controller, view *inputView, logger *zap.Logger, options Options) appModel {
	if options.ListHeight <= 0 {
		options.ListHeight = NewOptions().ListHeight
	}
	view.textInput.Placeholder = options.Placeholder

	return appModel{
		ctrl:      ctrl,
		view:      view,
		logger:    logger,
		options:   options,
		appState:  Active,
		styles:    defaultListStyles(),
		indicator: NewFetchIndicator(),
	}
}

func (m appModel) Init() tea.Cmd {
	return m.indicator.Tick()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case dispatchMsg:
		msg.fn()
		return m, nil

	case fetchTickMsg:
		m.indicator.Update()
		switch {
		case m.ctrl.Pending():
			m.indicator.SetStatus(FetchStatusInFlight)
		case m.indicator.GetStatus() == FetchStatusInFlight:
			m.indicator.SetStatus(FetchStatusDone)
		}
		return m, m.indicator.Tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.view.textInput.Width = max(0, msg.Width-lipgloss.Width(m.view.textInput.Prompt)-1)
		return m, nil

	case terminateMsg:
		m.appState = Terminated
		return m, nil

	case interruptMsg:
		m.appState = Terminated
		m.interrupted = true
		return m, nil

	case tea.FocusMsg:
		m.ctrl.Focus()
		return m, nil

	case tea.BlurMsg:
		// leaving the terminal counts as clicking elsewhere
		m.ctrl.ClickOutside()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.view.textInput, cmd = m.view.textInput.Update(msg)
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, interruptKey) {
		m.result = ""
		return m, tea.Sequence(interrupt, tea.Quit)
	}

	k := suggest.KeyFromString(msg.String())
	preventDefault := m.ctrl.KeyDown(k)

	switch k {
	case suggest.KeyEnter:
		if preventDefault {
			m.ctrl.KeyUp(k)
			return m, nil
		}
		// nothing highlighted: enter submits the field
		m.result = m.view.Value()
		return m, tea.Sequence(terminate, tea.Quit)

	case suggest.KeyDown, suggest.KeyUp, suggest.KeyEscape:
		m.ctrl.KeyUp(k)
		return m, nil
	}

	var cmd tea.Cmd
	m.view.textInput, cmd = m.view.textInput.Update(msg)
	m.ctrl.KeyUp(k)
	return m, cmd
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if msg.Y == 0 {
		m.ctrl.Focus()
		return m, nil
	}

	if m.view.visible {
		if index := m.view.itemAt(msg.Y-listRowOffset, m.options.ListHeight); index != suggest.NoPointer {
			m.ctrl.ClickItem(index)
			return m, nil
		}
	}

	m.ctrl.ClickOutside()
	return m, nil
}

func (m appModel) View() string {
	// Once terminated, render nothing
	if m.appState == Terminated {
		return ""
	}

	input := m.view.textInput.View() + " " + m.indicator.View()

	list := m.view.listView(m.styles, m.options.ListHeight, max(0, m.width-2))
	if list == "" {
		return input
	}

	return input + "\n" + m.styles.box.Render(list)
}

// recordSelections persists each selection before handing it to onSelect.
// Recording failures are logged and do not stop the selection.
func recordSelections(onSelect func(suggest.Selection), recorder SelectionRecorder, logger *zap.Logger) func(suggest.Selection) {
	return func(selection suggest.Selection) {
		if err := recorder.Record(selection); err != nil {
			logger.Error("failed to record selection", zap.Error(err))
		}
		if onSelect != nil {
			onSelect(selection)
		}
	}
}

// Gline runs an interactive prompt whose suggestions come from cfg.Fetcher
// and returns the submitted text. cfg.View and cfg.Dispatch are provided by
// the prompt itself.
func Gline(prompt string, cfg suggest.Config, logger *zap.Logger, options Options) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var program *tea.Program
	view := newInputView(prompt)

	cfg.View = view
	cfg.Logger = logger
	cfg.Dispatch = func(fn func()) {
		program.Send(dispatchMsg{fn: fn})
	}
	if options.Recorder != nil {
		cfg.OnSelect = recordSelections(cfg.OnSelect, options.Recorder, logger)
	}

	ctrl, err := suggest.New(cfg)
	if err != nil {
		return "", err
	}
	defer ctrl.Close()

	programOptions := []tea.ProgramOption{tea.WithReportFocus()}
	if options.Mouse {
		programOptions = append(programOptions, tea.WithAltScreen(), tea.WithMouseCellMotion())
	}
	program = tea.NewProgram(initialModel(ctrl, view, logger, options), programOptions...)

	m, err := program.Run()
	if err != nil {
		return "", err
	}

	appModel, ok := m.(appModel)
	if !ok {
		logger.Error("Gline resulted in an unexpected app model")
		panic("Gline resulted in an unexpected app model")
	}

	if appModel.interrupted {
		return "", ErrInterrupted
	}

	return appModel.result, nil
}
