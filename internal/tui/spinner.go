package tui

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var quitKey = key.NewBinding(
	key.WithKeys("ctrl+c"),
	key.WithHelp("ctrl+c", "cancel"),
)

type doneMsg struct{}

// SpinnerModel shows a spinner next to a title until the work finishes or
// the operator cancels.
type SpinnerModel struct {
	spinner     spinner.Model
	title       string
	styles      Styles
	done        bool
	interrupted bool
}

// NewSpinnerModel creates a spinner model.
func NewSpinnerModel(title string, styles Styles) SpinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Status))
	return SpinnerModel{spinner: s, title: title, styles: styles}
}

// Init starts the spinner (required by Bubble Tea)
func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages (required by Bubble Tea)
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if key.Matches(msg, quitKey) {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the spinner line (required by Bubble Tea)
func (m SpinnerModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	return m.spinner.View() + " " + m.styles.Muted.Render(m.title) + "\n"
}

// Interrupted reports whether the operator cancelled.
func (m SpinnerModel) Interrupted() bool {
	return m.interrupted
}

// RunWithSpinner runs fn while a spinner is shown on w. When w is not a
// terminal fn runs without any output. Cancelling from the keyboard
// cancels the context passed to fn.
func RunWithSpinner(ctx context.Context, w io.Writer, title string, fn func(context.Context) error) error {
	if !isTerminal(w) {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSpinnerModel(title, NewStyles(w)),
		tea.WithOutput(w),
		tea.WithContext(ctx),
	)

	result := make(chan error, 1)
	go func() {
		result <- fn(ctx)
		p.Send(doneMsg{})
	}()

	final, runErr := p.Run()
	if m, ok := final.(SpinnerModel); runErr != nil || (ok && m.Interrupted()) {
		cancel()
	}
	return <-result
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
