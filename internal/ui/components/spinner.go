package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
)

// LoadingSpinner is a spinner with a label and the time since Start.
type LoadingSpinner struct {
	started time.Time
	now     func() time.Time
	label   string
	spinner spinner.Model
	style   lipgloss.Style
}

// NewSpinner creates a new loading spinner with the given label.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{
		spinner: s,
		label:   label,
		now:     time.Now,
		style:   lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Update handles spinner tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// Start resets the elapsed time and relabels the spinner. The returned
// command keeps it animating.
func (l *LoadingSpinner) Start(label string) tea.Cmd {
	l.label = label
	l.started = l.now()
	return l.spinner.Tick
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// View renders the spinner, its label and, once started, the elapsed time.
func (l LoadingSpinner) View() string {
	text := l.label
	if !l.started.IsZero() {
		text = fmt.Sprintf("%s %.1fs", text, l.now().Sub(l.started).Seconds())
	}
	return l.spinner.View() + " " + l.style.Render(text)
}

// RenderSpinnerCentered renders a spinner centered in a given width and height.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
