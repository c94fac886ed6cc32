package notify

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

type notificationMsg domain.Notification

// progressModel shows a spinner next to the current phase and keeps the
// completed phases above it
type progressModel struct {
	spinner spinner.Model
	title   string
	current string
	done    []string
	final   string
}

func newProgressModel(title string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = ui.StylePrimary
	return progressModel{spinner: s, title: title}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationMsg:
		n := domain.Notification(msg)
		if n.Type == domain.NotifyInfo {
			if m.current != "" {
				m.done = append(m.done, m.current)
			}
			m.current = n.Message
			return m, nil
		}
		if m.current != "" && n.Type == domain.NotifySuccess {
			m.done = append(m.done, m.current)
		}
		m.current = ""
		m.final = Render(n)
		return m, tea.Quit

	case tea.KeyMsg:
		// The export keeps running; only the display goes away
		if msg.String() == "ctrl+c" {
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

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(ui.StyleHeader.Render(m.title))
	b.WriteString("\n")
	for _, step := range m.done {
		b.WriteString(ui.StyleMuted.Render("  " + ui.IconSuccess + " " + step))
		b.WriteString("\n")
	}
	if m.current != "" {
		b.WriteString("  " + m.spinner.View() + " " + m.current + "\n")
	}
	if m.final != "" {
		b.WriteString(m.final + "\n")
	}
	return b.String()
}

// Progress is a notifier backed by a bubbletea program
type Progress struct {
	program *tea.Program
	done    chan struct{}
	err     error
}

// NewProgress starts the progress display on out. Input is not read, so
// the display never competes with the caller for the terminal.
func NewProgress(title string, out io.Writer) *Progress {
	p := &Progress{
		program: tea.NewProgram(newProgressModel(title), tea.WithOutput(out), tea.WithInput(nil)),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		_, p.err = p.program.Run()
	}()
	return p
}

// Show forwards the notification to the display
func (p *Progress) Show(n domain.Notification) {
	select {
	case <-p.done:
	default:
		p.program.Send(notificationMsg(n))
	}
}

// Wait blocks until the display has rendered the outcome, or gives up
// after timeout and tears the display down
func (p *Progress) Wait(timeout time.Duration) error {
	select {
	case <-p.done:
	case <-time.After(timeout):
		p.program.Quit()
		<-p.done
	}
	return p.err
}
