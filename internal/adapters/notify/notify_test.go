package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

func info(msg string) domain.Notification {
	return domain.Notification{Title: "Zip Export", Message: msg, Type: domain.NotifyInfo, Duration: 2 * time.Second}
}

func TestTerminal_Show(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.Show(info("Creating archive..."))
	term.Show(domain.Notification{Title: "Export Error", Message: "No active viewport", Type: domain.NotifyError})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Creating archive...")
	assert.Contains(t, lines[1], "Export Error: No active viewport")
}

func TestTerminal_Quiet(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)

	term.Show(info("Creating archive..."))
	term.Show(domain.Notification{Message: "Archive saved as report.zip", Type: domain.NotifySuccess})

	out := buf.String()
	assert.NotContains(t, out, "Creating archive")
	assert.Contains(t, out, "Archive saved as report.zip")
}

func TestProgressModel_Update(t *testing.T) {
	var m tea.Model = newProgressModel("Zip Export")

	m, cmd := m.Update(notificationMsg(info("Resolving active viewport...")))
	assert.Nil(t, cmd)
	m, _ = m.Update(notificationMsg(info("Extracting metadata...")))

	view := m.View()
	assert.Contains(t, view, "Resolving active viewport...")
	assert.Contains(t, view, "Extracting metadata...")

	m, cmd = m.Update(notificationMsg(domain.Notification{Message: "Archive saved as report.zip", Type: domain.NotifySuccess}))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	pm := m.(progressModel)
	assert.Empty(t, pm.current)
	assert.Len(t, pm.done, 2)
	assert.Contains(t, pm.View(), "Archive saved as report.zip")
}

func TestProgressModel_ErrorKeepsFailedStepOut(t *testing.T) {
	var m tea.Model = newProgressModel("Zip Export")
	m, _ = m.Update(notificationMsg(info("Capturing viewport image...")))
	m, _ = m.Update(notificationMsg(domain.Notification{Title: "Export Error", Message: "Capture failed", Type: domain.NotifyError}))

	pm := m.(progressModel)
	assert.Empty(t, pm.done)
	assert.Contains(t, pm.View(), "Capture failed")
}
