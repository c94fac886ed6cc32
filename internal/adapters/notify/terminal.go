package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
	"github.com/kamal-hamza/zx-cli/pkg/ui"
)

// Terminal prints notifications as styled lines
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
}

// NewTerminal creates a notifier writing to out. A quiet notifier drops
// info notifications and keeps the outcome.
func NewTerminal(out io.Writer, quiet bool) *Terminal {
	return &Terminal{out: out, quiet: quiet}
}

// Show renders one notification
func (t *Terminal) Show(n domain.Notification) {
	if t.quiet && n.Type == domain.NotifyInfo {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, Render(n))
}

// Render formats a notification the way the terminal notifier prints it
func Render(n domain.Notification) string {
	switch n.Type {
	case domain.NotifySuccess:
		return ui.FormatSuccess(n.Message)
	case domain.NotifyError:
		return ui.FormatError(n.Title + ": " + n.Message)
	default:
		return ui.FormatInfo(n.Message)
	}
}
