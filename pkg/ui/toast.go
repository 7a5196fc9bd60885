package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/nav"
)

// ToastTTL is how long a toast stays on screen.
const ToastTTL = 3 * time.Second

// maxToasts caps the stack; the oldest toast is dropped first.
const maxToasts = 3

type toast struct {
	seq    int
	notice nav.Notice
}

// toastExpiredMsg removes every toast up to and including seq.
type toastExpiredMsg struct{ seq int }

// toasts collects navigator notices. It is shared by pointer between the
// navigator and the model, so notices raised during Update show up in the
// same frame.
type toasts struct {
	mu      sync.Mutex
	seq     int
	items   []toast
	pending []int
}

// Notify implements nav.Notifier.
func (t *toasts) Notify(n nav.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.items = append(t.items, toast{seq: t.seq, notice: n})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
	t.pending = append(t.pending, t.seq)
	debug.Log("toast %d: %s %s", t.seq, n.Title, n.Message)
}

// expireCmds returns one expiry timer per toast added since the last call.
func (t *toasts) expireCmds() []tea.Cmd {
	t.mu.Lock()
	defer t.mu.Unlock()
	cmds := make([]tea.Cmd, 0, len(t.pending))
	for _, seq := range t.pending {
		cmds = append(cmds, tea.Tick(ToastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		}))
	}
	t.pending = t.pending[:0]
	return cmds
}

func (t *toasts) expire(seq int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.items[:0]
	for _, it := range t.items {
		if it.seq > seq {
			kept = append(kept, it)
		}
	}
	t.items = kept
}

// current returns the visible notices, oldest first.
func (t *toasts) current() []nav.Notice {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]nav.Notice, len(t.items))
	for i, it := range t.items {
		out[i] = it.notice
	}
	return out
}

func (m Model) renderToasts() string {
	var lines []string
	for _, n := range m.toasts.current() {
		text := n.Message
		if n.Title != "" {
			text = n.Title + ": " + n.Message
		}
		style := m.theme.Info
		prefix := "✓ "
		if n.Level == nav.NoticeError {
			style = m.theme.Error
			prefix = "✗ "
		}
		lines = append(lines, style.Render(truncate(prefix+text, max(m.width-2, 10))))
	}
	return joinLines(lines)
}
