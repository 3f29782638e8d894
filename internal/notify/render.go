package notify

import (
	"fmt"
	"io"
	"sync"

	"charm.land/lipgloss/v2"
)

var (
	badge = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	levelStyles = map[Level]lipgloss.Style{
		Info:    badge.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3B82F6")),
		Success: badge.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#10B981")),
		Error:   badge.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#EF4444")),
		Loading: badge.Foreground(lipgloss.Color("#1F2937")).Background(lipgloss.Color("#F59E0B")),
	}
	messageStyle = lipgloss.NewStyle().PaddingLeft(1)
	fadedStyle   = lipgloss.NewStyle().PaddingLeft(1).Faint(true)
)

// Renderer writes notifications to a terminal.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewRenderer(w io.Writer) *Renderer { return &Renderer{w: w} }

// Attach prints every shown notification of s, and a faded line when a loading
// notification is dismissed.
func (r *Renderer) Attach(s *Sink) {
	s.Subscribe(func(e Event) {
		switch {
		case e.Kind == Shown:
			r.Print(e.Notification)
		case e.Notification.Level == Loading:
			r.mu.Lock()
			fmt.Fprintln(r.w, fadedStyle.Render("done"))
			r.mu.Unlock()
		}
	})
}

func (r *Renderer) Print(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, Format(n))
}

// Format renders one notification as a styled line.
func Format(n Notification) string {
	st, ok := levelStyles[n.Level]
	if !ok {
		st = levelStyles[Info]
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, st.Render(n.Level.String()), messageStyle.Render(n.Message))
}
