package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tudu/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

// Styles are bound to a renderer so that output written to a pipe or a
// buffer carries no escape codes.
type Styles struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	ID      lipgloss.Style
	Field   lipgloss.Style
	Muted   lipgloss.Style
	Overdue lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style

	r *lipgloss.Renderer
}

// New builds the palette for r.
func New(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Heading: r.NewStyle().Bold(true).Underline(true),
		Label:   r.NewStyle().Bold(true).Foreground(ColorGreen),
		ID:      r.NewStyle().Foreground(ColorGray),
		Field:   r.NewStyle().Foreground(ColorBlue),
		Muted:   r.NewStyle().Foreground(ColorGray).Italic(true),
		Overdue: r.NewStyle().Bold(true).Foreground(ColorRed),
		Error:   r.NewStyle().Bold(true).Foreground(ColorRed),
		Hint:    r.NewStyle().Foreground(ColorGray).Italic(true),
		r:       r,
	}
}

// ProjectStyle renders a project name in its own color, if it has one.
func (s *Styles) ProjectStyle(color *string) lipgloss.Style {
	base := s.r.NewStyle().Bold(true)
	if color == nil || *color == "" {
		return base.Foreground(ColorMagenta)
	}
	return base.Foreground(lipgloss.Color(*color))
}

// StatusStyle returns a color-coded style for the given todo status.
func (s *Styles) StatusStyle(status model.TodoStatus) lipgloss.Style {
	base := s.r.NewStyle().Bold(true)

	switch status {
	case model.StatusPending:
		return base.Foreground(ColorBlue)
	case model.StatusInProgress:
		return base.Foreground(ColorYellow)
	case model.StatusDone:
		return base.Foreground(ColorGreen)
	case model.StatusCancelled:
		return base.Foreground(ColorGray).Strikethrough(true)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for the given numeric priority.
// Anything above urgent is drawn like urgent.
func (s *Styles) PriorityStyle(priority int) lipgloss.Style {
	base := s.r.NewStyle().Bold(true)

	switch {
	case priority >= model.PriorityUrgent:
		return base.Foreground(ColorRed)
	case priority == model.PriorityHigh:
		return base.Foreground(ColorOrange)
	case priority == model.PriorityMedium:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}
