package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markis/gh-coach/internal/coach"
)

var cardColors = map[coach.CardKind]lipgloss.Color{
	coach.KindRebuttal:    lipgloss.Color("11"),
	coach.KindComparison:  lipgloss.Color("12"),
	coach.KindQuestion:    lipgloss.Color("10"),
	coach.KindExplanation: lipgloss.Color("14"),
	coach.KindCode:        lipgloss.Color("13"),
	coach.KindFollowUp:    lipgloss.Color("10"),
}

// CardRenderer prints reply cards, boxed unless plain text is requested.
type CardRenderer struct {
	out       io.Writer
	plainText bool
	width     int
}

func NewCardRenderer(out io.Writer, usePlainText bool, width int) *CardRenderer {
	return &CardRenderer{out: out, plainText: usePlainText, width: width}
}

// Render prints every card in order.
func (r *CardRenderer) Render(cards []coach.Card) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(r.out, "No suggestions.")
		return err
	}

	blocks := make([]string, 0, len(cards))
	for _, c := range cards {
		blocks = append(blocks, r.card(c))
	}

	sep := "\n"
	if r.plainText {
		sep = "\n\n"
	}
	_, err := fmt.Fprintln(r.out, strings.Join(blocks, sep))
	return err
}

func (r *CardRenderer) card(c coach.Card) string {
	content := strings.TrimRight(c.Content, "\n")
	if r.plainText {
		return c.Kind.Title() + ":\n" + content
	}

	color, ok := cardColors[c.Kind]
	if !ok {
		color = lipgloss.Color("7")
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(c.Kind.Title())
	if c.Language != "" {
		title += lipgloss.NewStyle().Faint(true).Render(" (" + c.Language + ")")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
	if r.width > 0 {
		box = box.Width(r.width)
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
