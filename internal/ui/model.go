package ui

import (
	"strings"
	"time"

	"creepy-pasta/internal/game"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	blinkInterval = 500 * time.Millisecond
	hintText      = "Type answers and press Enter. Type 'exit' to quit."
)

type blinkMsg struct{}

var (
	bgColor     = lipgloss.Color("#0F0F14")
	textColor   = lipgloss.Color("#E6E6E6")
	inputBG     = lipgloss.Color("#1E1E23")
	hintColor   = lipgloss.Color("#787878")
	deathColor  = lipgloss.Color("#C0392B")
	noticeColor = lipgloss.Color("#FFA500")
	echoColor   = lipgloss.Color("#8A8A8A")
)

type Model struct {
	session *game.Session

	input      string   // Current input
	history    []string // Submitted lines
	historyIdx int
	cursorOn   bool
	quitting   bool

	width, height int
	viewportReady bool
}

func NewModel(session *game.Session) Model {
	return Model{
		session:  session,
		history:  []string{},
		cursorOn: true,
	}
}

func blink() tea.Cmd {
	return tea.Tick(blinkInterval, func(time.Time) tea.Msg { return blinkMsg{} })
}

func (m Model) Init() tea.Cmd {
	return blink()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewportReady = true
		return m, nil

	case blinkMsg:
		if m.quitting {
			return m, nil
		}
		m.cursorOn = !m.cursorOn
		return m, blink()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input)
			m.input = ""

			if strings.EqualFold(text, "exit") {
				m.quitting = true
				return m, tea.Quit
			}

			if text != "" {
				m.history = append(m.history, text)
			}
			m.historyIdx = len(m.history)

			// Blank lines are submitted too: they fall through to the
			// scene's fallback like any other unmatched answer.
			m.session.SubmitInput(text)
			return m, nil

		case tea.KeyUp:
			if m.historyIdx > 0 {
				m.historyIdx--
				m.input = m.history[m.historyIdx]
			}
		case tea.KeyDown:
			if m.historyIdx < len(m.history) {
				m.historyIdx++
				if m.historyIdx == len(m.history) {
					m.input = ""
				} else {
					m.input = m.history[m.historyIdx]
				}
			}
		case tea.KeyBackspace:
			if r := []rune(m.input); len(r) > 0 {
				m.input = string(r[:len(r)-1])
			}
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeySpace:
			m.input += " "
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.viewportReady {
		return "Initializing..."
	}

	screenStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Background(bgColor).
		Foreground(textColor).
		Align(lipgloss.Left, lipgloss.Top)

	header := lipgloss.NewStyle().
		Width(m.width).
		Bold(true).
		PaddingLeft(1).
		Render(m.session.Title())

	inputLine := "> " + m.input
	if m.cursorOn {
		inputLine += "█"
	}
	inputBox := lipgloss.NewStyle().
		Width(max(m.width-4, 1)).
		Background(inputBG).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		Render(inputLine)

	hint := lipgloss.NewStyle().Foreground(hintColor).PaddingLeft(1).Render(hintText)

	totalFixedHeight := lipgloss.Height(header) + lipgloss.Height(inputBox) + lipgloss.Height(hint)
	logHeight := max(m.height-totalFixedHeight, 0)

	contentWidth := max(m.width-2, 1)
	visible := visibleLines(m.session.Lines(), contentWidth, logHeight)

	logArea := lipgloss.NewStyle().
		Width(m.width).
		Height(logHeight).
		Padding(0, 1).
		Render(strings.Join(visible, "\n"))

	return screenStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			logArea,
			inputBox,
			hint,
		),
	)
}

// visibleLines walks the log backwards, wrapping each entry to width, until
// height rows are filled.
func visibleLines(lines []string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	wrapStyle := lipgloss.NewStyle().Width(width)
	var out []string
	for i := len(lines) - 1; i >= 0; i-- {
		rendered := wrapStyle.Render(styleLine(lines[i]))
		out = append(strings.Split(rendered, "\n"), out...)
		if len(out) >= height {
			break
		}
	}
	if len(out) > height {
		out = out[len(out)-height:]
	}
	return out
}

func styleLine(text string) string {
	switch {
	case strings.HasPrefix(text, "> "):
		return lipgloss.NewStyle().Foreground(echoColor).Render(text)
	case strings.Contains(text, "died"),
		strings.Contains(text, "passed away"),
		strings.Contains(text, "RIP!"):
		return lipgloss.NewStyle().Foreground(deathColor).Bold(true).Render(text)
	case strings.HasPrefix(text, "✅"),
		strings.HasPrefix(text, "⚠️"),
		strings.HasPrefix(text, "🔄"),
		strings.HasPrefix(text, "["):
		return lipgloss.NewStyle().Foreground(noticeColor).Render(text)
	}
	return text
}
