// Package tui provides the interactive chat terminal UI for Sahayak.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dukaan-dev/sahayak/internal/api"
	"github.com/dukaan-dev/sahayak/internal/interpreter"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	okStyle = lipgloss.NewStyle().
			Foreground(successColor)

	askStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	failStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// line is one entry in the chat transcript.
type line struct {
	speaker string // "you" or "sahayak"
	text    string
	tone    string // "ok", "ask", "fail", ""
}

// App is the chat TUI application model.
type App struct {
	service  *api.Service
	input    textinput.Model
	viewport viewport.Model
	lines    []line
	pending  string // what sahayak is waiting for, for the status bar
	width    int
	height   int
	busy     bool
}

// New creates a new chat application over the given service.
func New(service *api.Service) *App {
	ti := textinput.New()
	ti.Placeholder = "Try: add 2 milk | sales report today | learn chaya means tea"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	vp := viewport.New(80, 20)

	return &App{
		service:  service,
		input:    ti,
		viewport: vp,
		lines: []line{
			{speaker: "sahayak", text: "Namaste! Tell me what to do, in your own words.", tone: "ok"},
		},
	}
}

// Run starts the chat application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type replyMsg struct {
	reply *api.Reply
}

type errMsg struct {
	err error
}

// ask runs one turn against the service off the UI goroutine.
func (a *App) ask(utterance string) tea.Cmd {
	return func() tea.Msg {
		reply, err := a.service.Ask(utterance)
		if err != nil {
			return errMsg{err: err}
		}
		return replyMsg{reply: reply}
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit

		case "up", "pgup":
			a.viewport.LineUp(1)

		case "down", "pgdown":
			a.viewport.LineDown(1)

		case "enter":
			utterance := strings.TrimSpace(a.input.Value())
			if utterance == "" || a.busy {
				return a, nil
			}
			a.input.SetValue("")
			a.busy = true
			a.lines = append(a.lines, line{speaker: "you", text: utterance})
			a.refreshTranscript()
			return a, a.ask(utterance)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 7
		a.refreshTranscript()

	case replyMsg:
		a.busy = false
		a.absorb(msg.reply)
		a.refreshTranscript()

	case errMsg:
		a.busy = false
		a.pending = ""
		a.lines = append(a.lines, line{speaker: "sahayak", text: "Error: " + msg.err.Error(), tone: "fail"})
		a.refreshTranscript()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// absorb folds a service reply into the transcript and status bar.
func (a *App) absorb(reply *api.Reply) {
	a.pending = ""
	switch reply.Outcome {
	case interpreter.OutcomeCommand:
		tone := "ok"
		if reply.Result != nil && !reply.Result.Success {
			tone = "fail"
		}
		a.lines = append(a.lines, line{speaker: "sahayak", text: reply.Message, tone: tone})
	case interpreter.OutcomePrompt:
		a.pending = "waiting for a number"
		a.lines = append(a.lines, line{speaker: "sahayak", text: reply.Message, tone: "ask"})
	case interpreter.OutcomeSuggestion:
		a.pending = "waiting for yes/no"
		a.lines = append(a.lines, line{speaker: "sahayak", text: reply.Message + " (yes/no)", tone: "ask"})
	case interpreter.OutcomeCancelled:
		a.lines = append(a.lines, line{speaker: "sahayak", text: reply.Message, tone: ""})
	default:
		a.lines = append(a.lines, line{speaker: "sahayak", text: reply.Message, tone: "fail"})
	}
}

// refreshTranscript re-renders the chat into the viewport and scrolls to
// the bottom.
func (a *App) refreshTranscript() {
	var b strings.Builder
	for _, l := range a.lines {
		if l.speaker == "you" {
			fmt.Fprintf(&b, "%s %s\n", userStyle.Render("you>"), l.text)
			continue
		}
		style := okStyle
		switch l.tone {
		case "ask":
			style = askStyle
		case "fail":
			style = failStyle
		case "":
			style = helpStyle
		}
		fmt.Fprintf(&b, "%s %s\n", style.Render("sahayak>"), l.text)
	}
	a.viewport.SetContent(b.String())
	a.viewport.GotoBottom()
}

// View implements tea.Model
func (a *App) View() string {
	title := titleStyle.Render("Sahayak — POS Assistant")

	status := "ready"
	if a.busy {
		status = "thinking..."
	} else if a.pending != "" {
		status = a.pending
	}
	bar := statusBarStyle.Width(max(0, a.width)).Render(status)

	help := helpStyle.Render("enter: send • ↑/↓: scroll • esc: quit")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s",
		title,
		a.viewport.View(),
		bar,
		inputBoxStyle.Render(a.input.View()),
		help,
	)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
