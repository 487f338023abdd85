package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lhhunghimself/504-week7/internal/engine"
)

const helpText = `Commands:
  n / s / e / w        move one cell
  go <direction>       same, full names work too
  answer <text>        answer the pending quiz question
  hint                 reveal a hint (costs one move)
  look                 describe the current cell
  map                  draw the map (fog of war)
  status               show run progress
  save                 save the game
  scores               show the leaderboard for this maze
  help                 this text
  quit                 save and exit`

// sessionModel is the bubbletea model for an interactive run.
type sessionModel struct {
	eng    *engine.Engine
	handle string
	gameID string

	textinput  textinput.Model
	viewport   viewport.Model
	styles     Styles
	transcript []string
	width      int
	height     int
	ready      bool
	quitting   bool
}

func newSessionModel(eng *engine.Engine, handle, gameID string) *sessionModel {
	ti := textinput.New()
	ti.Placeholder = "command (help for a list)"
	ti.Prompt = "> "
	ti.CharLimit = 120
	ti.Focus()

	m := &sessionModel{
		eng:       eng,
		handle:    handle,
		gameID:    gameID,
		textinput: ti,
		styles:    defaultStyles(),
	}
	m.appendView(eng.View(), nil)
	return m
}

func (m *sessionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - inputHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m.quit()
		case tea.KeyEnter:
			line := strings.TrimSpace(m.textinput.Value())
			m.textinput.SetValue("")
			if line == "" {
				return m, nil
			}
			return m.dispatch(line)
		}
	}

	var tiCmd, vpCmd tea.Cmd
	m.textinput, tiCmd = m.textinput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// dispatch parses one input line into an engine command and appends the
// result to the transcript.
func (m *sessionModel) dispatch(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	m.transcript = append(m.transcript, m.styles.Prompt.Render("> "+line))

	switch verb {
	case "help":
		m.transcript = append(m.transcript, m.styles.Help.Render(helpText))
		m.refreshViewport()
		return m, nil
	case "quit", "exit":
		return m.quit()
	}

	out, err := m.eng.Handle(engine.Command{Verb: verb, Args: args})
	if err != nil {
		m.transcript = append(m.transcript, m.styles.Error.Render("error: "+err.Error()))
		m.refreshViewport()
		return m, nil
	}
	m.appendOutput(verb, out)
	m.refreshViewport()

	if out.View.IsComplete && verb != "scores" && verb != "map" {
		// Leave the transcript up; the player quits when done reading.
		m.transcript = append(m.transcript,
			m.styles.Success.Render("Type 'scores' for the leaderboard or 'quit' to exit."))
		m.refreshViewport()
	}
	return m, nil
}

func (m *sessionModel) appendOutput(verb string, out *engine.Output) {
	for _, msg := range out.Messages {
		style := m.styles.Message
		switch {
		case strings.Contains(msg, "Correct") || strings.Contains(msg, "complete"):
			style = m.styles.Success
		case strings.Contains(msg, "Incorrect") || strings.Contains(msg, "Blocked") ||
			strings.Contains(msg, "Unknown") || strings.Contains(msg, "Invalid"):
			style = m.styles.Error
		}
		if verb == "map" {
			m.transcript = append(m.transcript, m.styles.MapBlock.Render(msg))
			continue
		}
		m.transcript = append(m.transcript, style.Render(msg))
	}

	// Movement and look show the room; everything else keeps the
	// transcript compact.
	switch verb {
	case "look", "n", "s", "e", "w", "go", "answer":
		m.appendView(out.View, out)
	}
}

func (m *sessionModel) appendView(view engine.GameView, out *engine.Output) {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(view.CellTitle))
	b.WriteByte('\n')
	b.WriteString(m.styles.Room.Render(view.CellDescription))
	b.WriteByte('\n')
	if view.PendingPuzzle != nil {
		b.WriteString(m.styles.Puzzle.Render(
			fmt.Sprintf("[%s] %s", view.PendingPuzzle.Title, view.PendingPuzzle.Prompt)))
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Moves.Render(
		fmt.Sprintf("Exits: %s   Moves: %d", strings.Join(view.AvailableMoves, " "), view.MoveCount)))
	m.transcript = append(m.transcript, b.String())
}

func (m *sessionModel) quit() (tea.Model, tea.Cmd) {
	// Best effort save on the way out.
	if _, err := m.eng.Handle(engine.Command{Verb: "save"}); err != nil {
		logger.Warn("save on quit failed", zap.Error(err))
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *sessionModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *sessionModel) View() string {
	if m.quitting {
		return fmt.Sprintf("Saved game %s. See you next run, %s.\n", m.gameID, m.handle)
	}
	if !m.ready {
		return "Loading maze..."
	}
	return m.viewport.View() + "\n\n" + m.textinput.View()
}
