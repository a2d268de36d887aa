package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/muesli/reflow/wordwrap"
)

// wsFrame matches the server's JSON frame format.
type wsFrame struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Command string         `json:"command,omitempty"`
}

type serverFrameMsg struct {
	frame wsFrame
}

type disconnectedMsg struct {
	err error
}

var (
	gameStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // amber
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("214"))

	statusOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// clientUI is the BubbleTea model for the terminal client.
// https://github.com/charmbracelet/bubbletea
type clientUI struct {
	conn     *websocket.Conn
	writeMu  *sync.Mutex
	host     string
	viewport viewport.Model
	input    textinput.Model

	lines      []string
	playerName string
	loggedIn   bool
	connected  bool
	ready      bool
	width      int
	height     int
	err        error
}

func newClientUI(conn *websocket.Conn, host string) clientUI {
	ti := textinput.New()
	ti.Placeholder = "connect <name> <password>, create <name> <password>, or connect guest"
	ti.Prompt = promptStyle.Render("> ")
	ti.CharLimit = 512
	ti.Focus()

	vp := viewport.New(80, 24)
	vp.MouseWheelEnabled = true

	return clientUI{
		conn:      conn,
		writeMu:   &sync.Mutex{},
		host:      host,
		input:     ti,
		viewport:  vp,
		connected: true,
	}
}

func (m clientUI) Init() tea.Cmd {
	return textinput.Blink
}

func (m clientUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - 4
		m.viewport.Height = m.height - 4
		m.input.Width = m.width - 8
		m.ready = true
		m.redraw()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.Reset()
			if !m.connected {
				return m, tea.Quit
			}
			m.send(line)
		}

	case serverFrameMsg:
		m.apply(msg.frame)
		m.redraw()

	case disconnectedMsg:
		m.connected = false
		m.err = msg.err
		m.lines = append(m.lines, errorStyle.Render("Connection lost. Press Enter to exit."))
		m.redraw()
	}

	m.input, tiCmd = m.input.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// send writes one frame to the server. Before login the line goes out
// as a login frame, after that as a game command.
func (m *clientUI) send(line string) {
	kind := "command"
	if !m.loggedIn {
		kind = "login"
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	m.conn.WriteJSON(wsFrame{Type: kind, Command: line})
}

// apply folds a server frame into the transcript.
func (m *clientUI) apply(frame wsFrame) {
	switch frame.Type {
	case "welcome":
		m.lines = append(m.lines, systemStyle.Render(frame.Text))
	case "login":
		m.loggedIn = true
		if name, ok := frame.Data["player_name"].(string); ok {
			m.playerName = name
		}
		m.input.Placeholder = "Type a command..."
		if frame.Text != "" {
			m.lines = append(m.lines, systemStyle.Render(frame.Text))
		}
	case "error":
		m.lines = append(m.lines, errorStyle.Render(frame.Text))
	case "shutdown":
		m.connected = false
		m.lines = append(m.lines, errorStyle.Render(frame.Text))
		m.lines = append(m.lines, errorStyle.Render("Server closed the connection. Press Enter to exit."))
	default:
		// "text" and "message" frames are the game itself.
		if frame.Text != "" {
			m.lines = append(m.lines, frame.Text)
		}
	}
}

func (m *clientUI) redraw() {
	width := m.viewport.Width - 2
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("WAYFARER") + "\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n")
	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, width) + "\n")
	}
	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

func (m clientUI) statusBar() string {
	style := statusBarStyle
	state := fmt.Sprintf(" %s ", m.host)
	switch {
	case !m.connected:
		style = statusOffStyle
		state = " disconnected "
	case m.playerName != "":
		state = fmt.Sprintf(" %s @ %s ", m.playerName, m.host)
	case !m.loggedIn:
		state = fmt.Sprintf(" %s (not logged in) ", m.host)
	}
	bar := style.Render(state)
	hint := systemStyle.Render("  Ctrl+C to quit")
	return bar + hint
}

func (m clientUI) View() string {
	if !m.ready {
		return "\n  Connecting..."
	}

	return gameStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		separatorStyle.Render(strings.Repeat("─", m.viewport.Width)),
		m.input.View(),
		m.statusBar(),
	))
}
