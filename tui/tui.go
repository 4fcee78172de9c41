package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/battlecore/cli"
	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/client"
	"github.com/nathoo/battlecore/engine/present"
	"github.com/nathoo/battlecore/engine/save"
	"github.com/nathoo/battlecore/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for a battle.
type Model struct {
	battle   *engine.Battle
	player   *client.Manual
	sel      *cli.Selector
	gate     *present.Timed // nil when the battle runs on an instant gate
	interval time.Duration

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)
	shown    int       // transcript lines moved into rawLines

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	over     bool // result lines have been shown
}

// tickMsg drives the battle clock.
type tickMsg time.Time

// New creates a TUI model for a battle whose player side is driven by p.
// gate may be nil; when set, its partially revealed text is shown while an
// action plays out.
func New(b *engine.Battle, p *client.Manual, gate *present.Timed, interval time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return Model{
		battle:   b,
		player:   p,
		sel:      cli.NewSelector(b, p),
		gate:     gate,
		interval: interval,
		input:    ti,
		history:  NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(b *engine.Battle, p *client.Manual, gate *present.Timed, interval time.Duration) error {
	m := New(b, p, gate, interval)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := prog.Run()
	return err
}

// Init shows the opening lines and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.introOutput(), m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) introOutput() tea.Cmd {
	return func() tea.Msg {
		return gameOutputMsg{lines: cli.IntroLines(m.battle)}
	}
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for battle output)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// Update handles messages (key presses, window resize, clock ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 3 // message box + status bar + input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tickMsg:
		m = m.step()
		if !m.over {
			cmds = append(cmds, m.tick())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// maxMicroSteps bounds the untimed steps taken in one tick.
const maxMicroSteps = 64

// step advances the battle by one clock tick. Steps that don't wait on
// presentation are run back to back so only text and animations take time.
func (m Model) step() Model {
	if m.battle.Finished() {
		return m.finish()
	}
	m.battle.Update(m.interval.Seconds())
	for i := 0; i < maxMicroSteps && m.idle(); i++ {
		m.battle.Update(0)
	}
	m = m.sync()
	if m.battle.Finished() {
		return m.finish()
	}
	m.input.Prompt = promptFor(m.sel)
	return m
}

// idle reports whether the battle can move on without waiting for time
// or the player.
func (m Model) idle() bool {
	if m.battle.Finished() || m.sel.Ready() {
		return false
	}
	return m.gate == nil || m.gate.Finished()
}

// sync moves transcript lines into the narrative once they have played.
func (m Model) sync() Model {
	if m.gate != nil && !m.gate.Finished() {
		return m
	}
	log := m.battle.Transcript()
	if m.shown >= len(log) {
		return m
	}
	lines := log[m.shown:]
	m.shown = len(log)
	return m.appendOutput(gameOutputMsg{lines: lines})
}

func (m Model) finish() Model {
	if m.over {
		return m
	}
	m.over = true
	if m.gate != nil {
		m.gate.Reset()
	}
	m = m.sync()
	m.input.Prompt = "> "
	return m.appendOutput(gameOutputMsg{lines: append(cli.ResultLines(m.battle), "Type /quit to leave.")})
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		m = m.sync()
		return m, nil
	}

	if m.battle.Finished() {
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"The battle is over."}, isSystem: true})
		return m, nil
	}
	if err := m.sel.Handle(input); err != nil {
		m = m.appendOutput(gameOutputMsg{input: input, lines: []string{err.Error()}, isSystem: true})
		return m, nil
	}
	var output []string
	if m.trace {
		output = append(output, m.formatTrace()...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	m = m.sync()
	m.input.Prompt = promptFor(m.sel)
	return m, nil
}

func promptFor(sel *cli.Selector) string {
	if p := sel.Prompt(); p != "" {
		return p
	}
	return "… "
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport, message box, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderMessageBox() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// renderMessageBox shows the line currently being revealed by the gate.
func (m Model) renderMessageBox() string {
	var text string
	if m.gate != nil && !m.gate.Finished() {
		if vis := m.gate.Visible(); len(vis) > 0 {
			text = vis[len(vis)-1]
		}
	}
	return styleMessageBox.Width(m.width).Render(text)
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/forfeit":
		if m.battle.Finished() {
			return []string{"The battle is over."}, false
		}
		m.battle.Forfeit(types.TeamPlayer)
		return []string{"You forfeited the battle."}, false

	case "/record":
		return m.cmdRecord(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdRecord(path string) []string {
	if path == "" {
		path = "battle.json"
	}

	data, err := save.Save(m.battle)
	if err != nil {
		return []string{fmt.Sprintf("Record failed: %v", err)}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Record failed: %v", err)}
	}

	return []string{fmt.Sprintf("Battle recorded to %s.", path)}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /record [file] - Write the battle record as JSON (default: battle.json)",
		"  /forfeit       - Give up the battle",
		"  /quit          - Exit",
		"  /help          - Show this help",
		"  /state         - Show both sides and the bag",
		"  /trace         - Toggle debug trace output",
		"",
		"Battle commands (numbers start at 1):",
		"  move N [target] (m) - Use move N, or just type N",
		"  item ID [target]    - Use an item from the bag",
		"  switch N (s)        - Send in party member N",
		"  run (r)             - Run from a wild battle",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	b := m.battle
	output := []string{fmt.Sprintf("Turn: %d  Phase: %s", b.Turns(), b.Phase())}
	for _, team := range []types.Team{types.TeamPlayer, types.TeamOpponent} {
		side := b.Arena.Side(team)
		for i, p := range side.Pokemon {
			if p == nil {
				continue
			}
			output = append(output, fmt.Sprintf("%s %d. %s Lv%d HP %d/%d %s",
				save.TeamName(team), i+1, b.Dex.PokemonName(p), p.Level, max(p.HP, 0), p.Stats.HP, p.Status))
		}
	}
	return output
}

func (m *Model) formatTrace() []string {
	b := m.battle
	line := fmt.Sprintf("[trace] phase=%s step=%s turn=%d", b.Phase(), b.Step(), b.Turns())
	if q := b.Queue(); q != nil {
		line += fmt.Sprintf(" queued=%d", q.Len())
	}
	return []string{line}
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
