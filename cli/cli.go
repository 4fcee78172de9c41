// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for a line-based battle.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/client"
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/save"
	"github.com/nathoo/battlecore/types"
)

// maxTicks bounds how long the CLI drives the battle between prompts.
const maxTicks = 100000

// CLI handles terminal interaction with the player.
type CLI struct {
	Battle    *engine.Battle
	Player    *client.Manual
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	sel   *Selector
	shown int // transcript lines already printed
}

// New creates a CLI for a battle whose player side is driven by p.
func New(b *engine.Battle, p *client.Manual) *CLI {
	return &CLI{
		Battle: b,
		Player: p,
		In:     os.Stdin,
		Out:    os.Stdout,
		sel:    NewSelector(b, p),
	}
}

// Run plays the battle to the end, or until input runs out or the player
// quits: advance → prompt → input → dispatch.
func (c *CLI) Run() {
	c.printIntro()

	scanner := bufio.NewScanner(c.In)
	for {
		c.advance()
		if c.Battle.Finished() {
			c.printResult()
			return
		}

		prompt := c.sel.Prompt()
		if prompt == "" {
			prompt = "> "
		}
		c.print(prompt)
		if !scanner.Scan() {
			c.printLine("")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}
		c.handleCommand(input)
	}
}

// advance ticks the battle until it needs the player or ends.
func (c *CLI) advance() {
	for i := 0; i < maxTicks && !c.Battle.Finished() && !c.sel.Ready(); i++ {
		c.Battle.Update(0)
		c.flush()
	}
	c.flush()
	if c.Trace {
		c.printTrace()
	}
}

func (c *CLI) handleCommand(input string) {
	if err := c.sel.Handle(input); err != nil {
		c.printSystem(err.Error())
	}
	c.flush()
}

// handleMeta dispatches meta-commands. Returns true if the CLI should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/forfeit":
		c.Battle.Forfeit(types.TeamPlayer)
		c.flush()
		c.printSystem("You forfeited the battle.")

	case "/record":
		c.cmdRecord(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdRecord(path string) {
	if path == "" {
		path = "battle.json"
	}
	data, err := save.Save(c.Battle)
	if err != nil {
		c.printSystem(fmt.Sprintf("Record failed: %v", err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Record failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Battle recorded to %s.", path))
}

func (c *CLI) cmdHelp() {
	help := []string{
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
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	b := c.Battle
	c.printSystem(fmt.Sprintf("Turn: %d  Phase: %s", b.Turns(), b.Phase()))
	for _, side := range []*party.Party{b.Arena.Player, b.Arena.Opponent} {
		for i, p := range side.Pokemon {
			if p == nil {
				continue
			}
			marker := " "
			for _, a := range side.Active {
				if a.Slot == i {
					marker = "*"
				}
			}
			c.printSystem(fmt.Sprintf("%s %s %d. %s", save.TeamName(side.Team), marker, i+1, c.describe(p)))
		}
	}
	if len(b.Arena.Player.Bag) > 0 {
		ids := make([]string, 0, len(b.Arena.Player.Bag))
		for id := range b.Arena.Player.Bag {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		var parts []string
		for _, id := range ids {
			parts = append(parts, fmt.Sprintf("%s x%d", id, b.Arena.Player.Bag[id]))
		}
		c.printSystem("Bag: " + strings.Join(parts, ", "))
	}
}

// describe renders one Pokémon for /state and the move list.
func (c *CLI) describe(p *types.Pokemon) string {
	s := fmt.Sprintf("%s Lv%d HP %d/%d", c.Battle.Dex.PokemonName(p), p.Level, max(p.HP, 0), p.Stats.HP)
	if p.Status != "" {
		s += " " + strings.ToUpper(p.Status)
	}
	var moves []string
	for i, m := range p.Moves {
		moves = append(moves, fmt.Sprintf("%d:%s %d", i+1, c.Battle.Dex.MoveName(m.Move), m.PP))
	}
	if len(moves) > 0 {
		s += " [" + strings.Join(moves, ", ") + "]"
	}
	return s
}

func (c *CLI) printIntro() {
	for _, line := range IntroLines(c.Battle) {
		c.printLine(line)
	}
}

func (c *CLI) printResult() {
	for _, line := range ResultLines(c.Battle) {
		c.printLine(line)
	}
}

func (c *CLI) printTrace() {
	b := c.Battle
	line := fmt.Sprintf("[trace] phase=%s step=%s turn=%d", b.Phase(), b.Step(), b.Turns())
	if q := b.Queue(); q != nil {
		line += fmt.Sprintf(" queued=%d", q.Len())
	}
	c.printLine(line)
}

// flush prints transcript lines not yet shown.
func (c *CLI) flush() {
	log := c.Battle.Transcript()
	for ; c.shown < len(log); c.shown++ {
		c.printLine(log[c.shown])
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
