// BattleCore plays a turn-based monster battle defined in Lua content.
// Usage: battlecore [--version] [--plain] [--auto] [--list] [--trace] [--seed <n>] [--battle <id>] [--script <file>] <content_directory>
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nathoo/battlecore/cli"
	"github.com/nathoo/battlecore/config"
	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/client"
	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/present"
	"github.com/nathoo/battlecore/engine/rng"
	"github.com/nathoo/battlecore/loader"
	"github.com/nathoo/battlecore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: battlecore [--version] [--plain] [--auto] [--list] [--trace] [--seed <n>] [--battle <id>] [--script <file>] <content_directory>\n"

func main() {
	plain := false
	auto := false
	list := false
	trace := false
	var contentDir, battleID, scriptFile string
	var seed int64

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("battlecore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--auto":
			auto = true
		case "--list":
			list = true
		case "--trace":
			trace = true
		case "--battle", "--script", "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				os.Exit(1)
			}
			flag := args[i]
			i++
			switch flag {
			case "--battle":
				battleID = args[i]
			case "--script":
				scriptFile = args[i]
			case "--seed":
				n, err := strconv.ParseInt(args[i], 10, 64)
				if err != nil {
					fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
					os.Exit(1)
				}
				seed = n
			}
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	if contentDir == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.LoadDir(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	level := cfg.Level()
	if trace {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	// Load and compile Lua battle content.
	d, err := loader.Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	if list {
		for _, id := range battleIDs(d) {
			fmt.Println(id)
		}
		return
	}

	if battleID == "" {
		ids := battleIDs(d)
		if len(ids) == 0 {
			fmt.Fprintf(os.Stderr, "Error: %s defines no battles\n", contentDir)
			os.Exit(1)
		}
		battleID = ids[0]
	}
	setup, err := engine.FromDef(d, battleID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := cfg.Options(time.Now())
	if seed != 0 {
		opts.Seed = seed
	}
	log.Info().Str("battle", battleID).Int64("seed", opts.Seed).Msg("starting battle")

	opponent := client.NewAI(d, rng.New(opts.Seed+1))

	if auto {
		runAuto(d, setup, opponent, opts)
		return
	}

	player := client.NewManual()

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		b := mustBattle(d, setup, player, opponent, nil, opts)
		c := cli.New(b, player)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		b := mustBattle(d, setup, player, opponent, nil, opts)
		c := cli.New(b, player)
		c.Trace = trace
		c.Run()
		return
	}

	gate := present.NewTimed(cfg.Timing())
	b := mustBattle(d, setup, player, opponent, gate, opts)
	if err := tui.Run(b, player, gate, cfg.Tick); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func mustBattle(d *dex.Dex, s engine.Setup, player, opponent client.Provider, gate present.Gate, opts engine.Options) *engine.Battle {
	b, err := engine.New(d, s, player, opponent, gate, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return b
}

// runAuto lets two AIs fight and prints the transcript.
func runAuto(d *dex.Dex, s engine.Setup, opponent client.Provider, opts engine.Options) {
	player := client.NewAI(d, rng.New(opts.Seed+2))
	b := mustBattle(d, s, player, opponent, nil, opts)
	for _, line := range cli.IntroLines(b) {
		fmt.Println(line)
	}
	for i := 0; i < 1_000_000 && !b.Finished(); i++ {
		b.Update(0)
	}
	for _, line := range b.Transcript() {
		fmt.Println(line)
	}
	for _, line := range cli.ResultLines(b) {
		fmt.Println(line)
	}
	if !b.Finished() {
		log.Warn().Int("turns", b.Turns()).Msg("battle did not finish")
	}
}

func battleIDs(d *dex.Dex) []string {
	ids := make([]string, 0, len(d.Battles))
	for id := range d.Battles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
