// Package engine provides the Battle state machine that wires together turn
// ordering, the action queue, the executor, the presentation gate and both
// sides' action providers into a tick-driven battle.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog/log"

	"github.com/nathoo/battlecore/engine/client"
	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/execute"
	"github.com/nathoo/battlecore/engine/order"
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/present"
	"github.com/nathoo/battlecore/engine/progress"
	"github.com/nathoo/battlecore/engine/queue"
	"github.com/nathoo/battlecore/engine/rng"
	"github.com/nathoo/battlecore/engine/usage"
	"github.com/nathoo/battlecore/types"
)

var (
	// ErrNoPokemon is returned when either side has an empty roster.
	ErrNoPokemon = errors.New("party has no pokemon")
	// ErrNoHealthyPokemon is returned when a side has nothing able to fight.
	ErrNoHealthyPokemon = errors.New("party has no pokemon able to fight")
	// ErrNoProvider is returned when a side has no action provider.
	ErrNoProvider = errors.New("missing action provider")
)

// Top-level phases.
const (
	PhaseSelecting = "selecting"
	PhaseMoving    = "moving"
	PhaseEnd       = "end"
)

// MoveStep is the sub-phase of PhaseMoving.
type MoveStep int

const (
	StepStart MoveStep = iota
	StepSetupPokemon
	StepPokemon
	StepSetupPost
	StepPost
	StepEnd
)

func (s MoveStep) String() string {
	switch s {
	case StepStart:
		return "start"
	case StepSetupPokemon:
		return "setup_pokemon"
	case StepPokemon:
		return "pokemon"
	case StepSetupPost:
		return "setup_post"
	case StepPost:
		return "post"
	case StepEnd:
		return "end"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Setup is the material a battle is built from.
type Setup struct {
	Trainer  *types.TrainerDef // nil for a wild battle
	Player   []*types.Pokemon
	Opponent []*types.Pokemon
	Bag      map[string]int
}

// Options tunes a battle. Zero values select defaults.
type Options struct {
	Seed             int64
	ActiveSlots      int
	ExpMultiplier    float64
	ForfeitGrantsExp bool
	Moves            execute.MoveEngine
	Progress         execute.Progression
}

// Battle is one battle instance. Drive it by calling Update every frame
// until Finished reports true.
type Battle struct {
	Dex   *dex.Dex
	Data  *types.BattleData
	Arena *party.Arena
	Gate  present.Gate
	RNG   *rng.RNG

	opts      Options
	fsm       *fsm.FSM
	providers [2]client.Provider
	exec      *execute.Executor
	log       []string
	turns     int
	forfeited bool

	// Selecting
	started      bool
	playerDone   bool
	opponentDone bool

	// Moving
	step    MoveStep
	queue   *queue.MoveQueue
	swap    *execute.SwitchPlan
	vacated *types.ActivePokemonIndex
}

// BattleTypeFor classifies a battle by its opposing trainer.
func BattleTypeFor(trainer *types.TrainerDef) types.BattleType {
	switch {
	case trainer == nil:
		return types.BattleWild
	case trainer.Badge != "":
		return types.BattleGymLeader
	default:
		return types.BattleTrainer
	}
}

// New creates a battle. It fails if either roster is empty or either side
// has nothing able to fight.
func New(d *dex.Dex, s Setup, player, opponent client.Provider, gate present.Gate, opts Options) (*Battle, error) {
	if player == nil || opponent == nil {
		return nil, ErrNoProvider
	}
	if len(s.Player) == 0 || len(s.Opponent) == 0 {
		return nil, ErrNoPokemon
	}
	if allFainted(s.Player) {
		return nil, fmt.Errorf("player: %w", ErrNoHealthyPokemon)
	}
	if allFainted(s.Opponent) {
		return nil, fmt.Errorf("opponent: %w", ErrNoHealthyPokemon)
	}
	if opts.ActiveSlots <= 0 {
		opts.ActiveSlots = 1
	}
	if gate == nil {
		gate = present.NewInstant()
	}

	b := &Battle{
		Dex: d,
		Data: &types.BattleData{
			Type:    BattleTypeFor(s.Trainer),
			Trainer: s.Trainer,
		},
		Arena: &party.Arena{
			Player:   party.New(types.TeamPlayer, s.Player, opts.ActiveSlots, s.Bag),
			Opponent: party.New(types.TeamOpponent, s.Opponent, opts.ActiveSlots, nil),
		},
		Gate:      gate,
		RNG:       rng.New(opts.Seed),
		opts:      opts,
		providers: [2]client.Provider{player, opponent},
	}

	moves := opts.Moves
	if moves == nil {
		moves = usage.New(d, b.RNG)
	}
	prog := opts.Progress
	if prog == nil {
		prog = progress.New(d)
	}
	b.exec = &execute.Executor{
		Dex:           d,
		Moves:         moves,
		Progress:      prog,
		RNG:           b.RNG,
		Data:          b.Data,
		ExpMultiplier: opts.ExpMultiplier,
	}

	b.fsm = fsm.NewFSM(
		PhaseSelecting,
		fsm.Events{
			{Name: "fight", Src: []string{PhaseSelecting}, Dst: PhaseMoving},
			{Name: "next_turn", Src: []string{PhaseMoving}, Dst: PhaseSelecting},
			{Name: "finish", Src: []string{PhaseSelecting, PhaseMoving}, Dst: PhaseEnd},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug().Str("from", e.Src).Str("to", e.Dst).Int("turn", b.turns).Msg("battle phase")
			},
			"enter_" + PhaseMoving: func(_ context.Context, _ *fsm.Event) {
				b.turns++
				b.step = StepStart
			},
			"enter_" + PhaseSelecting: func(_ context.Context, _ *fsm.Event) {
				b.started, b.playerDone, b.opponentDone = false, false, false
			},
		},
	)

	b.providers[types.TeamPlayer].Begin(b.Arena.Player, b.Arena.Opponent)
	b.providers[types.TeamOpponent].Begin(b.Arena.Opponent, b.Arena.Player)
	log.Debug().Int("type", int(b.Data.Type)).Int64("seed", opts.Seed).Msg("battle created")
	return b, nil
}

func allFainted(roster []*types.Pokemon) bool {
	for _, p := range roster {
		if !party.Fainted(p) {
			return false
		}
	}
	return true
}

// Phase returns the current top-level phase.
func (b *Battle) Phase() string { return b.fsm.Current() }

// Step returns the current Moving sub-phase.
func (b *Battle) Step() MoveStep { return b.step }

// Finished reports whether the battle has ended.
func (b *Battle) Finished() bool { return b.fsm.Current() == PhaseEnd }

// Winner returns the winning team, or nil.
func (b *Battle) Winner() *types.Team { return b.Data.Winner }

// Turns returns the number of Moving cycles started.
func (b *Battle) Turns() int { return b.turns }

// Transcript returns every line presented so far.
func (b *Battle) Transcript() []string { return b.log }

// Queue returns the action queue of the current turn, or nil.
func (b *Battle) Queue() *queue.MoveQueue { return b.queue }

func (b *Battle) event(name string) {
	if err := b.fsm.Event(context.Background(), name); err != nil {
		log.Error().Err(err).Str("event", name).Str("phase", b.fsm.Current()).Msg("battle transition failed")
	}
}

// Update performs one micro-step. delta is the time in seconds since the
// previous call and only paces presentation.
func (b *Battle) Update(delta float64) {
	switch b.fsm.Current() {
	case PhaseSelecting:
		b.updateSelecting()
	case PhaseMoving:
		b.updateMoving(delta)
	}
}

func (b *Battle) updateSelecting() {
	if !b.started {
		b.providers[types.TeamPlayer].RequestSelection()
		b.providers[types.TeamOpponent].RequestSelection()
		b.started = true
		return
	}
	if !b.playerDone {
		if moves, ok := b.providers[types.TeamPlayer].PollSelection(); ok {
			assign(b.Arena.Player, moves)
			b.playerDone = true
		}
	}
	if !b.opponentDone {
		if moves, ok := b.providers[types.TeamOpponent].PollSelection(); ok {
			assign(b.Arena.Opponent, moves)
			b.opponentDone = true
		}
	}
	if b.playerDone && b.opponentDone {
		b.event("fight")
	}
}

// assign queues selections onto live active slots, in order.
func assign(side *party.Party, moves []types.BattleMove) {
	live := side.LiveSlots()
	for i, active := range live {
		if i >= len(moves) {
			break
		}
		m := moves[i]
		side.Active[active].Queued = &m
	}
	if len(moves) > len(live) {
		log.Debug().Int("team", int(side.Team)).Int("extra", len(moves)-len(live)).Msg("selections without a slot dropped")
	}
}

func (b *Battle) updateMoving(delta float64) {
	switch b.step {
	case StepStart:
		b.Gate.Reset()
		b.step = StepSetupPokemon
	case StepSetupPokemon:
		b.queue = queue.New(order.Build(b.Arena, b.Dex))
		log.Debug().Int("turn", b.turns).Int("actions", b.queue.Len()).Msg("turn order built")
		b.step = StepPokemon
	case StepPokemon:
		b.updatePokemon(delta)
	case StepSetupPost:
		b.step = StepPost
	case StepPost:
		b.step = StepEnd
	case StepEnd:
		b.endTurn()
	}
}

func (b *Battle) updatePokemon(delta float64) {
	// 1. Nothing running: start the next action.
	if b.queue.Current() == nil {
		next, ok := b.queue.PopNext()
		if !ok {
			b.step = StepSetupPost
			return
		}
		if b.Data.Winner != nil && next.Action.Kind == types.ActionPokemon {
			log.Debug().Int("team", int(next.Pokemon.Team)).Msg("battle decided, dropping action")
			return
		}
		b.begin(next)
		return
	}

	// 2. Pace the presentation.
	b.Gate.Advance(delta)
	if b.swap != nil && (b.Gate.Page() >= 1 || b.Gate.Finished()) {
		b.Arena.Side(b.swap.Team).Replace(b.swap.Active, b.swap.Slot)
		log.Debug().Int("team", int(b.swap.Team)).Int("active", b.swap.Active).Int("slot", b.swap.Slot).Msg("switch applied")
		b.swap = nil
	}
	if !b.Gate.Finished() {
		return
	}

	// 3. Settle a vacated slot before moving on.
	if b.vacated != nil && !b.settleVacated() {
		return
	}
	b.queue.ClearCurrent()
}

func (b *Battle) begin(next types.BattleActionInstance) {
	out := b.exec.Execute(b.Arena, next)
	if out.Aborted {
		return
	}
	b.queue.SetCurrent(next)
	b.Gate.Reset()
	b.Gate.Push(out.Lines...)
	for _, a := range out.Animations {
		b.Gate.Animate(a)
	}
	b.log = append(b.log, out.Lines...)

	var push []types.BattleActionInstance
	for _, fu := range out.FollowUps {
		if fu.Action.Kind == types.ActionFaint && b.queue.HasFaint(fu.Pokemon) {
			continue
		}
		push = append(push, fu)
	}
	if len(push) > 0 {
		b.queue.PushFront(push...)
		log.Debug().Int("count", len(push)).Msg("follow-ups queued")
	}
	b.swap = out.Switch
	b.vacated = out.Vacated
}

// settleVacated decides what fills a slot emptied by a faint or a catch.
// It returns false while waiting on the side's provider.
func (b *Battle) settleVacated() bool {
	v := *b.vacated
	side := b.Arena.Side(v.Team)
	if !side.AnyInactive() {
		side.Remove(v.Active)
		b.vacated = nil
		return true
	}
	slot, ok := b.providers[v.Team].PollReplacement(v.Active)
	if !ok {
		return false
	}
	if !side.CanSwitchTo(slot) {
		bench := side.Bench()
		log.Warn().Int("team", int(v.Team)).Int("slot", slot).Int("fallback", bench[0]).Msg("invalid replacement")
		slot = bench[0]
	}
	side.QueueReplace(v.Active, slot)
	b.vacated = nil
	return true
}

func (b *Battle) endTurn() {
	for _, side := range []*party.Party{b.Arena.Player, b.Arena.Opponent} {
		for _, active := range side.RunReplace() {
			p := side.ActivePokemon(active)
			name := b.Dex.PokemonName(p)
			line := fmt.Sprintf("Go, %s!", name)
			switch {
			case side.Team == types.TeamPlayer:
			case b.Data.Type == types.BattleWild:
				line = fmt.Sprintf("A wild %s appeared!", name)
			default:
				line = fmt.Sprintf("%s sent out %s!", b.trainerName(), name)
			}
			b.log = append(b.log, line)
			b.Gate.Push(line)
		}
	}

	var winner *types.Team
	switch {
	case b.Arena.Opponent.Defeated():
		w := types.TeamPlayer
		winner = &w
	case b.Arena.Player.Defeated():
		w := types.TeamOpponent
		winner = &w
	case b.Arena.Opponent.Remaining() == 0:
		b.Data.Winner = nil
		log.Debug().Msg("opponent party emptied by capture")
		b.event("finish")
		return
	default:
		b.Data.Winner = nil
		b.queue = nil
		b.event("next_turn")
		return
	}
	b.Data.Winner = winner
	log.Debug().Int("winner", int(*winner)).Int("turns", b.turns).Msg("battle over")
	b.event("finish")
}

func (b *Battle) trainerName() string {
	if b.Data.Trainer != nil && b.Data.Trainer.Name != "" {
		return b.Data.Trainer.Name
	}
	return "The foe"
}
