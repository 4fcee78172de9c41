// Package client supplies battle decisions: move selections at the start
// of each turn and replacements when an active Pokémon leaves the field.
package client

import (
	"github.com/rs/zerolog/log"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/target"
	"github.com/nathoo/battlecore/types"
)

// Provider is polled by the battle each tick. Poll methods return false
// until the provider has an answer.
type Provider interface {
	Begin(own, opp *party.Party)
	RequestSelection()
	PollSelection() ([]types.BattleMove, bool)
	PollReplacement(active int) (int, bool)
}

// AI picks uniformly at random among usable moves and live opponents.
type AI struct {
	Dex *dex.Dex
	RNG target.Intner

	own, opp *party.Party
	pending  []types.BattleMove
	ready    bool
}

// NewAI returns a random-choice provider.
func NewAI(d *dex.Dex, rng target.Intner) *AI {
	return &AI{Dex: d, RNG: rng}
}

func (a *AI) Begin(own, opp *party.Party) {
	a.own, a.opp = own, opp
	a.pending, a.ready = nil, false
}

// RequestSelection chooses a move for every live active slot.
func (a *AI) RequestSelection() {
	a.pending = a.pending[:0]
	for _, active := range a.own.LiveSlots() {
		a.pending = append(a.pending, a.choose(active))
	}
	a.ready = true
}

func (a *AI) choose(active int) types.BattleMove {
	p := a.own.ActivePokemon(active)
	var usable []int
	for i, m := range p.Moves {
		if m.PP > 0 {
			usable = append(usable, i)
		}
	}
	// With no PP anywhere slot 0 is submitted and resolves as Struggle.
	slot := 0
	if len(usable) > 0 {
		slot = usable[a.RNG.Intn(len(usable))]
	}

	foe := 0
	if live := a.opp.LiveSlots(); len(live) > 0 {
		foe = live[a.RNG.Intn(len(live))]
	}
	mt := types.MoveTargetOpponent
	if def, ok := a.Dex.Move(p, slot); ok && def.Target != "" {
		mt = def.Target
	}
	if mt == types.MoveTargetTeam {
		foe = active
	}
	return types.BattleMove{
		Kind:   types.BattleMoveMove,
		Move:   slot,
		Target: target.Instance(mt, foe),
	}
}

func (a *AI) PollSelection() ([]types.BattleMove, bool) {
	if !a.ready {
		return nil, false
	}
	a.ready = false
	out := make([]types.BattleMove, len(a.pending))
	copy(out, a.pending)
	return out, true
}

// PollReplacement picks a random healthy benched Pokémon.
func (a *AI) PollReplacement(active int) (int, bool) {
	bench := a.own.Bench()
	if len(bench) == 0 {
		return 0, false
	}
	slot := bench[a.RNG.Intn(len(bench))]
	log.Debug().Int("active", active).Int("slot", slot).Msg("ai replacement")
	return slot, true
}

// Scripted replays fixed selections in order. When it runs out of
// scripted replacements it sends in the first benched Pokémon.
type Scripted struct {
	Selections   [][]types.BattleMove
	Replacements []int

	own       *party.Party
	requested bool
}

func (s *Scripted) Begin(own, _ *party.Party) { s.own = own }

func (s *Scripted) RequestSelection() { s.requested = true }

func (s *Scripted) PollSelection() ([]types.BattleMove, bool) {
	if !s.requested || len(s.Selections) == 0 {
		return nil, false
	}
	s.requested = false
	next := s.Selections[0]
	s.Selections = s.Selections[1:]
	return next, true
}

func (s *Scripted) PollReplacement(int) (int, bool) {
	if len(s.Replacements) > 0 {
		slot := s.Replacements[0]
		s.Replacements = s.Replacements[1:]
		return slot, true
	}
	if s.own == nil {
		return 0, false
	}
	if bench := s.own.Bench(); len(bench) > 0 {
		return bench[0], true
	}
	return 0, false
}
