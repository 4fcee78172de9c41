// Package target expands a move's target selection into the concrete set
// of combatants it affects. Resolution happens when the action executes,
// not when it was chosen, so a slot that emptied in between is handled here.
package target

import (
	"github.com/rs/zerolog/log"

	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/types"
)

// Intner is the random source used for re-rolls.
type Intner interface {
	Intn(n int) int
}

// Resolved is one concrete target: its address and a handle to apply
// results through.
type Resolved struct {
	Index   types.ActivePokemonIndex
	Pokemon *types.Pokemon
}

// Resolve expands t for actor against the current arena.
//
// Opponent(i) re-rolls to a random live opponent when slot i can no longer
// fight. Team(i) never re-rolls. An empty result means the action has
// nothing to land on and its effects must be skipped.
func Resolve(arena *party.Arena, actor types.ActivePokemonIndex, t types.MoveTargetInstance, rng Intner) []Resolved {
	foe := party.Opposite(actor.Team)

	switch t.Kind {
	case types.TargetUser:
		return []Resolved{{Index: actor, Pokemon: arena.Get(actor)}}

	case types.TargetOpponent:
		idx := types.ActivePokemonIndex{Team: foe, Active: t.Index}
		if arena.IsLive(idx) {
			return []Resolved{{Index: idx, Pokemon: arena.Get(idx)}}
		}
		live := arena.Live(foe)
		if len(live) == 0 {
			log.Debug().Int("slot", t.Index).Msg("no live opponent to re-roll onto")
			return nil
		}
		pick := live[rng.Intn(len(live))]
		log.Debug().Int("from", t.Index).Int("to", pick.Active).Msg("opponent target re-rolled")
		return []Resolved{{Index: pick, Pokemon: arena.Get(pick)}}

	case types.TargetTeam:
		idx := types.ActivePokemonIndex{Team: actor.Team, Active: t.Index}
		if !arena.IsLive(idx) {
			return nil
		}
		return []Resolved{{Index: idx, Pokemon: arena.Get(idx)}}

	case types.TargetOpponents:
		return collect(arena, arena.Live(foe))

	case types.TargetAllButUser:
		var idxs []types.ActivePokemonIndex
		for _, i := range arena.Live(actor.Team) {
			if i != actor {
				idxs = append(idxs, i)
			}
		}
		idxs = append(idxs, arena.Live(foe)...)
		return collect(arena, idxs)
	}
	return nil
}

func collect(arena *party.Arena, idxs []types.ActivePokemonIndex) []Resolved {
	out := make([]Resolved, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, Resolved{Index: i, Pokemon: arena.Get(i)})
	}
	return out
}

// Instance builds the default target selection for a declared move target.
// chosen is the opponent or ally slot picked by the selector.
func Instance(mt types.MoveTarget, chosen int) types.MoveTargetInstance {
	switch mt {
	case types.MoveTargetUser:
		return types.MoveTargetInstance{Kind: types.TargetUser}
	case types.MoveTargetTeam:
		return types.MoveTargetInstance{Kind: types.TargetTeam, Index: chosen}
	case types.MoveTargetOpponents:
		return types.MoveTargetInstance{Kind: types.TargetOpponents}
	case types.MoveTargetAllButUser:
		return types.MoveTargetInstance{Kind: types.TargetAllButUser}
	default:
		return types.MoveTargetInstance{Kind: types.TargetOpponent, Index: chosen}
	}
}
