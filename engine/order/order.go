// Package order builds the execution order of a turn from the choices
// queued on every active slot.
package order

import (
	"sort"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/progress"
	"github.com/nathoo/battlecore/types"
)

// entry is an action plus its sort key.
type entry struct {
	action   types.BattleActionInstance
	isMove   bool
	priority int
	speed    int
}

// less orders entries: switches and items before moves, then higher
// priority, then higher speed, then index with the player team first.
func less(a, b entry) bool {
	if a.isMove != b.isMove {
		return !a.isMove
	}
	if a.isMove {
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.speed != b.speed {
			return a.speed > b.speed
		}
	}
	return party.Less(a.action.Pokemon, b.action.Pokemon)
}

// Build takes every queued choice out of the arena's active slots and
// returns them as a totally ordered action list. Slots with nothing
// queued, or that can no longer fight, contribute nothing.
func Build(arena *party.Arena, d *dex.Dex) []types.BattleActionInstance {
	var entries []entry
	for _, p := range []*party.Party{arena.Player, arena.Opponent} {
		for i := range p.Active {
			queued := p.Active[i].Queued
			p.Active[i].Queued = nil
			if queued == nil || !p.IsLive(i) {
				continue
			}
			pk := p.ActivePokemon(i)
			e := entry{
				action: types.BattleActionInstance{
					Pokemon: types.ActivePokemonIndex{Team: p.Team, Active: i},
					Action:  types.BattleAction{Kind: types.ActionPokemon, Move: *queued},
				},
			}
			if queued.Kind == types.BattleMoveMove {
				e.isMove = true
				e.priority = d.Priority(pk, queued.Move)
				e.speed = progress.EffectiveStat(pk, "speed")
			}
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})

	out := make([]types.BattleActionInstance, len(entries))
	for i, e := range entries {
		out[i] = e.action
	}
	return out
}
