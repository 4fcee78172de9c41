package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/types"
)

// Result summarizes a finished battle for the caller.
type Result struct {
	Type      types.BattleType
	Winner    *types.Team
	Caught    bool
	Forfeited bool
	Turns     int
	Money     int    // trainer worth, earned when the player wins
	Badge     string // gym leader badge, earned when the player wins
	Party     []*types.Pokemon
}

// Result returns the outcome so far. Rewards are only granted once the
// player has won outright.
func (b *Battle) Result() Result {
	r := Result{
		Type:      b.Data.Type,
		Winner:    b.Data.Winner,
		Caught:    b.Data.Caught,
		Forfeited: b.forfeited,
		Turns:     b.turns,
		Party:     b.Arena.Player.Survivors(),
	}
	if !b.Finished() || b.forfeited || r.Winner == nil || *r.Winner != types.TeamPlayer {
		return r
	}
	if t := b.Data.Trainer; t != nil {
		r.Money = t.Worth
		if b.Data.Type == types.BattleGymLeader {
			r.Badge = t.Badge
		}
	}
	return r
}

// Forfeit ends the battle immediately with the other team as winner.
// Experience already queued this turn is applied only when the battle
// was configured to grant it.
func (b *Battle) Forfeit(team types.Team) {
	if b.Finished() {
		return
	}
	if b.queue != nil {
		gains := b.queue.Take(types.ActionGainExp)
		if b.opts.ForfeitGrantsExp {
			b.applyAll(gains)
		} else if len(gains) > 0 {
			log.Info().Int("dropped", len(gains)).Msg("forfeit discards pending experience")
		}
	}
	w := party.Opposite(team)
	b.Data.Winner = &w
	b.forfeited = true
	log.Debug().Int("team", int(team)).Msg("forfeit")
	b.event("finish")
}

// Run flees a wild battle. It returns false, and does nothing, in trainer
// battles.
func (b *Battle) Run() bool {
	if b.Finished() {
		return false
	}
	if b.Data.Type != types.BattleWild {
		b.log = append(b.log, "No! There's no running from a trainer battle!")
		return false
	}
	b.log = append(b.log, "Got away safely!")
	b.Data.Winner = nil
	b.forfeited = true
	b.event("finish")
	return true
}

// applyAll executes actions and their follow-ups to completion, without
// presentation pacing.
func (b *Battle) applyAll(actions []types.BattleActionInstance) {
	for len(actions) > 0 {
		next := actions[0]
		actions = actions[1:]
		out := b.exec.Execute(b.Arena, next)
		b.log = append(b.log, out.Lines...)
		actions = append(out.FollowUps, actions...)
	}
}
