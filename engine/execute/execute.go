// Package execute resolves one battle action against the arena: it applies
// the action's effect, reports the text and animations to present, and
// returns any follow-up actions for the caller to push to the front of the
// turn queue.
package execute

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/present"
	"github.com/nathoo/battlecore/engine/progress"
	"github.com/nathoo/battlecore/engine/target"
	"github.com/nathoo/battlecore/types"
)

// DefaultExpMultiplier scales experience awarded on faint.
const DefaultExpMultiplier = 7.0

// MoveEngine evaluates a move against resolved targets.
type MoveEngine interface {
	Use(user *types.Pokemon, move types.MoveDef, targets []*types.Pokemon) []types.MoveResult
}

// Progression applies experience and move learning.
type Progression interface {
	AddExperience(p *types.Pokemon, amount int) (int, []string, bool)
	LearnMoves(p *types.Pokemon, moves []string) (learned, pending []string)
}

// SwitchPlan is a deferred switch: the caller applies it once the
// switch-out message has been shown.
type SwitchPlan struct {
	Team   types.Team
	Active int
	Slot   int
}

// Outcome is the result of executing one action.
type Outcome struct {
	Lines      []string
	Animations []present.Animation
	FollowUps  []types.BattleActionInstance
	Switch     *SwitchPlan
	Vacated    *types.ActivePokemonIndex // slot needing replacement handling once presented
	Aborted    bool                      // nothing happened, nothing to present
}

// Executor holds the collaborators used to resolve actions.
type Executor struct {
	Dex           *dex.Dex
	Moves         MoveEngine
	Progress      Progression
	RNG           target.Intner
	Data          *types.BattleData
	ExpMultiplier float64
}

// Execute resolves inst against arena.
func (x *Executor) Execute(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	switch inst.Action.Kind {
	case types.ActionPokemon:
		if !arena.IsLive(inst.Pokemon) {
			log.Debug().Int("team", int(inst.Pokemon.Team)).Int("active", inst.Pokemon.Active).
				Msg("actor can no longer fight, skipping")
			return Outcome{Aborted: true}
		}
		switch inst.Action.Move.Kind {
		case types.BattleMoveMove:
			return x.useMove(arena, inst)
		case types.BattleMoveItem:
			return x.useItem(arena, inst)
		case types.BattleMoveSwitch:
			return x.switchOut(arena, inst)
		}
	case types.ActionFaint:
		return x.faint(arena, inst)
	case types.ActionGainExp:
		return x.gainExp(arena, inst)
	case types.ActionLevelUp:
		return x.levelUp(arena, inst)
	case types.ActionCatch:
		return x.catch(arena, inst)
	}
	return Outcome{Aborted: true}
}

// name is the display name of a combatant, prefixed for the opposing side.
func (x *Executor) name(idx types.ActivePokemonIndex, p *types.Pokemon) string {
	n := x.Dex.PokemonName(p)
	if idx.Team == types.TeamPlayer {
		return n
	}
	if x.Data.Type == types.BattleWild {
		return "Wild " + n
	}
	return "Foe " + n
}

// trainer is the display name of a side's owner.
func (x *Executor) trainer(t types.Team) string {
	if t == types.TeamPlayer {
		return "You"
	}
	if x.Data.Trainer != nil && x.Data.Trainer.Name != "" {
		return x.Data.Trainer.Name
	}
	return "The foe"
}

func (x *Executor) useMove(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	var out Outcome
	user := arena.Get(inst.Pokemon)
	bm := inst.Action.Move
	userName := x.name(inst.Pokemon, user)
	aim := bm.Target
	def, ok := x.Dex.Move(user, bm.Move)
	struggling := false
	switch {
	case !dex.HasPP(user):
		def, struggling = dex.Struggle, true
		if aim.Kind != types.TargetOpponent {
			aim = types.MoveTargetInstance{Kind: types.TargetOpponent}
		}
		log.Debug().Str("pokemon", user.Species).Msg("out of PP, struggling")
	case !ok:
		log.Warn().Int("slot", bm.Move).Str("pokemon", user.Species).Msg("move slot is empty")
		return Outcome{Aborted: true}
	case user.Moves[bm.Move].PP <= 0:
		out.Lines = append(out.Lines, fmt.Sprintf("%s has no PP left for %s!", userName, x.Dex.MoveName(def.ID)))
		return out
	default:
		user.Moves[bm.Move].PP--
	}

	out.Lines = append(out.Lines, fmt.Sprintf("%s used %s!", userName, x.Dex.MoveName(def.ID)))

	targets := target.Resolve(arena, inst.Pokemon, aim, x.RNG)
	if len(targets) == 0 {
		out.Lines = append(out.Lines, "But there was no target...")
		return out
	}

	handles := make([]*types.Pokemon, len(targets))
	for i, t := range targets {
		handles[i] = t.Pokemon
	}
	results := x.Moves.Use(user, def, handles)

	for i, res := range results {
		if i >= len(targets) {
			break
		}
		t := targets[i]
		tName := x.name(t.Index, t.Pokemon)

		switch res.Kind {
		case types.ResultMiss:
			out.Lines = append(out.Lines, fmt.Sprintf("%s's attack missed!", userName))

		case types.ResultDamage, types.ResultDrain:
			before := t.Pokemon.HP
			t.Pokemon.HP -= res.Amount
			if t.Pokemon.HP < 0 {
				t.Pokemon.HP = 0
			}
			out.Animations = append(out.Animations,
				present.Animation{Kind: present.AnimFlicker, Target: t.Index},
				present.Animation{Kind: present.AnimHP, Target: t.Index})
			if res.Critical {
				out.Lines = append(out.Lines, "A critical hit!")
			}
			out.Lines = append(out.Lines, effectivenessLine(res.Effectiveness, tName)...)

			if res.Kind == types.ResultDrain && res.Heal > 0 {
				user.HP += res.Heal
				if user.HP > user.Stats.HP {
					user.HP = user.Stats.HP
				}
				out.Animations = append(out.Animations, present.Animation{Kind: present.AnimHP, Target: inst.Pokemon})
				out.Lines = append(out.Lines, fmt.Sprintf("%s had its energy drained!", tName))
			}

			if before > 0 && t.Pokemon.HP == 0 {
				assailant := inst.Pokemon
				out.FollowUps = append(out.FollowUps, types.BattleActionInstance{
					Pokemon: t.Index,
					Action:  types.BattleAction{Kind: types.ActionFaint, Assailant: &assailant},
				})
			}

		case types.ResultStatus:
			if t.Pokemon.Status != "" || res.Status == "" {
				out.Lines = append(out.Lines, "But it failed!")
				continue
			}
			t.Pokemon.Status = res.Status
			out.Lines = append(out.Lines, fmt.Sprintf("%s is now %s!", tName, statusName(res.Status)))

		case types.ResultStatStage:
			out.Lines = append(out.Lines, applyStage(t.Pokemon, tName, res.Stat, res.Stages))

		case types.ResultTodo:
			out.Lines = append(out.Lines, fmt.Sprintf("%s is unimplemented.", x.Dex.MoveName(def.ID)))
		}
	}
	if struggling {
		x.recoil(&out, inst.Pokemon, user, userName)
	}
	return out
}

// recoil costs the user a quarter of its max HP, at least 1.
func (x *Executor) recoil(out *Outcome, idx types.ActivePokemonIndex, user *types.Pokemon, name string) {
	if user.HP <= 0 {
		return
	}
	dmg := user.Stats.HP / 4
	if dmg < 1 {
		dmg = 1
	}
	user.HP -= dmg
	if user.HP < 0 {
		user.HP = 0
	}
	out.Lines = append(out.Lines, fmt.Sprintf("%s is hit with recoil!", name))
	out.Animations = append(out.Animations, present.Animation{Kind: present.AnimHP, Target: idx})
	if user.HP == 0 {
		out.FollowUps = append(out.FollowUps, types.BattleActionInstance{
			Pokemon: idx,
			Action:  types.BattleAction{Kind: types.ActionFaint},
		})
	}
}

func effectivenessLine(eff float64, tName string) []string {
	switch {
	case eff == 0:
		return []string{fmt.Sprintf("It doesn't affect %s...", tName)}
	case eff > 1:
		return []string{"It's super effective!"}
	case eff < 1:
		return []string{"It's not very effective..."}
	}
	return nil
}

func statusName(s string) string {
	switch s {
	case "poison":
		return "poisoned"
	case "burn":
		return "burned"
	case "paralysis":
		return "paralyzed"
	case "sleep":
		return "asleep"
	case "freeze":
		return "frozen"
	}
	return s
}

func applyStage(p *types.Pokemon, name, stat string, delta int) string {
	if p.Stages == nil {
		p.Stages = map[string]int{}
	}
	statName := dex.Title(stat)
	cur := p.Stages[stat]
	next := cur + delta
	if next > 6 {
		next = 6
	}
	if next < -6 {
		next = -6
	}
	if next == cur {
		if delta > 0 {
			return fmt.Sprintf("%s's %s won't go any higher!", name, statName)
		}
		return fmt.Sprintf("%s's %s won't go any lower!", name, statName)
	}
	p.Stages[stat] = next
	switch {
	case next-cur >= 2:
		return fmt.Sprintf("%s's %s sharply rose!", name, statName)
	case next > cur:
		return fmt.Sprintf("%s's %s rose!", name, statName)
	case cur-next >= 2:
		return fmt.Sprintf("%s's %s harshly fell!", name, statName)
	default:
		return fmt.Sprintf("%s's %s fell!", name, statName)
	}
}

func (x *Executor) useItem(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	var out Outcome
	bm := inst.Action.Move
	side := arena.Side(inst.Pokemon.Team)

	item, ok := x.Dex.Items[bm.Item]
	if !ok {
		log.Warn().Str("item", bm.Item).Msg("unknown item")
		return Outcome{Aborted: true}
	}
	if side.Bag[item.ID] <= 0 {
		out.Lines = append(out.Lines, fmt.Sprintf("%s have no %s left!", x.trainer(inst.Pokemon.Team), x.Dex.ItemName(item.ID)))
		return out
	}

	switch item.Usage {
	case "pokeball":
		if x.Data.Type != types.BattleWild {
			log.Info().Str("item", item.ID).Msg("cannot use pokeballs in trainer battles")
			out.Lines = append(out.Lines, "The trainer blocked the ball! Don't be a thief!")
			return out
		}
		targets := target.Resolve(arena, inst.Pokemon, bm.Target, x.RNG)
		if len(targets) == 0 || targets[0].Index.Team == inst.Pokemon.Team {
			out.Lines = append(out.Lines, "There's nothing to catch!")
			return out
		}
		side.UseItem(item.ID)
		out.Lines = append(out.Lines, fmt.Sprintf("%s threw a %s!", x.trainer(inst.Pokemon.Team), x.Dex.ItemName(item.ID)))
		out.FollowUps = append(out.FollowUps, types.BattleActionInstance{
			Pokemon: inst.Pokemon,
			Action:  types.BattleAction{Kind: types.ActionCatch, Target: targets[0].Index},
		})
		return out
	}

	if item.Usage == "revive" {
		return x.revive(side, inst.Pokemon.Team, item, bm.Target.Index)
	}

	targets := target.Resolve(arena, inst.Pokemon, bm.Target, x.RNG)
	if len(targets) == 0 {
		out.Lines = append(out.Lines, "But it had no effect...")
		return out
	}
	t := targets[0]
	tName := x.name(t.Index, t.Pokemon)
	used := fmt.Sprintf("%s used a %s!", x.trainer(inst.Pokemon.Team), x.Dex.ItemName(item.ID))

	switch item.Usage {
	case "heal":
		if t.Pokemon.HP >= t.Pokemon.Stats.HP {
			out.Lines = append(out.Lines, "It won't have any effect.")
			return out
		}
		before := t.Pokemon.HP
		t.Pokemon.HP += item.Amount
		if item.Amount <= 0 || t.Pokemon.HP > t.Pokemon.Stats.HP {
			t.Pokemon.HP = t.Pokemon.Stats.HP
		}
		out.Lines = append(out.Lines, used, fmt.Sprintf("%s recovered %d HP.", tName, t.Pokemon.HP-before))
		out.Animations = append(out.Animations, present.Animation{Kind: present.AnimHP, Target: t.Index})

	case "cure":
		if t.Pokemon.Status == "" {
			out.Lines = append(out.Lines, "It won't have any effect.")
			return out
		}
		t.Pokemon.Status = ""
		out.Lines = append(out.Lines, used, fmt.Sprintf("%s was cured.", tName))

	default:
		out.Lines = append(out.Lines, used)
	}
	side.UseItem(item.ID)
	return out
}

// revive brings a fainted roster entry back with item.Amount HP, or half
// its max HP when the item sets no amount. slot is a roster index. The item
// is kept when the target has not fainted.
func (x *Executor) revive(side *party.Party, team types.Team, item types.ItemDef, slot int) Outcome {
	var out Outcome
	if slot < 0 || slot >= len(side.Pokemon) || side.Pokemon[slot] == nil || !party.Fainted(side.Pokemon[slot]) {
		out.Lines = append(out.Lines, "It won't have any effect.")
		return out
	}
	p := side.Pokemon[slot]
	hp := item.Amount
	if hp <= 0 {
		hp = p.Stats.HP / 2
	}
	if hp < 1 {
		hp = 1
	}
	if hp > p.Stats.HP {
		hp = p.Stats.HP
	}
	p.HP = hp
	p.Status = ""
	side.UseItem(item.ID)
	out.Lines = append(out.Lines,
		fmt.Sprintf("%s used a %s!", x.trainer(team), x.Dex.ItemName(item.ID)),
		fmt.Sprintf("%s was revived!", x.Dex.PokemonName(p)))
	return out
}

func (x *Executor) switchOut(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	side := arena.Side(inst.Pokemon.Team)
	slot := inst.Action.Move.Switch
	if !side.CanSwitchTo(slot) {
		log.Debug().Int("slot", slot).Msg("switch target unavailable")
		return Outcome{Aborted: true}
	}
	old := arena.Get(inst.Pokemon)
	next := side.Pokemon[slot]

	var out Outcome
	if inst.Pokemon.Team == types.TeamPlayer {
		out.Lines = append(out.Lines,
			fmt.Sprintf("Come back, %s!", x.Dex.PokemonName(old)),
			fmt.Sprintf("Go, %s!", x.Dex.PokemonName(next)))
	} else {
		out.Lines = append(out.Lines,
			fmt.Sprintf("%s withdrew %s!", x.trainer(inst.Pokemon.Team), x.Dex.PokemonName(old)),
			fmt.Sprintf("%s sent out %s!", x.trainer(inst.Pokemon.Team), x.Dex.PokemonName(next)))
	}
	out.Switch = &SwitchPlan{Team: inst.Pokemon.Team, Active: inst.Pokemon.Active, Slot: slot}
	return out
}

func (x *Executor) faint(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	p := arena.Get(inst.Pokemon)
	if p == nil {
		return Outcome{Aborted: true}
	}

	var out Outcome
	out.Lines = append(out.Lines, fmt.Sprintf("%s fainted!", x.name(inst.Pokemon, p)))
	out.Animations = append(out.Animations, present.Animation{Kind: present.AnimFaint, Target: inst.Pokemon})
	idx := inst.Pokemon
	out.Vacated = &idx

	if a := inst.Action.Assailant; a != nil && a.Team == types.TeamPlayer && inst.Pokemon.Team != types.TeamPlayer {
		if winner := arena.Get(*a); winner != nil && !party.Fainted(winner) {
			exp := x.experience(p)
			out.FollowUps = append(out.FollowUps, types.BattleActionInstance{
				Pokemon: *a,
				Action:  types.BattleAction{Kind: types.ActionGainExp, Level: winner.Level, Experience: exp},
			})
		}
	}

	side := arena.Side(inst.Pokemon.Team)
	if side.Defeated() {
		w := party.Opposite(inst.Pokemon.Team)
		x.Data.Winner = &w
		log.Debug().Int("winner", int(w)).Msg("side defeated")
	}
	return out
}

// experience is the experience a defeated Pokémon is worth to the player.
func (x *Executor) experience(fainted *types.Pokemon) int {
	factor := 1.5
	if x.Data.Type == types.BattleWild {
		factor = 1.0
	}
	mult := x.ExpMultiplier
	if mult == 0 {
		mult = DefaultExpMultiplier
	}
	base := x.Dex.Species[fainted.Species].BaseExp
	return int(float64(progress.ExpYield(base, fainted.Level)) * factor * mult)
}

func (x *Executor) gainExp(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	p := arena.Get(inst.Pokemon)
	if p == nil {
		return Outcome{Aborted: true}
	}
	var out Outcome
	out.Lines = append(out.Lines, fmt.Sprintf("%s gained %d EXP. points!", x.Dex.PokemonName(p), inst.Action.Experience))
	level, moves, leveled := x.Progress.AddExperience(p, inst.Action.Experience)
	if leveled {
		out.FollowUps = append(out.FollowUps, types.BattleActionInstance{
			Pokemon: inst.Pokemon,
			Action:  types.BattleAction{Kind: types.ActionLevelUp, Level: level, NewMoves: moves},
		})
	}
	return out
}

func (x *Executor) levelUp(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	p := arena.Get(inst.Pokemon)
	if p == nil {
		return Outcome{Aborted: true}
	}
	name := x.Dex.PokemonName(p)
	var out Outcome
	out.Lines = append(out.Lines, fmt.Sprintf("%s grew to level %d!", name, inst.Action.Level))
	out.Animations = append(out.Animations, present.Animation{Kind: present.AnimHP, Target: inst.Pokemon})
	if len(inst.Action.NewMoves) == 0 {
		return out
	}
	learned, pending := x.Progress.LearnMoves(p, inst.Action.NewMoves)
	for _, m := range learned {
		out.Lines = append(out.Lines, fmt.Sprintf("%s learned %s!", name, x.Dex.MoveName(m)))
	}
	for _, m := range pending {
		p.PendingMoves = append(p.PendingMoves, m)
		out.Lines = append(out.Lines, fmt.Sprintf("%s wants to learn %s, but already knows %d moves.", name, x.Dex.MoveName(m), progress.MaxMoves))
	}
	return out
}

func (x *Executor) catch(arena *party.Arena, inst types.BattleActionInstance) Outcome {
	idx := inst.Action.Target
	wild := arena.Get(idx)
	if wild == nil {
		return Outcome{Lines: []string{"There's nothing to catch!"}}
	}

	var out Outcome
	out.Animations = append(out.Animations, present.Animation{Kind: present.AnimCatch, Target: idx})
	name := x.Dex.PokemonName(wild)
	caught := arena.Side(idx.Team).Take(idx.Active)
	out.Lines = append(out.Lines, fmt.Sprintf("Gotcha! %s was caught!", name))

	if err := arena.Side(inst.Pokemon.Team).TryPush(caught); err != nil {
		log.Warn().Err(err).Str("pokemon", caught.Species).Msg("player party is full")
		out.Lines = append(out.Lines, fmt.Sprintf("Your party is full, so %s was released.", name))
	} else {
		x.Data.Caught = true
		out.Lines = append(out.Lines, fmt.Sprintf("%s was added to your party.", name))
	}
	out.Vacated = &idx
	return out
}
