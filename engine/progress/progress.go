// Package progress implements experience curves, stat growth and move
// learning: the progression collaborator the battle consults when a
// Pokémon gains experience.
package progress

import (
	"fmt"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/types"
)

const (
	MaxLevel = 100
	MaxMoves = 4
)

// ExpForLevel returns the total experience needed to reach level on a
// growth curve. Unknown curves use medium_fast.
func ExpForLevel(growth string, level int) int {
	if level <= 1 {
		return 0
	}
	n := level
	var exp int
	switch growth {
	case "fast":
		exp = 4 * n * n * n / 5
	case "medium_slow":
		exp = 6*n*n*n/5 - 15*n*n + 100*n - 140
	case "slow":
		exp = 5 * n * n * n / 4
	default:
		exp = n * n * n
	}
	if exp < 0 {
		return 0
	}
	return exp
}

// ExpYield is the base experience a defeated Pokémon is worth.
func ExpYield(baseExp, level int) int {
	return baseExp * level / 7
}

// CalcStats derives a stat block from base stats and level.
func CalcStats(base types.Stats, level int) types.Stats {
	stat := func(b int) int { return 2*b*level/100 + 5 }
	return types.Stats{
		HP:        2*base.HP*level/100 + level + 10,
		Attack:    stat(base.Attack),
		Defense:   stat(base.Defense),
		SpAttack:  stat(base.SpAttack),
		SpDefense: stat(base.SpDefense),
		Speed:     stat(base.Speed),
	}
}

// StageMultiplier converts a stat stage (-6..+6) into a multiplier.
func StageMultiplier(stage int) float64 {
	if stage >= 0 {
		return float64(2+stage) / 2
	}
	return 2 / float64(2-stage)
}

// EffectiveStat returns a stat with its battle stage applied.
// stat is one of "attack", "defense", "sp_attack", "sp_defense", "speed".
func EffectiveStat(p *types.Pokemon, stat string) int {
	if p == nil {
		return 0
	}
	var raw int
	switch stat {
	case "attack":
		raw = p.Stats.Attack
	case "defense":
		raw = p.Stats.Defense
	case "sp_attack":
		raw = p.Stats.SpAttack
	case "sp_defense":
		raw = p.Stats.SpDefense
	case "speed":
		raw = p.Stats.Speed
	default:
		return 0
	}
	return int(float64(raw) * StageMultiplier(p.Stages[stat]))
}

// Progression applies experience using the dex's species data.
type Progression struct {
	Dex *dex.Dex
}

// New creates a progression backed by d.
func New(d *dex.Dex) *Progression {
	return &Progression{Dex: d}
}

// AddExperience adds amount to p. If p levels up, it returns the new level
// and the moves unlocked on the way, with leveled set.
func (g *Progression) AddExperience(p *types.Pokemon, amount int) (int, []string, bool) {
	sp, ok := g.Dex.Species[p.Species]
	if !ok || amount <= 0 {
		if amount > 0 {
			p.Experience += amount
		}
		return p.Level, nil, false
	}

	p.Experience += amount
	start := p.Level
	for p.Level < MaxLevel && p.Experience >= ExpForLevel(sp.GrowthRate, p.Level+1) {
		p.Level++
	}
	if p.Level == start {
		return p.Level, nil, false
	}

	oldMax := p.Stats.HP
	p.Stats = CalcStats(sp.Base, p.Level)
	if p.HP > 0 {
		p.HP += p.Stats.HP - oldMax
	}

	var moves []string
	for _, lm := range sp.Learnset {
		if lm.Level > start && lm.Level <= p.Level && !knows(p, lm.Move) {
			moves = append(moves, lm.Move)
		}
	}
	return p.Level, moves, true
}

// LearnMoves teaches moves into free slots. Moves that don't fit are
// returned as pending for an external move-replacement flow.
func (g *Progression) LearnMoves(p *types.Pokemon, moves []string) (learned, pending []string) {
	for _, id := range moves {
		if knows(p, id) {
			continue
		}
		if len(p.Moves) >= MaxMoves {
			pending = append(pending, id)
			continue
		}
		p.Moves = append(p.Moves, types.MoveInstance{Move: id, PP: g.Dex.Moves[id].PP})
		learned = append(learned, id)
	}
	return learned, pending
}

// NewPokemon creates a Pokémon at full health. With no explicit moves it
// knows the last MaxMoves moves of its learnset at or below level.
func NewPokemon(d *dex.Dex, species string, level int, moves []string) (*types.Pokemon, error) {
	sp, ok := d.Species[species]
	if !ok {
		return nil, fmt.Errorf("unknown species %q", species)
	}
	if level < 1 || level > MaxLevel {
		return nil, fmt.Errorf("species %q: level %d out of range", species, level)
	}

	if len(moves) == 0 {
		for _, lm := range sp.Learnset {
			if lm.Level <= level && !contains(moves, lm.Move) {
				moves = append(moves, lm.Move)
			}
		}
		if len(moves) > MaxMoves {
			moves = moves[len(moves)-MaxMoves:]
		}
	}

	p := &types.Pokemon{
		Species:    species,
		Level:      level,
		Experience: ExpForLevel(sp.GrowthRate, level),
		Stats:      CalcStats(sp.Base, level),
		Stages:     map[string]int{},
	}
	p.HP = p.Stats.HP
	for _, id := range moves {
		m, ok := d.Moves[id]
		if !ok {
			return nil, fmt.Errorf("species %q: unknown move %q", species, id)
		}
		p.Moves = append(p.Moves, types.MoveInstance{Move: id, PP: m.PP})
	}
	return p, nil
}

func knows(p *types.Pokemon, id string) bool {
	for _, m := range p.Moves {
		if m.Move == id {
			return true
		}
	}
	return contains(p.PendingMoves, id)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
