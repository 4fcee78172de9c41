// Package usage is the default move-effect engine: it evaluates a move
// against its resolved targets and reports a result per target without
// mutating anything.
package usage

import (
	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/progress"
	"github.com/nathoo/battlecore/types"
)

// DefaultCritChance applies when a move declares none.
const DefaultCritChance = 0.0417

// Source is the random stream the engine draws from.
type Source interface {
	Intn(n int) int
	Chance(p float64) bool
}

// Engine evaluates moves using dex data.
type Engine struct {
	Dex *dex.Dex
	RNG Source
}

// New creates a move engine.
func New(d *dex.Dex, rng Source) *Engine {
	return &Engine{Dex: d, RNG: rng}
}

// Use evaluates move for user against every target, in order.
func (e *Engine) Use(user *types.Pokemon, move types.MoveDef, targets []*types.Pokemon) []types.MoveResult {
	results := make([]types.MoveResult, len(targets))
	for i, t := range targets {
		if move.Accuracy > 0 && e.RNG.Intn(100) >= move.Accuracy {
			results[i] = types.MoveResult{Kind: types.ResultMiss}
			continue
		}

		switch move.Effect {
		case "damage", "":
			if move.Power <= 0 {
				results[i] = types.MoveResult{Kind: types.ResultTodo}
				continue
			}
			dmg, eff, crit := e.Damage(user, t, move)
			results[i] = types.MoveResult{Kind: types.ResultDamage, Amount: dmg, Effectiveness: eff, Critical: crit}

		case "drain":
			dmg, eff, crit := e.Damage(user, t, move)
			frac := move.Drain
			if frac <= 0 {
				frac = 0.5
			}
			heal := int(float64(dmg) * frac)
			if dmg > 0 && heal < 1 {
				heal = 1
			}
			results[i] = types.MoveResult{Kind: types.ResultDrain, Amount: dmg, Heal: heal, Effectiveness: eff, Critical: crit}

		case "status":
			results[i] = types.MoveResult{Kind: types.ResultStatus, Status: move.Status}

		case "stat_stage":
			results[i] = types.MoveResult{Kind: types.ResultStatStage, Stat: move.Stat, Stages: move.Stages}

		default:
			results[i] = types.MoveResult{Kind: types.ResultTodo}
		}
	}
	return results
}

// Damage computes the damage move deals from user to target.
func (e *Engine) Damage(user, target *types.Pokemon, move types.MoveDef) (int, float64, bool) {
	atkStat, defStat := "attack", "defense"
	if move.Category == "special" {
		atkStat, defStat = "sp_attack", "sp_defense"
	}
	atk := progress.EffectiveStat(user, atkStat)
	def := progress.EffectiveStat(target, defStat)
	if def < 1 {
		def = 1
	}

	base := (2*user.Level/5+2)*move.Power*atk/def/50 + 2

	stab := 1.0
	if sp, ok := e.Dex.Species[user.Species]; ok {
		for _, t := range sp.Types {
			if t == move.Type {
				stab = 1.5
				break
			}
		}
	}

	eff := 1.0
	if sp, ok := e.Dex.Species[target.Species]; ok {
		eff = e.Dex.Effectiveness(move.Type, sp.Types)
	}
	if eff == 0 {
		return 0, 0, false
	}

	chance := move.CritChance
	if chance == 0 {
		chance = DefaultCritChance
	}
	crit := e.RNG.Chance(chance)
	critMult := 1.0
	if crit {
		critMult = 1.5
	}

	spread := float64(85+e.RNG.Intn(16)) / 100
	dmg := int(float64(base) * stab * eff * critMult * spread)
	if dmg < 1 {
		dmg = 1
	}
	return dmg, eff, crit
}
