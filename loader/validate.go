package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/progress"
	"github.com/nathoo/battlecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var validTargets = map[types.MoveTarget]bool{
	types.MoveTargetUser:       true,
	types.MoveTargetOpponent:   true,
	types.MoveTargetTeam:       true,
	types.MoveTargetOpponents:  true,
	types.MoveTargetAllButUser: true,
}

var validGrowthRates = map[string]bool{
	"":            true,
	"fast":        true,
	"medium_fast": true,
	"medium_slow": true,
	"slow":        true,
}

// Effects the move engine resolves. Anything else is reported in battle
// as unimplemented.
var knownEffects = map[string]bool{
	"damage":     true,
	"drain":      true,
	"status":     true,
	"stat_stage": true,
}

var validUsages = map[string]bool{
	"pokeball": true,
	"heal":     true,
	"revive":   true,
	"cure":     true,
	"none":     true,
}

var validStats = map[string]bool{
	"attack":     true,
	"defense":    true,
	"sp_attack":  true,
	"sp_defense": true,
	"speed":      true,
}

// validate checks the compiled dex for referential integrity and ranges.
func validate(d *dex.Dex) error {
	ve := &ValidationError{}

	for _, id := range sortedKeys(d.Species) {
		sp := d.Species[id]
		if sp.Base.HP <= 0 {
			ve.errorf("species %q: base hp must be positive", id)
		}
		if !validGrowthRates[sp.GrowthRate] {
			ve.errorf("species %q: unknown growth rate %q", id, sp.GrowthRate)
		}
		if sp.Name == "" {
			ve.warnf("species %q has no name", id)
		}
		for _, lm := range sp.Learnset {
			if _, ok := d.Moves[lm.Move]; !ok {
				ve.errorf("species %q learnset references undefined move %q", id, lm.Move)
			}
			if lm.Level < 1 || lm.Level > progress.MaxLevel {
				ve.errorf("species %q learnset level %d out of range", id, lm.Level)
			}
		}
		if len(d.TypeChart) > 0 {
			for _, t := range sp.Types {
				if !knownType(d, t) {
					ve.warnf("species %q type %q is not in the type chart", id, t)
				}
			}
		}
	}

	for _, id := range sortedKeys(d.Moves) {
		m := d.Moves[id]
		if !validTargets[m.Target] {
			ve.errorf("move %q: unknown target %q", id, m.Target)
		}
		if m.Accuracy < 0 || m.Accuracy > 100 {
			ve.errorf("move %q: accuracy %d out of range 0-100", id, m.Accuracy)
		}
		if m.PP <= 0 {
			ve.errorf("move %q: pp must be positive", id)
		}
		if m.Drain < 0 || m.Drain > 1 {
			ve.errorf("move %q: drain %.2f out of range 0-1", id, m.Drain)
		}
		if m.CritChance < 0 || m.CritChance > 1 {
			ve.errorf("move %q: crit_chance %.2f out of range 0-1", id, m.CritChance)
		}
		if !knownEffects[m.Effect] {
			ve.warnf("move %q: effect %q will resolve as unimplemented", id, m.Effect)
		}
		if m.Effect == "stat_stage" {
			if !validStats[m.Stat] {
				ve.errorf("move %q: unknown stat %q", id, m.Stat)
			}
			if m.Stages == 0 || m.Stages < -6 || m.Stages > 6 {
				ve.errorf("move %q: stages %d out of range -6..6", id, m.Stages)
			}
		}
		if m.Effect == "status" && m.Status == "" {
			ve.errorf("move %q: status effect without a status", id)
		}
	}

	for _, id := range sortedKeys(d.Items) {
		it := d.Items[id]
		if !validUsages[it.Usage] {
			ve.errorf("item %q: unknown usage %q", id, it.Usage)
		}
		if !validTargets[it.Target] {
			ve.errorf("item %q: unknown target %q", id, it.Target)
		}
		if it.Amount < 0 {
			ve.errorf("item %q: amount must not be negative", id)
		}
	}

	for _, id := range sortedKeys(d.Trainers) {
		tr := d.Trainers[id]
		if tr.Worth < 0 {
			ve.errorf("trainer %q: worth must not be negative", id)
		}
		if tr.Name == "" {
			ve.warnf("trainer %q has no name", id)
		}
	}

	for attacking, row := range d.TypeChart {
		for defending, mult := range row {
			if mult < 0 {
				ve.errorf("type chart %s -> %s: negative multiplier", attacking, defending)
			}
		}
	}

	for _, id := range sortedKeys(d.Battles) {
		validateBattle(d, d.Battles[id], ve)
	}

	for _, w := range ve.Warnings {
		log.Warn().Msg(w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateBattle(d *dex.Dex, b types.BattleDef, ve *ValidationError) {
	if b.Trainer != "" {
		if _, ok := d.Trainers[b.Trainer]; !ok {
			ve.errorf("battle %q references undefined trainer %q", b.ID, b.Trainer)
		}
	}
	validateParty(d, b.ID, "player", b.Player, ve)
	validateParty(d, b.ID, "opponent", b.Opponent, ve)
	for item, n := range b.Bag {
		if _, ok := d.Items[item]; !ok {
			ve.errorf("battle %q bag references undefined item %q", b.ID, item)
		}
		if n <= 0 {
			ve.errorf("battle %q bag item %q count must be positive", b.ID, item)
		}
	}
}

func validateParty(d *dex.Dex, battle, side string, members []types.PartyMember, ve *ValidationError) {
	if len(members) == 0 {
		ve.errorf("battle %q: %s party is empty", battle, side)
	}
	if len(members) > party.MaxSize {
		ve.errorf("battle %q: %s party has %d pokemon, max %d", battle, side, len(members), party.MaxSize)
	}
	for i, m := range members {
		if _, ok := d.Species[m.Species]; !ok {
			ve.errorf("battle %q: %s[%d] references undefined species %q", battle, side, i, m.Species)
		}
		if m.Level < 1 || m.Level > progress.MaxLevel {
			ve.errorf("battle %q: %s[%d] level %d out of range", battle, side, i, m.Level)
		}
		if len(m.Moves) > progress.MaxMoves {
			ve.errorf("battle %q: %s[%d] knows %d moves, max %d", battle, side, i, len(m.Moves), progress.MaxMoves)
		}
		for _, mv := range m.Moves {
			if _, ok := d.Moves[mv]; !ok {
				ve.errorf("battle %q: %s[%d] references undefined move %q", battle, side, i, mv)
			}
		}
	}
}

func knownType(d *dex.Dex, t string) bool {
	if _, ok := d.TypeChart[t]; ok {
		return true
	}
	for _, row := range d.TypeChart {
		if _, ok := row[t]; ok {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
