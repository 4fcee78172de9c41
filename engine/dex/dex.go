// Package dex holds the immutable battle content loaded from Lua: species,
// moves, items, trainers, battle scenarios and the type chart.
package dex

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/battlecore/types"
)

// Dex holds the immutable content definitions.
type Dex struct {
	Species   map[string]types.SpeciesDef
	Moves     map[string]types.MoveDef
	Items     map[string]types.ItemDef
	Trainers  map[string]types.TrainerDef
	Battles   map[string]types.BattleDef
	TypeChart map[string]map[string]float64 // attacking type → defending type → multiplier
}

// New returns an empty Dex with all maps allocated.
func New() *Dex {
	return &Dex{
		Species:   map[string]types.SpeciesDef{},
		Moves:     map[string]types.MoveDef{},
		Items:     map[string]types.ItemDef{},
		Trainers:  map[string]types.TrainerDef{},
		Battles:   map[string]types.BattleDef{},
		TypeChart: map[string]map[string]float64{},
	}
}

// Move returns the definition behind a Pokémon's move slot.
func (d *Dex) Move(p *types.Pokemon, slot int) (types.MoveDef, bool) {
	if p == nil || slot < 0 || slot >= len(p.Moves) {
		return types.MoveDef{}, false
	}
	m, ok := d.Moves[p.Moves[slot].Move]
	return m, ok
}

// Struggle is used in place of the chosen move once a Pokémon has no PP
// left in any slot. It is typeless and costs the user recoil.
var Struggle = types.MoveDef{
	ID:       "struggle",
	Name:     "Struggle",
	Category: "physical",
	Power:    50,
	Target:   types.MoveTargetOpponent,
	Effect:   "damage",
}

// HasPP reports whether any of the Pokémon's moves can still be used.
func HasPP(p *types.Pokemon) bool {
	if p == nil {
		return false
	}
	for _, m := range p.Moves {
		if m.PP > 0 {
			return true
		}
	}
	return false
}

// Priority returns the priority tier of a Pokémon's move slot, 0 if unknown.
func (d *Dex) Priority(p *types.Pokemon, slot int) int {
	m, ok := d.Move(p, slot)
	if !ok {
		return 0
	}
	return m.Priority
}

// Effectiveness multiplies the chart entries of moveType against every
// defending type. Missing entries count as neutral.
func (d *Dex) Effectiveness(moveType string, defending []string) float64 {
	mult := 1.0
	row, ok := d.TypeChart[moveType]
	if !ok {
		return mult
	}
	for _, t := range defending {
		if m, ok := row[t]; ok {
			mult *= m
		}
	}
	return mult
}

// PokemonName returns the nickname, or the species display name.
func (d *Dex) PokemonName(p *types.Pokemon) string {
	if p == nil {
		return ""
	}
	if p.Nickname != "" {
		return p.Nickname
	}
	if s, ok := d.Species[p.Species]; ok && s.Name != "" {
		return s.Name
	}
	return Title(p.Species)
}

// MoveName returns the display name of a move ID.
func (d *Dex) MoveName(id string) string {
	if m, ok := d.Moves[id]; ok && m.Name != "" {
		return m.Name
	}
	return Title(id)
}

// ItemName returns the display name of an item ID.
func (d *Dex) ItemName(id string) string {
	if it, ok := d.Items[id]; ok && it.Name != "" {
		return it.Name
	}
	return Title(id)
}

// Title derives a display name from an ID.
// "thunder_shock" -> "Thunder Shock".
func Title(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}
