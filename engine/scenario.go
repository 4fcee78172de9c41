package engine

import (
	"fmt"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/progress"
	"github.com/nathoo/battlecore/types"
)

// FromDef builds the Setup for a battle scenario in d.
func FromDef(d *dex.Dex, id string) (Setup, error) {
	def, ok := d.Battles[id]
	if !ok {
		return Setup{}, fmt.Errorf("unknown battle %q", id)
	}

	var s Setup
	if def.Trainer != "" {
		tr, ok := d.Trainers[def.Trainer]
		if !ok {
			return Setup{}, fmt.Errorf("battle %q: unknown trainer %q", id, def.Trainer)
		}
		s.Trainer = &tr
	}

	var err error
	if s.Player, err = roster(d, def.Player); err != nil {
		return Setup{}, fmt.Errorf("battle %q player: %w", id, err)
	}
	if s.Opponent, err = roster(d, def.Opponent); err != nil {
		return Setup{}, fmt.Errorf("battle %q opponent: %w", id, err)
	}

	s.Bag = make(map[string]int, len(def.Bag))
	for item, n := range def.Bag {
		s.Bag[item] = n
	}
	return s, nil
}

func roster(d *dex.Dex, members []types.PartyMember) ([]*types.Pokemon, error) {
	out := make([]*types.Pokemon, 0, len(members))
	for _, m := range members {
		p, err := progress.NewPokemon(d, m.Species, m.Level, m.Moves)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
