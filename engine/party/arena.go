package party

import "github.com/nathoo/battlecore/types"

// Arena owns both parties. Every combatant is addressed through it by a
// team-tagged index, so an action can read its user and write its targets
// without holding two parties at once.
type Arena struct {
	Player   *Party
	Opponent *Party
}

// Side returns the party of a team.
func (a *Arena) Side(t types.Team) *Party {
	if t == types.TeamPlayer {
		return a.Player
	}
	return a.Opponent
}

// Other returns the party facing a team.
func (a *Arena) Other(t types.Team) *Party {
	return a.Side(Opposite(t))
}

// Get returns the Pokémon at an index, or nil if the slot is empty.
func (a *Arena) Get(idx types.ActivePokemonIndex) *types.Pokemon {
	return a.Side(idx.Team).ActivePokemon(idx.Active)
}

// IsLive reports whether the Pokémon at an index can fight.
func (a *Arena) IsLive(idx types.ActivePokemonIndex) bool {
	return a.Side(idx.Team).IsLive(idx.Active)
}

// Live returns every live index of a team in slot order.
func (a *Arena) Live(t types.Team) []types.ActivePokemonIndex {
	var out []types.ActivePokemonIndex
	for _, i := range a.Side(t).LiveSlots() {
		out = append(out, types.ActivePokemonIndex{Team: t, Active: i})
	}
	return out
}

// Less orders indexes: team first (Player before Opponent), then slot.
func Less(a, b types.ActivePokemonIndex) bool {
	if a.Team != b.Team {
		return a.Team < b.Team
	}
	return a.Active < b.Active
}
