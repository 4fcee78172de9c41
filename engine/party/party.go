// Package party holds both sides of a battle: each side's roster, its
// active slots and its bag, and the arena that addresses combatants by
// team-tagged index.
package party

import (
	"errors"

	"github.com/nathoo/battlecore/types"
)

// MaxSize is the roster capacity of a party.
const MaxSize = 6

// ErrPartyFull is returned by TryPush when the roster is at capacity.
var ErrPartyFull = errors.New("party is full")

// Active is one battling position.
type Active struct {
	Slot    int               // roster index, -1 when empty
	Queued  *types.BattleMove // choice for the current turn
	replace *int              // deferred replacement, applied by RunReplace
}

// Party is one side's roster plus its active slots.
type Party struct {
	Team    types.Team
	Pokemon []*types.Pokemon // nil entries were removed (captured)
	Active  []Active
	Bag     map[string]int
}

// New builds a party and fills up to activeCount slots with the first
// Pokémon able to fight, in roster order.
func New(team types.Team, roster []*types.Pokemon, activeCount int, bag map[string]int) *Party {
	p := &Party{
		Team:    team,
		Pokemon: roster,
		Active:  make([]Active, activeCount),
		Bag:     bag,
	}
	if p.Bag == nil {
		p.Bag = map[string]int{}
	}
	next := 0
	for i := range p.Active {
		p.Active[i].Slot = -1
		for next < len(roster) {
			cand := next
			next++
			if roster[cand] != nil && !Fainted(roster[cand]) {
				p.Active[i].Slot = cand
				break
			}
		}
	}
	return p
}

// Fainted reports whether a Pokémon has no HP left.
func Fainted(p *types.Pokemon) bool {
	return p == nil || p.HP <= 0
}

// Opposite returns the other team.
func Opposite(t types.Team) types.Team {
	if t == types.TeamPlayer {
		return types.TeamOpponent
	}
	return types.TeamPlayer
}

// ActivePokemon returns the Pokémon in an active slot, or nil.
func (p *Party) ActivePokemon(active int) *types.Pokemon {
	if active < 0 || active >= len(p.Active) {
		return nil
	}
	slot := p.Active[active].Slot
	if slot < 0 || slot >= len(p.Pokemon) {
		return nil
	}
	return p.Pokemon[slot]
}

// IsLive reports whether an active slot holds a Pokémon able to fight.
func (p *Party) IsLive(active int) bool {
	return !Fainted(p.ActivePokemon(active))
}

// LiveSlots returns the active indexes holding a Pokémon able to fight.
func (p *Party) LiveSlots() []int {
	var out []int
	for i := range p.Active {
		if p.IsLive(i) {
			out = append(out, i)
		}
	}
	return out
}

// Remaining returns the number of Pokémon still in the roster.
func (p *Party) Remaining() int {
	n := 0
	for _, pk := range p.Pokemon {
		if pk != nil {
			n++
		}
	}
	return n
}

// AllFainted reports whether no rostered Pokémon can fight.
// A roster emptied by capture counts as all fainted.
func (p *Party) AllFainted() bool {
	for _, pk := range p.Pokemon {
		if !Fainted(pk) {
			return false
		}
	}
	return true
}

// Defeated reports whether the side lost by fainting: at least one
// Pokémon remains and none of them can fight.
func (p *Party) Defeated() bool {
	return p.Remaining() > 0 && p.AllFainted()
}

// isActive reports whether a roster index occupies an active slot or is
// already promised to one.
func (p *Party) isActive(slot int) bool {
	for _, a := range p.Active {
		if a.Slot == slot {
			return true
		}
		if a.replace != nil && *a.replace == slot {
			return true
		}
	}
	return false
}

// Bench returns roster indexes that could be sent in: able to fight and
// not already active or queued to replace.
func (p *Party) Bench() []int {
	var out []int
	for i, pk := range p.Pokemon {
		if !Fainted(pk) && !p.isActive(i) {
			out = append(out, i)
		}
	}
	return out
}

// AnyInactive reports whether a benched Pokémon could replace a fainted one.
func (p *Party) AnyInactive() bool {
	return len(p.Bench()) > 0
}

// CanSwitchTo reports whether slot is a valid switch-in target.
func (p *Party) CanSwitchTo(slot int) bool {
	if slot < 0 || slot >= len(p.Pokemon) {
		return false
	}
	return !Fainted(p.Pokemon[slot]) && !p.isActive(slot)
}

// Replace puts roster slot into an active position immediately.
func (p *Party) Replace(active, slot int) {
	if active < 0 || active >= len(p.Active) {
		return
	}
	p.Active[active].Slot = slot
	p.Active[active].replace = nil
}

// QueueReplace records a replacement to apply at the end of the turn.
func (p *Party) QueueReplace(active, slot int) {
	if active < 0 || active >= len(p.Active) {
		return
	}
	s := slot
	p.Active[active].replace = &s
}

// PendingReplace reports whether an active slot has a queued replacement.
func (p *Party) PendingReplace(active int) bool {
	return active >= 0 && active < len(p.Active) && p.Active[active].replace != nil
}

// RunReplace applies every queued replacement. It returns the active
// indexes that changed.
func (p *Party) RunReplace() []int {
	var changed []int
	for i := range p.Active {
		if r := p.Active[i].replace; r != nil {
			p.Active[i].Slot = *r
			p.Active[i].replace = nil
			changed = append(changed, i)
		}
	}
	return changed
}

// Remove empties an active slot without touching the roster.
func (p *Party) Remove(active int) {
	if active < 0 || active >= len(p.Active) {
		return
	}
	p.Active[active].Slot = -1
	p.Active[active].Queued = nil
}

// Take removes the Pokémon in an active slot from the roster and empties
// the slot. Returns nil if the slot was empty.
func (p *Party) Take(active int) *types.Pokemon {
	pk := p.ActivePokemon(active)
	if pk == nil {
		return nil
	}
	p.Pokemon[p.Active[active].Slot] = nil
	p.Remove(active)
	return pk
}

// TryPush appends a Pokémon to the roster, reusing a removed entry first.
func (p *Party) TryPush(pk *types.Pokemon) error {
	for i, existing := range p.Pokemon {
		if existing == nil && !p.isActive(i) {
			p.Pokemon[i] = pk
			return nil
		}
	}
	if len(p.Pokemon) >= MaxSize {
		return ErrPartyFull
	}
	p.Pokemon = append(p.Pokemon, pk)
	return nil
}

// UseItem consumes one of an item from the bag. Returns false if none left.
func (p *Party) UseItem(id string) bool {
	if p.Bag[id] <= 0 {
		return false
	}
	p.Bag[id]--
	if p.Bag[id] == 0 {
		delete(p.Bag, id)
	}
	return true
}

// Survivors returns the rostered Pokémon in order, skipping removed entries.
func (p *Party) Survivors() []*types.Pokemon {
	var out []*types.Pokemon
	for _, pk := range p.Pokemon {
		if pk != nil {
			out = append(out, pk)
		}
	}
	return out
}
