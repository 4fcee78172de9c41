package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/target"
	"github.com/nathoo/battlecore/types"
)

// ErrRun is returned by ParseCommand for the run command, which is not a
// selection and must be handled by the caller.
var ErrRun = errors.New("run")

// ParseCommand turns one line of player input into a selection for the
// Pokémon in active slot active. Numbers typed by the player are 1-based.
//
//	move N [T]   use move N, aimed at target T
//	item ID [T]  use an item from the bag; T is a party member for revives
//	switch N     send in party member N
//	run          flee (returns ErrRun)
//
// A bare number is shorthand for move N.
func ParseCommand(d *dex.Dex, own, opp *party.Party, active int, input string) (types.BattleMove, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return types.BattleMove{}, errors.New("empty command")
	}
	if _, err := strconv.Atoi(fields[0]); err == nil {
		fields = append([]string{"move"}, fields...)
	}

	verb, args := fields[0], fields[1:]
	switch verb {
	case "move", "m", "fight":
		return parseMove(d, own, opp, active, args)
	case "item", "i", "bag":
		return parseItem(d, own, opp, active, args)
	case "switch", "s":
		return parseSwitch(own, args)
	case "run", "r":
		return types.BattleMove{}, ErrRun
	}
	return types.BattleMove{}, fmt.Errorf("unknown command %q", verb)
}

// ParseReplacement reads the party member to send in after a faint.
// Accepts "switch N" or a bare N.
func ParseReplacement(own *party.Party, input string) (int, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) > 0 && (fields[0] == "switch" || fields[0] == "s") {
		fields = fields[1:]
	}
	bm, err := parseSwitch(own, fields)
	if err != nil {
		return 0, err
	}
	return bm.Switch, nil
}

func parseMove(d *dex.Dex, own, opp *party.Party, active int, args []string) (types.BattleMove, error) {
	if len(args) == 0 {
		return types.BattleMove{}, errors.New("which move? (move N)")
	}
	p := own.ActivePokemon(active)
	if p == nil {
		return types.BattleMove{}, errors.New("no Pokémon in that slot")
	}
	n, err := index(args[0], len(p.Moves))
	if err != nil {
		return types.BattleMove{}, fmt.Errorf("move: %w", err)
	}
	if p.Moves[n].PP <= 0 && dex.HasPP(p) {
		return types.BattleMove{}, fmt.Errorf("no PP left for %s", d.MoveName(p.Moves[n].Move))
	}
	mt := types.MoveTargetOpponent
	if def, ok := d.Move(p, n); ok && def.Target != "" {
		mt = def.Target
	}
	t, err := aim(own, opp, active, mt, args[1:])
	if err != nil {
		return types.BattleMove{}, err
	}
	return types.BattleMove{Kind: types.BattleMoveMove, Move: n, Target: t}, nil
}

func parseItem(d *dex.Dex, own, opp *party.Party, active int, args []string) (types.BattleMove, error) {
	if len(args) == 0 {
		return types.BattleMove{}, errors.New("which item? (item ID)")
	}
	id := args[0]
	def, ok := d.Items[id]
	if !ok {
		return types.BattleMove{}, fmt.Errorf("unknown item %q", id)
	}
	if own.Bag[id] <= 0 {
		return types.BattleMove{}, fmt.Errorf("no %s left", d.ItemName(id))
	}
	if def.Usage == "revive" {
		slot, err := fainted(own, args[1:])
		if err != nil {
			return types.BattleMove{}, err
		}
		return types.BattleMove{Kind: types.BattleMoveItem, Item: id, Target: target.Instance(types.MoveTargetTeam, slot)}, nil
	}
	t, err := aim(own, opp, active, def.Target, args[1:])
	if err != nil {
		return types.BattleMove{}, err
	}
	return types.BattleMove{Kind: types.BattleMoveItem, Item: id, Target: t}, nil
}

// fainted picks the party member to revive, defaulting to the first
// fainted one.
func fainted(own *party.Party, args []string) (int, error) {
	if len(args) > 0 {
		n, err := index(args[0], len(own.Pokemon))
		if err != nil {
			return 0, fmt.Errorf("target: %w", err)
		}
		if own.Pokemon[n] == nil || !party.Fainted(own.Pokemon[n]) {
			return 0, fmt.Errorf("party member %d has not fainted", n+1)
		}
		return n, nil
	}
	for i, pk := range own.Pokemon {
		if pk != nil && party.Fainted(pk) {
			return i, nil
		}
	}
	return 0, errors.New("no fainted Pokémon to revive")
}

func parseSwitch(own *party.Party, args []string) (types.BattleMove, error) {
	if len(args) == 0 {
		return types.BattleMove{}, errors.New("switch to whom? (switch N)")
	}
	n, err := index(args[0], len(own.Pokemon))
	if err != nil {
		return types.BattleMove{}, fmt.Errorf("switch: %w", err)
	}
	if !own.CanSwitchTo(n) {
		return types.BattleMove{}, fmt.Errorf("party member %d can't battle", n+1)
	}
	return types.BattleMove{Kind: types.BattleMoveSwitch, Switch: n}, nil
}

// aim picks the target slot. Opponent targets default to the first live
// foe, team targets to the acting slot.
func aim(own, opp *party.Party, active int, mt types.MoveTarget, args []string) (types.MoveTargetInstance, error) {
	slot := active
	switch mt {
	case types.MoveTargetOpponent:
		slot = 0
		if live := opp.LiveSlots(); len(live) > 0 {
			slot = live[0]
		}
		if len(args) > 0 {
			n, err := index(args[0], len(opp.Active))
			if err != nil {
				return types.MoveTargetInstance{}, fmt.Errorf("target: %w", err)
			}
			slot = n
		}
	case types.MoveTargetTeam:
		if len(args) > 0 {
			n, err := index(args[0], len(own.Active))
			if err != nil {
				return types.MoveTargetInstance{}, fmt.Errorf("target: %w", err)
			}
			slot = n
		}
	}
	return target.Instance(mt, slot), nil
}

// index parses a 1-based number and returns it 0-based.
func index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%d out of range 1-%d", i, n)
	}
	return i - 1, nil
}
