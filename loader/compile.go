// Package loader loads Lua battle content into Go structs at startup.
// The Lua VM is discarded after loading; there is no Lua at runtime.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList reads a Lua array of strings, skipping anything else.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// intMap reads a Lua table of string keys to numbers.
func intMap(tbl *lua.LTable) map[string]int {
	m := map[string]int{}
	if tbl == nil {
		return m
	}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			m[string(ks)] = int(n)
		}
	})
	return m
}

// compile converts all collected Lua data into a Dex.
func compile(coll *collector) (*dex.Dex, error) {
	d := dex.New()

	if coll.typeChart != nil {
		d.TypeChart = compileTypeChart(coll.typeChart)
	}

	for _, raw := range coll.species {
		if _, dup := d.Species[raw.id]; dup {
			return nil, fmt.Errorf("duplicate species %q", raw.id)
		}
		d.Species[raw.id] = compileSpecies(raw)
	}
	for _, raw := range coll.moves {
		if _, dup := d.Moves[raw.id]; dup {
			return nil, fmt.Errorf("duplicate move %q", raw.id)
		}
		d.Moves[raw.id] = compileMove(raw)
	}
	for _, raw := range coll.items {
		if _, dup := d.Items[raw.id]; dup {
			return nil, fmt.Errorf("duplicate item %q", raw.id)
		}
		d.Items[raw.id] = compileItem(raw)
	}
	for _, raw := range coll.trainers {
		if _, dup := d.Trainers[raw.id]; dup {
			return nil, fmt.Errorf("duplicate trainer %q", raw.id)
		}
		d.Trainers[raw.id] = types.TrainerDef{
			ID:    raw.id,
			Name:  getString(raw.table, "name"),
			Worth: getInt(raw.table, "worth"),
			Badge: getString(raw.table, "badge"),
		}
	}
	for _, raw := range coll.battles {
		if _, dup := d.Battles[raw.id]; dup {
			return nil, fmt.Errorf("duplicate battle %q", raw.id)
		}
		b, err := compileBattle(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling battle %s: %w", raw.id, err)
		}
		d.Battles[raw.id] = b
	}
	return d, nil
}

func compileTypeChart(tbl *lua.LTable) map[string]map[string]float64 {
	chart := map[string]map[string]float64{}
	tbl.ForEach(func(k, v lua.LValue) {
		attacking, ok := k.(lua.LString)
		if !ok {
			return
		}
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		mults := map[string]float64{}
		row.ForEach(func(dk, dv lua.LValue) {
			if defending, ok := dk.(lua.LString); ok {
				if n, ok := dv.(lua.LNumber); ok {
					mults[string(defending)] = float64(n)
				}
			}
		})
		chart[string(attacking)] = mults
	})
	return chart
}

func compileStats(tbl *lua.LTable) types.Stats {
	if tbl == nil {
		return types.Stats{}
	}
	return types.Stats{
		HP:        getInt(tbl, "hp"),
		Attack:    getInt(tbl, "attack"),
		Defense:   getInt(tbl, "defense"),
		SpAttack:  getInt(tbl, "sp_attack"),
		SpDefense: getInt(tbl, "sp_defense"),
		Speed:     getInt(tbl, "speed"),
	}
}

func compileSpecies(raw rawDef) types.SpeciesDef {
	tbl := raw.table
	sp := types.SpeciesDef{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Types:      stringList(getTable(tbl, "types")),
		Base:       compileStats(getTable(tbl, "base")),
		BaseExp:    getInt(tbl, "base_exp"),
		GrowthRate: getString(tbl, "growth_rate"),
		CatchRate:  getInt(tbl, "catch_rate"),
	}
	if ls := getTable(tbl, "learnset"); ls != nil {
		for i := 1; i <= ls.MaxN(); i++ {
			entry, ok := ls.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			// Accept { level = 5, move = "x" } and { 5, "x" }.
			lm := types.LearnableMove{Level: getInt(entry, "level"), Move: getString(entry, "move")}
			if lm.Move == "" {
				if n, ok := entry.RawGetInt(1).(lua.LNumber); ok {
					lm.Level = int(n)
				}
				if s, ok := entry.RawGetInt(2).(lua.LString); ok {
					lm.Move = string(s)
				}
			}
			sp.Learnset = append(sp.Learnset, lm)
		}
		sort.SliceStable(sp.Learnset, func(i, j int) bool {
			return sp.Learnset[i].Level < sp.Learnset[j].Level
		})
	}
	return sp
}

func compileMove(raw rawDef) types.MoveDef {
	tbl := raw.table
	m := types.MoveDef{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Category:   getString(tbl, "category"),
		Type:       getString(tbl, "type"),
		Power:      getInt(tbl, "power"),
		Accuracy:   getInt(tbl, "accuracy"),
		PP:         getInt(tbl, "pp"),
		Priority:   getInt(tbl, "priority"),
		Target:     types.MoveTarget(getString(tbl, "target")),
		Effect:     getString(tbl, "effect"),
		Drain:      getNumber(tbl, "drain"),
		Status:     getString(tbl, "status"),
		Stat:       getString(tbl, "stat"),
		Stages:     getInt(tbl, "stages"),
		CritChance: getNumber(tbl, "crit_chance"),
	}
	if m.Target == "" {
		m.Target = types.MoveTargetOpponent
	}
	if m.Effect == "" {
		m.Effect = "damage"
	}
	return m
}

func compileItem(raw rawDef) types.ItemDef {
	tbl := raw.table
	it := types.ItemDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Usage:       getString(tbl, "usage"),
		Amount:      getInt(tbl, "amount"),
		Target:      types.MoveTarget(getString(tbl, "target")),
	}
	if it.Usage == "" {
		it.Usage = "none"
	}
	if it.Target == "" {
		switch it.Usage {
		case "pokeball":
			it.Target = types.MoveTargetOpponent
		case "revive":
			it.Target = types.MoveTargetTeam
		default:
			it.Target = types.MoveTargetUser
		}
	}
	return it
}

func compileParty(tbl *lua.LTable) ([]types.PartyMember, error) {
	if tbl == nil {
		return nil, nil
	}
	var out []types.PartyMember
	for i := 1; i <= tbl.MaxN(); i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("party entry %d is not a table", i)
		}
		out = append(out, types.PartyMember{
			Species: getString(entry, "species"),
			Level:   getInt(entry, "level"),
			Moves:   stringList(getTable(entry, "moves")),
		})
	}
	return out, nil
}

func compileBattle(raw rawDef) (types.BattleDef, error) {
	tbl := raw.table
	player, err := compileParty(getTable(tbl, "player"))
	if err != nil {
		return types.BattleDef{}, fmt.Errorf("player: %w", err)
	}
	opponent, err := compileParty(getTable(tbl, "opponent"))
	if err != nil {
		return types.BattleDef{}, fmt.Errorf("opponent: %w", err)
	}
	return types.BattleDef{
		ID:       raw.id,
		Trainer:  getString(tbl, "trainer"),
		Player:   player,
		Opponent: opponent,
		Bag:      intMap(getTable(tbl, "bag")),
	}, nil
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
