package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// TypeChart { attacking = { defending = multiplier } }
	L.SetGlobal("TypeChart", L.NewFunction(func(L *lua.LState) int {
		coll.typeChart = L.CheckTable(1)
		return 0
	}))

	curried(L, "Species", &coll.species)
	curried(L, "Move", &coll.moves)
	curried(L, "Item", &coll.items)
	curried(L, "Trainer", &coll.trainers)
	curried(L, "Battle", &coll.battles)

	// Learn(level, "move") builds a learnset entry.
	L.SetGlobal("Learn", L.NewFunction(func(L *lua.LState) int {
		level := L.CheckInt(1)
		move := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("level", lua.LNumber(level))
		tbl.RawSetString("move", lua.LString(move))
		L.Push(tbl)
		return 1
	}))
}

// curried registers Name "id" { ... }: Name("id") returns a function that
// takes the definition table.
func curried(L *lua.LState, name string, into *[]rawDef) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*into = append(*into, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}
