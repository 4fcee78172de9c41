package dex

import (
	"testing"

	"github.com/nathoo/battlecore/types"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"tackle", "Tackle"},
		{"thunder_shock", "Thunder Shock"},
		{"poke_ball", "Poke Ball"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Title(tt.id); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestEffectiveness(t *testing.T) {
	d := New()
	d.TypeChart["water"] = map[string]float64{"fire": 2, "grass": 0.5}

	tests := []struct {
		move string
		def  []string
		want float64
	}{
		{"water", []string{"fire"}, 2},
		{"water", []string{"grass"}, 0.5},
		{"water", []string{"fire", "grass"}, 1},
		{"water", []string{"normal"}, 1},
		{"normal", []string{"fire"}, 1},
	}
	for _, tt := range tests {
		if got := d.Effectiveness(tt.move, tt.def); got != tt.want {
			t.Errorf("Effectiveness(%s, %v) = %v, want %v", tt.move, tt.def, got, tt.want)
		}
	}
}

func TestPokemonName(t *testing.T) {
	d := New()
	d.Species["pidgey"] = types.SpeciesDef{ID: "pidgey", Name: "Pidgey"}

	if got := d.PokemonName(&types.Pokemon{Species: "pidgey"}); got != "Pidgey" {
		t.Errorf("got %q, want Pidgey", got)
	}
	if got := d.PokemonName(&types.Pokemon{Species: "pidgey", Nickname: "Birb"}); got != "Birb" {
		t.Errorf("got %q, want Birb", got)
	}
	if got := d.PokemonName(&types.Pokemon{Species: "mr_mime"}); got != "Mr Mime" {
		t.Errorf("got %q, want Mr Mime", got)
	}
}

func TestMoveLookup(t *testing.T) {
	d := New()
	d.Moves["quick_attack"] = types.MoveDef{ID: "quick_attack", Priority: 1}
	p := &types.Pokemon{Moves: []types.MoveInstance{{Move: "quick_attack", PP: 30}}}

	if _, ok := d.Move(p, 0); !ok {
		t.Fatal("expected move in slot 0")
	}
	if _, ok := d.Move(p, 1); ok {
		t.Error("expected no move in slot 1")
	}
	if got := d.Priority(p, 0); got != 1 {
		t.Errorf("Priority = %d, want 1", got)
	}
	if got := d.Priority(p, 5); got != 0 {
		t.Errorf("Priority out of range = %d, want 0", got)
	}
}

func TestHasPP(t *testing.T) {
	p := &types.Pokemon{Moves: []types.MoveInstance{{Move: "tackle", PP: 0}, {Move: "growl", PP: 1}}}
	if !HasPP(p) {
		t.Error("expected PP left in growl")
	}
	p.Moves[1].PP = 0
	if HasPP(p) {
		t.Error("expected no PP left")
	}
	if HasPP(nil) {
		t.Error("nil Pokémon has no PP")
	}
}
