package loader

import (
	"testing"

	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/types"
)

// validDex returns a minimal valid Dex for testing.
func validDex() *dex.Dex {
	d := dex.New()
	d.Moves["tackle"] = types.MoveDef{ID: "tackle", Power: 40, Accuracy: 100, PP: 35, Target: types.MoveTargetOpponent, Effect: "damage"}
	d.Species["rattata"] = types.SpeciesDef{
		ID:       "rattata",
		Name:     "Rattata",
		Base:     types.Stats{HP: 30},
		Learnset: []types.LearnableMove{{Level: 1, Move: "tackle"}},
	}
	d.Items["potion"] = types.ItemDef{ID: "potion", Usage: "heal", Amount: 20, Target: types.MoveTargetUser}
	d.Trainers["joey"] = types.TrainerDef{ID: "joey", Name: "Joey", Worth: 80}
	d.Battles["b"] = types.BattleDef{
		ID:       "b",
		Trainer:  "joey",
		Player:   []types.PartyMember{{Species: "rattata", Level: 5}},
		Opponent: []types.PartyMember{{Species: "rattata", Level: 3, Moves: []string{"tackle"}}},
		Bag:      map[string]int{"potion": 1},
	}
	return d
}

func mustFail(t *testing.T, d *dex.Dex) *ValidationError {
	t.Helper()
	err := validate(d)
	if err == nil {
		t.Fatal("expected validation error")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve
}

func TestValidate_Valid(t *testing.T) {
	if err := validate(validDex()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_StatStage(t *testing.T) {
	d := validDex()
	d.Moves["growl"] = types.MoveDef{ID: "growl", PP: 40, Target: types.MoveTargetOpponents, Effect: "stat_stage", Stat: "charm", Stages: 9}

	ve := mustFail(t, d)
	assertContains(t, ve.Errors, `move "growl": unknown stat "charm"`)
	assertContains(t, ve.Errors, "stages 9 out of range")
}

func TestValidate_StatusNeedsStatus(t *testing.T) {
	d := validDex()
	d.Moves["wave"] = types.MoveDef{ID: "wave", PP: 20, Target: types.MoveTargetOpponent, Effect: "status"}

	ve := mustFail(t, d)
	assertContains(t, ve.Errors, "status effect without a status")
}

func TestValidate_UnknownEffectIsWarning(t *testing.T) {
	d := validDex()
	d.Moves["bind"] = types.MoveDef{ID: "bind", PP: 20, Target: types.MoveTargetOpponent, Effect: "trap"}

	if err := validate(d); err != nil {
		t.Fatalf("unknown effects should only warn, got: %v", err)
	}
}

func TestValidate_BattleParty(t *testing.T) {
	d := validDex()
	b := d.Battles["b"]
	for i := 0; i < 7; i++ {
		b.Opponent = append(b.Opponent, types.PartyMember{Species: "rattata", Level: 2})
	}
	b.Player[0].Moves = []string{"tackle", "tackle", "tackle", "tackle", "ember"}
	b.Bag["potion"] = 0
	d.Battles["b"] = b

	ve := mustFail(t, d)
	assertContains(t, ve.Errors, "opponent party has 8 pokemon, max 6")
	assertContains(t, ve.Errors, "player[0] knows 5 moves, max 4")
	assertContains(t, ve.Errors, `player[0] references undefined move "ember"`)
	assertContains(t, ve.Errors, `bag item "potion" count must be positive`)
}

func TestValidate_TypeChart(t *testing.T) {
	d := validDex()
	d.TypeChart["fire"] = map[string]float64{"water": -1}

	ve := mustFail(t, d)
	assertContains(t, ve.Errors, "type chart fire -> water: negative multiplier")
}

func TestValidate_NegativeWorth(t *testing.T) {
	d := validDex()
	d.Trainers["joey"] = types.TrainerDef{ID: "joey", Name: "Joey", Worth: -5}

	ve := mustFail(t, d)
	assertContains(t, ve.Errors, `trainer "joey": worth must not be negative`)
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []string{"a", "b"}}
	want := "validation failed with 2 error(s):\n  a\n  b"
	if ve.Error() != want {
		t.Errorf("Error() = %q, want %q", ve.Error(), want)
	}
}
