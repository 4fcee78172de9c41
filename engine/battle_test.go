package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/battlecore/engine/client"
	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/engine/present"
	"github.com/nathoo/battlecore/engine/progress"
	"github.com/nathoo/battlecore/engine/rng"
	"github.com/nathoo/battlecore/types"
)

// flatDamage deals the same damage to every target.
type flatDamage int

func (f flatDamage) Use(_ *types.Pokemon, _ types.MoveDef, targets []*types.Pokemon) []types.MoveResult {
	out := make([]types.MoveResult, len(targets))
	for i := range out {
		out[i] = types.MoveResult{Kind: types.ResultDamage, Amount: int(f), Effectiveness: 1}
	}
	return out
}

func testDex() *dex.Dex {
	d := dex.New()
	d.Species["pikachu"] = types.SpeciesDef{
		ID: "pikachu", Name: "Pikachu", Types: []string{"electric"}, BaseExp: 112,
		Base:     types.Stats{HP: 35, Attack: 55, Defense: 40, SpAttack: 50, SpDefense: 50, Speed: 90},
		Learnset: []types.LearnableMove{{Level: 1, Move: "thunder_shock"}, {Level: 1, Move: "tackle"}},
	}
	d.Species["rattata"] = types.SpeciesDef{
		ID: "rattata", Name: "Rattata", Types: []string{"normal"}, BaseExp: 51,
		Base:     types.Stats{HP: 30, Attack: 56, Defense: 35, SpAttack: 25, SpDefense: 35, Speed: 72},
		Learnset: []types.LearnableMove{{Level: 1, Move: "tackle"}},
	}
	d.Moves["thunder_shock"] = types.MoveDef{ID: "thunder_shock", Name: "Thunder Shock", Category: "special", Type: "electric",
		Power: 40, Accuracy: 100, PP: 30, Target: types.MoveTargetOpponent}
	d.Moves["tackle"] = types.MoveDef{ID: "tackle", Name: "Tackle", Category: "physical", Type: "normal",
		Power: 40, Accuracy: 100, PP: 35, Target: types.MoveTargetOpponent}
	d.Items["poke_ball"] = types.ItemDef{ID: "poke_ball", Name: "Poké Ball", Usage: "pokeball", Target: types.MoveTargetOpponent}
	d.Trainers["rival"] = types.TrainerDef{ID: "rival", Name: "Gary", Worth: 350}
	d.Trainers["brock"] = types.TrainerDef{ID: "brock", Name: "Brock", Worth: 1386, Badge: "boulder"}
	return d
}

func mon(t *testing.T, d *dex.Dex, species string, level int, nickname string) *types.Pokemon {
	t.Helper()
	p, err := progress.NewPokemon(d, species, level, nil)
	require.NoError(t, err)
	p.Nickname = nickname
	return p
}

func attack(foe int) types.BattleMove {
	return types.BattleMove{Kind: types.BattleMoveMove, Move: 0, Target: types.MoveTargetInstance{Kind: types.TargetOpponent, Index: foe}}
}

func throwBall() types.BattleMove {
	return types.BattleMove{Kind: types.BattleMoveItem, Item: "poke_ball", Target: types.MoveTargetInstance{Kind: types.TargetOpponent}}
}

func trainer(d *dex.Dex, id string) *types.TrainerDef {
	tr := d.Trainers[id]
	return &tr
}

// drive updates b until done reports true or the tick budget runs out.
func drive(t *testing.T, b *Battle, done func() bool) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if done() {
			return
		}
		b.Update(0.1)
	}
	t.Fatalf("battle stuck in %s/%s", b.Phase(), b.Step())
}

func nextSelecting(b *Battle) func() bool {
	start := b.Turns()
	return func() bool { return b.Phase() == PhaseSelecting && b.Turns() > start && b.started }
}

func TestNew_Errors(t *testing.T) {
	d := testDex()
	ai := client.NewAI(d, rng.New(1))

	b, err := New(d, Setup{Opponent: []*types.Pokemon{mon(t, d, "rattata", 3, "")}}, ai, ai, nil, Options{})
	assert.Nil(t, b)
	assert.ErrorIs(t, err, ErrNoPokemon)

	fainted := mon(t, d, "pikachu", 5, "")
	fainted.HP = 0
	b, err = New(d, Setup{Player: []*types.Pokemon{fainted}, Opponent: []*types.Pokemon{mon(t, d, "rattata", 3, "")}}, ai, ai, nil, Options{})
	assert.Nil(t, b)
	assert.True(t, errors.Is(err, ErrNoHealthyPokemon))
}

func TestBattleTypeFor(t *testing.T) {
	d := testDex()
	assert.Equal(t, types.BattleWild, BattleTypeFor(nil))
	assert.Equal(t, types.BattleTrainer, BattleTypeFor(trainer(d, "rival")))
	assert.Equal(t, types.BattleGymLeader, BattleTypeFor(trainer(d, "brock")))
}

// Player is faster and lands a lethal hit on turn one.
func TestScenario_FasterLethalMoveWins(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	b, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
	}, player, opponent, nil, Options{Moves: flatDamage(999)})
	require.NoError(t, err)
	assert.Equal(t, PhaseSelecting, b.Phase())
	exp := b.Arena.Player.Pokemon[0].Experience

	drive(t, b, b.Finished)
	require.NotNil(t, b.Winner())
	assert.Equal(t, types.TeamPlayer, *b.Winner())
	assert.Equal(t, 1, b.Turns())
	assert.Contains(t, b.Transcript(), "Wild Rattata fainted!")
	assert.NotContains(t, b.Transcript(), "Wild Rattata used Tackle!")
	pk := b.Arena.Player.Pokemon[0]
	assert.Equal(t, pk.Stats.HP, pk.HP, "opponent never acted")
	assert.Equal(t, exp+252, pk.Experience)
}

// A target that fainted earlier in the turn is replaced by a live one.
func TestScenario_FaintedTargetRerolls(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{attack(0), attack(0)}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0), attack(0)}}}
	b, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "Sparky"), mon(t, d, "pikachu", 10, "Volt")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "Alpha"), mon(t, d, "rattata", 5, "Beta")},
	}, player, opponent, nil, Options{ActiveSlots: 2, Moves: flatDamage(999)})
	require.NoError(t, err)

	drive(t, b, b.Finished)
	assert.Equal(t, 0, b.Arena.Opponent.Pokemon[0].HP)
	assert.Equal(t, 0, b.Arena.Opponent.Pokemon[1].HP, "second attack landed on the live slot")
	assert.Contains(t, b.Transcript(), "Wild Alpha fainted!")
	assert.Contains(t, b.Transcript(), "Wild Beta fainted!")
	assert.NotContains(t, b.Transcript(), "But there was no target...")
	require.NotNil(t, b.Winner())
	assert.Equal(t, types.TeamPlayer, *b.Winner())
}

// Catching the only wild Pokémon ends the battle without a winner.
func TestScenario_CatchEndsWildBattle(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{throwBall()}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	b, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
		Bag:      map[string]int{"poke_ball": 2},
	}, player, opponent, nil, Options{Moves: flatDamage(3)})
	require.NoError(t, err)

	drive(t, b, b.Finished)
	assert.Nil(t, b.Winner())
	assert.True(t, b.Data.Caught)
	assert.Equal(t, 0, b.Arena.Opponent.Remaining())
	assert.Len(t, b.Arena.Player.Survivors(), 2)
	assert.Equal(t, 1, b.Arena.Player.Bag["poke_ball"])
	assert.Contains(t, b.Transcript(), "Gotcha! Rattata was caught!")

	r := b.Result()
	assert.True(t, r.Caught)
	assert.Zero(t, r.Money)
	assert.Len(t, r.Party, 2)
}

// With more wild Pokémon left, a capture does not end the battle.
func TestScenario_CatchContinues(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{throwBall()}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	b, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "First"), mon(t, d, "rattata", 5, "Second")},
		Bag:      map[string]int{"poke_ball": 1},
	}, player, opponent, nil, Options{Moves: flatDamage(3)})
	require.NoError(t, err)

	drive(t, b, nextSelecting(b))
	assert.False(t, b.Finished())
	assert.Nil(t, b.Winner())
	assert.Equal(t, 1, b.Arena.Opponent.Remaining())
	assert.Equal(t, "Second", b.Arena.Opponent.ActivePokemon(0).Nickname)
	assert.Contains(t, b.Transcript(), "A wild Second appeared!")
}

// Trainers block Poké Balls; the rest of the turn still runs.
func TestScenario_TrainerBlocksBall(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{throwBall()}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	b, err := New(d, Setup{
		Trainer:  trainer(d, "rival"),
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
		Bag:      map[string]int{"poke_ball": 2},
	}, player, opponent, nil, Options{Moves: flatDamage(3)})
	require.NoError(t, err)
	foe := b.Arena.Opponent.Pokemon[0]
	foeHP := foe.HP

	drive(t, b, nextSelecting(b))
	assert.Contains(t, b.Transcript(), "The trainer blocked the ball! Don't be a thief!")
	assert.Contains(t, b.Transcript(), "Foe Rattata used Tackle!")
	assert.Equal(t, 2, b.Arena.Player.Bag["poke_ball"])
	assert.Equal(t, foeHP, foe.HP)
	assert.False(t, b.Data.Caught)
	assert.Equal(t, 1, b.Arena.Opponent.Remaining())
	pk := b.Arena.Player.Pokemon[0]
	assert.Equal(t, pk.Stats.HP-3, pk.HP)
}

func TestUpdate_NoOpAfterEnd(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	b, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
	}, player, opponent, nil, Options{Moves: flatDamage(999)})
	require.NoError(t, err)
	drive(t, b, b.Finished)

	lines := len(b.Transcript())
	turns := b.Turns()
	hp := b.Arena.Player.Pokemon[0].HP
	for i := 0; i < 50; i++ {
		b.Update(1)
	}
	assert.Equal(t, PhaseEnd, b.Phase())
	assert.Len(t, b.Transcript(), lines)
	assert.Equal(t, turns, b.Turns())
	assert.Equal(t, hp, b.Arena.Player.Pokemon[0].HP)
	assert.Equal(t, types.TeamPlayer, *b.Winner())
}

func TestTrainerRewards(t *testing.T) {
	tests := []struct {
		name      string
		trainer   string
		wantMoney int
		wantBadge string
	}{
		{"trainer", "rival", 350, ""},
		{"gym leader", "brock", 1386, "boulder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDex()
			player := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
			opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
			b, err := New(d, Setup{
				Trainer:  trainer(d, tt.trainer),
				Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
				Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
			}, player, opponent, nil, Options{Moves: flatDamage(999)})
			require.NoError(t, err)

			assert.Zero(t, b.Result().Money, "no rewards before the end")
			drive(t, b, b.Finished)
			r := b.Result()
			assert.Equal(t, tt.wantMoney, r.Money)
			assert.Equal(t, tt.wantBadge, r.Badge)
			assert.Equal(t, 1, r.Turns)
		})
	}
}

func TestTrainerReplacesFainted(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	b, err := New(d, Setup{
		Trainer:  trainer(d, "rival"),
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, ""), mon(t, d, "rattata", 6, "Backup")},
	}, player, opponent, nil, Options{Moves: flatDamage(999)})
	require.NoError(t, err)

	drive(t, b, nextSelecting(b))
	assert.Nil(t, b.Winner())
	assert.Equal(t, 1, b.Arena.Opponent.Active[0].Slot)
	assert.Contains(t, b.Transcript(), "Gary sent out Backup!")
}

// A switch lands only once the recall message has been paged past, so the
// foe's attack later in the turn hits the incoming Pokémon.
func TestSwitch_AppliedAfterFirstPage(t *testing.T) {
	d := testDex()
	player := &client.Scripted{Selections: [][]types.BattleMove{{{Kind: types.BattleMoveSwitch, Switch: 1}}}}
	opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	gate := present.NewTimed(present.DefaultTiming())
	b, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "Sparky"), mon(t, d, "pikachu", 10, "Volt")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
	}, player, opponent, gate, Options{Moves: flatDamage(3)})
	require.NoError(t, err)
	sparky, volt := b.Arena.Player.Pokemon[0], b.Arena.Player.Pokemon[1]
	done := nextSelecting(b)

	drive(t, b, func() bool { return b.swap != nil })
	for ticks := 0; b.swap != nil; ticks++ {
		require.Less(t, ticks, 1000, "switch never applied")
		require.Equal(t, 0, gate.Page())
		require.Equal(t, 0, b.Arena.Player.Active[0].Slot)
		b.Update(0.05)
	}
	assert.GreaterOrEqual(t, gate.Page(), 1)
	assert.Equal(t, 1, b.Arena.Player.Active[0].Slot)

	drive(t, b, done)
	assert.Equal(t, sparky.Stats.HP, sparky.HP)
	assert.Equal(t, volt.Stats.HP-3, volt.HP)
	assert.Contains(t, b.Transcript(), "Come back, Sparky!")
	assert.Contains(t, b.Transcript(), "Go, Volt!")
	assert.Contains(t, b.Transcript(), "Wild Rattata used Tackle!")
}

// An AI Pokémon with no PP left struggles instead of attacking for free.
func TestAI_StrugglesWithoutPP(t *testing.T) {
	d := testDex()
	foe := mon(t, d, "rattata", 5, "")
	for i := range foe.Moves {
		foe.Moves[i].PP = 0
	}
	player := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
	b, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{foe},
	}, player, client.NewAI(d, rng.New(1)), nil, Options{Moves: flatDamage(1)})
	require.NoError(t, err)

	drive(t, b, nextSelecting(b))
	assert.Contains(t, b.Transcript(), "Wild Rattata used Struggle!")
	assert.Contains(t, b.Transcript(), "Wild Rattata is hit with recoil!")
	assert.Equal(t, foe.Stats.HP-1-foe.Stats.HP/4, foe.HP)
	assert.Zero(t, foe.Moves[0].PP)
}

func pendingGain(b *Battle) func() bool {
	return func() bool {
		if b.Queue() == nil {
			return false
		}
		for _, a := range b.Queue().Pending() {
			if a.Action.Kind == types.ActionGainExp {
				return true
			}
		}
		return false
	}
}

func TestForfeit_PendingExperience(t *testing.T) {
	for _, grant := range []bool{true, false} {
		d := testDex()
		player := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
		opponent := &client.Scripted{Selections: [][]types.BattleMove{{attack(0)}}}
		b, err := New(d, Setup{
			Trainer:  trainer(d, "rival"),
			Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
			Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, ""), mon(t, d, "rattata", 5, "")},
		}, player, opponent, nil, Options{Moves: flatDamage(999), ForfeitGrantsExp: grant})
		require.NoError(t, err)

		drive(t, b, pendingGain(b))
		before := b.Arena.Player.Pokemon[0].Experience
		b.Forfeit(types.TeamOpponent)

		assert.True(t, b.Finished())
		assert.Equal(t, types.TeamPlayer, *b.Winner())
		r := b.Result()
		assert.True(t, r.Forfeited)
		assert.Zero(t, r.Money, "forfeits pay nothing")
		after := b.Arena.Player.Pokemon[0].Experience
		if grant {
			assert.Greater(t, after, before)
		} else {
			assert.Equal(t, before, after)
		}
	}
}

func TestRun(t *testing.T) {
	d := testDex()
	ai := client.NewAI(d, rng.New(1))
	wild, err := New(d, Setup{
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
	}, &client.Scripted{}, ai, nil, Options{})
	require.NoError(t, err)
	assert.True(t, wild.Run())
	assert.True(t, wild.Finished())
	assert.Nil(t, wild.Winner())
	assert.False(t, wild.Run(), "already over")

	tr, err := New(d, Setup{
		Trainer:  trainer(d, "rival"),
		Player:   []*types.Pokemon{mon(t, d, "pikachu", 10, "")},
		Opponent: []*types.Pokemon{mon(t, d, "rattata", 5, "")},
	}, &client.Scripted{}, ai, nil, Options{})
	require.NoError(t, err)
	assert.False(t, tr.Run())
	assert.False(t, tr.Finished())
	assert.Contains(t, tr.Transcript(), "No! There's no running from a trainer battle!")
}

// Two AI-driven battles with the same seed play out identically.
func TestAIBattle_Deterministic(t *testing.T) {
	run := func() *Battle {
		d := testDex()
		r := rng.New(7)
		b, err := New(d, Setup{
			Player:   []*types.Pokemon{mon(t, d, "pikachu", 12, ""), mon(t, d, "rattata", 10, "")},
			Opponent: []*types.Pokemon{mon(t, d, "rattata", 11, ""), mon(t, d, "pikachu", 9, "")},
		}, client.NewAI(d, r), client.NewAI(d, r), nil, Options{Seed: 42})
		require.NoError(t, err)
		drive(t, b, b.Finished)
		for _, side := range [][]*types.Pokemon{b.Arena.Player.Pokemon, b.Arena.Opponent.Pokemon} {
			for _, p := range side {
				assert.GreaterOrEqual(t, p.HP, 0)
			}
		}
		return b
	}

	first, second := run(), run()
	require.NotNil(t, first.Winner())
	assert.Equal(t, first.Transcript(), second.Transcript())
	assert.Equal(t, *first.Winner(), *second.Winner())
}
