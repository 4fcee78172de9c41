package save

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/client"
	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/types"
)

func finishedBattle(t *testing.T) *engine.Battle {
	t.Helper()
	d := dex.New()
	d.Moves["tackle"] = types.MoveDef{ID: "tackle", Name: "Tackle", Power: 400, PP: 35, Target: types.MoveTargetOpponent}
	d.Species["eevee"] = types.SpeciesDef{ID: "eevee", Name: "Eevee", BaseExp: 65,
		Base: types.Stats{HP: 55, Attack: 55, Defense: 50, Speed: 55}}
	tackle := []types.MoveInstance{{Move: "tackle", PP: 35}}
	player := &types.Pokemon{Species: "eevee", Level: 50, HP: 120, Stats: types.Stats{HP: 120, Attack: 200, Defense: 50, Speed: 90}, Moves: tackle}
	foe := &types.Pokemon{Species: "eevee", Level: 3, HP: 5, Stats: types.Stats{HP: 5, Attack: 5, Defense: 5, Speed: 5}, Moves: tackle}
	tr := &types.TrainerDef{ID: "youngster", Name: "Joey", Worth: 80}

	move := types.BattleMove{Kind: types.BattleMoveMove, Target: types.MoveTargetInstance{Kind: types.TargetOpponent}}
	b, err := engine.New(d, engine.Setup{
		Trainer:  tr,
		Player:   []*types.Pokemon{player},
		Opponent: []*types.Pokemon{foe},
		Bag:      map[string]int{"potion": 2},
	}, &client.Scripted{Selections: [][]types.BattleMove{{move}}},
		&client.Scripted{Selections: [][]types.BattleMove{{move}}},
		nil, engine.Options{Seed: 99})
	require.NoError(t, err)
	for i := 0; i < 1000 && !b.Finished(); i++ {
		b.Update(0.1)
	}
	require.True(t, b.Finished())
	return b
}

func TestRoundTrip(t *testing.T) {
	b := finishedBattle(t)

	data, err := Save(b)
	require.NoError(t, err)

	r, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, r.Version)
	assert.Equal(t, "trainer", r.Type)
	assert.Equal(t, "youngster", r.Trainer)
	assert.Equal(t, "player", r.Winner)
	assert.Equal(t, 80, r.Money)
	assert.Equal(t, 1, r.Turns)
	assert.Equal(t, int64(99), r.RNGSeed)
	assert.Equal(t, b.RNG.Position(), r.RNGPosition)
	assert.Equal(t, b.Transcript(), r.Log)
	require.Len(t, r.Player, 1)
	assert.Equal(t, b.Arena.Player.Pokemon[0].Experience, r.Player[0].Experience)
	assert.Equal(t, 0, r.Opponent[0].HP)
	assert.Equal(t, 2, r.Bag["potion"])
}

func TestSave_IsIndentedJSON(t *testing.T) {
	data, err := Save(finishedBattle(t))
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Contains(t, string(data), "\n  \"version\": \"1\"")
}

func TestLoad_NilSafe(t *testing.T) {
	r, err := Load([]byte(`{"version":"1","type":"wild","player":[{"species":"eevee","level":5,"hp":10}]}`))
	require.NoError(t, err)
	assert.NotNil(t, r.Log)
	assert.NotNil(t, r.Opponent)
	assert.NotNil(t, r.Bag)
	assert.NotNil(t, r.Player[0].Stages)
	assert.Empty(t, r.Winner)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]byte("not json"))
	assert.Error(t, err)

	_, err = Load([]byte(`{"version":"9"}`))
	assert.ErrorContains(t, err, "unsupported record version")
}

func TestApply(t *testing.T) {
	r := &Record{
		Player: []*types.Pokemon{{Species: "eevee", Level: 6}},
		Bag:    map[string]int{"potion": 1},
	}
	bag := map[string]int{"potion": 3, "poke_ball": 1}
	party := Apply(r, bag)
	assert.Equal(t, map[string]int{"potion": 1}, bag)
	require.Len(t, party, 1)
	assert.Equal(t, 6, party[0].Level)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "wild", TypeName(types.BattleWild))
	assert.Equal(t, "gym_leader", TypeName(types.BattleGymLeader))
	assert.Equal(t, "opponent", TeamName(types.TeamOpponent))
	assert.Equal(t, "player", TeamName(types.TeamPlayer))
}
