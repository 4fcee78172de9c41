package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/rng"
	"github.com/nathoo/battlecore/types"
)

func mon(name string, hp int) *types.Pokemon {
	return &types.Pokemon{Species: name, Level: 5, HP: hp, Stats: types.Stats{HP: 20}}
}

// doubles returns a 2v2 arena.
func doubles() *party.Arena {
	return &party.Arena{
		Player:   party.New(types.TeamPlayer, []*types.Pokemon{mon("p0", 10), mon("p1", 10)}, 2, nil),
		Opponent: party.New(types.TeamOpponent, []*types.Pokemon{mon("o0", 10), mon("o1", 10)}, 2, nil),
	}
}

var p0 = types.ActivePokemonIndex{Team: types.TeamPlayer, Active: 0}

func species(rs []Resolved) []string {
	var out []string
	for _, r := range rs {
		out = append(out, r.Pokemon.Species)
	}
	return out
}

func TestResolve_User(t *testing.T) {
	got := Resolve(doubles(), p0, types.MoveTargetInstance{Kind: types.TargetUser}, rng.New(1))
	require.Len(t, got, 1)
	assert.Equal(t, p0, got[0].Index)
	assert.Equal(t, "p0", got[0].Pokemon.Species)
}

func TestResolve_OpponentLive(t *testing.T) {
	got := Resolve(doubles(), p0, types.MoveTargetInstance{Kind: types.TargetOpponent, Index: 1}, rng.New(1))
	assert.Equal(t, []string{"o1"}, species(got))
}

func TestResolve_OpponentRerolls(t *testing.T) {
	a := doubles()
	a.Opponent.Pokemon[0].HP = 0

	for seed := int64(0); seed < 20; seed++ {
		got := Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetOpponent, Index: 0}, rng.New(seed))
		require.Len(t, got, 1)
		assert.Equal(t, "o1", got[0].Pokemon.Species, "must land on the only live opponent")
		assert.Equal(t, types.ActivePokemonIndex{Team: types.TeamOpponent, Active: 1}, got[0].Index)
	}
}

func TestResolve_OpponentEmptySlotRerolls(t *testing.T) {
	a := doubles()
	a.Opponent.Remove(1)

	got := Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetOpponent, Index: 1}, rng.New(3))
	assert.Equal(t, []string{"o0"}, species(got))
}

func TestResolve_OpponentNoneAlive(t *testing.T) {
	a := doubles()
	a.Opponent.Pokemon[0].HP = 0
	a.Opponent.Pokemon[1].HP = 0

	got := Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetOpponent, Index: 0}, rng.New(1))
	assert.Empty(t, got)
}

func TestResolve_TeamNoReroll(t *testing.T) {
	a := doubles()

	got := Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetTeam, Index: 1}, rng.New(1))
	assert.Equal(t, []string{"p1"}, species(got))

	a.Player.Pokemon[1].HP = 0
	got = Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetTeam, Index: 1}, rng.New(1))
	assert.Empty(t, got)
}

func TestResolve_Opponents(t *testing.T) {
	a := doubles()
	assert.Equal(t, []string{"o0", "o1"}, species(Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetOpponents}, rng.New(1))))

	a.Opponent.Pokemon[0].HP = 0
	assert.Equal(t, []string{"o1"}, species(Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetOpponents}, rng.New(1))))
}

func TestResolve_AllButUser(t *testing.T) {
	a := doubles()
	got := Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetAllButUser}, rng.New(1))
	assert.Equal(t, []string{"p1", "o0", "o1"}, species(got))

	a.Player.Pokemon[1].HP = 0
	got = Resolve(a, p0, types.MoveTargetInstance{Kind: types.TargetAllButUser}, rng.New(1))
	assert.Equal(t, []string{"o0", "o1"}, species(got))
}

func TestInstance(t *testing.T) {
	tests := []struct {
		mt   types.MoveTarget
		want types.MoveTargetInstance
	}{
		{types.MoveTargetUser, types.MoveTargetInstance{Kind: types.TargetUser}},
		{types.MoveTargetOpponent, types.MoveTargetInstance{Kind: types.TargetOpponent, Index: 1}},
		{"", types.MoveTargetInstance{Kind: types.TargetOpponent, Index: 1}},
		{types.MoveTargetTeam, types.MoveTargetInstance{Kind: types.TargetTeam, Index: 1}},
		{types.MoveTargetOpponents, types.MoveTargetInstance{Kind: types.TargetOpponents}},
		{types.MoveTargetAllButUser, types.MoveTargetInstance{Kind: types.TargetAllButUser}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Instance(tt.mt, 1), "target %q", tt.mt)
	}
}
