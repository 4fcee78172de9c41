// Package save implements the JSON battle record: what happened, how it
// ended, and the final state of both parties.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/types"
)

// FormatVersion is written into every record.
const FormatVersion = "1"

// Record is the JSON-serializable battle record.
type Record struct {
	Version     string           `json:"version"`
	Type        string           `json:"type"`
	Trainer     string           `json:"trainer,omitempty"`
	Winner      string           `json:"winner,omitempty"`
	Caught      bool             `json:"caught"`
	Forfeited   bool             `json:"forfeited"`
	Turns       int              `json:"turns"`
	Money       int              `json:"money"`
	Badge       string           `json:"badge,omitempty"`
	RNGSeed     int64            `json:"rng_seed"`
	RNGPosition int64            `json:"rng_position"`
	Log         []string         `json:"log"`
	Player      []*types.Pokemon `json:"player"`
	Opponent    []*types.Pokemon `json:"opponent"`
	Bag         map[string]int   `json:"bag"`
}

// FromBattle captures the current state of b.
func FromBattle(b *engine.Battle) Record {
	res := b.Result()
	r := Record{
		Version:     FormatVersion,
		Type:        TypeName(b.Data.Type),
		Caught:      res.Caught,
		Forfeited:   res.Forfeited,
		Turns:       res.Turns,
		Money:       res.Money,
		Badge:       res.Badge,
		RNGSeed:     b.RNG.Seed(),
		RNGPosition: b.RNG.Position(),
		Log:         b.Transcript(),
		Player:      b.Arena.Player.Survivors(),
		Opponent:    b.Arena.Opponent.Survivors(),
		Bag:         b.Arena.Player.Bag,
	}
	if b.Data.Trainer != nil {
		r.Trainer = b.Data.Trainer.ID
	}
	if res.Winner != nil {
		r.Winner = TeamName(*res.Winner)
	}
	return r
}

// Save serializes a battle record to JSON bytes.
func Save(b *engine.Battle) ([]byte, error) {
	return json.MarshalIndent(FromBattle(b), "", "  ")
}

// Load deserializes JSON bytes into a Record.
func Load(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Version != "" && r.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported record version %q", r.Version)
	}
	// Ensure collections are never nil after load.
	if r.Log == nil {
		r.Log = []string{}
	}
	if r.Player == nil {
		r.Player = []*types.Pokemon{}
	}
	if r.Opponent == nil {
		r.Opponent = []*types.Pokemon{}
	}
	if r.Bag == nil {
		r.Bag = map[string]int{}
	}
	for _, p := range append(r.Player, r.Opponent...) {
		if p != nil && p.Stages == nil {
			p.Stages = map[string]int{}
		}
	}
	return &r, nil
}

// Apply merges a record back into the caller's bag and returns the party
// to keep.
func Apply(r *Record, bag map[string]int) []*types.Pokemon {
	for id := range bag {
		if _, ok := r.Bag[id]; !ok {
			delete(bag, id)
		}
	}
	for id, n := range r.Bag {
		bag[id] = n
	}
	return r.Player
}

// TypeName is the record name of a battle type.
func TypeName(t types.BattleType) string {
	switch t {
	case types.BattleTrainer:
		return "trainer"
	case types.BattleGymLeader:
		return "gym_leader"
	}
	return "wild"
}

// TeamName is the record name of a team.
func TeamName(t types.Team) string {
	if t == types.TeamOpponent {
		return "opponent"
	}
	return "player"
}
