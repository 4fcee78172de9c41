package cli

import (
	"errors"
	"fmt"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/client"
	"github.com/nathoo/battlecore/engine/dex"
	"github.com/nathoo/battlecore/types"
)

// Selector turns player input into answers for a manual provider. It
// gathers one command per live active slot and submits them together.
// Both the line CLI and the TUI drive the player through it.
type Selector struct {
	Battle *engine.Battle
	Player *client.Manual

	choices []types.BattleMove
}

// NewSelector creates a selector for the player side of b.
func NewSelector(b *engine.Battle, p *client.Manual) *Selector {
	return &Selector{Battle: b, Player: p}
}

// Ready reports whether the battle is waiting on player input.
func (s *Selector) Ready() bool {
	if s.Battle.Finished() {
		return false
	}
	_, replacing := s.Player.NeedsReplacement()
	return replacing || s.Player.Waiting()
}

// Prompt returns the question for the next answer, or "" when the battle
// does not need the player.
func (s *Selector) Prompt() string {
	if s.Battle.Finished() {
		return ""
	}
	if active, ok := s.Player.NeedsReplacement(); ok {
		return fmt.Sprintf("Send in which Pokémon for slot %d? ", active+1)
	}
	if !s.Player.Waiting() {
		return ""
	}
	live := s.Player.Own().LiveSlots()
	if len(s.choices) < len(live) {
		p := s.Player.Own().ActivePokemon(live[len(s.choices)])
		return fmt.Sprintf("What will %s do? ", s.Battle.Dex.PokemonName(p))
	}
	return ""
}

// Handle applies one line of input. A returned error is meant for the
// player; the input was not used.
func (s *Selector) Handle(input string) error {
	b := s.Battle
	own, opp := s.Player.Own(), s.Player.Opponent()

	if _, ok := s.Player.NeedsReplacement(); ok {
		slot, err := ParseReplacement(own, input)
		if err != nil {
			return err
		}
		s.Player.SubmitReplacement(slot)
		return nil
	}
	if !s.Player.Waiting() {
		return errors.New("wait for your turn")
	}

	live := own.LiveSlots()
	if len(s.choices) >= len(live) {
		s.submit()
		return nil
	}
	bm, err := ParseCommand(b.Dex, own, opp, live[len(s.choices)], input)
	if errors.Is(err, ErrRun) {
		b.Run()
		return nil
	}
	if err != nil {
		return err
	}
	if bm.Kind == types.BattleMoveSwitch && s.switchTaken(bm.Switch) {
		return fmt.Errorf("party member %d is already switching in", bm.Switch+1)
	}
	s.choices = append(s.choices, bm)
	if len(s.choices) == len(live) {
		s.submit()
	}
	return nil
}

func (s *Selector) submit() {
	s.Player.Submit(s.choices...)
	s.choices = nil
}

func (s *Selector) switchTaken(slot int) bool {
	for _, bm := range s.choices {
		if bm.Kind == types.BattleMoveSwitch && bm.Switch == slot {
			return true
		}
	}
	return false
}

// ResultLines describes how a finished battle ended for the player.
// Runs and captures are already narrated by the battle itself.
func ResultLines(b *engine.Battle) []string {
	if !b.Finished() {
		return nil
	}
	var out []string
	r := b.Result()
	switch {
	case r.Forfeited, r.Caught:
	case r.Winner == nil:
		out = append(out, "The battle is over.")
	case *r.Winner == types.TeamPlayer:
		out = append(out, "You won the battle!")
	default:
		out = append(out, "You blacked out!")
	}
	if r.Money > 0 {
		out = append(out, fmt.Sprintf("You got ¥%d for winning!", r.Money))
	}
	if r.Badge != "" {
		out = append(out, fmt.Sprintf("You received the %s Badge!", dex.Title(r.Badge)))
	}
	return out
}

// IntroLines announces both sides' leads.
func IntroLines(b *engine.Battle) []string {
	var lines []string
	for _, a := range b.Arena.Opponent.Active {
		if a.Slot < 0 {
			continue
		}
		name := b.Dex.PokemonName(b.Arena.Opponent.Pokemon[a.Slot])
		if b.Data.Trainer == nil {
			lines = append(lines, fmt.Sprintf("A wild %s appeared!", name))
		} else {
			lines = append(lines, fmt.Sprintf("%s sent out %s!", b.Data.Trainer.Name, name))
		}
	}
	for _, a := range b.Arena.Player.Active {
		if a.Slot >= 0 {
			lines = append(lines, fmt.Sprintf("Go, %s!", b.Dex.PokemonName(b.Arena.Player.Pokemon[a.Slot])))
		}
	}
	return lines
}
