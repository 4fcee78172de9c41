package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/engine/present"
	"github.com/nathoo/battlecore/types"
)

// hpBarWidth is the number of cells in an HP bar.
const hpBarWidth = 10

// hpBar renders a coloured bar for hp out of maxHP.
func hpBar(hp, maxHP int) string {
	if maxHP <= 0 {
		maxHP = 1
	}
	if hp < 0 {
		hp = 0
	}
	filled := (hp*hpBarWidth + maxHP - 1) / maxHP
	if filled > hpBarWidth {
		filled = hpBarWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", hpBarWidth-filled)

	switch {
	case hp*2 > maxHP:
		return styleHPHigh.Render(bar)
	case hp*5 > maxHP:
		return styleHPMid.Render(bar)
	default:
		return styleHPLow.Render(bar)
	}
}

// sideSummary renders every active Pokémon of one side.
func (m Model) sideSummary(side *party.Party) string {
	var parts []string
	for i := range side.Active {
		p := side.ActivePokemon(i)
		if p == nil {
			continue
		}
		name := m.battle.Dex.PokemonName(p)
		if m.gate != nil && m.gate.Animating(present.AnimFaint) && party.Fainted(p) {
			name = strings.ToLower(name)
		}
		s := fmt.Sprintf("%s L%d %s %d/%d", name, p.Level, hpBar(p.HP, p.Stats.HP), max(p.HP, 0), p.Stats.HP)
		if p.Status != "" {
			s += " " + strings.ToUpper(p.Status[:min(3, len(p.Status))])
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "  ")
}

// renderStatusBar produces a full-width status line showing both sides'
// active Pokémon and the turn count.
func (m Model) renderStatusBar() string {
	b := m.battle

	left := " " + m.sideSummary(b.Arena.Player)
	right := fmt.Sprintf("%s | T:%d ", m.sideSummary(b.Arena.Opponent), b.Turns())
	if b.Data.Type != types.BattleWild && b.Data.Trainer != nil {
		right = fmt.Sprintf("%s: %s", b.Data.Trainer.Name, right)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
