package client

import (
	"github.com/nathoo/battlecore/engine/party"
	"github.com/nathoo/battlecore/types"
)

// Manual is a provider fed by a front end. The battle asks; the front end
// inspects Waiting or NeedsReplacement and answers with Submit or
// SubmitReplacement.
type Manual struct {
	own, opp *party.Party

	waiting   bool
	selection []types.BattleMove
	submitted bool

	replaceFor  *int
	replacement int
	replaced    bool
}

// NewManual returns an idle manual provider.
func NewManual() *Manual { return &Manual{} }

func (m *Manual) Begin(own, opp *party.Party) { m.own, m.opp = own, opp }

// Own returns the side this provider controls.
func (m *Manual) Own() *party.Party { return m.own }

// Opponent returns the opposing side.
func (m *Manual) Opponent() *party.Party { return m.opp }

func (m *Manual) RequestSelection() {
	m.waiting = true
	m.submitted = false
	m.selection = nil
}

// Waiting reports whether a selection has been requested and not answered.
func (m *Manual) Waiting() bool { return m.waiting && !m.submitted }

// Submit answers the pending selection request.
func (m *Manual) Submit(moves ...types.BattleMove) {
	m.selection = moves
	m.submitted = true
}

func (m *Manual) PollSelection() ([]types.BattleMove, bool) {
	if !m.waiting || !m.submitted {
		return nil, false
	}
	m.waiting, m.submitted = false, false
	return m.selection, true
}

// NeedsReplacement reports the active slot waiting for a replacement.
func (m *Manual) NeedsReplacement() (int, bool) {
	if m.replaceFor == nil || m.replaced {
		return 0, false
	}
	return *m.replaceFor, true
}

// SubmitReplacement answers the pending replacement request.
func (m *Manual) SubmitReplacement(slot int) {
	m.replacement = slot
	m.replaced = true
}

func (m *Manual) PollReplacement(active int) (int, bool) {
	if m.replaceFor == nil || *m.replaceFor != active {
		a := active
		m.replaceFor = &a
		m.replaced = false
	}
	if !m.replaced {
		return 0, false
	}
	m.replaceFor = nil
	m.replaced = false
	return m.replacement, true
}
