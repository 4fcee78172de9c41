// Package present defines the presentation gate the battle waits on while
// an action is current, with an instant and a time-paced implementation.
package present

import "github.com/nathoo/battlecore/types"

// AnimKind identifies a cosmetic effect the gate must wait out.
type AnimKind int

const (
	AnimHP AnimKind = iota
	AnimFaint
	AnimFlicker
	AnimCatch
)

// Animation is one cosmetic effect on a combatant.
type Animation struct {
	Kind   AnimKind
	Target types.ActivePokemonIndex
}

// Gate paces the battle against text and animation playback.
type Gate interface {
	// Reset clears text and animations for the next action.
	Reset()
	// Push appends message pages.
	Push(lines ...string)
	// Animate starts a cosmetic animation.
	Animate(a Animation)
	// Advance moves playback forward by delta seconds.
	Advance(delta float64)
	// Finished reports whether all text and animations are done.
	Finished() bool
	// Page returns the index of the page being shown; len(pages) once done.
	Page() int
}

// Instant is a gate that finishes as soon as anything is pushed.
type Instant struct {
	pages int
}

// NewInstant creates an instant gate.
func NewInstant() *Instant {
	return &Instant{}
}

func (g *Instant) Reset() { g.pages = 0 }
func (g *Instant) Push(lines ...string) { g.pages += len(lines) }
func (g *Instant) Animate(Animation) {}
func (g *Instant) Advance(float64) {}
func (g *Instant) Finished() bool { return true }
func (g *Instant) Page() int { return g.pages }
