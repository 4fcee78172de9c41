package present

// Timing configures a Timed gate. Durations are in seconds.
type Timing struct {
	CharsPerSecond float64
	PagePause      float64
	HPAnim         float64
	FaintAnim      float64
	FlickerAnim    float64
	CatchAnim      float64
}

// DefaultTiming matches a comfortable reading pace.
func DefaultTiming() Timing {
	return Timing{
		CharsPerSecond: 40,
		PagePause:      0.6,
		HPAnim:         0.5,
		FaintAnim:      0.8,
		FlickerAnim:    0.4,
		CatchAnim:      1.2,
	}
}

// Timed reveals text a character at a time, holds each completed page for
// PagePause, and waits for the longest running animation.
type Timed struct {
	Timing Timing

	pages []string
	page  int
	chars float64
	hold  float64
	anims []pendingAnim
}

type pendingAnim struct {
	anim Animation
	left float64
}

// NewTimed creates a timed gate.
func NewTimed(t Timing) *Timed {
	return &Timed{Timing: t}
}

func (g *Timed) Reset() {
	g.pages = nil
	g.page = 0
	g.chars = 0
	g.hold = 0
	g.anims = nil
}

func (g *Timed) Push(lines ...string) {
	g.pages = append(g.pages, lines...)
}

func (g *Timed) Animate(a Animation) {
	g.anims = append(g.anims, pendingAnim{anim: a, left: g.duration(a.Kind)})
}

func (g *Timed) duration(k AnimKind) float64 {
	switch k {
	case AnimHP:
		return g.Timing.HPAnim
	case AnimFaint:
		return g.Timing.FaintAnim
	case AnimFlicker:
		return g.Timing.FlickerAnim
	case AnimCatch:
		return g.Timing.CatchAnim
	}
	return 0
}

func (g *Timed) Advance(delta float64) {
	if delta <= 0 {
		return
	}

	kept := g.anims[:0]
	for _, a := range g.anims {
		a.left -= delta
		if a.left > 0 {
			kept = append(kept, a)
		}
	}
	g.anims = kept

	if g.page >= len(g.pages) {
		return
	}
	full := float64(len([]rune(g.pages[g.page])))
	if g.chars < full {
		if g.Timing.CharsPerSecond <= 0 {
			g.chars = full
		} else {
			g.chars += delta * g.Timing.CharsPerSecond
		}
		if g.chars < full {
			return
		}
		g.chars = full
		return
	}
	g.hold += delta
	if g.hold >= g.Timing.PagePause {
		g.page++
		g.chars = 0
		g.hold = 0
	}
}

func (g *Timed) Finished() bool {
	return g.page >= len(g.pages) && len(g.anims) == 0
}

func (g *Timed) Page() int {
	return g.page
}

// Visible returns the completed pages plus the partially revealed one.
func (g *Timed) Visible() []string {
	var out []string
	for i := 0; i < g.page && i < len(g.pages); i++ {
		out = append(out, g.pages[i])
	}
	if g.page < len(g.pages) {
		r := []rune(g.pages[g.page])
		n := int(g.chars)
		if n > len(r) {
			n = len(r)
		}
		out = append(out, string(r[:n]))
	}
	return out
}

// Animating reports whether an animation of kind is running on any target.
func (g *Timed) Animating(kind AnimKind) bool {
	for _, a := range g.anims {
		if a.anim.Kind == kind {
			return true
		}
	}
	return false
}
