// Package resource models the shared regenerating pool used by commons-style
// dilemmas. The pool is a single mutable cell owned by one simulation run;
// the rule engine is its only writer.
package resource

// Pool is a depletable, regenerating shared resource. Level never goes
// negative, and regrowth saturates at the carrying capacity. Collapse
// (level 0) is terminal but not fatal: a collapsed pool regenerates nothing
// and the simulation carries on.
type Pool struct {
	Level            float64
	Capacity         float64
	RegenerationRate float64
}

// New creates a pool at the given initial size. The carrying capacity
// defaults to the initial size.
func New(size, regenerationRate float64) *Pool {
	return &Pool{
		Level:            size,
		Capacity:         size,
		RegenerationRate: regenerationRate,
	}
}

// Extract removes up to amount from the pool and returns how much was
// actually taken. Callers ration proposals before extracting, so in normal
// operation the clamp never engages.
func (p *Pool) Extract(amount float64) float64 {
	if amount < 0 {
		amount = 0
	}
	if amount > p.Level {
		amount = p.Level
	}
	p.Level -= amount
	return amount
}

// Regenerate applies one round of growth and returns the amount regrown.
// Growth is proportional to the current level and clamped at capacity, which
// gives the logistic-style saturation the commons dynamics depend on. It must
// run strictly after the round's extraction; reversing the order changes
// collapse dynamics materially.
func (p *Pool) Regenerate() float64 {
	before := p.Level
	next := p.Level + p.Level*p.RegenerationRate
	if next > p.Capacity {
		next = p.Capacity
	}
	if next < 0 {
		next = 0
	}
	p.Level = next
	return p.Level - before
}

// Health returns the level as a fraction of capacity, in [0, 1].
func (p *Pool) Health() float64 {
	if p.Capacity <= 0 {
		return 0
	}
	h := p.Level / p.Capacity
	if h > 1 {
		h = 1
	}
	return h
}

// Collapsed reports whether the pool has been driven to zero.
func (p *Pool) Collapsed() bool {
	return p.Level <= 0
}
