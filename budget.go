package asr

import "sync/atomic"

// budgetCell is the single published budget, read by replay workers and
// written exclusively by the controller goroutine. Go's atomic package
// provides sequentially consistent loads/stores, which satisfies (and
// exceeds) an acquire/release requirement: a reader that observes a
// new budget also observes every write that happened-before it, including
// the metrics snapshot the controller published just prior.
type budgetCell struct {
	value atomic.Uint32
}

func (b *budgetCell) get() int {
	return int(b.value.Load())
}

func (b *budgetCell) set(v int) {
	b.value.Store(uint32(v))
}

// GetBudget returns the current published budget. Never blocks.
func (x *Core) GetBudget() int {
	return x.budget.get()
}
