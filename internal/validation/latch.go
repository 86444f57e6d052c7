package validation

import "sync/atomic"

// Latch flips once, the first time an async check completes, and stays set
// for the lifetime of its modal.
type Latch struct {
	fired atomic.Bool
}

// Fire sets the latch and reports whether this call was the one that set it.
func (l *Latch) Fire() bool {
	return l.fired.CompareAndSwap(false, true)
}

func (l *Latch) Fired() bool {
	return l.fired.Load()
}
