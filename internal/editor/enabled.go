package editor

// Enabled is either a fixed flag or a predicate. It is evaluated once per
// scene build.
type Enabled struct {
	fixed bool
	fn    func() bool
}

// Fixed returns an Enabled that always reports b.
func Fixed(b bool) Enabled { return Enabled{fixed: b} }

// When returns an Enabled backed by fn.
func When(fn func() bool) Enabled { return Enabled{fn: fn} }

// Eval resolves the current value.
func (e Enabled) Eval() bool {
	if e.fn != nil {
		return e.fn()
	}
	return e.fixed
}
