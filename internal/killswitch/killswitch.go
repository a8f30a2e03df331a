// Package killswitch holds the process-wide SDK disable latch.
package killswitch

import "sync/atomic"

// Flag is a one-way disable latch. SetDisabled(true) sticks; passing false
// never clears an already-latched flag, so a fatal internal error keeps the
// SDK off for the rest of the process lifetime.
type Flag struct {
	disabled atomic.Bool
}

// New returns an enabled (not disabled) flag.
func New() *Flag {
	return &Flag{}
}

// SetDisabled latches the flag when disabled is true; false is ignored.
func (f *Flag) SetDisabled(disabled bool) {
	if disabled {
		f.disabled.Store(true)
	}
}

// Disabled reports whether the SDK has been switched off.
func (f *Flag) Disabled() bool {
	return f.disabled.Load()
}
