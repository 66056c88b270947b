// Package stoptoken implements the pool's cooperative-cancellation flag.
//
// A [Flag] is owned by a pool and raised by Abort or destruction; a [Token]
// is a cheap, read-only view over that flag handed out to tasks that opt in
// to cancellation. Tokens never reset the flag and never block.
package stoptoken

import "sync/atomic"

// Flag is the shared cancellation flag owned by a pool.
// It is never reset except by an explicit call to Clear (used by Reset).
type Flag struct {
	set atomic.Bool
}

// NewFlag creates a cleared Flag.
func NewFlag() *Flag {
	return &Flag{}
}

// Raise sets the flag. It is idempotent.
func (f *Flag) Raise() {
	f.set.Store(true)
}

// Clear resets the flag. Only Reset may call this — wait_for_tasks must
// never observe a cleared flag as a side effect of its own waiting.
func (f *Flag) Clear() {
	f.set.Store(false)
}

// Triggered reports whether the flag is currently raised.
func (f *Flag) Triggered() bool {
	return f.set.Load()
}

// Token returns a lightweight, copyable view over the flag.
func (f *Flag) Token() Token {
	return Token{flag: f}
}

// Token is a read-only observer of a pool's [Flag].
// A Token is safe to copy and to hold past the pool's lifetime; dereferencing
// it after the owning pool is gone is the caller's responsibility to avoid —
// the recommended contract is token <= pool.
type Token struct {
	flag *Flag
}

// Triggered reports whether cancellation has been requested.
// A zero-value Token (no backing Flag) always reports false.
func (t Token) Triggered() bool {
	if t.flag == nil {
		return false
	}

	return t.flag.Triggered()
}
