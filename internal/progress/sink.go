package progress

// Sink receives formatted status lines. Implementations must return quickly;
// the pipeline calls them synchronously.
type Sink func(message string)

// Nop discards every message.
func Nop(string) {}

// Emit forwards message to the sink. A nil sink drops it.
func (s Sink) Emit(message string) {
	if s == nil {
		return
	}
	s(message)
}

// OrNop returns s, or Nop when s is nil.
func (s Sink) OrNop() Sink {
	if s == nil {
		return Nop
	}
	return s
}
