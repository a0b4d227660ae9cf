// internal/billing/sequence.go
package billing

import "fmt"

// Sequence issues invoice numbers for one run: a monotonically increasing
// integer rendered zero-padded at fixed width. It is an explicit object passed
// into the composer, never shared across runs, and only advanced when a
// payload is actually built.
type Sequence struct {
	next  int
	width int
}

// NewSequence starts a sequence at the given value.
func NewSequence(start, width int) *Sequence {
	return &Sequence{next: start, width: width}
}

// Next returns the current number formatted and advances the sequence.
func (s *Sequence) Next() string {
	n := fmt.Sprintf("%0*d", s.width, s.next)
	s.next++
	return n
}

// Peek returns the number Next would issue, without advancing.
func (s *Sequence) Peek() string {
	return fmt.Sprintf("%0*d", s.width, s.next)
}
