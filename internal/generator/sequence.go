package generator

import "fmt"

// sequence issues monotonically increasing, zero-padded, prefixed ids.
// Each run owns its own sequences; there is no package-level state.
type sequence struct {
	prefix string
	width  int
	next   int
}

func newSequence(prefix string, width, start int) *sequence {
	return &sequence{prefix: prefix, width: width, next: start}
}

func (s *sequence) Next() string {
	id := fmt.Sprintf("%s%0*d", s.prefix, s.width, s.next)
	s.next++
	return id
}
