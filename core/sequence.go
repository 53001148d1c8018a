package core

// sequenceSet holds the sequence numbers still waiting for a reply.
// It only shrinks: a sequence leaves once, on a matching reply or a failed send.
type sequenceSet struct {
	pending map[int]struct{}
}

// newSequenceSet creates a set with the sequences 1 to count.
func newSequenceSet(count int) *sequenceSet {
	pending := make(map[int]struct{}, count)
	for seq := 1; seq <= count; seq++ {
		pending[seq] = struct{}{}
	}

	return &sequenceSet{pending: pending}
}

// Has returns whether seq is still outstanding.
func (s *sequenceSet) Has(seq int) bool {
	_, ok := s.pending[seq]
	return ok
}

// Remove retires seq, returning whether it was outstanding.
func (s *sequenceSet) Remove(seq int) bool {
	if _, ok := s.pending[seq]; !ok {
		return false
	}

	delete(s.pending, seq)
	return true
}

// Len is the number of outstanding sequences.
func (s *sequenceSet) Len() int {
	return len(s.pending)
}

// Empty returns whether every sequence has been retired.
func (s *sequenceSet) Empty() bool {
	return len(s.pending) == 0
}
