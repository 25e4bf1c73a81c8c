package queue

import "sync"

// Ticket identifies one in-flight queue read.
type Ticket uint64

// Sequencer drops responses that resolve after a newer request's response
// was already accepted, so a slow read for an old filter cannot overwrite
// the rows of the current one.
type Sequencer struct {
	mu       sync.Mutex
	issued   uint64
	accepted uint64
}

// Begin issues a ticket for a new request.
func (s *Sequencer) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return Ticket(s.issued)
}

// Accept reports whether the response for t should be applied. A response is
// stale once a response for a later ticket has been accepted.
func (s *Sequencer) Accept(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(t) <= s.accepted {
		return false
	}
	s.accepted = uint64(t)
	return true
}

// Latest reports whether t is the most recently issued ticket.
func (s *Sequencer) Latest(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(t) == s.issued
}
