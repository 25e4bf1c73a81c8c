package queue

import "testing"

func TestSequencer_DropsStaleResponse(t *testing.T) {
	var s Sequencer
	first := s.Begin()
	second := s.Begin()

	// The newer request resolves first.
	if !s.Accept(second) {
		t.Fatalf("latest response should be accepted")
	}
	if s.Accept(first) {
		t.Fatalf("older response resolving later must be dropped")
	}
}

func TestSequencer_InOrderResponses(t *testing.T) {
	var s Sequencer
	a := s.Begin()
	if !s.Accept(a) {
		t.Fatalf("first response should be accepted")
	}
	b := s.Begin()
	if s.Latest(a) {
		t.Fatalf("a is no longer the latest ticket")
	}
	if !s.Latest(b) || !s.Accept(b) {
		t.Fatalf("second response should be accepted")
	}
	if s.Accept(b) {
		t.Fatalf("the same ticket must not be applied twice")
	}
}
