package tracker

import "testing"

func TestSessionColdStartYieldsNoBaseline(t *testing.T) {
	s := NewSession("comm1")
	s.ConnectionEstablished()

	code, hadBaseline := s.Observe(map[string]int{"A": 3})
	if hadBaseline {
		t.Fatal("first observation must report no baseline")
	}
	if code != "" {
		t.Fatalf("code = %q on cold start", code)
	}
}

func TestSessionDetectsIncreasedCode(t *testing.T) {
	s := NewSession("comm1")
	s.ConnectionEstablished()

	s.Observe(map[string]int{"A": 0, "B": 5})

	code, hadBaseline := s.Observe(map[string]int{"A": 1, "B": 5})
	if !hadBaseline {
		t.Fatal("expected a baseline on the second observation")
	}
	if code != "A" {
		t.Errorf("code = %q, want A", code)
	}

	// unchanged counts resolve nothing
	code, hadBaseline = s.Observe(map[string]int{"A": 1, "B": 5})
	if !hadBaseline || code != "" {
		t.Errorf("unchanged snapshot resolved %q", code)
	}
}

func TestSessionNewCodeCountsFromZero(t *testing.T) {
	s := NewSession("comm1")
	s.ConnectionEstablished()

	s.Observe(map[string]int{"B": 5})

	code, _ := s.Observe(map[string]int{"B": 5, "C": 1})
	if code != "C" {
		t.Errorf("code = %q, want C", code)
	}
}

func TestSessionConcurrentIncreasesYieldExactlyOne(t *testing.T) {
	s := NewSession("comm1")
	s.ConnectionEstablished()

	s.Observe(map[string]int{"A": 0, "B": 5})

	code, hadBaseline := s.Observe(map[string]int{"A": 1, "B": 5, "C": 1})
	if !hadBaseline {
		t.Fatal("expected a baseline")
	}
	// which of the two increased codes wins is unspecified, but exactly one
	// must be reported
	if code != "A" && code != "C" {
		t.Errorf("code = %q, want A or C", code)
	}
}

func TestSessionConnectionLossDropsBaseline(t *testing.T) {
	s := NewSession("comm1")
	s.ConnectionEstablished()

	s.Observe(map[string]int{"A": 0})
	if !s.Primed() {
		t.Fatal("expected a primed session")
	}

	s.ConnectionLost()
	if s.Primed() {
		t.Fatal("baseline survived a connection loss")
	}

	// counts may have moved arbitrarily while disconnected; the first
	// observation after reconnect must not attribute
	_, hadBaseline := s.Observe(map[string]int{"A": 7})
	if hadBaseline {
		t.Fatal("stale baseline used after reconnect")
	}
}
