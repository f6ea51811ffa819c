package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/crimson-sun/triage/internal/model"
)

func TestRecentNewestFirst(t *testing.T) {
	s := New(8)
	for i := 0; i < 3; i++ {
		s.Add(Record{Level: "error", Domain: model.DomainGeneral, Message: fmt.Sprintf("msg %d", i)})
	}

	got := s.Recent(0, "")
	if len(got) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(got))
	}
	for i, want := range []string{"msg 2", "msg 1", "msg 0"} {
		if got[i].Message != want {
			t.Fatalf("record %d = %q, want %q", i, got[i].Message, want)
		}
	}
}

func TestRecentLimitAndLevelFilter(t *testing.T) {
	s := New(8)
	s.Add(Record{Level: "healthy", Message: "quiet"})
	s.Add(Record{Level: "ERROR", Message: "first failure"})
	s.Add(Record{Level: "error", Message: "second failure"})

	got := s.Recent(0, "error")
	if len(got) != 2 {
		t.Fatalf("level filter returned %d records, want 2", len(got))
	}
	if got[0].Message != "second failure" {
		t.Fatalf("newest filtered record = %q", got[0].Message)
	}

	got = s.Recent(1, "error")
	if len(got) != 1 || got[0].Message != "second failure" {
		t.Fatalf("limit 1 returned %v", got)
	}
}

func TestRingEvictsOldest(t *testing.T) {
	s := New(3)
	for i := 0; i < 5; i++ {
		s.Add(Record{Message: fmt.Sprintf("msg %d", i)})
	}

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want capacity 3", s.Len())
	}
	got := s.Recent(0, "")
	for i, want := range []string{"msg 4", "msg 3", "msg 2"} {
		if got[i].Message != want {
			t.Fatalf("record %d = %q, want %q", i, got[i].Message, want)
		}
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	s := New(8)
	s.Add(Record{Message: "3 authentication failures"})
	s.Add(Record{Message: "Normal general activity patterns"})
	s.Add(Record{Message: "2 Authentication Failures; 1 general errors"})

	got := s.Search("AUTHENTICATION", 0)
	if len(got) != 2 {
		t.Fatalf("Search returned %d records, want 2", len(got))
	}
	if got[0].Message != "2 Authentication Failures; 1 general errors" {
		t.Fatalf("newest match = %q", got[0].Message)
	}

	if got := s.Search("nomatch", 0); len(got) != 0 {
		t.Fatalf("Search for absent term returned %v", got)
	}
}

func TestZeroCapacityUsesDefault(t *testing.T) {
	s := New(0)
	s.Add(Record{Message: "one"})
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestConcurrentAddAndRead(t *testing.T) {
	s := New(64)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Add(Record{Message: fmt.Sprintf("g%d-%d", g, i)})
				s.Recent(10, "")
				s.Search("g", 5)
			}
		}(g)
	}
	wg.Wait()

	if s.Len() != 64 {
		t.Fatalf("Len = %d, want a full ring of 64", s.Len())
	}
}
