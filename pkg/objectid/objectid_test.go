package objectid

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	id := New()
	if len(id) != Len {
		t.Fatalf("expected %d chars, got %d (%q)", Len, len(id), id)
	}
	if !IsValid(id) {
		t.Errorf("generated id %q is not valid", id)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"507F1F77BCF86CD799439011", false}, // uppercase
		{"507f1f77bcf86cd79943901", false},  // 23 chars
		{"507f1f77bcf86cd7994390111", false},
		{"zzzf1f77bcf86cd799439011", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsValid(c.in); got != c.want {
			t.Errorf("IsValid(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-2 * time.Second)
	id := New()
	after := time.Now().Add(2 * time.Second)

	ts := Timestamp(id)
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", ts, before, after)
	}

	if !Timestamp("not-an-id").IsZero() {
		t.Error("expected zero time for malformed id")
	}
}
