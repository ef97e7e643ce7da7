package docstore

import (
	"reflect"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestFilter_Empty(t *testing.T) {
	where, args := NewFilter().Where(1)
	if where != "TRUE" {
		t.Errorf("empty filter should match everything, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
}

func TestFilter_SingleUnwrapped(t *testing.T) {
	where, args := NewFilter().Eq("name", "Dr A").Where(1)
	if where != "document->>'name' = $1" {
		t.Errorf("unexpected clause %q", where)
	}
	if !reflect.DeepEqual(args, []any{"Dr A"}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilter_MultipleAndJoined(t *testing.T) {
	f := NewFilter().
		Eq("name", "Dr A").
		In("status", []string{"Active", "Inactive"})
	where, args := f.Where(1)

	want := "document->>'name' = $1 AND document->>'status' = ANY($2)"
	if where != want {
		t.Errorf("got %q, want %q", where, want)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %v", args)
	}
}

func TestFilter_BlankEqualitySkipped(t *testing.T) {
	f := NewFilter().
		Eq("name", "").
		Eq("room", "   ").
		Eq("email", "\t\n")
	if f.Len() != 0 {
		t.Errorf("blank values must add no predicates, got %d", f.Len())
	}
}

func TestFilter_EmptyMembershipSkipped(t *testing.T) {
	f := NewFilter().
		In("status", nil).
		In("gender", []string{})
	if f.Len() != 0 {
		t.Errorf("empty lists must add no predicates, got %d", f.Len())
	}
}

func TestFilter_FlagTriState(t *testing.T) {
	cases := []struct {
		name  string
		flag  *bool
		want  string
		conds int
	}{
		{"true selects non-default", boolPtr(true), "COALESCE((document->>'isAdmitted')::boolean, false) <> false", 1},
		{"false selects default", boolPtr(false), "COALESCE((document->>'isAdmitted')::boolean, false) = false", 1},
		{"nil adds nothing", nil, "TRUE", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := NewFilter().Flag("isAdmitted", c.flag)
			if f.Len() != c.conds {
				t.Fatalf("expected %d predicates, got %d", c.conds, f.Len())
			}
			where, args := f.Where(1)
			if where != c.want {
				t.Errorf("got %q, want %q", where, c.want)
			}
			if len(args) != 0 {
				t.Errorf("flag predicates take no args, got %v", args)
			}
		})
	}
}

func TestFilter_EqInt(t *testing.T) {
	where, args := NewFilter().EqInt("appointmentId", 42).Where(1)
	if where != "(document->>'appointmentId')::bigint = $1" {
		t.Errorf("unexpected clause %q", where)
	}
	if !reflect.DeepEqual(args, []any{42}) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilter_PlaceholderNumbering(t *testing.T) {
	f := NewFilter().
		Eq("name", "a").
		EqInt("appointmentId", 7).
		In("status", []string{"Active"})

	// Numbering starts where the caller says, so filters compose with
	// other statement arguments.
	where, args := f.Where(3)
	want := "document->>'name' = $3 AND (document->>'appointmentId')::bigint = $4 AND document->>'status' = ANY($5)"
	if where != want {
		t.Errorf("got %q, want %q", where, want)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
}

func TestFilter_MixedPresentAndAbsent(t *testing.T) {
	admitted := boolPtr(true)
	f := NewFilter().
		Eq("name", ""). // absent criteria add nothing
		In("gender", []string{"Female"}).
		Eq("dateOfBirth", "1990-01-02").
		Flag("isAdmitted", admitted)

	if f.Len() != 3 {
		t.Fatalf("expected 3 predicates, got %d", f.Len())
	}
	where, _ := f.Where(1)
	want := "document->>'gender' = ANY($1) AND document->>'dateOfBirth' = $2 AND COALESCE((document->>'isAdmitted')::boolean, false) <> false"
	if where != want {
		t.Errorf("got %q, want %q", where, want)
	}
}
