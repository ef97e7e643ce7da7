package docstore

import (
	"fmt"
	"strings"
)

// Field returns the SQL accessor for a top-level document field as text.
func Field(name string) string {
	return "document->>'" + name + "'"
}

// IntField returns the SQL accessor for a top-level integer document field.
func IntField(name string) string {
	return "(document->>'" + name + "')::bigint"
}

// BoolField returns the SQL accessor for a top-level boolean document field,
// coalesced to its type default so absent fields compare like false.
func BoolField(name string) string {
	return "COALESCE((document->>'" + name + "')::boolean, false)"
}

type cond struct {
	// expr holds one $%d verb per argument, substituted with the final
	// placeholder numbers when the filter is rendered.
	expr string
	args []any
}

// Filter accumulates independent predicates over document fields and
// consolidates them into a single WHERE clause. Zero-value ready. Absent
// criteria add nothing: blank values, empty lists, and nil flags are all
// skipped, so an empty filter matches every document in the collection.
type Filter struct {
	conds []cond
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Eq appends an equality predicate on a text field. Blank or
// whitespace-only values are treated as absent and add nothing.
func (f *Filter) Eq(field, value string) *Filter {
	if strings.TrimSpace(value) == "" {
		return f
	}
	f.conds = append(f.conds, cond{expr: Field(field) + " = $%d", args: []any{value}})
	return f
}

// EqInt appends an equality predicate on an integer field. Used for point
// lookups by an integer key, which is always present.
func (f *Filter) EqInt(field string, value int) *Filter {
	f.conds = append(f.conds, cond{expr: IntField(field) + " = $%d", args: []any{value}})
	return f
}

// In appends an is-one-of predicate on a text field. Nil or empty lists are
// treated as absent and add nothing.
func (f *Filter) In(field string, values []string) *Filter {
	if len(values) == 0 {
		return f
	}
	f.conds = append(f.conds, cond{expr: Field(field) + " = ANY($%d)", args: []any{values}})
	return f
}

// Flag appends a boolean-presence predicate. A true flag selects documents
// where the field differs from its type default, false selects documents
// where it equals the default, and nil adds nothing. The tri-state lets a
// caller distinguish "filter for set", "filter for unset", and "no opinion".
func (f *Filter) Flag(field string, flag *bool) *Filter {
	if flag == nil {
		return f
	}
	op := " = false"
	if *flag {
		op = " <> false"
	}
	f.conds = append(f.conds, cond{expr: BoolField(field) + op})
	return f
}

// Len returns the number of predicates accumulated so far.
func (f *Filter) Len() int {
	return len(f.conds)
}

// Where consolidates the predicates into one clause with placeholders
// numbered from start, returning the clause and its arguments. An empty
// filter renders the match-everything clause; a single predicate is
// returned unwrapped; multiple predicates are AND-joined. AND is
// commutative, so predicate order never changes the result set.
func (f *Filter) Where(start int) (string, []any) {
	if len(f.conds) == 0 {
		return "TRUE", nil
	}
	clauses := make([]string, 0, len(f.conds))
	var args []any
	idx := start
	for _, c := range f.conds {
		verbs := make([]any, len(c.args))
		for i := range c.args {
			verbs[i] = idx
			idx++
		}
		clauses = append(clauses, fmt.Sprintf(c.expr, verbs...))
		args = append(args, c.args...)
	}
	return strings.Join(clauses, " AND "), args
}
