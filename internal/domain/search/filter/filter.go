// Package filter defines the equality-filter expression passed to the vector
// index. Only populated scope selectors become clauses; an empty expression
// means the whole index is searched.
package filter

import "fmt"

// MaxClauses bounds the number of clauses per expression.
const MaxClauses = 16

// Expression is a conjunction of exact-match clauses over index tag fields.
type Expression struct {
	clauses []Clause
}

// NewExpression validates and creates a filter Expression.
func NewExpression(clauses ...Clause) (Expression, error) {
	if len(clauses) > MaxClauses {
		return Expression{}, fmt.Errorf("too many filter clauses (max %d)", MaxClauses)
	}
	seen := make(map[string]struct{}, len(clauses))
	for _, c := range clauses {
		if _, dup := seen[c.field]; dup {
			return Expression{}, fmt.Errorf("duplicate filter field %q", c.field)
		}
		seen[c.field] = struct{}{}
	}
	return Expression{clauses: clauses}, nil
}

// Clauses returns the equality clauses in declaration order.
func (e Expression) Clauses() []Clause { return e.clauses }

// IsEmpty reports whether the expression has no clauses.
func (e Expression) IsEmpty() bool { return len(e.clauses) == 0 }

// Matches reports whether a set of field values satisfies every clause.
// The index applies the filter server-side; this is used by tests and local
// post-checks.
func (e Expression) Matches(fields map[string]string) bool {
	for _, c := range e.clauses {
		if fields[c.field] != c.value {
			return false
		}
	}
	return true
}

// Clause is a single `field == value` requirement.
type Clause struct {
	field string
	value string
}

// NewClause creates an exact-match clause.
func NewClause(field, value string) (Clause, error) {
	if field == "" {
		return Clause{}, fmt.Errorf("filter field is required")
	}
	if value == "" {
		return Clause{}, fmt.Errorf("filter value is required for field %q", field)
	}
	return Clause{field: field, value: value}, nil
}

// Field returns the index field name.
func (c Clause) Field() string { return c.field }

// Value returns the required value.
func (c Clause) Value() string { return c.value }
