// Package scope models the optional categorical selectors a query can be
// narrowed by, and translates them into the index filter expression. The
// selector literals are drawn from the same categorical domains as the
// upstream analytical tables; the catalog packages keep the two in sync.
package scope

import (
	"github.com/hansardlab/policyrag/internal/domain/search/filter"
)

// AllSessions is the sentinel meaning "no session restriction".
const AllSessions = "All"

// Sessions is the fixed enumeration of parliament sessions the indexes cover.
var Sessions = []string{"12", "13", "14"}

// Index field names for the scope selectors. They must match the tag fields
// the ingestion job writes, otherwise filters silently match nothing.
const (
	FieldSession      = "parliament"
	FieldParty        = "party"
	FieldConstituency = "constituency"
	FieldMemberName   = "name"
)

// UnitOfAnalysis is the entity whose position is being summarized.
type UnitOfAnalysis string

const (
	// UnitParty summarizes a party's position.
	UnitParty UnitOfAnalysis = "Party"
	// UnitConstituency summarizes a constituency's position.
	UnitConstituency UnitOfAnalysis = "Constituency"
	// UnitMP summarizes an individual member's position.
	UnitMP UnitOfAnalysis = "MP"
)

// Selectors are the optional scope fields of a query. Zero values mean unset;
// Session additionally treats AllSessions as unset.
type Selectors struct {
	Session      string
	Party        string
	Constituency string
	MemberName   string
}

// UnitOfAnalysis derives the summarized entity from which selectors are
// populated: MP if a member is set, else Constituency if a constituency is
// set, else Party.
func (s Selectors) UnitOfAnalysis() UnitOfAnalysis {
	switch {
	case s.MemberName != "":
		return UnitMP
	case s.Constituency != "":
		return UnitConstituency
	default:
		return UnitParty
	}
}

// SessionSet reports whether the session selector restricts the search.
func (s Selectors) SessionSet() bool {
	return s.Session != "" && s.Session != AllSessions
}

// KnownSession reports whether the session selector is within the fixed
// enumeration (or unset).
func (s Selectors) KnownSession() bool {
	if !s.SessionSet() {
		return true
	}
	for _, v := range Sessions {
		if s.Session == v {
			return true
		}
	}
	return false
}

// BuildFilter converts the populated selectors into an equality filter
// expression. Unset selectors are omitted entirely rather than passed as
// wildcards; the index interprets an absent clause as unconstrained.
func (s Selectors) BuildFilter() (filter.Expression, error) {
	pairs := []struct{ field, value string }{
		{FieldParty, s.Party},
		{FieldConstituency, s.Constituency},
		{FieldMemberName, s.MemberName},
	}
	if s.SessionSet() {
		pairs = append([]struct{ field, value string }{{FieldSession, s.Session}}, pairs...)
	}

	clauses := make([]filter.Clause, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		c, err := filter.NewClause(p.field, p.value)
		if err != nil {
			return filter.Expression{}, err
		}
		clauses = append(clauses, c)
	}
	return filter.NewExpression(clauses...)
}
