// Package catalog models the reference data backing the scope selectors:
// which members sat in which session, for which party and constituency.
package catalog

import "sort"

// Member is one parliament member's listing within a session.
type Member struct {
	Name         string `json:"name"`
	Party        string `json:"party"`
	Constituency string `json:"constituency"`
}

// Options are the selectable values for one session scope, each list sorted
// and deduplicated. The dashboard populates its dropdowns from these.
type Options struct {
	Parties        []string `json:"parties"`
	Constituencies []string `json:"constituencies"`
	Members        []string `json:"members"`
}

// FilterByParty keeps only the members of one party. An empty party keeps the
// full listing.
func FilterByParty(members []Member, party string) []Member {
	if party == "" {
		return members
	}
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if m.Party == party {
			out = append(out, m)
		}
	}
	return out
}

// BuildOptions derives sorted, deduplicated selector options from a member
// listing.
func BuildOptions(members []Member) Options {
	parties := make(map[string]struct{})
	constituencies := make(map[string]struct{})
	names := make(map[string]struct{})

	for _, m := range members {
		if m.Party != "" {
			parties[m.Party] = struct{}{}
		}
		if m.Constituency != "" {
			constituencies[m.Constituency] = struct{}{}
		}
		if m.Name != "" {
			names[m.Name] = struct{}{}
		}
	}

	return Options{
		Parties:        sortedKeys(parties),
		Constituencies: sortedKeys(constituencies),
		Members:        sortedKeys(names),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
