package wrapgen

import (
	"sort"

	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// ArityGroup partitions the members sharing one minimum arity into fixed and
// variadic subsets. Several variadic members may share a minimum arity;
// resolution among them happens inside the per-arity dispatch clauses.
type ArityGroup struct {
	Fixed    []ir.Member
	Variadic []ir.Member
}

// GroupByArity partitions a name-group's members by minimum accepted
// argument count.
func GroupByArity(members []ir.Member) map[int]*ArityGroup {
	groups := make(map[int]*ArityGroup)
	for _, m := range members {
		g := groups[m.MinParams()]
		if g == nil {
			g = &ArityGroup{}
			groups[m.MinParams()] = g
		}
		if m.IsVariadic() {
			g.Variadic = append(g.Variadic, m)
		} else {
			g.Fixed = append(g.Fixed, m)
		}
	}
	return groups
}

// sortMembers establishes the stable total order used for clause generation:
// constructors before methods and functions, then lexicographic by
// descriptor. Reflection enumeration order is not trusted across platforms.
func sortMembers(members []ir.Member) []ir.Member {
	out := make([]ir.Member, len(members))
	copy(out, members)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Descriptor() < out[j].Descriptor()
	})
	return out
}
