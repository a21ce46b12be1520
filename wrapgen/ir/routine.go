package ir

// Guard is a predicate over a routine's argument list. A nil Guard matches
// unconditionally.
type Guard func(args []any) bool

// Invoke calls the clause's underlying member with the argument list.
type Invoke func(args []any) (any, error)

// DispatchClause is one (type-guard, invocation) pair within a generated
// routine. Ordering among clauses is significant: the first matching guard
// wins and clauses are never reordered for specificity.
type DispatchClause struct {
	Member Member // retained for source emission and diagnostics
	Guard  Guard
	Invoke Invoke
}

// ClauseSet is the ordered clause list for one arity. A tail set covers the
// anchor arity and every arity beyond it.
type ClauseSet struct {
	Arity   int
	Tail    bool
	Clauses []DispatchClause
}

// RoutineSpec is one generated routine: all dispatch clauses for a single
// member name, grouped by arity in ascending order with at most one trailing
// tail set. Built once per class-generation request and consumed immediately
// by emission; never persisted.
type RoutineSpec struct {
	// Name is the routine identifier, prefix plus normalized member name.
	Name string

	// Member is the underlying member name shared by every clause.
	Member string

	// Class names the declaring class for diagnostics.
	Class string

	// Signatures lists each member's declared parameter types for
	// documentation, repeating element marked with a trailing "...".
	Signatures [][]string

	// Sets holds the per-arity clause sets in ascending arity order.
	Sets []ClauseSet
}

// TailSet returns the tail clause set, if the routine has one.
func (s RoutineSpec) TailSet() (ClauseSet, bool) {
	if n := len(s.Sets); n > 0 && s.Sets[n-1].Tail {
		return s.Sets[n-1], true
	}
	return ClauseSet{}, false
}

// SetForArity returns the clause set dispatching the given argument count:
// the exact-arity set when one exists, otherwise the tail set when the count
// reaches its anchor.
func (s RoutineSpec) SetForArity(n int) (ClauseSet, bool) {
	for _, set := range s.Sets {
		if set.Tail {
			if n >= set.Arity {
				return set, true
			}
			continue
		}
		if set.Arity == n {
			return set, true
		}
	}
	return ClauseSet{}, false
}
