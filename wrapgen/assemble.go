package wrapgen

import (
	"sort"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// ClassSource supplies the adapted members of one wrapped class. The
// reflection and source providers both implement it.
type ClassSource interface {
	// ClassName returns the class identity used in diagnostics.
	ClassName() string

	// Members returns the adapted members passing the filter, in discovery
	// order. It fails with a ClassNotResolvable error when the class cannot
	// be mapped to a real type.
	Members(filter func(ir.Member) bool) ([]ir.Member, error)
}

// AssembleRoutine merges all members sharing one name into a single
// multi-clause routine spec. Arities are walked in ascending order; arities
// with no fixed member between the lowest arity and the highest fixed arity
// still dispatch through any variadic members active there, and a single
// tail set anchored at the highest fixed arity covers everything beyond.
func AssembleRoutine(class, name string, members []ir.Member, cfg *Config) (ir.RoutineSpec, error) {
	if len(members) == 0 {
		return ir.RoutineSpec{}, tortilla.Errorf(tortilla.CodeInternal,
			"no members supplied for routine %s", name)
	}

	ms := sortMembers(members)
	groups := GroupByArity(ms)

	minArity := -1
	maxFixed := -1
	var variadics []ir.Member
	for _, m := range ms {
		if minArity < 0 || m.MinParams() < minArity {
			minArity = m.MinParams()
		}
		if m.IsVariadic() {
			variadics = append(variadics, m)
		} else if m.MinParams() > maxFixed {
			maxFixed = m.MinParams()
		}
	}

	spec := ir.RoutineSpec{
		Name:   tortilla.RoutineName(cfg.Prefix, name),
		Member: name,
		Class:  class,
	}
	for _, m := range ms {
		spec.Signatures = append(spec.Signatures, m.Signature())
	}

	for arity := minArity; arity <= maxFixed; arity++ {
		var fixed []ir.Member
		if g := groups[arity]; g != nil {
			fixed = g.Fixed
		}
		actives := activeVariadics(variadics, arity)
		if len(fixed) == 0 && len(actives) == 0 {
			continue
		}
		spec.Sets = append(spec.Sets, fixedClauses(arity, fixed, actives, cfg.Coerce))
	}

	if len(variadics) > 0 {
		anchor := 0
		if maxFixed >= 0 {
			anchor = maxFixed
		}
		spec.Sets = append(spec.Sets, tailClauses(anchor, variadics, cfg.Coerce))
	}

	return spec, nil
}

// activeVariadics returns the variadic members accepting the given arity.
func activeVariadics(variadics []ir.Member, arity int) []ir.Member {
	var out []ir.Member
	for _, m := range variadics {
		if m.MinParams() <= arity {
			out = append(out, m)
		}
	}
	return out
}

// AssembleClass retrieves the filtered members of a class, groups them by
// name, and assembles one routine spec per distinct member name. The result
// is ordered by member name for determinism.
func AssembleClass(class ClassSource, cfg *Config) ([]ir.RoutineSpec, error) {
	cfg = applyConfigDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	filter, err := compileFilter(cfg)
	if err != nil {
		return nil, err
	}

	members, err := class.Members(filter)
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]ir.Member)
	names := make([]string, 0, len(byName))
	for _, m := range members {
		if _, seen := byName[m.Name]; !seen {
			names = append(names, m.Name)
		}
		byName[m.Name] = append(byName[m.Name], m)
	}
	sort.Strings(names)

	specs := make([]ir.RoutineSpec, 0, len(names))
	for _, name := range names {
		spec, err := AssembleRoutine(class.ClassName(), name, byName[name], cfg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
