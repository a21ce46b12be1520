package wrapgen

import (
	"reflect"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// coerceValue applies the coercion hook toward a parameter type. Source-only
// parameter types have no runtime form and pass values through.
func coerceValue(c tortilla.CoerceFunc, v any, p ir.Type) any {
	if c == nil {
		return v
	}
	rt, ok := p.Runtime()
	if !ok {
		return v
	}
	return c(v, rt)
}

// guardPrefix tests the first n argument positions against the member's
// declared parameter types, coercing first. Positions at or beyond the
// member's fixed prefix test against the repeating element type, which for a
// variadic member at its exact minimum arity amounts to requiring zero extra
// elements.
func guardPrefix(m ir.Member, n int, coerce tortilla.CoerceFunc) ir.Guard {
	return func(args []any) bool {
		for i := 0; i < n; i++ {
			p := m.ParamAt(i)
			v := coerceValue(coerce, args[i], p)
			if !p.Instance(ir.ArgType(v)) {
				return false
			}
		}
		return true
	}
}

// guardTail tests every supplied argument, however many, against the
// member's parameter sequence: the fixed prefix positionally, then the
// repeating element type for the residual.
func guardTail(m ir.Member, coerce tortilla.CoerceFunc) ir.Guard {
	return func(args []any) bool {
		if len(args) < m.MinParams() {
			return false
		}
		for i := range args {
			p := m.ParamAt(i)
			v := coerceValue(coerce, args[i], p)
			if !p.Instance(ir.ArgType(v)) {
				return false
			}
		}
		return true
	}
}

// bindValue converts one guarded argument to its invocation form. Assignable
// values bind directly; numeric values whose family matched at the guard
// bind through an explicit conversion so reflect.Call sees the exact
// parameter type.
func bindValue(c tortilla.CoerceFunc, v any, p ir.Type) reflect.Value {
	v = coerceValue(c, v, p)
	rt, ok := p.Runtime()
	if !ok {
		return reflect.ValueOf(v)
	}
	if v == nil {
		return reflect.Zero(rt)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(rt) {
		return rv
	}
	return rv.Convert(rt)
}

// invokeMember binds every argument, including any residual tail, and calls
// the member's runtime target. reflect packs arguments beyond the fixed
// prefix into the variadic slot.
func invokeMember(m ir.Member, coerce tortilla.CoerceFunc) ir.Invoke {
	return func(args []any) (any, error) {
		ft, ok := m.Target.(ir.FuncTarget)
		if !ok {
			return nil, tortilla.Errorf(tortilla.CodeUnsupportedMember,
				"member %s has no callable target", m.Descriptor())
		}
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			in[i] = bindValue(coerce, a, m.ParamAt(i))
		}
		return unpackResults(m, ft.Func.Call(in))
	}
}

// unpackResults maps a member's reflect results onto the routine's
// (value, error) shape.
func unpackResults(m ir.Member, out []reflect.Value) (any, error) {
	if m.ReturnsErr {
		errv := out[len(out)-1]
		out = out[:len(out)-1]
		if !errv.IsNil() {
			err := errv.Interface().(error)
			if len(out) == 0 {
				return nil, err
			}
			return out[0].Interface(), err
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// fixedClauses generates the ordered clause set for one exact arity: fixed
// members first in stable order, then the variadic members active at this
// arity. A lone zero-arity member needs no guard and invokes directly.
func fixedClauses(arity int, fixed, actives []ir.Member, coerce tortilla.CoerceFunc) ir.ClauseSet {
	set := ir.ClauseSet{Arity: arity}
	candidates := make([]ir.Member, 0, len(fixed)+len(actives))
	candidates = append(candidates, fixed...)
	candidates = append(candidates, actives...)

	for _, m := range candidates {
		var guard ir.Guard
		if arity > 0 || len(candidates) > 1 {
			guard = guardPrefix(m, arity, coerce)
		}
		set.Clauses = append(set.Clauses, ir.DispatchClause{
			Member: m,
			Guard:  guard,
			Invoke: invokeMember(m, coerce),
		})
	}
	return set
}

// tailClauses generates the single variadic clause set covering the anchor
// arity and beyond. Arguments past each member's fixed prefix form its
// residual list.
func tailClauses(anchor int, variadics []ir.Member, coerce tortilla.CoerceFunc) ir.ClauseSet {
	set := ir.ClauseSet{Arity: anchor, Tail: true}
	for _, m := range variadics {
		set.Clauses = append(set.Clauses, ir.DispatchClause{
			Member: m,
			Guard:  guardTail(m, coerce),
			Invoke: invokeMember(m, coerce),
		})
	}
	return set
}
