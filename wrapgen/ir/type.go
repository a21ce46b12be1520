// Package ir defines the immutable value records the generation pipeline
// produces and consumes: platform types, class members, and routine
// specifications. Everything here is built once per generation pass and
// shared read-only.
package ir

import "reflect"

// Family classifies a numeric kind for boxed-form testing. Values within one
// family are interchangeable at a type guard; crossing families requires the
// coercion hook.
type Family int

const (
	FamilyNone Family = iota
	FamilySigned
	FamilyUnsigned
	FamilyFloat
	FamilyComplex
)

// NumericFamily returns the numeric family of a reflect type.
func NumericFamily(t reflect.Type) Family {
	if t == nil {
		return FamilyNone
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FamilySigned
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return FamilyUnsigned
	case reflect.Float32, reflect.Float64:
		return FamilyFloat
	case reflect.Complex64, reflect.Complex128:
		return FamilyComplex
	}
	return FamilyNone
}

// NilableKind reports whether a kind can hold an untyped nil.
func NilableKind(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return true
	}
	return false
}

// Type is an opaque identifier for a type in the wrapped platform's type
// system. It supports a boxed (reference) form mapping and instance testing.
// Runtime-backed types wrap a reflect.Type; source-resolved types carry only
// names and are never instance-tested at call time.
type Type interface {
	// String returns the platform name used in member descriptors.
	String() string

	// Boxed returns the reference form used for instance tests: numeric
	// kinds widen to their family's canonical width, everything else is
	// itself.
	Boxed() Type

	// Instance reports whether a value whose runtime type is arg is
	// acceptable where this type is declared. A nil arg denotes an untyped
	// nil argument.
	Instance(arg Type) bool

	// Nilable reports whether the type can hold an untyped nil.
	Nilable() bool

	// Runtime returns the backing reflect.Type when the type is
	// runtime-backed.
	Runtime() (reflect.Type, bool)
}

var (
	canonicalSigned   = reflect.TypeOf(int64(0))
	canonicalUnsigned = reflect.TypeOf(uint64(0))
	canonicalFloat    = reflect.TypeOf(float64(0))
	canonicalComplex  = reflect.TypeOf(complex128(0))
)

// TypeOf wraps a reflect.Type as an ir.Type.
func TypeOf(t reflect.Type) Type {
	if t == nil {
		return nil
	}
	return rtype{t}
}

// ArgType returns the runtime type of an argument value, or nil for an
// untyped nil argument.
func ArgType(v any) Type {
	if v == nil {
		return nil
	}
	return rtype{reflect.TypeOf(v)}
}

// rtype is the runtime-backed Type implementation.
type rtype struct {
	t reflect.Type
}

func (r rtype) String() string { return r.t.String() }

func (r rtype) Boxed() Type {
	switch NumericFamily(r.t) {
	case FamilySigned:
		return rtype{canonicalSigned}
	case FamilyUnsigned:
		return rtype{canonicalUnsigned}
	case FamilyFloat:
		return rtype{canonicalFloat}
	case FamilyComplex:
		return rtype{canonicalComplex}
	}
	return r
}

func (r rtype) Instance(arg Type) bool {
	if arg == nil {
		return r.Nilable()
	}
	at, ok := arg.Runtime()
	if !ok {
		return false
	}
	if at.AssignableTo(r.t) {
		return true
	}
	if f := NumericFamily(at); f != FamilyNone && f == NumericFamily(r.t) {
		return true
	}
	return false
}

func (r rtype) Nilable() bool { return NilableKind(r.t.Kind()) }

func (r rtype) Runtime() (reflect.Type, bool) { return r.t, true }
