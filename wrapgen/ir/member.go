package ir

import (
	"reflect"
	"runtime"
	"strings"
)

// MemberKind identifies the declaring shape of a callable member.
type MemberKind int

const (
	KindConstructor MemberKind = iota // function constructing the class type
	KindMethod                        // instance method; receiver is the implicit first parameter
	KindFunction                      // static function registered on the class
)

// String returns the string representation of the member kind.
func (k MemberKind) String() string {
	switch k {
	case KindConstructor:
		return "Constructor"
	case KindMethod:
		return "Method"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// Target is the opaque invocation target of a member. Runtime-backed members
// carry a callable func value; source-resolved members carry a symbol usable
// only by the source emitter.
type Target interface {
	// TargetName returns a human-readable identity for diagnostics.
	TargetName() string
}

// FuncTarget is a runtime-backed invocation target.
type FuncTarget struct {
	Func reflect.Value
}

func (t FuncTarget) TargetName() string {
	if fn := runtime.FuncForPC(t.Func.Pointer()); fn != nil {
		return fn.Name()
	}
	return t.Func.Type().String()
}

// SymbolTarget is a source-resolved invocation target.
type SymbolTarget struct {
	PkgPath string
	Recv    string // receiver type name; empty for constructors and functions
	Name    string
}

func (t SymbolTarget) TargetName() string {
	if t.Recv != "" {
		return t.PkgPath + "." + t.Recv + "." + t.Name
	}
	return t.PkgPath + "." + t.Name
}

// Member is the uniform record for one callable member of a class. For an
// instance method, the receiver appears as Params[0] and invocation is
// unbound. For a variadic member, Params holds the fixed prefix and VarElem
// the repeating element type.
type Member struct {
	Name       string
	Kind       MemberKind
	Params     []Type
	VarElem    Type // nil for fixed-arity members
	Result     Type // nil for void members
	ReturnsErr bool // member reports a trailing error result
	Static     bool
	Declaring  Type
	Target     Target
}

// IsVariadic reports whether the member accepts a repeating tail.
func (m Member) IsVariadic() bool { return m.VarElem != nil }

// MinParams is the number of parameters before any repeating tail.
func (m Member) MinParams() int { return len(m.Params) }

// ParamAt returns the declared type at parameter position i. Positions at or
// beyond MinParams resolve to the repeating element type of a variadic
// member.
func (m Member) ParamAt(i int) Type {
	if i < len(m.Params) {
		return m.Params[i]
	}
	return m.VarElem
}

// Descriptor renders the member as name(t1,t2,...):ret, with "..." appended
// to the final type when it is the repeating varargs element. Filters match
// against this string.
func (m Member) Descriptor() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	if m.VarElem != nil {
		if len(m.Params) > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.VarElem.String())
		b.WriteString("...")
	}
	b.WriteString("):")
	if m.Result == nil {
		b.WriteString("void")
	} else {
		b.WriteString(m.Result.String())
	}
	return b.String()
}

// Signature returns the declared parameter-type list for documentation, with
// the repeating element marked by a trailing "...".
func (m Member) Signature() []string {
	sig := make([]string, 0, len(m.Params)+1)
	for _, p := range m.Params {
		sig = append(sig, p.String())
	}
	if m.VarElem != nil {
		sig = append(sig, m.VarElem.String()+"...")
	}
	return sig
}
