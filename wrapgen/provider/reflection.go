// Package provider implements class adapters that normalize a foreign
// class's callable members into the uniform member records the assembler
// consumes. The reflection adapter works from runtime reflect types and
// yields callable targets; the source adapter resolves classes from Go
// source via go/packages and yields symbolic targets for emission.
package provider

import (
	"fmt"
	"reflect"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen/ir"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Class is a runtime-reflected class handle: a Go type plus any constructor
// and static function members registered on it. Zero members of the overload
// set are shared; the handle is immutable after ClassOf returns.
type Class struct {
	t      reflect.Type
	name   string
	extras []extraMember
}

type extraMember struct {
	name string
	kind ir.MemberKind
	fn   reflect.Value
}

// Option configures a Class handle.
type Option func(*Class)

// WithName overrides the class name used in diagnostics and routine specs.
func WithName(name string) Option {
	return func(c *Class) { c.name = name }
}

// WithConstructor registers a constructor member under the given name.
// Several constructors may share a name; they form an overload set.
func WithConstructor(name string, fn any) Option {
	return func(c *Class) {
		c.extras = append(c.extras, extraMember{name, ir.KindConstructor, reflect.ValueOf(fn)})
	}
}

// WithFunction registers a static function member under the given name.
func WithFunction(name string, fn any) Option {
	return func(c *Class) {
		c.extras = append(c.extras, extraMember{name, ir.KindFunction, reflect.ValueOf(fn)})
	}
}

// ClassOf builds a class handle for a value's type. Pass a pointer instance
// (or a reflect.Type) to wrap the full method set of the pointer type.
func ClassOf(v any, opts ...Option) *Class {
	c := &Class{}
	switch t := v.(type) {
	case reflect.Type:
		c.t = t
	default:
		c.t = reflect.TypeOf(v)
	}
	if c.t != nil {
		c.name = baseType(c.t).String()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassName returns the class identity used in diagnostics.
func (c *Class) ClassName() string { return c.name }

// Members adapts the class's constructors, static functions, and methods
// into uniform member records, applying the filter after adaptation.
// Promoted methods of embedded types are excluded; they belong to every
// embedding type and are never useful to wrap. Members with more than one
// non-error result are unsupported and skipped.
func (c *Class) Members(filter func(ir.Member) bool) ([]ir.Member, error) {
	if c.t == nil {
		return nil, tortilla.Errorf(tortilla.CodeClassNotResolvable,
			"class %s has no reflectable type", c.name)
	}
	if c.t.Kind() == reflect.Interface {
		return nil, tortilla.Errorf(tortilla.CodeClassNotResolvable,
			"interface type %s cannot be wrapped at runtime", c.t)
	}

	var members []ir.Member

	for _, e := range c.extras {
		if e.fn.Kind() != reflect.Func {
			return nil, tortilla.Errorf(tortilla.CodeUnsupportedMember,
				"%s member %s of class %s is not a function", e.kind, e.name, c.name)
		}
		m, ok := c.adaptFunc(e.name, e.kind, e.fn, nil)
		if !ok {
			continue
		}
		if filter == nil || filter(m) {
			members = append(members, m)
		}
	}

	promoted := promotedMethodNames(c.t)
	for i := 0; i < c.t.NumMethod(); i++ {
		method := c.t.Method(i)
		if promoted[method.Name] {
			continue
		}
		m, ok := c.adaptFunc(method.Name, ir.KindMethod, method.Func, c.t)
		if !ok {
			continue
		}
		if filter == nil || filter(m) {
			members = append(members, m)
		}
	}

	return members, nil
}

// adaptFunc normalizes one callable into a Member record. recv is non-nil
// for methods, whose receiver reflect already exposes as the leading
// parameter of Method.Func.
func (c *Class) adaptFunc(name string, kind ir.MemberKind, fn reflect.Value, recv reflect.Type) (ir.Member, bool) {
	ft := fn.Type()

	m := ir.Member{
		Name:      name,
		Kind:      kind,
		Static:    recv == nil,
		Declaring: ir.TypeOf(c.t),
		Target:    ir.FuncTarget{Func: fn},
	}

	n := ft.NumIn()
	if ft.IsVariadic() {
		m.VarElem = ir.TypeOf(ft.In(n - 1).Elem())
		n--
	}
	for i := 0; i < n; i++ {
		m.Params = append(m.Params, ir.TypeOf(ft.In(i)))
	}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errType {
			m.ReturnsErr = true
		} else {
			m.Result = ir.TypeOf(ft.Out(0))
		}
	case 2:
		if ft.Out(1) != errType {
			return ir.Member{}, false
		}
		m.Result = ir.TypeOf(ft.Out(0))
		m.ReturnsErr = true
	default:
		return ir.Member{}, false
	}

	return m, true
}

// promotedMethodNames collects the method names a struct type inherits from
// its embedded fields, at any promotion depth reflect would surface.
func promotedMethodNames(t reflect.Type) map[string]bool {
	base := baseType(t)
	if base.Kind() != reflect.Struct {
		return nil
	}

	names := make(map[string]bool)
	for i := 0; i < base.NumField(); i++ {
		f := base.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() != reflect.Ptr {
			ft = reflect.PointerTo(ft)
		}
		for j := 0; j < ft.NumMethod(); j++ {
			names[ft.Method(j).Name] = true
		}
	}
	return names
}

// baseType dereferences pointer types.
func baseType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// String implements fmt.Stringer for log output.
func (c *Class) String() string {
	return fmt.Sprintf("class %s (%d extra members)", c.name, len(c.extras))
}
