package wrapgen

import (
	"reflect"
	"testing"

	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// mkMember adapts a plain func value into a member record for tests.
func mkMember(name string, kind ir.MemberKind, fn any) ir.Member {
	ft := reflect.TypeOf(fn)
	m := ir.Member{
		Name:   name,
		Kind:   kind,
		Target: ir.FuncTarget{Func: reflect.ValueOf(fn)},
	}
	n := ft.NumIn()
	if ft.IsVariadic() {
		m.VarElem = ir.TypeOf(ft.In(n - 1).Elem())
		n--
	}
	for i := 0; i < n; i++ {
		m.Params = append(m.Params, ir.TypeOf(ft.In(i)))
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	switch ft.NumOut() {
	case 1:
		if ft.Out(0) == errType {
			m.ReturnsErr = true
		} else {
			m.Result = ir.TypeOf(ft.Out(0))
		}
	case 2:
		m.Result = ir.TypeOf(ft.Out(0))
		m.ReturnsErr = true
	}
	return m
}

func TestGroupByArity(t *testing.T) {
	members := []ir.Member{
		mkMember("m", ir.KindFunction, func() string { return "" }),
		mkMember("m", ir.KindFunction, func(a, b string) string { return a + b }),
		mkMember("m", ir.KindFunction, func(a string, rest ...int) string { return a }),
	}
	groups := GroupByArity(members)

	if g := groups[0]; g == nil || len(g.Fixed) != 1 || len(g.Variadic) != 0 {
		t.Errorf("unexpected arity-0 group: %+v", groups[0])
	}
	if g := groups[1]; g == nil || len(g.Fixed) != 0 || len(g.Variadic) != 1 {
		t.Errorf("unexpected arity-1 group: %+v", groups[1])
	}
	if g := groups[2]; g == nil || len(g.Fixed) != 1 {
		t.Errorf("unexpected arity-2 group: %+v", groups[2])
	}
	if groups[3] != nil {
		t.Error("expected no arity-3 group")
	}
}

func TestSortMembers(t *testing.T) {
	fn := mkMember("z", ir.KindFunction, func() {})
	ctor := mkMember("a", ir.KindConstructor, func() string { return "" })
	meth1 := mkMember("b", ir.KindMethod, func(s string) {})
	meth2 := mkMember("b", ir.KindMethod, func(n int) {})

	sorted := sortMembers([]ir.Member{fn, meth1, meth2, ctor})

	if sorted[0].Kind != ir.KindConstructor {
		t.Errorf("expected constructor first, got %v", sorted[0].Kind)
	}
	if sorted[1].Descriptor() != "b(int):void" || sorted[2].Descriptor() != "b(string):void" {
		t.Errorf("expected methods in descriptor order, got %s then %s",
			sorted[1].Descriptor(), sorted[2].Descriptor())
	}
	if sorted[3].Kind != ir.KindFunction {
		t.Errorf("expected function last, got %v", sorted[3].Kind)
	}
}
