package ir

import (
	"bytes"
	"reflect"
	"testing"
)

func TestNumericFamily(t *testing.T) {
	tests := []struct {
		t    reflect.Type
		want Family
	}{
		{reflect.TypeOf(int8(0)), FamilySigned},
		{reflect.TypeOf(int(0)), FamilySigned},
		{reflect.TypeOf(uint16(0)), FamilyUnsigned},
		{reflect.TypeOf(uintptr(0)), FamilyUnsigned},
		{reflect.TypeOf(float32(0)), FamilyFloat},
		{reflect.TypeOf(complex64(0)), FamilyComplex},
		{reflect.TypeOf(""), FamilyNone},
		{reflect.TypeOf(true), FamilyNone},
		{nil, FamilyNone},
	}
	for _, tt := range tests {
		if got := NumericFamily(tt.t); got != tt.want {
			t.Errorf("NumericFamily(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestBoxed(t *testing.T) {
	tests := []struct {
		name string
		t    reflect.Type
		want string
	}{
		{"int widens", reflect.TypeOf(int8(0)), "int64"},
		{"uint widens", reflect.TypeOf(uint(0)), "uint64"},
		{"float widens", reflect.TypeOf(float32(0)), "float64"},
		{"complex widens", reflect.TypeOf(complex64(0)), "complex128"},
		{"string is itself", reflect.TypeOf(""), "string"},
		{"pointer is itself", reflect.TypeOf(&bytes.Buffer{}), "*bytes.Buffer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.t).Boxed().String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestInstance(t *testing.T) {
	bufT := TypeOf(reflect.TypeOf(&bytes.Buffer{}))
	intT := TypeOf(reflect.TypeOf(int(0)))
	strT := TypeOf(reflect.TypeOf(""))
	readerT := TypeOf(reflect.TypeOf((*interface{ Read([]byte) (int, error) })(nil)).Elem())

	tests := []struct {
		name  string
		param Type
		arg   Type
		want  bool
	}{
		{"exact match", strT, ArgType("x"), true},
		{"assignable to interface", readerT, ArgType(&bytes.Buffer{}), true},
		{"same family widens", intT, ArgType(int32(1)), true},
		{"cross family rejected", intT, ArgType(1.5), false},
		{"unrelated rejected", strT, ArgType(1), false},
		{"nil matches pointer", bufT, nil, true},
		{"nil rejected by value type", intT, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.param.Instance(tt.arg); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestArgType(t *testing.T) {
	if ArgType(nil) != nil {
		t.Error("expected nil for untyped nil argument")
	}
	if got := ArgType(42).String(); got != "int" {
		t.Errorf("expected int, got %s", got)
	}
}

func TestNilableKind(t *testing.T) {
	if !NilableKind(reflect.Slice) || !NilableKind(reflect.Interface) {
		t.Error("expected slice and interface to be nilable")
	}
	if NilableKind(reflect.Int) || NilableKind(reflect.Struct) {
		t.Error("expected int and struct to not be nilable")
	}
}
