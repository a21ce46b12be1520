package tortilla

import (
	"bytes"
	"reflect"
	"testing"
)

func TestNumericCoercion(t *testing.T) {
	tests := []struct {
		name   string
		v      any
		target reflect.Type
		want   any
	}{
		{"int to float64", 3, reflect.TypeOf(float64(0)), 3.0},
		{"float to int truncates", 2.9, reflect.TypeOf(int(0)), 2},
		{"uint to int", uint(5), reflect.TypeOf(int(0)), 5},
		{"non-numeric value untouched", "s", reflect.TypeOf(float64(0)), "s"},
		{"non-numeric target untouched", 3, reflect.TypeOf(""), 3},
		{"nil untouched", nil, reflect.TypeOf(int(0)), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NumericCoercion(tt.v, tt.target); got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	t.Run("exact type", func(t *testing.T) {
		v, ok := Match[string](nil, "hello")
		if !ok || v != "hello" {
			t.Errorf("expected hello, got %v (%v)", v, ok)
		}
	})

	t.Run("family widening without coercion", func(t *testing.T) {
		v, ok := Match[int64](nil, 42)
		if !ok || v != 42 {
			t.Errorf("expected 42, got %v (%v)", v, ok)
		}
	})

	t.Run("cross family rejected without coercion", func(t *testing.T) {
		if _, ok := Match[float64](nil, 42); ok {
			t.Error("expected int to not match float64 without coercion")
		}
	})

	t.Run("cross family accepted with coercion", func(t *testing.T) {
		v, ok := Match[float64](NumericCoercion, 42)
		if !ok || v != 42.0 {
			t.Errorf("expected 42.0, got %v (%v)", v, ok)
		}
	})

	t.Run("nil matches nilable", func(t *testing.T) {
		v, ok := Match[*bytes.Buffer](nil, nil)
		if !ok || v != nil {
			t.Errorf("expected nil pointer match, got %v (%v)", v, ok)
		}
	})

	t.Run("nil rejected for value type", func(t *testing.T) {
		if _, ok := Match[int](nil, nil); ok {
			t.Error("expected nil to not match int")
		}
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		if _, ok := Match[string](nil, 42); ok {
			t.Error("expected int to not match string")
		}
	})
}

func TestMatchAll(t *testing.T) {
	t.Run("all match", func(t *testing.T) {
		vs, ok := MatchAll[int64](nil, []any{1, int32(2), int64(3)})
		if !ok {
			t.Fatal("expected match")
		}
		want := []int64{1, 2, 3}
		if !reflect.DeepEqual(vs, want) {
			t.Errorf("expected %v, got %v", want, vs)
		}
	})

	t.Run("one mismatch rejects all", func(t *testing.T) {
		if _, ok := MatchAll[int64](nil, []any{1, "x", 3}); ok {
			t.Error("expected mismatch")
		}
	})

	t.Run("empty list matches", func(t *testing.T) {
		vs, ok := MatchAll[string](nil, nil)
		if !ok || len(vs) != 0 {
			t.Errorf("expected empty match, got %v (%v)", vs, ok)
		}
	})
}
