package tortilla

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("strings.Builder", RoutineSet{
		"write-string": func(args ...any) (any, error) { return len(args), nil },
	})

	rt, ok := r.Lookup("strings.Builder", "write-string")
	if !ok {
		t.Fatal("expected routine to be found")
	}
	v, err := rt(1, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 {
		t.Errorf("expected 3, got %v", v)
	}

	if _, ok := r.Lookup("strings.Builder", "missing"); ok {
		t.Error("expected missing routine to not be found")
	}
	if _, ok := r.Lookup("missing", "write-string"); ok {
		t.Error("expected missing class to not be found")
	}
}

func TestRegistryClassesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta.Z", RoutineSet{})
	r.Register("alpha.A", RoutineSet{})
	r.Register("mid.M", RoutineSet{})

	got := r.Classes()
	want := []string{"alpha.A", "mid.M", "zeta.Z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRegistryRoutinesSorted(t *testing.T) {
	r := NewRegistry()
	noop := func(args ...any) (any, error) { return nil, nil }
	r.Register("c", RoutineSet{"b": noop, "a": noop})

	got := r.Routines("c")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if r.Routines("missing") != nil {
		t.Error("expected nil for unregistered class")
	}
}

func TestRegistryCallUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Call(context.Background(), "c", "m")
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if terr.Code != CodeClassNotResolvable {
		t.Errorf("expected code %s, got %s", CodeClassNotResolvable, terr.Code)
	}
}

func TestRegistryCallInterceptorOrder(t *testing.T) {
	var order []string
	mk := func(name string) CallInterceptor {
		return func(ctx context.Context, call CallInfo, args []any, next Invoker) (any, error) {
			order = append(order, name+"-before")
			v, err := next(ctx, args)
			order = append(order, name+"-after")
			return v, err
		}
	}

	r := NewRegistry().
		WithCallInterceptor(mk("outer")).
		WithCallInterceptor(mk("inner"))
	r.Register("c", RoutineSet{
		"m": func(args ...any) (any, error) {
			order = append(order, "routine")
			return "ok", nil
		},
	})

	v, err := r.Call(context.Background(), "c", "m", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "ok" {
		t.Errorf("expected ok, got %v", v)
	}
	want := []string{"outer-before", "inner-before", "routine", "inner-after", "outer-after"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected order %v, got %v", want, order)
	}
}

func TestRegistryInterceptorShortCircuit(t *testing.T) {
	r := NewRegistry().WithCallInterceptor(
		func(ctx context.Context, call CallInfo, args []any, next Invoker) (any, error) {
			return nil, errors.New("denied")
		})
	called := false
	r.Register("c", RoutineSet{
		"m": func(args ...any) (any, error) {
			called = true
			return nil, nil
		},
	})

	_, err := r.Call(context.Background(), "c", "m")
	if err == nil || err.Error() != "denied" {
		t.Errorf("expected denied error, got %v", err)
	}
	if called {
		t.Error("expected routine not to be called")
	}
}
