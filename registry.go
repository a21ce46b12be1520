package tortilla

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds the generated routine sets of wrapped classes and dispatches
// calls through configured interceptors. All methods are safe for concurrent
// use.
type Registry struct {
	mu           sync.RWMutex
	classes      map[string]RoutineSet
	interceptors []CallInterceptor
	logger       *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]RoutineSet),
	}
}

// WithLogger sets a custom logger. If not set, slog.Default() is used.
// It returns the registry for chaining.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithCallInterceptor adds a global interceptor. Interceptors execute in the
// order they were added, outermost first.
func (r *Registry) WithCallInterceptor(i CallInterceptor) *Registry {
	r.interceptors = append(r.interceptors, i)
	return r
}

// Register stores the routine set for a class. Re-registering a class
// replaces the previous set and logs a warning.
func (r *Registry) Register(class string, set RoutineSet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[class]; exists {
		logger := r.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("duplicate class registration",
			slog.String("class", class))
	}

	r.classes[class] = set
}

// Lookup returns the named routine of a registered class.
func (r *Registry) Lookup(class, routine string) (Routine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.classes[class]
	if !ok {
		return nil, false
	}
	rt, ok := set[routine]
	return rt, ok
}

// Classes returns the registered class names in sorted order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Routines returns the routine names of a registered class in sorted order.
func (r *Registry) Routines(class string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.classes[class]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes a registered routine through the interceptor chain.
func (r *Registry) Call(ctx context.Context, class, routine string, args ...any) (any, error) {
	rt, ok := r.Lookup(class, routine)
	if !ok {
		return nil, Errorf(CodeClassNotResolvable, "no routine %s registered for class %s", routine, class)
	}

	r.mu.RLock()
	interceptors := r.interceptors
	r.mu.RUnlock()

	final := func(_ context.Context, args []any) (any, error) {
		return rt(args...)
	}
	call := CallInfo{Class: class, Routine: routine}
	return chainInterceptors(interceptors, call, final)(ctx, args)
}
