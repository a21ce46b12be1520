// Package wrapgen synthesizes overload-dispatch routines from the reflected
// members of a foreign class. Providers adapt a class into uniform member
// records, the assembler merges each name's overload set into an ordered
// multi-clause routine spec, and emission turns specs into directly callable
// closures or Go source text.
//
// Example:
//
//	routines, err := wrapgen.FromClass(
//	    provider.ClassOf(&strings.Builder{},
//	        provider.WithConstructor("new", func() *strings.Builder { return &strings.Builder{} })),
//	).WithPrefix("sb-").Routines()
//
//	v, err := routines["sb-write-string"](b, "hello")
package wrapgen

import (
	"io"
	"iter"
	"log/slog"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen/golang"
	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// Generator provides a fluent API for routine generation. Create with
// FromClass and configure with method chaining; each terminal method runs a
// fresh, stateless generation pass.
type Generator struct {
	class  ClassSource
	cfg    Config
	logger *slog.Logger
}

// FromClass creates a Generator for the given class source.
func FromClass(class ClassSource) *Generator {
	return &Generator{
		class: class,
		cfg:   Config{Metadata: true},
	}
}

// WithPrefix sets the identifier prefix for generated routines.
func (g *Generator) WithPrefix(prefix string) *Generator {
	g.cfg.Prefix = prefix
	return g
}

// WithCoercion sets the coercion hook applied before type guards and
// invocation.
func (g *Generator) WithCoercion(c tortilla.CoerceFunc) *Generator {
	g.cfg.Coerce = c
	return g
}

// WithInclude adds include patterns matched against member descriptors.
func (g *Generator) WithInclude(patterns ...string) *Generator {
	g.cfg.Include = append(g.cfg.Include, patterns...)
	return g
}

// WithExclude adds exclude patterns matched against member descriptors.
func (g *Generator) WithExclude(patterns ...string) *Generator {
	g.cfg.Exclude = append(g.cfg.Exclude, patterns...)
	return g
}

// WithFilter sets an additional member predicate.
func (g *Generator) WithFilter(filter func(ir.Member) bool) *Generator {
	g.cfg.Filter = filter
	return g
}

// WithoutMetadata disables signature documentation on emitted routines.
func (g *Generator) WithoutMetadata() *Generator {
	g.cfg.Metadata = false
	return g
}

// WithInstrument wraps generated routines with a logging interceptor.
func (g *Generator) WithInstrument(logger *slog.Logger) *Generator {
	g.cfg.Instrument = true
	g.logger = logger
	return g
}

// WithPackage names the package of emitted Go source.
func (g *Generator) WithPackage(name string) *Generator {
	g.cfg.Package = name
	return g
}

// WithWidth sets the column limit for emitted source.
func (g *Generator) WithWidth(width int) *Generator {
	g.cfg.Width = width
	return g
}

// Specs assembles the routine specifications for the class, one per distinct
// member name.
func (g *Generator) Specs() ([]ir.RoutineSpec, error) {
	return AssembleClass(g.class, &g.cfg)
}

// Routines assembles the class and emits each spec as a directly callable
// routine.
func (g *Generator) Routines() (tortilla.RoutineSet, error) {
	specs, err := g.Specs()
	if err != nil {
		return nil, err
	}
	set := make(tortilla.RoutineSet, len(specs))
	for _, spec := range specs {
		r := BindRoutine(spec)
		if g.cfg.Instrument {
			r = tortilla.Instrument(spec.Class, spec.Name, g.logger, r)
		}
		set[spec.Name] = r
	}
	return set, nil
}

// Descriptors returns the member descriptor strings of the class as a
// finite, restartable sequence, in discovery order.
func (g *Generator) Descriptors() (iter.Seq[string], error) {
	cfg := applyConfigDefaults(&g.cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	filter, err := compileFilter(cfg)
	if err != nil {
		return nil, err
	}
	members, err := g.class.Members(filter)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for _, m := range members {
			if !yield(m.Descriptor()) {
				return
			}
		}
	}, nil
}

// EmitGo renders the class's routines as Go source text.
func (g *Generator) EmitGo(w io.Writer) error {
	specs, err := g.Specs()
	if err != nil {
		return err
	}
	cfg := applyConfigDefaults(&g.cfg)
	return golang.Emit(w, specs, golang.Options{
		Package:    cfg.Package,
		Width:      cfg.Width,
		Metadata:   cfg.Metadata,
		Instrument: cfg.Instrument,
		Coerce:     cfg.Coerce != nil,
	})
}

// BindRoutine emits one routine spec as a callable closure: an arity switch
// over the spec's clause sets, first matching guard wins, no match raises an
// OverloadResolutionError naming every argument's runtime type.
func BindRoutine(spec ir.RoutineSpec) tortilla.Routine {
	return func(args ...any) (any, error) {
		if set, ok := spec.SetForArity(len(args)); ok {
			for _, c := range set.Clauses {
				if c.Guard == nil || c.Guard(args) {
					return c.Invoke(args)
				}
			}
		}
		return nil, tortilla.NewOverloadError(spec.Class, spec.Member, args)
	}
}
