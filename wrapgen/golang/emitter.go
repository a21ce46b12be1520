// Package golang renders dispatch routines as standalone Go source. The
// emitted file depends only on the tortilla runtime package and the packages
// declaring the wrapped members, so it can be checked in and compiled
// without the generator present.
package golang

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/loganlinn/tortilla/wrapgen/ir"
)

const runtimePkg = "github.com/loganlinn/tortilla"

// Options control the shape of the emitted source file.
type Options struct {
	// Package names the emitted package. Defaults to "wrappers".
	Package string
	// Width is the column at which doc comments wrap.
	Width int
	// Metadata emits a signature listing above each routine.
	Metadata bool
	// Instrument wraps each routine with call logging.
	Instrument bool
	// Coerce hooks the runtime numeric coercion into every guard.
	Coerce bool
}

// Emit writes one Go source file containing a dispatch routine per spec.
func Emit(w io.Writer, specs []ir.RoutineSpec, opts Options) error {
	if opts.Package == "" {
		opts.Package = "wrappers"
	}
	if opts.Width <= 0 {
		opts.Width = 100
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by tortilla. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)

	if err := writeImports(&b, specs, opts); err != nil {
		return err
	}

	if opts.Coerce {
		fmt.Fprintf(&b, "var coerce tortilla.CoerceFunc = tortilla.NumericCoercion\n\n")
	} else {
		fmt.Fprintf(&b, "var coerce tortilla.CoerceFunc\n\n")
	}

	for i, spec := range specs {
		if i > 0 {
			b.WriteByte('\n')
		}
		if err := emitRoutine(&b, spec, opts); err != nil {
			return err
		}
	}

	src, err := format.Source(b.Bytes())
	if err != nil {
		return fmt.Errorf("formatting generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func writeImports(b *bytes.Buffer, specs []ir.RoutineSpec, opts Options) error {
	paths := map[string]bool{runtimePkg: true}
	for _, spec := range specs {
		for _, set := range spec.Sets {
			for _, cl := range set.Clauses {
				memberImports(paths, cl.Member)
			}
		}
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		// Emitted types and calls qualify names with the declaring package,
		// so the file cannot share a name with any package it imports.
		if pkgIdent(p) == opts.Package {
			return fmt.Errorf("emitted package %q collides with import %q; pick a different package name", opts.Package, p)
		}
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	fmt.Fprintf(b, "import (\n")
	for _, p := range sorted {
		fmt.Fprintf(b, "\t%q\n", p)
	}
	fmt.Fprintf(b, ")\n\n")
	return nil
}

func memberImports(paths map[string]bool, m ir.Member) {
	for _, p := range m.Params {
		typeImports(paths, p)
	}
	if m.VarElem != nil {
		typeImports(paths, m.VarElem)
	}
	if m.Result != nil {
		typeImports(paths, m.Result)
	}
	if st, ok := m.Target.(ir.SymbolTarget); ok && st.PkgPath != "" {
		paths[st.PkgPath] = true
	}
}

func typeImports(paths map[string]bool, t ir.Type) {
	if rt, ok := t.Runtime(); ok {
		runtimeImports(paths, rt, 0)
		return
	}
	if ip, ok := t.(interface{ ImportPaths() []string }); ok {
		for _, p := range ip.ImportPaths() {
			paths[p] = true
		}
	}
}

func runtimeImports(paths map[string]bool, t reflect.Type, depth int) {
	if t == nil || depth > 8 {
		return
	}
	if p := t.PkgPath(); p != "" {
		paths[p] = true
		return
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
		runtimeImports(paths, t.Elem(), depth+1)
	case reflect.Map:
		runtimeImports(paths, t.Key(), depth+1)
		runtimeImports(paths, t.Elem(), depth+1)
	case reflect.Func:
		for i := 0; i < t.NumIn(); i++ {
			runtimeImports(paths, t.In(i), depth+1)
		}
		for i := 0; i < t.NumOut(); i++ {
			runtimeImports(paths, t.Out(i), depth+1)
		}
	}
}

func emitRoutine(b *bytes.Buffer, spec ir.RoutineSpec, opts Options) error {
	ident := exportedIdent(spec.Name)

	if opts.Metadata {
		emitDoc(b, ident, spec, opts.Width)
	}

	if opts.Instrument {
		fmt.Fprintf(b, "var %s = tortilla.Instrument(%q, %q, nil, func(args ...any) (any, error) {\n",
			ident, spec.Class, spec.Name)
	} else {
		fmt.Fprintf(b, "func %s(args ...any) (any, error) {\n", ident)
	}

	fmt.Fprintf(b, "\tswitch len(args) {\n")
	for _, set := range spec.Sets {
		if set.Tail {
			fmt.Fprintf(b, "\tdefault:\n")
			fmt.Fprintf(b, "\t\tif len(args) >= %d {\n", set.Arity)
			for _, cl := range set.Clauses {
				if err := emitClause(b, cl.Member, set.Arity, true, "\t\t\t"); err != nil {
					return err
				}
			}
			fmt.Fprintf(b, "\t\t}\n")
			continue
		}
		fmt.Fprintf(b, "\tcase %d:\n", set.Arity)
		for _, cl := range set.Clauses {
			if err := emitClause(b, cl.Member, set.Arity, false, "\t\t"); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\treturn nil, tortilla.NewOverloadError(%q, %q, args)\n", spec.Class, spec.Member)

	if opts.Instrument {
		fmt.Fprintf(b, "})\n")
	} else {
		fmt.Fprintf(b, "}\n")
	}
	return nil
}

func emitDoc(b *bytes.Buffer, ident string, spec ir.RoutineSpec, width int) {
	fmt.Fprintf(b, "// %s dispatches the %s overloads of %s.\n", ident, spec.Member, spec.Class)
	fmt.Fprintf(b, "//\n// Accepted signatures:\n")
	for _, sig := range spec.Signatures {
		line := "(" + strings.Join(sig, ", ") + ")"
		for _, part := range wrapLine(line, width-6) {
			fmt.Fprintf(b, "//\t%s\n", part)
		}
	}
}

// wrapLine splits a signature line at argument boundaries so no part exceeds
// the configured width.
func wrapLine(line string, width int) []string {
	if width <= 0 || len(line) <= width {
		return []string{line}
	}
	var parts []string
	for len(line) > width {
		cut := strings.LastIndex(line[:width], ", ")
		if cut <= 0 {
			break
		}
		parts = append(parts, line[:cut+1])
		line = "  " + line[cut+2:]
	}
	return append(parts, line)
}

// emitClause renders one guarded invocation. A fixed clause binds every
// position with a typed match; a tail clause binds the positions before the
// variadic tail and collects the remainder with a bulk match. Matches that
// fail fall through to the next clause.
func emitClause(b *bytes.Buffer, m ir.Member, arity int, tail bool, indent string) error {
	positions := arity
	depth := 0
	if tail {
		// The surrounding branch only guarantees the set's anchor arity. A
		// member whose fixed prefix exceeds the anchor needs its own length
		// guard before any position is indexed, so short calls fall through
		// to the no-match error.
		positions = m.MinParams()
		if positions > arity {
			fmt.Fprintf(b, "%sif len(args) >= %d {\n", indent, positions)
			depth++
		}
	}

	for i := 0; i < positions; i++ {
		p := m.ParamAt(i)
		fmt.Fprintf(b, "%sif a%d, ok := tortilla.Match[%s](coerce, args[%d]); ok {\n",
			indent+strings.Repeat("\t", depth), i, p.String(), i)
		depth++
	}
	if tail {
		fmt.Fprintf(b, "%sif rest, ok := tortilla.MatchAll[%s](coerce, args[%d:]); ok {\n",
			indent+strings.Repeat("\t", depth), m.VarElem.String(), positions)
		depth++
	}

	ret, err := returnStmt(m, positions, tail)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "%s%s\n", indent+strings.Repeat("\t", depth), ret)

	for depth > 0 {
		depth--
		fmt.Fprintf(b, "%s}\n", indent+strings.Repeat("\t", depth))
	}
	return nil
}

// returnStmt builds the call expression and the return statement shaping its
// results into the (any, error) routine contract.
func returnStmt(m ir.Member, positions int, tail bool) (string, error) {
	call, err := callExpr(m, positions, tail)
	if err != nil {
		return "", err
	}
	switch {
	case m.Result != nil && m.ReturnsErr:
		return "return " + call, nil
	case m.Result != nil:
		return "return " + call + ", nil", nil
	case m.ReturnsErr:
		return "return nil, " + call, nil
	default:
		return call + "\nreturn nil, nil", nil
	}
}

func callExpr(m ir.Member, positions int, tail bool) (string, error) {
	var callable string
	argStart := 0
	switch t := m.Target.(type) {
	case ir.SymbolTarget:
		if m.Kind == ir.KindMethod {
			callable = "a0." + t.Name
			argStart = 1
		} else {
			callable = pkgIdent(t.PkgPath) + "." + t.Name
		}
	case ir.FuncTarget:
		if m.Kind == ir.KindMethod {
			callable = "a0." + m.Name
			argStart = 1
		} else {
			callable = pkgIdent(t.TargetName())
		}
	default:
		return "", fmt.Errorf("member %s has no emittable target", m.Descriptor())
	}

	var args []string
	for i := argStart; i < positions; i++ {
		args = append(args, fmt.Sprintf("a%d", i))
	}
	if tail {
		args = append(args, "rest...")
	}
	return callable + "(" + strings.Join(args, ", ") + ")", nil
}
