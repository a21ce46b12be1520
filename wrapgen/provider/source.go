package provider

import (
	"fmt"
	"go/types"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen/ir"
)

// SourceClass is a class handle resolved from Go source. Its members carry
// symbolic invocation targets usable by the source emitter; they cannot be
// bound to callable closures.
type SourceClass struct {
	name    string
	pkgPath string
	members []ir.Member
}

// ResolveSource maps a class pattern of the form "import/path.TypeName" to a
// class handle by loading the package's type information. dir, when
// non-empty, is the working directory for package resolution (a scratch
// module when dependency coordinates were supplied).
func ResolveSource(pattern, dir string) (*SourceClass, error) {
	pkgPath, typeName, ok := splitClassPattern(pattern)
	if !ok {
		return nil, tortilla.Errorf(tortilla.CodeClassNotResolvable,
			"class pattern %q is not of the form import/path.TypeName", pattern)
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return nil, tortilla.WrapError(tortilla.CodeClassNotResolvable, err,
			fmt.Sprintf("loading package %s", pkgPath))
	}
	if len(pkgs) == 0 || pkgs[0].Types == nil {
		return nil, tortilla.Errorf(tortilla.CodeClassNotResolvable,
			"no package found for %s", pkgPath)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, tortilla.Errorf(tortilla.CodeClassNotResolvable,
			"package %s has errors: %v", pkgPath, pkg.Errors[0])
	}

	obj := pkg.Types.Scope().Lookup(typeName)
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, tortilla.Errorf(tortilla.CodeClassNotResolvable,
			"%s has no type named %s", pkgPath, typeName)
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, tortilla.Errorf(tortilla.CodeClassNotResolvable,
			"%s.%s is not a named type", pkgPath, typeName)
	}

	c := &SourceClass{
		name:    pkg.Types.Name() + "." + typeName,
		pkgPath: pkg.PkgPath,
	}
	q := qualifier(pkg.Types)
	declaring := newSourceType(named, q)

	c.members = append(c.members, sourceConstructors(pkg.Types, named, typeName, q, declaring)...)
	c.members = append(c.members, sourceMethods(named, typeName, pkg.PkgPath, q, declaring)...)
	return c, nil
}

// splitClassPattern splits "import/path.TypeName" at the final dot after the
// last path separator.
func splitClassPattern(pattern string) (pkgPath, typeName string, ok bool) {
	idx := strings.LastIndex(pattern, ".")
	if idx <= strings.LastIndex(pattern, "/") || idx == len(pattern)-1 {
		return "", "", false
	}
	return pattern[:idx], pattern[idx+1:], true
}

// ClassName returns the class identity used in diagnostics.
func (c *SourceClass) ClassName() string { return c.name }

// Members returns the adapted members passing the filter.
func (c *SourceClass) Members(filter func(ir.Member) bool) ([]ir.Member, error) {
	if filter == nil {
		return c.members, nil
	}
	out := make([]ir.Member, 0, len(c.members))
	for _, m := range c.members {
		if filter(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// sourceMethods adapts the pointer method set of the named type, excluding
// methods promoted from embedded types.
func sourceMethods(named *types.Named, typeName, pkgPath string, q types.Qualifier, declaring ir.Type) []ir.Member {
	var members []ir.Member
	mset := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		// Promoted methods have a selection path longer than one step.
		if len(sel.Index()) > 1 {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok {
			continue
		}

		m, ok := adaptSignature(fn.Name(), ir.KindMethod, sig, q, declaring)
		if !ok {
			continue
		}
		recv := typeName
		if _, isPtr := sig.Recv().Type().(*types.Pointer); isPtr {
			recv = "*" + typeName
		}
		// The receiver is the implicit leading parameter.
		m.Params = append([]ir.Type{newSourceType(sig.Recv().Type(), q)}, m.Params...)
		m.Static = false
		m.Target = ir.SymbolTarget{PkgPath: pkgPath, Recv: recv, Name: fn.Name()}
		members = append(members, m)
	}
	return members
}

// sourceConstructors finds package-level factory functions for the type:
// exported functions named New or New<TypeName> whose first result is the
// type or a pointer to it. They adapt under the member name "new".
func sourceConstructors(pkg *types.Package, named *types.Named, typeName string, q types.Qualifier, declaring ir.Type) []ir.Member {
	var members []ir.Member
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if name != "New" && name != "New"+typeName {
			continue
		}
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Results().Len() == 0 {
			continue
		}
		if !resultsInType(sig.Results().At(0).Type(), named) {
			continue
		}

		m, ok := adaptSignature("new", ir.KindConstructor, sig, q, declaring)
		if !ok {
			continue
		}
		m.Static = true
		m.Target = ir.SymbolTarget{PkgPath: pkg.Path(), Name: name}
		members = append(members, m)
	}
	return members
}

func resultsInType(res types.Type, named *types.Named) bool {
	if ptr, ok := res.(*types.Pointer); ok {
		res = ptr.Elem()
	}
	return types.Identical(res, named)
}

// adaptSignature normalizes a go/types signature into a Member record,
// without receiver or target. Signatures with more than one non-error result
// are unsupported.
func adaptSignature(name string, kind ir.MemberKind, sig *types.Signature, q types.Qualifier, declaring ir.Type) (ir.Member, bool) {
	m := ir.Member{
		Name:      name,
		Kind:      kind,
		Declaring: declaring,
	}

	params := sig.Params()
	n := params.Len()
	if sig.Variadic() {
		elem := params.At(n - 1).Type().(*types.Slice).Elem()
		m.VarElem = newSourceType(elem, q)
		n--
	}
	for i := 0; i < n; i++ {
		m.Params = append(m.Params, newSourceType(params.At(i).Type(), q))
	}

	results := sig.Results()
	switch results.Len() {
	case 0:
	case 1:
		if isErrorType(results.At(0).Type()) {
			m.ReturnsErr = true
		} else {
			m.Result = newSourceType(results.At(0).Type(), q)
		}
	case 2:
		if !isErrorType(results.At(1).Type()) {
			return ir.Member{}, false
		}
		m.Result = newSourceType(results.At(0).Type(), q)
		m.ReturnsErr = true
	default:
		return ir.Member{}, false
	}

	return m, true
}

// isErrorType reports whether t is the built-in error type.
func isErrorType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	return named.Obj().Name() == "error" && named.Obj().Pkg() == nil
}

func qualifier(pkg *types.Package) types.Qualifier {
	return func(other *types.Package) string {
		if other == pkg {
			return pkg.Name()
		}
		return other.Name()
	}
}

// sourceType is the go/types-backed ir.Type implementation. It is never
// instance-tested at call time; guards exist only in emitted source, where
// they compile to type assertions.
type sourceType struct {
	t types.Type
	q types.Qualifier
}

func newSourceType(t types.Type, q types.Qualifier) ir.Type {
	return sourceType{t: t, q: q}
}

func (s sourceType) String() string { return types.TypeString(s.t, s.q) }

func (s sourceType) Boxed() ir.Type {
	b, ok := s.t.Underlying().(*types.Basic)
	if !ok {
		return s
	}
	switch {
	case b.Info()&types.IsUnsigned != 0:
		return sourceType{types.Typ[types.Uint64], s.q}
	case b.Info()&types.IsInteger != 0:
		return sourceType{types.Typ[types.Int64], s.q}
	case b.Info()&types.IsFloat != 0:
		return sourceType{types.Typ[types.Float64], s.q}
	case b.Info()&types.IsComplex != 0:
		return sourceType{types.Typ[types.Complex128], s.q}
	}
	return s
}

func (s sourceType) Instance(arg ir.Type) bool {
	if arg == nil {
		return s.Nilable()
	}
	at, ok := arg.(sourceType)
	if !ok {
		return false
	}
	return types.AssignableTo(at.t, s.t)
}

func (s sourceType) Nilable() bool {
	switch s.t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return true
	}
	return false
}

func (s sourceType) Runtime() (reflect.Type, bool) { return nil, false }

// ImportPaths lists the package paths the type's name references, for
// emitted-source import collection.
func (s sourceType) ImportPaths() []string {
	seen := make(map[string]bool)
	collectImports(s.t, seen)
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	return paths
}

func collectImports(t types.Type, seen map[string]bool) {
	switch tt := t.(type) {
	case *types.Named:
		if pkg := tt.Obj().Pkg(); pkg != nil {
			seen[pkg.Path()] = true
		}
	case *types.Pointer:
		collectImports(tt.Elem(), seen)
	case *types.Slice:
		collectImports(tt.Elem(), seen)
	case *types.Array:
		collectImports(tt.Elem(), seen)
	case *types.Map:
		collectImports(tt.Key(), seen)
		collectImports(tt.Elem(), seen)
	case *types.Chan:
		collectImports(tt.Elem(), seen)
	}
}
