package gen

import (
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/funvibe/klass/internal/config"
)

// InspectResult holds the package information needed for code generation.
type InspectResult struct {
	// PkgName is the package clause name (e.g. "shapes").
	PkgName string

	// PkgPath is the package import path.
	PkgPath string

	// Dir is the package directory.
	Dir string

	// Types is the ordered list of resolved types.
	Types []*ResolvedType
}

// ResolvedType is a TypeConfig checked against the Go source.
type ResolvedType struct {
	Name           string
	IsInterface    bool
	IsStruct       bool
	Constructors   []string
	StaticFields   []string
	StaticMethods  []string
	PromotedFields bool
	ExcludeMethods []string
}

// Inspector loads a Go package and resolves a Config against it.
type Inspector struct {
	// dir is the directory patterns are resolved from, normally the one
	// holding klass.yaml.
	dir string
}

// NewInspector creates an Inspector resolving packages from dir.
func NewInspector(dir string) *Inspector {
	return &Inspector{dir: dir}
}

// Inspect loads the configured package and resolves every type entry.
func (ins *Inspector) Inspect(cfg *Config) (*InspectResult, error) {
	pkg, err := ins.loadPackage(cfg.Package)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		PkgName: pkg.Name,
		PkgPath: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, tc := range cfg.Types {
		rt, err := resolveType(pkg.Types, tc)
		if err != nil {
			return nil, fmt.Errorf("resolving type %s: %w", tc.Type, err)
		}
		result.Types = append(result.Types, rt)
	}
	return result, nil
}

// loadPackage loads exactly one package with type information.
func (ins *Inspector) loadPackage(pattern string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes,
		Dir: ins.dir,
		Env: append(os.Environ(), "GOWORK=off"),
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading package %s: %w", pattern, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("package pattern %s matched %d packages, want 1", pattern, len(pkgs))
	}

	pkg := pkgs[0]
	var errs []string
	for _, e := range pkg.Errors {
		errs = append(errs, e.Msg)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors in %s:\n  %s", pattern, strings.Join(errs, "\n  "))
	}
	return pkg, nil
}

func resolveType(pkg *types.Package, tc TypeConfig) (*ResolvedType, error) {
	scope := pkg.Scope()
	obj := scope.Lookup(tc.Type)
	if obj == nil {
		return nil, fmt.Errorf("type %q not found in package %s", tc.Type, pkg.Path())
	}
	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%q is not a type in package %s", tc.Type, pkg.Path())
	}
	if typeName.IsAlias() {
		return nil, fmt.Errorf("%q is a type alias", tc.Type)
	}
	named, ok := typeName.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%q is not a named type", tc.Type)
	}
	if tparams := named.TypeParams(); tparams != nil && tparams.Len() > 0 {
		return nil, fmt.Errorf("generic type %s cannot be registered without instantiation", tc.Type)
	}

	rt := &ResolvedType{
		Name:           tc.Type,
		PromotedFields: tc.PromotedFields,
	}
	switch named.Underlying().(type) {
	case *types.Interface:
		rt.IsInterface = true
	case *types.Struct:
		rt.IsStruct = true
	}
	if rt.PromotedFields && !rt.IsStruct {
		return nil, fmt.Errorf("promoted_fields requires a struct type")
	}

	if len(tc.Constructors) > 0 {
		for _, name := range tc.Constructors {
			fn, err := lookupFunc(scope, name)
			if err != nil {
				return nil, fmt.Errorf("constructor: %w", err)
			}
			if !isConstructorOf(fn, named, rt.IsInterface) {
				return nil, fmt.Errorf("constructor %s must return %s, *%s or one of them with an error",
					name, tc.Type, tc.Type)
			}
			rt.Constructors = append(rt.Constructors, name)
		}
	} else {
		rt.Constructors = detectConstructors(scope, named, rt.IsInterface)
	}

	for _, name := range tc.StaticFields {
		obj := scope.Lookup(name)
		if _, ok := obj.(*types.Var); !ok {
			return nil, fmt.Errorf("static field %s is not a package variable", name)
		}
		rt.StaticFields = append(rt.StaticFields, name)
	}

	for _, name := range tc.StaticMethods {
		if _, err := lookupFunc(scope, name); err != nil {
			return nil, fmt.Errorf("static method: %w", err)
		}
		rt.StaticMethods = append(rt.StaticMethods, name)
	}

	var mset *types.MethodSet
	if rt.IsInterface {
		mset = types.NewMethodSet(named)
	} else {
		mset = types.NewMethodSet(types.NewPointer(named))
	}
	for _, name := range tc.ExcludeMethods {
		if mset.Lookup(pkg, name) == nil {
			return nil, fmt.Errorf("exclude_methods: %s has no method %s", tc.Type, name)
		}
		rt.ExcludeMethods = append(rt.ExcludeMethods, name)
	}

	return rt, nil
}

func lookupFunc(scope *types.Scope, name string) (*types.Func, error) {
	fn, ok := scope.Lookup(name).(*types.Func)
	if !ok {
		return nil, fmt.Errorf("%s is not a package function", name)
	}
	if fn.Type().(*types.Signature).TypeParams().Len() > 0 {
		return nil, fmt.Errorf("generic function %s cannot be registered", name)
	}
	return fn, nil
}

// isConstructorOf reports whether fn returns T or *T, optionally followed
// by an error. Interface constructors must return the interface itself.
func isConstructorOf(fn *types.Func, named *types.Named, iface bool) bool {
	sig := fn.Type().(*types.Signature)
	res := sig.Results()
	switch res.Len() {
	case 1:
	case 2:
		if !isErrorType(res.At(1).Type()) {
			return false
		}
	default:
		return false
	}
	out := res.At(0).Type()
	if types.Identical(out, named) {
		return true
	}
	if iface {
		return false
	}
	ptr, ok := out.(*types.Pointer)
	return ok && types.Identical(ptr.Elem(), named)
}

// detectConstructors finds exported New<Type>... functions returning the
// type, in declaration order.
func detectConstructors(scope *types.Scope, named *types.Named, iface bool) []string {
	prefix := config.ConstructorPrefix + named.Obj().Name()
	var found []*types.Func
	for _, name := range scope.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		if fn.Type().(*types.Signature).TypeParams().Len() > 0 || !isConstructorOf(fn, named, iface) {
			continue
		}
		found = append(found, fn)
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].Pos() < found[j].Pos()
	})

	names := make([]string, len(found))
	for i, fn := range found {
		names[i] = fn.Name()
	}
	return names
}

func isErrorType(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
