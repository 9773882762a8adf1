package klass

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"
	"sync"
)

var errorType = reflect.TypeFor[error]()

// KlassInfo is the reflective descriptor of one Go type. It is immutable
// once built and safe for concurrent use.
type KlassInfo struct {
	typ      reflect.Type
	instance reflect.Type // *T, or T itself for interfaces

	fields  []*FieldInfo
	methods []*MethodInfo
	ctors   []*ConstructorInfo

	fieldsByName  map[string]*FieldInfo
	methodsByName map[string]*MethodInfo

	accessorOnce sync.Once
	accessor     Accessor
}

// Type returns the described type T.
func (k *KlassInfo) Type() reflect.Type { return k.typ }

// InstanceType returns the type of targets accepted by instance members:
// *T for concrete types and T for interfaces.
func (k *KlassInfo) InstanceType() reflect.Type { return k.instance }

func (k *KlassInfo) IsInterface() bool { return k.typ.Kind() == reflect.Interface }

// Name returns the type name, or its string form for unnamed types.
func (k *KlassInfo) Name() string {
	if n := k.typ.Name(); n != "" {
		return n
	}
	return k.typ.String()
}

func (k *KlassInfo) String() string { return "klass " + k.typ.String() }

// Fields returns the field table. The slice must not be modified.
func (k *KlassInfo) Fields() []*FieldInfo { return k.fields }

// Methods returns the method table. The slice must not be modified.
func (k *KlassInfo) Methods() []*MethodInfo { return k.methods }

// Constructors returns the constructor table. The slice must not be
// modified.
func (k *KlassInfo) Constructors() []*ConstructorInfo { return k.ctors }

// Field looks a field up by name.
func (k *KlassInfo) Field(name string) (*FieldInfo, bool) {
	f, ok := k.fieldsByName[name]
	return f, ok
}

// Method looks a method up by name.
func (k *KlassInfo) Method(name string) (*MethodInfo, bool) {
	m, ok := k.methodsByName[name]
	return m, ok
}

// Constructor finds the constructor whose parameter types are exactly
// paramTypes.
func (k *KlassInfo) Constructor(paramTypes ...reflect.Type) (*ConstructorInfo, bool) {
	for _, c := range k.ctors {
		if slices.Equal(c.params, paramTypes) {
			return c, true
		}
	}
	return nil, false
}

// Accessor returns the klass accessor, creating it on first use with the
// dispatch mode in effect at that moment.
func (k *KlassInfo) Accessor() Accessor {
	k.accessorOnce.Do(func() {
		mode := CurrentDispatchMode()
		if mode == DispatchReflect {
			k.accessor = NewReflectAccessor(k)
		} else {
			k.accessor = Compile(k)
		}
		log().WithField("type", k.typ.String()).WithField("dispatch", mode.String()).Debug("accessor created")
	})
	return k.accessor
}

// newKlassInfo builds the descriptor of t. reg may be nil.
func newKlassInfo(t reflect.Type, reg *registration) (*KlassInfo, error) {
	if reg == nil {
		reg = &registration{}
	}
	k := &KlassInfo{
		typ:           t,
		instance:      t,
		fieldsByName:  map[string]*FieldInfo{},
		methodsByName: map[string]*MethodInfo{},
	}
	if !k.IsInterface() {
		k.instance = reflect.PointerTo(t)
	}

	if t.Kind() == reflect.Struct {
		if err := k.collectFields(reg.promoted); err != nil {
			return nil, err
		}
	}
	for _, sf := range reg.staticFields {
		if err := k.addField(&FieldInfo{
			name: sf.name,
			typ:  sf.ptr.Type().Elem(),
			ptr:  sf.ptr,
		}); err != nil {
			return nil, err
		}
	}

	if !reg.noMethods {
		if err := k.collectMethods(reg.excluded); err != nil {
			return nil, err
		}
	}
	for _, sm := range reg.staticMethods {
		ft := sm.fn.Type()
		params, results, returnsError := signature(ft, 0)
		if err := k.addMethod(&MethodInfo{
			name:         sm.name,
			params:       params,
			results:      results,
			returnsError: returnsError,
			static:       true,
			variadic:     ft.IsVariadic(),
			fn:           sm.fn,
			slot:         -1,
		}); err != nil {
			return nil, err
		}
	}

	for _, fn := range reg.ctors {
		ft := fn.Type()
		params, _, returnsError := signature(ft, 0)
		k.ctors = append(k.ctors, &ConstructorInfo{
			klass:        k,
			name:         funcName(fn),
			index:        len(k.ctors),
			params:       params,
			returnsError: returnsError,
			byValue:      ft.Out(0) == t && !k.IsInterface(),
			variadic:     ft.IsVariadic(),
			fn:           fn,
		})
	}
	if len(k.ctors) == 0 && !k.IsInterface() {
		k.ctors = append(k.ctors, &ConstructorInfo{klass: k, name: k.Name()})
	}

	return k, nil
}

func (k *KlassInfo) collectFields(promoted bool) error {
	var fields []reflect.StructField
	if promoted {
		fields = reflect.VisibleFields(k.typ)
	} else {
		for i := range k.typ.NumField() {
			fields = append(fields, k.typ.Field(i))
		}
	}
	for _, sf := range fields {
		if !sf.IsExported() {
			continue
		}
		if err := k.addField(&FieldInfo{
			name:     sf.Name,
			typ:      sf.Type,
			tag:      sf.Tag,
			path:     sf.Index,
			embedded: sf.Anonymous,
			promoted: len(sf.Index) > 1,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (k *KlassInfo) collectMethods(excluded map[string]bool) error {
	if k.IsInterface() {
		for i := range k.typ.NumMethod() {
			m := k.typ.Method(i)
			if !m.IsExported() || excluded[m.Name] {
				continue
			}
			params, results, returnsError := signature(m.Type, 0)
			if err := k.addMethod(&MethodInfo{
				name:         m.Name,
				params:       params,
				results:      results,
				returnsError: returnsError,
				iface:        true,
				variadic:     m.Type.IsVariadic(),
				slot:         i,
			}); err != nil {
				return err
			}
		}
		return nil
	}

	// method set of *T includes the value receiver methods of T
	for i := range k.instance.NumMethod() {
		m := k.instance.Method(i)
		if excluded[m.Name] {
			continue
		}
		params, results, returnsError := signature(m.Type, 1)
		if err := k.addMethod(&MethodInfo{
			name:         m.Name,
			params:       params,
			results:      results,
			returnsError: returnsError,
			variadic:     m.Type.IsVariadic(),
			fn:           m.Func,
			slot:         -1,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (k *KlassInfo) addField(f *FieldInfo) error {
	if _, ok := k.fieldsByName[f.name]; ok {
		return fmt.Errorf("%w: %s: field %s", ErrDuplicateMember, k.typ, f.name)
	}
	f.klass = k
	f.index = len(k.fields)
	k.fields = append(k.fields, f)
	k.fieldsByName[f.name] = f
	return nil
}

func (k *KlassInfo) addMethod(m *MethodInfo) error {
	if _, ok := k.methodsByName[m.name]; ok {
		return fmt.Errorf("%w: %s: method %s", ErrDuplicateMember, k.typ, m.name)
	}
	m.klass = k
	m.index = len(k.methods)
	k.methods = append(k.methods, m)
	k.methodsByName[m.name] = m
	return nil
}

// signature splits a function type into parameters, skipping the first
// skip inputs, and results without a trailing error.
func signature(ft reflect.Type, skip int) (params, results []reflect.Type, returnsError bool) {
	params = make([]reflect.Type, 0, ft.NumIn()-skip)
	for i := skip; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	n := ft.NumOut()
	if n > 0 && ft.Out(n-1) == errorType {
		returnsError = true
		n--
	}
	for i := range n {
		results = append(results, ft.Out(i))
	}
	return params, results, returnsError
}

// funcName returns the unqualified name of a function value.
func funcName(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
