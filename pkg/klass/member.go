package klass

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/funvibe/klass/pkg/value"
)

// MemberKind distinguishes the three member tables of a KlassInfo.
type MemberKind uint8

const (
	FieldMember MemberKind = iota
	MethodMember
	ConstructorMember
)

func (k MemberKind) String() string {
	switch k {
	case FieldMember:
		return "field"
	case MethodMember:
		return "method"
	case ConstructorMember:
		return "constructor"
	}
	return fmt.Sprintf("MemberKind(%d)", uint8(k))
}

// FieldInfo describes one field of a klass. Its index is the field's
// position in the klass field table and is stable for the klass lifetime.
type FieldInfo struct {
	klass    *KlassInfo
	name     string
	index    int
	typ      reflect.Type
	tag      reflect.StructTag
	path     []int         // struct index path from the klass type; nil for static fields
	ptr      reflect.Value // pointer to the variable; static fields only
	embedded bool
	promoted bool
}

func (f *FieldInfo) Klass() *KlassInfo { return f.klass }
func (f *FieldInfo) Name() string { return f.name }
func (f *FieldInfo) Index() int { return f.index }
func (f *FieldInfo) Type() reflect.Type { return f.typ }
func (f *FieldInfo) Tag() reflect.StructTag { return f.tag }
func (f *FieldInfo) IsStatic() bool { return f.ptr.IsValid() }

// IsEmbedded reports whether the field is an embedded struct member.
func (f *FieldInfo) IsEmbedded() bool { return f.embedded }

// IsPromoted reports whether the field was reached through an embedded
// struct.
func (f *FieldInfo) IsPromoted() bool { return f.promoted }

// IndexPath returns a copy of the struct index path, nil for static fields.
func (f *FieldInfo) IndexPath() []int {
	if f.path == nil {
		return nil
	}
	return append([]int(nil), f.path...)
}

// Get reads the field through the klass accessor. target is ignored for
// static fields.
func (f *FieldInfo) Get(target any) (value.Value, error) {
	return f.klass.Accessor().Get(target, f.index)
}

// Set writes the field through the klass accessor.
func (f *FieldInfo) Set(target any, v value.Value) error {
	return f.klass.Accessor().Set(target, f.index, v)
}

func (f *FieldInfo) String() string {
	prefix := ""
	if f.IsStatic() {
		prefix = "static "
	}
	return fmt.Sprintf("%sfield %s.%s %s", prefix, f.klass.Name(), f.name, f.typ)
}

// MethodInfo describes one method of a klass.
type MethodInfo struct {
	klass        *KlassInfo
	name         string
	index        int
	params       []reflect.Type // excludes the receiver
	results      []reflect.Type // excludes a trailing error
	returnsError bool
	static       bool
	iface        bool
	variadic     bool

	// fn is the method expression taking the receiver first, or the
	// registered function for static methods. Invalid for interface methods.
	fn reflect.Value
	// slot is the method index in the interface method set, or -1.
	slot int
}

func (m *MethodInfo) Klass() *KlassInfo { return m.klass }
func (m *MethodInfo) Name() string { return m.name }
func (m *MethodInfo) Index() int { return m.index }
func (m *MethodInfo) ParameterCount() int { return len(m.params) }
func (m *MethodInfo) ReturnsError() bool { return m.returnsError }
func (m *MethodInfo) IsStatic() bool { return m.static }
func (m *MethodInfo) IsInterface() bool { return m.iface }
func (m *MethodInfo) IsVariadic() bool { return m.variadic }

// ParameterTypes returns a copy of the declared parameter types. A variadic
// method's last parameter is a slice.
func (m *MethodInfo) ParameterTypes() []reflect.Type {
	return append([]reflect.Type(nil), m.params...)
}

// ResultTypes returns a copy of the result types, a trailing error excluded.
func (m *MethodInfo) ResultTypes() []reflect.Type {
	return append([]reflect.Type(nil), m.results...)
}

// ReturnType returns the single result type, or nil for void methods and
// methods with several results.
func (m *MethodInfo) ReturnType() reflect.Type {
	if len(m.results) == 1 {
		return m.results[0]
	}
	return nil
}

// IsVoid reports whether the method produces no value besides an error.
func (m *MethodInfo) IsVoid() bool { return len(m.results) == 0 }

// Invoke calls the method through the klass accessor.
func (m *MethodInfo) Invoke(target any, args ...value.Value) (value.Value, error) {
	if args == nil {
		args = []value.Value{}
	}
	return m.klass.Accessor().Invoke(target, m.index, args)
}

func (m *MethodInfo) String() string {
	var b strings.Builder
	if m.static {
		b.WriteString("static ")
	}
	fmt.Fprintf(&b, "method %s.%s", m.klass.Name(), m.name)
	writeSignature(&b, m.params, m.variadic)
	switch len(m.results) {
	case 0:
	case 1:
		fmt.Fprintf(&b, " %s", m.results[0])
	default:
		b.WriteString(" (")
		for i, r := range m.results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

// ConstructorInfo describes one constructor of a klass.
type ConstructorInfo struct {
	klass        *KlassInfo
	name         string
	index        int
	params       []reflect.Type
	returnsError bool
	byValue      bool // the function returns T rather than *T
	variadic     bool
	fn           reflect.Value // invalid for the default constructor
}

func (c *ConstructorInfo) Klass() *KlassInfo { return c.klass }
func (c *ConstructorInfo) Name() string { return c.name }
func (c *ConstructorInfo) Index() int { return c.index }
func (c *ConstructorInfo) ParameterCount() int { return len(c.params) }
func (c *ConstructorInfo) ReturnsError() bool { return c.returnsError }
func (c *ConstructorInfo) IsVariadic() bool { return c.variadic }

// IsDefault reports whether this is the synthesized zero-value constructor.
func (c *ConstructorInfo) IsDefault() bool { return !c.fn.IsValid() }

func (c *ConstructorInfo) ParameterTypes() []reflect.Type {
	return append([]reflect.Type(nil), c.params...)
}

// NewInstance calls the constructor through the klass accessor.
func (c *ConstructorInfo) NewInstance(args ...value.Value) (any, error) {
	if args == nil {
		args = []value.Value{}
	}
	return c.klass.Accessor().NewInstance(c.index, args)
}

func (c *ConstructorInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "constructor %s.%s", c.klass.Name(), c.name)
	writeSignature(&b, c.params, c.variadic)
	return b.String()
}

func writeSignature(b *strings.Builder, params []reflect.Type, variadic bool) {
	b.WriteString("(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if variadic && i == len(params)-1 {
			b.WriteString("..." + p.Elem().String())
			continue
		}
		b.WriteString(p.String())
	}
	b.WriteString(")")
}
