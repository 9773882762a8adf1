package klass

import (
	"fmt"
	"reflect"
)

// Option adds a member or a policy to a type registration.
type Option func(*registration)

type staticField struct {
	name string
	ptr  reflect.Value
}

type staticMethod struct {
	name string
	fn   reflect.Value
}

type registration struct {
	ctors         []reflect.Value
	staticFields  []staticField
	staticMethods []staticMethod
	promoted      bool
	noMethods     bool
	excluded      map[string]bool

	invalid []string
}

func (r *registration) fail(format string, args ...any) {
	r.invalid = append(r.invalid, fmt.Sprintf(format, args...))
}

// Constructor registers fn as a constructor. fn must return T or *T,
// optionally followed by an error. For interface types fn returns the
// interface.
func Constructor(fn any) Option {
	return func(r *registration) {
		rv := reflect.ValueOf(fn)
		if rv.Kind() != reflect.Func || rv.IsNil() {
			r.fail("constructor is %T, not a function", fn)
			return
		}
		r.ctors = append(r.ctors, rv)
	}
}

// StaticField registers the variable ptr points to as a static field.
func StaticField(name string, ptr any) Option {
	return func(r *registration) {
		rv := reflect.ValueOf(ptr)
		if name == "" {
			r.fail("static field has no name")
			return
		}
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			r.fail("static field %s: %T is not a non-nil pointer", name, ptr)
			return
		}
		r.staticFields = append(r.staticFields, staticField{name: name, ptr: rv})
	}
}

// StaticMethod registers fn as a static method.
func StaticMethod(name string, fn any) Option {
	return func(r *registration) {
		rv := reflect.ValueOf(fn)
		if name == "" {
			r.fail("static method has no name")
			return
		}
		if rv.Kind() != reflect.Func || rv.IsNil() {
			r.fail("static method %s: %T is not a function", name, fn)
			return
		}
		r.staticMethods = append(r.staticMethods, staticMethod{name: name, fn: rv})
	}
}

// WithPromotedFields includes fields promoted from embedded structs.
func WithPromotedFields() Option {
	return func(r *registration) { r.promoted = true }
}

// WithoutMethods omits the listed instance methods, or all of them when
// no name is given.
func WithoutMethods(names ...string) Option {
	return func(r *registration) {
		if len(names) == 0 {
			r.noMethods = true
			return
		}
		if r.excluded == nil {
			r.excluded = map[string]bool{}
		}
		for _, n := range names {
			r.excluded[n] = true
		}
	}
}

// validate checks constructor signatures against t.
func (r *registration) validate(t reflect.Type) error {
	iface := t.Kind() == reflect.Interface
	for _, fn := range r.ctors {
		ft := fn.Type()
		ok := ft.NumOut() == 1 || ft.NumOut() == 2 && ft.Out(1) == errorType
		if ok {
			out := ft.Out(0)
			ok = out == t || !iface && out == reflect.PointerTo(t)
		}
		if !ok {
			r.fail("constructor %s has type %s, want a function returning %s", funcName(fn), ft, t)
		}
	}
	if len(r.invalid) > 0 {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRegistration, t, r.invalid)
	}
	return nil
}

// Register records constructors, static members and policies for t. It
// must happen before t is first resolved.
func Register(t reflect.Type, opts ...Option) error {
	t, err := normalize(t)
	if err != nil {
		return err
	}
	reg := &registration{}
	for _, opt := range opts {
		opt(reg)
	}
	if err := reg.validate(t); err != nil {
		return err
	}

	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := registry.Load(t); ok {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, t)
	}
	if _, ok := registrations[t]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, t)
	}
	registrations[t] = reg
	log().WithField("type", t.String()).
		WithField("constructors", len(reg.ctors)).
		WithField("statics", len(reg.staticFields)+len(reg.staticMethods)).
		Debug("type registered")
	return nil
}

// RegisterType is Register for a type parameter.
func RegisterType[T any](opts ...Option) error {
	return Register(reflect.TypeFor[T](), opts...)
}

// MustRegister is like Register but panics on error. It is meant for
// init functions, generated ones included.
func MustRegister(t reflect.Type, opts ...Option) {
	if err := Register(t, opts...); err != nil {
		panic(err)
	}
}
