package klass

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/funvibe/klass/internal/config"
	"github.com/funvibe/klass/internal/logger"
)

var (
	// registry maps a normalized reflect.Type to its *KlassInfo.
	registry sync.Map

	// regMu orders registration against descriptor construction. Builders
	// hold it for reading so Register cannot slip in between reading a
	// registration and publishing the descriptor built from it.
	regMu         sync.RWMutex
	registrations = map[reflect.Type]*registration{}
)

// Resolve returns the descriptor of t, building it on first request.
// A pointer type resolves to its element type. Concurrent first requests
// may build twice but all callers observe the same descriptor. Failed
// builds are not cached.
func Resolve(t reflect.Type) (*KlassInfo, error) {
	t, err := normalize(t)
	if err != nil {
		return nil, err
	}
	if k, ok := registry.Load(t); ok {
		return k.(*KlassInfo), nil
	}

	regMu.RLock()
	defer regMu.RUnlock()
	k, err := newKlassInfo(t, registrations[t])
	if err != nil {
		log().WithError(err).WithField("type", t.String()).Warn("cannot resolve type")
		return nil, err
	}
	actual, loaded := registry.LoadOrStore(t, k)
	if !loaded {
		log().WithFields(logrus.Fields{
			"type":         t.String(),
			"fields":       len(k.fields),
			"methods":      len(k.methods),
			"constructors": len(k.ctors),
		}).Debug("type resolved")
	}
	return actual.(*KlassInfo), nil
}

// Of returns the descriptor of T.
func Of[T any]() (*KlassInfo, error) {
	return Resolve(reflect.TypeFor[T]())
}

// MustResolve is like Resolve but panics on error.
func MustResolve(t reflect.Type) *KlassInfo {
	k, err := Resolve(t)
	if err != nil {
		panic(err)
	}
	return k
}

// ForValue returns the descriptor of the dynamic type of x.
func ForValue(x any) (*KlassInfo, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	return Resolve(reflect.TypeOf(x))
}

func normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	if t.Kind() == reflect.Pointer {
		if t.Elem().Kind() == reflect.Pointer {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
		}
		t = t.Elem()
	}
	return t, nil
}

// DispatchMode selects the Accessor implementation built for a klass.
type DispatchMode int32

const (
	DispatchCompiled DispatchMode = iota
	DispatchReflect
)

func (m DispatchMode) String() string {
	if m == DispatchReflect {
		return config.DispatchReflect
	}
	return config.DispatchCompiled
}

var dispatchMode atomic.Int32

func init() {
	mode, err := config.Dispatch()
	if err != nil {
		log().WithError(err).Warn("falling back to compiled dispatch")
	}
	if mode == config.DispatchReflect {
		dispatchMode.Store(int32(DispatchReflect))
	}
}

// SetDispatchMode overrides KLASS_DISPATCH. It only affects accessors
// created afterwards.
func SetDispatchMode(m DispatchMode) {
	dispatchMode.Store(int32(m))
}

// CurrentDispatchMode returns the mode used for new accessors.
func CurrentDispatchMode() DispatchMode {
	return DispatchMode(dispatchMode.Load())
}

type loggerRef struct {
	l logrus.FieldLogger
}

var pkgLogger atomic.Pointer[loggerRef]

// SetLogger replaces the package logger. A nil logger restores the
// default one.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		pkgLogger.Store(nil)
		return
	}
	pkgLogger.Store(&loggerRef{l: l})
}

func log() logrus.FieldLogger {
	if ref := pkgLogger.Load(); ref != nil {
		return ref.l
	}
	return logger.Logger()
}
