// Package klass provides cached type descriptors and fast index-based
// member dispatch on top of Go reflection.
//
// A KlassInfo describes one Go type: its fields, its methods and its
// constructors, each with a stable integer index. Descriptors are built
// lazily on first request, cached process-wide and shared by all callers:
//
//	k, err := klass.Of[Point]()
//	x, _ := k.Field("X")
//	v, err := x.Get(&Point{X: 3}) // value.Int(3)
//
// Host mapping:
//
//   - Instance members operate on a *T target. For interface types the
//     target is any value implementing the interface.
//   - Instance fields are the exported fields declared by T. Promoted
//     fields are added with WithPromotedFields.
//   - Instance methods are the exported method set of *T, ordered by name.
//   - Static fields, static methods and constructors have no Go
//     counterpart on the type and are attached with Register before the
//     type is first resolved. A type without registered constructors gets
//     a default one returning new(T).
//
// Dispatch:
//
// Every KlassInfo owns an Accessor addressing members by index. The
// default accessor is built by Compile, which prepares coercion and boxing
// per member once. The ReflectAccessor resolves everything per call and
// gives identical results; set KLASS_DISPATCH=reflect or call
// SetDispatchMode to use it.
//
// Values cross the dispatch boundary as value.Value. Arguments are coerced
// to the declared parameter types and results are boxed back.
//
// Errors:
//
// Dispatch errors are *AccessError values matching one of
// ErrNullArguments, ErrIndexOutOfRange, ErrArgumentCount, ErrTypeCoercion
// or ErrTargetInvocation. A member that panics or returns a non-nil
// trailing error fails with ErrTargetInvocation; the original error is
// available through errors.Unwrap.
package klass
