package klass

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/klass/pkg/value"
)

type Pair struct {
	X int
	Y string
}

func NewPair(x int, y string) *Pair { return &Pair{X: x, Y: y} }

type Lamp struct {
	On bool
}

func (l *Lamp) Toggle() { l.On = !l.On }

type Gauge struct {
	Level int
}

func (g *Gauge) Adjust(delta int) { g.Level += delta }

var ErrInsufficientFunds = errors.New("insufficient funds")

var (
	DefaultRate    float32 = 0.5
	accountsOpened int
)

type Account struct {
	ID      string
	Balance int64
	Rate    float32
	Active  bool
	Tags    []string
	Owner   *Account
	Meta    any
	Stamp   fmt.Stringer
	note    string
}

func NewAccount(id string, balance int64) *Account {
	accountsOpened++
	return &Account{ID: id, Balance: balance, Rate: DefaultRate, Active: true}
}

func OpenAccount(id string) (Account, error) {
	if id == "" {
		return Account{}, errors.New("empty account id")
	}
	accountsOpened++
	return Account{ID: id, Active: true, note: "opened"}, nil
}

func (a *Account) Crash() { panic("account corrupted") }

func (a *Account) Deposit(n int64) int64 {
	a.Balance += n
	return a.Balance
}

func (a Account) Describe() string { return fmt.Sprintf("%s:%d", a.ID, a.Balance) }

func (a *Account) Freeze() { a.Active = false }

func (a *Account) Split() (int64, int64) { return a.Balance / 2, a.Balance - a.Balance/2 }

func (a *Account) Tag(tags ...string) int {
	a.Tags = append(a.Tags, tags...)
	return len(a.Tags)
}

func (a *Account) Withdraw(n int64) error {
	if n > a.Balance {
		return ErrInsufficientFunds
	}
	a.Balance -= n
	return nil
}

func Transfer(from, to *Account, n int64) error {
	if err := from.Withdraw(n); err != nil {
		return err
	}
	to.Balance += n
	return nil
}

func Opened() int { return accountsOpened }

type Shape interface {
	Area() float64
	Name() string
}

type Square struct {
	Side float64
}

func (s Square) Area() float64 { return s.Side * s.Side }
func (s Square) Name() string { return "square" }

type Base struct {
	ID int
}

type Revision struct {
	Version int
}

type Doc struct {
	Base
	*Revision
	Title string
}

type Celsius float64

type Grade int

func (g Grade) String() string { return fmt.Sprintf("grade %d", int(g)) }

// Dial passes values around through interface-typed members.
type Dial struct {
	Last fmt.Stringer
}

func (d *Dial) Current() fmt.Stringer { return Grade(3) }

func (d *Dial) Elapsed() any { return 90 * time.Second }

func (d *Dial) Kind(x any) string { return fmt.Sprintf("%T", x) }

func (d *Dial) Store(s fmt.Stringer) string {
	d.Last = s
	return s.String()
}

type Kinds struct {
	B    bool
	I    int
	I8   int8
	I16  int16
	I32  int32
	I64  int64
	U    uint
	U8   uint8
	U16  uint16
	U32  uint32
	U64  uint64
	UP   uintptr
	F32  float32
	F64  float64
	C64  complex64
	C128 complex128
	S    string
	T    Celsius
	Any  any
	Strs []string
	M    map[string]int
	Sub  Pair
	P    *Pair
	Fn   func() int
}

func init() {
	MustRegister(reflect.TypeFor[Pair](), Constructor(NewPair))
	MustRegister(reflect.TypeFor[Account](),
		Constructor(NewAccount),
		Constructor(OpenAccount),
		StaticField("DefaultRate", &DefaultRate),
		StaticMethod("Transfer", Transfer),
		StaticMethod("Opened", Opened),
	)
	MustRegister(reflect.TypeFor[Doc](), WithPromotedFields())
}

var accessorKinds = []DispatchMode{DispatchCompiled, DispatchReflect}

func newAccessor(k *KlassInfo, mode DispatchMode) Accessor {
	if mode == DispatchReflect {
		return NewReflectAccessor(k)
	}
	return Compile(k)
}

// eachAccessor runs fn once per accessor implementation.
func eachAccessor(t *testing.T, k *KlassInfo, fn func(t *testing.T, a Accessor)) {
	t.Helper()
	for _, mode := range accessorKinds {
		t.Run(mode.String(), func(t *testing.T) {
			fn(t, newAccessor(k, mode))
		})
	}
}

func mustOf[T any](t *testing.T) *KlassInfo {
	t.Helper()
	k, err := Of[T]()
	require.NoError(t, err)
	return k
}

func fieldIndex(t *testing.T, k *KlassInfo, name string) int {
	t.Helper()
	f, ok := k.Field(name)
	require.True(t, ok, "field %s", name)
	return f.Index()
}

func methodIndex(t *testing.T, k *KlassInfo, name string) int {
	t.Helper()
	m, ok := k.Method(name)
	require.True(t, ok, "method %s", name)
	return m.Index()
}

// forget drops a type from the registry when the test ends.
func forget(t *testing.T, typ reflect.Type) {
	t.Cleanup(func() {
		regMu.Lock()
		defer regMu.Unlock()
		registry.Delete(typ)
		delete(registrations, typ)
	})
}

func args(vs ...value.Value) []value.Value {
	if vs == nil {
		return []value.Value{}
	}
	return vs
}
