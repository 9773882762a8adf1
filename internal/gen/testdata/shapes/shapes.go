// Package shapes is inspected by the generator tests.
package shapes

import (
	"errors"
	"fmt"
	"math"
)

type Point struct {
	X, Y  float64
	Label string
}

var DefaultScale = 1.0

const Version = "1"

func NewPointFromPolar(r, theta float64) (*Point, error) {
	if r < 0 {
		return nil, errors.New("negative radius")
	}
	return &Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}, nil
}

func NewPoint(x, y float64) *Point { return &Point{X: x, Y: y} }

// NewPointer does not build a Point.
func NewPointer() *int { return new(int) }

func Origin() *Point { return &Point{} }

func Describe(p *Point) string { return p.String() }

func (p *Point) Scale(f float64) {
	p.X *= f * DefaultScale
	p.Y *= f * DefaultScale
}

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

type Shape interface {
	Area() float64
}

type square float64

func (s square) Area() float64 { return float64(s * s) }

func NewShape(side float64) Shape { return square(side) }

type Anchor struct {
	Point
	Name string
}

type Box[T any] struct {
	V T
}

type Alias = Point
