// Package geom holds the small value types shared by the drawing surface.
package geom

import "fmt"

// Point is a location in surface pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Size is a width and height pair.
type Size struct {
	W, H float64
}

// Sz is shorthand for Size{W: w, H: h}.
func Sz(w, h float64) Size { return Size{W: w, H: h} }

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Rect is an axis aligned rectangle anchored at Min.
type Rect struct {
	Min  Point
	Size Size
}

// Max returns the corner opposite Min.
func (r Rect) Max() Point { return Point{r.Min.X + r.Size.W, r.Min.Y + r.Size.H} }

// Center returns the middle of the rectangle.
func (r Rect) Center() Point {
	return Point{r.Min.X + r.Size.W/2, r.Min.Y + r.Size.H/2}
}

// Contains reports whether p lies inside r. The max edges are exclusive.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X < max.X && p.Y < max.Y
}
