package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a direction or displacement in scene coordinates (Y axis downward).
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dot returns the dot product of u and v.
func Dot(u, v Vector) float64 {
	return u.DotProduct(v)
}

// Normalize returns v scaled to unit length, or the zero vector when v has no length.
func Normalize(v Vector) Vector {
	return v.Normalize()
}

// DotProduct calculates the dot product of two vectors
func (v Vector) DotProduct(other Vector) float64 {
	return v.vec2().Dot(other.vec2())
}

// reflected = incident - 2*(incident·normal)*normal
func (v Vector) Reflect(normal Vector) Vector {
	dotProduct := v.DotProduct(normal)

	reflectedX := v.X - 2*dotProduct*normal.X
	reflectedY := v.Y - 2*dotProduct*normal.Y

	return Vector{
		X: reflectedX,
		Y: reflectedY,
	}
}

// Magnitude calculates the magnitude (length) of a vector
func (v Vector) Magnitude() float64 {
	return v.vec2().Len()
}

// AngleTo calculates the angle between this vector and another vector in radians
func (v Vector) AngleTo(other Vector) float64 {
	magV := v.Magnitude()
	magOther := other.Magnitude()

	// Handle zero-length vectors
	if magV == 0 || magOther == 0 {
		return 0
	}

	// cos(θ) = (A · B) / (|A| * |B|)
	cosTheta := mgl64.Clamp(v.DotProduct(other)/(magV*magOther), -1, 1)

	return math.Acos(cosTheta)
}

// Normalize never divides by zero: a zero-length vector stays {0,0}.
func (v Vector) Normalize() Vector {
	magnitude := v.Magnitude()
	if magnitude == 0 {
		return Vector{0, 0}
	}
	return Vector{v.X / magnitude, v.Y / magnitude}
}

func (v Vector) Add(other Vector) Vector {
	return Vector{v.X + other.X, v.Y + other.Y}
}

func (v Vector) Scale(factor float64) Vector {
	return Vector{v.X * factor, v.Y * factor}
}

func (v Vector) Negate() Vector {
	return Vector{-v.X, -v.Y}
}

// Perpendicular returns the left-perpendicular (-y, x).
func (v Vector) Perpendicular() Vector {
	return Vector{-v.Y, v.X}
}

// Rotate turns v by the given angle in degrees. With Y pointing down a
// positive angle turns clockwise on screen.
func (v Vector) Rotate(degrees float64) Vector {
	return fromVec2(mgl64.Rotate2D(mgl64.DegToRad(degrees)).Mul2x1(v.vec2()))
}

func (v Vector) vec2() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

func fromVec2(v mgl64.Vec2) Vector {
	return Vector{X: v.X(), Y: v.Y()}
}
