package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Epsilon Precision constant used for float64 comparisons.
const (
	Epsilon = 1e-9
)

var (
	// ErrUndefinedVector is returned when an operation needs a direction
	// and the vector has none (both components ≈ 0).
	ErrUndefinedVector = errors.New("vector is undefined (zero length)")
	// ErrDivisionByZero is returned by Div and DivAssign when the scalar is zero.
	ErrDivisionByZero = errors.New("vector cannot be divided by zero")
)

// Vector2D represents a 2D vector or point in cartesian space.
// We use public fields (X, Y) because they are fundamental data, not internal state.
// The polar view (length, orientation) is always derived from X and Y, never stored.
type Vector2D struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a new Vector2D from polar coordinates.
// orientation is in radians.
func NewVectorPolar(length, orientation float64) Vector2D {
	x := length * math.Cos(orientation)
	y := length * math.Sin(orientation)

	// Handle standard floating point precision issues near zero
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// Radians converts an angle in degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Degrees converts an angle in radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ---------------------------------------------------------------------
// Stringer Interface
// ---------------------------------------------------------------------

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// State
// ---------------------------------------------------------------------

// IsDefined reports whether the vector has a direction, i.e. it is not (0, 0).
func (v Vector2D) IsDefined() bool {
	return !(math.Abs(v.X) <= Epsilon && math.Abs(v.Y) <= Epsilon)
}

// IsNormalized reports whether the vector has unit length.
func (v Vector2D) IsNormalized() bool {
	return math.Abs(v.LenSqr()-1) <= 1e-9
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers return new values; the *Assign variants mutate in place
// for the hot path of the integrator.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Neg returns the opposite vector.
func (v Vector2D) Neg() Vector2D {
	return Vector2D{-v.X, -v.Y}
}

// Div scales the vector by 1/scalar.
// Dividing by zero returns the vector unchanged and ErrDivisionByZero,
// so no Inf ever leaks into the simulation.
func (v Vector2D) Div(scalar float64) (Vector2D, error) {
	if scalar == 0 {
		return v, ErrDivisionByZero
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, nil
}

// AddAssign adds other to v in place.
func (v *Vector2D) AddAssign(other Vector2D) {
	v.X += other.X
	v.Y += other.Y
}

// SubAssign subtracts other from v in place.
func (v *Vector2D) SubAssign(other Vector2D) {
	v.X -= other.X
	v.Y -= other.Y
}

// MulAssign scales v in place.
func (v *Vector2D) MulAssign(scalar float64) {
	v.X *= scalar
	v.Y *= scalar
}

// DivAssign divides v in place. v is left untouched when scalar is zero.
func (v *Vector2D) DivAssign(scalar float64) error {
	if scalar == 0 {
		return ErrDivisionByZero
	}
	v.X /= scalar
	v.Y /= scalar
	return nil
}

// Set assigns both components.
func (v *Vector2D) Set(x, y float64) {
	v.X, v.Y = x, y
}

// Reset sets v to the zero vector.
func (v *Vector2D) Reset() {
	v.X, v.Y = 0, 0
}

// ---------------------------------------------------------------------
// Vector2D Products
// ---------------------------------------------------------------------

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross calculates the 2D scalar cross product (z-component of 3D cross product).
// Useful for determining winding order or signed area.
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// This is faster than Len() as it avoids the square root. Use for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// SetLen changes the magnitude while keeping the orientation.
// An undefined vector takes orientation 0 (the positive X axis).
func (v *Vector2D) SetLen(length float64) {
	*v = NewVectorPolar(length, v.Angle())
}

// SetLenSqr changes the squared magnitude while keeping the orientation.
func (v *Vector2D) SetLenSqr(lengthSqr float64) {
	v.SetLen(math.Sqrt(math.Max(lengthSqr, 0)))
}

// ManhattanLen returns |x| + |y|.
func (v Vector2D) ManhattanLen() float64 {
	return math.Abs(v.X) + math.Abs(v.Y)
}

// ChebyshevLen returns max(|x|, |y|).
func (v Vector2D) ChebyshevLen() float64 {
	return math.Max(math.Abs(v.X), math.Abs(v.Y))
}

// Normalized returns a unit vector in the same direction.
// It fails with ErrUndefinedVector when the length is effectively zero.
func (v Vector2D) Normalized() (Vector2D, error) {
	if !v.IsDefined() {
		return Vector2D{}, ErrUndefinedVector
	}
	return v.Mul(1 / v.Len()), nil
}

// Normalize turns v into a unit vector in place.
func (v *Vector2D) Normalize() error {
	n, err := v.Normalized()
	if err != nil {
		return err
	}
	*v = n
	return nil
}

// Unit returns the normalized vector, or the zero vector when v is undefined.
// It is the lenient variant used inside steering computations where an
// undefined direction simply contributes nothing.
func (v Vector2D) Unit() Vector2D {
	n, err := v.Normalized()
	if err != nil {
		return Vector2D{}
	}
	return n
}

// ---------------------------------------------------------------------
// Orientation
// ---------------------------------------------------------------------

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]. The zero vector returns 0.
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Orientation returns the polar angle in radians, failing on an undefined vector.
func (v Vector2D) Orientation() (float64, error) {
	if !v.IsDefined() {
		return 0, ErrUndefinedVector
	}
	return v.Angle(), nil
}

// OrientationDegrees returns the polar angle in degrees, failing on an undefined vector.
func (v Vector2D) OrientationDegrees() (float64, error) {
	a, err := v.Orientation()
	return Degrees(a), err
}

// SetOrientation rotates v to the given angle (radians), keeping its magnitude.
func (v *Vector2D) SetOrientation(radians float64) {
	*v = NewVectorPolar(v.Len(), radians)
}

// SetOrientationDegrees rotates v to the given angle (degrees), keeping its magnitude.
func (v *Vector2D) SetOrientationDegrees(degrees float64) {
	v.SetOrientation(Radians(degrees))
}

// ---------------------------------------------------------------------
// Clamping
// ---------------------------------------------------------------------

// ClampX keeps X inside [min, max].
func (v *Vector2D) ClampX(min, max float64) {
	v.X = clamp(v.X, min, max)
}

// ClampY keeps Y inside [min, max].
func (v *Vector2D) ClampY(min, max float64) {
	v.Y = clamp(v.Y, min, max)
}

// ClampLength keeps the magnitude inside [min, max] without changing the orientation.
func (v *Vector2D) ClampLength(min, max float64) {
	v.ClampLengthSqr(min*min, max*max)
}

// ClampLengthSqr is ClampLength expressed with squared bounds.
func (v *Vector2D) ClampLengthSqr(minSqr, maxSqr float64) {
	lenSqr := v.LenSqr()
	if lenSqr < minSqr {
		v.SetLenSqr(minSqr)
	} else if lenSqr > maxSqr {
		v.SetLenSqr(maxSqr)
	}
}

// LimitLength caps the magnitude at max; shorter vectors are left untouched.
func (v *Vector2D) LimitLength(max float64) {
	if v.LenSqr() > max*max {
		v.MulAssign(max / v.Len())
	}
}

// LimitLengthSqr caps the squared magnitude at maxSqr.
func (v *Vector2D) LimitLengthSqr(maxSqr float64) {
	v.LimitLength(math.Sqrt(math.Max(maxSqr, 0)))
}

// Limited is the value variant of LimitLength.
func (v Vector2D) Limited(max float64) Vector2D {
	v.LimitLength(max)
	return v
}

func clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(value, max))
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// AngleTo calculates the bearing (in radians) from the point v to the point other.
func (v Vector2D) AngleTo(other Vector2D) float64 {
	return math.Atan2(other.Y-v.Y, other.X-v.X)
}

// AngleBetween returns the unsigned angle in radians between two vectors,
// in [0, Pi]. Both vectors must be defined.
func (v Vector2D) AngleBetween(other Vector2D) (float64, error) {
	if !v.IsDefined() || !other.IsDefined() {
		return 0, ErrUndefinedVector
	}
	cos := v.Dot(other) / math.Sqrt(v.LenSqr()*other.LenSqr())
	// rounding can push cos slightly outside [-1, 1]
	return math.Acos(clamp(cos, -1, 1)), nil
}

// AngleDisparity returns the signed angle in radians to rotate v onto other,
// in [-Pi, Pi]. Positive is counter-clockwise in a Y-up frame.
func (v Vector2D) AngleDisparity(other Vector2D) float64 {
	return math.Atan2(v.Cross(other), v.Dot(other))
}

// RightPerpendicular returns v rotated by -90 degrees.
func (v Vector2D) RightPerpendicular() Vector2D {
	return Vector2D{v.Y, -v.X}
}

// LeftPerpendicular returns v rotated by +90 degrees.
func (v Vector2D) LeftPerpendicular() Vector2D {
	return Vector2D{-v.Y, v.X}
}

// IsPerpendicularTo reports whether the dot product is ≈ 0.
func (v Vector2D) IsPerpendicularTo(other Vector2D) bool {
	return math.Abs(v.Dot(other)) <= Epsilon
}

// IsParallelTo reports whether the cross product is ≈ 0.
func (v Vector2D) IsParallelTo(other Vector2D) bool {
	return math.Abs(v.Cross(other)) <= Epsilon
}

// Rotate rotates the vector by angle (in radians) around the origin (0,0).
func (v Vector2D) Rotate(angle float64) Vector2D {
	cosTheta := math.Cos(angle)
	sinTheta := math.Sin(angle)
	return Vector2D{
		X: v.X*cosTheta - v.Y*sinTheta,
		Y: v.X*sinTheta + v.Y*cosTheta,
	}
}

// RotateAround rotates the vector by angle (radians) around a specific center point.
func (v Vector2D) RotateAround(angle float64, center Vector2D) Vector2D {
	return v.Sub(center).Rotate(angle).Add(center)
}

// Lerp (Linear Interpolate) calculates a point between v and target based on t [0, 1].
func (v Vector2D) Lerp(target Vector2D, t float64) Vector2D {
	return v.Add(target.Sub(v).Mul(t))
}

// Abs returns the component-wise absolute value.
func (v Vector2D) Abs() Vector2D {
	return Vector2D{math.Abs(v.X), math.Abs(v.Y)}
}

// Floor rounds both components toward negative infinity.
func (v Vector2D) Floor() Vector2D {
	return Vector2D{math.Floor(v.X), math.Floor(v.Y)}
}

// ---------------------------------------------------------------------
// Projections
// ---------------------------------------------------------------------

// ScalarProjection returns the signed length of v projected on the direction of on.
func (v Vector2D) ScalarProjection(on Vector2D) (float64, error) {
	if !on.IsDefined() {
		return 0, ErrUndefinedVector
	}
	return v.Dot(on) / on.Len(), nil
}

// VectorProjection projects vector v onto vector on.
func (v Vector2D) VectorProjection(on Vector2D) (Vector2D, error) {
	if !on.IsDefined() {
		return Vector2D{}, ErrUndefinedVector
	}
	return on.Mul(v.Dot(on) / on.LenSqr()), nil
}

// ScalarRejection returns the signed distance from v to the line carried by on.
func (v Vector2D) ScalarRejection(on Vector2D) (float64, error) {
	if !on.IsDefined() {
		return 0, ErrUndefinedVector
	}
	return (v.Y*on.X - v.X*on.Y) / on.Len(), nil
}

// VectorRejection returns the component of v orthogonal to on.
func (v Vector2D) VectorRejection(on Vector2D) (Vector2D, error) {
	p, err := v.VectorProjection(on)
	if err != nil {
		return Vector2D{}, err
	}
	return v.Sub(p), nil
}

// ---------------------------------------------------------------------
// Randomization
// The source of randomness is always passed in so that seeded runs replay.
// ---------------------------------------------------------------------

// RandomUnit returns a unit vector with a uniformly random orientation.
func RandomUnit(r *rand.Rand) Vector2D {
	return NewVectorPolar(1, r.Float64()*2*math.Pi)
}

// RandomCartesian returns a vector with X in [xMin, xMax) and Y in [yMin, yMax).
func RandomCartesian(r *rand.Rand, xMin, xMax, yMin, yMax float64) Vector2D {
	return Vector2D{
		X: uniform(r, xMin, xMax),
		Y: uniform(r, yMin, yMax),
	}
}

// RandomPolar returns a vector whose length is in [lengthMin, lengthMax) and whose
// orientation is reference ± halfSpan (radians).
func RandomPolar(r *rand.Rand, lengthMin, lengthMax, halfSpan, reference float64) Vector2D {
	return NewVectorPolar(uniform(r, lengthMin, lengthMax), uniform(r, -halfSpan, halfSpan)+reference)
}

// RandomPolarDegrees is RandomPolar with halfSpan and reference in degrees.
func RandomPolarDegrees(r *rand.Rand, lengthMin, lengthMax, halfSpan, reference float64) Vector2D {
	return RandomPolar(r, lengthMin, lengthMax, Radians(halfSpan), Radians(reference))
}

func uniform(r *rand.Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
// This handles floating point inaccuracies.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
