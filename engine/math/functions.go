package math

import "github.com/chewxy/math32"

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 */
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

/**
 * @brief Returns the squared length of the provided vector.
 */
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.LengthSquared())
}

// NewExtents3D returns extents that contain nothing; the first Expand sets both corners.
func NewExtents3D() Extents3D {
	inf := math32.Inf(1)
	return Extents3D{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Expand grows e so that it contains p.
func (e *Extents3D) Expand(p Vec3) {
	e.Min.X = math32.Min(e.Min.X, p.X)
	e.Min.Y = math32.Min(e.Min.Y, p.Y)
	e.Min.Z = math32.Min(e.Min.Z, p.Z)
	e.Max.X = math32.Max(e.Max.X, p.X)
	e.Max.Y = math32.Max(e.Max.Y, p.Y)
	e.Max.Z = math32.Max(e.Max.Z, p.Z)
}

// Empty reports whether nothing was added to e.
func (e Extents3D) Empty() bool {
	return e.Min.X > e.Max.X
}
