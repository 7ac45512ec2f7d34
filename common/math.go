package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Perspective creates a right-handed perspective projection matrix that maps
// view-space depth to the WebGPU clip range [0, 1].
// mgl32.Perspective targets the OpenGL [-1, 1] range and cannot be used with wgpu.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// Ortho creates an orthographic projection matrix with WebGPU [0, 1] depth.
//
// Parameters:
//   - left, right, bottom, top: view volume bounds in view space
//   - near, far: positive distances of the clipping planes
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Ortho(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	var out mgl32.Mat4
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (near - far)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = near / (near - far)
	out[15] = 1
	return out
}

// Spherical returns the unit vector for the given azimuthal and polar angles.
// The polar angle is measured from +Z and the azimuth rotates in the XY plane:
// (cos a * sin p, sin a * sin p, cos p).
//
// Parameters:
//   - azimuth: azimuthal angle in radians
//   - polar: polar angle in radians
//
// Returns:
//   - mgl32.Vec3: the unit direction
func Spherical(azimuth, polar float32) mgl32.Vec3 {
	sinP, cosP := math.Sincos(float64(polar))
	sinA, cosA := math.Sincos(float64(azimuth))
	return mgl32.Vec3{float32(cosA * sinP), float32(sinA * sinP), float32(cosP)}
}

// SafeNormalize returns v scaled to unit length, or fallback when v is (nearly) zero.
//
// Parameters:
//   - v: the vector to normalize
//   - fallback: returned unchanged when v has no usable direction
//
// Returns:
//   - mgl32.Vec3: the normalized vector
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return fallback
	}
	return v.Mul(1 / l)
}

// TRS composes a translation, rotation and scale into a model matrix (T * R * S).
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion
//   - s: per-axis scale
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func TRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// NormalMatrix returns the inverse-transpose of the model matrix, used to
// transform normals under non-uniform scale. Falls back to the model matrix
// itself when it is singular.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat4: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	if det := model.Det(); det == 0 {
		return model
	}
	return model.Inv().Transpose()
}
