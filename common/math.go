package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// FullTurn is one complete revolution in radians.
const FullTurn = 2 * math.Pi

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
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// MatrixToBytes returns the column-major float data of a 4x4 matrix as bytes, matching the
// layout of a WGSL mat4x4<f32> uniform and of glUniformMatrix4fv with transpose=false.
//
// Parameters:
//   - m: the matrix to reinterpret
//
// Returns:
//   - []byte: a 64 byte copy of the matrix data
func MatrixToBytes(m mgl32.Mat4) []byte {
	out := make([]byte, 64)
	copy(out, SliceToBytes(m[:]))
	return out
}

// Angle returns the fraction of a full turn that elapsed ticks represent for a given period.
//
// Parameters:
//   - elapsed: the elapsed amount (any unit)
//   - period: the amount that equals one full turn (same unit)
//
// Returns:
//   - float32: the rotation angle in radians, 0 if period is not positive
func Angle(elapsed, period float64) float32 {
	if period <= 0 {
		return 0
	}
	return float32(FullTurn * elapsed / period)
}
