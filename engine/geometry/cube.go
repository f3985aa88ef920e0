// Package geometry holds the fixed cube mesh and its one-time upload into vertex buffers.
package geometry

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
)

const (
	// PositionSize is the number of floats per vertex position.
	PositionSize = 3
	// TexCoordSize is the number of floats per texture coordinate.
	TexCoordSize = 2
	// CubeVertexCount is the number of vertices of the cube: 6 faces of 2 triangles.
	CubeVertexCount = 36
)

// cubePositions spans the unit cube [0,1]^3, one independently wound quad per face.
var cubePositions = [CubeVertexCount * PositionSize]float32{
	0, 0, 1, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 0, 1, // front
	1, 0, 0, 0, 0, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0, // back
	0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1, 1, 0, 1, 0, 0, 0, 1, // left
	1, 0, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 1, 1, 1, 1, 0, 0, // right
	0, 1, 1, 1, 1, 1, 0, 1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, // top
	0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0, 0, 1, 0, 1, 0, 0, 0, // bottom
}

// faceTexCoords maps one face onto the upper band (v in [0.5, 1]) of the two-band atlas.
var faceTexCoords = [6 * TexCoordSize]float32{
	0, 0.5, 1, 0.5, 0, 1, 1, 1, 0, 1, 1, 0.5,
}

// cube is the implementation of the Cube interface.
type cube struct {
	positions []float32
	texCoords []float32
}

// Cube is the immutable vertex data of a unit cube: 36 unindexed vertices with index-aligned
// positions and texture coordinates.
type Cube interface {
	// Positions returns a copy of the vertex positions, PositionSize floats per vertex.
	//
	// Returns:
	//   - []float32: 108 floats
	Positions() []float32

	// TexCoords returns a copy of the texture coordinates, TexCoordSize floats per vertex.
	// Every value is 0, 0.5 or 1.
	//
	// Returns:
	//   - []float32: 72 floats
	TexCoords() []float32

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int32: always CubeVertexCount
	VertexCount() int32
}

var _ Cube = &cube{}

// NewCube builds the cube vertex data.
//
// Returns:
//   - Cube: the cube
func NewCube() Cube {
	c := &cube{
		positions: cubePositions[:],
		texCoords: make([]float32, 0, CubeVertexCount*TexCoordSize),
	}
	for range 6 {
		c.texCoords = append(c.texCoords, faceTexCoords[:]...)
	}
	return c
}

func (c *cube) Positions() []float32 {
	return append([]float32(nil), c.positions...)
}

func (c *cube) TexCoords() []float32 {
	return append([]float32(nil), c.texCoords...)
}

func (c *cube) VertexCount() int32 {
	return CubeVertexCount
}

// Buffers describes uploaded cube geometry: one vertex buffer per attribute.
type Buffers struct {
	Position     renderer.Handle
	PositionSize int32
	TexCoord     renderer.Handle
	TexCoordSize int32
	VertexCount  int32
	Primitive    renderer.Primitive
}

// Upload creates the two static vertex buffers for c. It is called once during setup.
//
// Parameters:
//   - r: the renderer to create the buffers on
//   - c: the geometry to upload
//
// Returns:
//   - Buffers: the buffer handles and layout
//   - error: an error if either buffer could not be created
func Upload(r renderer.Renderer, c Cube) (Buffers, error) {
	positions, texCoords := c.Positions(), c.TexCoords()
	if len(positions)/PositionSize != len(texCoords)/TexCoordSize {
		return Buffers{}, fmt.Errorf("geometry: %d positions but %d texture coordinates",
			len(positions)/PositionSize, len(texCoords)/TexCoordSize)
	}

	pos, err := r.CreateVertexBuffer("cube positions", positions)
	if err != nil {
		return Buffers{}, err
	}
	tex, err := r.CreateVertexBuffer("cube texcoords", texCoords)
	if err != nil {
		return Buffers{}, err
	}
	return Buffers{
		Position:     pos,
		PositionSize: PositionSize,
		TexCoord:     tex,
		TexCoordSize: TexCoordSize,
		VertexCount:  c.VertexCount(),
		Primitive:    renderer.PrimitiveTriangles,
	}, nil
}
