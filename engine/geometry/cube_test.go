package geometry

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeSizes(t *testing.T) {
	c := NewCube()
	assert.Len(t, c.Positions(), 108)
	assert.Len(t, c.TexCoords(), 72)
	assert.Equal(t, int32(36), c.VertexCount())
	assert.Equal(t, len(c.Positions())/PositionSize, len(c.TexCoords())/TexCoordSize)
}

func TestCubeTexCoordsAreBandBoundaries(t *testing.T) {
	for i, v := range NewCube().TexCoords() {
		assert.Contains(t, []float32{0, 0.5, 1}, v, "texcoord %d", i)
	}
}

func TestCubePositionsSpanUnitCube(t *testing.T) {
	pos := NewCube().Positions()
	for i, v := range pos {
		assert.True(t, v == 0 || v == 1, "position %d is %v", i, v)
	}

	// every face lies in one plane: one axis is constant across its six vertices
	for face := range 6 {
		verts := pos[face*18 : (face+1)*18]
		planar := false
		for axis := range 3 {
			constant := true
			for v := 1; v < 6; v++ {
				if verts[v*3+axis] != verts[axis] {
					constant = false
				}
			}
			planar = planar || constant
		}
		assert.True(t, planar, "face %d", face)
	}
}

func TestCubeIsImmutable(t *testing.T) {
	c := NewCube()
	p := c.Positions()
	p[0] = 42
	tc := c.TexCoords()
	tc[0] = 42

	assert.Equal(t, float32(0), c.Positions()[0])
	assert.Equal(t, float32(0), c.TexCoords()[0])
}

func TestUpload(t *testing.T) {
	rec := rendertest.NewRecorder(renderer.BackendTypeOpenGL)
	r, err := renderer.NewRenderer(nil, renderer.WithBackend(rec))
	require.NoError(t, err)

	c := NewCube()
	b, err := Upload(r, c)
	require.NoError(t, err)

	assert.Equal(t, int32(36), b.VertexCount)
	assert.Equal(t, int32(3), b.PositionSize)
	assert.Equal(t, int32(2), b.TexCoordSize)
	assert.Equal(t, renderer.PrimitiveTriangles, b.Primitive)
	assert.Equal(t, c.Positions(), rec.Buffer(b.Position))
	assert.Equal(t, c.TexCoords(), rec.Buffer(b.TexCoord))
	assert.Equal(t, 2, rec.Count(rendertest.OpVertexBuffer))
}
