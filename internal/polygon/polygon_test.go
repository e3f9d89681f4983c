package polygon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/regionmark/internal/geom"
)

func square() *Polygon {
	p := Import([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}})
	return p
}

func TestCloseNeedsThreeVertices(t *testing.T) {
	p := New()
	assert.False(t, p.Close())
	p.AddVertex(NewVertex(geom.Pt(0, 0)))
	p.AddVertex(NewVertex(geom.Pt(1, 0)))
	assert.False(t, p.Close())
	assert.False(t, p.IsClosed())
	assert.Equal(t, 2, p.Len())

	p.AddVertex(NewVertex(geom.Pt(1, 1)))
	assert.True(t, p.Close())
	assert.True(t, p.IsClosed())
}

func TestWindingContainment(t *testing.T) {
	p := square()
	require.True(t, p.IsClosed())
	assert.True(t, p.Contains(geom.Pt(5, 5)))
	assert.False(t, p.Contains(geom.Pt(15, 15)))

	edge := p.Contains(geom.Pt(10, 5))
	for i := 0; i < 10; i++ {
		assert.Equal(t, edge, p.Contains(geom.Pt(10, 5)), "boundary result must be stable")
	}
}

func TestWindingOrientationIndependent(t *testing.T) {
	cw := Import([]geom.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}})
	assert.Equal(t, -square().Winding(geom.Pt(5, 5)), cw.Winding(geom.Pt(5, 5)))
	assert.True(t, cw.Contains(geom.Pt(5, 5)))
}

func TestOpenPolygonContainsNothing(t *testing.T) {
	p := Import([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}})
	require.False(t, p.IsClosed())
	assert.False(t, p.Contains(geom.Pt(5, 5)))
}

func TestAddVertexRejectsDuplicates(t *testing.T) {
	p := New()
	v := NewVertex(geom.Pt(3, 4))
	assert.True(t, p.AddVertex(v))
	assert.False(t, p.AddVertex(v))
	assert.False(t, p.AddVertex(nil))
	assert.True(t, p.AddVertex(NewVertex(geom.Pt(3, 4))), "equal coordinates, distinct vertex")
	assert.Equal(t, 2, p.Len())
}

func TestAddVertexOpensClosedPolygon(t *testing.T) {
	p := square()
	p.AddVertex(NewVertex(geom.Pt(5, 15)))
	assert.False(t, p.IsClosed())
	assert.Equal(t, 5, p.Len())
}

func TestDeleteVertexClosure(t *testing.T) {
	cases := []struct {
		name   string
		index  int
		closed bool
	}{
		{"initial", 0, false},
		{"middle", 1, true},
		{"last", 3, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := square()
			v := p.Vertices()[tc.index]
			require.True(t, p.DeleteVertex(v))
			assert.Equal(t, 3, p.Len())
			assert.Equal(t, tc.closed, p.IsClosed())
			assert.False(t, p.Has(v))
		})
	}
}

func TestDeleteBelowThreeOpens(t *testing.T) {
	p := Import([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 0}})
	require.True(t, p.IsClosed())
	p.DeleteVertex(p.Vertices()[1])
	assert.False(t, p.IsClosed())
}

func TestDeleteLastRemainingEmpties(t *testing.T) {
	p := New()
	v := NewVertex(geom.Pt(1, 1))
	p.AddVertex(v)
	p.DeleteVertex(v)
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Initial())
	assert.False(t, p.DeleteVertex(v))
}

func TestDeleteThenReinsert(t *testing.T) {
	p := square()
	v := p.Vertices()[2]
	p.DeleteVertex(v)
	p.AddVertex(NewVertex(v.Position))
	assert.Len(t, p.Vertices(), 4)
	assert.Equal(t, geom.Pt(10, 10), p.Last().Position)
}

func TestImportExportRoundTrip(t *testing.T) {
	open := []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 7}, {X: 0, Y: 9}}
	assert.Equal(t, open, Export(Import(open)))

	closed := []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 7}, {X: 1, Y: 2}}
	assert.Equal(t, closed, Export(Import(closed)))
}

func TestImportStopsAtFirstRepeat(t *testing.T) {
	p := Import([]geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 0}, {X: 9, Y: 9}})
	assert.Equal(t, 3, p.Len())
	assert.True(t, p.IsClosed())
}

func TestImportRepeatAfterTwoPointsStaysOpen(t *testing.T) {
	p := Import([]geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 0, Y: 0}})
	require.Equal(t, 2, p.Len())
	assert.False(t, p.IsClosed())
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}, Export(p))
}

func TestImportEmpty(t *testing.T) {
	assert.Nil(t, Import(nil))
	assert.Equal(t, []geom.Point{}, Export(nil))
}

func TestBounds(t *testing.T) {
	p := Import([]geom.Point{{X: 3, Y: -1}, {X: 8, Y: 2}, {X: -4, Y: 6}})
	b := p.Bounds()
	assert.Equal(t, geom.Pt(-4, -1), b.Min)
	assert.Equal(t, geom.Pt(8, 6), b.Max)
	assert.True(t, New().Bounds().Empty())
}
