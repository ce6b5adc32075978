package shapes

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/leapstack-labs/votestack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedArea(t *testing.T) {
	sq := testutil.Square(0, 0, 2)
	assert.InDelta(t, 4, SignedArea(sq), 1e-12)
	assert.InDelta(t, -4, SignedArea(testutil.Reverse(sq)), 1e-12)
	assert.Equal(t, 0.0, SignedArea(nil))
}

func TestPolygons_SinglePolygon(t *testing.T) {
	p := geom.Polygon{testutil.Square(0, 0, 10)}

	got, err := Polygons(p)
	require.NoError(t, err)
	assert.Equal(t, []geom.Polygon{p}, got)
}

func TestPolygons_PolygonMatchesSingleMemberMultiPolygon(t *testing.T) {
	p := geom.Polygon{testutil.Square(0, 0, 10), testutil.Reverse(testutil.Square(2, 2, 3))}

	fromPolygon, err := Polygons(p)
	require.NoError(t, err)
	fromMulti, err := Polygons(geom.MultiPolygon{p})
	require.NoError(t, err)

	assert.Equal(t, fromPolygon, fromMulti)
	require.Len(t, fromPolygon, 1)
	assert.Len(t, fromPolygon[0], 2)
}

func TestPolygons_SplitsIslands(t *testing.T) {
	// Shapefile style: outer rings clockwise, holes counter-clockwise.
	mainland := testutil.Reverse(testutil.Square(0, 0, 10))
	lake := testutil.Square(2, 2, 2)
	island := testutil.Reverse(testutil.Square(20, 0, 3))
	pond := testutil.Square(20.5, 0.5, 1)

	got, err := Polygons(geom.Polygon{mainland, island, pond, lake})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, geom.Polygon{mainland, lake}, got[0])
	assert.Equal(t, geom.Polygon{island, pond}, got[1])
}

func TestPolygons_MultiPolygon(t *testing.T) {
	a := geom.Polygon{testutil.Square(0, 0, 1)}
	b := geom.Polygon{testutil.Square(5, 5, 1)}

	got, err := Polygons(geom.MultiPolygon{a, b})
	require.NoError(t, err)
	assert.Equal(t, []geom.Polygon{a, b}, got)
}

func TestPolygons_OrphanHoleBecomesOuter(t *testing.T) {
	outer := testutil.Square(0, 0, 1)
	stray := testutil.Reverse(testutil.Square(5, 5, 1))

	got, err := Polygons(geom.Polygon{outer, stray})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestPolygons_HoleTouchingOuterEdgeStaysHole(t *testing.T) {
	mainland := testutil.Reverse(testutil.Square(0, 0, 10))
	// First vertex sits on the mainland's left edge.
	bay := testutil.Square(0, 2, 2)

	got, err := Polygons(geom.Polygon{mainland, bay})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, geom.Polygon{mainland, bay}, got[0])
}

func TestPolygons_DropsZeroAreaRings(t *testing.T) {
	flat := geom.Path{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}}
	got, err := Polygons(geom.Polygon{flat, testutil.Square(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0], 1)
}

func TestPolygons_Unsupported(t *testing.T) {
	_, err := Polygons(geom.Point{X: 1, Y: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported geometry type")

	got, err := Polygons(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSliceSource(t *testing.T) {
	a := &Shape{ID: "1"}
	b := &Shape{ID: "2"}
	src := NewSliceSource(a, b)

	assert.Nil(t, src.Shape())
	var ids []string
	for src.Next() {
		ids = append(ids, src.Shape().ID)
	}
	assert.Equal(t, []string{"1", "2"}, ids)
	assert.False(t, src.Next())
	assert.Nil(t, src.Shape())
	assert.NoError(t, src.Err())
	assert.NoError(t, src.Close())
}

func TestShapefileSource(t *testing.T) {
	path := testutil.WriteCountyShapefile(t, t.TempDir(), "counties",
		testutil.County{GEOID: "01001", Polygon: geom.Polygon{testutil.Square(-87, 32, 0.5)}},
		testutil.County{GEOID: "01003", Polygon: geom.Polygon{testutil.Square(-88, 30.5, 0.7)}},
	)

	src, err := OpenShapefile(path, "GEOID")
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	wantArea := map[string]float64{"01001": 0.25, "01003": 0.49}
	var ids []string
	for src.Next() {
		s := src.Shape()
		ids = append(ids, s.ID)
		polys, err := Polygons(s.Geometry)
		require.NoError(t, err)
		require.Len(t, polys, 1)
		assert.InDelta(t, wantArea[s.ID], math.Abs(SignedArea(polys[0][0])), 1e-6)
	}
	require.NoError(t, src.Err())
	assert.Equal(t, []string{"01001", "01003"}, ids)
}

func TestOpenShapefile_Missing(t *testing.T) {
	_, err := OpenShapefile(t.TempDir()+"/missing.shp", "GEOID")
	assert.Error(t, err)
}
