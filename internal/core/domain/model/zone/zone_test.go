package zone_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coordinate(t *testing.T, lon, lat float64) kernel.Coordinate {
	t.Helper()
	c, err := kernel.NewCoordinate(lon, lat)
	require.NoError(t, err)
	return c
}

func circleShape(t *testing.T) zone.Shape {
	t.Helper()
	s, err := zone.NewCircleShape(coordinate(t, 120.30, 30.30), 2000)
	require.NoError(t, err)
	return s
}

func squareShape(t *testing.T) zone.Shape {
	t.Helper()
	s, err := zone.NewPolygonShape([]kernel.Coordinate{
		coordinate(t, 120.00, 30.00),
		coordinate(t, 120.20, 30.00),
		coordinate(t, 120.20, 30.20),
		coordinate(t, 120.00, 30.20),
	})
	require.NoError(t, err)
	return s
}

func TestNewCircleShape(t *testing.T) {
	t.Run("valid circle", func(t *testing.T) {
		s := circleShape(t)

		assert.Equal(t, zone.ShapeKindCircle, s.Kind())
		assert.InEpsilon(t, 2000.0, s.RadiusMeters(), 1e-12)
		require.NoError(t, s.Validate())
	})

	t.Run("rejects non-positive radius", func(t *testing.T) {
		_, err := zone.NewCircleShape(coordinate(t, 120.30, 30.30), 0)
		require.Error(t, err)
	})

	t.Run("rejects unconstructed center", func(t *testing.T) {
		_, err := zone.NewCircleShape(kernel.Coordinate{}, 1000)
		require.Error(t, err)
	})
}

func TestNewPolygonShape(t *testing.T) {
	t.Run("valid ring", func(t *testing.T) {
		s := squareShape(t)

		assert.Equal(t, zone.ShapeKindPolygon, s.Kind())
		assert.Len(t, s.Ring(), 4)
	})

	t.Run("rejects ring with fewer than three points", func(t *testing.T) {
		_, err := zone.NewPolygonShape([]kernel.Coordinate{
			coordinate(t, 120.00, 30.00),
			coordinate(t, 120.20, 30.00),
		})
		require.Error(t, err)
	})

	t.Run("rejects unconstructed vertex", func(t *testing.T) {
		_, err := zone.NewPolygonShape([]kernel.Coordinate{
			coordinate(t, 120.00, 30.00),
			{},
			coordinate(t, 120.20, 30.20),
		})
		require.Error(t, err)
	})
}

func TestShape_Contains(t *testing.T) {
	t.Run("circle contains nearby point", func(t *testing.T) {
		s := circleShape(t)
		assert.True(t, s.Contains(coordinate(t, 120.301, 30.301)))
	})

	t.Run("circle excludes distant point", func(t *testing.T) {
		s := circleShape(t)
		assert.False(t, s.Contains(coordinate(t, 121.0, 31.0)))
	})

	t.Run("polygon contains interior point", func(t *testing.T) {
		s := squareShape(t)
		assert.True(t, s.Contains(coordinate(t, 120.10, 30.10)))
	})

	t.Run("zero shape contains nothing", func(t *testing.T) {
		var s zone.Shape
		assert.False(t, s.Contains(coordinate(t, 120.10, 30.10)))
	})
}

func TestNewZone(t *testing.T) {
	t.Run("creates zone", func(t *testing.T) {
		z, err := zone.NewZone(kernel.NewUUID(), kernel.NewUUID(),
			"downtown", "city core", 101, circleShape(t))

		require.NoError(t, err)
		assert.Equal(t, "downtown", z.Name())
		assert.Equal(t, 101, z.RuleID())
		require.NoError(t, z.Validate())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := zone.NewZone(kernel.NewUUID(), kernel.NewUUID(), "", "", 101, circleShape(t))
		require.Error(t, err)
	})

	t.Run("rejects non-positive rule", func(t *testing.T) {
		_, err := zone.NewZone(kernel.NewUUID(), kernel.NewUUID(), "z", "", 0, circleShape(t))
		require.Error(t, err)
	})

	t.Run("rejects unconstructed shape", func(t *testing.T) {
		_, err := zone.NewZone(kernel.NewUUID(), kernel.NewUUID(), "z", "", 101, zone.Shape{})
		require.Error(t, err)
	})
}

func TestZone_Mutations(t *testing.T) {
	newZone := func(t *testing.T) *zone.Zone {
		z, err := zone.NewZone(kernel.NewUUID(), kernel.NewUUID(), "downtown", "", 101, circleShape(t))
		require.NoError(t, err)
		return z
	}

	t.Run("rename", func(t *testing.T) {
		z := newZone(t)
		require.NoError(t, z.Rename("harbor", "harbor area"))
		assert.Equal(t, "harbor", z.Name())
		assert.Equal(t, "harbor area", z.Description())
	})

	t.Run("reshape", func(t *testing.T) {
		z := newZone(t)
		require.NoError(t, z.Reshape(squareShape(t), 102))
		assert.Equal(t, zone.ShapeKindPolygon, z.Shape().Kind())
		assert.Equal(t, 102, z.RuleID())
	})

	t.Run("ownership", func(t *testing.T) {
		merchantID := kernel.NewUUID()
		z, err := zone.NewZone(kernel.NewUUID(), merchantID, "z", "", 101, circleShape(t))
		require.NoError(t, err)

		assert.True(t, z.IsOwnedBy(merchantID))
		assert.False(t, z.IsOwnedBy(kernel.NewUUID()))
	})
}
