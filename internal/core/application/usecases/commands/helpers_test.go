package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/model/zone"

	"github.com/stretchr/testify/require"
)

func coordinate(t *testing.T, lon, lat float64) kernel.Coordinate {
	t.Helper()
	c, err := kernel.NewCoordinate(lon, lat)
	require.NoError(t, err)
	return c
}

// circleZone builds a 2km zone around (120.30, 30.30) bound to the given rule.
func circleZone(t *testing.T, merchantID kernel.UUID, ruleID int) *zone.Zone {
	t.Helper()
	shape, err := zone.NewCircleShape(coordinate(t, 120.30, 30.30), 2000)
	require.NoError(t, err)
	z, err := zone.NewZone(kernel.NewUUID(), merchantID, "downtown", "city core", ruleID, shape)
	require.NoError(t, err)
	return z
}

func ruleTable(t *testing.T, ids ...int) *rule.Table {
	t.Helper()
	rules := make([]rule.DispatchRule, 0, len(ids))
	for _, id := range ids {
		r, err := rule.NewDispatchRule(id, 2*time.Second)
		require.NoError(t, err)
		rules = append(rules, r)
	}
	table, err := rule.NewTable(rules)
	require.NoError(t, err)
	return table
}

func route(t *testing.T) []kernel.Coordinate {
	t.Helper()
	return []kernel.Coordinate{
		coordinate(t, 120.295, 30.295),
		coordinate(t, 120.298, 30.298),
		coordinate(t, 120.301, 30.301),
	}
}

func restoredOrder(t *testing.T, userID kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		userID,
		2500,
		"A. Customer",
		"1 Harbor Rd",
		coordinate(t, 120.301, 30.301),
		time.Now().Add(-10*time.Minute),
		status,
		nil,
		nil,
		nil,
		nil,
		false,
		order.ReasonNone,
	)
	require.NoError(t, err)
	return o
}
