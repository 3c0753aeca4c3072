package rule_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatchRule(t *testing.T) {
	t.Run("valid rule", func(t *testing.T) {
		r, err := rule.NewDispatchRule(101, 500*time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 101, r.ID())
		assert.Equal(t, 500*time.Millisecond, r.Cadence())
		require.NoError(t, r.Validate())
	})

	t.Run("rejects non-positive id", func(t *testing.T) {
		_, err := rule.NewDispatchRule(0, time.Second)
		require.Error(t, err)
	})

	t.Run("rejects non-positive cadence", func(t *testing.T) {
		_, err := rule.NewDispatchRule(101, 0)
		require.Error(t, err)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var r rule.DispatchRule
		require.Error(t, r.Validate())
	})
}

func TestTable(t *testing.T) {
	mustRule := func(id int, cadence time.Duration) rule.DispatchRule {
		r, err := rule.NewDispatchRule(id, cadence)
		require.NoError(t, err)
		return r
	}

	t.Run("lookup by id", func(t *testing.T) {
		table, err := rule.NewTable([]rule.DispatchRule{
			mustRule(101, 500*time.Millisecond),
			mustRule(102, time.Second),
		})
		require.NoError(t, err)

		cadence, err := table.Cadence(101)
		require.NoError(t, err)
		assert.Equal(t, 500*time.Millisecond, cadence)
		assert.True(t, table.Has(102))
		assert.False(t, table.Has(103))
	})

	t.Run("unknown id not found", func(t *testing.T) {
		table, err := rule.NewTable([]rule.DispatchRule{mustRule(101, time.Second)})
		require.NoError(t, err)

		_, err = table.Get(999)
		require.Error(t, err)
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		_, err := rule.NewTable([]rule.DispatchRule{
			mustRule(101, time.Second),
			mustRule(101, 2*time.Second),
		})
		require.Error(t, err)
	})
}
