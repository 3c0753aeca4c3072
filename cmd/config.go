package cmd

import "time"

// Config carries all runtime settings, read from the environment in
// cmd/app/main.go.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr       string
	RedisPassword   string
	AnomalyCacheTTL time.Duration

	// DispatchRules is the seed set in "id:cadence" pairs, e.g.
	// "101:3s,102:2s,103:1s".
	DispatchRules string

	ArrivalThresholdMeters float64

	MaxPendingAge           time.Duration
	MaxShippingAge          time.Duration
	MaxPositionGap          time.Duration
	MaxRouteDeviationMeters float64

	SweepSchedule     string
	ReconcileSchedule string

	WSReorderLimit int
}
