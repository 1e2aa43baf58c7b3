// File: utils/constants.go
package utils

import "time"

// Gin context keys set by the auth middleware.
const (
	ContextUserKey = "identity"
)

// HealthCheckInterval is how often external dependencies are pinged.
const HealthCheckInterval = 60 * time.Second

// SessionSweepInterval is how often abandoned donation sessions are collected.
const SessionSweepInterval = time.Minute
