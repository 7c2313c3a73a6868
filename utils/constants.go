package utils

import (
	"time"
)

// Cache constants
const (
	// EmailExistsCacheTTL bounds staleness of the check-email cache
	EmailExistsCacheTTL = 30 * time.Second
)
