package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("banglify:job:%s", jobID)
}

// RateLimitKey scopes a per-minute counter to one caller.
func RateLimitKey(caller string) string {
	return fmt.Sprintf("banglify:ratelimit:%s", caller)
}
