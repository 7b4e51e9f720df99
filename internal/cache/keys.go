package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func LocaleBundleKey(locale string) string {
	return fmt.Sprintf("content:bundle:%s", locale)
}

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
