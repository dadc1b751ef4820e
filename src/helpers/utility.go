package helpers

import (
	"github.com/google/uuid"
)

// GenerateUUID returns a random identifier used to correlate the log lines of one run.
func GenerateUUID() string {
	return uuid.New().String()
}
