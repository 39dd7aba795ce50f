package instance

import "os"

// GetID returns the worker instance identifier used in log fields,
// falling back to a fixed name for single-instance deployments.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	return "worker-0"
}
