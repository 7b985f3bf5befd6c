package domain

import "time"

// Log levels for audit entries. Alert marks conditions operators must act on
// out-of-band, such as a captured payment that could not be fulfilled.
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelAlert = "alert"
)

// LogEntry is a durable audit record written by the public endpoints and the
// webhook, and read back by the admin dashboard.
type LogEntry struct {
	ID        int64
	CreatedAt time.Time
	Endpoint  string
	Level     string
	EventID   string
	Message   string
}
