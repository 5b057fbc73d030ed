package models

import "time"

// Event is a log entry describing pipeline activity, e.g. a fetch cycle
// finishing or an email send failing. Source is the source label the event
// relates to, if any.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Level     string    `json:"level"` // "info", "warn", or "error"
	Message   string    `json:"message"`
	Source    *string   `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
