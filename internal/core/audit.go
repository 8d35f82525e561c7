package core

import "time"

// AuditEvent is a recorded audit row. It is never updated or deleted.
type AuditEvent struct {
	ID          int64     `json:"id"`
	Action      Action    `json:"action"`
	Entity      Entity    `json:"entity"`
	EntityID    *string   `json:"entityId"`
	Details     string    `json:"details"`
	PerformedBy string    `json:"performedBy"`
	Timestamp   time.Time `json:"timestamp"`
}
