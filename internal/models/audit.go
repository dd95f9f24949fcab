package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionPromote = "STUDENT_PROMOTE"
	AuditActionEnroll  = "STUDENT_ENROLL"
)

// AuditLog represents an audit trail record attributed to an actor.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ActorID    *string   `db:"actor_id" json:"actor_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
