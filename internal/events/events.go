package events

import (
	"context"
	"time"
)

const (
	ProjectCreated        = "project.created"
	ProjectModified       = "project.modified"
	ProjectDeleted        = "project.deleted"
	ProjectUserAssigned   = "project.user_assigned"
	ProjectUserUnassigned = "project.user_unassigned"
	UserCreated           = "user.created"
	UserModified          = "user.modified"
	UserDeleted           = "user.deleted"
)

// Event describes a completed write. Only the fields relevant to Type are set.
type Event struct {
	Type       string    `json:"type"`
	ProjectID  int       `json:"projectId,omitempty"`
	UserID     int       `json:"userId,omitempty"`
	Role       string    `json:"role,omitempty"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers change events. Implementations are best effort: a failed
// publish is logged and reported but never rolls back the write.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type nop struct{}

// Nop returns a Publisher that drops every event.
func Nop() Publisher {
	return nop{}
}

func (nop) Publish(ctx context.Context, event Event) error {
	return nil
}
