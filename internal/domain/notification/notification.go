package notification

import (
	"context"
	"time"
)

// Notification is a dashboard message about a lease lifecycle change
type Notification struct {
	ID        int64
	Type      string
	Title     string
	Message   string
	LeaseID   *int64
	IsRead    bool
	CreatedAt time.Time
}

// Repository stores notifications
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// ListRecent returns the newest notifications first
	ListRecent(ctx context.Context, limit int) ([]Notification, error)
}
