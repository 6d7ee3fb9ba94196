package models

import (
	"time"

	"github.com/saifghl/lms/internal/domain/notification"
)

// NotificationModel is the persistence model for a dashboard notification.
type NotificationModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Type      string    `gorm:"type:varchar(50);not null"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Message   string    `gorm:"type:text;not null"`
	LeaseID   *int64    `gorm:"index"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification.
func (m *NotificationModel) ToDomain() notification.Notification {
	return notification.Notification{
		ID:        m.ID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		LeaseID:   m.LeaseID,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	return &NotificationModel{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		LeaseID:   n.LeaseID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
