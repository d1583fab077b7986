package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationStatus string

const (
	NotificationSent     NotificationStatus = "SENT"
	NotificationFailed   NotificationStatus = "FAILED"
	NotificationTimedOut NotificationStatus = "TIMED_OUT"
)

// Notification is the audit record of one intent sent through one channel.
type Notification struct {
	ID        uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	IntentID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"intent_id"`
	ReportID  uint               `gorm:"not null;index" json:"report_id"`
	NgoID     uint               `gorm:"not null" json:"ngo_id"`
	Channel   string             `gorm:"size:20;not null" json:"channel"`
	Target    *string            `gorm:"size:255" json:"target"`
	Status    NotificationStatus `gorm:"size:20;not null" json:"status"`
	Error     *string            `gorm:"type:text" json:"error"`
	Payload   datatypes.JSON     `json:"payload"`
	CreatedAt time.Time          `gorm:"not null" json:"created_at"`
}
