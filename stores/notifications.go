package stores

import (
	"context"
	"encoding/json"
	"time"

	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/notifications"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifications is the audit log of every notification attempt.
type Notifications struct {
	db *gorm.DB
}

func NewNotifications(db *gorm.DB) *Notifications {
	return &Notifications{db: db}
}

func (s *Notifications) Record(ctx context.Context, intent notifications.Intent, d notifications.Delivery) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return err
	}

	n := models.Notification{
		IntentID:  intent.ID,
		ReportID:  intent.ReportID,
		NgoID:     intent.Ngo.ID,
		Channel:   d.Channel,
		Target:    intent.TargetFor(d.Channel),
		Status:    d.Status(),
		Payload:   datatypes.JSON(payload),
		CreatedAt: time.Now(),
	}

	if d.Err != nil {
		msg := d.Err.Error()
		n.Error = &msg
	}

	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return storageError("record notification", err)
	}

	return nil
}

func (s *Notifications) ListByReport(ctx context.Context, reportID uint) ([]models.Notification, error) {
	list := []models.Notification{}

	if err := s.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, storageError("list notifications", err)
	}

	return list, nil
}
