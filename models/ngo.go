package models

import (
	"strings"
	"time"

	"alfredoramos.mx/rescue-reporter/geo"
)

// Ngo is a registered rescue organization (responder).
type Ngo struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_ngos_name_phone" json:"name" yaml:"name"`
	Phone     string    `gorm:"size:50;not null;uniqueIndex:idx_ngos_name_phone" json:"phone" yaml:"phone"`
	Email     *string   `gorm:"size:255" json:"email" yaml:"email"`
	Whatsapp  *string   `gorm:"size:50" json:"whatsapp" yaml:"whatsapp"`
	Latitude  float64   `gorm:"not null;check:latitude BETWEEN -90 AND 90" json:"latitude" yaml:"latitude"`
	Longitude float64   `gorm:"not null;check:longitude BETWEEN -180 AND 180" json:"longitude" yaml:"longitude"`
	Address   *string   `gorm:"type:text" json:"address" yaml:"address"`
	CreatedAt time.Time `gorm:"not null" json:"-" yaml:"-"`
}

func (n Ngo) Location() geo.Point {
	return geo.NewPoint(n.Latitude, n.Longitude)
}

func (n Ngo) Validate() error {
	errs := NewValidationError()

	if len(strings.TrimSpace(n.Name)) < 1 {
		errs.Add("name", "The name is required.")
	}

	if len(strings.TrimSpace(n.Phone)) < 1 {
		errs.Add("phone", "The phone is required.")
	}

	if !n.Location().IsValid() {
		errs.Add("location", "The coordinates are invalid.")
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}
