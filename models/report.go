package models

import (
	"strings"
	"time"

	"alfredoramos.mx/rescue-reporter/geo"
)

type ReportStatus string

const (
	StatusPending  ReportStatus = "PENDING"
	StatusOnTheWay ReportStatus = "ON_THE_WAY"
	StatusResolved ReportStatus = "RESOLVED"
)

func ReportStatuses() []ReportStatus {
	return []ReportStatus{StatusPending, StatusOnTheWay, StatusResolved}
}

func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusOnTheWay, StatusResolved:
		return true
	default:
		return false
	}
}

type Report struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Description   string       `gorm:"type:text;not null" json:"description"`
	ReporterName  string       `gorm:"size:255;not null" json:"reporter_name"`
	ReporterPhone string       `gorm:"size:50;not null" json:"reporter_phone"`
	Latitude      float64      `gorm:"not null;check:latitude BETWEEN -90 AND 90" json:"latitude"`
	Longitude     float64      `gorm:"not null;check:longitude BETWEEN -180 AND 180" json:"longitude"`
	ImagePath     *string      `gorm:"size:255" json:"image_path"`
	Status        ReportStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	AssignedNgoID *uint        `gorm:"index" json:"assigned_ngo_id"`
	AssignedNgo   *Ngo         `gorm:"foreignKey:AssignedNgoID" json:"-"`
	CreatedAt     time.Time    `gorm:"not null;index" json:"created_at"`
}

func (r Report) Location() geo.Point {
	return geo.NewPoint(r.Latitude, r.Longitude)
}

func (r Report) Validate() error {
	errs := NewValidationError()

	if len(strings.TrimSpace(r.Description)) < 1 {
		errs.Add("description", "The description is required.")
	}

	if len(strings.TrimSpace(r.ReporterName)) < 1 {
		errs.Add("reporter_name", "The reporter name is required.")
	}

	if len(strings.TrimSpace(r.ReporterPhone)) < 1 {
		errs.Add("reporter_phone", "The reporter phone is required.")
	}

	if !geo.IsValidLatitude(r.Latitude) {
		errs.Add("latitude", "The latitude must be a number between -90 and 90.")
	}

	if !geo.IsValidLongitude(r.Longitude) {
		errs.Add("longitude", "The longitude must be a number between -180 and 180.")
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}

// assignedNgoID hides assignments whose responder no longer exists.
// AssignedNgo must be preloaded.
func (r Report) assignedNgoID() *uint {
	if r.AssignedNgoID == nil || r.AssignedNgo == nil || r.AssignedNgo.ID != *r.AssignedNgoID {
		return nil
	}

	id := *r.AssignedNgoID

	return &id
}

// ReportSummary is the public view of a report, without reporter identity.
type ReportSummary struct {
	ID            uint         `json:"id"`
	Description   string       `json:"description"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	ImagePath     *string      `json:"image_path"`
	Status        ReportStatus `json:"status"`
	AssignedNgoID *uint        `json:"assigned_ngo_id"`
	CreatedAt     time.Time    `json:"created_at"`
}

type ReportDetail struct {
	ReportSummary
	ReporterName    string  `json:"reporter_name"`
	ReporterPhone   string  `json:"reporter_phone"`
	AssignedNgoName *string `json:"assigned_ngo,omitempty"`
}

func (r Report) Summary() ReportSummary {
	return ReportSummary{
		ID:            r.ID,
		Description:   r.Description,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		ImagePath:     r.ImagePath,
		Status:        r.Status,
		AssignedNgoID: r.assignedNgoID(),
		CreatedAt:     r.CreatedAt,
	}
}

func (r Report) Detail() ReportDetail {
	detail := ReportDetail{
		ReportSummary: r.Summary(),
		ReporterName:  r.ReporterName,
		ReporterPhone: r.ReporterPhone,
	}

	if detail.AssignedNgoID != nil {
		name := r.AssignedNgo.Name
		detail.AssignedNgoName = &name
	}

	return detail
}
