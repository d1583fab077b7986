package notifications

import (
	"time"

	"alfredoramos.mx/rescue-reporter/geo"
	"alfredoramos.mx/rescue-reporter/models"
	"github.com/google/uuid"
)

const (
	ChannelLog      string = "log"
	ChannelEmail    string = "email"
	ChannelSMS      string = "sms"
	ChannelWhatsApp string = "whatsapp"
)

type Contact struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	Whatsapp *string `json:"whatsapp,omitempty"`
}

// Intent is everything a responder needs to act on an assigned report.
type Intent struct {
	ID            uuid.UUID `json:"id"`
	ReportID      uint      `json:"report_id"`
	Description   string    `json:"description"`
	ReporterPhone string    `json:"reporter_phone"`
	Location      geo.Point `json:"location"`
	MapURL        string    `json:"map_url"`
	DistanceKm    float64   `json:"distance_km"`
	Ngo           Contact   `json:"ngo"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewIntent(r models.Report, a models.Assignment, mapsBaseURL string) Intent {
	return Intent{
		ID:            uuid.New(),
		ReportID:      r.ID,
		Description:   r.Description,
		ReporterPhone: r.ReporterPhone,
		Location:      r.Location(),
		MapURL:        geo.MapLink(mapsBaseURL, r.Location()),
		DistanceKm:    a.DistanceKm,
		Ngo: Contact{
			ID:       a.Ngo.ID,
			Name:     a.Ngo.Name,
			Phone:    a.Ngo.Phone,
			Email:    a.Ngo.Email,
			Whatsapp: a.Ngo.Whatsapp,
		},
		CreatedAt: time.Now(),
	}
}

// TargetFor returns the responder address used by the named channel.
func (i Intent) TargetFor(channel string) *string {
	var target *string

	switch channel {
	case ChannelEmail:
		target = i.Ngo.Email
	case ChannelSMS:
		target = &i.Ngo.Phone
	case ChannelWhatsApp:
		target = i.Ngo.Whatsapp
	}

	if target == nil || len(*target) < 1 {
		return nil
	}

	t := *target

	return &t
}

func (i Intent) TemplateData() map[string]interface{} {
	return map[string]interface{}{
		"IntentID":      i.ID.String(),
		"ReportID":      i.ReportID,
		"Description":   i.Description,
		"ReporterPhone": i.ReporterPhone,
		"Latitude":      i.Location.Latitude,
		"Longitude":     i.Location.Longitude,
		"MapURL":        i.MapURL,
		"DistanceKm":    i.DistanceKm,
		"NgoName":       i.Ngo.Name,
	}
}
