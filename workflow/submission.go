package workflow

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"alfredoramos.mx/rescue-reporter/models"
	"github.com/go-playground/validator/v10"
)

// Submission is the raw report form. Coordinates arrive as text; any
// finite number in range is accepted once parsed.
type Submission struct {
	Description   string `form:"description" validate:"required"`
	ReporterName  string `form:"reporter_name" validate:"required"`
	ReporterPhone string `form:"reporter_phone" validate:"required"`
	Latitude      string `form:"latitude" validate:"required"`
	Longitude     string `form:"longitude" validate:"required"`
}

func (s *Submission) trim() {
	s.Description = strings.TrimSpace(s.Description)
	s.ReporterName = strings.TrimSpace(s.ReporterName)
	s.ReporterPhone = strings.TrimSpace(s.ReporterPhone)
	s.Latitude = strings.TrimSpace(s.Latitude)
	s.Longitude = strings.TrimSpace(s.Longitude)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]

		if name == "-" || len(name) < 1 {
			return f.Name
		}

		return name
	})

	return v
}

func validationMessage(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s is required.", label)
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

// Report validates the submission and converts it into a report record.
func (s Submission) Report(v *validator.Validate) (*models.Report, error) {
	s.trim()

	out := models.NewValidationError()

	if err := v.Struct(s); err != nil {
		verrs := validator.ValidationErrors{}
		if !errors.As(err, &verrs) {
			return nil, err
		}

		for _, fe := range verrs {
			out.Add(fe.Field(), validationMessage(fe))
		}
	}

	lat, err := strconv.ParseFloat(s.Latitude, 64)
	if err != nil && len(s.Latitude) > 0 {
		out.Add("latitude", "The latitude must be a number between -90 and 90.")
	}

	lon, err := strconv.ParseFloat(s.Longitude, 64)
	if err != nil && len(s.Longitude) > 0 {
		out.Add("longitude", "The longitude must be a number between -180 and 180.")
	}

	if out.HasErrors() {
		return nil, out
	}

	r := &models.Report{
		Description:   s.Description,
		ReporterName:  s.ReporterName,
		ReporterPhone: s.ReporterPhone,
		Latitude:      lat,
		Longitude:     lon,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}
