package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"alfredoramos.mx/rescue-reporter/geo"
	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/notifications"
	"alfredoramos.mx/rescue-reporter/uploads"
	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
)

type ReportStore interface {
	Create(ctx context.Context, r *models.Report) error
	SetAssignment(ctx context.Context, reportID uint, ngoID uint) error
	UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error
}

type Assigner interface {
	SelectNearest(ctx context.Context, p geo.Point) (models.Assignment, error)
}

type Notifier interface {
	Notify(ctx context.Context, r models.Report, a models.Assignment) []notifications.Delivery
}

type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(publicPath string) error
}

type Image struct {
	Filename string
	Content  io.Reader
}

type Result struct {
	ID         uint
	Status     models.ReportStatus
	Assignment models.Assignment
	Deliveries []notifications.Delivery
}

type Workflow struct {
	reports  ReportStore
	assigner Assigner
	notifier Notifier
	images   ImageStore
	validate *validator.Validate
}

// New builds the workflow. The image store may be nil, in which case images
// are ignored.
func New(reports ReportStore, assigner Assigner, notifier Notifier, images ImageStore) *Workflow {
	return &Workflow{
		reports:  reports,
		assigner: assigner,
		notifier: notifier,
		images:   images,
		validate: newValidator(),
	}
}

// Submit validates and stores a report, then assigns and notifies the
// nearest NGO. Only validation and storage errors are returned.
func (w *Workflow) Submit(ctx context.Context, s Submission, img *Image) (Result, error) {
	r, err := s.Report(w.validate)
	if err != nil {
		return Result{}, err
	}

	r.ImagePath = w.saveImage(ctx, img)

	if err := w.reports.Create(ctx, r); err != nil {
		if r.ImagePath != nil {
			if err := w.images.Remove(*r.ImagePath); err != nil {
				slog.Warn(fmt.Sprintf("Could not remove orphan image '%s': %v", *r.ImagePath, err))
			}
		}

		return Result{}, err
	}

	res := Result{ID: r.ID, Status: r.Status}

	a, err := w.assigner.SelectNearest(ctx, r.Location())
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not select an NGO for report %d: %v", r.ID, err))
		return res, nil
	}

	if !a.IsAssigned() {
		slog.Warn(fmt.Sprintf("No NGO available for report %d.", r.ID))
		return res, nil
	}

	if err := w.reports.SetAssignment(ctx, r.ID, a.Ngo.ID); err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not assign NGO %d to report %d: %v", a.Ngo.ID, r.ID, err))
		return res, nil
	}

	r.AssignedNgoID = &a.Ngo.ID
	r.AssignedNgo = a.Ngo
	res.Assignment = a

	if w.notifier != nil {
		res.Deliveries = w.notifier.Notify(ctx, *r, a)
	}

	return res, nil
}

func (w *Workflow) saveImage(ctx context.Context, img *Image) *string {
	if img == nil || w.images == nil || img.Content == nil {
		return nil
	}

	p, err := w.images.Save(ctx, img.Filename, img.Content)
	if errors.Is(err, uploads.ErrInvalidImage) {
		slog.Debug(fmt.Sprintf("Ignoring image '%s': %v", img.Filename, err))
		return nil
	}

	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not save image '%s': %v", img.Filename, err))
		return nil
	}

	return &p
}

// Transition changes the status of a report. Any valid status may follow any
// other.
func (w *Workflow) Transition(ctx context.Context, id uint, status models.ReportStatus) error {
	return w.reports.UpdateStatus(ctx, id, status)
}
