package stores

import (
	"context"
	"errors"
	"time"

	"alfredoramos.mx/rescue-reporter/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns exposed by the public list. Reporter identity is never selected.
var summaryColumns = []string{
	"id",
	"description",
	"latitude",
	"longitude",
	"image_path",
	"status",
	"assigned_ngo_id",
	"created_at",
}

type Reports struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db, now: time.Now}
}

// Create validates and persists a new report. The id, status, creation time
// and assignment are always set here, whatever the caller provided.
func (s *Reports) Create(ctx context.Context, r *models.Report) error {
	r.ID = 0
	r.Status = models.StatusPending
	r.AssignedNgoID = nil
	r.AssignedNgo = nil
	r.CreatedAt = s.now()

	if err := r.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		return storageError("create report", err)
	}

	return nil
}

// SetAssignment writes the assigned NGO once. Reports that already have one
// are left untouched.
func (s *Reports) SetAssignment(ctx context.Context, reportID uint, ngoID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND assigned_ngo_id IS NULL", reportID).
		Update("assigned_ngo_id", ngoID)
	if res.Error != nil {
		return storageError("assign report", res.Error)
	}

	if res.RowsAffected > 0 {
		return nil
	}

	exists, err := s.Exists(ctx, reportID)
	if err != nil {
		return err
	}

	if !exists {
		return ErrReportNotFound
	}

	return ErrAlreadyAssigned
}

func (s *Reports) List(ctx context.Context, onlyOpen bool) ([]models.ReportSummary, error) {
	reports := []models.Report{}

	q := s.db.WithContext(ctx).Model(&models.Report{}).
		Select(summaryColumns).
		Preload("AssignedNgo")

	if onlyOpen {
		q = q.Where("status <> ?", models.StatusResolved)
	}

	if err := q.Order("created_at DESC").Order("id DESC").Find(&reports).Error; err != nil {
		return nil, storageError("list reports", err)
	}

	list := make([]models.ReportSummary, 0, len(reports))

	for _, r := range reports {
		list = append(list, r.Summary())
	}

	return list, nil
}

func (s *Reports) Detail(ctx context.Context, id uint) (models.ReportDetail, error) {
	r := models.Report{}

	if err := s.db.WithContext(ctx).Preload("AssignedNgo").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ReportDetail{}, ErrReportNotFound
		}

		return models.ReportDetail{}, storageError("get report", err)
	}

	return r.Detail(), nil
}

// UpdateStatus sets any valid status, including the current one.
func (s *Reports) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}

	if !exists {
		return ErrReportNotFound
	}

	if err := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return storageError("update report status", err)
	}

	return nil
}

func (s *Reports) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64

	if err := s.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, storageError("find report", err)
	}

	return count > 0, nil
}
