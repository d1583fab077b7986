package assignment

import (
	"context"

	"alfredoramos.mx/rescue-reporter/directory"
	"alfredoramos.mx/rescue-reporter/geo"
	"alfredoramos.mx/rescue-reporter/models"
	"github.com/shopspring/decimal"
)

type Finder interface {
	NearestTo(ctx context.Context, p geo.Point) (directory.Match, bool, error)
}

type Engine struct {
	finder Finder
}

func NewEngine(f Finder) *Engine {
	return &Engine{finder: f}
}

// SelectNearest returns the nearest NGO with its distance rounded to two
// decimals. An empty directory yields an unassigned result, not an error.
func (e *Engine) SelectNearest(ctx context.Context, p geo.Point) (models.Assignment, error) {
	m, ok, err := e.finder.NearestTo(ctx, p)
	if err != nil {
		return models.Assignment{}, err
	}

	if !ok {
		return models.Assignment{}, nil
	}

	ngo := m.Ngo

	return models.Assignment{
		Ngo:        &ngo,
		DistanceKm: RoundKm(m.DistanceKm),
	}, nil
}

func RoundKm(km float64) float64 {
	return decimal.NewFromFloat(km).Round(2).InexactFloat64()
}
