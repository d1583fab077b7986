package directory

import (
	"context"
	"slices"

	"alfredoramos.mx/rescue-reporter/geo"
	"alfredoramos.mx/rescue-reporter/models"
)

// Source provides the registered NGOs.
type Source interface {
	List(ctx context.Context) ([]models.Ngo, error)
}

type Match struct {
	Ngo        models.Ngo
	DistanceKm float64
}

// Directory answers nearest-NGO queries with a linear scan. The NGO set is
// small enough that no spatial index is kept.
type Directory struct {
	source Source
}

func New(source Source) *Directory {
	return &Directory{source: source}
}

// List returns all NGOs sorted by id.
func (d *Directory) List(ctx context.Context) ([]models.Ngo, error) {
	ngos, err := d.source.List(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(ngos, func(a, b models.Ngo) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return ngos, nil
}

// NearestTo returns the closest NGO to p. Equidistant NGOs resolve to the
// lowest id. The boolean is false when there are no NGOs.
func (d *Directory) NearestTo(ctx context.Context, p geo.Point) (Match, bool, error) {
	ngos, err := d.List(ctx)
	if err != nil {
		return Match{}, false, err
	}

	m, ok := Nearest(ngos, p)

	return m, ok, nil
}

// Nearest scans ngos in order and keeps the first one at minimum distance.
func Nearest(ngos []models.Ngo, p geo.Point) (Match, bool) {
	best := Match{}
	found := false

	for _, n := range ngos {
		d := geo.Distance(p, n.Location())

		if !found || d < best.DistanceKm {
			best = Match{Ngo: n, DistanceKm: d}
			found = true
		}
	}

	return best, found
}
