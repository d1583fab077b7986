package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean radius used for great-circle distances.
const EarthRadiusKm float64 = 6371.0

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewPoint(lat float64, lon float64) Point {
	return Point{Latitude: lat, Longitude: lon}
}

func (p Point) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Latitude, p.Longitude)
}

func (p Point) IsValid() bool {
	return IsValidLatitude(p.Latitude) && IsValidLongitude(p.Longitude)
}

func IsValidLatitude(lat float64) bool {
	return isFinite(lat) && lat >= -90 && lat <= 90
}

func IsValidLongitude(lon float64) bool {
	return isFinite(lon) && lon >= -180 && lon <= 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Distance returns the haversine great-circle distance in kilometers.
// Inputs are expected to be valid; it never fails.
func Distance(a Point, b Point) float64 {
	return a.LatLng().Distance(b.LatLng()).Radians() * EarthRadiusKm
}

// MapLink appends "lat,lon" to the given map search URL.
func MapLink(baseURL string, p Point) string {
	baseURL = strings.TrimSpace(baseURL)

	return baseURL + strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}
