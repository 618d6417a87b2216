// Package geo holds the pure geospatial helpers behind nearby search and
// heatmap aggregation.
package geo

import (
	"encoding/json"
	"errors"
	"math"
)

// EarthRadiusKm is the mean earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DefaultRadiusKm is the fallback when a nearby query carries no usable
// radius.
const DefaultRadiusKm = 50.0

var (
	ErrPartialBounds = errors.New("bounds must include both northEast and southWest corners")
	ErrInvalidBounds = errors.New("bounds is not valid JSON")
)

// HaversineKm returns the great-circle distance in kilometers between two
// points given in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// LatLng is a point in degrees.
type LatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p LatLng) complete() bool { return p.Lat != nil && p.Lng != nil }

// Bounds is a geographic bounding box.
type Bounds struct {
	NorthEast LatLng `json:"northEast"`
	SouthWest LatLng `json:"southWest"`
}

// Contains reports whether the point lies within the box. Boxes crossing the
// antimeridian are not supported.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= *b.SouthWest.Lat && lat <= *b.NorthEast.Lat &&
		lng >= *b.SouthWest.Lng && lng <= *b.NorthEast.Lng
}

// ParseBounds decodes the heatmap bounds query parameter.
// An empty string yields (nil, nil): absent bounds is not an error, the
// caller answers with an empty result. A present-but-partial bounds value is
// a malformed request.
func ParseBounds(raw string) (*Bounds, error) {
	if raw == "" {
		return nil, nil
	}

	var b Bounds
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, ErrInvalidBounds
	}
	if !b.NorthEast.complete() || !b.SouthWest.complete() {
		return nil, ErrPartialBounds
	}
	return &b, nil
}

// Point is an input to heatmap bucketing.
type Point struct {
	Lat float64
	Lng float64
}

// Bucket is one non-empty heatmap grid cell.
type Bucket struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Count int     `json:"count"`
}

// snap rounds a coordinate to the center of its grid cell.
func snap(v, size float64) float64 {
	return math.Round(v/size) * size
}

// BucketPoints aggregates points onto a fixed lat/lng grid of the given cell
// size. Output order is unspecified; callers needing determinism sort.
func BucketPoints(points []Point, size float64) []Bucket {
	if size <= 0 {
		size = 0.5
	}

	type cell struct{ lat, lng float64 }
	counts := make(map[cell]int, len(points))
	for _, p := range points {
		counts[cell{snap(p.Lat, size), snap(p.Lng, size)}]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for c, n := range counts {
		buckets = append(buckets, Bucket{Lat: c.lat, Lng: c.lng, Count: n})
	}
	return buckets
}
