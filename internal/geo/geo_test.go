package geo

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Same point.
	if d := HaversineKm(12.34, 77.56, 12.34, 77.56); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}

	// One degree of latitude is about 111.2 km at any longitude.
	d := HaversineKm(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("one degree of latitude = %f km, want ~111.19", d)
	}

	// Symmetry.
	a := HaversineKm(12.34, 77.56, 13.0, 78.0)
	b := HaversineKm(13.0, 78.0, 12.34, 77.56)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("asymmetric distance: %f vs %f", a, b)
	}
}

func TestHaversineRadiusBoundary(t *testing.T) {
	const lat, lng = 12.34, 77.56

	// 0.4487 degrees of latitude is just under 50 km; 0.4505 just over.
	inside := HaversineKm(lat, lng, lat+0.4487, lng)
	outside := HaversineKm(lat, lng, lat+0.4505, lng)

	if inside > DefaultRadiusKm {
		t.Errorf("inside point is %f km, want <= %f", inside, DefaultRadiusKm)
	}
	if outside <= DefaultRadiusKm {
		t.Errorf("outside point is %f km, want > %f", outside, DefaultRadiusKm)
	}
}

func TestParseBounds(t *testing.T) {
	// Absent bounds: no error, no bounds.
	b, err := ParseBounds("")
	if err != nil || b != nil {
		t.Fatalf("ParseBounds(\"\") = %v, %v, want nil, nil", b, err)
	}

	// Complete bounds.
	b, err = ParseBounds(`{"northEast":{"lat":13.0,"lng":78.0},"southWest":{"lat":12.0,"lng":77.0}}`)
	if err != nil {
		t.Fatalf("complete bounds: unexpected error %v", err)
	}
	if *b.NorthEast.Lat != 13.0 || *b.SouthWest.Lng != 77.0 {
		t.Errorf("parsed corners wrong: %+v", b)
	}
	if !b.Contains(12.5, 77.5) {
		t.Error("Contains(12.5, 77.5) = false, want true")
	}
	if b.Contains(14.0, 77.5) {
		t.Error("Contains(14.0, 77.5) = true, want false")
	}

	// Partial bounds is a malformed request, unlike absent bounds.
	_, err = ParseBounds(`{"northEast":{"lat":13.0,"lng":78.0}}`)
	if !errors.Is(err, ErrPartialBounds) {
		t.Errorf("partial bounds: error = %v, want ErrPartialBounds", err)
	}
	_, err = ParseBounds(`{"northEast":{"lat":13.0},"southWest":{"lat":12.0,"lng":77.0}}`)
	if !errors.Is(err, ErrPartialBounds) {
		t.Errorf("missing corner field: error = %v, want ErrPartialBounds", err)
	}

	_, err = ParseBounds(`not json`)
	if !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("garbage input: error = %v, want ErrInvalidBounds", err)
	}
}

func TestBucketPoints(t *testing.T) {
	points := []Point{
		{Lat: 12.34, Lng: 77.56},
		{Lat: 12.36, Lng: 77.58},
	}

	buckets := BucketPoints(points, 0.5)
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1: %+v", len(buckets), buckets)
	}
	b := buckets[0]
	if b.Lat != 12.5 || b.Lng != 77.5 || b.Count != 2 {
		t.Errorf("bucket = %+v, want {12.5 77.5 2}", b)
	}
}

func TestBucketPointsSeparateCells(t *testing.T) {
	points := []Point{
		{Lat: 12.34, Lng: 77.56},
		{Lat: 40.0, Lng: -74.0},
		{Lat: 40.1, Lng: -74.1},
	}

	buckets := BucketPoints(points, 0.5)
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Lat < buckets[j].Lat })

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2: %+v", len(buckets), buckets)
	}
	if buckets[0].Count != 1 || buckets[1].Count != 2 {
		t.Errorf("bucket counts = %d, %d, want 1, 2", buckets[0].Count, buckets[1].Count)
	}
}

func TestBucketPointsEmptyAndDefaultSize(t *testing.T) {
	if got := BucketPoints(nil, 0.5); len(got) != 0 {
		t.Errorf("no points should yield no buckets, got %+v", got)
	}

	// Non-positive size falls back to the default grid.
	buckets := BucketPoints([]Point{{Lat: 12.34, Lng: 77.56}}, 0)
	if len(buckets) != 1 || buckets[0].Lat != 12.5 {
		t.Errorf("default size bucketing = %+v, want one bucket at 12.5", buckets)
	}
}
