package service

import (
	"context"
	"testing"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/geo"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
)

func TestNearbyRadiusFilterAndOrder(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	svc := NewGeoService(reels)
	ctx := context.Background()

	const lat, lng = 12.34, 77.56
	seedAccount(t, db, 1, false)

	atCenter := seedGeoReel(t, db, 1, lat, lng)
	justInside := seedGeoReel(t, db, 1, lat+0.4487, lng) // ~49.9 km
	seedGeoReel(t, db, 1, lat+0.4505, lng)               // ~50.1 km, outside

	rows, total, err := svc.Nearby(ctx, lat, lng, 50, pagination.Normalize(1, 10))
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("nearby = %d rows, total %d, want 2/2", len(rows), total)
	}

	// Closest first.
	if rows[0].ID != atCenter || rows[1].ID != justInside {
		t.Errorf("order = [%d, %d], want [%d, %d]", rows[0].ID, rows[1].ID, atCenter, justInside)
	}
	if rows[0].DistanceKm != 0 {
		t.Errorf("center distance = %f, want 0", rows[0].DistanceKm)
	}
	if rows[1].DistanceKm <= 0 || rows[1].DistanceKm > 50 {
		t.Errorf("inside distance = %f, want within (0, 50]", rows[1].DistanceKm)
	}
}

func TestNearbyExcludesIneligible(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	svc := NewGeoService(reels)
	ctx := context.Background()

	const lat, lng = 12.34, 77.56
	seedAccount(t, db, 1, false)
	seedAccount(t, db, 2, true)

	eligible := seedGeoReel(t, db, 1, lat, lng)
	seedGeoReel(t, db, 2, lat, lng)               // private owner
	seedReel(t, db, 1, domain.ReelPublic)         // no coordinates
	privateReel := seedGeoReel(t, db, 1, lat, lng)
	if err := db.Model(&domain.ReelModel{}).Where("id = ?", privateReel).
		Update("visibility", domain.ReelPrivate).Error; err != nil {
		t.Fatalf("update visibility: %v", err)
	}

	rows, total, err := svc.Nearby(ctx, lat, lng, 50, pagination.Normalize(1, 10))
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != eligible {
		t.Errorf("nearby = %+v (total %d), want only the eligible reel", rows, total)
	}
}

func TestNearbyPagination(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	svc := NewGeoService(reels)
	ctx := context.Background()

	const lat, lng = 12.34, 77.56
	seedAccount(t, db, 1, false)
	for i := 0; i < 5; i++ {
		seedGeoReel(t, db, 1, lat+float64(i)*0.01, lng)
	}

	rows, total, err := svc.Nearby(ctx, lat, lng, 50, pagination.Normalize(2, 2))
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if total != 5 || len(rows) != 2 {
		t.Errorf("page 2 = %d rows, total %d, want 2 rows of 5", len(rows), total)
	}

	// Past the end: empty page, same total.
	rows, total, err = svc.Nearby(ctx, lat, lng, 50, pagination.Normalize(4, 2))
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if total != 5 || len(rows) != 0 {
		t.Errorf("page past end = %d rows, total %d, want 0 rows of 5", len(rows), total)
	}
}

func TestHeatmap(t *testing.T) {
	db := newTestDB(t)
	reels := repository.NewGormReelRepository(db)
	svc := NewGeoService(reels)
	ctx := context.Background()

	seedAccount(t, db, 1, false)
	seedGeoReel(t, db, 1, 12.34, 77.56)
	seedGeoReel(t, db, 1, 12.36, 77.58)
	seedGeoReel(t, db, 1, 40.0, -74.0) // outside the query box

	// Absent bounds: empty result, not a full-table aggregation.
	buckets, err := svc.Heatmap(ctx, nil, 0.5)
	if err != nil || len(buckets) != 0 {
		t.Fatalf("Heatmap(nil) = %+v, %v, want empty", buckets, err)
	}

	neLat, neLng := 13.0, 78.0
	swLat, swLng := 12.0, 77.0
	bounds := &geo.Bounds{
		NorthEast: geo.LatLng{Lat: &neLat, Lng: &neLng},
		SouthWest: geo.LatLng{Lat: &swLat, Lng: &swLng},
	}

	buckets, err = svc.Heatmap(ctx, bounds, 0.5)
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("got %d buckets, want 1: %+v", len(buckets), buckets)
	}
	b := buckets[0]
	if b.Lat != 12.5 || b.Lng != 77.5 || b.Count != 2 {
		t.Errorf("bucket = %+v, want {12.5 77.5 2}", b)
	}
}
