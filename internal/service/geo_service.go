package service

import (
	"context"
	"sort"

	"github.com/trailgram/social-graph-service/internal/domain"
	"github.com/trailgram/social-graph-service/internal/geo"
	"github.com/trailgram/social-graph-service/internal/pagination"
	"github.com/trailgram/social-graph-service/internal/repository"
)

// geoService implements GeoService.
type geoService struct {
	reels repository.ReelRepository
}

// NewGeoService creates a new GeoService instance.
func NewGeoService(reels repository.ReelRepository) GeoService {
	return &geoService{reels: reels}
}

// Nearby returns publicly eligible reels within radiusKm of the center,
// closest first. Distance is computed in memory over the candidate scan; the
// candidate set is already narrowed to geotagged, publicly eligible rows.
func (s *geoService) Nearby(ctx context.Context, lat, lng, radiusKm float64, p pagination.Params) ([]domain.NearbyReel, int64, error) {
	if radiusKm <= 0 {
		radiusKm = geo.DefaultRadiusKm
	}

	candidates, err := s.reels.ListGeoCandidates(ctx, nil)
	if err != nil {
		return nil, 0, err
	}

	matches := make([]domain.NearbyReel, 0, len(candidates))
	for _, reel := range candidates {
		if !reel.HasCoordinates() {
			continue
		}
		d := geo.HaversineKm(lat, lng, *reel.Lat, *reel.Lng)
		if d <= radiusKm {
			matches = append(matches, domain.NearbyReel{ReelModel: reel, DistanceKm: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	total := int64(len(matches))
	start := p.Offset()
	if start >= len(matches) {
		return []domain.NearbyReel{}, total, nil
	}
	end := start + p.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

// Heatmap aggregates geotagged reel positions inside the bounding box onto a
// grid. Absent bounds is answered with an empty map rather than a full-table
// aggregation.
func (s *geoService) Heatmap(ctx context.Context, bounds *geo.Bounds, bucketSize float64) ([]geo.Bucket, error) {
	if bounds == nil {
		return []geo.Bucket{}, nil
	}

	candidates, err := s.reels.ListGeoCandidates(ctx, bounds)
	if err != nil {
		return nil, err
	}

	points := make([]geo.Point, 0, len(candidates))
	for _, reel := range candidates {
		if !reel.HasCoordinates() {
			continue
		}
		points = append(points, geo.Point{Lat: *reel.Lat, Lng: *reel.Lng})
	}
	return geo.BucketPoints(points, bucketSize), nil
}

// Ensure interface is satisfied at compile time.
var _ GeoService = (*geoService)(nil)
