package services

import "math"

const (
	earthRadiusKm = 6371.0

	// DefaultBlockMeters is the length of one city block used when no
	// override is configured.
	DefaultBlockMeters = 80.0
)

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// BlockDistance converts the great-circle distance between two points into
// city blocks of blockMeters each. Non-positive blockMeters falls back to
// the default.
func BlockDistance(lat1, lon1, lat2, lon2, blockMeters float64) float64 {
	if blockMeters <= 0 {
		blockMeters = DefaultBlockMeters
	}
	meters := HaversineKm(lat1, lon1, lat2, lon2) * 1000
	return meters / blockMeters
}
