package club

import "math"

const (
	earthRadiusKm = 6371.0
	kmPerDegLat   = 111.0
)

// BoundingBox returns the lat/lon rectangle that encloses a circle of
// radiusKm around the point. Latitude uses a flat-earth degrees-per-km
// approximation; longitude is scaled by the cosine of the latitude.
// The box is a coarse prefilter; candidates inside it still go through
// the exact haversine check.
func BoundingBox(lat, lon, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKm / kmPerDegLat

	lonScale := math.Cos(lat * math.Pi / 180)
	if lonScale < 0.01 {
		lonScale = 0.01
	}
	lonDelta := radiusKm / (kmPerDegLat * lonScale)

	return lat - latDelta, lat + latDelta, lon - lonDelta, lon + lonDelta
}

// Haversine returns the great-circle distance in km between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
