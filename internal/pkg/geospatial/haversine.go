package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// PolylineLength sums the great-circle distances between consecutive
// vertices, given as parallel latitude and longitude slices. Fewer than two
// vertices have zero length.
func PolylineLength(lats, lngs []float64) float64 {
	n := len(lats)
	if len(lngs) < n {
		n = len(lngs)
	}
	var total float64
	for i := 1; i < n; i++ {
		total += Haversine(lats[i-1], lngs[i-1], lats[i], lngs[i])
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
