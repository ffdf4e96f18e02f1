package graph

import "math"

const earthRadiusM = 6371000.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// HaversineM computes the great-circle distance between two points in meters
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	la1 := toRadians(lat1)
	la2 := toRadians(lat2)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}
