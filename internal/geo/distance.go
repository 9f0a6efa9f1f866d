// Package geo provides geographic distance utilities for proximity matching.
package geo

import (
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distance.
const EarthRadiusKm = 6371.0

// Point represents a geographic coordinate with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HaversineKm computes the great-circle distance between two points in
// kilometers using the haversine formula.
func HaversineKm(a, b Point) float64 {
	lat1 := degToRad(a.Lat)
	lon1 := degToRad(a.Lng)
	lat2 := degToRad(b.Lat)
	lon2 := degToRad(b.Lng)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// ParseLatLng parses a comma-joined "lat,lng" string into a Point.
// Returns nil and false unless the string splits into exactly two
// parseable decimal components.
func ParseLatLng(s string) (*Point, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, false
	}

	return &Point{Lat: lat, Lng: lng}, true
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
