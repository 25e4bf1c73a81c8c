package geo

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	// EarthRadiusKm is Earth's mean radius in kilometres for the Haversine formula.
	EarthRadiusKm = 6371.0088
	mapsBaseURL   = "https://maps.google.com/?q="
)

// Point is a pickup location captured from the device.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range", p.Lng)
	}
	return nil
}

// MapsLink formats p as the link stored in orders.maps_link.
func MapsLink(p Point) string {
	return mapsBaseURL + strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// ParseMapsLink recovers the point from a link produced by MapsLink.
func ParseMapsLink(link string) (Point, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return Point{}, err
	}
	q := u.Query().Get("q")
	lat, lng, ok := strings.Cut(q, ",")
	if !ok {
		return Point{}, errors.New("maps link has no lat,lng pair")
	}
	var p Point
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return Point{}, fmt.Errorf("parse lat: %w", err)
	}
	if p.Lng, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
		return Point{}, fmt.Errorf("parse lng: %w", err)
	}
	return p, p.Validate()
}

// HaversineKm calculates the great-circle distance between two points in kilometres.
func HaversineKm(a, b Point) float64 {
	const degToRad = math.Pi / 180
	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(a.Lat*degToRad)*math.Cos(b.Lat*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}
