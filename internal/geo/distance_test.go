package geo

import (
	"math"
	"testing"
)

func TestMapsLink_Format(t *testing.T) {
	got := MapsLink(Point{Lat: -7.5629, Lng: 110.8251})
	want := "https://maps.google.com/?q=-7.5629,110.8251"
	if got != want {
		t.Fatalf("MapsLink = %q, want %q", got, want)
	}
}

func TestParseMapsLink_RoundTrip(t *testing.T) {
	p := Point{Lat: -7.55, Lng: 110.81234}
	got, err := ParseMapsLink(MapsLink(p))
	if err != nil {
		t.Fatalf("ParseMapsLink: %v", err)
	}
	if got != p {
		t.Fatalf("round trip = %+v, want %+v", got, p)
	}
	if _, err := ParseMapsLink("https://maps.google.com/?q=nowhere"); err == nil {
		t.Fatalf("expected error for link without coordinates")
	}
}

func TestValidate_Ranges(t *testing.T) {
	if err := (Point{Lat: 91, Lng: 0}).Validate(); err == nil {
		t.Fatalf("expected latitude error")
	}
	if err := (Point{Lat: 0, Lng: -181}).Validate(); err == nil {
		t.Fatalf("expected longitude error")
	}
	if err := (Point{Lat: math.NaN()}).Validate(); err == nil {
		t.Fatalf("expected NaN error")
	}
	if err := (Point{Lat: -7.5, Lng: 110.8}).Validate(); err != nil {
		t.Fatalf("valid point rejected: %v", err)
	}
}

func TestHaversineKm(t *testing.T) {
	if d := HaversineKm(Point{10, 20}, Point{10, 20}); d < 0 || d > 1e-9 {
		t.Fatalf("zero distance expected ~0, got %v", d)
	}
	// One degree of latitude is ~111 km.
	d := HaversineKm(Point{0, 0}, Point{1, 0})
	if d < 110 || d > 112 {
		t.Fatalf("one degree latitude = %v km", d)
	}
}
