package spatial

import (
	"math"
	"testing"
)

func TestHaversineIdenticalPoints(t *testing.T) {
	coords := [][2]float64{
		{0, 0},
		{45.5, -122.6},
		{-33.9, 151.2},
		{90, 0},
	}
	for _, c := range coords {
		d, ok := HaversineKm(c[0], c[1], c[0], c[1])
		if !ok {
			t.Fatalf("HaversineKm(%v, %v) reported no value", c[0], c[1])
		}
		if d != 0 {
			t.Fatalf("HaversineKm for identical point (%v, %v) = %v, want exactly 0", c[0], c[1], d)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	d1, ok1 := HaversineKm(40.7128, -74.0060, 34.0522, -118.2437)
	d2, ok2 := HaversineKm(34.0522, -118.2437, 40.7128, -74.0060)
	if !ok1 || !ok2 {
		t.Fatal("HaversineKm reported no value for valid coordinates")
	}
	if d1 != d2 {
		t.Fatalf("HaversineKm is not symmetric: %v != %v", d1, d2)
	}
	// NYC to LA is roughly 3936 km
	if d1 < 3900 || d1 > 3970 {
		t.Fatalf("HaversineKm NYC-LA = %v km, outside plausible range", d1)
	}
}

func TestHaversineAntipodal(t *testing.T) {
	d, ok := HaversineKm(0, 0, 0, 180)
	if !ok {
		t.Fatal("HaversineKm reported no value for antipodal points")
	}
	want := math.Pi * EarthRadiusKm
	if math.Abs(d-want) > 0.5 {
		t.Fatalf("antipodal distance = %v, want about %v", d, want)
	}
}

func TestHaversineNonFiniteInputs(t *testing.T) {
	cases := [][4]float64{
		{math.NaN(), 0, 0, 0},
		{0, math.NaN(), 0, 0},
		{0, 0, math.NaN(), 0},
		{0, 0, 0, math.NaN()},
		{math.Inf(1), 0, 0, 0},
	}
	for _, c := range cases {
		if _, ok := HaversineKm(c[0], c[1], c[2], c[3]); ok {
			t.Fatalf("HaversineKm(%v) should report no value", c)
		}
	}
}

func TestBearingCardinalDirections(t *testing.T) {
	// Due east along the equator
	b, ok := Bearing(0, 0, 0, 1)
	if !ok {
		t.Fatal("Bearing reported no value for valid coordinates")
	}
	if math.Abs(b-90) > 1e-9 {
		t.Fatalf("eastward bearing = %v, want 90", b)
	}

	// Due north
	b, ok = Bearing(0, 0, 1, 0)
	if !ok {
		t.Fatal("Bearing reported no value for valid coordinates")
	}
	if math.Abs(b-0) > 1e-9 {
		t.Fatalf("northward bearing = %v, want 0", b)
	}
}

func TestBearingNonFinite(t *testing.T) {
	if _, ok := Bearing(math.NaN(), 0, 0, 1); ok {
		t.Fatal("Bearing with NaN input should report no value")
	}
}

func TestValidDegrees(t *testing.T) {
	if !ValidDegrees(45, 120) {
		t.Fatal("ValidDegrees(45, 120) = false, want true")
	}
	if ValidDegrees(91, 0) {
		t.Fatal("ValidDegrees(91, 0) = true, want false")
	}
	if ValidDegrees(0, 181) {
		t.Fatal("ValidDegrees(0, 181) = true, want false")
	}
	if ValidDegrees(math.NaN(), 0) {
		t.Fatal("ValidDegrees(NaN, 0) = true, want false")
	}
}
