package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_ManilaExample(t *testing.T) {
	d := DistanceKm(14.6091, 120.9790, 14.5995, 120.9842)
	assert.InDelta(t, 1.2, d, 0.15)
	assert.Equal(t, 1.2, RoundTo(d, 1))
}

func TestDistanceKm_SymmetricAndNonNegative(t *testing.T) {
	points := [][2]float64{
		{0, 0}, {14.5995, 120.9842}, {-33.8688, 151.2093}, {51.5074, -0.1278},
		{90, 0}, {-90, 180}, {40.7128, -74.0060}, {0, 179.9999}, {0, -179.9999},
	}
	for _, p := range points {
		for _, q := range points {
			ab := DistanceKm(p[0], p[1], q[0], q[1])
			ba := DistanceKm(q[0], q[1], p[0], p[1])
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InDelta(t, ab, ba, 1e-9)
			assert.False(t, math.IsNaN(ab))
		}
		assert.Equal(t, 0.0, DistanceKm(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceKm_Antipodal(t *testing.T) {
	d := DistanceKm(0, 0, 0, 180)
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidLatitude(-90))
	assert.True(t, ValidLatitude(90))
	assert.False(t, ValidLatitude(90.0001))
	assert.False(t, ValidLatitude(math.NaN()))
	assert.True(t, ValidLongitude(-180))
	assert.False(t, ValidLongitude(180.5))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.1, RoundTo(1.1499, 1))
	assert.Equal(t, 1.3, RoundTo(1.25, 1))
	assert.Equal(t, 0.0, RoundTo(0.04, 1))
}
