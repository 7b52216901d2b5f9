package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance_SamePoint(t *testing.T) {
	d := CalculateHaversineDistance(-6.2088, 106.8456, -6.2088, 106.8456)
	assert.Equal(t, 0.0, d)
}

func TestCalculateHaversineDistance_KnownDistance(t *testing.T) {
	// One degree of latitude is roughly 111.2 km
	d := CalculateHaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 100)
}

func TestCalculateHaversineDistance_ShortRange(t *testing.T) {
	// ~0.001 degrees latitude apart, about 111 meters
	d := CalculateHaversineDistance(-6.2088, 106.8456, -6.2078, 106.8456)
	assert.InDelta(t, 111.2, d, 1)
}

func TestCalculateHaversineDistance_Symmetric(t *testing.T) {
	d1 := CalculateHaversineDistance(12.9716, 77.5946, 13.0827, 80.2707)
	d2 := CalculateHaversineDistance(13.0827, 80.2707, 12.9716, 77.5946)
	assert.InDelta(t, d1, d2, 0.0001)
}
