package geospatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	// Seoul City Hall to Busan City Hall, about 325 km.
	d := Haversine(37.5663, 126.9779, 35.1798, 129.0750)
	assert.InDelta(t, 325_000, d, 10_000)

	assert.Zero(t, Haversine(10, 20, 10, 20))
}

func TestPolylineLength(t *testing.T) {
	assert.Zero(t, PolylineLength(nil, nil))
	assert.Zero(t, PolylineLength([]float64{1}, []float64{1}))

	// One degree of latitude along a meridian, twice.
	got := PolylineLength([]float64{0, 1, 2}, []float64{0, 0, 0})
	assert.InDelta(t, 2*111_195, got, 10)
}
