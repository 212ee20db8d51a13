package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusSeverityOrdering(t *testing.T) {
	assert.Greater(t, StatusCritical.Severity(), StatusHigh.Severity())
	assert.Greater(t, StatusHigh.Severity(), StatusModerate.Severity())
	assert.Greater(t, StatusModerate.Severity(), StatusLow.Severity())
	assert.Equal(t, -1, Status("Bogus").Severity())
}

func TestStatusAtLeast(t *testing.T) {
	assert.True(t, StatusCritical.AtLeast(StatusHigh))
	assert.True(t, StatusHigh.AtLeast(StatusHigh))
	assert.False(t, StatusModerate.AtLeast(StatusHigh))
}

func TestAllStatusesMostSevereFirst(t *testing.T) {
	require.Len(t, AllStatuses, 4)
	for i := 1; i < len(AllStatuses); i++ {
		assert.Greater(t, AllStatuses[i-1].Severity(), AllStatuses[i].Severity())
	}
}

func TestDerivedDegradation(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		current  float64
		want     float64
	}{
		{"half lost", 200, 100, 50},
		{"nothing lost", 150, 150, 0},
		{"grown past baseline", 100, 120, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LakeRecord{Name: "x", AreaBaseline: tt.baseline, AreaCurrent: tt.current}
			got, err := l.DerivedDegradation()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestDerivedDegradationZeroBaseline(t *testing.T) {
	l := LakeRecord{Name: "dry", AreaBaseline: 0, AreaCurrent: 10}
	_, err := l.DerivedDegradation()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dry")
}

func TestAreaLost(t *testing.T) {
	assert.InDelta(t, 40.0, LakeRecord{AreaBaseline: 100, AreaCurrent: 60}.AreaLost(), 0.0001)
	assert.InDelta(t, -15.0, LakeRecord{AreaBaseline: 50, AreaCurrent: 65}.AreaLost(), 0.0001)
}

func TestHasCoordinates(t *testing.T) {
	assert.True(t, LakeRecord{Lat: 13.0, Lon: 80.2}.HasCoordinates())
	assert.False(t, LakeRecord{}.HasCoordinates())
}
