package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitCodeMap(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"Single", []float64{5, 5}, []float64{0}},
		{"Two", []float64{3, 1}, []float64{-127, 127}},
		{"Three", []float64{3, 1, 2, 2}, []float64{-127, 0, 127}},
		{"Four", []float64{10, 20, 30, 40}, []float64{-127, -42, 42, 127}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FitCodeMap(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Codes)
			assert.Len(t, m.Values, len(tt.want))
		})
	}

	_, err := FitCodeMap(nil)
	assert.ErrorIs(t, err, ErrEmptyColumn)
}

func TestCodeMap_Apply(t *testing.T) {
	m, err := FitCodeMap([]float64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, -127.0, m.Apply(1))
	assert.Equal(t, 0.0, m.Apply(2))
	assert.Equal(t, 127.0, m.Apply(3))

	// Unseen values map to the nearest trained value.
	assert.Equal(t, 127.0, m.Apply(99))
	assert.Equal(t, -127.0, m.Apply(-5))
	assert.Equal(t, 0.0, m.Apply(1.6))
	assert.Equal(t, -127.0, m.Apply(1.5), "ties go to the lower neighbour")
}

func TestCodeMap_OrderPreserving(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	m, err := FitCodeMap(values)
	require.NoError(t, err)

	for i := 1; i < len(m.Codes); i++ {
		assert.Greater(t, m.Codes[i], m.Codes[i-1])
	}
	assert.Equal(t, -127.0, m.Codes[0])
	assert.Equal(t, 127.0, m.Codes[len(m.Codes)-1])
}
