package discount

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		mrp, sp  float64
		expected float64
	}{
		{"twenty percent", 100, 80, 20},
		{"repeating fraction", 3, 2, 33.33},
		{"two thirds", 3, 1, 66.67},
		{"half up at the third place", 200, 199.99, 0.01},
		{"exact half", 8, 7, 12.5},
		{"no markdown", 100, 100, 0},
		{"selling above mrp", 100, 120, 0},
		{"zero mrp", 0, 0, 0},
		{"negative mrp", -10, 5, 0},
		{"free item", 50, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percent(tt.mrp, tt.sp))
		})
	}
}

func TestCompute(t *testing.T) {
	label := func(s string) *string { return &s }

	tests := []struct {
		name          string
		mrp, sp       float64
		rawDiscount   any
		rawLabel      any
		expected      float64
		expectedLabel *string
	}{
		{"computed without inputs", 100, 80, nil, nil, 20, nil},
		{"label passes through", 100, 80, nil, "Festive", 20, label("Festive")},
		{"string discount becomes label", 100, 80, "20% OFF", nil, 20, label("20% OFF")},
		{"string discount wins over label", 100, 80, "Big Sale", "ignored", 20, label("Big Sale")},
		{"numeric discount is the value", 100, 80, float64(35), nil, 35, nil},
		{"numeric string is numeric", 100, 80, "15", "Deal", 15, label("Deal")},
		{"json number", 100, 90, json.Number("12.5"), nil, 12.5, nil},
		{"zero numeric discount kept", 100, 80, float64(0), nil, 0, nil},
		{"empty discount counts as absent", 100, 80, "", nil, 20, nil},
		{"empty label counts as absent", 100, 80, nil, "", 20, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.mrp, tt.sp, tt.rawDiscount, tt.rawLabel)
			assert.Equal(t, tt.expected, got.Discount)
			if tt.expectedLabel == nil {
				assert.Nil(t, got.Label)
				return
			}
			require.NotNil(t, got.Label)
			assert.Equal(t, *tt.expectedLabel, *got.Label)
		})
	}
}

func TestComputeProperties(t *testing.T) {
	pairs := [][2]float64{{100, 80}, {999.99, 499.5}, {10, 9.995}, {1, 0.333}, {7, 3}}

	for _, p := range pairs {
		calculated := Percent(p[0], p[1])

		plain := Compute(p[0], p[1], nil, nil)
		assert.Equal(t, calculated, plain.Discount)
		assert.Nil(t, plain.Label)

		labelled := Compute(p[0], p[1], "Clearance", nil)
		assert.Equal(t, calculated, labelled.Discount)
		require.NotNil(t, labelled.Label)
		assert.Equal(t, "Clearance", *labelled.Label)

		numeric := Compute(p[0], p[1], float64(42), "x")
		assert.Equal(t, float64(42), numeric.Discount)
	}
}
