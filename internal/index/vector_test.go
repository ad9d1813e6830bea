package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		vector []float32
	}{
		{name: "empty", vector: []float32{}},
		{name: "single value", vector: []float32{0.5}},
		{name: "mixed signs", vector: []float32{1.0, -2.5, 0.0, 3.75}},
		{name: "small magnitudes", vector: []float32{1e-7, -1e-7, 1e-38}},
		{name: "large magnitudes", vector: []float32{1e7, -1e7, math.MaxFloat32}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blob := serializeVector(tc.vector)
			assert.Len(t, blob, len(tc.vector)*4)

			restored := deserializeVector(blob)
			assert.Equal(t, tc.vector, restored)
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	testCases := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 2},
			b:    []float32{-1, -2},
			want: -1.0,
		},
		{
			name: "zero vector scores zero",
			a:    []float32{0, 0, 0},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "length mismatch scores zero",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2},
			want: 0.0,
		},
		{
			name: "known angle",
			a:    []float32{1, 1},
			b:    []float32{1, 0},
			want: 1 / math.Sqrt2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			assert.InDelta(t, tc.want, got, 1e-6)
		})
	}
}

func TestCosineSimilarityScaleInvariant(t *testing.T) {
	a := []float32{0.3, -0.8, 0.5}
	scaled := []float32{0.6, -1.6, 1.0}

	assert.InDelta(t, 1.0, CosineSimilarity(a, scaled), 1e-6)
}
