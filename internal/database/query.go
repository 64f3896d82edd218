package database

import (
	"math"

	"github.com/pgvector/pgvector-go"
)

// MaxRows caps every structured search regardless of what the caller asks for.
const MaxRows = 100

// ClampLimit bounds a caller-supplied row limit to [1, MaxRows].
func ClampLimit(requested int) int {
	if requested > MaxRows {
		return MaxRows
	}
	if requested < 1 {
		return 1
	}
	return requested
}

// DistanceThreshold converts a similarity percentage (0-100) into the largest
// cosine distance a match may have.
func DistanceThreshold(similarityPercent float64) float64 {
	return 1.0 - similarityPercent/100.0
}

// SimilarityPercent converts a cosine distance into a percentage rounded to
// one decimal. Distances outside [0, 1] are clamped first.
func SimilarityPercent(distance float64) float64 {
	switch {
	case math.IsNaN(distance) || distance > 1:
		distance = 1
	case distance < 0:
		distance = 0
	}
	percent := math.Max(0, (1-distance)*100)
	return math.Round(percent*10) / 10
}

// VectorLiteral renders an embedding in pgvector text form for a $n::vector parameter.
func VectorLiteral(embedding []float32) string {
	return pgvector.NewVector(embedding).String()
}
