package models

import (
	"strconv"
	"testing"
)

func benchInput() map[string]any {
	collaborators := make([]any, 20)
	owners := make(map[string]any, 31)
	for i := range collaborators {
		collaborators[i] = map[string]any{"id": "c" + strconv.Itoa(i), "name": "Collaborator"}
	}
	for day := 1; day <= 31; day++ {
		owners[strconv.Itoa(day)] = "c" + strconv.Itoa(day%20)
	}
	return map[string]any{
		"collaborators": collaborators,
		"schedule":      map[string]any{"month": 10, "year": 2026, "dayOwnerIds": owners},
	}
}

func BenchmarkNormalize(b *testing.B) {
	input := benchInput()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Normalize(input)
	}
}

func BenchmarkClone(b *testing.B) {
	rec := Normalize(benchInput())
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rec.Clone()
	}
}
