// Package result holds the canonical, store-agnostic search result.
package result

import "math"

// NotAvailable is the sentinel value for projected fields absent from a
// resolved document. Every projected key is always present in Fields.
const NotAvailable = "Not available"

// ScoredResult is a single normalized search result.
type ScoredResult struct {
	id     string
	score  float64
	fields map[string]string
}

// New creates a scored result.
func New(id string, score float64, fields map[string]string) ScoredResult {
	return ScoredResult{id: id, score: score, fields: fields}
}

// ID returns the document identifier.
func (r *ScoredResult) ID() string { return r.id }

// Score returns the similarity score in [0,1], higher is more similar.
func (r *ScoredResult) Score() float64 { return r.score }

// Fields returns the projected field map. Keys follow the requested
// projection; missing values carry the NotAvailable sentinel.
func (r *ScoredResult) Fields() map[string]string { return r.fields }

// Normalize converts a raw distance and resolved field map into a canonical
// result. The score is 1 - distance clamped to [0,1] and rounded to two
// decimals. resolved may be nil; projection keys missing from it are filled
// with NotAvailable.
func Normalize(id string, distance float64, resolved map[string]string, projection []string) ScoredResult {
	fields := make(map[string]string, len(projection))
	for _, name := range projection {
		if v, ok := resolved[name]; ok && v != "" {
			fields[name] = v
		} else {
			fields[name] = NotAvailable
		}
	}
	return New(id, Score(distance), fields)
}

// Score maps a raw distance to a similarity score: 1 - d, clamped to [0,1],
// rounded to two decimals.
func Score(distance float64) float64 {
	s := 1 - distance
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	return math.Round(s*100) / 100
}
