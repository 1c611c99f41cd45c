package ledger

import (
	"strings"

	"job-ledger-go/internal/models"
)

// WeightedField is a record field and its share of the similarity score
type WeightedField struct {
	Name   string
	Weight float64
}

// DefaultSimilarityFields weights title, company and location
var DefaultSimilarityFields = []WeightedField{
	{Name: models.FieldTitle, Weight: 0.5},
	{Name: models.FieldCompany, Weight: 0.3},
	{Name: models.FieldLocation, Weight: 0.2},
}

// Similarity represents similarity between two records
type Similarity struct {
	First      models.Record
	Second     models.Record
	Similarity float64
}

// FindSimilar finds record pairs that are similar but not identical on the
// weighted fields: threshold <= similarity < 1.
func FindSimilar(records models.RecordSet, fields []WeightedField, threshold float64) []Similarity {
	if len(fields) == 0 {
		fields = DefaultSimilarityFields
	}

	var similarities []Similarity

	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			similarity := recordSimilarity(records[i], records[j], fields)

			if similarity >= threshold && similarity < 1.0 {
				similarities = append(similarities, Similarity{
					First:      records[i],
					Second:     records[j],
					Similarity: similarity,
				})
			}
		}
	}

	return similarities
}

// recordSimilarity is the weighted average of per-field similarity (0.0 to 1.0)
func recordSimilarity(a, b models.Record, fields []WeightedField) float64 {
	var total, weights float64
	for _, f := range fields {
		total += stringSimilarity(a.String(f.Name), b.String(f.Name)) * f.Weight
		weights += f.Weight
	}
	if weights == 0 {
		return 0
	}
	return total / weights
}

// stringSimilarity is the Jaccard similarity of the lowercased word sets
func stringSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if s1 == "" || s2 == "" {
		return 0.0
	}

	words1 := strings.Fields(strings.ToLower(s1))
	words2 := strings.Fields(strings.ToLower(s2))

	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	set1 := make(map[string]bool)
	for _, word := range words1 {
		set1[word] = true
	}

	set2 := make(map[string]bool)
	for _, word := range words2 {
		set2[word] = true
	}

	intersection := 0
	union := len(set1)

	for word := range set2 {
		if set1[word] {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}
