package ledger

import (
	"iter"

	"job-ledger-go/internal/models"
)

// Predicate selects records
type Predicate func(models.Record) bool

// FilterBy lazily yields the records matching pred, in order. The sequence
// can be ranged over any number of times.
func FilterBy(records models.RecordSet, pred Predicate) iter.Seq[models.Record] {
	return func(yield func(models.Record) bool) {
		for _, record := range records {
			if pred(record) && !yield(record) {
				return
			}
		}
	}
}

// Limit yields at most n records from seq. n <= 0 means no limit.
func Limit(seq iter.Seq[models.Record], n int) iter.Seq[models.Record] {
	if n <= 0 {
		return seq
	}
	return func(yield func(models.Record) bool) {
		count := 0
		for record := range seq {
			if !yield(record) {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}

// EliteJobs matches records on platform with a numeric score of at least minScore
func EliteJobs(platform string, minScore float64) Predicate {
	return func(r models.Record) bool {
		if r.String(models.FieldPlatform) != platform {
			return false
		}
		score, ok := r.Float(models.FieldScore)
		return ok && score >= minScore
	}
}

// FindByID returns the first record whose id equals id. Ids compare by
// models.CanonicalKey, the same rule used for dedup and ingest.
func FindByID(records models.RecordSet, id any) (models.Record, bool) {
	want, ok := models.CanonicalKey(id)
	if !ok {
		return nil, false
	}
	for record := range FilterBy(records, func(r models.Record) bool {
		key, ok := r.KeyText(models.FieldID)
		return ok && key == want
	}) {
		return record, true
	}
	return nil, false
}
