package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

// ErrInvalidScore is returned for an assessment score that JSON cannot hold
var ErrInvalidScore = errors.New("score must be a finite number")

// IngestOutcome says what Ingest did with a record
type IngestOutcome int

const (
	Inserted IngestOutcome = iota
	AlreadyApplied
	AlreadyStored
)

func (o IngestOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyApplied:
		return "already applied"
	case AlreadyStored:
		return "already stored"
	default:
		return fmt.Sprintf("IngestOutcome(%d)", int(o))
	}
}

// Assessment is the score and reasoning stamped on an ingested record
type Assessment struct {
	Score     float64
	Reasoning string
}

// Ingester adds records to a job store unless they were applied to or are
// already stored
type Ingester struct {
	jobs        storage.Store
	appliedPath string
	newID       func() string
}

// NewIngester creates an Ingester. appliedPath may be empty to skip the
// applied-ledger check.
func NewIngester(jobs storage.Store, appliedPath string) *Ingester {
	return &Ingester{
		jobs:        jobs,
		appliedPath: appliedPath,
		newID:       uuid.NewString,
	}
}

// Ingest appends record to the store. A record whose id is in the applied
// ledger, or whose id or url matches a stored record, is left out. Ids match
// by models.CanonicalKey, so "7" and 7 are different ids. Records
// without an id get a fresh UUID. The stored record is returned on insert.
func (in *Ingester) Ingest(record models.Record, assessment *Assessment) (IngestOutcome, models.Record, error) {
	if assessment != nil && (math.IsNaN(assessment.Score) || math.IsInf(assessment.Score, 0)) {
		return 0, nil, fmt.Errorf("%w: got %v", ErrInvalidScore, assessment.Score)
	}

	if id, ok := record.KeyText(models.FieldID); ok && in.appliedPath != "" {
		applied, err := storage.LoadIDs(in.appliedPath)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to load applied ledger: %w", err)
		}
		if _, ok := applied[id]; ok {
			return AlreadyApplied, nil, nil
		}
	}

	existing, _, err := in.jobs.Load()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	byID := NewDeduplicator(models.FieldID)
	byURL := NewDeduplicator(models.FieldURL)
	byID.Observe(existing...)
	byURL.Observe(existing...)

	if byID.IsDuplicate(record) || byURL.IsDuplicate(record) {
		return AlreadyStored, nil, nil
	}

	stored := record.Clone()
	if assessment != nil {
		stored[models.FieldScore] = json.Number(strconv.FormatFloat(assessment.Score, 'f', -1, 64))
		stored[models.FieldReasoning] = assessment.Reasoning
	}
	if !stored.Has(models.FieldID) {
		stored[models.FieldID] = in.newID()
	}

	if err := in.jobs.Save(append(existing, stored)); err != nil {
		return 0, nil, err
	}

	return Inserted, stored, nil
}
