package storage

import "job-ledger-go/internal/models"

// Store holds one RecordSet. Every call reads or replaces the whole set.
type Store interface {
	Load() (records models.RecordSet, found bool, err error)
	Save(records models.RecordSet) error
	Append(record models.Record) error
}

// Mirror is a remote table that records can be copied into
type Mirror interface {
	InsertRecord(table string, record models.Record) error
	InsertRecords(table string, records models.RecordSet) error // Batch insert
	GetRecords(table string) (models.RecordSet, error)
}
