package ledger

import (
	"crypto/md5"
	"fmt"
	"sync"

	"job-ledger-go/internal/models"
)

// Deduplicator remembers key values it has seen for one field
type Deduplicator struct {
	keyField string
	seen     map[string]bool
	mu       sync.RWMutex
}

// NewDeduplicator creates a deduplicator keyed on keyField
func NewDeduplicator(keyField string) *Deduplicator {
	return &Deduplicator{
		keyField: keyField,
		seen:     make(map[string]bool),
	}
}

// Deduplicate returns records with every repeat of a key value removed. The
// first record for each value is kept, survivors keep their relative order,
// and records without the key (absent or null) are always kept.
func Deduplicate(records models.RecordSet, keyField string) models.RecordSet {
	return NewDeduplicator(keyField).RemoveDuplicates(records)
}

// RemoveDuplicates drops records whose key was already seen, in this call or
// an earlier one, and marks the remaining keys as seen.
func (d *Deduplicator) RemoveDuplicates(records models.RecordSet) models.RecordSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	unique := make(models.RecordSet, 0, len(records))

	for _, record := range records {
		hash, ok := d.keyHash(record)
		if !ok {
			unique = append(unique, record)
			continue
		}

		if !d.seen[hash] {
			d.seen[hash] = true
			unique = append(unique, record)
		}
	}

	return unique
}

// Observe marks the record's key as seen without filtering anything
func (d *Deduplicator) Observe(records ...models.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, record := range records {
		if hash, ok := d.keyHash(record); ok {
			d.seen[hash] = true
		}
	}
}

// IsDuplicate checks if the record's key was seen without adding it
func (d *Deduplicator) IsDuplicate(record models.Record) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	hash, ok := d.keyHash(record)
	return ok && d.seen[hash]
}

// Reset clears all seen keys
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen = make(map[string]bool)
}

// SeenCount returns the number of distinct keys seen
func (d *Deduplicator) SeenCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.seen)
}

// keyHash hashes the canonical JSON form of the key value
func (d *Deduplicator) keyHash(record models.Record) (string, bool) {
	text, ok := record.KeyText(d.keyField)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%x", md5.Sum([]byte(text))), true
}
