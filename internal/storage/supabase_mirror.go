package storage

import (
	"fmt"
	"os"

	supabase "github.com/nedpals/supabase-go"

	"job-ledger-go/internal/models"
)

// SupabaseMirror copies records into Supabase tables using the
// nedpals/supabase-go SDK.
type SupabaseMirror struct {
	client *supabase.Client
}

// NewSupabaseMirror creates a SupabaseMirror. It reads SUPABASE_URL and
// SUPABASE_KEY from the environment if empty values are provided.
func NewSupabaseMirror(supabaseURL, supabaseKey string) (*SupabaseMirror, error) {
	if supabaseURL == "" {
		supabaseURL = os.Getenv("SUPABASE_URL")
	}
	if supabaseKey == "" {
		supabaseKey = os.Getenv("SUPABASE_KEY")
	}
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided via config or SUPABASE_URL / SUPABASE_KEY env vars")
	}

	client := supabase.CreateClient(supabaseURL, supabaseKey)
	return &SupabaseMirror{client: client}, nil
}

func (m *SupabaseMirror) InsertRecord(table string, record models.Record) error {
	var results []models.Record
	if err := m.client.DB.From(table).Insert(record).Execute(&results); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// InsertRecords inserts the whole set in one request
func (m *SupabaseMirror) InsertRecords(table string, records models.RecordSet) error {
	if len(records) == 0 {
		return nil
	}

	var results []models.Record
	if err := m.client.DB.From(table).Insert(records).Execute(&results); err != nil {
		return fmt.Errorf("failed to batch insert %d records into %s: %w", len(records), table, err)
	}
	return nil
}

func (m *SupabaseMirror) GetRecords(table string) (models.RecordSet, error) {
	var res models.RecordSet
	if err := m.client.DB.From(table).Select("*").Execute(&res); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return res, nil
}
