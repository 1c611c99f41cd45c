package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"job-ledger-go/internal/models"
)

const defaultFileMode fs.FileMode = 0o644

// FileStore is a Store backed by a JSON array file
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore for path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (models.RecordSet, bool, error) {
	return Load(s.Path)
}

func (s *FileStore) Save(records models.RecordSet) error {
	return Save(s.Path, records)
}

func (s *FileStore) Append(record models.Record) error {
	return AppendRecord(s.Path, record)
}

// Load reads the RecordSet stored at path. A missing file is not an error:
// it yields an empty set with found == false. Content that is not a JSON
// array of objects yields a *MalformedDataError.
func Load(path string) (models.RecordSet, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.RecordSet{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw, err := decodeArray(path, data)
	if err != nil {
		return nil, true, err
	}

	records := make(models.RecordSet, 0, len(raw))
	for i, elem := range raw {
		obj, ok := elem.(map[string]any)
		if !ok {
			return nil, true, &MalformedDataError{
				Path:  path,
				Index: i,
				Err:   fmt.Errorf("element is %s, want object", jsonKind(elem)),
			}
		}
		records = append(records, models.Record(obj))
	}

	return records, true, nil
}

// Save replaces the file at path with records as a 2-space indented JSON
// array. The new content is written to a temporary file in the same
// directory and renamed into place, so a failed save leaves the previous
// file intact.
func Save(path string, records models.RecordSet) error {
	if records == nil {
		records = models.RecordSet{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(records); err != nil {
		return &WriteFailureError{Path: path, Op: "encode records for", Err: err}
	}

	return writeFileAtomic(path, buf.Bytes())
}

// AppendRecord loads path, appends record and saves the result. A malformed
// existing file is returned as an error and left untouched.
func AppendRecord(path string, record models.Record) error {
	records, _, err := Load(path)
	if err != nil {
		return err
	}
	return Save(path, append(records, record))
}

// LoadIDs reads a JSON array of string or numeric ids, such as the applied
// ledger, keyed by models.CanonicalKey. A missing file yields an empty set.
func LoadIDs(path string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ids, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	raw, err := decodeArray(path, data)
	if err != nil {
		return nil, err
	}

	for i, elem := range raw {
		switch elem.(type) {
		case string, json.Number:
			key, _ := models.CanonicalKey(elem)
			ids[key] = struct{}{}
		default:
			return nil, &MalformedDataError{
				Path:  path,
				Index: i,
				Err:   fmt.Errorf("id is %s, want string or number", jsonKind(elem)),
			}
		}
	}

	return ids, nil
}

// decodeArray parses data as exactly one JSON array
func decodeArray(path string, data []byte) ([]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty file")
		}
		return nil, &MalformedDataError{Path: path, Index: -1, Err: err}
	}

	var trailing any
	if err := decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &MalformedDataError{Path: path, Index: -1, Err: err}
	}

	arr, ok := value.([]any)
	if !ok {
		return nil, &MalformedDataError{
			Path:  path,
			Index: -1,
			Err:   fmt.Errorf("top-level value is %s, want array", jsonKind(value)),
		}
	}
	return arr, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// writeFileAtomic writes data next to path and renames it over path.
// The mode of an existing file is kept.
func writeFileAtomic(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &WriteFailureError{Path: path, Op: "create temp file for", Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(op string, err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteFailureError{Path: path, Op: op, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteFailureError{Path: path, Op: "close", Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on rename failure
		os.Remove(tmpPath)
		return &WriteFailureError{Path: path, Op: "replace", Err: err}
	}

	return nil
}
