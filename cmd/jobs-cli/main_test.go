package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

type testEnv struct {
	dir        string
	configPath string
	jobsPath   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.json"),
		jobsPath:   filepath.Join(dir, "found_jobs.json"),
	}

	cfg := fmt.Sprintf(`{
  "storage": {
    "jobs_file": %q,
    "chat_file": %q,
    "applied_ledger_file": %q
  },
  "logging": {"level": "error", "file": %q}
}`, env.jobsPath, filepath.Join(dir, "hive_chat.json"), filepath.Join(dir, "applied_ledger.json"), filepath.Join(dir, "jobs-cli.log"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o644))
	return env
}

func (e *testEnv) writeJobs(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.jobsPath, []byte(content), 0o644))
}

func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := e.runApp(t, stdin, args...)
	return out, err
}

func (e *testEnv) runApp(t *testing.T, stdin string, args ...string) (string, *app, error) {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := execute(root, a)
	return out.String(), a, err
}

const sampleJobs = `[
  {"id": "up-1", "platform": "Upwork", "title": "Go API", "score": 85, "url": "https://example.com/a"},
  {"id": "fv-1", "platform": "Fiverr", "title": "Logo", "score": 90, "url": "https://example.com/b"},
  {"id": "up-2", "platform": "Upwork", "title": "Go API again", "score": 88, "url": "https://example.com/a"},
  {"id": "up-3", "platform": "Upwork", "title": "Low", "score": 50, "url": "https://example.com/c"},
  {"id": "up-4", "platform": "Upwork", "title": "No URL", "score": 95}
]`

func TestDedupeCommand(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	out, err := env.run(t, "", "dedupe")

	require.NoError(t, err)
	assert.Contains(t, out, "De-duplication complete.")
	assert.Contains(t, out, "Original: 5")
	assert.Contains(t, out, "Unique: 4")
	assert.Contains(t, out, "Removed: 1")

	records, _, err := storage.Load(env.jobsPath)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "up-1", records[0]["id"])
	assert.Equal(t, "up-4", records[3]["id"])
}

func TestDedupeCommand_DryRunAndKeyFlag(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	out, err := env.run(t, "", "dedupe", "--dry-run", "--key", "platform")

	require.NoError(t, err)
	assert.Contains(t, out, "Unique: 2")
	assert.Contains(t, out, "Removed: 3")

	data, err := os.ReadFile(env.jobsPath)
	require.NoError(t, err)
	assert.Equal(t, sampleJobs, string(data))
}

func TestDedupeCommand_MissingFile(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "dedupe")

	require.NoError(t, err)
	assert.Contains(t, out, "found_jobs.json not found.")
	_, statErr := os.Stat(env.jobsPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDedupeCommand_Malformed(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, "{not valid json")

	_, err := env.run(t, "", "dedupe")

	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrMalformedData))
	data, readErr := os.ReadFile(env.jobsPath)
	require.NoError(t, readErr)
	assert.Equal(t, "{not valid json", string(data))
}

func TestExecute_ClosesLogFileOnError(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, "{not valid json")

	_, a, err := env.runApp(t, "", "dedupe")
	require.Error(t, err)
	require.NotNil(t, a.logCloser)
	assert.ErrorIs(t, a.logCloser.Close(), os.ErrClosed, "log file already closed")

	env.writeJobs(t, sampleJobs)
	_, a, err = env.runApp(t, "", "dedupe")
	require.NoError(t, err)
	assert.ErrorIs(t, a.logCloser.Close(), os.ErrClosed)
}

func TestEliteCommand(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	out, err := env.run(t, "", "elite")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 elite Upwork jobs (score >= 80)")
	assert.Contains(t, out, "[up-1] Go API (score: 85)")
	assert.Contains(t, out, "https://example.com/a")
	assert.NotContains(t, out, "fv-1")
	assert.NotContains(t, out, "up-3")
}

func TestEliteCommand_JSONWithLimit(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	out, err := env.run(t, "", "elite", "--limit", "2", "--min-score", "86", "-o", "json")

	require.NoError(t, err)
	var jobs []models.Job
	require.NoError(t, json.Unmarshal([]byte(out), &jobs))
	require.Len(t, jobs, 2)
	assert.Equal(t, "up-2", jobs[0].ID)
	assert.Equal(t, "up-4", jobs[1].ID)
	require.NotNil(t, jobs[0].Score)
	assert.Equal(t, 88.0, *jobs[0].Score)
}

func TestShowCommand(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	out, err := env.run(t, "", "show", "fv-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Logo"`)

	_, err = env.run(t, "", "show", "li-0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead li-0000 not found")
}

func TestShowCommand_IDTypes(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, `[
  {"id": "7", "title": "string seven"},
  {"id": 7, "title": "numeric seven"}
]`)

	out, err := env.run(t, "", "show", "7")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "numeric seven"`)

	out, err = env.run(t, "", "show", `"7"`)
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "string seven"`)
}

func TestParseID(t *testing.T) {
	assert.Equal(t, json.Number("42"), parseID("42"))
	assert.Equal(t, "42", parseID(`"42"`))
	assert.Equal(t, "li-8290", parseID("li-8290"))
	assert.Equal(t, "true", parseID("true"))
	assert.Equal(t, "7 8", parseID("7 8"))
}

func TestInsertCommand(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "applied_ledger.json"), []byte(`["li-applied"]`), 0o644))

	out, err := env.run(t, "", "insert", "--score", "91", "--reasoning", "Go match",
		`{"id": "li-9", "title": "Go Dev", "url": "https://example.com/new"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Inserted job li-9")

	out, err = env.run(t, `{"id": "other", "url": "https://example.com/b"}`, "insert", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped: already stored")

	out, err = env.run(t, "", "insert", `{"id": "li-applied", "url": "https://example.com/z"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped: already applied")

	_, err = env.run(t, "", "insert", `[1, 2]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid record JSON")

	records, _, err := storage.Load(env.jobsPath)
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, json.Number("91"), records[5]["score"])
	assert.Equal(t, "Go match", records[5]["reasoning"])
}

func TestInsertCommand_RejectsNonFiniteScore(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	for _, score := range []string{"NaN", "Inf", "-Inf"} {
		_, err := env.run(t, "", "insert", "--score", score, `{"id": "li-9", "url": "https://example.com/new"}`)

		require.Error(t, err, score)
		assert.Contains(t, err.Error(), "must be a finite number")
		assert.False(t, errors.Is(err, storage.ErrWriteFailure))
	}

	data, err := os.ReadFile(env.jobsPath)
	require.NoError(t, err)
	assert.Equal(t, sampleJobs, string(data))
}

func TestSimilarCommand(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, `[
  {"title": "Senior Go Engineer", "company": "Acme", "location": "Remote"},
  {"title": "Go Engineer", "company": "Acme", "location": "Remote"}
]`)

	out, err := env.run(t, "", "similar", "--threshold", "0.8")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 similar pairs")
	assert.Contains(t, out, `"Senior Go Engineer" @ Acme`)
}

func TestSyncCommand_RequiresCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	_, err := env.run(t, "", "sync")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase URL is required")
}

// memMirror collects synced rows
type memMirror struct {
	rows models.RecordSet
}

func (m *memMirror) InsertRecord(table string, record models.Record) error {
	m.rows = append(m.rows, record)
	return nil
}

func (m *memMirror) InsertRecords(table string, records models.RecordSet) error {
	m.rows = append(m.rows, records...)
	return nil
}

func (m *memMirror) GetRecords(table string) (models.RecordSet, error) {
	return m.rows, nil
}

func TestRunSync(t *testing.T) {
	env := newTestEnv(t)
	env.writeJobs(t, sampleJobs)

	a := &app{configPath: env.configPath}
	require.NoError(t, a.setup())
	defer a.logCloser.Close()

	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	mirror := &memMirror{}

	require.NoError(t, runSync(context.Background(), cmd, a, mirror))

	assert.Len(t, mirror.rows, 4, "records are deduplicated before syncing")
	assert.Contains(t, out.String(), "Saved: 4")
}

func TestConfigCommand_MasksSecrets(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("SUPABASE_URL", "https://abcdefgh.supabase.co")
	t.Setenv("SUPABASE_KEY", "super-secret-service-key")

	out, err := env.run(t, "", "config", "-o", "json")

	require.NoError(t, err)
	assert.NotContains(t, out, "super-secret-service-key")
	assert.Contains(t, out, "supe***-key")
	assert.Contains(t, out, "http***e.co")
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "", maskString(""))
	assert.Equal(t, "***", maskString("short"))
	assert.Equal(t, "abcd***wxyz", maskString("abcdefghwxyz"))
}
