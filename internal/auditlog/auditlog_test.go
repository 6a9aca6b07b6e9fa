package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(op, entity, id string) Entry {
	return Entry{
		Timestamp: time.Date(2025, time.April, 10, 14, 30, 0, 0, time.UTC),
		Operation: op,
		Entity:    entity,
		EntityID:  id,
		Details:   "valor R$ 150.00",
	}
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	err := Append(dir, []Entry{
		testEntry("create", "transaction", "txn-1"),
		testEntry("cancel", "transaction", "txn-1"),
	})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "create", entries[0].Operation)
	assert.Equal(t, "cancel", entries[1].Operation)
	assert.Equal(t, "txn-1", entries[0].EntityID)
	assert.True(t, entries[0].Timestamp.Equal(time.Date(2025, time.April, 10, 14, 30, 0, 0, time.UTC)))
}

func TestAppend_CreatesLogsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry("create", "account", "acc-1")}))

	_, err := os.Stat(filepath.Join(dir, "logs", "audit-log.csv"))
	assert.NoError(t, err)
}

func TestAppend_HeaderWrittenOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry("create", "card", "card-1")}))
	require.NoError(t, Append(dir, []Entry{testEntry("update", "card", "card-1")}))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "audit-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "audit-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"only", "three", "fields"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 5 fields")
}

func TestUnmarshalEntry_BadTimestamp(t *testing.T) {
	_, err := UnmarshalEntry([]string{"yesterday", "create", "account", "acc-1", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp")
}

func TestMarshalRoundTrip(t *testing.T) {
	e := testEntry("import", "transaction", "txn-9")
	got, err := UnmarshalEntry(MarshalEntry(e))
	require.NoError(t, err)
	assert.Equal(t, e.Operation, got.Operation)
	assert.Equal(t, e.Details, got.Details)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
}

func TestEntriesWithCommasInDetails(t *testing.T) {
	dir := t.TempDir()
	e := testEntry("update", "account", "acc-1")
	e.Details = "saldo 1.000,00, ajuste manual"
	require.NoError(t, Append(dir, []Entry{e}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "saldo 1.000,00, ajuste manual", entries[0].Details)
}
