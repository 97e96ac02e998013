package audit_test

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versync-project/versync/internal/audit"
)

func appenderIn(t *testing.T) *audit.FileAppender {
	t.Helper()
	return audit.NewFileAppender(filepath.Join(t.TempDir(), "audit", "audit.jsonl"))
}

func TestAppend_CreatesLog(t *testing.T) {
	a := appenderIn(t)
	err := a.Append("E_PARSE_ERROR", "missing colon", map[string]any{"header": "add feature"}, "abc123", nil)
	require.NoError(t, err)

	records, err := a.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "E_PARSE_ERROR", records[0].Code)
	assert.Equal(t, "missing colon", records[0].Message)
	assert.Equal(t, "abc123", records[0].CommitSHA)
	assert.False(t, records[0].Timestamp.IsZero())
	assert.NotEmpty(t, records[0].RecordHash)
	assert.Empty(t, records[0].PrevHash)
}

func TestAppend_AppendOnly(t *testing.T) {
	a := appenderIn(t)
	require.NoError(t, a.Append("E_EMPTY_COMMIT", "empty", nil, "", nil))
	first, err := os.ReadFile(a.Path())
	require.NoError(t, err)

	require.NoError(t, a.Append("E_FILE_WRITE", "disk full", nil, "", []string{"write: disk full"}))
	both, err := os.ReadFile(a.Path())
	require.NoError(t, err)

	// The first line is never rewritten.
	assert.Equal(t, string(first), string(both[:len(first)]))

	f, err := os.Open(a.Path())
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, 2, lines)
}

func TestAppend_HashChain(t *testing.T) {
	a := appenderIn(t)
	require.NoError(t, a.Append("E_PARSE_ERROR", "one", nil, "", nil))
	require.NoError(t, a.Append("E_PARSE_ERROR", "two", nil, "", nil))
	require.NoError(t, a.Append("E_PARSE_ERROR", "three", nil, "", nil))

	records, err := a.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, records[0].RecordHash, records[1].PrevHash)
	assert.Equal(t, records[1].RecordHash, records[2].PrevHash)

	require.NoError(t, a.VerifyChain())
}

func TestVerifyChain_DetectsTampering(t *testing.T) {
	a := appenderIn(t)
	require.NoError(t, a.Append("E_PARSE_ERROR", "original message", nil, "", nil))
	require.NoError(t, a.Append("E_PARSE_ERROR", "second", nil, "", nil))

	data, err := os.ReadFile(a.Path())
	require.NoError(t, err)
	tampered := strings.Replace(string(data), "original message", "rewritten message", 1)
	require.NoError(t, os.WriteFile(a.Path(), []byte(tampered), 0644))

	assert.Error(t, a.VerifyChain())
}

func TestReadAll_MissingFile(t *testing.T) {
	a := appenderIn(t)
	records, err := a.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}
