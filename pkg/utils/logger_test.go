package utils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logRecord struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
	Error string `json:"error"`
	CID   string `json:"cid"`
}

func TestLogger_JSONModeWritesJSONWithCID(t *testing.T) {
	orig, _ := os.Getwd()
	dir := t.TempDir()
	defer os.Chdir(orig)
	_ = os.Chdir(dir)

	t.Setenv("OUTREACH_JSON_LOGS", "1")
	t.Setenv("OUTREACH_CORRELATION_ID", "abc123")

	l := GetLogger()
	l.SetJSONMode(true)
	l.WithCorrelationID("abc123").Log("hello world")
	_ = l.Close()

	// Read the last JSON object from the log file; lumberjack writes raw JSON lines
	f, err := os.Open(filepath.Join(".outreach", "outreach.log"))
	require.NoError(t, err)
	defer f.Close()
	var lastLine string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lastLine = scanner.Text()
	}
	require.NoError(t, scanner.Err())

	var rec logRecord
	require.NoError(t, json.Unmarshal([]byte(lastLine), &rec), "content=%q", lastLine)
	assert.Equal(t, "info", rec.Level)
	assert.Equal(t, "hello world", rec.Msg)
	assert.Equal(t, "abc123", rec.CID)
}

func TestLogger_PlainModePrefixesCorrelationID(t *testing.T) {
	t.Setenv("OUTREACH_JSON_LOGS", "")
	var buf bytes.Buffer
	l := NewLogger(&buf).WithCorrelationID("msg-1")

	l.Logf("attempt %d", 2)
	l.Warnf("slow scorer")

	out := buf.String()
	assert.Contains(t, out, "[msg-1] attempt 2")
	assert.Contains(t, out, "[msg-1] Warning: slow scorer")
}

func TestLogger_LogErrorFormatsStructuredErrors(t *testing.T) {
	t.Setenv("OUTREACH_JSON_LOGS", "1")
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.LogError(NewValidationError("messageId", "missing step suffix"))
	l.LogError(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec logRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "error", rec.Level)
	assert.Contains(t, rec.Error, "VAL_ERROR")
	assert.Contains(t, rec.Error, "messageId")
}

func TestDiscardLogger(t *testing.T) {
	l := DiscardLogger()
	l.Log("nothing")
	l.LogError(errors.New("boom"))
	assert.NoError(t, l.Close())
}
