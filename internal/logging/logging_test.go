package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", "json")
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("schema drift", "kind", "malformed_response")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "schema drift", rec["msg"])
	assert.Equal(t, "malformed_response", rec["kind"])
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc", 5))
	assert.Equal(t, "ab...", Preview("abcdef", 2))
}

func TestPreviewKeepsRunesWhole(t *testing.T) {
	// "é" is two bytes; a cut at byte 2 would land inside it
	got := Preview("aé€b", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	got = Preview("aé€b", 4)
	assert.Equal(t, "aé...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "...", Preview("€€", 1))
}
