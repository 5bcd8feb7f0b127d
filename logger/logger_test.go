package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf).WithField("component", "scraper")

	log.Warn().Str("phase", "search").Msg("search control not found")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "scraper", line["component"])
	assert.Equal(t, "search", line["phase"])
	assert.Equal(t, "search control not found", line["message"])
}

func TestWithErrorAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf).WithFields(Fields{"run": 2}).WithError(errors.New("boom"))

	log.Error().Msg("failed")

	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"run":2`)
}

func TestNopDiscards(t *testing.T) {
	// must not panic
	Nop().Info().Msg("nothing")
}
