package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "production", "warn", "")
	l.Info("dropped")
	l.WithField("job_id", "j1").Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "j1", line["job_id"])
}

func TestNew_TextAndLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "development", "chatty", "")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	_, ok := l.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
}
