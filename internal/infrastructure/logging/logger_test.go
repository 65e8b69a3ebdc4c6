package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/noar-utils/snapshooter/internal/application/ports"
)

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, ports.LogLevelWarn)

	logger.Log(ports.LogLevelInfo, "hidden", nil)
	logger.Log(ports.LogLevelDebug, "hidden", nil)
	assert.Empty(t, buf.String())

	logger.Log(ports.LogLevelWarn, "No preference store found", map[string]interface{}{"platform": "darwin", "namespace": "Noar/Game"})
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), Name+": No preference store found: namespace=Noar/Game platform=darwin")

	buf.Reset()
	logger.SetLogLevel(ports.LogLevelDebug)
	assert.Equal(t, ports.LogLevelDebug, logger.GetLogLevel())
	logger.Log(ports.LogLevelDebug, "Copying persistent data", nil)
	assert.Contains(t, buf.String(), "[DEBUG] "+Name+": Copying persistent data")
}

func TestLogger_ErrorsPassEveryThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, ports.LogLevelError)

	logger.LogError(errors.New("boom"), "Preferences were cleared and not restored", map[string]interface{}{"id": 7})
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "Preferences were cleared and not restored: error=boom id=7")
}

func TestWrap_UsesGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(hclog.New(&hclog.LoggerOptions{Name: "test", Level: hclog.Info, Output: &buf}))

	assert.Equal(t, ports.LogLevelInfo, logger.GetLogLevel())
	logger.Log(ports.LogLevelInfo, "Snapshot created", map[string]interface{}{"id": 1})
	assert.Contains(t, buf.String(), "test: Snapshot created: id=1")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, ports.LogLevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, ports.LogLevelWarn, ParseLevel("warning"))
	assert.Equal(t, ports.LogLevelError, ParseLevel(" error "))
	assert.Equal(t, ports.LogLevelInfo, ParseLevel("verbose"))
	assert.Equal(t, ports.LogLevelInfo, ParseLevel(""))
}
