package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Info("export.complete", map[string]any{"profile_id": "p-1", "bytes": 42})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload), buf.String())
	for _, key := range []string{"ts", "level", "msg", "profile_id", "bytes"} {
		assert.Contains(t, payload, key)
	}
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "export.complete", payload["msg"])
}

func TestSetLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel("info")
	})

	Debug("hidden", nil)
	Info("hidden", nil)
	Error("shown", nil)

	out := strings.TrimSpace(buf.String())
	assert.Zero(t, strings.Count(out, "\n"), "only the error line, got %q", out)
	assert.Contains(t, out, `"msg":"shown"`)
}
