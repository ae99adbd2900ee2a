package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-backend/internal/shared/server/middleware"
	"profile-backend/internal/shared/telemetry"
)

// cancelingWriter cancels the request context once the first chunk has been
// written, as a client hanging up mid-download would.
type cancelingWriter struct {
	gin.ResponseWriter
	cancel context.CancelFunc
}

func (w *cancelingWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.cancel()
	return n, err
}

func cancelAfterFirstWrite(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	c.Request = c.Request.WithContext(ctx)
	c.Writer = &cancelingWriter{ResponseWriter: c.Writer, cancel: cancel}
	c.Next()
}

// brokenPipeWriter fails every body write without sending anything.
type brokenPipeWriter struct {
	gin.ResponseWriter
}

func (w *brokenPipeWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

func failFirstWrite(c *gin.Context) {
	c.Writer = &brokenPipeWriter{ResponseWriter: c.Writer}
	c.Next()
}

func newExportRouter(t *testing.T, wrap gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	profiles, exps, bins := adaFixtures(t)
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())
	if wrap != nil {
		r.Use(wrap)
	}
	NewHandler(NewPipeline(profiles, exps, bins, Config{})).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	t.Cleanup(func() { telemetry.SetOutput(nil) })
	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer, msg string) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line), sc.Text())
		if line["msg"] == msg {
			out = append(out, line)
		}
	}
	return out
}

func TestDownloadFailureAfterFirstByteAbortsHandler(t *testing.T) {
	r := newExportRouter(t, cancelAfterFirstWrite)
	logs := captureLogs(t)

	resp := httptest.NewRecorder()
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/profile/ada/pdf", nil))
	})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")))
	assert.NotContains(t, resp.Body.String(), "%%EOF")

	require.Len(t, logLines(t, logs, "export.stream_aborted"), 1)
	aborted := logLines(t, logs, "request.aborted")
	require.Len(t, aborted, 1)
	assert.Equal(t, true, aborted[0]["aborted"])
}

func TestDownloadFailureAfterFirstByteTruncatesResponse(t *testing.T) {
	srv := httptest.NewServer(newExportRouter(t, cancelAfterFirstWrite))
	defer srv.Close()
	captureLogs(t)

	resp, err := http.Get(srv.URL + "/api/v1/profile/ada/pdf")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.Error(t, err, "a chunked body cut short must not terminate cleanly")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestDownloadWriteFailureBeforeFirstByteDropsAttachmentHeaders(t *testing.T) {
	r := newExportRouter(t, failFirstWrite)
	logs := captureLogs(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/profile/ada/pdf", nil))

	assert.Equal(t, statusClientClosedRequest, resp.Code)
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
	assert.NotEqual(t, "application/pdf", resp.Header().Get("Content-Type"))
	assert.Zero(t, resp.Body.Len())

	require.Len(t, logLines(t, logs, "export.client_gone"), 1)
	done := logLines(t, logs, "request.complete")
	require.Len(t, done, 1)
	assert.EqualValues(t, statusClientClosedRequest, done[0]["status"])
}

func TestDownloadClientGoneBeforeFirstByteLogs499(t *testing.T) {
	r := newExportRouter(t, nil)
	logs := captureLogs(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile/ada/downloadPDF", nil).WithContext(ctx)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, statusClientClosedRequest, resp.Code)
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
	assert.Zero(t, resp.Body.Len())

	done := logLines(t, logs, "request.complete")
	require.Len(t, done, 1)
	assert.EqualValues(t, statusClientClosedRequest, done[0]["status"])
	assert.Contains(t, done[0]["export_error"], "stream aborted")
}

func TestDownloadNotFoundIsJSONWithoutAttachment(t *testing.T) {
	r := newExportRouter(t, nil)
	captureLogs(t)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/profile/missing/pdf", nil))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
	assert.Contains(t, resp.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"profile not found"}}`, resp.Body.String())
}
