package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/njchilds90/gometric/internal/tools"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dispatcher := tools.NewDispatcher(zap.NewNop(), tools.Defaults{MaxOrder: 2})
	srv := httptest.NewServer(newRouter(zap.NewNop(), dispatcher))
	t.Cleanup(srv.Close)
	return srv
}

func postTool(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTool_Metric(t *testing.T) {
	srv := newTestServer(t)
	resp := postTool(t, srv, `{"tool":"metric","params":{"name":"flrw"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	var out struct {
		Result tools.MetricSummary `json:"result"`
		Error  string              `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Empty(t, out.Error)
	assert.Equal(t, "cartesian", out.Result.Chart)
	assert.Equal(t, []string{"a(t)"}, out.Result.Components)
}

func TestTool_ToolErrorIsOK(t *testing.T) {
	srv := newTestServer(t)
	resp := postTool(t, srv, `{"tool":"metric","params":{"name":"kerr"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out tools.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Error, "unknown metric")
}

func TestTool_BadRequests(t *testing.T) {
	srv := newTestServer(t)
	for name, body := range map[string]string{
		"malformed": `{"tool":`,
		"unknown":   `{"tool":"simplify","extra":1}`,
		"trailing":  `{"tool":"list_metrics"} {"tool":"list_metrics"}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := postTool(t, srv, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestTool_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/tool")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))

	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
}

func TestSchemaAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	postTool(t, srv, `{"tool":"list_metrics"}`)

	resp, err := http.Get(srv.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	var schema map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&schema))
	assert.Len(t, schema["tools"], len(tools.Names()))

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	body, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gometric_tool_calls_total{outcome="ok",tool="list_metrics"}`)
}

func TestLoadConfig_PortFlag(t *testing.T) {
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig("", 0)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	cfg, err = loadConfig("", 9090)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)

	for _, port := range []int{70000, -1} {
		_, err = loadConfig("", port)
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs, "port %d", port)
	}
}
