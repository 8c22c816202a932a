package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliyabuddy/aliyabuddy/internal/catalog"
	"github.com/aliyabuddy/aliyabuddy/internal/chat"
	"github.com/aliyabuddy/aliyabuddy/internal/offer"
	"github.com/aliyabuddy/aliyabuddy/internal/relay"
	"github.com/aliyabuddy/aliyabuddy/internal/shaper"
)

type stubRelay struct {
	configured bool
	reply      string
	err        error
	calls      atomic.Int32
}

func (s *stubRelay) Configured() bool { return s.configured }

func (s *stubRelay) Complete(ctx context.Context, message string) (string, error) {
	s.calls.Add(1)
	return s.reply, s.err
}

func newTestServer(r relay.Relay) *httptest.Server {
	c := catalog.Default()
	p := chat.NewPipeline(c, r, shaper.New(c, func(int) int { return 0 }), offer.NewMemoryStore(time.Hour), "OPENAI_API_KEY", zap.NewNop())
	srv := New(p, Info{Version: "v23", Provider: "openai", HasKey: r.Configured()}, zap.NewNop())
	return httptest.NewServer(srv.Routes())
}

func postChat(t *testing.T, url, body string, header http.Header) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/chat", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func assertCORS(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type, Authorization")
}

func TestChat_RelayedReply(t *testing.T) {
	r := &stubRelay{configured: true, reply: "Haifa is generally cheaper than Tel Aviv."}
	ts := newTestServer(r)
	defer ts.Close()

	resp, out := postChat(t, ts.URL, `{"message":"What is the cost of living in Haifa?","session_id":"abc"}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assertCORS(t, resp)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "abc", resp.Header.Get(SessionHeader))
	assert.Equal(t, "abc", out["session_id"])
	assert.Equal(t,
		"Haifa is generally cheaper than Tel Aviv. For up-to-date data, check [Numbeo’s cost of living index](https://www.numbeo.com/cost-of-living/). Would you like me to compare costs between cities like Tel Aviv, Jerusalem, and Haifa?",
		out["reply"])
}

func TestChat_ConfirmationViaHeaderSession(t *testing.T) {
	r := &stubRelay{configured: true, reply: "Prices vary."}
	ts := newTestServer(r)
	defer ts.Close()

	h := http.Header{SessionHeader: []string{"conv-1"}}
	_, _ = postChat(t, ts.URL, `{"message":"cost of an apartment"}`, h)
	_, out := postChat(t, ts.URL, `{"message":"yes"}`, h)

	assert.Equal(t, catalog.Default().Elaborations[1].Reply, out["reply"])
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestChat_GuardrailRedirect(t *testing.T) {
	r := &stubRelay{configured: true}
	ts := newTestServer(r)
	defer ts.Close()

	resp, out := postChat(t, ts.URL, `{"message":"Should I invest in an IRA before moving?"}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, catalog.Default().Redirect(), out["reply"])
	assert.Zero(t, r.calls.Load())

	_, err := uuid.Parse(out["session_id"].(string))
	assert.NoError(t, err, "a session id is minted when none is sent")
}

func TestChat_MissingCredential(t *testing.T) {
	r := &stubRelay{configured: false}
	ts := newTestServer(r)
	defer ts.Close()

	resp, out := postChat(t, ts.URL, `{"message":"Tell me about Haifa"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assertCORS(t, resp)
	assert.Equal(t, map[string]any{"error": "Missing OPENAI_API_KEY"}, out)
	assert.Zero(t, r.calls.Load())
}

func TestChat_UpstreamStatusPassesThrough(t *testing.T) {
	body := `{"error":{"message":"Incorrect API key provided"}}`
	r := &stubRelay{configured: true, err: &relay.UpstreamError{StatusCode: http.StatusUnauthorized, Body: body}}
	ts := newTestServer(r)
	defer ts.Close()

	resp, out := postChat(t, ts.URL, `{"message":"Tell me about Haifa"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, body, out["error"])
}

func TestChat_TransportFailure(t *testing.T) {
	r := &stubRelay{configured: true, err: errors.New("openai: context deadline exceeded")}
	ts := newTestServer(r)
	defer ts.Close()

	resp, out := postChat(t, ts.URL, `{"message":"Tell me about Haifa"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "openai: context deadline exceeded", out["error"])
}

func TestChat_MalformedBodyIsEmptyMessage(t *testing.T) {
	r := &stubRelay{configured: true, reply: "How can I help?"}
	ts := newTestServer(r)
	defer ts.Close()

	resp, out := postChat(t, ts.URL, `not json`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "How can I help?", out["reply"])
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&stubRelay{configured: true})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assertCORS(t, resp)
	assert.Equal(t, "v23", out["version"])
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, true, out["hasKey"])
	assert.Equal(t, "openai", out["provider"])
	assert.NotEmpty(t, out["go"])
}

func TestOptionsPreflight(t *testing.T) {
	ts := newTestServer(&stubRelay{})
	defer ts.Close()

	for _, path := range []string{"/chat", "/health", "/anything"} {
		req, _ := http.NewRequest(http.MethodOptions, ts.URL+path, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Empty(t, body, path)
		assertCORS(t, resp)
	}
}

func TestFallbackIsMethodNotAllowed(t *testing.T) {
	ts := newTestServer(&stubRelay{})
	defer ts.Close()

	cases := []struct{ method, path string }{
		{http.MethodGet, "/chat"},
		{http.MethodPost, "/health"},
		{http.MethodGet, "/"},
		{http.MethodDelete, "/chat"},
		{http.MethodPut, "/nowhere"},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest(tc.method, ts.URL+tc.path, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, tc.method+" "+tc.path)
		assert.Equal(t, "Method not allowed", out["error"])
		assertCORS(t, resp)
	}
}
