package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/elo-advisor/internal/analysis"
	"github.com/yourusername/elo-advisor/internal/datasource"
	"github.com/yourusername/elo-advisor/internal/health"
	"github.com/yourusername/elo-advisor/internal/service"
)

const rankingPage = `<html><body>
<table id="reportable">
<thead><tr><th>Rank</th><th>Player</th><th>Age</th><th>Elo</th></tr></thead>
<tbody>
<tr><td>1</td><td>Jannik Sinner</td><td>23.1</td><td>2200.0</td></tr>
<tr><td>2</td><td>Carlos Alcaraz</td><td>21.4</td><td>2185.9</td></tr>
<tr><td>3</td><td></td><td>30.0</td><td>2100.0</td></tr>
<tr><td>9</td><td>Casper Ruud</td><td>25.9</td><td>2000.0</td></tr>
</tbody>
</table>
</body></html>`

const restructuredPage = `<html><body><div class="ratings"><p>Ratings moved.</p></div></body></html>`

type upstream struct {
	status int
	body   string
	hits   int32
}

func newTestAPI(t *testing.T, up *upstream) (http.Handler, *health.Handler) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&up.hits, 1)
		w.WriteHeader(up.status)
		_, _ = w.Write([]byte(up.body))
	}))
	t.Cleanup(srv.Close)

	log, _ := test.NewNullLogger()

	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.RateLimit = 0
	httpCfg.Timeout = 2 * time.Second
	client := datasource.NewRateLimitedHTTPClient(httpCfg, log)

	srcCfg := datasource.DefaultTennisAbstractConfig()
	srcCfg.URL = srv.URL
	source := datasource.NewTennisAbstractClient(client, srcCfg, log)

	ranking := service.NewRankingService(source, time.Hour, log)
	analyses := service.NewAnalysisService(ranking, analysis.NewAnalyzer(analysis.DefaultValueThreshold), log)
	probes := health.NewHandler(health.Config{ServiceName: "elo-advisor"})

	opts := Options{MetricsEnabled: true, MetricsPath: "/metrics"}
	return NewRouter(opts, NewHandler(ranking, analyses, log), probes, log), probes
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.NotEmpty(t, body.Details)
	return body
}

func TestRankingSuccess(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodGet, "/api/ranking", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-maxage=3600, stale-while-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
	assert.JSONEq(t, `3`, string(body["totalEntities"]))
	assert.JSONEq(t, `[
		{"rank":1,"name":"Jannik Sinner","rating":2200},
		{"rank":2,"name":"Carlos Alcaraz","rating":2185.9},
		{"rank":9,"name":"Casper Ruud","rating":2000}
	]`, string(body["ranking"]))

	// Served from cache the second time
	rec = do(t, h, http.MethodGet, "/api/ranking", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&up.hits))
}

func TestRankingUpstreamBlocked(t *testing.T) {
	up := &upstream{status: http.StatusForbidden, body: "Forbidden"}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodGet, "/api/ranking", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "Ranking service unavailable", body.Error)
	assert.Contains(t, body.Details, "403")
	assert.NotContains(t, rec.Body.String(), "totalEntities")
}

func TestRankingLayoutChanged(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: restructuredPage}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodGet, "/api/ranking", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "Failed to process the ranking table", body.Error)
	assert.Contains(t, body.Details, "table#reportable tbody tr")
}

func TestRankingFailureNotCached(t *testing.T) {
	up := &upstream{status: http.StatusBadGateway, body: "bad gateway"}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodGet, "/api/ranking", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	up.status, up.body = http.StatusOK, rankingPage
	rec = do(t, h, http.MethodGet, "/api/ranking", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&up.hits))
}

func TestRankingMethodNotAllowed(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			rec := do(t, h, method, "/api/ranking", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
			decodeError(t, rec)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&up.hits))
}

func TestRankingPreflightBypassesMethodCheck(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	req := httptest.NewRequest(http.MethodOptions, "/api/ranking", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Allow"))

	// A bare OPTIONS is not a preflight and hits the GET-only check.
	rec = do(t, h, http.MethodOptions, "/api/ranking", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))

	assert.Equal(t, int32(0), atomic.LoadInt32(&up.hits))
}

func TestAnalysisWithExplicitRatings(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodPost, "/api/analysis", []byte(`{
		"player1":"A","player2":"B","odds1":1.9,"odds2":"1,90","rating1":2000,"rating2":2000
	}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 50.0, result["prob1"])
	assert.Equal(t, "no_value", result["verdict"])
	assert.NotContains(t, result, "recommendedParticipant")
	assert.Equal(t, int32(0), atomic.LoadInt32(&up.hits))
}

func TestAnalysisResolvesRatingsFromRanking(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodPost, "/api/analysis", []byte(`{
		"player1":"jannik sinner","player2":"Casper Ruud","odds1":"1.80","odds2":"2.10"
	}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 75.97, result["prob1"].(float64), 0.01)
	assert.InDelta(t, 36.75, result["ev1"].(float64), 0.01)
	assert.Equal(t, "value_bet", result["verdict"])
	assert.Equal(t, "jannik sinner", result["recommendedParticipant"])
	assert.Equal(t, 2200.0, result["rating1"])
}

func TestAnalysisRejectsInvalidInput(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"duplicate players", `{"player1":"Sinner","player2":"sinner","odds1":1.8,"odds2":2.1,"rating1":2000,"rating2":2000}`, "player2"},
		{"non-numeric odds", `{"player1":"A","player2":"B","odds1":"abc","odds2":2.1,"rating1":2000,"rating2":2000}`, "odds1"},
		{"overflowing odds", `{"player1":"A","player2":"B","odds1":"1e400","odds2":1.9,"rating1":2000,"rating2":2000}`, "odds1"},
		{"missing odds", `{"player1":"A","player2":"B","odds1":1.8,"rating1":2000,"rating2":2000}`, "odds2"},
		{"unknown player", `{"player1":"Jannik Sinner","player2":"Nobody","odds1":1.8,"odds2":2.1}`, "rating2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/analysis", []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeError(t, rec)
			require.NotEmpty(t, body.Fields)
			assert.Equal(t, tt.field, body.Fields[0].Field)
		})
	}

	rec := do(t, h, http.MethodPost, "/api/analysis", []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decodeError(t, rec)
}

func TestAnalysisRankingUnavailable(t *testing.T) {
	up := &upstream{status: http.StatusForbidden, body: "Forbidden"}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodPost, "/api/analysis", []byte(`{"player1":"A","player2":"B","odds1":1.8,"odds2":2.1}`))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decodeError(t, rec)
}

func TestAnalysisMethodNotAllowed(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	rec := do(t, h, http.MethodGet, "/api/analysis", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestProbesAndMetrics(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, probes := newTestAPI(t, up)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/live", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/ready", nil).Code)

	probes.SetReady(true)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/ready", nil).Code)

	do(t, h, http.MethodGet, "/api/ranking", nil)
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "elo_advisor_http_requests_total"))
}

func TestRequestIDPropagated(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: rankingPage}
	h, _ := newTestAPI(t, up)

	id := "7b0c4b6e-3f6e-4d4b-9b5a-2f1f7f0f9a11"
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestCacheControl(t *testing.T) {
	assert.Equal(t, "s-maxage=3600, stale-while-revalidate", cacheControl(time.Hour))
	assert.Equal(t, "s-maxage=600, stale-while-revalidate", cacheControl(10*time.Minute))
}
