package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uk-climate-etl/internal/pipeline"
)

func newTestServer(stats *pipeline.Stats) *Server {
	return NewServer(":0", stats, stats, slog.Default())
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	stats := pipeline.NewStats(clockwork.NewFakeClockAt(time.Unix(1700000000, 0)))

	rec := get(t, newTestServer(stats), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestReadyz_FollowsRunHistory(t *testing.T) {
	stats := pipeline.NewStats(clockwork.NewFakeClockAt(time.Unix(1700000000, 0)))
	srv := newTestServer(stats)

	rec := get(t, srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	stats.Record(pipeline.Outcome{Success: true})

	rec = get(t, srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatz_ReflectsRecordedRuns(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1700000000, 0))
	stats := pipeline.NewStats(clock)
	srv := newTestServer(stats)

	stats.Record(pipeline.Outcome{Success: true})
	stats.Record(pipeline.Outcome{Success: false})

	rec := get(t, srv, "/statz")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap pipeline.StatsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 2, snap.TotalRuns)
	assert.Equal(t, 1, snap.SuccessfulRuns)
	assert.Equal(t, 1, snap.FailedRuns)
	assert.Equal(t, 50.0, snap.SuccessRate)
}

func TestUnknownRouteIs404(t *testing.T) {
	stats := pipeline.NewStats(clockwork.NewFakeClockAt(time.Unix(1700000000, 0)))

	rec := get(t, newTestServer(stats), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
