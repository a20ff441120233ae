package serve

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/f1-visual-simulator/pkg/race"
	"github.com/mpapenbr/f1-visual-simulator/pkg/sim"
	"github.com/mpapenbr/f1-visual-simulator/pkg/utils/broadcast"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	lapChan := make(chan race.Snapshot, 4)
	bcst := broadcast.NewBroadcastServer("serve-test", lapChan)
	t.Cleanup(bcst.Close)
	ctrl := race.NewController(
		race.WithRandom(sim.NewSeeded(1)),
		race.WithLapListener(race.ChannelListener(lapChan)))
	static := fstest.MapFS{"index.html": {Data: []byte("<html>app</html>")}}
	return newHandler(ctrl, bcst, static)
}

func TestHandler_Routes(t *testing.T) {
	h := newTestHandler(t)
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/status", http.StatusOK},
		{http.MethodGet, "/api/race", http.StatusOK},
		{http.MethodGet, "/api/config/options", http.StatusOK},
		{http.MethodPost, "/api/race/pause", http.StatusConflict},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
		{http.MethodPost, "/api/unknown", http.StatusNotFound},
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/some/client/route", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, http.NoBody))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_StartRace(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/race/start",
		strings.NewReader(`{"totalLaps":20,"numRivals":4}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"phase":"running"`)
}

func TestHandler_CORS(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/race/start", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
