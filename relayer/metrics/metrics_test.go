package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register(zerolog.Nop())
		Register(zerolog.Nop())
	})
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(buildsTotal.WithLabelValues("built"))
	RecordBuild("built", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(buildsTotal.WithLabelValues("built")))

	before = testutil.ToFloat64(broadcastsTotal.WithLabelValues("duplicate"))
	RecordBroadcast("duplicate")
	assert.Equal(t, before+1, testutil.ToFloat64(broadcastsTotal.WithLabelValues("duplicate")))
	assert.Greater(t, testutil.ToFloat64(lastRelayTimestamp), 0.0)

	before = testutil.ToFloat64(gasPriceFallbacksTotal.WithLabelValues("status"))
	RecordGasPriceFallback("status")
	assert.Equal(t, before+1, testutil.ToFloat64(gasPriceFallbacksTotal.WithLabelValues("status")))

	before = testutil.ToFloat64(donationRedirectsTotal)
	RecordDonationRedirect()
	assert.Equal(t, before+1, testutil.ToFloat64(donationRedirectsTotal))
}

func TestHTTPMiddleware_UsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(HTTPMiddleware)
	router.HandleFunc("/api/v1/txs/{hash}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/txs/{hash}", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/txs/ABCDEF", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
