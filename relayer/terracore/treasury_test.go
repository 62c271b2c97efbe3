package terracore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTreasuryServer(t *testing.T, handler http.HandlerFunc) *Treasury {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTreasury(srv.URL+"/", time.Second, zerolog.Nop())
}

func TestTreasury_TaxRate(t *testing.T) {
	tr := newTreasuryServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/terra/treasury/v1beta1/tax_rate", r.URL.Path)
		_, _ = w.Write([]byte(`{"tax_rate":"0.005000000000000000"}`))
	})

	rate, err := tr.TaxRate(context.Background())
	require.NoError(t, err)
	assert.True(t, rate.Equal(math.LegacyMustNewDecFromStr("0.005")))
}

func TestTreasury_TaxCap(t *testing.T) {
	tr := newTreasuryServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/terra/treasury/v1beta1/tax_caps/uusd", r.URL.Path)
		_, _ = w.Write([]byte(`{"tax_cap":"1000000"}`))
	})

	capAmt, err := tr.TaxCap(context.Background(), "uusd")
	require.NoError(t, err)
	assert.True(t, capAmt.Equal(math.NewInt(1000000)))
}

func TestTreasury_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: "unexpected status code: 500"},
		{name: "bad json", status: http.StatusOK, body: "{", wantErr: "failed to decode response"},
		{name: "bad values", status: http.StatusOK, body: `{"tax_rate":"abc","tax_cap":"abc"}`, wantErr: "invalid tax"},
		{name: "negative values", status: http.StatusOK, body: `{"tax_rate":"-0.1","tax_cap":"-5"}`, wantErr: "negative tax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTreasuryServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := tr.TaxRate(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, err = tr.TaxCap(context.Background(), "uusd")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
