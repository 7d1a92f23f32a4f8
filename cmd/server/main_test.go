package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcode/internal/fiscalcode/handler"
	"fiscalcode/internal/fiscalcode/service"
	"fiscalcode/internal/platform/config"
	"fiscalcode/internal/platform/metrics"
	"fiscalcode/pkg/platform/middleware/requestid"
	"fiscalcode/pkg/testutil"
)

func TestServerWiring(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{Registry: config.Registry{LRUSize: 16}}

	reg, err := buildRegistry(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	assert.Equal(t, "embedded", reg.backend)

	svc, err := service.New(reg.resolver)
	require.NoError(t, err)
	router := newRouter(handler.New(svc, log, 0), reg, metrics.NewWith(prometheus.NewRegistry()))

	testutil.Given(t, "the embedded registry behind an LRU", func(t *testing.T) {
		testutil.Then(t, "health reports ok", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
			assert.Equal(t, http.StatusOK, rr.Code)
		})

		testutil.Then(t, "codes are generated with a request id", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/fiscal-codes", map[string]string{
				"given_name":   "Marco",
				"family_name":  "Rossi",
				"sex":          "M",
				"birth_date":   "1990-05-15",
				"municipality": "Milano",
			})
			rr := testutil.DoRequest(router, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(requestid.Header))
			resp := testutil.DecodeJSON[handler.GenerateResponse](t, rr)
			assert.Equal(t, "RSSMRC90E15F205X", resp.FiscalCode)
		})

		testutil.Then(t, "metrics are exposed", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	})
}
