package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pushchain/terra-shuttle/relayer/metrics"
)

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()
	router.Use(metrics.HTTPMiddleware)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/sequence", s.handleSequence).Methods(http.MethodGet)
	v1.HandleFunc("/relay", s.handleRelay).Methods(http.MethodPost)
	v1.HandleFunc("/txs/{hash}", s.handleTx).Methods(http.MethodGet)

	return router
}
