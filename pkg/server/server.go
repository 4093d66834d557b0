package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"smart-wallet/pkg/assistant"
	"smart-wallet/pkg/history"
	"smart-wallet/pkg/metrics"
	"smart-wallet/pkg/pricing"
	"smart-wallet/pkg/validate"
	"smart-wallet/pkg/wallet"
)

// Deps are the services the HTTP API is built on
type Deps struct {
	Assistant      *assistant.Assistant
	Pricer         *pricing.Pricer
	Quoter         *pricing.Quoter
	Bridge         *wallet.Bridge
	Executor       *wallet.Executor
	History        *history.Storage
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Logger         *zap.Logger
	DefaultBalance decimal.Decimal
}

// Server provides the wallet HTTP API
type Server struct {
	deps    Deps
	logger  *zap.Logger
	started time.Time
	handler http.Handler
	http    *http.Server
}

// NewServer creates a new HTTP server listening on port
func NewServer(port string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.DefaultBalance.IsZero() {
		deps.DefaultBalance = validate.DefaultUserBalance
	}

	s := &Server{
		deps:    deps,
		logger:  deps.Logger,
		started: time.Now(),
	}

	r := mux.NewRouter()
	r.Use(s.observe)

	// AI endpoints
	r.HandleFunc("/api/ai/parse-intent", s.handleParseIntent).Methods(http.MethodPost)
	r.HandleFunc("/api/ai/generate-transaction", s.handleGenerateTransaction).Methods(http.MethodPost)

	// DeFi endpoints
	r.HandleFunc("/api/defi/price/{token}", s.handlePrice).Methods(http.MethodGet)
	r.HandleFunc("/api/defi/quote", s.handleQuote).Methods(http.MethodPost)

	// Wallet endpoints
	r.HandleFunc("/api/wallet/validate-address", s.handleValidateAddress).Methods(http.MethodPost)
	r.HandleFunc("/api/wallet/balance/{address}", s.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/api/wallet/execute", s.handleExecute).Methods(http.MethodPost)
	r.HandleFunc("/api/wallet/transactions", s.handleTransactions).Methods(http.MethodGet)

	r.HandleFunc("/api/tokens", s.handleTokens).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// mux skips middleware for these, so they are observed directly
	r.NotFoundHandler = s.observe(http.HandlerFunc(s.handleNotFound))
	r.MethodNotAllowedHandler = s.observe(http.HandlerFunc(s.handleMethodNotAllowed))

	// CORS and recovery wrap the router so they also cover unmatched routes and preflights
	s.handler = cors(s.recoverPanics(r))

	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
