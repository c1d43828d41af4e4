// Package server exposes feature Lp pooling over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensorio"
)

// Server handles pooling requests on a single backend.
type Server struct {
	backend      lppool.Backend
	defaults     lppool.Params
	maxBodyBytes int64
}

// Config holds server configuration.
type Config struct {
	Backend      lppool.Backend
	Defaults     lppool.Params // Used for fields a request leaves out.
	MaxBodyBytes int64
}

// NewServer creates a new server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Backend == nil {
		return nil, errors.New("server: backend is required")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 32 << 20
	}
	return &Server{
		backend:      cfg.Backend,
		defaults:     cfg.Defaults,
		maxBodyBytes: cfg.MaxBodyBytes,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.metricsMiddleware(s.healthHandler))
	mux.HandleFunc("/v1/forward", s.metricsMiddleware(s.forwardHandler))
	mux.HandleFunc("/v1/backward", s.metricsMiddleware(s.backwardHandler))
	mux.Handle("/metrics", promhttp.Handler())
}

// ParamsRequest overrides the server's default parameters. Nil fields keep
// the default.
type ParamsRequest struct {
	Width        *int     `json:"width,omitempty"`
	Stride       *int     `json:"stride,omitempty"`
	Power        *float64 `json:"power,omitempty"`
	BatchMode    *bool    `json:"batch_mode,omitempty"`
	VerifyOutput *bool    `json:"verify_output,omitempty"`
}

// apply returns base with the request's overrides.
func (pr *ParamsRequest) apply(base lppool.Params) lppool.Params {
	if pr == nil {
		return base
	}
	if pr.Width != nil {
		base.Width = *pr.Width
	}
	if pr.Stride != nil {
		base.Stride = *pr.Stride
	}
	if pr.Power != nil {
		base.Power = *pr.Power
	}
	if pr.BatchMode != nil {
		base.BatchMode = *pr.BatchMode
	}
	if pr.VerifyOutput != nil {
		base.VerifyOutput = *pr.VerifyOutput
	}
	return base
}

// ForwardRequest is the body of POST /v1/forward.
type ForwardRequest struct {
	Input  tensorio.Document `json:"input"`
	Params *ParamsRequest    `json:"params,omitempty"`
}

// ForwardResponse is the result of a forward pass.
type ForwardResponse struct {
	Output    tensorio.Document `json:"output"`
	Backend   string            `json:"backend"`
	ElapsedMS float64           `json:"elapsed_ms"`
}

// BackwardRequest is the body of POST /v1/backward. Output may be omitted,
// in which case it is recomputed from Input.
type BackwardRequest struct {
	Input      tensorio.Document  `json:"input"`
	Output     *tensorio.Document `json:"output,omitempty"`
	GradOutput tensorio.Document  `json:"grad_output"`
	Params     *ParamsRequest     `json:"params,omitempty"`
}

// BackwardResponse is the result of a backward pass.
type BackwardResponse struct {
	GradInput tensorio.Document `json:"grad_input"`
	Backend   string            `json:"backend"`
	ElapsedMS float64           `json:"elapsed_ms"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Time    string `json:"time"`
}

// ErrorResponse is returned for every failed request. Error is
// invalid_request, internal_error or a configuration error kind.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Op      string `json:"op,omitempty"`
}
